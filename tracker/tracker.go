// Copyright (c) 2025 The profitbot Authors

// Package tracker summarizes per-bot realized profit from exchange
// fill history into in-memory daily and monthly views.
package tracker

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"time"

	"github.com/shopspring/decimal"
	"github.com/visvasity/topic"

	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/timerange"
)

// successCode is the OKX api response envelope code for success.
const successCode = "0"

var d100 = decimal.NewFromInt(100)

// Exchange is the surface of the okx client used by the tracker.
type Exchange interface {
	ListFills(ctx context.Context, instrumentID string, from, to time.Time) (*okx.ListFillsResponse, error)
	GetBalance(ctx context.Context) (*okx.GetBalanceResponse, error)
}

type Options struct {
	// Notional is the reference capital, in USDT, against which
	// absolute profit is expressed as a percentage. It is a reporting
	// assumption, not the account equity.
	Notional decimal.Decimal

	// Zone determines day boundaries for daily record keys.
	Zone *time.Location
}

func (v *Options) setDefaults() {
	if v.Notional.IsZero() {
		v.Notional = decimal.NewFromInt(10000)
	}
	if v.Zone == nil {
		v.Zone = time.Local
	}
}

func (v *Options) Check() error {
	if v.Notional.IsNegative() {
		return fmt.Errorf("notional cannot be negative: %w", os.ErrInvalid)
	}
	return nil
}

// Tracker runs daily profit passes over a fixed bot roster and serves
// the accumulated daily/monthly views.
type Tracker struct {
	opts Options

	exchange Exchange

	bots []*BotDefinition

	store *Store

	passTopic *topic.Topic[DailyRecord]
}

// New creates a tracker over the given exchange and bot roster. A nil
// roster selects DefaultBots.
func New(exchange Exchange, bots []*BotDefinition, opts *Options) (*Tracker, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	if bots == nil {
		bots = DefaultBots()
	}
	nameMap := make(map[string]bool)
	for _, b := range bots {
		if err := b.Check(); err != nil {
			return nil, err
		}
		if nameMap[b.Name] {
			return nil, fmt.Errorf("bot name %q is repeated: %w", b.Name, os.ErrInvalid)
		}
		nameMap[b.Name] = true
	}

	t := &Tracker{
		opts:      *opts,
		exchange:  exchange,
		bots:      bots,
		store:     NewStore(opts.Zone),
		passTopic: topic.New[DailyRecord](),
	}
	return t, nil
}

func (t *Tracker) Close() error {
	t.passTopic.Close()
	return nil
}

// Bots returns the tracked bot roster.
func (t *Tracker) Bots() []*BotDefinition {
	bots := make([]*BotDefinition, len(t.bots))
	copy(bots, t.bots)
	return bots
}

// PassResults subscribes to records produced by completed passes.
func (t *Tracker) PassResults() (*topic.Receiver[DailyRecord], error) {
	return topic.Subscribe(t.passTopic, 1, true /* includeRecent */)
}

// RunDailyPass fetches the last 24 hours of fills for every bot in
// the roster and replaces today's daily record with the result. Bots
// whose fills cannot be fetched, or that have no fills, are left out
// of the record. Returns nil if the context expires mid-pass; a
// partial record is never stored.
func (t *Tracker) RunDailyPass(ctx context.Context) DailyRecord {
	now := time.Now().In(t.opts.Zone)
	from, to := now.AddDate(0, 0, -1), now

	record := make(DailyRecord)
	for _, bot := range t.bots {
		if ctx.Err() != nil {
			slog.WarnContext(ctx, "daily pass is abandoned", "cause", context.Cause(ctx))
			return nil
		}

		resp, err := t.exchange.ListFills(ctx, bot.Symbol, from, to)
		if err != nil {
			slog.WarnContext(ctx, "could not fetch fills (bot is skipped for this pass)", "bot", bot.Name, "symbol", bot.Symbol, "err", err)
			continue
		}
		if resp.Code != successCode {
			slog.WarnContext(ctx, "fills response was unsuccessful (bot is skipped for this pass)", "bot", bot.Name, "code", resp.Code, "msg", resp.Message)
			continue
		}
		if len(resp.Data) == 0 {
			continue
		}

		profit := decimal.Zero
		for _, fill := range resp.Data {
			profit = profit.Add(fill.PnL)
		}
		record[bot.Name] = &BotDailyStat{
			Symbol:           bot.Symbol,
			ProfitUSDT:       profit,
			ProfitPercentage: profit.Mul(d100).Div(t.opts.Notional),
			NumTrades:        len(resp.Data),
		}
	}

	t.store.SetDaily(t.store.DateKey(now), record)
	t.passTopic.Send(record)
	return record
}

// Daily returns the record for the given DateKeyFormat date. An empty
// date selects today.
func (t *Tracker) Daily(date string) (DailyRecord, error) {
	if date == "" {
		date = t.store.DateKey(time.Now())
	}
	if _, err := time.ParseInLocation(DateKeyFormat, date, t.opts.Zone); err != nil {
		return nil, fmt.Errorf("could not parse date %q: %w", date, err)
	}
	return t.store.Daily(date), nil
}

// Monthly returns per-bot stats folded over the given period. A nil
// period selects the current month.
func (t *Tracker) Monthly(period *timerange.Range) map[string]*MonthlyStat {
	return t.store.Monthly(period)
}

// GetAccountBalance returns the account balance details, or nil when
// the balance cannot be fetched for any reason.
func (t *Tracker) GetAccountBalance(ctx context.Context) []*okx.BalanceDetail {
	resp, err := t.exchange.GetBalance(ctx)
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "could not fetch account balance", "err", err)
		}
		return nil
	}
	if resp.Code != successCode {
		slog.WarnContext(ctx, "balance response was unsuccessful", "code", resp.Code, "msg", resp.Message)
		return nil
	}
	var details []*okx.BalanceDetail
	for _, b := range resp.Data {
		details = append(details, b.Details...)
	}
	return details
}
