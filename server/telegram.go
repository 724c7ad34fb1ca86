// Copyright (c) 2025 The profitbot Authors

package server

import (
	"context"
	"fmt"
	"maps"
	"slices"
	"strings"
	"time"

	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/telegram"
	"github.com/okxbot/profitbot/timerange"
	"github.com/okxbot/profitbot/tracker"
)

func (s *Server) AddTelegramCommand(ctx context.Context, name, purpose string, handler telegram.CmdFunc) error {
	if s.telegramClient != nil {
		return s.telegramClient.AddCommand(ctx, name, purpose, handler)
	}
	return nil // Ignored
}

func (s *Server) addTelegramCommands(ctx context.Context) error {
	cmds := []struct {
		name, purpose string
		handler       telegram.CmdFunc
	}{
		{"today", "Prints today's per-bot profit summary", s.todayTelegramCmd},
		{"month", "Prints this month's per-bot profit summary", s.monthTelegramCmd},
		{"balance", "Prints non-zero account balances", s.balanceTelegramCmd},
		{"runpass", "Runs a profit pass immediately", s.runPassTelegramCmd},
		{"status", "Prints tracker status", s.statusTelegramCmd},
	}
	for _, c := range cmds {
		if err := s.AddTelegramCommand(ctx, c.name, c.purpose, c.handler); err != nil {
			return fmt.Errorf("could not add telegram command %q: %w", c.name, err)
		}
	}
	return nil
}

func formatDailyRecord(date string, record tracker.DailyRecord) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Profit for %s\n", date)
	if len(record) == 0 {
		fmt.Fprintf(&sb, "No bot has any trades.\n")
		return sb.String()
	}
	total := decimal.Zero
	for _, name := range slices.Sorted(maps.Keys(record)) {
		stat := record[name]
		fmt.Fprintf(&sb, "%s (%s): %s USDT (%s%%) over %d trades\n",
			name, stat.Symbol, stat.ProfitUSDT.StringFixed(3), stat.ProfitPercentage.StringFixed(3), stat.NumTrades)
		total = total.Add(stat.ProfitUSDT)
	}
	fmt.Fprintf(&sb, "Total: %s USDT\n", total.StringFixed(3))
	return sb.String()
}

func formatMonthlyStats(month string, statMap map[string]*tracker.MonthlyStat) string {
	var sb strings.Builder
	fmt.Fprintf(&sb, "Profit for month %s\n", month)
	if len(statMap) == 0 {
		fmt.Fprintf(&sb, "No bot has any trades.\n")
		return sb.String()
	}
	total := decimal.Zero
	for _, name := range slices.Sorted(maps.Keys(statMap)) {
		stat := statMap[name]
		fmt.Fprintf(&sb, "%s (%s): %s USDT over %d trades on %d days (avg %s)\n",
			name, stat.Symbol, stat.TotalProfit.StringFixed(3), stat.NumTrades, stat.NumActiveDays, stat.AvgPercentage.StringFixed(3))
		total = total.Add(stat.TotalProfit)
	}
	fmt.Fprintf(&sb, "Total: %s USDT\n", total.StringFixed(3))
	return sb.String()
}

func (s *Server) todayTelegramCmd(ctx context.Context, args []string) error {
	date := ""
	if len(args) > 0 {
		date = args[0]
	}
	record, err := s.tracker.Daily(date)
	if err != nil {
		return err
	}
	if len(date) == 0 {
		date = time.Now().In(s.opts.Zone).Format(tracker.DateKeyFormat)
	}
	fmt.Fprint(cli.Stdout(ctx), formatDailyRecord(date, record))
	return nil
}

func (s *Server) monthTelegramCmd(ctx context.Context, args []string) error {
	var period *timerange.Range
	var month string
	if len(args) > 0 {
		begin, err := time.ParseInLocation("2006-01", args[0], s.opts.Zone)
		if err != nil {
			return fmt.Errorf("could not parse month %q: %w", args[0], err)
		}
		period = &timerange.Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
		month = args[0]
	} else {
		period = timerange.ThisMonth(s.opts.Zone)
		month = period.Begin.Format("2006-01")
	}
	fmt.Fprint(cli.Stdout(ctx), formatMonthlyStats(month, s.tracker.Monthly(period)))
	return nil
}

func (s *Server) balanceTelegramCmd(ctx context.Context, args []string) error {
	details := s.tracker.GetAccountBalance(ctx)
	if details == nil {
		return fmt.Errorf("could not fetch account balance")
	}
	stdout := cli.Stdout(ctx)
	nonzero := 0
	for _, d := range details {
		if d.CashBalance.IsPositive() {
			fmt.Fprintf(stdout, "%s: %s\n", d.Currency, d.CashBalance.String())
			nonzero++
		}
	}
	if nonzero == 0 {
		fmt.Fprintf(stdout, "No non-zero balances.\n")
	}
	return nil
}

func (s *Server) runPassTelegramCmd(ctx context.Context, args []string) error {
	record := s.RunPass(ctx)
	if record == nil {
		return fmt.Errorf("profit pass was abandoned")
	}
	date := time.Now().In(s.opts.Zone).Format(tracker.DateKeyFormat)
	fmt.Fprint(cli.Stdout(ctx), formatDailyRecord(date, record))
	return nil
}

func (s *Server) statusTelegramCmd(ctx context.Context, args []string) error {
	resp, err := s.doStatus(ctx, nil)
	if err != nil {
		return err
	}
	stdout := cli.Stdout(ctx)
	fmt.Fprintf(stdout, "Uptime: %v\n", time.Since(resp.StartTime).Round(time.Second))
	fmt.Fprintf(stdout, "Passes: %d\n", resp.NumPasses)
	if !resp.LastPassTime.IsZero() {
		fmt.Fprintf(stdout, "Last pass: %s\n", resp.LastPassTime.Format(time.RFC1123))
	}
	if !resp.NextPassTime.IsZero() {
		fmt.Fprintf(stdout, "Next pass: %s\n", resp.NextPassTime.Format(time.RFC1123))
	}
	for _, b := range resp.Bots {
		fmt.Fprintf(stdout, "Bot: %s %s %s\n", b.Name, b.Symbol, b.Strategy)
	}
	return nil
}
