// Copyright (c) 2025 The profitbot Authors

package tracker

import (
	"maps"

	"github.com/shopspring/decimal"
)

// BotDailyStat holds one bot's realized result for a single day.
type BotDailyStat struct {
	Symbol string `json:"symbol"`

	// ProfitUSDT is the sum of realized pnl over the day's fills.
	ProfitUSDT decimal.Decimal `json:"profit_usdt"`

	// ProfitPercentage expresses ProfitUSDT against the configured
	// notional reference capital, as a percentage.
	ProfitPercentage decimal.Decimal `json:"profit_percentage"`

	NumTrades int `json:"trades_count"`
}

// DailyRecord maps bot names to their stats for one day. Bots whose
// fills could not be fetched on a pass are simply absent.
type DailyRecord map[string]*BotDailyStat

// Clone returns a copy of the record sharing the stat values.
func (r DailyRecord) Clone() DailyRecord {
	c := make(DailyRecord, len(r))
	maps.Copy(c, r)
	return c
}

// MonthlyStat holds one bot's results folded over a month.
type MonthlyStat struct {
	Symbol string `json:"symbol"`

	TotalProfit decimal.Decimal `json:"total_profit"`

	NumTrades int `json:"total_trades"`

	// NumActiveDays counts the days on which the bot has a daily stat.
	NumActiveDays int `json:"active_days"`

	// AvgPercentage is TotalProfit divided by NumActiveDays. Despite
	// the name, this is an average daily profit in USDT, not a
	// percentage; it is kept as-is for continuity with the reports
	// users already read.
	AvgPercentage decimal.Decimal `json:"avg_percentage"`
}
