// Copyright (c) 2025 The profitbot Authors

// Package api defines the request/response types of the local http
// endpoints.
package api

import (
	"time"

	"github.com/shopspring/decimal"
)

type BotDailyStats struct {
	Symbol string `json:"symbol"`

	ProfitUSDT decimal.Decimal `json:"profit_usdt"`

	ProfitPercentage decimal.Decimal `json:"profit_percentage"`

	NumTrades int `json:"trades_count"`
}

type BotMonthlyStats struct {
	Symbol string `json:"symbol"`

	TotalProfit decimal.Decimal `json:"total_profit"`

	NumTrades int `json:"total_trades"`

	NumActiveDays int `json:"active_days"`

	AvgPercentage decimal.Decimal `json:"avg_percentage"`
}

type DailyRequest struct {
	// Date selects the day in "2006-01-02" form. Empty selects today.
	Date string `json:"date"`
}

type DailyResponse struct {
	Date string `json:"date"`

	Bots map[string]*BotDailyStats `json:"bots"`
}

type MonthlyRequest struct {
	// Month selects the month in "2006-01" form. Empty selects the
	// current month.
	Month string `json:"month"`
}

type MonthlyResponse struct {
	Month string `json:"month"`

	Bots map[string]*BotMonthlyStats `json:"bots"`
}

type BalanceRequest struct {
}

type BalanceItem struct {
	Currency string `json:"currency"`

	CashBalance decimal.Decimal `json:"cash_balance"`
}

type BalanceResponse struct {
	Balances []*BalanceItem `json:"balances"`
}

type RunPassRequest struct {
}

type RunPassResponse struct {
	Date string `json:"date"`

	Bots map[string]*BotDailyStats `json:"bots"`
}

type StatusRequest struct {
}

type StatusBot struct {
	Name string `json:"name"`

	Symbol string `json:"symbol"`

	Strategy string `json:"strategy"`
}

type StatusResponse struct {
	PID int `json:"pid"`

	StartTime time.Time `json:"start_time"`

	NumPasses int64 `json:"num_passes"`

	LastPassTime time.Time `json:"last_pass_time"`

	NextPassTime time.Time `json:"next_pass_time"`

	MemoryRSS uint64 `json:"memory_rss"`

	CPUPercentage float64 `json:"cpu_percentage"`

	Bots []*StatusBot `json:"bots"`
}
