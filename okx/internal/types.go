// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"encoding/json"

	"github.com/shopspring/decimal"
)

// GenericResponse is the envelope common to all OKX v5 endpoints. A request
// is successful only when Code is "0"; the transport layer does not check
// this, callers do.
type GenericResponse struct {
	Code string `json:"code"`

	Message string `json:"msg"`

	Data json.RawMessage `json:"data"`
}

type GetBalanceResponse struct {
	Code string `json:"code"`

	Message string `json:"msg"`

	Data []*BalanceData `json:"data"`
}

type BalanceData struct {
	UpdateTimeMilli string `json:"uTime"`

	Details []*BalanceDetail `json:"details"`
}

type BalanceDetail struct {
	Currency string `json:"ccy"`

	CashBalance decimal.Decimal `json:"cashBal"`
}

type ListFillsResponse struct {
	Code string `json:"code"`

	Message string `json:"msg"`

	Data []*Fill `json:"data"`
}

// Fill is one completed trade execution record from the fills-history
// endpoint.
type Fill struct {
	InstrumentID string `json:"instId"`

	TradeID string `json:"tradeId"`

	OrderID string `json:"ordId"`

	Side string `json:"side"`

	PnL decimal.Decimal `json:"pnl"`

	TimestampMilli string `json:"ts"`
}
