// Copyright (c) 2025 The profitbot Authors

package api

const (
	DailyPath = "/tracker/daily"

	MonthlyPath = "/tracker/monthly"

	BalancePath = "/tracker/balance"

	RunPassPath = "/tracker/run-pass"

	StatusPath = "/tracker/status"
)
