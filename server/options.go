// Copyright (c) 2025 The profitbot Authors

package server

import (
	"fmt"
	"os"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okxbot/profitbot/tracker"
)

type Options struct {
	// Zone determines day boundaries for daily profit records.
	Zone *time.Location

	// PassInterval holds the wait between automatic profit passes.
	PassInterval time.Duration

	// Notional is the reference capital used to express bot profits
	// as percentages.
	Notional decimal.Decimal

	// Bots holds the tracked bot roster. A nil roster selects the
	// built-in default bots.
	Bots []*tracker.BotDefinition

	// NoRunPasses disables the automatic profit passes. Passes can
	// still be triggered through the api.
	NoRunPasses bool
}

func (v *Options) setDefaults() {
	if v.Zone == nil {
		v.Zone = time.Local
	}
	if v.PassInterval == 0 {
		v.PassInterval = 24 * time.Hour
	}
}

func (v *Options) Check() error {
	if v.PassInterval < time.Minute {
		return fmt.Errorf("pass interval %s is too small: %w", v.PassInterval, os.ErrInvalid)
	}
	return nil
}
