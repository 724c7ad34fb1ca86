// Copyright (c) 2025 The profitbot Authors

package tracker

import (
	"fmt"
	"os"
)

// BotDefinition identifies one trading bot whose fills are summarized
// by the daily pass. Name is the stable identity used as the key in
// daily records; Symbol is the OKX instrument the bot trades.
type BotDefinition struct {
	Name     string `json:"name"`
	Symbol   string `json:"symbol"`
	Strategy string `json:"strategy"`
}

func (v *BotDefinition) Check() error {
	if len(v.Name) == 0 {
		return fmt.Errorf("bot name cannot be empty: %w", os.ErrInvalid)
	}
	if len(v.Symbol) == 0 {
		return fmt.Errorf("bot %q instrument symbol cannot be empty: %w", v.Name, os.ErrInvalid)
	}
	return nil
}

// DefaultBots returns the built-in bot roster used when no roster is
// configured during setup.
func DefaultBots() []*BotDefinition {
	return []*BotDefinition{
		{Name: "Bot-DCA-BTC", Symbol: "BTC-USDT", Strategy: "DCA"},
		{Name: "Bot-Grid-ETH", Symbol: "ETH-USDT", Strategy: "Grid"},
		{Name: "Bot-Martingale-BNB", Symbol: "BNB-USDT", Strategy: "Martingale"},
	}
}
