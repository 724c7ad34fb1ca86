// Copyright (c) 2025 The profitbot Authors

package server

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/telegram"
)

type Secrets struct {
	OKX      *okx.Credentials  `json:"okx"`
	Telegram *telegram.Secrets `json:"telegram"`
}

func SecretsFromFile(fpath string) (*Secrets, error) {
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, err
	}
	s := new(Secrets)
	if err := json.Unmarshal(data, s); err != nil {
		return nil, err
	}
	return s, nil
}

func (v *Secrets) Check() error {
	if v.OKX == nil {
		return fmt.Errorf("okx credentials are required")
	}
	if err := v.OKX.Check(); err != nil {
		return err
	}
	if v.Telegram != nil {
		if err := v.Telegram.Check(); err != nil {
			return err
		}
	}
	return nil
}
