// Copyright (c) 2025 The profitbot Authors

package okx

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/server"
)

type ListFills struct {
	secretsPath string

	instrument string

	period time.Duration
}

func (c *ListFills) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("list-fills", flag.ContinueOnError)
	fset.StringVar(&c.instrument, "instrument", "", "instrument id for the fills (eg, BTC-USDT)")
	fset.DurationVar(&c.period, "period", 24*time.Hour, "how far back to fetch fills")
	fset.StringVar(&c.secretsPath, "secrets-file", "", "path to credentials file")
	return "list-fills", fset, cli.CmdFunc(c.run)
}

func (c *ListFills) Purpose() string {
	return "Fetch recent trade fills for an instrument from OKX."
}

func (c *ListFills) run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(c.instrument) == 0 {
		return fmt.Errorf("instrument id is required")
	}
	if len(c.secretsPath) == 0 {
		return fmt.Errorf("secrets file must be specified")
	}
	secrets, err := server.SecretsFromFile(c.secretsPath)
	if err != nil {
		return err
	}
	if secrets.OKX == nil {
		return fmt.Errorf("secrets file has no okx credentials")
	}

	client, err := okx.New(secrets.OKX, nil /* opts */)
	if err != nil {
		return fmt.Errorf("could not create okx client: %w", err)
	}
	defer client.Close()

	now := time.Now()
	resp, err := client.ListFills(ctx, c.instrument, now.Add(-c.period), now)
	if err != nil {
		return err
	}
	if resp.Code != "0" {
		return fmt.Errorf("fills request was unsuccessful: %s (%s)", resp.Message, resp.Code)
	}

	js, _ := json.MarshalIndent(resp.Data, "", "  ")
	fmt.Printf("%s\n", js)
	return nil
}
