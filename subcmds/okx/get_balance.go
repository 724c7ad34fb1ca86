// Copyright (c) 2025 The profitbot Authors

// Package okx holds subcommands that query the OKX exchange directly,
// without going through the profitbot server.
package okx

import (
	"context"
	"encoding/json"
	"flag"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/server"
)

type GetBalance struct {
	secretsPath string
}

func (c *GetBalance) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("get-balance", flag.ContinueOnError)
	fset.StringVar(&c.secretsPath, "secrets-file", "", "path to credentials file")
	return "get-balance", fset, cli.CmdFunc(c.run)
}

func (c *GetBalance) Purpose() string {
	return "Fetch account balances from OKX."
}

func (c *GetBalance) run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

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

	resp, err := client.GetBalance(ctx)
	if err != nil {
		return err
	}
	if resp.Code != "0" {
		return fmt.Errorf("balance request was unsuccessful: %s (%s)", resp.Message, resp.Code)
	}

	js, _ := json.MarshalIndent(resp.Data, "", "  ")
	fmt.Printf("%s\n", js)
	return nil
}
