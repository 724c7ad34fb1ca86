// Copyright (c) 2025 The profitbot Authors

// Package setup holds subcommands that configure the profitbot
// service credentials.
package setup

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"os"
	"path/filepath"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/server"
)

type OKX struct {
	dataDir     string
	skipTesting bool

	key        string
	secret     string
	passphrase string
}

func (c *OKX) Purpose() string {
	return "Setup configures OKX API access parameters"
}

func (c *OKX) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("okx", flag.ContinueOnError)
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	fset.StringVar(&c.key, "access-key", "", "OKX API access key as a string")
	fset.StringVar(&c.secret, "access-secret", "", "OKX API access secret as a string")
	fset.StringVar(&c.passphrase, "passphrase", "", "OKX API key passphrase as a string")
	fset.BoolVar(&c.skipTesting, "skip-testing", false, "don't test the parameters")
	return "okx", fset, cli.CmdFunc(c.run)
}

func (c *OKX) Description() string {
	return `

Command "okx" helps users configure OKX exchange API keys.

OKX API keys are required to fetch account balances and trade fill
history from the OKX exchange. They can be configured as follows:

  $ profitbot setup okx --access-key=xxxx --access-secret=yyyy --passphrase=zzzz

`
}

func (c *OKX) run(ctx context.Context, args []string) error {
	if len(c.dataDir) == 0 {
		c.dataDir = filepath.Join(os.Getenv("HOME"), ".profitbot")
	}
	if _, err := os.Stat(c.dataDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat data directory %q: %w", c.dataDir, err)
		}
		if err := os.MkdirAll(c.dataDir, 0700); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", c.dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(c.dataDir)
	if err != nil {
		return fmt.Errorf("could not determine data-dir %q absolute path: %w", c.dataDir, err)
	}

	if len(c.key) == 0 {
		return fmt.Errorf("--access-key flag is required")
	}
	if len(c.secret) == 0 {
		return fmt.Errorf("--access-secret flag is required")
	}
	if len(c.passphrase) == 0 {
		return fmt.Errorf("--passphrase flag is required")
	}

	secretsPath := filepath.Join(dataDir, "secrets.json")
	secrets, err := server.SecretsFromFile(secretsPath)
	if err != nil {
		if !errors.Is(err, os.ErrNotExist) {
			return err
		}
	}
	if secrets == nil {
		secrets = &server.Secrets{}
	}

	secrets.OKX = &okx.Credentials{
		Key:        c.key,
		Secret:     c.secret,
		Passphrase: c.passphrase,
	}
	if err := secrets.Check(); err != nil {
		return err
	}

	if !c.skipTesting {
		client, err := okx.New(secrets.OKX, nil /* opts */)
		if err != nil {
			return err
		}
		defer client.Close()

		resp, err := client.GetBalance(ctx)
		if err != nil {
			return fmt.Errorf("could not fetch account balance: %w", err)
		}
		if resp.Code != "0" {
			return fmt.Errorf("balance request was unsuccessful: %s (%s)", resp.Message, resp.Code)
		}
	}

	js, err := json.MarshalIndent(secrets, "", "  ")
	if err != nil {
		return err
	}
	if err := os.WriteFile(secretsPath, js, os.FileMode(0600)); err != nil {
		return err
	}
	return nil
}
