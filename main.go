// Copyright (c) 2025 The profitbot Authors

// Command profitbot tracks per-bot trading profits on the OKX
// exchange and serves daily/monthly summaries over a local http api
// and a Telegram bot.
package main

import (
	"context"
	"log"
	"log/slog"
	"os"

	"github.com/visvasity/cli"
	"github.com/visvasity/sglog"

	"github.com/okxbot/profitbot/envfile"
	"github.com/okxbot/profitbot/subcmds"
	"github.com/okxbot/profitbot/subcmds/okx"
	"github.com/okxbot/profitbot/subcmds/setup"
)

func main() {
	backend := sglog.NewBackend(&sglog.Options{})
	slog.SetDefault(slog.New(backend.Handler()))

	if err := envfile.UpdateEnv(".profitbot.env", envfile.VariableNamePrefix("PROFITBOT_")); err != nil {
		log.Fatalf("could not load environment file: %v", err)
	}

	setupCmds := []cli.Command{
		new(setup.OKX),
		new(setup.Telegram),
	}

	okxCmds := []cli.Command{
		new(okx.GetBalance),
		new(okx.ListFills),
	}

	cmds := []cli.Command{
		new(subcmds.Run),
		new(subcmds.Status),
		new(subcmds.Daily),
		new(subcmds.Monthly),
		new(subcmds.Balance),
		new(subcmds.RunPass),
		cli.NewGroup("setup", "Configure api keys and other parameters", setupCmds...),
		cli.NewGroup("okx", "View/query the OKX exchange directly", okxCmds...),
	}
	if err := cli.Run(context.Background(), cmds, os.Args[1:]); err != nil {
		log.Fatal(err)
	}
}
