// Copyright (c) 2025 The profitbot Authors

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"slices"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/subcmds/cmdutil"
)

type RunPass struct {
	cmdutil.ClientFlags
}

func (c *RunPass) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("run-pass", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "run-pass", fset, cli.CmdFunc(c.run)
}

func (c *RunPass) Purpose() string {
	return "Triggers an immediate profit pass on the server"
}

func (c *RunPass) run(ctx context.Context, args []string) error {
	resp, err := cmdutil.Post[api.RunPassResponse](ctx, &c.ClientFlags, api.RunPassPath, &api.RunPassRequest{})
	if err != nil {
		return err
	}

	fmt.Printf("Date: %s\n", resp.Date)
	for _, name := range slices.Sorted(maps.Keys(resp.Bots)) {
		b := resp.Bots[name]
		fmt.Printf("%s (%s): %s USDT (%s%%) over %d trades\n",
			name, b.Symbol, b.ProfitUSDT.StringFixed(3), b.ProfitPercentage.StringFixed(3), b.NumTrades)
	}
	return nil
}
