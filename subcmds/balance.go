// Copyright (c) 2025 The profitbot Authors

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"os"
	"text/tabwriter"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/subcmds/cmdutil"
)

type Balance struct {
	cmdutil.ClientFlags

	all bool
}

func (c *Balance) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("balance", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.BoolVar(&c.all, "all", false, "when true, zero balances are also printed")
	return "balance", fset, cli.CmdFunc(c.run)
}

func (c *Balance) Purpose() string {
	return "Prints account balances from the exchange"
}

func (c *Balance) run(ctx context.Context, args []string) error {
	resp, err := cmdutil.Post[api.BalanceResponse](ctx, &c.ClientFlags, api.BalancePath, &api.BalanceRequest{})
	if err != nil {
		return err
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Currency\tBalance\t")
	for _, b := range resp.Balances {
		if !c.all && !b.CashBalance.IsPositive() {
			continue
		}
		fmt.Fprintf(tw, "%s\t%s\t\n", b.Currency, b.CashBalance.String())
	}
	return tw.Flush()
}
