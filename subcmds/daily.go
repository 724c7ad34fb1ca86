// Copyright (c) 2025 The profitbot Authors

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"maps"
	"os"
	"slices"
	"text/tabwriter"

	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/subcmds/cmdutil"
)

type Daily struct {
	cmdutil.ClientFlags

	date string
}

func (c *Daily) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("daily", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.date, "date", "", "date in YYYY-MM-DD form (default=today)")
	return "daily", fset, cli.CmdFunc(c.run)
}

func (c *Daily) Purpose() string {
	return "Prints per-bot profit summary for one day"
}

func (c *Daily) run(ctx context.Context, args []string) error {
	req := &api.DailyRequest{
		Date: c.date,
	}
	resp, err := cmdutil.Post[api.DailyResponse](ctx, &c.ClientFlags, api.DailyPath, req)
	if err != nil {
		return err
	}

	fmt.Printf("Date: %s\n", resp.Date)
	if len(resp.Bots) == 0 {
		fmt.Println("No bot has any trades.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Bot\tSymbol\tProfit (USDT)\tProfit %\tTrades\t")
	total := decimal.Zero
	for _, name := range slices.Sorted(maps.Keys(resp.Bots)) {
		b := resp.Bots[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%s\t%d\t\n",
			name, b.Symbol, b.ProfitUSDT.StringFixed(3), b.ProfitPercentage.StringFixed(3), b.NumTrades)
		total = total.Add(b.ProfitUSDT)
	}
	fmt.Fprintf(tw, "Total\t\t%s\t\t\t\n", total.StringFixed(3))
	return tw.Flush()
}
