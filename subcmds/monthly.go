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

type Monthly struct {
	cmdutil.ClientFlags

	month string
}

func (c *Monthly) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("monthly", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	fset.StringVar(&c.month, "month", "", "month in YYYY-MM form (default=current month)")
	return "monthly", fset, cli.CmdFunc(c.run)
}

func (c *Monthly) Purpose() string {
	return "Prints per-bot profit summary for one month"
}

func (c *Monthly) run(ctx context.Context, args []string) error {
	req := &api.MonthlyRequest{
		Month: c.month,
	}
	resp, err := cmdutil.Post[api.MonthlyResponse](ctx, &c.ClientFlags, api.MonthlyPath, req)
	if err != nil {
		return err
	}

	fmt.Printf("Month: %s\n", resp.Month)
	if len(resp.Bots) == 0 {
		fmt.Println("No bot has any trades.")
		return nil
	}

	tw := tabwriter.NewWriter(os.Stdout, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "Bot\tSymbol\tProfit (USDT)\tTrades\tActive Days\tDaily Avg\t")
	total := decimal.Zero
	for _, name := range slices.Sorted(maps.Keys(resp.Bots)) {
		b := resp.Bots[name]
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\t%d\t%s\t\n",
			name, b.Symbol, b.TotalProfit.StringFixed(3), b.NumTrades, b.NumActiveDays, b.AvgPercentage.StringFixed(3))
		total = total.Add(b.TotalProfit)
	}
	fmt.Fprintf(tw, "Total\t\t%s\t\t\t\t\n", total.StringFixed(3))
	return tw.Flush()
}
