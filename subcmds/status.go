// Copyright (c) 2025 The profitbot Authors

package subcmds

import (
	"context"
	"flag"
	"fmt"
	"time"

	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/subcmds/cmdutil"
)

type Status struct {
	cmdutil.ClientFlags
}

func (c *Status) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("status", flag.ContinueOnError)
	c.ClientFlags.SetFlags(fset)
	return "status", fset, cli.CmdFunc(c.run)
}

func (c *Status) Purpose() string {
	return "Prints profitbot server status"
}

func (c *Status) run(ctx context.Context, args []string) error {
	resp, err := cmdutil.Post[api.StatusResponse](ctx, &c.ClientFlags, api.StatusPath, &api.StatusRequest{})
	if err != nil {
		return err
	}

	fmt.Printf("PID: %d\n", resp.PID)
	fmt.Printf("Uptime: %v\n", time.Since(resp.StartTime).Round(time.Second))
	fmt.Printf("Passes: %d\n", resp.NumPasses)
	if !resp.LastPassTime.IsZero() {
		fmt.Printf("Last pass: %s\n", resp.LastPassTime.Format(time.RFC1123))
	}
	if !resp.NextPassTime.IsZero() {
		fmt.Printf("Next pass: %s\n", resp.NextPassTime.Format(time.RFC1123))
	}
	fmt.Printf("Memory RSS: %.2f MB\n", float64(resp.MemoryRSS)/1024/1024)
	fmt.Printf("CPU: %.2f%%\n", resp.CPUPercentage)
	for _, b := range resp.Bots {
		fmt.Printf("Bot: %s %s %s\n", b.Name, b.Symbol, b.Strategy)
	}
	return nil
}
