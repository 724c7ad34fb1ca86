// Copyright (c) 2025 The profitbot Authors

// Package okx implements a REST client for the OKX v5 exchange API. Only the
// read-side endpoints needed for profit tracking are covered: account
// balances and trade fill history.
package okx

import (
	"context"
	"net/url"
	"strconv"
	"time"

	"github.com/okxbot/profitbot/okx/internal"
)

type Options = internal.Options

// Response and record types are defined by the transport layer; aliased here
// so callers never import okx/internal.
type (
	Fill              = internal.Fill
	ListFillsResponse = internal.ListFillsResponse

	BalanceData        = internal.BalanceData
	BalanceDetail      = internal.BalanceDetail
	GetBalanceResponse = internal.GetBalanceResponse
)

type Client struct {
	internal *internal.Client
}

// New creates a client for the OKX exchange.
func New(creds *Credentials, opts *Options) (*Client, error) {
	if err := creds.Check(); err != nil {
		return nil, err
	}
	ic, err := internal.New(creds.Key, creds.Secret, creds.Passphrase, opts)
	if err != nil {
		return nil, err
	}
	return &Client{internal: ic}, nil
}

func (c *Client) Close() error {
	return c.internal.Close()
}

// ListFills fetches trade fills for the given instrument over [from, to),
// expressed as exchange-native millisecond epoch timestamps. The envelope is
// returned as-is; callers decide what a non-"0" code means.
func (c *Client) ListFills(ctx context.Context, instrumentID string, from, to time.Time) (*ListFillsResponse, error) {
	values := make(url.Values)
	values.Set("instId", instrumentID)
	values.Set("after", strconv.FormatInt(from.UnixMilli(), 10))
	values.Set("before", strconv.FormatInt(to.UnixMilli(), 10))
	return c.internal.ListFills(ctx, values)
}

// GetBalance fetches the trading account balance envelope.
func (c *Client) GetBalance(ctx context.Context) (*GetBalanceResponse, error) {
	return c.internal.GetBalance(ctx)
}
