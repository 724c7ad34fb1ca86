// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"log/slog"
	"net/http"
	"net/url"
	"strings"
	"time"

	"golang.org/x/time/rate"
)

type Client struct {
	opts Options

	restURL *url.URL

	key, secret, passphrase string

	client http.Client

	limiter *rate.Limiter
}

// New returns a new client instance.
func New(key, secret, passphrase string, opts *Options) (*Client, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}
	restURL, err := url.Parse(opts.RestURL)
	if err != nil {
		return nil, fmt.Errorf("could not parse rest url %q: %w", opts.RestURL, err)
	}

	c := &Client{
		opts:       *opts,
		restURL:    restURL,
		key:        key,
		secret:     secret,
		passphrase: passphrase,
		client: http.Client{
			Timeout: opts.HttpClientTimeout,
		},
		limiter: rate.NewLimiter(rate.Limit(opts.RateLimitPerSec), 1),
	}
	return c, nil
}

// Close releases resources held by the client.
func (c *Client) Close() error {
	return nil
}

// GetBalance retrieves per-currency balances for the trading account. The
// response envelope is returned without validating its status code.
func (c *Client) GetBalance(ctx context.Context) (*GetBalanceResponse, error) {
	addrURL := &url.URL{
		Scheme: c.restURL.Scheme,
		Host:   c.restURL.Host,
		Path:   "/api/v5/account/balance",
	}
	resp := new(GetBalanceResponse)
	if err := httpGetJSON(ctx, c, addrURL, resp); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("could not get account balance", "url", addrURL, "err", err)
		}
		return nil, err
	}
	return resp, nil
}

// ListFills retrieves trade fill history matching the given query values
// (instId, after, before). The response envelope is returned without
// validating its status code.
func (c *Client) ListFills(ctx context.Context, values url.Values) (*ListFillsResponse, error) {
	addrURL := &url.URL{
		Scheme:   c.restURL.Scheme,
		Host:     c.restURL.Host,
		Path:     "/api/v5/trade/fills-history",
		RawQuery: values.Encode(),
	}
	resp := new(ListFillsResponse)
	if err := httpGetJSON(ctx, c, addrURL, resp); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("could not list trade fills", "url", addrURL, "err", err)
		}
		return nil, err
	}
	return resp, nil
}

// do signs and dispatches a single request. The signed request path and the
// dispatched request path are the same string, query included.
func (c *Client) do(ctx context.Context, method string, addrURL *url.URL, body string) (*http.Response, error) {
	requestPath := addrURL.Path
	if len(addrURL.RawQuery) != 0 {
		requestPath += "?" + addrURL.RawQuery
	}

	timestamp := Timestamp(time.Now())
	signature := Sign(c.secret, timestamp, method, requestPath, body)

	var reqBody io.Reader
	if body != "" {
		reqBody = strings.NewReader(body)
	}
	req, err := http.NewRequestWithContext(ctx, method, addrURL.String(), reqBody)
	if err != nil {
		slog.Error("could not create http request object with context", "method", method, "url", addrURL, "err", err)
		return nil, err
	}

	req.Header.Add("Content-Type", "application/json")
	req.Header.Add("OK-ACCESS-KEY", c.key)
	req.Header.Add("OK-ACCESS-SIGN", signature)
	req.Header.Add("OK-ACCESS-TIMESTAMP", timestamp)
	req.Header.Add("OK-ACCESS-PASSPHRASE", c.passphrase)

	if err := c.limiter.Wait(ctx); err != nil {
		return nil, err
	}
	return c.client.Do(req)
}

func httpGetJSON[PT *T, T any](ctx context.Context, c *Client, addrURL *url.URL, responsePtr PT) error {
	s := time.Now()
	resp, err := c.do(ctx, http.MethodGet, addrURL, "")
	if d := time.Since(s); d > c.opts.HttpClientTimeout {
		slog.Warn(fmt.Sprintf("get request took %s which is more than the http client timeout %s", d, c.opts.HttpClientTimeout))
	}
	if err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.Error("could not perform http get request", "url", addrURL, "err", err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		slog.Warn("http get returned unsuccessful status code", "status-code", resp.StatusCode)
		if data, err := io.ReadAll(resp.Body); err == nil && len(data) != 0 {
			slog.Warn("server response", "data", string(data))
		}
		return fmt.Errorf("http GET returned %d", resp.StatusCode)
	}

	if err := json.NewDecoder(resp.Body).Decode(responsePtr); err != nil {
		slog.Error("could not decode response to json", "err", err)
		return err
	}
	return nil
}
