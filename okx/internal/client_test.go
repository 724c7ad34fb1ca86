// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"context"
	"net/http"
	"net/http/httptest"
	"net/url"
	"sync/atomic"
	"testing"
	"time"
)

func newTestClient(t *testing.T, handler http.Handler) (*Client, *httptest.Server) {
	t.Helper()

	svr := httptest.NewServer(handler)
	t.Cleanup(svr.Close)

	opts := &Options{
		RestURL:           svr.URL,
		HttpClientTimeout: time.Second,
		RateLimitPerSec:   1000,
	}
	c, err := New("test-key", "test-secret", "test-passphrase", opts)
	if err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { c.Close() })
	return c, svr
}

func TestRequestHeaders(t *testing.T) {
	var captured *http.Request
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		captured = r.Clone(context.Background())
		w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	})
	c, _ := newTestClient(t, handler)

	values := make(url.Values)
	values.Set("instId", "BTC-USDT")
	values.Set("after", "1700000000000")
	values.Set("before", "1700086400000")
	if _, err := c.ListFills(context.Background(), values); err != nil {
		t.Fatal(err)
	}

	if got := captured.Header.Get("OK-ACCESS-KEY"); got != "test-key" {
		t.Errorf("want test-key, got %q", got)
	}
	if got := captured.Header.Get("OK-ACCESS-PASSPHRASE"); got != "test-passphrase" {
		t.Errorf("want test-passphrase, got %q", got)
	}
	if got := captured.Header.Get("Content-Type"); got != "application/json" {
		t.Errorf("want application/json, got %q", got)
	}

	// The signature must cover the exact path that was dispatched, query
	// included, with the timestamp header value.
	ts := captured.Header.Get("OK-ACCESS-TIMESTAMP")
	if _, err := time.Parse("2006-01-02T15:04:05.000Z", ts); err != nil {
		t.Errorf("timestamp header %q is not ISO-8601 with millisecond precision: %v", ts, err)
	}
	requestPath := captured.URL.Path + "?" + captured.URL.RawQuery
	want := Sign("test-secret", ts, "GET", requestPath, "")
	if got := captured.Header.Get("OK-ACCESS-SIGN"); got != want {
		t.Errorf("signature mismatch: want %q, got %q", want, got)
	}
}

func TestQueryStringDeterminism(t *testing.T) {
	var paths []string
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		paths = append(paths, r.URL.RequestURI())
		w.Write([]byte(`{"code":"0","msg":"","data":[]}`))
	})
	c, _ := newTestClient(t, handler)

	for i := 0; i < 3; i++ {
		values := make(url.Values)
		values.Set("instId", "ETH-USDT")
		values.Set("before", "2000")
		values.Set("after", "1000")
		if _, err := c.ListFills(context.Background(), values); err != nil {
			t.Fatal(err)
		}
	}

	for _, p := range paths {
		if p != paths[0] {
			t.Fatalf("query serialization is not deterministic: %q vs %q", p, paths[0])
		}
	}
}

func TestSingleAttemptOnFailure(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		w.WriteHeader(http.StatusBadGateway)
	})
	c, _ := newTestClient(t, handler)

	if _, err := c.GetBalance(context.Background()); err == nil {
		t.Fatal("want error for non-200 status, got nil")
	}
	if n := attempts.Load(); n != 1 {
		t.Fatalf("want exactly one attempt, got %d", n)
	}
}

func TestSingleAttemptOnTimeout(t *testing.T) {
	var attempts atomic.Int32
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		attempts.Add(1)
		time.Sleep(200 * time.Millisecond)
	})
	svr := httptest.NewServer(handler)
	t.Cleanup(svr.Close)

	opts := &Options{
		RestURL:           svr.URL,
		HttpClientTimeout: 50 * time.Millisecond,
		RateLimitPerSec:   1000,
	}
	c, err := New("k", "s", "p", opts)
	if err != nil {
		t.Fatal(err)
	}
	defer c.Close()

	if _, err := c.GetBalance(context.Background()); err == nil {
		t.Fatal("want timeout error, got nil")
	}
	time.Sleep(300 * time.Millisecond)
	if n := attempts.Load(); n != 1 {
		t.Fatalf("want exactly one attempt, got %d", n)
	}
}

func TestEnvelopeCodeIsNotValidated(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"50011","msg":"rate limit reached","data":[]}`))
	})
	c, _ := newTestClient(t, handler)

	// Non-success envelope codes belong to the caller, not the transport.
	resp, err := c.ListFills(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if resp.Code != "50011" {
		t.Fatalf("want envelope code 50011, got %q", resp.Code)
	}
}

func TestFillDecoding(t *testing.T) {
	handler := http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(`{"code":"0","msg":"","data":[
			{"instId":"BTC-USDT","tradeId":"1","ordId":"9","side":"sell","pnl":"10.5","ts":"1700000000000"},
			{"instId":"BTC-USDT","tradeId":"2","ordId":"9","side":"sell","pnl":"-2.0","ts":"1700000060000"}
		]}`))
	})
	c, _ := newTestClient(t, handler)

	resp, err := c.ListFills(context.Background(), nil)
	if err != nil {
		t.Fatal(err)
	}
	if len(resp.Data) != 2 {
		t.Fatalf("want 2 fills, got %d", len(resp.Data))
	}
	if got := resp.Data[0].PnL.String(); got != "10.5" {
		t.Errorf("want pnl 10.5, got %s", got)
	}
	if got := resp.Data[1].PnL.String(); got != "-2" {
		t.Errorf("want pnl -2, got %s", got)
	}
}
