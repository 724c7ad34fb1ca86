// Copyright (c) 2025 The profitbot Authors

package server

import (
	"bytes"
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"net/http/httptest"
	"os"
	"testing"
	"time"

	"github.com/bvkgo/kv/kvmemdb"
	"github.com/shopspring/decimal"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/okx"
)

type fakeExchange struct {
	fillsMap map[string]*okx.ListFillsResponse

	balance *okx.GetBalanceResponse
}

func (f *fakeExchange) ListFills(ctx context.Context, instrumentID string, from, to time.Time) (*okx.ListFillsResponse, error) {
	if resp, ok := f.fillsMap[instrumentID]; ok {
		return resp, nil
	}
	return &okx.ListFillsResponse{Code: "0"}, nil
}

func (f *fakeExchange) GetBalance(ctx context.Context) (*okx.GetBalanceResponse, error) {
	if f.balance == nil {
		return nil, fmt.Errorf("balance endpoint is unavailable")
	}
	return f.balance, nil
}

func newTestServer(t *testing.T) (*Server, *fakeExchange) {
	t.Helper()

	fake := &fakeExchange{
		fillsMap: map[string]*okx.ListFillsResponse{
			"BTC-USDT": {
				Code: "0",
				Data: []*okx.Fill{
					{TradeID: "1", PnL: decimal.RequireFromString("10.5")},
					{TradeID: "2", PnL: decimal.RequireFromString("-2.0")},
				},
			},
		},
	}
	opts := &Options{
		Zone:        time.UTC,
		Notional:    decimal.NewFromInt(1000),
		NoRunPasses: true,
	}
	s, err := newServer(context.Background(), kvmemdb.New(), fake, opts)
	if err != nil {
		t.Fatal(err)
	}
	if err := s.Start(context.Background()); err != nil {
		t.Fatal(err)
	}
	t.Cleanup(func() { s.Close() })
	return s, fake
}

func postJSON[RESP, REQ any](t *testing.T, url string, req *REQ) *RESP {
	t.Helper()

	data, err := json.Marshal(req)
	if err != nil {
		t.Fatal(err)
	}
	resp, err := http.Post(url, "application/json", bytes.NewReader(data))
	if err != nil {
		t.Fatal(err)
	}
	defer resp.Body.Close()
	if resp.StatusCode != http.StatusOK {
		t.Fatalf("unexpected http status %d", resp.StatusCode)
	}
	response := new(RESP)
	if err := json.NewDecoder(resp.Body).Decode(response); err != nil {
		t.Fatal(err)
	}
	return response
}

func TestServerEndpoints(t *testing.T) {
	s, fake := newTestServer(t)

	mux := http.NewServeMux()
	for pattern, handler := range s.HandlerMap() {
		mux.Handle(pattern, handler)
	}
	hs := httptest.NewServer(mux)
	defer hs.Close()

	// A pass has not run yet; today is empty.
	daily := postJSON[api.DailyResponse, api.DailyRequest](t, hs.URL+api.DailyPath, &api.DailyRequest{})
	if len(daily.Bots) != 0 {
		t.Fatalf("want no bots before the first pass, got %v", daily.Bots)
	}

	run := postJSON[api.RunPassResponse, api.RunPassRequest](t, hs.URL+api.RunPassPath, &api.RunPassRequest{})
	stat, ok := run.Bots["Bot-DCA-BTC"]
	if !ok {
		t.Fatalf("pass result has no Bot-DCA-BTC entry: %v", run.Bots)
	}
	if want := decimal.RequireFromString("8.5"); !stat.ProfitUSDT.Equal(want) {
		t.Errorf("profit: want %s, got %s", want, stat.ProfitUSDT)
	}
	if want := decimal.RequireFromString("0.85"); !stat.ProfitPercentage.Equal(want) {
		t.Errorf("profit percentage: want %s, got %s", want, stat.ProfitPercentage)
	}

	daily = postJSON[api.DailyResponse, api.DailyRequest](t, hs.URL+api.DailyPath, &api.DailyRequest{})
	if len(daily.Bots) != 1 {
		t.Fatalf("want 1 bot after the pass, got %v", daily.Bots)
	}

	monthly := postJSON[api.MonthlyResponse, api.MonthlyRequest](t, hs.URL+api.MonthlyPath, &api.MonthlyRequest{})
	mstat, ok := monthly.Bots["Bot-DCA-BTC"]
	if !ok {
		t.Fatalf("monthly stats have no Bot-DCA-BTC entry: %v", monthly.Bots)
	}
	if mstat.NumActiveDays != 1 {
		t.Errorf("active days: want 1, got %d", mstat.NumActiveDays)
	}

	status := postJSON[api.StatusResponse, api.StatusRequest](t, hs.URL+api.StatusPath, &api.StatusRequest{})
	if status.PID != os.Getpid() {
		t.Errorf("pid: want %d, got %d", os.Getpid(), status.PID)
	}
	if status.NumPasses != 1 {
		t.Errorf("passes: want 1, got %d", status.NumPasses)
	}
	if len(status.Bots) != 3 {
		t.Errorf("bots: want 3, got %v", status.Bots)
	}

	// Balance endpoint reports failures as errors.
	resp, err := http.Post(hs.URL+api.BalancePath, "application/json", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Errorf("balance fetch failure must not return 200")
	}

	fake.balance = &okx.GetBalanceResponse{
		Code: "0",
		Data: []*okx.BalanceData{
			{Details: []*okx.BalanceDetail{{Currency: "USDT", CashBalance: decimal.RequireFromString("99.5")}}},
		},
	}
	balance := postJSON[api.BalanceResponse, api.BalanceRequest](t, hs.URL+api.BalancePath, &api.BalanceRequest{})
	if len(balance.Balances) != 1 || balance.Balances[0].Currency != "USDT" {
		t.Fatalf("unexpected balances: %v", balance.Balances)
	}
}

func TestServerRejectsBadRequests(t *testing.T) {
	s, _ := newTestServer(t)

	hs := httptest.NewServer(s.HandlerMap()[api.DailyPath])
	defer hs.Close()

	resp, err := http.Get(hs.URL)
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusMethodNotAllowed {
		t.Errorf("GET must be rejected, got status %d", resp.StatusCode)
	}

	resp, err = http.Post(hs.URL, "text/plain", bytes.NewReader([]byte("{}")))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode != http.StatusUnsupportedMediaType {
		t.Errorf("non-json content type must be rejected, got status %d", resp.StatusCode)
	}

	resp, err = http.Post(hs.URL, "application/json", bytes.NewReader([]byte(`{"date":"bogus"}`)))
	if err != nil {
		t.Fatal(err)
	}
	resp.Body.Close()
	if resp.StatusCode == http.StatusOK {
		t.Errorf("malformed date must be rejected")
	}
}
