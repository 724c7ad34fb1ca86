// Copyright (c) 2025 The profitbot Authors

package server

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"strings"
	"time"

	"github.com/okxbot/profitbot/api"
	"github.com/okxbot/profitbot/timerange"
	"github.com/okxbot/profitbot/tracker"
)

// HandlerMap returns the http api handlers. All endpoints take a JSON
// request over POST and return a JSON response.
func (s *Server) HandlerMap() map[string]http.Handler {
	return map[string]http.Handler{
		api.DailyPath:   httpPostJSONHandler(s.doDaily),
		api.MonthlyPath: httpPostJSONHandler(s.doMonthly),
		api.BalancePath: httpPostJSONHandler(s.doBalance),
		api.RunPassPath: httpPostJSONHandler(s.doRunPass),
		api.StatusPath:  httpPostJSONHandler(s.doStatus),
	}
}

func httpPostJSONHandler[T1, T2 any](fn func(context.Context, *T1) (*T2, error)) http.Handler {
	handler := func(w http.ResponseWriter, r *http.Request) {
		if r.Method != http.MethodPost {
			http.Error(w, "expected POST request", http.StatusMethodNotAllowed)
			return
		}
		if v := r.Header.Get("content-type"); !strings.EqualFold(v, "application/json") {
			http.Error(w, "expected content-type header with application/json", http.StatusUnsupportedMediaType)
			return
		}
		req := new(T1)
		if err := json.NewDecoder(r.Body).Decode(req); err != nil {
			http.Error(w, err.Error(), http.StatusBadRequest)
			return
		}
		resp, err := fn(r.Context(), req)
		if err != nil {
			http.Error(w, err.Error(), http.StatusInternalServerError)
			return
		}
		w.Header().Set("content-type", "application/json")
		if err := json.NewEncoder(w).Encode(resp); err != nil {
			slog.Error("could not encode response (ignored)", "err", err)
		}
	}
	return http.HandlerFunc(handler)
}

func toAPIDailyStats(record tracker.DailyRecord) map[string]*api.BotDailyStats {
	bots := make(map[string]*api.BotDailyStats)
	for name, stat := range record {
		bots[name] = &api.BotDailyStats{
			Symbol:           stat.Symbol,
			ProfitUSDT:       stat.ProfitUSDT,
			ProfitPercentage: stat.ProfitPercentage,
			NumTrades:        stat.NumTrades,
		}
	}
	return bots
}

func (s *Server) doDaily(ctx context.Context, req *api.DailyRequest) (*api.DailyResponse, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}
	date := req.Date
	if len(date) == 0 {
		date = time.Now().In(s.opts.Zone).Format(tracker.DateKeyFormat)
	}
	record, err := s.tracker.Daily(date)
	if err != nil {
		return nil, err
	}
	resp := &api.DailyResponse{
		Date: date,
		Bots: toAPIDailyStats(record),
	}
	return resp, nil
}

func (s *Server) doMonthly(ctx context.Context, req *api.MonthlyRequest) (*api.MonthlyResponse, error) {
	if err := req.Check(); err != nil {
		return nil, err
	}

	var period *timerange.Range
	month := req.Month
	if len(month) == 0 {
		period = timerange.ThisMonth(s.opts.Zone)
		month = period.Begin.Format("2006-01")
	} else {
		begin, err := time.ParseInLocation("2006-01", month, s.opts.Zone)
		if err != nil {
			return nil, fmt.Errorf("could not parse month %q: %w", month, err)
		}
		period = &timerange.Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
	}

	bots := make(map[string]*api.BotMonthlyStats)
	for name, stat := range s.tracker.Monthly(period) {
		bots[name] = &api.BotMonthlyStats{
			Symbol:        stat.Symbol,
			TotalProfit:   stat.TotalProfit,
			NumTrades:     stat.NumTrades,
			NumActiveDays: stat.NumActiveDays,
			AvgPercentage: stat.AvgPercentage,
		}
	}
	resp := &api.MonthlyResponse{
		Month: month,
		Bots:  bots,
	}
	return resp, nil
}

func (s *Server) doBalance(ctx context.Context, req *api.BalanceRequest) (*api.BalanceResponse, error) {
	details := s.tracker.GetAccountBalance(ctx)
	if details == nil {
		return nil, fmt.Errorf("could not fetch account balance")
	}
	resp := new(api.BalanceResponse)
	for _, d := range details {
		resp.Balances = append(resp.Balances, &api.BalanceItem{
			Currency:    d.Currency,
			CashBalance: d.CashBalance,
		})
	}
	return resp, nil
}

func (s *Server) doRunPass(ctx context.Context, req *api.RunPassRequest) (*api.RunPassResponse, error) {
	record := s.RunPass(ctx)
	if record == nil {
		return nil, fmt.Errorf("profit pass was abandoned: %w", context.Cause(ctx))
	}
	resp := &api.RunPassResponse{
		Date: time.Now().In(s.opts.Zone).Format(tracker.DateKeyFormat),
		Bots: toAPIDailyStats(record),
	}
	return resp, nil
}

func (s *Server) doStatus(ctx context.Context, req *api.StatusRequest) (*api.StatusResponse, error) {
	s.mu.Lock()
	lastPassTime, nextPassTime := s.lastPassTime, s.nextPassTime
	s.mu.Unlock()

	resp := &api.StatusResponse{
		PID:          os.Getpid(),
		StartTime:    s.startTime,
		NumPasses:    s.numPasses.Load(),
		LastPassTime: lastPassTime,
		NextPassTime: nextPassTime,
	}
	for _, b := range s.tracker.Bots() {
		resp.Bots = append(resp.Bots, &api.StatusBot{
			Name:     b.Name,
			Symbol:   b.Symbol,
			Strategy: b.Strategy,
		})
	}

	// Process metrics are best-effort.
	if mem, err := s.proc.MemoryInfoWithContext(ctx); err == nil {
		resp.MemoryRSS = mem.RSS
	}
	if pct, err := s.proc.CPUPercentWithContext(ctx); err == nil {
		resp.CPUPercentage = pct
	}
	return resp, nil
}
