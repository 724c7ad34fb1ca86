// Copyright (c) 2025 The profitbot Authors

package tracker

import (
	"sync"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okxbot/profitbot/timerange"
)

// DateKeyFormat is the layout for daily record keys.
const DateKeyFormat = "2006-01-02"

// Store holds daily records in memory, keyed by local date. Records
// are replaced wholesale by each pass; there is no merging and no
// persistence across restarts.
type Store struct {
	zone *time.Location

	mu sync.Mutex

	// dayMap holds one record per DateKeyFormat key.
	dayMap map[string]DailyRecord
}

func NewStore(zone *time.Location) *Store {
	if zone == nil {
		zone = time.Local
	}
	return &Store{
		zone:   zone,
		dayMap: make(map[string]DailyRecord),
	}
}

// DateKey returns the daily record key for the given instant.
func (s *Store) DateKey(t time.Time) string {
	return t.In(s.zone).Format(DateKeyFormat)
}

// SetDaily replaces the record for the given date. The previous
// record, if any, is discarded.
func (s *Store) SetDaily(date string, record DailyRecord) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.dayMap[date] = record.Clone()
}

// Daily returns the record for the given date. Dates with no record
// yield an empty, non-nil record.
func (s *Store) Daily(date string) DailyRecord {
	s.mu.Lock()
	defer s.mu.Unlock()

	if record, ok := s.dayMap[date]; ok {
		return record.Clone()
	}
	return make(DailyRecord)
}

// Monthly folds the daily records whose dates fall in the given
// period into per-bot monthly stats. A nil period selects the current
// month.
func (s *Store) Monthly(period *timerange.Range) map[string]*MonthlyStat {
	if period == nil {
		period = timerange.ThisMonth(s.zone)
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	statMap := make(map[string]*MonthlyStat)
	for date, record := range s.dayMap {
		day, err := time.ParseInLocation(DateKeyFormat, date, s.zone)
		if err != nil || !period.InRange(day) {
			continue
		}
		for name, stat := range record {
			ms, ok := statMap[name]
			if !ok {
				ms = &MonthlyStat{Symbol: stat.Symbol}
				statMap[name] = ms
			}
			ms.TotalProfit = ms.TotalProfit.Add(stat.ProfitUSDT)
			ms.NumTrades += stat.NumTrades
			ms.NumActiveDays++
		}
	}
	for _, ms := range statMap {
		ms.AvgPercentage = ms.TotalProfit.Div(decimal.NewFromInt(int64(ms.NumActiveDays)))
	}
	return statMap
}
