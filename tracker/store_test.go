// Copyright (c) 2025 The profitbot Authors

package tracker

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"

	"github.com/okxbot/profitbot/timerange"
)

func dailyStat(symbol, profit string, trades int) *BotDailyStat {
	p := decimal.RequireFromString(profit)
	return &BotDailyStat{
		Symbol:           symbol,
		ProfitUSDT:       p,
		ProfitPercentage: p.Mul(d100).Div(decimal.NewFromInt(1000)),
		NumTrades:        trades,
	}
}

func TestStoreEmptyDaily(t *testing.T) {
	store := NewStore(time.UTC)

	record := store.Daily("2025-08-30")
	if record == nil {
		t.Fatal("daily record must never be nil")
	}
	if len(record) != 0 {
		t.Fatalf("want empty record, got %v", record)
	}
}

func TestStoreSetDailyReplaces(t *testing.T) {
	store := NewStore(time.UTC)

	store.SetDaily("2025-08-30", DailyRecord{
		"Bot-DCA-BTC":  dailyStat("BTC-USDT", "1.0", 1),
		"Bot-Grid-ETH": dailyStat("ETH-USDT", "2.0", 2),
	})
	store.SetDaily("2025-08-30", DailyRecord{
		"Bot-DCA-BTC": dailyStat("BTC-USDT", "5.0", 3),
	})

	record := store.Daily("2025-08-30")
	if len(record) != 1 {
		t.Fatalf("old entries must not survive a replace: %v", record)
	}
	if want := decimal.RequireFromString("5.0"); !record["Bot-DCA-BTC"].ProfitUSDT.Equal(want) {
		t.Errorf("want %s, got %s", want, record["Bot-DCA-BTC"].ProfitUSDT)
	}
}

func TestStoreDailyIsACopy(t *testing.T) {
	store := NewStore(time.UTC)
	store.SetDaily("2025-08-30", DailyRecord{
		"Bot-DCA-BTC": dailyStat("BTC-USDT", "1.0", 1),
	})

	record := store.Daily("2025-08-30")
	delete(record, "Bot-DCA-BTC")

	if record := store.Daily("2025-08-30"); len(record) != 1 {
		t.Fatalf("caller edits must not reach the store: %v", record)
	}
}

func TestStoreMonthly(t *testing.T) {
	store := NewStore(time.UTC)

	store.SetDaily("2025-08-29", DailyRecord{
		"Bot-DCA-BTC":  dailyStat("BTC-USDT", "8.5", 2),
		"Bot-Grid-ETH": dailyStat("ETH-USDT", "1.0", 4),
	})
	store.SetDaily("2025-08-30", DailyRecord{
		"Bot-DCA-BTC": dailyStat("BTC-USDT", "-3.0", 2),
	})
	// Outside the queried month.
	store.SetDaily("2025-07-31", DailyRecord{
		"Bot-DCA-BTC": dailyStat("BTC-USDT", "100.0", 9),
	})

	august := &timerange.Range{
		Begin: time.Date(2025, 8, 1, 0, 0, 0, 0, time.UTC),
		End:   time.Date(2025, 9, 1, 0, 0, 0, 0, time.UTC),
	}
	statMap := store.Monthly(august)

	btc := statMap["Bot-DCA-BTC"]
	if btc == nil {
		t.Fatalf("no Bot-DCA-BTC entry: %v", statMap)
	}
	if want := decimal.RequireFromString("5.5"); !btc.TotalProfit.Equal(want) {
		t.Errorf("total profit: want %s, got %s", want, btc.TotalProfit)
	}
	if btc.NumTrades != 4 {
		t.Errorf("total trades: want 4, got %d", btc.NumTrades)
	}
	if btc.NumActiveDays != 2 {
		t.Errorf("active days: want 2, got %d", btc.NumActiveDays)
	}
	if want := decimal.RequireFromString("2.75"); !btc.AvgPercentage.Equal(want) {
		t.Errorf("avg percentage: want %s, got %s", want, btc.AvgPercentage)
	}

	eth := statMap["Bot-Grid-ETH"]
	if eth == nil {
		t.Fatalf("no Bot-Grid-ETH entry: %v", statMap)
	}
	if eth.NumActiveDays != 1 {
		t.Errorf("active days: want 1, got %d", eth.NumActiveDays)
	}
	if want := decimal.RequireFromString("1.0"); !eth.AvgPercentage.Equal(want) {
		t.Errorf("avg percentage: want %s, got %s", want, eth.AvgPercentage)
	}
}

func TestStoreMonthlyEmpty(t *testing.T) {
	store := NewStore(time.UTC)
	if statMap := store.Monthly(nil); len(statMap) != 0 {
		t.Fatalf("want no entries, got %v", statMap)
	}
}

func TestStoreDateKey(t *testing.T) {
	zone, err := time.LoadLocation("Asia/Shanghai")
	if err != nil {
		t.Fatal(err)
	}
	store := NewStore(zone)

	// 2025-08-30T23:30:00Z is already the 31st in Shanghai.
	at := time.Date(2025, 8, 30, 23, 30, 0, 0, time.UTC)
	if key := store.DateKey(at); key != "2025-08-31" {
		t.Fatalf("want 2025-08-31, got %s", key)
	}
}
