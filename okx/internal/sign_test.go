// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"encoding/base64"
	"testing"
	"time"
)

func TestSignDeterminism(t *testing.T) {
	const secret = "test-secret-key"

	a := Sign(secret, "2026-01-02T03:04:05.678Z", "GET", "/api/v5/account/balance", "")
	b := Sign(secret, "2026-01-02T03:04:05.678Z", "GET", "/api/v5/account/balance", "")
	if a != b {
		t.Fatalf("same inputs produced different signatures: %q vs %q", a, b)
	}

	raw, err := base64.StdEncoding.DecodeString(a)
	if err != nil {
		t.Fatalf("signature is not valid base64: %v", err)
	}
	if len(raw) != 32 {
		t.Fatalf("want 32 byte sha256 digest, got %d bytes", len(raw))
	}
}

func TestSignInputSensitivity(t *testing.T) {
	const secret = "test-secret-key"
	base := Sign(secret, "2026-01-02T03:04:05.678Z", "GET", "/api/v5/trade/fills-history?instId=BTC-USDT", "")

	variants := []string{
		Sign(secret, "2026-01-02T03:04:05.679Z", "GET", "/api/v5/trade/fills-history?instId=BTC-USDT", ""),
		Sign(secret, "2026-01-02T03:04:05.678Z", "POST", "/api/v5/trade/fills-history?instId=BTC-USDT", ""),
		Sign(secret, "2026-01-02T03:04:05.678Z", "GET", "/api/v5/trade/fills-history?instId=ETH-USDT", ""),
		Sign(secret, "2026-01-02T03:04:05.678Z", "GET", "/api/v5/trade/fills-history?instId=BTC-USDT", "{}"),
		Sign("other-secret-key", "2026-01-02T03:04:05.678Z", "GET", "/api/v5/trade/fills-history?instId=BTC-USDT", ""),
	}
	for i, v := range variants {
		if v == base {
			t.Errorf("variant %d produced the same signature as the base inputs", i)
		}
	}
}

func TestTimestampFormat(t *testing.T) {
	v := time.Date(2026, 1, 2, 3, 4, 5, 678000000, time.UTC)
	if got, want := Timestamp(v), "2026-01-02T03:04:05.678Z"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}

	// Non-UTC inputs are converted before formatting.
	zone := time.FixedZone("IST", 5*3600+1800)
	if got, want := Timestamp(v.In(zone)), "2026-01-02T03:04:05.678Z"; got != want {
		t.Fatalf("want %q, got %q", want, got)
	}
}
