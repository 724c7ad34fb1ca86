// Copyright (c) 2025 The profitbot Authors

package okx

import (
	"context"
	"encoding/json"
	"os"
	"testing"
	"time"
)

var testingCreds *Credentials

func checkCredentials() bool {
	if testingCreds != nil {
		return true
	}
	data, err := os.ReadFile("okx-creds.json")
	if err != nil {
		return false
	}
	s := new(Credentials)
	if err := json.Unmarshal(data, s); err != nil {
		return false
	}
	if s.Check() != nil {
		return false
	}
	testingCreds = s
	return true
}

func TestClient(t *testing.T) {
	if !checkCredentials() {
		t.Skip("no credentials")
		return
	}

	ctx := context.Background()

	c, err := New(testingCreds, nil)
	if err != nil {
		t.Fatal(err)
	}
	defer func() {
		if err := c.Close(); err != nil {
			t.Fatal(err)
		}
	}()

	balance, err := c.GetBalance(ctx)
	if err != nil {
		t.Fatal(err)
	}
	jsdata, _ := json.MarshalIndent(balance, "", "  ")
	t.Logf("%s", jsdata)

	now := time.Now()
	fills, err := c.ListFills(ctx, "BTC-USDT", now.AddDate(0, 0, -1), now)
	if err != nil {
		t.Fatal(err)
	}
	t.Logf("%#v", fills)
}
