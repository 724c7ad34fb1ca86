// Copyright (c) 2025 The profitbot Authors

package ctxutil

import (
	"context"
	"sync/atomic"
	"testing"
	"time"
)

func TestCloseGroup(t *testing.T) {
	var done atomic.Int32

	var cg CloseGroup
	for i := 0; i < 5; i++ {
		cg.Go(func(ctx context.Context) {
			<-ctx.Done()
			done.Add(1)
		})
	}
	cg.Close()

	if v := done.Load(); v != 5 {
		t.Fatalf("want 5 goroutines done after Close, got %d", v)
	}
}

func TestSleepCancel(t *testing.T) {
	ctx, cancel := context.WithCancel(context.Background())
	cancel()

	start := time.Now()
	Sleep(ctx, time.Minute)
	if d := time.Since(start); d > time.Second {
		t.Fatalf("Sleep did not return early on canceled context: %v", d)
	}
}
