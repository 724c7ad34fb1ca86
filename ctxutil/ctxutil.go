// Copyright (c) 2025 The profitbot Authors

package ctxutil

import (
	"context"
	"time"
)

// Sleep blocks for the given duration or till the input context is canceled,
// whichever happens first.
func Sleep(ctx context.Context, d time.Duration) {
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
	case <-t.C:
	}
}

// Retry runs the input function repeatedly with the given interval between
// attempts till it succeeds or the context is canceled. Returns nil on
// success or the last non-nil error otherwise.
func Retry(ctx context.Context, interval time.Duration, f func() error) (err error) {
	for err = f(); err != nil && context.Cause(ctx) == nil; err = f() {
		Sleep(ctx, interval)
	}
	return
}

// RetryTimeout is Retry with an upper bound on the total time spent.
func RetryTimeout(ctx context.Context, interval, timeout time.Duration, f func() error) error {
	sctx, scancel := context.WithTimeout(ctx, timeout)
	defer scancel()
	return Retry(sctx, interval, f)
}
