// Copyright (c) 2025 The profitbot Authors

package ctxutil

import (
	"context"
	"os"
	"sync"
)

// CloseGroup manages a set of background goroutines that are all canceled and
// awaited together by a single Close call. The zero value is ready for use.
type CloseGroup struct {
	once sync.Once

	closeCtx context.Context
	cancel   context.CancelCauseFunc

	wg sync.WaitGroup
}

func (cg *CloseGroup) init() {
	cg.closeCtx, cg.cancel = context.WithCancelCause(context.Background())
}

// Context returns the context canceled by Close.
func (cg *CloseGroup) Context() context.Context {
	cg.once.Do(cg.init)
	return cg.closeCtx
}

// Go runs f on a new goroutine tracked by the group.
func (cg *CloseGroup) Go(f func(ctx context.Context)) {
	cg.once.Do(cg.init)

	cg.wg.Add(1)
	go func() {
		defer cg.wg.Done()
		f(cg.closeCtx)
	}()
}

// Close cancels all member goroutines and waits for them to return.
func (cg *CloseGroup) Close() {
	cg.once.Do(cg.init)
	cg.cancel(os.ErrClosed)
	cg.wg.Wait()
}
