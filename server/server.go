// Copyright (c) 2025 The profitbot Authors

// Package server combines the exchange client, the profit tracker and
// the front-ends (http api and Telegram) into one service.
package server

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"os"
	"sync"
	"sync/atomic"
	"time"

	"github.com/bvkgo/kv"
	"github.com/shirou/gopsutil/v4/process"
	"github.com/visvasity/topic"

	"github.com/okxbot/profitbot/ctxutil"
	"github.com/okxbot/profitbot/okx"
	"github.com/okxbot/profitbot/telegram"
	"github.com/okxbot/profitbot/tracker"
)

type Server struct {
	cg ctxutil.CloseGroup

	opts Options

	db kv.Database

	exchange tracker.Exchange

	// exchangeCloser is non-nil when the server owns the exchange
	// client.
	exchangeCloser func() error

	tracker *tracker.Tracker

	telegramClient *telegram.Client

	proc *process.Process

	startTime time.Time

	numPasses atomic.Int64

	mu           sync.Mutex
	lastPassTime time.Time
	nextPassTime time.Time
}

// New creates the service from the secrets file content. The database
// holds only front-end state (eg, Telegram chat ids); profit records
// live in memory.
func New(ctx context.Context, db kv.Database, secrets *Secrets, opts *Options) (_ *Server, status error) {
	if err := secrets.Check(); err != nil {
		return nil, err
	}

	exchange, err := okx.New(secrets.OKX, nil /* opts */)
	if err != nil {
		return nil, fmt.Errorf("could not create okx client: %w", err)
	}
	defer func() {
		if status != nil {
			exchange.Close()
		}
	}()

	s, err := newServer(ctx, db, exchange, opts)
	if err != nil {
		return nil, err
	}
	s.exchangeCloser = exchange.Close

	if secrets.Telegram != nil {
		tc, err := telegram.New(ctx, db, secrets.Telegram)
		if err != nil {
			return nil, fmt.Errorf("could not create telegram client: %w", err)
		}
		s.telegramClient = tc
	}
	return s, nil
}

func newServer(ctx context.Context, db kv.Database, exchange tracker.Exchange, opts *Options) (*Server, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	topts := &tracker.Options{
		Notional: opts.Notional,
		Zone:     opts.Zone,
	}
	t, err := tracker.New(exchange, opts.Bots, topts)
	if err != nil {
		return nil, fmt.Errorf("could not create profit tracker: %w", err)
	}

	proc, err := process.NewProcess(int32(os.Getpid()))
	if err != nil {
		return nil, fmt.Errorf("could not open self process handle: %w", err)
	}

	s := &Server{
		opts:      *opts,
		db:        db,
		exchange:  exchange,
		tracker:   t,
		proc:      proc,
		startTime: time.Now(),
	}
	return s, nil
}

// Start launches the background pass loop and registers the Telegram
// commands.
func (s *Server) Start(ctx context.Context) error {
	if err := s.addTelegramCommands(ctx); err != nil {
		return err
	}

	receiver, err := s.tracker.PassResults()
	if err != nil {
		return err
	}
	s.cg.Go(func(ctx context.Context) {
		defer receiver.Close()
		s.goWatchPassResults(ctx, receiver)
	})

	if !s.opts.NoRunPasses {
		s.cg.Go(s.goRunPasses)
	}
	return nil
}

func (s *Server) Close() error {
	s.cg.Close()
	if s.telegramClient != nil {
		s.telegramClient.Close()
	}
	s.tracker.Close()
	if s.exchangeCloser != nil {
		s.exchangeCloser()
	}
	return nil
}

// RunPass triggers an immediate profit pass.
func (s *Server) RunPass(ctx context.Context) tracker.DailyRecord {
	record := s.tracker.RunDailyPass(ctx)
	if record != nil {
		s.numPasses.Add(1)
		s.mu.Lock()
		s.lastPassTime = time.Now()
		s.mu.Unlock()
	}
	return record
}

func (s *Server) goRunPasses(ctx context.Context) {
	for ctx.Err() == nil {
		s.RunPass(ctx)

		s.mu.Lock()
		s.nextPassTime = time.Now().Add(s.opts.PassInterval)
		s.mu.Unlock()

		ctxutil.Sleep(ctx, s.opts.PassInterval)
	}
}

func (s *Server) goWatchPassResults(ctx context.Context, receiver *topic.Receiver[tracker.DailyRecord]) {
	recordCh, err := topic.ReceiveCh(receiver)
	if err != nil {
		slog.ErrorContext(ctx, "could not open pass results channel", "err", err)
		return
	}
	for {
		select {
		case <-ctx.Done():
			return
		case record, ok := <-recordCh:
			if !ok {
				return
			}
			s.notifyPassResult(ctx, record)
		}
	}
}

func (s *Server) notifyPassResult(ctx context.Context, record tracker.DailyRecord) {
	if s.telegramClient == nil {
		return
	}
	now := time.Now().In(s.opts.Zone)
	msg := "Profit pass completed.\n" + formatDailyRecord(now.Format(tracker.DateKeyFormat), record)
	if err := s.telegramClient.SendMessage(ctx, now, msg); err != nil {
		if !errors.Is(err, context.Canceled) {
			slog.WarnContext(ctx, "could not send pass result notification", "err", err)
		}
	}
}
