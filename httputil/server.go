// Copyright (c) 2025 The profitbot Authors

// Package httputil runs http servers with a dynamic handler table and
// verifies their readiness before reporting success.
package httputil

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"net"
	"net/http"
	"net/url"
	"os"
	"sync"
	"sync/atomic"

	"github.com/google/uuid"

	"github.com/okxbot/profitbot/ctxutil"
	"github.com/okxbot/profitbot/syncmap"
)

type Server struct {
	cg ctxutil.CloseGroup

	opts Options

	nextServerID atomic.Int64
	serverMap    syncmap.Map[int64, *http.Server]

	mux atomic.Pointer[http.ServeMux]

	mu         sync.Mutex
	handlerMap map[string]http.Handler
}

// New creates a server with an empty handler table. Listeners are
// added with StartTCP.
func New(opts *Options) (*Server, error) {
	if opts == nil {
		opts = new(Options)
	}
	opts.setDefaults()
	if err := opts.Check(); err != nil {
		return nil, err
	}

	s := &Server{
		opts:       *opts,
		handlerMap: make(map[string]http.Handler),
	}
	s.mux.Store(http.NewServeMux())
	return s, nil
}

func (s *Server) Close() error {
	s.serverMap.Range(func(id int64, svr *http.Server) bool {
		svr.Close()
		return true
	})
	s.cg.Close()
	return nil
}

// StartTCP opens a tcp listener on the given address and serves the
// handler table on it. It returns only after a probe request has been
// answered, so a success means the server is reachable. A zero port
// in addr is replaced with the chosen port.
func (s *Server) StartTCP(ctx context.Context, addr *net.TCPAddr) (id int64, status error) {
	l, err := net.Listen("tcp", addr.String())
	if err != nil {
		return -1, err
	}
	defer func() {
		if status != nil {
			l.Close()
		}
	}()

	if addr.Port == 0 {
		laddr, ok := l.Addr().(*net.TCPAddr)
		if !ok {
			return -1, fmt.Errorf("created listener addr is not *net.TCPAddr type")
		}
		addr.Port = laddr.Port
	}

	probePath := "/" + uuid.New().String()
	probeHandler := http.HandlerFunc(func(_ http.ResponseWriter, r *http.Request) {
		slog.Info("received readiness probe request", "addr", addr, "from", r.RemoteAddr)
	})
	s.AddHandler(probePath, probeHandler)
	defer s.RemoveHandler(probePath)

	server := &http.Server{
		Handler: s,
		BaseContext: func(net.Listener) context.Context {
			return s.cg.Context()
		},
	}
	defer func() {
		if status != nil {
			server.Close()
		}
	}()

	s.cg.Go(func(ctx context.Context) {
		if err := server.Serve(l); err != nil {
			if !errors.Is(err, http.ErrServerClosed) {
				slog.ErrorContext(ctx, "http server has failed", "addr", addr, "err", err)
			}
		}
	})

	c := http.Client{
		Timeout: s.opts.ServerCheckTimeout,
	}
	u := url.URL{
		Scheme: "http",
		Host:   l.Addr().String(),
		Path:   probePath,
	}

	tctx, tcancel := context.WithTimeout(ctx, s.opts.ServerCheckTimeout)
	defer tcancel()

	for tctx.Err() == nil {
		r, err := http.NewRequestWithContext(tctx, http.MethodGet, u.String(), nil)
		if err != nil {
			return -1, err
		}
		resp, err := c.Do(r)
		if err != nil {
			ctxutil.Sleep(tctx, s.opts.ServerCheckRetryInterval)
			continue
		}
		resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			continue
		}
		break
	}
	if err := context.Cause(tctx); err != nil {
		return -1, fmt.Errorf("could not invoke the readiness probe handler: %w", err)
	}

	id = s.nextServerID.Add(1) - 1
	s.serverMap.Store(id, server)
	return id, nil
}

func (s *Server) Stop(id int64) error {
	svr, ok := s.serverMap.LoadAndDelete(id)
	if !ok {
		return fmt.Errorf("http server %d not found: %w", id, os.ErrNotExist)
	}
	_ = svr.Close()
	return nil
}

func (s *Server) AddHandler(pattern string, handler http.Handler) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.handlerMap[pattern] = handler
	s.updateHandlerMux()
}

func (s *Server) RemoveHandler(pattern string) bool {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, ok := s.handlerMap[pattern]; !ok {
		return false
	}
	delete(s.handlerMap, pattern)
	s.updateHandlerMux()
	return true
}

func (s *Server) updateHandlerMux() {
	m := http.NewServeMux()
	for k, v := range s.handlerMap {
		m.Handle(k, v)
	}
	s.mux.Store(m)
}

func (s *Server) ServeHTTP(w http.ResponseWriter, r *http.Request) {
	s.mux.Load().ServeHTTP(w, r)
}
