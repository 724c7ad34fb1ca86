// Copyright (c) 2025 The profitbot Authors

// Package subcmds holds the top-level subcommands of the profitbot
// command.
package subcmds

import (
	"context"
	"encoding/json"
	"errors"
	"flag"
	"fmt"
	"io"
	"log"
	"net"
	"net/http"
	"net/http/pprof"
	"os"
	"os/signal"
	"path"
	"path/filepath"
	"syscall"
	"time"

	"github.com/bvkgo/kv/kvhttp"
	"github.com/bvkgo/kvbadger"
	"github.com/dgraph-io/badger/v4"
	"github.com/nightlyone/lockfile"
	"github.com/shopspring/decimal"
	"github.com/visvasity/cli"

	"github.com/okxbot/profitbot/ctxutil"
	"github.com/okxbot/profitbot/daemonize"
	"github.com/okxbot/profitbot/httputil"
	"github.com/okxbot/profitbot/server"
	"github.com/okxbot/profitbot/subcmds/cmdutil"
	"github.com/okxbot/profitbot/tracker"
)

type Run struct {
	cmdutil.ServerFlags

	background bool

	restart         bool
	shutdownTimeout time.Duration

	noPprof  bool
	noPasses bool

	passInterval time.Duration

	notional string

	secretsPath string
	botsPath    string
	dataDir     string
}

func (c *Run) Command() (string, *flag.FlagSet, cli.CmdFunc) {
	fset := flag.NewFlagSet("run", flag.ContinueOnError)
	c.ServerFlags.SetFlags(fset)
	fset.BoolVar(&c.background, "background", false, "runs the daemon in background")
	fset.BoolVar(&c.restart, "restart", false, "when true, kills any old instance")
	fset.DurationVar(&c.shutdownTimeout, "shutdown-timeout", 30*time.Second, "max timeout for shutdown when restarting")
	fset.BoolVar(&c.noPprof, "no-pprof", false, "when true net/http/pprof handler is not registered")
	fset.BoolVar(&c.noPasses, "no-passes", false, "when true automatic profit passes are disabled")
	fset.DurationVar(&c.passInterval, "pass-interval", 24*time.Hour, "wait between automatic profit passes")
	fset.StringVar(&c.notional, "notional", "", "reference capital in USDT for profit percentages")
	fset.StringVar(&c.secretsPath, "secrets-file", "", "path to credentials file")
	fset.StringVar(&c.botsPath, "bots-file", "", "path to the bot roster file")
	fset.StringVar(&c.dataDir, "data-dir", "", "path to the data directory")
	return "run", fset, cli.CmdFunc(c.run)
}

func (c *Run) Purpose() string {
	return "Runs the profitbot service in foreground or background"
}

func (c *Run) Description() string {
	return `

Command "run" starts the profitbot service. The service periodically
fetches trade fills from the OKX exchange, summarizes per-bot profits
and serves them over a local http api and an optional Telegram bot.

SECRETS FILE

OKX API keys are required to fetch account data. Users are expected to
create a secrets file with API keys in JSON format, typically through
the "setup okx" subcommand. An example secrets file is given below:

    {
        "okx":{
            "key":"111111111",
            "secret":"2222222222",
            "passphrase":"33333333"
        }
    }

BOTS FILE

The tracked bot roster can be customized with a JSON file. When no
bots file exists, a built-in default roster is used. An example:

    [
        {"name":"Bot-DCA-BTC", "symbol":"BTC-USDT", "strategy":"DCA"}
    ]

`
}

func (c *Run) run(ctx context.Context, args []string) error {
	ctx, stop := signal.NotifyContext(ctx, os.Interrupt, syscall.SIGTERM)
	defer stop()

	if len(c.dataDir) == 0 {
		c.dataDir = filepath.Join(os.Getenv("HOME"), ".profitbot")
	}
	if _, err := os.Stat(c.dataDir); err != nil {
		if !os.IsNotExist(err) {
			return fmt.Errorf("could not stat data directory %q: %w", c.dataDir, err)
		}
		if err := os.MkdirAll(c.dataDir, 0700); err != nil {
			return fmt.Errorf("could not create data directory %q: %w", c.dataDir, err)
		}
	}
	dataDir, err := filepath.Abs(c.dataDir)
	if err != nil {
		return fmt.Errorf("could not determine data-dir %q absolute path: %w", c.dataDir, err)
	}

	if len(c.secretsPath) == 0 {
		c.secretsPath = filepath.Join(dataDir, "secrets.json")
	}
	secrets, err := server.SecretsFromFile(c.secretsPath)
	if err != nil {
		return err
	}

	bots, err := c.loadBots(dataDir)
	if err != nil {
		return err
	}

	var notional decimal.Decimal
	if len(c.notional) != 0 {
		v, err := decimal.NewFromString(c.notional)
		if err != nil {
			return fmt.Errorf("could not parse notional value %q: %w", c.notional, err)
		}
		notional = v
	}

	if ip := net.ParseIP(c.IP); ip == nil {
		return fmt.Errorf("invalid ip address")
	}
	if c.Port <= 0 {
		return fmt.Errorf("invalid port number")
	}
	addr := &net.TCPAddr{
		IP:   net.ParseIP(c.IP),
		Port: c.Port,
	}

	// Health checker for the background process initialization. We need to
	// verify that responding http server is really our child and not an older
	// instance.
	check := func(ctx context.Context, child *os.Process) (bool, error) {
		client := http.Client{Timeout: time.Second}
		resp, err := client.Get(fmt.Sprintf("http://%s/pid", addr.String()))
		if err != nil {
			return true, err
		}
		defer resp.Body.Close()
		if resp.StatusCode != http.StatusOK {
			return true, fmt.Errorf("http status: %d", resp.StatusCode)
		}
		data, err := io.ReadAll(resp.Body)
		if err != nil {
			return true, err
		}
		if pid := string(data); pid != fmt.Sprintf("%d", child.Pid) {
			if !c.restart {
				return false, fmt.Errorf("is another instance already running? pid mismatch: want %d got %s", child.Pid, pid)
			}
			return true, fmt.Errorf("is another instance already running? pid mismatch: want %d got %s", child.Pid, pid)
		}
		return false, nil
	}

	if c.background {
		if err := daemonize.Daemonize(ctx, "PROFITBOT_DAEMONIZE", check); err != nil {
			return err
		}
	}

	log.SetFlags(log.Flags() | log.Lmicroseconds)
	log.Printf("using data directory %s and secrets file %s", dataDir, c.secretsPath)

	lockPath := filepath.Join(dataDir, "profitbot.lock")
	flock, err := lockfile.New(lockPath)
	if err != nil {
		return fmt.Errorf("could not create lock file %q: %w", lockPath, err)
	}
	if err := flock.TryLock(); err != nil {
		if !c.restart {
			return fmt.Errorf("could not get lock on file %q: %w", lockPath, err)
		}
		owner, err := flock.GetOwner()
		if err != nil {
			return fmt.Errorf("could not get current owner of the lock file: %w", err)
		}
		if err := owner.Signal(os.Interrupt); err == nil {
			log.Printf("waiting for the previous instance to shutdown")
			if err := ctxutil.RetryTimeout(ctx, time.Second, c.shutdownTimeout, flock.TryLock); err != nil {
				if err := owner.Signal(os.Kill); err != nil {
					return fmt.Errorf("could not kill current owner of the lock file: %w", err)
				}
				ctxutil.Sleep(ctx, time.Millisecond)
			}
		}
		if err := flock.TryLock(); err != nil {
			return fmt.Errorf("could not get lock on file %q after killing previous instance: %w", lockPath, err)
		}
	}
	defer flock.Unlock()

	// Start the http server.
	s, err := httputil.New(nil /* opts */)
	if err != nil {
		return err
	}
	defer s.Close()

	tcpServer, err := s.StartTCP(ctx, addr)
	if err != nil {
		return fmt.Errorf("could not start http server on %s: %w", addr, err)
	}
	defer s.Stop(tcpServer)

	if !c.noPprof {
		s.AddHandler("/debug/pprof/heap", pprof.Handler("heap"))
		s.AddHandler("/debug/pprof/goroutine", pprof.Handler("goroutine"))
		s.AddHandler("/debug/pprof/allocs", pprof.Handler("allocs"))
		s.AddHandler("/debug/pprof/block", pprof.Handler("block"))
		s.AddHandler("/debug/pprof/mutex", pprof.Handler("mutex"))
	}

	// Open the database.
	bopts := badger.DefaultOptions(dataDir)
	bdb, err := badger.Open(bopts)
	if err != nil {
		return fmt.Errorf("could not open the database: %w", err)
	}
	defer bdb.Close()
	db := kvbadger.New(bdb, isGoodKey)

	s.AddHandler("/db/", http.StripPrefix("/db", kvhttp.Handler(db)))

	// Start the tracker service.
	sopts := &server.Options{
		PassInterval: c.passInterval,
		Notional:     notional,
		Bots:         bots,
		NoRunPasses:  c.noPasses,
	}
	svc, err := server.New(ctx, db, secrets, sopts)
	if err != nil {
		return err
	}
	defer svc.Close()

	trackerAPIs := svc.HandlerMap()
	for k, v := range trackerAPIs {
		s.AddHandler(k, v)
	}
	defer func() {
		for k := range trackerAPIs {
			s.RemoveHandler(k)
		}
	}()

	if err := svc.Start(ctx); err != nil {
		return err
	}

	log.Printf("started profitbot server at %s", addr)
	s.AddHandler("/pid", http.HandlerFunc(func(w http.ResponseWriter, _ *http.Request) {
		io.WriteString(w, fmt.Sprintf("%d", os.Getpid()))
	}))

	<-ctx.Done()
	log.Printf("profitbot server is shutting down")
	return nil
}

func (c *Run) loadBots(dataDir string) ([]*tracker.BotDefinition, error) {
	fpath := c.botsPath
	if len(fpath) == 0 {
		fpath = filepath.Join(dataDir, "bots.json")
		if _, err := os.Stat(fpath); err != nil {
			if errors.Is(err, os.ErrNotExist) {
				return nil, nil
			}
			return nil, err
		}
	}
	data, err := os.ReadFile(fpath)
	if err != nil {
		return nil, fmt.Errorf("could not read bots file %q: %w", fpath, err)
	}
	var bots []*tracker.BotDefinition
	if err := json.Unmarshal(data, &bots); err != nil {
		return nil, fmt.Errorf("could not parse bots file %q: %w", fpath, err)
	}
	return bots, nil
}

func isGoodKey(k string) bool {
	return path.IsAbs(k) && k == path.Clean(k)
}
