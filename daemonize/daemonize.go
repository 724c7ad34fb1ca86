// Copyright (c) 2025 The profitbot Authors

// Package daemonize respawns the current program as a background
// daemon process.
package daemonize

import (
	"context"
	"fmt"
	"log"
	"log/slog"
	"log/syslog"
	"os"
	"os/exec"
	"os/signal"
	"path/filepath"
	"syscall"
	"time"

	"golang.org/x/sys/unix"
)

// Daemonize respawns the current program in the background with the
// same command-line arguments and exits the foreground process. The
// environment variable named by envKey tells the respawned process
// apart from the original; it must not be used by anything else, and
// its value carries the parent pid. Daemonize must run early in
// startup, before databases are opened or servers are started.
//
// Standard input and standard outputs in the background process are
// replaced with /dev/null and the standard library log is redirected
// to the syslog backend.
//
// The foreground process uses the check function to wait for the
// background process to become ready. Check receives the background
// process handle and returns (retry, err): a nil err means ready, a
// non-nil err with retry=true means check again later and with
// retry=false means give up.
//
// When successful, Daemonize returns nil to the background process
// and exits the foreground process (i.e., never returns). When
// unsuccessful, Daemonize returns non-nil error to the foreground
// process and exits the background process (i.e., never returns).
func Daemonize(ctx context.Context, envKey string, check func(context.Context, *os.Process) (bool, error)) error {
	if len(envKey) == 0 {
		return os.ErrInvalid
	}
	if v := os.Getenv(envKey); len(v) == 0 {
		if err := respawn(ctx, envKey, check); err != nil {
			return err
		}
		os.Exit(0)
	}
	if err := background(); err != nil {
		os.Exit(1)
	}
	return nil
}

func respawn(ctx context.Context, envKey string, check func(context.Context, *os.Process) (bool, error)) error {
	binary, err := exec.LookPath(os.Args[0])
	if err != nil {
		return fmt.Errorf("could not lookup binary: %w", err)
	}
	binaryPath, err := filepath.Abs(binary)
	if err != nil {
		return fmt.Errorf("could not determine absolute path for binary: %w", err)
	}

	file, err := os.OpenFile("/dev/null", os.O_RDWR, 0)
	if err != nil {
		return fmt.Errorf("could not open /dev/null: %w", err)
	}

	// Receive a signal when the child process dies.
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGCHLD, os.Interrupt)
	defer stop()

	attr := &os.ProcAttr{
		Dir:   "/",
		Env:   []string{fmt.Sprintf("%s=%d", envKey, os.Getpid())},
		Files: []*os.File{file, file, file},
	}
	child, err := os.StartProcess(binaryPath, os.Args, attr)
	if err != nil {
		return fmt.Errorf("could not start process: %w", err)
	}

	if check != nil {
		time.Sleep(time.Second)
		for ctx.Err() == nil {
			retry, err := check(ctx, child)
			if err == nil {
				break
			}
			if !retry {
				return fmt.Errorf("background process check has failed: %w", err)
			}
			slog.WarnContext(ctx, "background process is not yet initialized", "err", err)
			time.Sleep(time.Second)
		}
	}
	if err := ctx.Err(); err != nil {
		return fmt.Errorf("could not initialize the background process: %w", err)
	}
	return nil
}

func background() error {
	syslogger, err := syslog.New(syslog.LOG_INFO, "profitbot")
	if err != nil {
		return fmt.Errorf("could not create syslog: %w", err)
	}
	log.SetOutput(syslogger)

	if _, err := unix.Setsid(); err != nil {
		return fmt.Errorf("could not set session id: %w", err)
	}
	return nil
}
