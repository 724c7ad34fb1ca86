// Copyright (c) 2025 The profitbot Authors

package httputil

import (
	"fmt"
	"os"
	"time"
)

type Options struct {
	// ServerCheckTimeout holds the total time allowed for the
	// readiness probe after a listener is started.
	ServerCheckTimeout time.Duration

	// ServerCheckRetryInterval holds the wait between readiness probe
	// attempts.
	ServerCheckRetryInterval time.Duration
}

func (v *Options) setDefaults() {
	if v.ServerCheckTimeout == 0 {
		v.ServerCheckTimeout = 10 * time.Second
	}
	if v.ServerCheckRetryInterval == 0 {
		v.ServerCheckRetryInterval = time.Second
	}
}

func (v *Options) Check() error {
	if v.ServerCheckRetryInterval > v.ServerCheckTimeout {
		return fmt.Errorf("retry interval cannot be larger than the check timeout: %w", os.ErrInvalid)
	}
	return nil
}
