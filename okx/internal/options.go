// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"net/url"
	"time"
)

var RestURL = url.URL{
	Scheme: "https",
	Host:   "www.okx.com",
}

type Options struct {
	// RestURL overrides the REST service endpoint. Used by tests.
	RestURL string

	// HttpClientTimeout bounds every REST call. There is exactly one attempt
	// per call; a timed out or failed request is never retried.
	HttpClientTimeout time.Duration

	// RateLimitPerSec bounds the number of REST calls issued per second.
	RateLimitPerSec int
}

func (v *Options) setDefaults() {
	if v.RestURL == "" {
		v.RestURL = RestURL.String()
	}
	if v.HttpClientTimeout == 0 {
		v.HttpClientTimeout = 10 * time.Second
	}
	if v.RateLimitPerSec == 0 {
		v.RateLimitPerSec = 5
	}
}

// Check validates the options.
func (v *Options) Check() error {
	if _, err := url.Parse(v.RestURL); err != nil {
		return err
	}
	return nil
}
