// Copyright (c) 2025 The profitbot Authors

package internal

import (
	"crypto/hmac"
	"crypto/sha256"
	"encoding/base64"
	"io"
	"time"
)

// Sign computes the OK-ACCESS-SIGN header value: the base64 encoding of an
// HMAC-SHA256 digest over timestamp+method+requestPath+body, keyed with the
// account's secret key. Identical inputs always produce identical output.
func Sign(secret, timestamp, method, requestPath, body string) string {
	mac := hmac.New(sha256.New, []byte(secret))
	io.WriteString(mac, timestamp)
	io.WriteString(mac, method)
	io.WriteString(mac, requestPath)
	io.WriteString(mac, body)
	return base64.StdEncoding.EncodeToString(mac.Sum(nil))
}

// Timestamp formats t for the OK-ACCESS-TIMESTAMP header: UTC, ISO-8601 with
// millisecond precision and a trailing Z.
func Timestamp(t time.Time) string {
	return t.UTC().Format("2006-01-02T15:04:05.000Z")
}
