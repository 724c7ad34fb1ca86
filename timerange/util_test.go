// Copyright (c) 2025 The profitbot Authors

package timerange

import (
	"testing"
	"time"
)

func TestPeriods(t *testing.T) {
	now := time.Now()

	v := Today(nil)
	if !v.InRange(now) {
		t.Errorf("Today %v..%v does not contain %v", v.Begin, v.End, now)
	}

	v = Yesterday(nil)
	if v.InRange(now) {
		t.Errorf("Yesterday %v..%v should not contain %v", v.Begin, v.End, now)
	}

	v = ThisMonth(nil)
	if !v.InRange(now) {
		t.Errorf("ThisMonth %v..%v does not contain %v", v.Begin, v.End, now)
	}
	if got := v.End.Sub(v.Begin); got < 28*24*time.Hour || got > 31*24*time.Hour {
		t.Errorf("ThisMonth has unexpected length %v", got)
	}

	v = LastMonth(nil)
	if v.InRange(now) {
		t.Errorf("LastMonth %v..%v should not contain %v", v.Begin, v.End, now)
	}
	if this := ThisMonth(nil); !v.End.Equal(this.Begin) {
		t.Errorf("LastMonth end %v != ThisMonth begin %v", v.End, this.Begin)
	}
}

func TestInRangeZero(t *testing.T) {
	var r Range
	if !r.IsZero() {
		t.Fatalf("zero range reported non-zero")
	}
	if !r.InRange(time.Now()) {
		t.Fatalf("zero range must contain all times")
	}
}
