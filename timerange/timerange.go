// Copyright (c) 2025 The profitbot Authors

package timerange

import "time"

// Range is a half-open [Begin, End) time interval. Zero Begin or End means
// unbounded on that side.
type Range struct {
	Begin, End time.Time
}

func (r *Range) IsZero() bool {
	return r.Begin.IsZero() && r.End.IsZero()
}

func (r *Range) Equal(v *Range) bool {
	return r.Begin.Equal(v.Begin) && r.End.Equal(v.End)
}

// InRange returns true if v falls inside the range.
func (r *Range) InRange(v time.Time) bool {
	if r.IsZero() {
		return true
	}
	if !r.Begin.IsZero() && v.Before(r.Begin) {
		return false
	}
	if !r.End.IsZero() && !v.Before(r.End) {
		return false
	}
	return true
}
