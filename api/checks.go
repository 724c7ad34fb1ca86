// Copyright (c) 2025 The profitbot Authors

package api

import (
	"fmt"
	"time"
)

func (r *DailyRequest) Check() error {
	if len(r.Date) == 0 {
		return nil
	}
	if _, err := time.Parse("2006-01-02", r.Date); err != nil {
		return fmt.Errorf("could not parse date %q: %w", r.Date, err)
	}
	return nil
}

func (r *MonthlyRequest) Check() error {
	if len(r.Month) == 0 {
		return nil
	}
	if _, err := time.Parse("2006-01", r.Month); err != nil {
		return fmt.Errorf("could not parse month %q: %w", r.Month, err)
	}
	return nil
}
