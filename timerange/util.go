// Copyright (c) 2025 The profitbot Authors

package timerange

import "time"

func Today(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	beg := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone)
	return &Range{
		Begin: beg,
		End:   beg.AddDate(0, 0, 1),
	}
}

func Yesterday(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	today := time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, zone)
	return &Range{
		Begin: today.AddDate(0, 0, -1),
		End:   today,
	}
}

func ThisMonth(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	begin := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: begin, End: begin.AddDate(0, 1, 0)}
}

func LastMonth(zone *time.Location) *Range {
	if zone == nil {
		zone = time.Local
	}
	now := time.Now().In(zone)
	end := time.Date(now.Year(), now.Month(), 1, 0, 0, 0, 0, zone)
	return &Range{Begin: end.AddDate(0, -1, 0), End: end}
}
