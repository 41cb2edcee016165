package utils

import (
	"fmt"
	"strconv"
	"time"
)

const dateLayout = "2006-01-02"

// ParseID parses a positive numeric resource ID
func ParseID(raw string) (uint64, error) {
	id, err := strconv.ParseUint(raw, 10, 64)
	if err != nil {
		return 0, fmt.Errorf("invalid id %q: %w", raw, err)
	}
	if id == 0 {
		return 0, fmt.Errorf("invalid id %q", raw)
	}
	return id, nil
}

// ParseBoolParam parses an optional boolean query parameter. present is the
// second value of gin's GetQuery.
func ParseBoolParam(raw string, present bool) (*bool, error) {
	if !present {
		return nil, nil
	}
	value, err := strconv.ParseBool(raw)
	if err != nil {
		return nil, fmt.Errorf("invalid boolean %q", raw)
	}
	return &value, nil
}

// ParseDateParam parses an optional RFC3339 timestamp or YYYY-MM-DD date.
// A bare date is midnight UTC, or the last instant of that day when
// endOfDay is set, so an upper bound includes the whole day.
func ParseDateParam(raw string, present bool, endOfDay bool) (*time.Time, error) {
	if !present {
		return nil, nil
	}

	if t, err := time.Parse(time.RFC3339, raw); err == nil {
		return &t, nil
	}

	t, err := time.ParseInLocation(dateLayout, raw, time.UTC)
	if err != nil {
		return nil, fmt.Errorf("invalid date %q, expected RFC3339 or YYYY-MM-DD", raw)
	}
	if endOfDay {
		t = t.Add(24*time.Hour - time.Nanosecond)
	}
	return &t, nil
}
