package timeline

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

// durationRegex matches relative bounds like "24h", "7d", "2w", "1m".
var durationRegex = regexp.MustCompile(`^(\d+)([hdwm])$`)

const dateLayout = "2006-01-02"

// ParseStart parses a lower window bound. Empty means unbounded.
// Accepts:
//   - Durations back from now: "24h", "7d", "2w", "1m"
//   - Dates: "2026-01-17" (start of day, UTC)
//   - RFC 3339 timestamps
//   - Unix seconds prefixed with @: "@1700000000"
func ParseStart(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseBound(value, now)
	if err != nil {
		return nil, fmt.Errorf("invalid start %q; use duration (24h, 7d, 2w), date (2026-01-17), RFC 3339 or @unix", value)
	}
	return &t, nil
}

// ParseStop parses an upper window bound. Empty means unbounded.
// Accepts the same forms as ParseStart; a bare date extends to the last
// second of that day so the whole day is included.
func ParseStop(value string, now time.Time) (*time.Time, error) {
	if value == "" {
		return nil, nil
	}
	t, err := parseBound(value, now)
	if err != nil {
		return nil, fmt.Errorf("invalid stop %q; use duration (24h, 7d, 2w), date (2026-01-17), RFC 3339 or @unix", value)
	}
	if isDate(value) {
		t = t.Add(24*time.Hour - time.Second)
	}
	return &t, nil
}

// ParseQuery builds a Query from textual bounds and category filters.
// A nil filters slice selects every category.
func ParseQuery(start, stop string, filters []string, now time.Time) (Query, error) {
	q := Query{Filters: filters}
	var err error
	if q.Start, err = ParseStart(start, now); err != nil {
		return Query{}, err
	}
	if q.Stop, err = ParseStop(stop, now); err != nil {
		return Query{}, err
	}
	if q.Start != nil && q.Stop != nil && q.Stop.Before(*q.Start) {
		return Query{}, fmt.Errorf("stop %s is before start %s", q.Stop.Format(time.RFC3339), q.Start.Format(time.RFC3339))
	}
	return q, nil
}

func parseBound(value string, now time.Time) (time.Time, error) {
	if matches := durationRegex.FindStringSubmatch(value); len(matches) == 3 {
		return relative(matches[1], matches[2], now)
	}
	if unix, ok := strings.CutPrefix(value, "@"); ok {
		secs, err := strconv.ParseInt(unix, 10, 64)
		if err != nil {
			return time.Time{}, err
		}
		return time.Unix(secs, 0).UTC(), nil
	}
	if t, err := time.Parse(dateLayout, value); err == nil {
		return t, nil
	}
	return time.Parse(time.RFC3339, value)
}

func relative(numStr, unit string, now time.Time) (time.Time, error) {
	num, err := strconv.Atoi(numStr)
	if err != nil || num <= 0 {
		return time.Time{}, fmt.Errorf("invalid duration number: %s", numStr)
	}
	now = now.UTC()
	switch unit {
	case "h":
		return now.Add(-time.Duration(num) * time.Hour), nil
	case "d":
		return now.AddDate(0, 0, -num), nil
	case "w":
		return now.AddDate(0, 0, -num*7), nil
	case "m":
		return now.AddDate(0, -num, 0), nil
	}
	return time.Time{}, fmt.Errorf("unknown duration unit: %s", unit)
}

func isDate(value string) bool {
	return len(value) == len(dateLayout) && value[4] == '-' && value[7] == '-'
}
