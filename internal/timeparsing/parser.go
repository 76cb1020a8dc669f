// Package timeparsing turns --since values that are not git revisions into
// points in time. Layers are tried in order:
//  1. Compact duration (-6h, -1d, 2w)
//  2. Absolute timestamp (RFC3339, date-only)
//  3. Natural language (yesterday, 2 weeks ago)
package timeparsing

import (
	"fmt"
	"regexp"
	"strconv"
	"time"
)

// compactDurationRe matches compact duration patterns: [+-]?(\d+)([hdwmy])
var compactDurationRe = regexp.MustCompile(`^([+-]?)(\d+)([hdwmy])$`)

// ParseCompactDuration parses compact duration syntax relative to now.
//
// Units: h hours, d days, w weeks, m months, y years. A leading '-' moves
// back in time; no sign or '+' moves forward.
func ParseCompactDuration(s string, now time.Time) (time.Time, error) {
	amount, unit, err := splitCompact(s)
	if err != nil {
		return time.Time{}, err
	}
	return applyDuration(now, amount, unit), nil
}

// ParseSince resolves a --since expression. Unsigned compact durations
// look back ("2w" means two weeks ago), since a future baseline is never
// useful for comparing against history.
func ParseSince(s string, now time.Time) (time.Time, error) {
	if amount, unit, err := splitCompact(s); err == nil {
		if amount > 0 && s[0] != '+' {
			amount = -amount
		}
		return applyDuration(now, amount, unit), nil
	}
	t, err := ParseRelativeTime(s, now)
	if err != nil {
		return time.Time{}, err
	}
	return t, nil
}

func splitCompact(s string) (int, string, error) {
	matches := compactDurationRe.FindStringSubmatch(s)
	if matches == nil {
		return 0, "", fmt.Errorf("not a compact duration: %q", s)
	}
	amount, err := strconv.Atoi(matches[2])
	if err != nil {
		return 0, "", fmt.Errorf("invalid duration amount: %q", matches[2])
	}
	if matches[1] == "-" {
		amount = -amount
	}
	return amount, matches[3], nil
}

func applyDuration(base time.Time, amount int, unit string) time.Time {
	switch unit {
	case "h":
		return base.Add(time.Duration(amount) * time.Hour)
	case "d":
		return base.AddDate(0, 0, amount)
	case "w":
		return base.AddDate(0, 0, amount*7)
	case "m":
		return base.AddDate(0, amount, 0)
	case "y":
		return base.AddDate(amount, 0, 0)
	default:
		return base
	}
}

// IsCompactDuration returns true if the string matches compact duration syntax.
func IsCompactDuration(s string) bool {
	return compactDurationRe.MatchString(s)
}
