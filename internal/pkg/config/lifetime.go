package config

import (
	"fmt"
	"regexp"
	"strconv"
	"strings"
	"time"
)

var lifetimePattern = regexp.MustCompile(`(?i)^(-?(?:\d+)?\.?\d+) *(milliseconds?|msecs?|ms|seconds?|secs?|s|minutes?|mins?|m|hours?|hrs?|h|days?|d|weeks?|w|years?|yrs?|y)?$`)

const (
	day  = 24 * time.Hour
	week = 7 * day
	year = 365*day + 6*time.Hour
)

// ParseLifetime converts strings such as "90s", "15m", "12h", "3d", "1w",
// "1y" or "2 days" into a duration. A bare number is read as milliseconds.
func ParseLifetime(s string) (time.Duration, error) {
	m := lifetimePattern.FindStringSubmatch(strings.TrimSpace(s))
	if m == nil {
		return 0, fmt.Errorf("invalid lifetime %q", s)
	}
	n, err := strconv.ParseFloat(m[1], 64)
	if err != nil {
		return 0, fmt.Errorf("invalid lifetime %q: %w", s, err)
	}

	var unit time.Duration
	switch u := strings.ToLower(m[2]); {
	case u == "" || strings.HasPrefix(u, "ms") || strings.HasPrefix(u, "millisecond"):
		unit = time.Millisecond
	case strings.HasPrefix(u, "s"):
		unit = time.Second
	case strings.HasPrefix(u, "m"):
		unit = time.Minute
	case strings.HasPrefix(u, "h"):
		unit = time.Hour
	case strings.HasPrefix(u, "d"):
		unit = day
	case strings.HasPrefix(u, "w"):
		unit = week
	default:
		unit = year
	}
	return time.Duration(n * float64(unit)), nil
}
