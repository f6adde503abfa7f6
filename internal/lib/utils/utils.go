// Package utils contains small helpers shared across packages.
package utils

import (
	"fmt"
	"math"
	"path"
	"strings"
	"time"
)

// TimeAgo renders the distance between t and now with a single unit, the
// way post headers show it: "45 seconds ago", "3 hours ago", "in 2 days".
// Values are rounded to the nearest whole unit.
func TimeAgo(t, now time.Time) string {
	diff := now.Sub(t)
	future := diff < 0
	if future {
		diff = -diff
	}

	seconds := diff.Seconds()
	var (
		value int
		unit  string
	)

	switch {
	case seconds < 60:
		value, unit = round(seconds), "second"
	case seconds < 60*60:
		value, unit = round(seconds/60), "minute"
	case seconds < 24*60*60:
		value, unit = round(seconds/3600), "hour"
	case seconds < 30*24*60*60:
		value, unit = round(seconds/86400), "day"
	case seconds < 365*24*60*60:
		value, unit = round(seconds/(30*86400)), "month"
	default:
		value, unit = round(seconds/(365*86400)), "year"
	}

	if value != 1 {
		unit += "s"
	}
	if future {
		return fmt.Sprintf("in %d %s", value, unit)
	}
	return fmt.Sprintf("%d %s ago", value, unit)
}

func round(v float64) int {
	return int(math.Round(v))
}

// FileExtension returns the lowercased extension of name without the dot,
// or "" when there is none.
func FileExtension(name string) string {
	return strings.TrimPrefix(strings.ToLower(path.Ext(name)), ".")
}
