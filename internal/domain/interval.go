package domain

import (
	"fmt"
	"time"
)

// Interval is a recognized sampling interval token.
type Interval string

// Recognized interval tokens. Intraday intervals are minute counts,
// the rest are calendar units.
const (
	Interval1Min  Interval = "1"
	Interval5Min  Interval = "5"
	Interval15Min Interval = "15"
	Interval60Min Interval = "60"
	IntervalDay   Interval = "D"
	IntervalWeek  Interval = "W"
	IntervalMonth Interval = "M"
)

// ParseInterval validates an interval token.
func ParseInterval(s string) (Interval, error) {
	switch Interval(s) {
	case Interval1Min, Interval5Min, Interval15Min, Interval60Min,
		IntervalDay, IntervalWeek, IntervalMonth:
		return Interval(s), nil
	}
	return "", fmt.Errorf("unrecognized interval token %q", s)
}

// Intraday reports whether the interval is minute-based.
func (iv Interval) Intraday() bool {
	switch iv {
	case Interval1Min, Interval5Min, Interval15Min, Interval60Min:
		return true
	}
	return false
}

// ProviderToken maps the interval to the upstream provider's token.
func (iv Interval) ProviderToken() string {
	switch iv {
	case Interval1Min:
		return "1m"
	case Interval5Min:
		return "5m"
	case Interval15Min:
		return "15m"
	case Interval60Min:
		return "60m"
	case IntervalDay:
		return "1d"
	case IntervalWeek:
		return "1wk"
	case IntervalMonth:
		return "1mo"
	}
	return "1d"
}

// Step returns the nominal duration of one interval bucket. Week and
// month steps are handled calendar-aware by the tick generator; this
// value is only used for non-calendar arithmetic such as demo data.
func (iv Interval) Step() time.Duration {
	switch iv {
	case Interval1Min:
		return time.Minute
	case Interval5Min:
		return 5 * time.Minute
	case Interval15Min:
		return 15 * time.Minute
	case Interval60Min:
		return time.Hour
	case IntervalDay:
		return 24 * time.Hour
	case IntervalWeek:
		return 7 * 24 * time.Hour
	case IntervalMonth:
		return 30 * 24 * time.Hour
	}
	return 24 * time.Hour
}

// RangeFor selects the provider range parameter for a fetch.
// Intraday intervals always request a 5-day window. Daily and coarser
// intervals pick the range from the age of the requested start date;
// no start date defaults to ten years.
func RangeFor(iv Interval, start time.Time, now time.Time) string {
	if iv.Intraday() {
		return "5d"
	}
	if start.IsZero() {
		return "10y"
	}

	age := now.Sub(start)
	const year = 365 * 24 * time.Hour
	switch {
	case age > 10*year:
		return "max"
	case age > 5*year:
		return "10y"
	case age > 2*year:
		return "5y"
	default:
		return "2y"
	}
}
