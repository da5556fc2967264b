// Package domain holds the core chart types shared by every module:
// price series, leverage, the visible time window, and the axis mode.
// It has no infrastructure dependencies.
package domain

// PricePoint is a single observation of the index.
// Time is in milliseconds since the Unix epoch.
type PricePoint struct {
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Series is an ordered price series, ascending by Time.
// A series is replaced wholesale on each fetch cycle and never mutated.
type Series []PricePoint

// Empty reports whether the series has no points.
func (s Series) Empty() bool {
	return len(s) == 0
}

// MinTime returns the timestamp of the first point.
// Must not be called on an empty series.
func (s Series) MinTime() int64 {
	return s[0].Time
}

// MaxTime returns the timestamp of the last point.
// Must not be called on an empty series.
func (s Series) MaxTime() int64 {
	return s[len(s)-1].Time
}

// Extent returns the full time window covered by the series.
func (s Series) Extent() TimeDomain {
	if s.Empty() {
		return TimeDomain{}
	}
	return TimeDomain{X0: s.MinTime(), X1: s.MaxTime()}
}

// Slice returns the points whose timestamps fall inside [x0, x1].
// The series is ordered, so the result is a contiguous subslice.
func (s Series) Slice(x0, x1 int64) Series {
	lo := 0
	for lo < len(s) && s[lo].Time < x0 {
		lo++
	}
	hi := len(s)
	for hi > lo && s[hi-1].Time > x1 {
		hi--
	}
	return s[lo:hi]
}

// After returns the points at or after the given timestamp.
func (s Series) After(t int64) Series {
	lo := 0
	for lo < len(s) && s[lo].Time < t {
		lo++
	}
	return s[lo:]
}

// TimeDomain is the visible time window on the X axis, in epoch
// milliseconds. The zero value means "auto-fit to the full series".
type TimeDomain struct {
	X0 int64 `json:"x0"`
	X1 int64 `json:"x1"`
}

// IsZero reports whether the domain is unset (auto-fit).
func (d TimeDomain) IsZero() bool {
	return d.X0 == 0 && d.X1 == 0
}

// Span returns the width of the window in milliseconds.
func (d TimeDomain) Span() int64 {
	return d.X1 - d.X0
}

// Intersect clamps the domain to the given bounds.
func (d TimeDomain) Intersect(bounds TimeDomain) TimeDomain {
	out := d
	if out.X0 < bounds.X0 {
		out.X0 = bounds.X0
	}
	if out.X1 > bounds.X1 {
		out.X1 = bounds.X1
	}
	return out
}
