package geometry

import (
	"errors"
	"time"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

const (
	// maxTickIterations bounds tick generation. Exceeding it means the
	// interval cannot cover the window and is reported as an error, not
	// silently truncated.
	maxTickIterations = 5000

	// minLabelGapPx is the minimum pixel distance between labeled ticks.
	minLabelGapPx = 80
)

// ErrDegenerateInterval is returned when tick generation would exceed
// the iteration guard for the requested window.
var ErrDegenerateInterval = errors.New("degenerate interval: tick generation exceeded iteration guard")

// xAxisTicks generates interval-aligned time ticks across the window
// and runs the label-selection filter. At least two ticks are always
// returned: if stepping produces fewer, ticks are forced at the window
// edges.
func xAxisTicks(window domain.TimeDomain, interval domain.Interval, scaleX func(int64) float64) ([]XTick, error) {
	var ticks []XTick

	t := alignDown(window.X0, interval)
	for i := 0; ; i++ {
		if i > maxTickIterations {
			return nil, ErrDegenerateInterval
		}
		if t > window.X1 {
			break
		}
		if t >= window.X0 {
			ticks = append(ticks, XTick{
				Time:  t,
				Pixel: scaleX(t),
				Label: tickLabel(t, interval),
			})
		}
		next := advance(t, interval)
		if next <= t {
			return nil, ErrDegenerateInterval
		}
		t = next
	}

	if len(ticks) < 2 {
		ticks = []XTick{
			{Time: window.X0, Pixel: scaleX(window.X0), Label: tickLabel(window.X0, interval)},
			{Time: window.X1, Pixel: scaleX(window.X1), Label: tickLabel(window.X1, interval)},
		}
	}

	selectLabels(ticks)
	return ticks, nil
}

// alignDown floors the timestamp to the interval boundary at or before
// it: first of month and Monday boundaries at 00:00 UTC for calendar
// intervals, bucket floors for the rest.
func alignDown(ms int64, interval domain.Interval) int64 {
	t := time.UnixMilli(ms).UTC()
	switch interval {
	case domain.IntervalMonth:
		return time.Date(t.Year(), t.Month(), 1, 0, 0, 0, 0, time.UTC).UnixMilli()
	case domain.IntervalWeek:
		day := time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC)
		// Weekday runs Sunday=0; shift back to the most recent Monday.
		offset := (int(day.Weekday()) + 6) % 7
		return day.AddDate(0, 0, -offset).UnixMilli()
	case domain.IntervalDay:
		return time.Date(t.Year(), t.Month(), t.Day(), 0, 0, 0, 0, time.UTC).UnixMilli()
	case domain.Interval60Min:
		return t.Truncate(time.Hour).UnixMilli()
	case domain.Interval15Min:
		return t.Truncate(15 * time.Minute).UnixMilli()
	case domain.Interval5Min:
		return t.Truncate(5 * time.Minute).UnixMilli()
	default:
		return t.Truncate(time.Minute).UnixMilli()
	}
}

// advance steps one interval forward, calendar-aware for weeks and
// months.
func advance(ms int64, interval domain.Interval) int64 {
	t := time.UnixMilli(ms).UTC()
	switch interval {
	case domain.IntervalMonth:
		return t.AddDate(0, 1, 0).UnixMilli()
	case domain.IntervalWeek:
		return t.AddDate(0, 0, 7).UnixMilli()
	case domain.IntervalDay:
		return t.AddDate(0, 0, 1).UnixMilli()
	default:
		return t.Add(interval.Step()).UnixMilli()
	}
}

func tickLabel(ms int64, interval domain.Interval) string {
	t := time.UnixMilli(ms).UTC()
	switch {
	case interval.Intraday():
		return t.Format("15:04")
	case interval == domain.IntervalMonth:
		return t.Format("Jan 2006")
	default:
		return t.Format("2006-01-02")
	}
}

// selectLabels greedily marks ticks for labeling with a minimum pixel
// gap, then tries to include the last tick unless it sits within half
// the gap of an already labeled one. The first tick is always labeled.
func selectLabels(ticks []XTick) {
	if len(ticks) == 0 {
		return
	}

	lastLabeled := ticks[0].Pixel
	ticks[0].Labeled = true
	for i := 1; i < len(ticks); i++ {
		if ticks[i].Pixel-lastLabeled >= minLabelGapPx {
			ticks[i].Labeled = true
			lastLabeled = ticks[i].Pixel
		}
	}

	last := len(ticks) - 1
	if !ticks[last].Labeled && ticks[last].Pixel-lastLabeled >= minLabelGapPx/2 {
		ticks[last].Labeled = true
	}
}
