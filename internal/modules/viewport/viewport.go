// Package viewport owns the visible time window and derives it from
// user gestures. Every transition is a pure function (state, event) ->
// state; there is no ambient mutable view state. Geometry is somebody
// else's job: the controller only moves the window.
package viewport

import (
	"math"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

const (
	// zoomRate is the exponential step per wheel notch.
	zoomRate = 0.2

	// minZoomSpanDivisor bounds how far zoom can shrink the window
	// relative to the full series extent.
	minZoomSpanDivisor = 500

	// minPanSpanDivisor bounds the window span while panning.
	minPanSpanDivisor = 1000
)

// DragState captures the pointer position and window at pan start.
type DragState struct {
	OriginPx     float64           `json:"origin_px"`
	OriginDomain domain.TimeDomain `json:"origin_domain"`
}

// State is the viewport: an explicit window override (zero Domain means
// auto-fit to the full series) and the active drag, if any. Idle is a
// nil Drag.
type State struct {
	Domain domain.TimeDomain `json:"domain"`
	Drag   *DragState        `json:"drag,omitempty"`
}

// Hit is the crosshair readout: the series point nearest in time to the
// cursor among the visible points.
type Hit struct {
	Index int     `json:"index"`
	Time  int64   `json:"time"`
	Value float64 `json:"value"`
}

// Active resolves the window the user currently sees.
func (s State) Active(full domain.TimeDomain) domain.TimeDomain {
	if s.Domain.IsZero() {
		return full
	}
	return s.Domain
}

// pxToTime maps a plot-area pixel to a timestamp under the window.
func pxToTime(win domain.TimeDomain, px, plotLeft, plotRight float64) float64 {
	if plotRight == plotLeft {
		return float64(win.X0)
	}
	return float64(win.X0) + (px-plotLeft)/(plotRight-plotLeft)*float64(win.Span())
}

// Zoom scales the window around the timestamp under the cursor by
// exp(direction * 0.2); direction is +1 for zoom-out, -1 for zoom-in.
// The result never exceeds the full extent and never shrinks below
// 1/500th of it.
func Zoom(st State, full domain.TimeDomain, cursorPx, plotLeft, plotRight float64, direction int) State {
	cur := st.Active(full)
	pivot := pxToTime(cur, cursorPx, plotLeft, plotRight)
	factor := math.Exp(float64(direction) * zoomRate)

	x0 := pivot - (pivot-float64(cur.X0))*factor
	x1 := pivot + (float64(cur.X1)-pivot)*factor

	minSpan := float64(full.Span()) / minZoomSpanDivisor
	if x1-x0 < minSpan {
		// Re-expand around the pivot, preserving the cursor's fraction.
		frac := 0.5
		if x1 > x0 {
			frac = (pivot - x0) / (x1 - x0)
		}
		x0 = pivot - frac*minSpan
		x1 = x0 + minSpan
	}

	next := clampToExtent(domain.TimeDomain{X0: int64(x0), X1: int64(x1)}, full)
	return State{Domain: next, Drag: st.Drag}
}

// PanStart enters the Panning state, capturing the pointer X and the
// window at that instant.
func PanStart(st State, full domain.TimeDomain, cursorPx float64) State {
	return State{
		Domain: st.Domain,
		Drag:   &DragState{OriginPx: cursorPx, OriginDomain: st.Active(full)},
	}
}

// PanMove shifts the window by the pointer delta converted through the
// pixel-to-time ratio of the origin window. A no-op when not panning.
// The shifted window is clamped to the full extent with its span
// preserved, subject to a 1/1000th-of-full minimum span.
func PanMove(st State, full domain.TimeDomain, cursorPx, plotLeft, plotRight float64) State {
	if st.Drag == nil {
		return st
	}

	origin := st.Drag.OriginDomain
	span := origin.Span()
	minSpan := full.Span() / minPanSpanDivisor
	if span < minSpan {
		span = minSpan
	}

	plotWidth := plotRight - plotLeft
	if plotWidth <= 0 {
		return st
	}
	// Dragging right reveals earlier times.
	dt := -(cursorPx - st.Drag.OriginPx) / plotWidth * float64(origin.Span())

	next := clampToExtent(domain.TimeDomain{
		X0: origin.X0 + int64(dt),
		X1: origin.X0 + int64(dt) + span,
	}, full)
	return State{Domain: next, Drag: st.Drag}
}

// PanEnd leaves the Panning state; the window keeps its last position.
func PanEnd(st State) State {
	return State{Domain: st.Domain}
}

// Fit clears the override; the next render auto-fits the full series.
func Fit(State) State {
	return State{}
}

// Crosshair finds the visible point nearest in time to the cursor.
// Returns false when no point falls inside the active window.
func Crosshair(st State, series domain.Series, full domain.TimeDomain, cursorPx, plotLeft, plotRight float64) (Hit, bool) {
	win := st.Active(full)
	target := pxToTime(win, cursorPx, plotLeft, plotRight)

	best := Hit{Index: -1}
	bestDist := math.Inf(1)
	for i, p := range series {
		if p.Time < win.X0 || p.Time > win.X1 {
			continue
		}
		if d := math.Abs(float64(p.Time) - target); d < bestDist {
			bestDist = d
			best = Hit{Index: i, Time: p.Time, Value: p.Value}
		}
	}

	return best, best.Index >= 0
}

// clampToExtent pushes the window back inside the full extent,
// preserving its span when only one edge overflows.
func clampToExtent(win, full domain.TimeDomain) domain.TimeDomain {
	span := win.Span()
	if span >= full.Span() {
		return full
	}
	if win.X0 < full.X0 {
		return domain.TimeDomain{X0: full.X0, X1: full.X0 + span}
	}
	if win.X1 > full.X1 {
		return domain.TimeDomain{X0: full.X1 - span, X1: full.X1}
	}
	return win
}
