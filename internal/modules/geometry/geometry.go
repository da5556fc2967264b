// Package geometry converts a price series and a visible time window
// into drawable chart geometry: an SVG polyline path, axis ticks with
// pixel positions and labels, and the scale functions that produced
// them. Computation is a pure function of its inputs; nothing persists
// between calls.
package geometry

import (
	"fmt"
	"math"
	"strings"

	"gonum.org/v1/gonum/floats"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

const (
	// percentFloor keeps the percent transform defined when the anchor
	// value is zero or vanishingly small.
	percentFloor = 1e-9

	// rangePadFraction pads the transformed value range at both ends.
	rangePadFraction = 0.10

	yTickCount = 6
)

// XTick is a gridline position on the time axis. Labeled marks the
// subset selected by the minimum-gap filter.
type XTick struct {
	Time    int64   `json:"time"`
	Pixel   float64 `json:"pixel"`
	Label   string  `json:"label"`
	Labeled bool    `json:"labeled"`
}

// YTick is a gridline position on the value axis.
type YTick struct {
	Value float64 `json:"value"` // raw (untransformed) value
	Pixel float64 `json:"pixel"`
	Label string  `json:"label"`
}

// Chart is the derived geometry for one render. The scale closures map
// between data coordinates and pixels; they are excluded from JSON.
type Chart struct {
	Path   string            `json:"path"`
	XTicks []XTick           `json:"x_ticks"`
	YTicks []YTick           `json:"y_ticks"`
	Anchor float64           `json:"anchor"`
	Last   domain.PricePoint `json:"last"`
	Window domain.TimeDomain `json:"window"`
	Mode   domain.YMode      `json:"mode"` // effective mode after log degradation

	ScaleX  func(t int64) float64   `json:"-"`
	ScaleY  func(v float64) float64 `json:"-"` // raw value -> pixel
	InvertX func(px float64) int64  `json:"-"`
	InvertY func(px float64) float64 `json:"-"` // pixel -> raw value
}

// Compute derives chart geometry for the given series and viewport.
// The series is clamped to dom; a clamp that yields no points falls
// back to the entire series so an adversarial domain never produces a
// blank chart. The series must be non-empty.
func Compute(series domain.Series, width, height, leftPad float64, interval domain.Interval, dom domain.TimeDomain, yMode domain.YMode, rightMargin float64) (*Chart, error) {
	if series.Empty() {
		return nil, fmt.Errorf("geometry requires a non-empty series")
	}

	window := series.Extent()
	if !dom.IsZero() {
		window = dom.Intersect(series.Extent())
	}
	clamped := series.Slice(window.X0, window.X1)
	if clamped.Empty() {
		clamped = series
		window = series.Extent()
	}

	anchor := clamped[0].Value
	mode, tf, invf := transformFor(yMode, anchor, clamped)

	transformed := make([]float64, len(clamped))
	for i, p := range clamped {
		transformed[i] = tf(p.Value)
	}
	tMin := floats.Min(transformed)
	tMax := floats.Max(transformed)
	if tMin == tMax {
		tMin--
		tMax++
	}
	pad := rangePadFraction * (tMax - tMin)
	tMin -= pad
	tMax += pad

	plotLeft := leftPad
	plotRight := width - rightMargin
	plotTop := leftPad
	plotBottom := height - leftPad

	scaleX := func(t int64) float64 {
		if window.Span() == 0 {
			return (plotLeft + plotRight) / 2
		}
		return plotLeft + float64(t-window.X0)/float64(window.Span())*(plotRight-plotLeft)
	}
	invertX := func(px float64) int64 {
		if plotRight == plotLeft {
			return window.X0
		}
		return window.X0 + int64((px-plotLeft)/(plotRight-plotLeft)*float64(window.Span()))
	}
	// Inverted: larger values render higher on screen.
	scaleT := func(tv float64) float64 {
		return plotBottom + (tv-tMin)/(tMax-tMin)*(plotTop-plotBottom)
	}
	scaleY := func(v float64) float64 { return scaleT(tf(v)) }
	invertY := func(px float64) float64 {
		tv := tMin + (px-plotBottom)/(plotTop-plotBottom)*(tMax-tMin)
		return invf(tv)
	}

	xTicks, err := xAxisTicks(window, interval, scaleX)
	if err != nil {
		return nil, err
	}

	yTicks := make([]YTick, 0, yTickCount)
	for i := 0; i < yTickCount; i++ {
		tv := tMin + (tMax-tMin)*float64(i)/float64(yTickCount-1)
		yTicks = append(yTicks, YTick{
			Value: invf(tv),
			Pixel: scaleT(tv),
			Label: labelTransformed(mode, tv, invf),
		})
	}

	return &Chart{
		Path:    buildPath(clamped, scaleX, scaleY),
		XTicks:  xTicks,
		YTicks:  yTicks,
		Anchor:  anchor,
		Last:    clamped[len(clamped)-1],
		Window:  window,
		Mode:    mode,
		ScaleX:  scaleX,
		ScaleY:  scaleY,
		InvertX: invertX,
		InvertY: invertY,
	}, nil
}

// transformFor picks the value transform and its inverse for the mode.
// Log is selected only when every visible value is strictly positive;
// otherwise it silently degrades to linear.
func transformFor(yMode domain.YMode, anchor float64, visible domain.Series) (domain.YMode, func(float64) float64, func(float64) float64) {
	switch yMode {
	case domain.YModeLog:
		for _, p := range visible {
			if p.Value <= 0 {
				return domain.YModeLinear, identity, identity
			}
		}
		return domain.YModeLog, math.Log, math.Exp
	case domain.YModePercent:
		ref := math.Max(anchor, percentFloor)
		tf := func(v float64) float64 { return (v/ref - 1) * 100 }
		invf := func(p float64) float64 { return anchor * (1 + p/100) }
		return domain.YModePercent, tf, invf
	default:
		return domain.YModeLinear, identity, identity
	}
}

func identity(v float64) float64 { return v }

// LabelValue renders a raw value the way the Y axis would label it
// under the chart's effective mode.
func (c *Chart) LabelValue(v float64) string {
	switch c.Mode {
	case domain.YModePercent:
		ref := math.Max(c.Anchor, percentFloor)
		return percentLabel((v/ref - 1) * 100)
	default:
		return valueLabel(v)
	}
}

// labelTransformed labels a transformed axis position. In percent mode
// the transformed value already is the percentage relative to the
// anchor; other modes label the reconstructed raw value.
func labelTransformed(mode domain.YMode, tv float64, invf func(float64) float64) string {
	if mode == domain.YModePercent {
		return percentLabel(tv)
	}
	return valueLabel(invf(tv))
}

func percentLabel(p float64) string {
	if p == 0 {
		// Avoid "-0.0%" from negative zero.
		p = 0
	}
	return fmt.Sprintf("%.1f%%", p)
}

func valueLabel(v float64) string {
	switch {
	case math.Abs(v) >= 1000:
		return fmt.Sprintf("%.0f", v)
	case math.Abs(v) >= 1:
		return fmt.Sprintf("%.2f", v)
	default:
		return fmt.Sprintf("%.4f", v)
	}
}

// buildPath emits the SVG polyline command string for the visible
// slice: move to the first scaled point, then line to each subsequent
// one.
func buildPath(points domain.Series, scaleX func(int64) float64, scaleY func(float64) float64) string {
	var b strings.Builder
	for i, p := range points {
		cmd := "L"
		if i == 0 {
			cmd = "M"
		}
		fmt.Fprintf(&b, "%s%.2f,%.2f", cmd, scaleX(p.Time), scaleY(p.Value))
		if i < len(points)-1 {
			b.WriteByte(' ')
		}
	}
	return b.String()
}
