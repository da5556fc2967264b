package viewport

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

const (
	plotLeft  = 40.0
	plotRight = 780.0
)

var full = domain.TimeDomain{X0: 1_000_000, X1: 2_000_000}

func TestActiveAutoFit(t *testing.T) {
	assert.Equal(t, full, State{}.Active(full))

	override := domain.TimeDomain{X0: 1_200_000, X1: 1_400_000}
	assert.Equal(t, override, State{Domain: override}.Active(full))
}

func TestZoomInOutRoundTrip(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: 1_300_000, X1: 1_700_000}}
	cursor := (plotLeft + plotRight) / 2

	zoomed := Zoom(st, full, cursor, plotLeft, plotRight, -1)
	assert.Less(t, zoomed.Domain.Span(), st.Domain.Span())

	back := Zoom(zoomed, full, cursor, plotLeft, plotRight, 1)
	assert.InDelta(t, float64(st.Domain.X0), float64(back.Domain.X0), 5)
	assert.InDelta(t, float64(st.Domain.X1), float64(back.Domain.X1), 5)
}

func TestZoomOutClampsToFullExtent(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: 1_050_000, X1: 1_950_000}}

	out := st
	for i := 0; i < 10; i++ {
		out = Zoom(out, full, plotLeft+100, plotLeft, plotRight, 1)
	}
	assert.Equal(t, full, out.Domain)
}

func TestZoomInMinimumSpan(t *testing.T) {
	st := State{}
	for i := 0; i < 100; i++ {
		st = Zoom(st, full, (plotLeft+plotRight)/2, plotLeft, plotRight, -1)
	}

	minSpan := full.Span() / 500
	assert.GreaterOrEqual(t, st.Domain.Span(), minSpan-1)
}

func TestZoomFromAutoFitCreatesOverride(t *testing.T) {
	st := Zoom(State{}, full, (plotLeft+plotRight)/2, plotLeft, plotRight, -1)
	assert.False(t, st.Domain.IsZero())
	assert.Less(t, st.Domain.Span(), full.Span())
}

func TestPanStateMachine(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: 1_400_000, X1: 1_600_000}}
	assert.Nil(t, st.Drag)

	st = PanStart(st, full, 400)
	require.NotNil(t, st.Drag)
	assert.Equal(t, 400.0, st.Drag.OriginPx)
	assert.Equal(t, domain.TimeDomain{X0: 1_400_000, X1: 1_600_000}, st.Drag.OriginDomain)

	// Drag left by 74px: 10% of the plot width, so the window shifts
	// forward by 10% of its span.
	moved := PanMove(st, full, 400-74, plotLeft, plotRight)
	assert.Equal(t, int64(1_420_000), moved.Domain.X0)
	assert.Equal(t, int64(1_620_000), moved.Domain.X1)

	done := PanEnd(moved)
	assert.Nil(t, done.Drag)
	assert.Equal(t, moved.Domain, done.Domain)
}

func TestPanMoveWithoutStartIsNoop(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: 1_400_000, X1: 1_600_000}}
	assert.Equal(t, st, PanMove(st, full, 500, plotLeft, plotRight))
}

func TestPanClampsAtLeftEdge(t *testing.T) {
	// Window already at the full extent's left edge; panning further
	// left clamps rather than wrapping.
	st := State{Domain: domain.TimeDomain{X0: full.X0, X1: full.X0 + 200_000}}
	st = PanStart(st, full, 400)
	moved := PanMove(st, full, 400+300, plotLeft, plotRight)

	assert.Equal(t, full.X0, moved.Domain.X0)
	assert.Equal(t, int64(200_000), moved.Domain.Span(), "span preserved while clamped")
}

func TestPanClampsAtRightEdge(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: full.X1 - 200_000, X1: full.X1}}
	st = PanStart(st, full, 400)
	moved := PanMove(st, full, 400-300, plotLeft, plotRight)

	assert.Equal(t, full.X1, moved.Domain.X1)
	assert.Equal(t, int64(200_000), moved.Domain.Span())
}

func TestFitResetsToAutoFit(t *testing.T) {
	st := State{Domain: domain.TimeDomain{X0: 1_100_000, X1: 1_200_000}}
	assert.True(t, Fit(st).Domain.IsZero())
}

func TestCrosshairNearestVisiblePoint(t *testing.T) {
	series := domain.Series{
		{Time: 1_100_000, Value: 10},
		{Time: 1_500_000, Value: 20},
		{Time: 1_900_000, Value: 30},
	}

	// Cursor at the middle of the plot maps to the window midpoint.
	hit, ok := Crosshair(State{}, series, full, (plotLeft+plotRight)/2, plotLeft, plotRight)
	require.True(t, ok)
	assert.Equal(t, 1, hit.Index)
	assert.Equal(t, int64(1_500_000), hit.Time)
	assert.Equal(t, 20.0, hit.Value)
}

func TestCrosshairRespectsWindow(t *testing.T) {
	series := domain.Series{
		{Time: 1_100_000, Value: 10},
		{Time: 1_900_000, Value: 30},
	}
	st := State{Domain: domain.TimeDomain{X0: 1_400_000, X1: 1_600_000}}

	_, ok := Crosshair(st, series, full, (plotLeft+plotRight)/2, plotLeft, plotRight)
	assert.False(t, ok, "no point inside the window")
}
