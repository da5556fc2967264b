// Package simulator derives a synthetic leveraged equity curve from a
// raw index series.
//
// The simulation compounds per-period leveraged returns rather than
// scaling absolute price moves from a fixed origin. For large leverage
// over long windows this diverges from a naive "Nx the index" reading:
// a 10x short can trend upward even while the index trends down, once
// return compounding dominates. That is the intended behavior.
package simulator

import (
	"math"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

// DefaultBase is the starting value of the synthetic curve when the
// caller does not supply one.
const DefaultBase = 100

// Simulate turns a base price series and a leverage multiplier into a
// synthetic series of the same length and timestamps. The first output
// value equals base, a fixed pivot unaffected by leverage direction.
//
// Leverage zero is not validated here (that is the parser's job) and
// degenerates to a flat line at base. Pure function of its inputs.
func Simulate(series domain.Series, leverage domain.Leverage, base float64) domain.Series {
	if series.Empty() {
		return domain.Series{}
	}
	if base < 0 || math.IsNaN(base) || math.IsInf(base, 0) {
		base = 0
	}

	out := make(domain.Series, len(series))
	out[0] = domain.PricePoint{Time: series[0].Time, Value: base}

	for i := 1; i < len(series); i++ {
		prev := series[i-1].Value

		// A zero or non-finite previous price yields a zero return,
		// never a division blowup.
		var r float64
		if prev != 0 && !math.IsNaN(prev) && !math.IsInf(prev, 0) {
			r = (series[i].Value - prev) / prev
		}

		out[i] = domain.PricePoint{
			Time:  series[i].Time,
			Value: out[i-1].Value * (1 + float64(leverage)*r),
		}
	}

	return out
}
