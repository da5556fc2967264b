package series

import (
	"math/rand"
	"time"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

// demoSeed fixes the random walk so the fallback chart is identical on
// every render.
const demoSeed = 20240517

// demoPointCount picks a plausible series length per interval.
func demoPointCount(interval domain.Interval) int {
	switch interval {
	case domain.Interval1Min:
		return 390 // one trading day of minutes
	case domain.Interval5Min:
		return 390
	case domain.Interval15Min:
		return 130
	case domain.Interval60Min:
		return 35 // five trading days of hours
	case domain.IntervalWeek:
		return 520 // ten years of weeks
	case domain.IntervalMonth:
		return 120 // ten years of months
	default:
		return 504 // two years of trading days
	}
}

// Demo generates the deterministic fallback series used when the
// upstream fetch fails: a seeded random walk with a mild upward drift,
// ending at the reference time. Same inputs, same series.
func (s *Service) Demo(interval domain.Interval, start time.Time) domain.Series {
	rng := rand.New(rand.NewSource(demoSeed))
	count := demoPointCount(interval)
	step := interval.Step()

	end := s.now().UTC().Truncate(step)
	first := end.Add(-time.Duration(count-1) * step)

	out := make(domain.Series, 0, count)
	value := 5000.0
	for i := 0; i < count; i++ {
		out = append(out, domain.PricePoint{
			Time:  first.Add(time.Duration(i) * step).UnixMilli(),
			Value: value,
		})
		value *= 1 + (rng.Float64()-0.48)*0.02
	}

	return filterStart(out, start)
}
