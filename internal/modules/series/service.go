// Package series supplies the raw index series for the chart: one
// upstream fetch per cycle, a start-date filter, and a deterministic
// demo fallback for when the provider is unreachable.
package series

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/google/uuid"
	"github.com/rs/zerolog"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

// ErrSuperseded is returned when a newer fetch replaced this one while
// it was in flight. The stale result must be discarded, never rendered.
var ErrSuperseded = errors.New("fetch superseded by a newer request")

// ChartFetcher fetches one range/interval window from the provider.
type ChartFetcher interface {
	FetchChart(ctx context.Context, interval, rng string) (domain.Series, error)
}

// Service coordinates series fetches. Each fetch carries a generation
// token; when a newer fetch starts, older in-flight results are
// rejected on arrival. This is the ordering guarantee a single-threaded
// event loop would give for free.
type Service struct {
	fetcher ChartFetcher
	log     zerolog.Logger
	now     func() time.Time

	mu         sync.Mutex
	generation uuid.UUID
}

// NewService creates a new series service.
func NewService(fetcher ChartFetcher, log zerolog.Logger) *Service {
	return &Service{
		fetcher: fetcher,
		log:     log.With().Str("service", "series").Logger(),
		now:     time.Now,
	}
}

// Fetch retrieves the raw series for the interval, picking the provider
// range from the start date, and applies the start-date filter. An
// empty filtered series is not an error; callers render a no-data
// placeholder.
func (s *Service) Fetch(ctx context.Context, interval domain.Interval, start time.Time) (domain.Series, error) {
	gen := uuid.New()
	s.mu.Lock()
	s.generation = gen
	s.mu.Unlock()

	rng := domain.RangeFor(interval, start, s.now())
	raw, err := s.fetcher.FetchChart(ctx, interval.ProviderToken(), rng)

	s.mu.Lock()
	superseded := s.generation != gen
	s.mu.Unlock()
	if superseded {
		s.log.Debug().Str("generation", gen.String()).Msg("Discarding superseded fetch result")
		return nil, ErrSuperseded
	}
	if err != nil {
		return nil, err
	}

	return filterStart(raw, start), nil
}

func filterStart(s domain.Series, start time.Time) domain.Series {
	if start.IsZero() {
		return s
	}
	return s.After(start.UnixMilli())
}
