package series

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

type fakeFetcher struct {
	mu       sync.Mutex
	series   domain.Series
	err      error
	interval string
	rng      string
	block    chan struct{} // when set, FetchChart waits on it
}

func (f *fakeFetcher) FetchChart(ctx context.Context, interval, rng string) (domain.Series, error) {
	f.mu.Lock()
	f.interval = interval
	f.rng = rng
	block := f.block
	f.mu.Unlock()

	if block != nil {
		<-block
	}
	return f.series, f.err
}

func newTestService(f *fakeFetcher) *Service {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	svc := NewService(f, log)
	svc.now = func() time.Time { return time.Date(2024, 6, 1, 12, 0, 0, 0, time.UTC) }
	return svc
}

func TestFetchAppliesRangePolicy(t *testing.T) {
	f := &fakeFetcher{series: domain.Series{{Time: 1, Value: 100}}}
	svc := newTestService(f)

	_, err := svc.Fetch(context.Background(), domain.Interval5Min, time.Time{})
	require.NoError(t, err)
	assert.Equal(t, "5m", f.interval)
	assert.Equal(t, "5d", f.rng)

	_, err = svc.Fetch(context.Background(), domain.IntervalDay, time.Date(2021, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Equal(t, "1d", f.interval)
	assert.Equal(t, "5y", f.rng)
}

func TestFetchStartFilter(t *testing.T) {
	f := &fakeFetcher{series: domain.Series{
		{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), Value: 100},
		{Time: time.Date(2024, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), Value: 110},
	}}
	svc := newTestService(f)

	got, err := svc.Fetch(context.Background(), domain.IntervalDay, time.Date(2023, 6, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	require.Len(t, got, 1)
	assert.Equal(t, 110.0, got[0].Value)
}

func TestFetchStartBeyondDataYieldsEmptyNotError(t *testing.T) {
	f := &fakeFetcher{series: domain.Series{
		{Time: time.Date(2023, 1, 1, 0, 0, 0, 0, time.UTC).UnixMilli(), Value: 100},
	}}
	svc := newTestService(f)

	got, err := svc.Fetch(context.Background(), domain.IntervalDay, time.Date(2030, 1, 1, 0, 0, 0, 0, time.UTC))
	require.NoError(t, err)
	assert.Empty(t, got)
}

func TestFetchSupersededResultDiscarded(t *testing.T) {
	block := make(chan struct{})
	f := &fakeFetcher{series: domain.Series{{Time: 1, Value: 100}}, block: block}
	svc := newTestService(f)

	done := make(chan error, 1)
	go func() {
		_, err := svc.Fetch(context.Background(), domain.IntervalDay, time.Time{})
		done <- err
	}()

	// Let the first fetch reach the provider, then start a newer one.
	time.Sleep(20 * time.Millisecond)
	f.mu.Lock()
	f.block = nil
	f.mu.Unlock()
	_, err := svc.Fetch(context.Background(), domain.IntervalDay, time.Time{})
	require.NoError(t, err)

	close(block)
	assert.ErrorIs(t, <-done, ErrSuperseded)
}

func TestDemoDeterministic(t *testing.T) {
	svc := newTestService(&fakeFetcher{})

	a := svc.Demo(domain.IntervalDay, time.Time{})
	b := svc.Demo(domain.IntervalDay, time.Time{})
	assert.Equal(t, a, b)
	assert.Len(t, a, 504)

	// Ascending timestamps, positive values.
	for i := 1; i < len(a); i++ {
		assert.Greater(t, a[i].Time, a[i-1].Time)
		assert.Positive(t, a[i].Value)
	}
}

func TestDemoRespectsStartFilter(t *testing.T) {
	svc := newTestService(&fakeFetcher{})

	full := svc.Demo(domain.IntervalDay, time.Time{})
	cut := time.UnixMilli(full[len(full)-10].Time)
	filtered := svc.Demo(domain.IntervalDay, cut)
	assert.Len(t, filtered, 10)
}
