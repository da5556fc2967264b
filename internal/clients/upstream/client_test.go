package upstream

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/rs/zerolog"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

func testClient(t *testing.T, handler http.HandlerFunc) *Client {
	t.Helper()
	srv := httptest.NewServer(handler)
	t.Cleanup(srv.Close)

	log := zerolog.New(nil).Level(zerolog.Disabled)
	return NewClient(srv.URL, "/v8/finance/chart/%5EGSPC", 5*time.Second, log)
}

func TestFetchChartParsesAndFiltersPayload(t *testing.T) {
	// Two bars: a valid close and a null one. The null bar is dropped
	// and the second-resolution timestamp becomes milliseconds.
	payload := `{"chart":{"result":[{"timestamp":[1000,2000],"indicators":{"quote":[{"close":[50,null]}]}}],"error":null}}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		assert.Equal(t, "/v8/finance/chart/%5EGSPC", r.URL.EscapedPath())
		assert.Equal(t, "2y", r.URL.Query().Get("range"))
		assert.Equal(t, "1d", r.URL.Query().Get("interval"))
		assert.NotEmpty(t, r.Header.Get("User-Agent"))
		w.Write([]byte(payload))
	})

	series, err := c.FetchChart(context.Background(), "1d", "2y")
	require.NoError(t, err)
	assert.Equal(t, domain.Series{{Time: 1_000_000, Value: 50}}, series)
}

func TestFetchChartSortsOutOfOrderBars(t *testing.T) {
	payload := `{"chart":{"result":[{"timestamp":[2000,1000],"indicators":{"quote":[{"close":[60,50]}]}}]}}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	series, err := c.FetchChart(context.Background(), "1d", "2y")
	require.NoError(t, err)
	require.Len(t, series, 2)
	assert.Equal(t, int64(1_000_000), series[0].Time)
	assert.Equal(t, int64(2_000_000), series[1].Time)
}

func TestFetchChartUpstreamStatusError(t *testing.T) {
	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		http.Error(w, "throttled", http.StatusTooManyRequests)
	})

	_, err := c.FetchChart(context.Background(), "1d", "2y")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchChartAPIError(t *testing.T) {
	payload := `{"chart":{"result":null,"error":{"code":"Not Found","description":"No data found"}}}`

	c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
		w.Write([]byte(payload))
	})

	_, err := c.FetchChart(context.Background(), "1d", "2y")
	assert.ErrorIs(t, err, ErrUpstream)
}

func TestFetchChartMalformedPayload(t *testing.T) {
	tests := []struct {
		name string
		body string
	}{
		{name: "not json", body: `<html>oops</html>`},
		{name: "empty result", body: `{"chart":{"result":[]}}`},
		{name: "mismatched arrays", body: `{"chart":{"result":[{"timestamp":[1000,2000],"indicators":{"quote":[{"close":[50]}]}}]}}`},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			c := testClient(t, func(w http.ResponseWriter, r *http.Request) {
				w.Write([]byte(tt.body))
			})
			_, err := c.FetchChart(context.Background(), "1d", "2y")
			assert.ErrorIs(t, err, ErrBadPayload)
		})
	}
}

func TestFetchChartTransportError(t *testing.T) {
	log := zerolog.New(nil).Level(zerolog.Disabled)
	c := NewClient("http://127.0.0.1:1", "/chart", 500*time.Millisecond, log)

	_, err := c.FetchChart(context.Background(), "1d", "2y")
	assert.ErrorIs(t, err, ErrUpstream)
}
