// Package upstream provides the client for the financial data
// provider's chart API. The provider returns parallel arrays of
// UNIX-second timestamps and closing prices; the client converts
// timestamps to milliseconds, drops non-finite closes, and hands back
// an ordered series.
package upstream

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"io"
	"math"
	"net/http"
	"sort"
	"time"

	"github.com/rs/zerolog"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
)

const (
	// DefaultBaseURL points at the public chart API.
	DefaultBaseURL = "https://query1.finance.yahoo.com"

	// DefaultSymbolPath is the chart path for the S&P 500 index
	// (^GSPC, escaped).
	DefaultSymbolPath = "/v8/finance/chart/%5EGSPC"

	// DefaultTimeout bounds one fetch.
	DefaultTimeout = 30 * time.Second
)

// Error taxonomy: the proxy maps ErrUpstream to 502 and ErrBadPayload
// to 500.
var (
	ErrUpstream   = errors.New("upstream provider failure")
	ErrBadPayload = errors.New("malformed upstream payload")
)

// Client fetches chart data from the upstream provider.
type Client struct {
	baseURL    string
	symbolPath string
	httpClient *http.Client
	log        zerolog.Logger
}

// NewClient creates a new upstream chart client.
func NewClient(baseURL, symbolPath string, timeout time.Duration, log zerolog.Logger) *Client {
	if baseURL == "" {
		baseURL = DefaultBaseURL
	}
	if symbolPath == "" {
		symbolPath = DefaultSymbolPath
	}
	if timeout <= 0 {
		timeout = DefaultTimeout
	}
	return &Client{
		baseURL:    baseURL,
		symbolPath: symbolPath,
		httpClient: &http.Client{Timeout: timeout},
		log:        log.With().Str("component", "upstream").Logger(),
	}
}

// chartPayload is the provider's nested response shape. Closes arrive
// as pointers because the provider emits null for missing bars.
type chartPayload struct {
	Chart struct {
		Result []struct {
			Timestamp  []int64 `json:"timestamp"`
			Indicators struct {
				Quote []struct {
					Close []*float64 `json:"close"`
				} `json:"quote"`
			} `json:"indicators"`
		} `json:"result"`
		Error *struct {
			Code        string `json:"code"`
			Description string `json:"description"`
		} `json:"error"`
	} `json:"chart"`
}

// FetchChart fetches one range/interval window and returns the parsed
// series, ascending by time. rng and interval are provider tokens.
func (c *Client) FetchChart(ctx context.Context, interval, rng string) (domain.Series, error) {
	u := fmt.Sprintf("%s%s?range=%s&interval=%s", c.baseURL, c.symbolPath, rng, interval)

	req, err := http.NewRequestWithContext(ctx, http.MethodGet, u, nil)
	if err != nil {
		return nil, fmt.Errorf("failed to create request: %w", err)
	}
	// The provider rejects the default Go user agent.
	req.Header.Set("User-Agent", "Mozilla/5.0")

	c.log.Debug().Str("range", rng).Str("interval", interval).Msg("Fetching upstream chart")

	resp, err := c.httpClient.Do(req)
	if err != nil {
		return nil, fmt.Errorf("%w: %v", ErrUpstream, err)
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		body, _ := io.ReadAll(io.LimitReader(resp.Body, 512))
		return nil, fmt.Errorf("%w: status %d, body: %s", ErrUpstream, resp.StatusCode, string(body))
	}

	var payload chartPayload
	if err := json.NewDecoder(resp.Body).Decode(&payload); err != nil {
		return nil, fmt.Errorf("%w: decode: %v", ErrBadPayload, err)
	}
	if payload.Chart.Error != nil {
		return nil, fmt.Errorf("%w: %s", ErrUpstream, payload.Chart.Error.Description)
	}
	if len(payload.Chart.Result) == 0 || len(payload.Chart.Result[0].Indicators.Quote) == 0 {
		return nil, fmt.Errorf("%w: no result in payload", ErrBadPayload)
	}

	result := payload.Chart.Result[0]
	closes := result.Indicators.Quote[0].Close
	if len(closes) != len(result.Timestamp) {
		return nil, fmt.Errorf("%w: %d timestamps vs %d closes", ErrBadPayload, len(result.Timestamp), len(closes))
	}

	series := make(domain.Series, 0, len(result.Timestamp))
	for i, ts := range result.Timestamp {
		v := closes[i]
		if v == nil || math.IsNaN(*v) || math.IsInf(*v, 0) {
			continue
		}
		series = append(series, domain.PricePoint{Time: ts * 1000, Value: *v})
	}

	sort.Slice(series, func(i, j int) bool { return series[i].Time < series[j].Time })

	c.log.Debug().Int("points", len(series)).Msg("Upstream chart fetched")
	return series, nil
}
