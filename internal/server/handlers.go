package server

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"
	"time"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/clients/upstream"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/modules/geometry"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/modules/series"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/modules/simulator"
)

// Default viewport pixel dimensions when the request does not supply
// its own.
const (
	defaultWidth       = 900.0
	defaultHeight      = 420.0
	defaultLeftPad     = 48.0
	defaultRightMargin = 16.0
)

// ChartHandlers serves the raw proxy and the full chart pipeline.
type ChartHandlers struct {
	series  *series.Service
	fetcher series.ChartFetcher
	log     zerolog.Logger
}

// NewChartHandlers creates the chart handlers.
func NewChartHandlers(svc *series.Service, fetcher series.ChartFetcher, log zerolog.Logger) *ChartHandlers {
	return &ChartHandlers{
		series:  svc,
		fetcher: fetcher,
		log:     log.With().Str("handler", "chart").Logger(),
	}
}

// RegisterRoutes registers chart routes on the router
func (h *ChartHandlers) RegisterRoutes(r chi.Router) {
	r.Get("/spx", h.HandleSPX)
	r.Get("/chart", h.HandleChart)
}

// HandleSPX handles GET /api/spx?range=&interval=
//
// A strict proxy to the upstream provider: upstream failures surface as
// 502, malformed payloads as 500. No demo fallback here; that belongs
// to the chart pipeline.
func (h *ChartHandlers) HandleSPX(w http.ResponseWriter, r *http.Request) {
	interval, err := domain.ParseInterval(queryDefault(r, "interval", string(domain.IntervalDay)))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	rng := queryDefault(r, "range", "10y")

	data, err := h.fetcher.FetchChart(r.Context(), interval.ProviderToken(), rng)
	if err != nil {
		switch {
		case errors.Is(err, upstream.ErrUpstream):
			h.log.Warn().Err(err).Msg("Upstream provider failure")
			h.writeError(w, http.StatusBadGateway, "upstream provider failure")
		default:
			h.log.Error().Err(err).Msg("Failed to fetch upstream chart")
			h.writeError(w, http.StatusInternalServerError, "failed to fetch series")
		}
		return
	}

	if data == nil {
		data = domain.Series{}
	}
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"series": data})
}

// chartResponse is the full pipeline payload: the synthetic series plus
// its drawable geometry.
type chartResponse struct {
	Series   domain.Series   `json:"series"`
	Geometry *geometry.Chart `json:"geometry,omitempty"`
	Leverage string          `json:"leverage"`
	YMode    domain.YMode    `json:"ymode"`
	Demo     bool            `json:"demo,omitempty"`
	Advisory string          `json:"advisory,omitempty"`
	NoData   bool            `json:"no_data,omitempty"`
}

// HandleChart handles GET /api/chart
//
// Query parameters: interval, leverage, ymode, start (YYYY-MM-DD),
// x0/x1 (epoch ms window override), width, height. Runs fetch ->
// simulate -> geometry; a failed fetch substitutes the deterministic
// demo series with an advisory so the chart always renders.
func (h *ChartHandlers) HandleChart(w http.ResponseWriter, r *http.Request) {
	interval, err := domain.ParseInterval(queryDefault(r, "interval", string(domain.IntervalDay)))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	leverage, err := domain.ParseLeverage(queryDefault(r, "leverage", "+1"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}
	yMode, err := domain.ParseYMode(r.URL.Query().Get("ymode"))
	if err != nil {
		h.writeError(w, http.StatusBadRequest, err.Error())
		return
	}

	var start time.Time
	if s := r.URL.Query().Get("start"); s != "" {
		start, err = time.Parse("2006-01-02", s)
		if err != nil {
			h.writeError(w, http.StatusBadRequest, "start must be YYYY-MM-DD")
			return
		}
	}

	dom := domain.TimeDomain{
		X0: queryInt64(r, "x0", 0),
		X1: queryInt64(r, "x1", 0),
	}
	width := queryFloat(r, "width", defaultWidth)
	height := queryFloat(r, "height", defaultHeight)

	resp := chartResponse{Leverage: leverage.String(), YMode: yMode}

	raw, err := h.series.Fetch(r.Context(), interval, start)
	if err != nil {
		if errors.Is(err, series.ErrSuperseded) {
			h.writeError(w, http.StatusConflict, "superseded by a newer request")
			return
		}
		// All fetch failures collapse into one advisory plus the demo
		// series; the user retries manually, nothing retries for them.
		h.log.Warn().Err(err).Msg("Series fetch failed, falling back to demo data")
		raw = h.series.Demo(interval, start)
		resp.Demo = true
		resp.Advisory = "Live index data is unavailable; showing demo data."
	}

	if raw.Empty() {
		resp.Series = domain.Series{}
		resp.NoData = true
		h.writeJSON(w, http.StatusOK, resp)
		return
	}

	synthetic := simulator.Simulate(raw, leverage, simulator.DefaultBase)

	chart, err := geometry.Compute(synthetic, width, height, defaultLeftPad, interval, dom, yMode, defaultRightMargin)
	if err != nil {
		if errors.Is(err, geometry.ErrDegenerateInterval) {
			h.writeError(w, http.StatusUnprocessableEntity, err.Error())
			return
		}
		h.log.Error().Err(err).Msg("Geometry computation failed")
		h.writeError(w, http.StatusInternalServerError, "failed to compute chart geometry")
		return
	}

	resp.Series = synthetic
	resp.Geometry = chart
	h.writeJSON(w, http.StatusOK, resp)
}

func queryDefault(r *http.Request, key, fallback string) string {
	if v := r.URL.Query().Get(key); v != "" {
		return v
	}
	return fallback
}

func queryInt64(r *http.Request, key string, fallback int64) int64 {
	if v := r.URL.Query().Get(key); v != "" {
		if n, err := strconv.ParseInt(v, 10, 64); err == nil {
			return n
		}
	}
	return fallback
}

func queryFloat(r *http.Request, key string, fallback float64) float64 {
	if v := r.URL.Query().Get(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil && f > 0 {
			return f
		}
	}
	return fallback
}

// writeJSON writes a JSON response
func (h *ChartHandlers) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}

func (h *ChartHandlers) writeError(w http.ResponseWriter, status int, msg string) {
	h.writeJSON(w, status, map[string]string{"error": msg})
}
