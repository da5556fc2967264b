// Package handlers exposes the viewport's pure gesture transitions over
// HTTP. The server holds no viewport state: every request carries the
// current state and the gesture, and the response carries the next
// state.
package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/go-chi/chi/v5"
	"github.com/rs/zerolog"

	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/domain"
	"github.com/Goodmorning-Takaya/spx-synthetic-chart/internal/modules/viewport"
)

// Handler handles viewport gesture requests
type Handler struct {
	log zerolog.Logger
}

// NewHandler creates a new viewport handler
func NewHandler(log zerolog.Logger) *Handler {
	return &Handler{
		log: log.With().Str("handler", "viewport").Logger(),
	}
}

// RegisterRoutes registers viewport routes on the router
func (h *Handler) RegisterRoutes(r chi.Router) {
	r.Route("/viewport", func(r chi.Router) {
		r.Post("/zoom", h.HandleZoom)
		r.Post("/pan", h.HandlePan)
		r.Post("/crosshair", h.HandleCrosshair)
	})
}

type gestureRequest struct {
	State     viewport.State    `json:"state"`
	Full      domain.TimeDomain `json:"full"`
	CursorPx  float64           `json:"cursor_px"`
	PlotLeft  float64           `json:"plot_left"`
	PlotRight float64           `json:"plot_right"`
	Direction int               `json:"direction,omitempty"` // zoom: +1 out, -1 in
	Phase     string            `json:"phase,omitempty"`     // pan: start, move, end
	Series    domain.Series     `json:"series,omitempty"`    // crosshair only
}

func (h *Handler) decode(w http.ResponseWriter, r *http.Request) (*gestureRequest, bool) {
	var req gestureRequest
	if err := json.NewDecoder(r.Body).Decode(&req); err != nil {
		http.Error(w, "invalid request body", http.StatusBadRequest)
		return nil, false
	}
	if req.Full.X1 <= req.Full.X0 {
		http.Error(w, "full extent must have x0 < x1", http.StatusBadRequest)
		return nil, false
	}
	return &req, true
}

// HandleZoom handles POST /api/viewport/zoom
func (h *Handler) HandleZoom(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}
	if req.Direction != 1 && req.Direction != -1 {
		http.Error(w, "direction must be +1 or -1", http.StatusBadRequest)
		return
	}

	next := viewport.Zoom(req.State, req.Full, req.CursorPx, req.PlotLeft, req.PlotRight, req.Direction)
	h.writeJSON(w, http.StatusOK, map[string]interface{}{"state": next})
}

// HandlePan handles POST /api/viewport/pan
func (h *Handler) HandlePan(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	var next viewport.State
	switch req.Phase {
	case "start":
		next = viewport.PanStart(req.State, req.Full, req.CursorPx)
	case "move":
		next = viewport.PanMove(req.State, req.Full, req.CursorPx, req.PlotLeft, req.PlotRight)
	case "end":
		next = viewport.PanEnd(req.State)
	default:
		http.Error(w, "phase must be start, move or end", http.StatusBadRequest)
		return
	}

	h.writeJSON(w, http.StatusOK, map[string]interface{}{"state": next})
}

// HandleCrosshair handles POST /api/viewport/crosshair
func (h *Handler) HandleCrosshair(w http.ResponseWriter, r *http.Request) {
	req, ok := h.decode(w, r)
	if !ok {
		return
	}

	hit, found := viewport.Crosshair(req.State, req.Series, req.Full, req.CursorPx, req.PlotLeft, req.PlotRight)
	resp := map[string]interface{}{"found": found}
	if found {
		resp["hit"] = hit
	}
	h.writeJSON(w, http.StatusOK, resp)
}

// writeJSON writes a JSON response
func (h *Handler) writeJSON(w http.ResponseWriter, status int, data interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		h.log.Error().Err(err).Msg("Failed to encode JSON response")
	}
}
