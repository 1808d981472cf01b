package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"strconv"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// ClickRecorder receives click-through observations
type ClickRecorder interface {
	RecordClick(rank int, resultID string)
}

// ZeroResultReporter exposes queries that found nothing
type ZeroResultReporter interface {
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}

// AnalyticsHandler serves click tracking and search analytics reads
type AnalyticsHandler struct {
	clicks      ClickRecorder
	zeroResults ZeroResultReporter
}

// NewAnalyticsHandler creates a new analytics handler
func NewAnalyticsHandler(clicks ClickRecorder, zeroResults ZeroResultReporter) *AnalyticsHandler {
	return &AnalyticsHandler{clicks: clicks, zeroResults: zeroResults}
}

type clickRequest struct {
	Rank     *int   `json:"rank"`
	ResultID string `json:"result_id"`
}

// TrackClick handles POST /api/analytics/click
func (h *AnalyticsHandler) TrackClick(w http.ResponseWriter, r *http.Request) {
	var payload clickRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.Rank == nil || *payload.Rank < 0 {
		respondWithError(w, http.StatusBadRequest, "rank must be a non-negative integer")
		return
	}

	h.clicks.RecordClick(*payload.Rank, payload.ResultID)

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status": "recorded",
	})
}

// GetZeroResultQueries handles GET /api/analytics/zero-result-queries
func (h *AnalyticsHandler) GetZeroResultQueries(w http.ResponseWriter, r *http.Request) {
	limit := 100
	if raw := r.URL.Query().Get("limit"); raw != "" {
		parsed, err := strconv.Atoi(raw)
		if err != nil || parsed <= 0 {
			respondWithError(w, http.StatusBadRequest, "limit must be a positive integer")
			return
		}
		limit = parsed
	}

	events, err := h.zeroResults.GetZeroResultQueries(r.Context(), limit)
	if err != nil {
		respondWithError(w, http.StatusInternalServerError, "failed to load zero result queries")
		return
	}
	if events == nil {
		events = []*entities.SearchEvent{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"queries": events,
		"count":   len(events),
	})
}
