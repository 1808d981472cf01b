package handlers

import (
	"context"
	"net/http"
	"strconv"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/infrastructure/observability"
)

// SearchProvider defines the search operation used by the handler
type SearchProvider interface {
	Search(ctx context.Context, rawQuery string, loc *entities.Coordinates) ([]*entities.SearchResult, error)
}

// SearchHandler serves the synchronous search endpoint
type SearchHandler struct {
	service SearchProvider
}

// NewSearchHandler creates a new search handler
func NewSearchHandler(service SearchProvider) *SearchHandler {
	return &SearchHandler{service: service}
}

// Search handles GET /api/search?q=&lat=&lng=
func (h *SearchHandler) Search(w http.ResponseWriter, r *http.Request) {
	query := r.URL.Query().Get("q")
	if query == "" {
		respondWithError(w, http.StatusBadRequest, "query parameter q is required")
		return
	}

	loc, err := parseLocation(r)
	if err != nil {
		respondWithError(w, http.StatusBadRequest, err.Error())
		return
	}

	results, err := h.service.Search(r.Context(), query, loc)
	if err != nil {
		observability.LoggerFromContext(r.Context()).Error().Err(err).Str("query", query).Msg("search failed")
		respondWithError(w, http.StatusInternalServerError, "search failed")
		return
	}
	if results == nil {
		results = []*entities.SearchResult{}
	}

	respondWithJSON(w, http.StatusOK, map[string]interface{}{
		"results": results,
		"count":   len(results),
	})
}

// parseLocation reads optional lat/lng query parameters. Both must be present
// and valid, or neither.
func parseLocation(r *http.Request) (*entities.Coordinates, error) {
	latStr := r.URL.Query().Get("lat")
	lngStr := r.URL.Query().Get("lng")

	if latStr == "" && lngStr == "" {
		return nil, nil
	}
	if latStr == "" || lngStr == "" {
		return nil, errBadLocation
	}

	lat, err := strconv.ParseFloat(latStr, 64)
	if err != nil {
		return nil, errBadLocation
	}
	lng, err := strconv.ParseFloat(lngStr, 64)
	if err != nil {
		return nil, errBadLocation
	}
	if lat < -90 || lat > 90 || lng < -180 || lng > 180 {
		return nil, errBadLocation
	}

	return &entities.Coordinates{Lat: lat, Lng: lng}, nil
}

type locationError string

func (e locationError) Error() string { return string(e) }

const errBadLocation = locationError("lat and lng must both be valid coordinates")
