package handlers

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

type stubSearchProvider struct {
	results []*entities.SearchResult
	err     error
	lastQ   string
	lastLoc *entities.Coordinates
	called  int
}

func (s *stubSearchProvider) Search(ctx context.Context, rawQuery string, loc *entities.Coordinates) ([]*entities.SearchResult, error) {
	s.called++
	s.lastQ = rawQuery
	s.lastLoc = loc
	return s.results, s.err
}

func TestSearchHandler_OK(t *testing.T) {
	provider := &stubSearchProvider{results: []*entities.SearchResult{
		{ID: "v1", Kind: entities.KindVenue, DisplayName: "Central World"},
	}}
	handler := NewSearchHandler(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=central&lat=13.74&lng=100.54", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)

	var body struct {
		Results []*entities.SearchResult `json:"results"`
		Count   int                      `json:"count"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &body))
	assert.Equal(t, 1, body.Count)
	assert.Equal(t, "v1", body.Results[0].ID)

	assert.Equal(t, "central", provider.lastQ)
	require.NotNil(t, provider.lastLoc)
	assert.InDelta(t, 13.74, provider.lastLoc.Lat, 1e-9)
}

func TestSearchHandler_MissingQuery(t *testing.T) {
	handler := NewSearchHandler(&stubSearchProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/search", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchHandler_NoLocationIsOptional(t *testing.T) {
	provider := &stubSearchProvider{results: []*entities.SearchResult{}}
	handler := NewSearchHandler(provider)

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cafe", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	assert.Equal(t, http.StatusOK, rr.Code)
	assert.Nil(t, provider.lastLoc)
}

func TestSearchHandler_RejectsPartialLocation(t *testing.T) {
	handler := NewSearchHandler(&stubSearchProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cafe&lat=13.74", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchHandler_RejectsOutOfRangeLocation(t *testing.T) {
	handler := NewSearchHandler(&stubSearchProvider{})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cafe&lat=95&lng=100", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
}

func TestSearchHandler_ServiceError(t *testing.T) {
	handler := NewSearchHandler(&stubSearchProvider{err: assert.AnError})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cafe", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	assert.Equal(t, http.StatusInternalServerError, rr.Code)
}

func TestSearchHandler_NilResultsBecomeEmptyArray(t *testing.T) {
	handler := NewSearchHandler(&stubSearchProvider{results: nil})

	req := httptest.NewRequest(http.MethodGet, "/api/search?q=cafe", nil)
	rr := httptest.NewRecorder()
	handler.Search(rr, req)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Contains(t, rr.Body.String(), `"results":[]`)
}
