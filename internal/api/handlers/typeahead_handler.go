package handlers

import (
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanaihang/mallsearch/internal/application/services"
	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// ControllerFactory builds a debounced search controller per stream
type ControllerFactory func() *services.SearchController

type typeaheadStream struct {
	controller *services.SearchController
	updates    chan typeaheadUpdate
}

type typeaheadUpdate struct {
	Query   string                   `json:"query"`
	Results []*entities.SearchResult `json:"results"`
	Count   int                      `json:"count"`
	Error   string                   `json:"error,omitempty"`
}

// TypeaheadHandler drives the debounced, cancellable search path over SSE.
// A client opens a stream, then posts keystroke-level queries against it;
// only the settled query's results arrive on the stream.
type TypeaheadHandler struct {
	factory ControllerFactory

	mu      sync.Mutex
	streams map[string]*typeaheadStream
}

// NewTypeaheadHandler creates a new typeahead handler
func NewTypeaheadHandler(factory ControllerFactory) *TypeaheadHandler {
	return &TypeaheadHandler{
		factory: factory,
		streams: make(map[string]*typeaheadStream),
	}
}

// Stream handles GET /api/search/stream/{id}
func (h *TypeaheadHandler) Stream(w http.ResponseWriter, r *http.Request) {
	streamID := r.PathValue("id")
	if streamID == "" {
		respondWithError(w, http.StatusBadRequest, "stream ID is required")
		return
	}

	flusher, ok := w.(http.Flusher)
	if !ok {
		respondWithError(w, http.StatusInternalServerError, "streaming not supported")
		return
	}

	w.Header().Set("Content-Type", "text/event-stream")
	w.Header().Set("Cache-Control", "no-cache")
	w.Header().Set("Connection", "keep-alive")

	stream := h.register(streamID)
	defer h.unregister(streamID)

	sendEvent(w, "connected", map[string]interface{}{
		"stream_id": streamID,
		"timestamp": time.Now(),
	})
	flusher.Flush()

	ticker := time.NewTicker(30 * time.Second)
	defer ticker.Stop()

	for {
		select {
		case <-r.Context().Done():
			log.Debug().Str("stream_id", streamID).Msg("typeahead client disconnected")
			return
		case <-ticker.C:
			sendEvent(w, "heartbeat", map[string]interface{}{
				"timestamp": time.Now(),
			})
			flusher.Flush()
		case update := <-stream.updates:
			sendEvent(w, "results", update)
			flusher.Flush()
		}
	}
}

type typeaheadRequest struct {
	StreamID string   `json:"stream_id"`
	Query    string   `json:"query"`
	Lat      *float64 `json:"lat"`
	Lng      *float64 `json:"lng"`
}

// Submit handles POST /api/search/typeahead
func (h *TypeaheadHandler) Submit(w http.ResponseWriter, r *http.Request) {
	var payload typeaheadRequest
	if err := json.NewDecoder(r.Body).Decode(&payload); err != nil {
		respondWithError(w, http.StatusBadRequest, "invalid request payload")
		return
	}
	if payload.StreamID == "" {
		respondWithError(w, http.StatusBadRequest, "stream_id is required")
		return
	}

	h.mu.Lock()
	stream, ok := h.streams[payload.StreamID]
	h.mu.Unlock()
	if !ok {
		respondWithError(w, http.StatusNotFound, "unknown stream")
		return
	}

	var loc *entities.Coordinates
	if payload.Lat != nil && payload.Lng != nil {
		loc = &entities.Coordinates{Lat: *payload.Lat, Lng: *payload.Lng}
	}

	query := payload.Query
	stream.controller.Submit(query, loc, func(results []*entities.SearchResult, err error) {
		update := typeaheadUpdate{Query: query, Results: results, Count: len(results)}
		if err != nil {
			update.Error = "search failed"
			update.Results = []*entities.SearchResult{}
			update.Count = 0
		}
		select {
		case stream.updates <- update:
		default:
			// Slow consumer; drop the update rather than block the controller
		}
	})

	respondWithJSON(w, http.StatusAccepted, map[string]string{
		"status": "scheduled",
	})
}

func (h *TypeaheadHandler) register(streamID string) *typeaheadStream {
	h.mu.Lock()
	defer h.mu.Unlock()

	if existing, ok := h.streams[streamID]; ok {
		return existing
	}
	stream := &typeaheadStream{
		controller: h.factory(),
		updates:    make(chan typeaheadUpdate, 10),
	}
	h.streams[streamID] = stream
	return stream
}

func (h *TypeaheadHandler) unregister(streamID string) {
	h.mu.Lock()
	defer h.mu.Unlock()

	if stream, ok := h.streams[streamID]; ok {
		stream.controller.Cancel()
		delete(h.streams, streamID)
	}
}

// sendEvent writes one SSE event
func sendEvent(w http.ResponseWriter, eventType string, data interface{}) {
	jsonData, err := json.Marshal(data)
	if err != nil {
		log.Warn().Err(err).Msg("failed to marshal SSE event")
		return
	}

	fmt.Fprintf(w, "event: %s\n", eventType)
	fmt.Fprintf(w, "data: %s\n\n", jsonData)
}
