package routes

import (
	"net/http"

	"github.com/hanaihang/mallsearch/internal/api/handlers"
	"github.com/hanaihang/mallsearch/internal/api/middleware"
	"github.com/hanaihang/mallsearch/internal/infrastructure/observability"
)

// Router holds all route handlers
type Router struct {
	mux *http.ServeMux

	searchHandler      *handlers.SearchHandler
	typeaheadHandler   *handlers.TypeaheadHandler
	performanceHandler *handlers.PerformanceHandler
	analyticsHandler   *handlers.AnalyticsHandler

	metrics *observability.Metrics
}

// NewRouter creates a new router
func NewRouter(
	searchHandler *handlers.SearchHandler,
	typeaheadHandler *handlers.TypeaheadHandler,
	performanceHandler *handlers.PerformanceHandler,
	analyticsHandler *handlers.AnalyticsHandler,
	metrics *observability.Metrics,
) *Router {
	return &Router{
		mux:                http.NewServeMux(),
		searchHandler:      searchHandler,
		typeaheadHandler:   typeaheadHandler,
		performanceHandler: performanceHandler,
		analyticsHandler:   analyticsHandler,
		metrics:            metrics,
	}
}

// SetupRoutes configures all application routes
func (r *Router) SetupRoutes() http.Handler {
	// Health check endpoint
	r.mux.HandleFunc("GET /health", func(w http.ResponseWriter, req *http.Request) {
		w.WriteHeader(http.StatusOK)
		if _, err := w.Write([]byte("OK")); err != nil {
			return
		}
	})

	// Search endpoints
	r.mux.HandleFunc("GET /api/search", r.searchHandler.Search)

	// Typeahead endpoints (debounced, cancellable path)
	if r.typeaheadHandler != nil {
		r.mux.HandleFunc("GET /api/search/stream/{id}", r.typeaheadHandler.Stream)
		r.mux.HandleFunc("POST /api/search/typeahead", r.typeaheadHandler.Submit)
	}

	// Monitoring surface
	r.mux.HandleFunc("GET /api/performance", r.performanceHandler.GetReport)
	r.mux.HandleFunc("GET /api/performance/compliance", r.performanceHandler.GetCompliance)

	// Analytics endpoints
	if r.analyticsHandler != nil {
		r.mux.HandleFunc("POST /api/analytics/click", r.analyticsHandler.TrackClick)
		r.mux.HandleFunc("GET /api/analytics/zero-result-queries", r.analyticsHandler.GetZeroResultQueries)
	}

	// Apply middleware in reverse order (last middleware wraps first).
	// CORS is outermost so every response carries the headers.
	var handler http.Handler = r.mux
	handler = middleware.LoggingMiddleware(handler)
	handler = middleware.ObservabilityMiddleware(r.metrics)(handler)
	handler = middleware.ResponseOptimization(handler)
	handler = middleware.CORSMiddleware(handler)

	return handler
}
