package services

import (
	"context"
	"time"

	"golang.org/x/sync/errgroup"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/infrastructure/observability"
	apperrors "github.com/hanaihang/mallsearch/pkg/errors"
	"github.com/hanaihang/mallsearch/pkg/utils"
)

// SearchService is the unified search engine: normalize, consult the cache,
// fan out to both candidate sources, unify, rank, cache, and record
// telemetry. Cancellation is never an error: a superseded call returns empty
// results and writes nothing.
type SearchService struct {
	venues     *VenueCandidateSource
	businesses *BusinessCandidateSource
	unifier    *ResultUnifier
	ranker     *SearchRankingService
	cache      *SearchCache
	telemetry  *TelemetryService
	analytics  *SearchAnalyticsService
	metrics    *observability.Metrics

	adapterTimeout time.Duration
	now            func() time.Time
}

// NewSearchService wires the engine. analytics and metrics may be nil.
func NewSearchService(
	venues *VenueCandidateSource,
	businesses *BusinessCandidateSource,
	unifier *ResultUnifier,
	ranker *SearchRankingService,
	cache *SearchCache,
	telemetry *TelemetryService,
	analytics *SearchAnalyticsService,
	metrics *observability.Metrics,
	adapterTimeout time.Duration,
) *SearchService {
	if adapterTimeout <= 0 {
		adapterTimeout = 3 * time.Second
	}
	return &SearchService{
		venues:         venues,
		businesses:     businesses,
		unifier:        unifier,
		ranker:         ranker,
		cache:          cache,
		telemetry:      telemetry,
		analytics:      analytics,
		metrics:        metrics,
		adapterTimeout: adapterTimeout,
		now:            time.Now,
	}
}

// Search runs one unified search. The returned slice is ordered best-first.
// An empty (post-normalization) query short-circuits to empty results; a
// cancelled context returns empty results with no error.
func (s *SearchService) Search(ctx context.Context, rawQuery string, loc *entities.Coordinates) ([]*entities.SearchResult, error) {
	ctx, span := observability.StartSpan(ctx, "SearchService.Search")
	defer span.End()

	start := s.now()
	logger := observability.LoggerFromContext(ctx)

	normalized := utils.Normalize(rawQuery)
	if normalized == "" {
		return []*entities.SearchResult{}, nil
	}

	key := s.cache.Key(normalized, loc)

	cached, err := s.cache.Get(ctx, key)
	if err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache read failed")
	}
	if cached != nil {
		observability.RecordCacheHit(ctx, s.metrics, key)
		s.recordSearch(ctx, rawQuery, normalized, loc, len(cached.Results), start, true)
		if cached.Stale {
			logger.Debug().Str("key", key).Msg("serving stale entry, revalidating")
			s.revalidate(rawQuery, loc, key)
		}
		return cached.Results, nil
	}
	observability.RecordCacheMiss(ctx, s.metrics, key)

	results, err := s.fetchAndRank(ctx, normalized, loc)
	if err != nil {
		if apperrors.IsCancellation(err) {
			logger.Debug().Str("query", normalized).Msg("search superseded")
			return nil, nil
		}
		observability.RecordError(span, err)
		return nil, err
	}

	// Currency check: a superseded session must not overwrite a newer entry
	if ctx.Err() != nil {
		return nil, nil
	}

	if err := s.cache.Set(ctx, key, results); err != nil {
		logger.Warn().Err(err).Str("key", key).Msg("cache write failed")
	}

	s.recordSearch(ctx, rawQuery, normalized, loc, len(results), start, false)
	return results, nil
}

// InvalidateQuery drops the cached entry for a query/location pair
func (s *SearchService) InvalidateQuery(ctx context.Context, rawQuery string, loc *entities.Coordinates) error {
	normalized := utils.Normalize(rawQuery)
	if normalized == "" {
		return nil
	}
	return s.cache.Invalidate(ctx, s.cache.Key(normalized, loc))
}

func (s *SearchService) fetchAndRank(ctx context.Context, normalized string, loc *entities.Coordinates) ([]*entities.SearchResult, error) {
	var venues []*entities.Venue
	var businesses []*entities.Business

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.adapterTimeout)
		defer cancel()

		sourceStart := s.now()
		found, err := s.venues.QueryVenues(callCtx, normalized)
		observability.RecordSourceMetric(ctx, s.metrics, "venues", s.now().Sub(sourceStart))
		if err != nil {
			return s.sourceError("venue source failed", err)
		}
		venues = found
		return nil
	})

	g.Go(func() error {
		callCtx, cancel := context.WithTimeout(gctx, s.adapterTimeout)
		defer cancel()

		sourceStart := s.now()
		found, err := s.businesses.QueryBusinesses(callCtx, normalized)
		observability.RecordSourceMetric(ctx, s.metrics, "businesses", s.now().Sub(sourceStart))
		if err != nil {
			return s.sourceError("business source failed", err)
		}
		businesses = found
		return nil
	})

	if err := g.Wait(); err != nil {
		return nil, err
	}

	unified, err := s.unifier.Unify(ctx, venues, businesses)
	if err != nil {
		return nil, err
	}

	return s.ranker.Rank(unified, loc), nil
}

// sourceError keeps cancellations distinguishable from real source failures
func (s *SearchService) sourceError(message string, err error) error {
	if apperrors.IsCancellation(err) {
		return apperrors.NewCancelledError(message, err)
	}
	return apperrors.NewSourceError(message, err)
}

// revalidate refreshes a stale cache entry off the request path. The request
// context is deliberately not used: the refresh should outlive the request.
func (s *SearchService) revalidate(rawQuery string, loc *entities.Coordinates, key string) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 2*s.adapterTimeout+5*time.Second)
		defer cancel()

		normalized := utils.Normalize(rawQuery)
		results, err := s.fetchAndRank(bgCtx, normalized, loc)
		if err != nil {
			observability.GetLogger().Debug().Err(err).Str("key", key).Msg("revalidation failed")
			return
		}
		if err := s.cache.Set(bgCtx, key, results); err != nil {
			observability.GetLogger().Debug().Err(err).Str("key", key).Msg("revalidation write failed")
		}
	}()
}

func (s *SearchService) recordSearch(ctx context.Context, rawQuery, normalized string, loc *entities.Coordinates, resultCount int, start time.Time, cacheHit bool) {
	latency := s.now().Sub(start)

	observability.RecordSearchMetric(ctx, s.metrics, cacheHit, latency)
	if s.telemetry != nil {
		s.telemetry.RecordSearch(latency, cacheHit, resultCount == 0, loc != nil, normalized)
	}
	if s.analytics != nil {
		event := &entities.SearchEvent{
			Query:           rawQuery,
			NormalizedQuery: normalized,
			ResultCount:     resultCount,
			LatencyMs:       int(latency.Milliseconds()),
			CacheHit:        cacheHit,
		}
		if loc != nil {
			event.UserLatitude = loc.Lat
			event.UserLongitude = loc.Lng
		}
		s.analytics.TrackSearch(ctx, event)
	}
}
