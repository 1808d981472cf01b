package services

import (
	"context"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
)

type SearchAnalyticsService struct {
	repo repositories.SearchEventRepository
}

func NewSearchAnalyticsService(repo repositories.SearchEventRepository) *SearchAnalyticsService {
	return &SearchAnalyticsService{repo: repo}
}

// TrackSearch persists a search event in the background so the caller is
// never blocked. A fresh context is used since the request context may
// already be cancelled.
func (s *SearchAnalyticsService) TrackSearch(ctx context.Context, event *entities.SearchEvent) {
	go func() {
		bgCtx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		defer cancel()

		if err := s.repo.LogEvent(bgCtx, event); err != nil {
			log.Warn().Err(err).Str("query", event.Query).Msg("failed to log search event")
		}
	}()
}

func (s *SearchAnalyticsService) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return s.repo.GetZeroResultQueries(ctx, limit)
}
