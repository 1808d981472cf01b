package repositories

import (
	"context"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// SearchEventRepository persists search interactions for analytics
type SearchEventRepository interface {
	LogEvent(ctx context.Context, event *entities.SearchEvent) error
	GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error)
}
