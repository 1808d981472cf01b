package repositories

import (
	"context"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// BusinessRepository defines read access to business records across all venues
type BusinessRepository interface {
	// SearchGlobally performs a substring search on the normalized business
	// name across every venue, bounded to limit results. Each returned
	// business carries its owning venue identifier.
	SearchGlobally(ctx context.Context, token string, limit int) ([]*entities.Business, error)
}
