package repositories

import (
	"context"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// VenueRepository defines read access to venue records. The snapshot read is
// expected to be cheap enough to call per keystroke-settle; callers filter
// the snapshot themselves.
type VenueRepository interface {
	// ListVenues returns all active venues
	ListVenues(ctx context.Context) ([]*entities.Venue, error)

	// GetByIDs returns the venues with the given identifiers; unknown
	// identifiers are silently omitted from the result
	GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error)
}
