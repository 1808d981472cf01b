package services

import (
	"context"
	"time"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/internal/infrastructure/observability"
)

// ResultUnifier merges venue and business candidates into the unified result
// shape. Businesses without their own coordinates or hours inherit them from
// the owning venue. Inputs are never mutated.
type ResultUnifier struct {
	venueRepo repositories.VenueRepository
	now       func() time.Time
}

// NewResultUnifier creates a result unifier
func NewResultUnifier(venueRepo repositories.VenueRepository) *ResultUnifier {
	return &ResultUnifier{
		venueRepo: venueRepo,
		now:       time.Now,
	}
}

// Unify converts the two candidate sets into one result list: venues first,
// then businesses, each keeping source order. Owning venues absent from the
// fetched set are looked up once, batched.
func (u *ResultUnifier) Unify(ctx context.Context, venues []*entities.Venue, businesses []*entities.Business) ([]*entities.SearchResult, error) {
	now := u.now()
	results := make([]*entities.SearchResult, 0, len(venues)+len(businesses))

	venuesByID := make(map[string]*entities.Venue, len(venues))
	for _, v := range venues {
		venuesByID[v.ID] = v
		results = append(results, u.fromVenue(v, now))
	}

	// One batched lookup for owners not present in the venue candidate set
	var missingIDs []string
	seen := make(map[string]bool)
	for _, b := range businesses {
		if b.VenueID == "" || venuesByID[b.VenueID] != nil || seen[b.VenueID] {
			continue
		}
		seen[b.VenueID] = true
		missingIDs = append(missingIDs, b.VenueID)
	}
	if len(missingIDs) > 0 {
		owners, err := u.venueRepo.GetByIDs(ctx, missingIDs)
		if err != nil {
			// Inheritance is best-effort; businesses keep their own fields
			observability.LoggerFromContext(ctx).Warn().Err(err).
				Int("missing_owners", len(missingIDs)).
				Msg("failed to resolve owning venues")
		} else {
			for _, v := range owners {
				venuesByID[v.ID] = v
			}
		}
	}

	for _, b := range businesses {
		results = append(results, u.fromBusiness(b, venuesByID[b.VenueID], now))
	}

	return results, nil
}

func (u *ResultUnifier) fromVenue(v *entities.Venue, now time.Time) *entities.SearchResult {
	result := &entities.SearchResult{
		ID:          v.ID,
		Kind:        entities.KindVenue,
		DisplayName: v.Label(),
	}
	if v.Location != nil {
		coords := *v.Location
		result.Coords = &coords
	}
	if v.Hours != nil {
		hours := *v.Hours
		result.Hours = &hours
	}
	result.OpenNow = v.Hours.IsOpenAt(now)
	return result
}

func (u *ResultUnifier) fromBusiness(b *entities.Business, owner *entities.Venue, now time.Time) *entities.SearchResult {
	result := &entities.SearchResult{
		ID:          b.ID,
		Kind:        entities.KindBusiness,
		DisplayName: b.Name,
		ParentID:    b.VenueID,
		FloorLabel:  b.FloorLabel,
		Category:    b.Category,
	}

	if b.Location != nil {
		coords := *b.Location
		result.Coords = &coords
	}

	hours := b.Hours
	if owner != nil {
		result.ParentName = owner.Label()
		if owner.Location != nil {
			parentCoords := *owner.Location
			result.ParentCoords = &parentCoords
		}
		if hours == nil {
			hours = owner.Hours
		}
	}
	if hours != nil {
		copied := *hours
		result.Hours = &copied
	}
	result.OpenNow = hours.IsOpenAt(now)

	return result
}
