package services

import (
	"context"
	"sort"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/pkg/utils"
)

const defaultSourceLimit = 50

// VenueCandidateSource produces venue candidates for a normalized query. It
// reads the full active-venue snapshot and filters in-process; the snapshot is
// small and the repository call cheap enough per keystroke-settle.
type VenueCandidateSource struct {
	repo  repositories.VenueRepository
	limit int
}

// NewVenueCandidateSource creates a venue candidate source
func NewVenueCandidateSource(repo repositories.VenueRepository, limit int) *VenueCandidateSource {
	if limit <= 0 {
		limit = defaultSourceLimit
	}
	return &VenueCandidateSource{repo: repo, limit: limit}
}

// QueryVenues returns venues whose normalized name contains the query,
// strongest matches first (exact, then prefix, then contains). Ties keep the
// repository's order.
func (s *VenueCandidateSource) QueryVenues(ctx context.Context, normalizedQuery string) ([]*entities.Venue, error) {
	if normalizedQuery == "" {
		return []*entities.Venue{}, nil
	}

	venues, err := s.repo.ListVenues(ctx)
	if err != nil {
		return nil, err
	}

	type scoredVenue struct {
		venue *entities.Venue
		score int
	}

	var matched []scoredVenue
	for _, v := range venues {
		score := utils.MatchScore(v.NameNormalized, normalizedQuery)
		if score == utils.MatchNone {
			score = utils.MatchScore(v.Label(), normalizedQuery)
		}
		if score > utils.MatchNone {
			matched = append(matched, scoredVenue{venue: v, score: score})
		}
	}

	sort.SliceStable(matched, func(i, j int) bool {
		return matched[i].score > matched[j].score
	})

	if len(matched) > s.limit {
		matched = matched[:s.limit]
	}

	result := make([]*entities.Venue, len(matched))
	for i, m := range matched {
		result[i] = m.venue
	}
	return result, nil
}

// BusinessCandidateSource produces business candidates for a normalized query
type BusinessCandidateSource struct {
	repo  repositories.BusinessRepository
	limit int
}

// NewBusinessCandidateSource creates a business candidate source
func NewBusinessCandidateSource(repo repositories.BusinessRepository, limit int) *BusinessCandidateSource {
	if limit <= 0 {
		limit = defaultSourceLimit
	}
	return &BusinessCandidateSource{repo: repo, limit: limit}
}

// QueryBusinesses returns businesses whose normalized name contains the token
func (s *BusinessCandidateSource) QueryBusinesses(ctx context.Context, token string) ([]*entities.Business, error) {
	if token == "" {
		return []*entities.Business{}, nil
	}
	return s.repo.SearchGlobally(ctx, token, s.limit)
}
