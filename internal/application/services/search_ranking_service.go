package services

import (
	"math"
	"sort"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

const (
	earthRadiusKm = 6371.0

	// unknownDistancePenalty exceeds the longest great-circle distance on
	// Earth, so a result with no resolvable coordinate always sorts behind
	// every result with a known distance.
	unknownDistancePenalty = 40075.0

	openNowBonus   = -5.0
	venueKindBonus = -0.1
)

// SearchRankingService scores and orders unified results. Lower score is
// better; sorting is stable so equal scores keep their input order.
type SearchRankingService struct{}

// NewSearchRankingService creates a ranking service
func NewSearchRankingService() *SearchRankingService {
	return &SearchRankingService{}
}

// Score computes the rank score for a single result. Distance contributes
// linearly; a missing coordinate costs a fixed penalty larger than any real
// distance; being open now and being a venue are small fixed bonuses.
func (s *SearchRankingService) Score(result *entities.SearchResult, loc *entities.Coordinates) float64 {
	score := 0.0

	coords := result.ResolvedCoords()
	if loc != nil && coords != nil {
		score += haversineKm(loc.Lat, loc.Lng, coords.Lat, coords.Lng)
	} else {
		score += unknownDistancePenalty
	}

	if result.OpenNow {
		score += openNowBonus
	}
	if result.Kind == entities.KindVenue {
		score += venueKindBonus
	}

	return score
}

// Rank enriches each result with its distance and score, then returns the
// results ordered ascending by score. The input slice is not reordered; a new
// slice is returned.
func (s *SearchRankingService) Rank(results []*entities.SearchResult, loc *entities.Coordinates) []*entities.SearchResult {
	ranked := make([]*entities.SearchResult, len(results))
	copy(ranked, results)

	for _, r := range ranked {
		coords := r.ResolvedCoords()
		if loc != nil && coords != nil {
			d := haversineKm(loc.Lat, loc.Lng, coords.Lat, coords.Lng)
			r.DistanceKm = &d
		} else {
			r.DistanceKm = nil
		}
		r.RankScore = s.Score(r, loc)
	}

	sort.SliceStable(ranked, func(i, j int) bool {
		return ranked[i].RankScore < ranked[j].RankScore
	})

	return ranked
}

// haversineKm returns the great-circle distance between two points in km
func haversineKm(lat1, lng1, lat2, lng2 float64) float64 {
	const degToRad = math.Pi / 180

	dLat := (lat2 - lat1) * degToRad
	dLng := (lng2 - lng1) * degToRad

	a := math.Sin(dLat/2)*math.Sin(dLat/2) +
		math.Cos(lat1*degToRad)*math.Cos(lat2*degToRad)*
			math.Sin(dLng/2)*math.Sin(dLng/2)

	return 2 * earthRadiusKm * math.Atan2(math.Sqrt(a), math.Sqrt(1-a))
}
