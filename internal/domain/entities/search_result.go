package entities

// ResultKind discriminates the two entity kinds in a unified result set
type ResultKind string

const (
	KindVenue    ResultKind = "venue"
	KindBusiness ResultKind = "business"
)

// SearchResult is the merged, display-ready shape produced by the unifier.
// For a business lacking its own coordinates, ParentCoords carries the owning
// venue's location; when neither is available DistanceKm stays nil, never zero.
type SearchResult struct {
	ID           string       `json:"id"`
	Kind         ResultKind   `json:"kind"`
	DisplayName  string       `json:"display_name"`
	ParentID     string       `json:"parent_id,omitempty"`
	ParentName   string       `json:"parent_name,omitempty"`
	Coords       *Coordinates `json:"coords,omitempty"`
	ParentCoords *Coordinates `json:"parent_coords,omitempty"`
	FloorLabel   string       `json:"floor_label,omitempty"`
	Category     string       `json:"category,omitempty"`
	Hours        *OpenHours   `json:"hours,omitempty"`
	OpenNow      bool         `json:"open_now"`
	DistanceKm   *float64     `json:"distance_km,omitempty"`
	RankScore    float64      `json:"rank_score"`
}

// ResolvedCoords returns the coordinate to use for distance, preferring the
// result's own location over the parent venue's. Nil when neither is known.
func (r *SearchResult) ResolvedCoords() *Coordinates {
	if r.Coords != nil {
		return r.Coords
	}
	return r.ParentCoords
}
