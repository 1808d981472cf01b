package entities

import (
	"time"
)

// Business represents a store-like entity located inside a venue. A business
// may lack its own coordinates or hours, in which case it inherits them from
// the owning venue during unification.
type Business struct {
	ID             string       `json:"id" db:"id"`
	VenueID        string       `json:"venue_id" db:"venue_id"`
	Name           string       `json:"name" db:"name"`
	NameNormalized string       `json:"name_normalized" db:"name_normalized"`
	Category       string       `json:"category,omitempty" db:"category"`
	FloorLabel     string       `json:"floor_label,omitempty" db:"floor_label"`
	Location       *Coordinates `json:"location,omitempty" db:"-"`
	Hours          *OpenHours   `json:"hours,omitempty" db:"-"`
	IsActive       bool         `json:"is_active" db:"is_active"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}
