package entities

import (
	"time"
)

// Venue represents a shopping-mall-like entity with its own location and hours
type Venue struct {
	ID             string       `json:"id" db:"id"`
	Name           string       `json:"name" db:"name"`
	DisplayName    string       `json:"display_name" db:"display_name"`
	NameNormalized string       `json:"name_normalized" db:"name_normalized"`
	District       string       `json:"district,omitempty" db:"district"`
	Address        string       `json:"address,omitempty" db:"address"`
	Location       *Coordinates `json:"location,omitempty" db:"-"`
	Hours          *OpenHours   `json:"hours,omitempty" db:"-"`
	FloorCount     int          `json:"floor_count,omitempty" db:"floor_count"`
	IsActive       bool         `json:"is_active" db:"is_active"`
	CreatedAt      time.Time    `json:"created_at" db:"created_at"`
	UpdatedAt      time.Time    `json:"updated_at" db:"updated_at"`
}

// Label returns the name to show for the venue, preferring the display name
func (v *Venue) Label() string {
	if v.DisplayName != "" {
		return v.DisplayName
	}
	return v.Name
}

// Coordinates represents geographical coordinates
type Coordinates struct {
	Lat float64 `json:"lat" db:"latitude"`
	Lng float64 `json:"lng" db:"longitude"`
}
