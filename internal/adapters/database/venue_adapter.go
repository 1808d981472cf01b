package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"
	_ "github.com/doug-martin/goqu/v9/dialect/postgres"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/hanaihang/mallsearch/pkg/errors"
)

var venueColumns = []interface{}{
	"id", "name", "display_name", "name_normalized", "district", "address",
	"latitude", "longitude", "open_time", "close_time", "floor_count",
	"is_active", "created_at", "updated_at",
}

// VenueAdapter implements the VenueRepository interface
type VenueAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

// NewVenueAdapter creates a new venue adapter
func NewVenueAdapter(client *postgres.Client) repositories.VenueRepository {
	return &VenueAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// ListVenues returns all active venues
func (a *VenueAdapter) ListVenues(ctx context.Context) ([]*entities.Venue, error) {
	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venues query", err)
	}

	return a.queryVenues(ctx, query, args)
}

// GetByIDs returns the venues with the given identifiers
func (a *VenueAdapter) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	if len(ids) == 0 {
		return []*entities.Venue{}, nil
	}

	query, args, err := a.db.Select(venueColumns...).
		From("venues").
		Where(goqu.Ex{"id": ids}).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build venues query", err)
	}

	return a.queryVenues(ctx, query, args)
}

func (a *VenueAdapter) queryVenues(ctx context.Context, query string, args []interface{}) ([]*entities.Venue, error) {
	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query venues", err)
	}
	defer rows.Close()

	var venues []*entities.Venue
	for rows.Next() {
		venue, err := scanVenue(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan venue", err)
		}
		venues = append(venues, venue)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read venues", err)
	}

	return venues, nil
}

func scanVenue(rows *sql.Rows) (*entities.Venue, error) {
	venue := &entities.Venue{}
	var displayName, district, address sql.NullString
	var lat, lng sql.NullFloat64
	var openTime, closeTime sql.NullString
	var floorCount sql.NullInt64

	err := rows.Scan(
		&venue.ID,
		&venue.Name,
		&displayName,
		&venue.NameNormalized,
		&district,
		&address,
		&lat,
		&lng,
		&openTime,
		&closeTime,
		&floorCount,
		&venue.IsActive,
		&venue.CreatedAt,
		&venue.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	venue.DisplayName = displayName.String
	venue.District = district.String
	venue.Address = address.String
	venue.FloorCount = int(floorCount.Int64)
	if lat.Valid && lng.Valid {
		venue.Location = &entities.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if openTime.Valid && closeTime.Valid {
		venue.Hours = &entities.OpenHours{Open: openTime.String, Close: closeTime.String}
	}

	return venue, nil
}
