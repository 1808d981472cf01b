package database

import (
	"context"
	"database/sql"

	"github.com/doug-martin/goqu/v9"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/hanaihang/mallsearch/pkg/errors"
)

var businessColumns = []interface{}{
	"id", "venue_id", "name", "name_normalized", "category", "floor_label",
	"latitude", "longitude", "open_time", "close_time",
	"is_active", "created_at", "updated_at",
}

// BusinessAdapter implements the BusinessRepository interface
type BusinessAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

var _ repositories.BusinessRepository = (*BusinessAdapter)(nil)

// NewBusinessAdapter creates a new business adapter
func NewBusinessAdapter(client *postgres.Client) *BusinessAdapter {
	return &BusinessAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

// SearchGlobally performs a substring match on the normalized business name
// across all venues. The token must already be normalized by the caller.
func (a *BusinessAdapter) SearchGlobally(ctx context.Context, token string, limit int) ([]*entities.Business, error) {
	if token == "" {
		return []*entities.Business{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	query, args, err := a.db.Select(businessColumns...).
		From("businesses").
		Where(
			goqu.Ex{"is_active": true},
			goqu.I("name_normalized").Like("%"+token+"%"),
		).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build businesses query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query businesses", err)
	}
	defer rows.Close()

	var businesses []*entities.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read businesses", err)
	}

	return businesses, nil
}

// ListAll returns active businesses for bulk operations such as reindexing
func (a *BusinessAdapter) ListAll(ctx context.Context, limit int) ([]*entities.Business, error) {
	if limit <= 0 {
		limit = 1000
	}

	query, args, err := a.db.Select(businessColumns...).
		From("businesses").
		Where(goqu.Ex{"is_active": true}).
		Order(goqu.I("name").Asc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build businesses query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to query businesses", err)
	}
	defer rows.Close()

	var businesses []*entities.Business
	for rows.Next() {
		business, err := scanBusiness(rows)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan business", err)
		}
		businesses = append(businesses, business)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read businesses", err)
	}

	return businesses, nil
}

func scanBusiness(rows *sql.Rows) (*entities.Business, error) {
	business := &entities.Business{}
	var category, floorLabel sql.NullString
	var lat, lng sql.NullFloat64
	var openTime, closeTime sql.NullString

	err := rows.Scan(
		&business.ID,
		&business.VenueID,
		&business.Name,
		&business.NameNormalized,
		&category,
		&floorLabel,
		&lat,
		&lng,
		&openTime,
		&closeTime,
		&business.IsActive,
		&business.CreatedAt,
		&business.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	business.Category = category.String
	business.FloorLabel = floorLabel.String
	if lat.Valid && lng.Valid {
		business.Location = &entities.Coordinates{Lat: lat.Float64, Lng: lng.Float64}
	}
	if openTime.Valid && closeTime.Valid {
		business.Hours = &entities.OpenHours{Open: openTime.String, Close: closeTime.String}
	}

	return business, nil
}
