package search

import (
	"context"
	"fmt"

	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	tsclient "github.com/hanaihang/mallsearch/internal/infrastructure/clients/typesense"
)

// TypesenseAdapter implements business search using Typesense. It is an
// alternative to the database-backed adapter; which one serves business
// lookups is selected by configuration.
type TypesenseAdapter struct {
	client *tsclient.Client
}

var _ repositories.BusinessRepository = (*TypesenseAdapter)(nil)

// NewTypesenseAdapter creates a new Typesense adapter
func NewTypesenseAdapter(client *tsclient.Client) *TypesenseAdapter {
	return &TypesenseAdapter{client: client}
}

// Index indexes a business document
func (a *TypesenseAdapter) Index(ctx context.Context, business *entities.Business) error {
	document := map[string]interface{}{
		"id":              business.ID,
		"venue_id":        business.VenueID,
		"name":            business.Name,
		"name_normalized": business.NameNormalized,
		"category":        business.Category,
		"floor_label":     business.FloorLabel,
		"is_active":       business.IsActive,
		"created_at":      business.CreatedAt.Unix(),
	}
	if business.Location != nil {
		document["location"] = []float64{business.Location.Lat, business.Location.Lng}
	}

	if err := a.client.IndexBusiness(ctx, document); err != nil {
		return fmt.Errorf("failed to index business: %w", err)
	}
	return nil
}

// Delete removes a business from the index
func (a *TypesenseAdapter) Delete(ctx context.Context, id string) error {
	_, err := a.client.Client().Collection(tsclient.BusinessesCollection).Document(id).Delete(ctx)
	if err != nil {
		return fmt.Errorf("failed to delete business from index: %w", err)
	}
	return nil
}

// SearchGlobally searches businesses by normalized name across all venues
func (a *TypesenseAdapter) SearchGlobally(ctx context.Context, token string, limit int) ([]*entities.Business, error) {
	if token == "" {
		return []*entities.Business{}, nil
	}
	if limit <= 0 {
		limit = 50
	}

	searchParams := &api.SearchCollectionParams{
		Q:        pointer.String(token),
		QueryBy:  pointer.String("name_normalized,name"),
		FilterBy: pointer.String("is_active:=true"),
		PerPage:  pointer.Int(limit),
	}

	result, err := a.client.Client().Collection(tsclient.BusinessesCollection).Documents().Search(ctx, searchParams)
	if err != nil {
		return nil, fmt.Errorf("failed to search businesses: %w", err)
	}

	businesses := []*entities.Business{}
	if result.Hits == nil {
		return businesses, nil
	}

	for _, hit := range *result.Hits {
		doc := *hit.Document

		business := &entities.Business{
			ID:             doc["id"].(string),
			VenueID:        doc["venue_id"].(string),
			Name:           doc["name"].(string),
			NameNormalized: doc["name_normalized"].(string),
			IsActive:       true,
		}
		if val, ok := doc["category"].(string); ok {
			business.Category = val
		}
		if val, ok := doc["floor_label"].(string); ok {
			business.FloorLabel = val
		}
		if loc, ok := doc["location"].([]interface{}); ok && len(loc) == 2 {
			lat, latOK := loc[0].(float64)
			lng, lngOK := loc[1].(float64)
			if latOK && lngOK {
				business.Location = &entities.Coordinates{Lat: lat, Lng: lng}
			}
		}

		businesses = append(businesses, business)
	}

	return businesses, nil
}
