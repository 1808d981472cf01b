package typesense

import (
	"context"
	"fmt"
	"time"

	"github.com/rs/zerolog/log"
	"github.com/typesense/typesense-go/v2/typesense"
	"github.com/typesense/typesense-go/v2/typesense/api"
	"github.com/typesense/typesense-go/v2/typesense/api/pointer"

	"github.com/hanaihang/mallsearch/pkg/config"
	"github.com/hanaihang/mallsearch/pkg/retry"
)

const (
	BusinessesCollection = "businesses"
)

// Client represents a Typesense client
type Client struct {
	client *typesense.Client
}

// NewClient creates a new Typesense client with exponential backoff retry
func NewClient(cfg *config.TypesenseConfig) (*Client, error) {
	client := typesense.NewClient(
		typesense.WithServer(cfg.URL),
		typesense.WithAPIKey(cfg.APIKey),
		typesense.WithConnectionTimeout(5*time.Second),
	)

	// Test connection with retry
	retryConfig := retry.DefaultConfig()
	err := retry.DoWithLog(
		context.Background(),
		retryConfig,
		"Typesense",
		func() error {
			ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
			defer cancel()
			_, err := client.Health(ctx, 2*time.Second)
			return err
		},
		func(attempt int, err error, nextDelay time.Duration) {
			log.Warn().Err(err).Int("attempt", attempt).Dur("next_delay", nextDelay).
				Msg("Typesense connection attempt failed")
		},
	)

	if err != nil {
		return nil, fmt.Errorf("failed to connect to Typesense after retries: %w", err)
	}

	log.Info().Msg("connected to Typesense")
	return &Client{client: client}, nil
}

// Client returns the underlying Typesense client
func (c *Client) Client() *typesense.Client {
	return c.client
}

// InitSchema ensures the businesses collection exists
func (c *Client) InitSchema(ctx context.Context) error {
	collections, err := c.client.Collections().Retrieve(ctx)
	if err != nil {
		return fmt.Errorf("failed to retrieve collections: %w", err)
	}

	for _, col := range collections {
		if col.Name == BusinessesCollection {
			log.Debug().Str("collection", BusinessesCollection).Msg("Typesense collection already exists")
			return nil
		}
	}

	schema := &api.CollectionSchema{
		Name: BusinessesCollection,
		Fields: []api.Field{
			{
				Name: "id",
				Type: "string",
			},
			{
				Name: "venue_id",
				Type: "string",
			},
			{
				Name: "name",
				Type: "string",
			},
			{
				Name: "name_normalized",
				Type: "string",
			},
			{
				Name:     "category",
				Type:     "string",
				Facet:    pointer.True(),
				Optional: pointer.True(),
			},
			{
				Name:     "floor_label",
				Type:     "string",
				Optional: pointer.True(),
			},
			{
				Name:     "location",
				Type:     "geopoint",
				Optional: pointer.True(),
			},
			{
				Name: "is_active",
				Type: "bool",
			},
			{
				Name: "created_at",
				Type: "int64",
			},
		},
		DefaultSortingField: pointer.String("created_at"),
	}

	_, err = c.client.Collections().Create(ctx, schema)
	if err != nil {
		return fmt.Errorf("failed to create collection: %w", err)
	}

	log.Info().Str("collection", BusinessesCollection).Msg("created Typesense collection")
	return nil
}

// IndexBusiness indexes a business document
func (c *Client) IndexBusiness(ctx context.Context, document map[string]interface{}) error {
	_, err := c.client.Collection(BusinessesCollection).Documents().Upsert(ctx, document)
	return err
}
