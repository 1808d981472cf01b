package database

import (
	"context"
	"time"

	"github.com/doug-martin/goqu/v9"
	"github.com/google/uuid"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/domain/repositories"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
	apperrors "github.com/hanaihang/mallsearch/pkg/errors"
)

type SearchEventAdapter struct {
	client *postgres.Client
	db     *goqu.Database
}

func NewSearchEventAdapter(client *postgres.Client) repositories.SearchEventRepository {
	return &SearchEventAdapter{
		client: client,
		db:     goqu.New("postgres", client.DB()),
	}
}

func (a *SearchEventAdapter) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	if event.ID == "" {
		event.ID = uuid.New().String()
	}
	if event.CreatedAt.IsZero() {
		event.CreatedAt = time.Now()
	}

	record := goqu.Record{
		"id":               event.ID,
		"query":            event.Query,
		"normalized_query": event.NormalizedQuery,
		"result_count":     event.ResultCount,
		"latency_ms":       event.LatencyMs,
		"cache_hit":        event.CacheHit,
		"user_latitude":    event.UserLatitude,
		"user_longitude":   event.UserLongitude,
		"session_id":       event.SessionID,
		"created_at":       event.CreatedAt,
	}

	query, args, err := a.db.Insert("search_events").Rows(record).ToSQL()
	if err != nil {
		return apperrors.NewInternalError("failed to build insert query", err)
	}

	_, err = a.client.DB().ExecContext(ctx, query, args...)
	if err != nil {
		return apperrors.NewInternalError("failed to log search event", err)
	}

	return nil
}

func (a *SearchEventAdapter) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	if limit <= 0 {
		limit = 100
	}

	query, args, err := a.db.Select(
		"id", "query", "normalized_query", "result_count", "latency_ms",
		"cache_hit", "user_latitude", "user_longitude", "session_id", "created_at",
	).From("search_events").
		Where(goqu.Ex{"result_count": 0}).
		Order(goqu.I("created_at").Desc()).
		Limit(uint(limit)).
		ToSQL()
	if err != nil {
		return nil, apperrors.NewInternalError("failed to build query", err)
	}

	rows, err := a.client.DB().QueryContext(ctx, query, args...)
	if err != nil {
		return nil, apperrors.NewInternalError("failed to get zero result queries", err)
	}
	defer rows.Close()

	var events []*entities.SearchEvent
	for rows.Next() {
		e := &entities.SearchEvent{}
		err := rows.Scan(
			&e.ID,
			&e.Query,
			&e.NormalizedQuery,
			&e.ResultCount,
			&e.LatencyMs,
			&e.CacheHit,
			&e.UserLatitude,
			&e.UserLongitude,
			&e.SessionID,
			&e.CreatedAt,
		)
		if err != nil {
			return nil, apperrors.NewInternalError("failed to scan search event", err)
		}
		events = append(events, e)
	}
	if err := rows.Err(); err != nil {
		return nil, apperrors.NewInternalError("failed to read search events", err)
	}

	return events, nil
}
