package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/adapters/database"
	"github.com/hanaihang/mallsearch/internal/domain/entities"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
)

func TestSearchEventAdapter_LogEvent(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewSearchEventAdapter(postgres.NewClientFromDB(db))

	mock.ExpectExec(`INSERT INTO "search_events"`).
		WillReturnResult(sqlmock.NewResult(0, 1))

	event := &entities.SearchEvent{
		Query:           "Café",
		NormalizedQuery: "cafe",
		ResultCount:     3,
		LatencyMs:       120,
		CacheHit:        true,
	}

	err = adapter.LogEvent(context.Background(), event)
	require.NoError(t, err)

	assert.NotEmpty(t, event.ID, "an id should be assigned")
	assert.False(t, event.CreatedAt.IsZero(), "a timestamp should be assigned")
	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestSearchEventAdapter_GetZeroResultQueries(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewSearchEventAdapter(postgres.NewClientFromDB(db))

	now := time.Now()
	rows := sqlmock.NewRows([]string{
		"id", "query", "normalized_query", "result_count", "latency_ms",
		"cache_hit", "user_latitude", "user_longitude", "session_id", "created_at",
	}).AddRow("e1", "xyzzy", "xyzzy", 0, 80, false, 0.0, 0.0, "s1", now)

	mock.ExpectQuery(`SELECT .+ FROM "search_events" WHERE .+result_count.+`).
		WillReturnRows(rows)

	events, err := adapter.GetZeroResultQueries(context.Background(), 10)
	require.NoError(t, err)
	require.Len(t, events, 1)
	assert.Equal(t, "xyzzy", events[0].Query)
	assert.Equal(t, 0, events[0].ResultCount)

	assert.NoError(t, mock.ExpectationsWereMet())
}
