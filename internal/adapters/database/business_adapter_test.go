package database_test

import (
	"context"
	"testing"
	"time"

	"github.com/DATA-DOG/go-sqlmock"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/adapters/database"
	"github.com/hanaihang/mallsearch/internal/infrastructure/clients/postgres"
)

var businessRows = []string{
	"id", "venue_id", "name", "name_normalized", "category", "floor_label",
	"latitude", "longitude", "open_time", "close_time",
	"is_active", "created_at", "updated_at",
}

func TestBusinessAdapter_SearchGlobally(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewBusinessAdapter(postgres.NewClientFromDB(db))

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM "businesses" WHERE .+name_normalized.+LIKE.+starbucks.+`).
		WillReturnRows(sqlmock.NewRows(businessRows).
			AddRow("b1", "v1", "Starbucks", "starbucks", "cafe", "G",
				nil, nil, "07:00", "21:00", true, now, now))

	businesses, err := adapter.SearchGlobally(context.Background(), "starbucks", 50)
	require.NoError(t, err)
	require.Len(t, businesses, 1)

	assert.Equal(t, "b1", businesses[0].ID)
	assert.Equal(t, "v1", businesses[0].VenueID)
	assert.Nil(t, businesses[0].Location)
	require.NotNil(t, businesses[0].Hours)
	assert.Equal(t, "07:00", businesses[0].Hours.Open)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_SearchGlobally_EmptyToken(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewBusinessAdapter(postgres.NewClientFromDB(db))

	businesses, err := adapter.SearchGlobally(context.Background(), "", 50)
	require.NoError(t, err)
	assert.Empty(t, businesses)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_ListAll(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewBusinessAdapter(postgres.NewClientFromDB(db))

	now := time.Now()
	mock.ExpectQuery(`SELECT .+ FROM "businesses" WHERE .+is_active.+ORDER BY "name" ASC`).
		WillReturnRows(sqlmock.NewRows(businessRows).
			AddRow("b1", "v1", "After You", "after you", "dessert", "2F",
				13.74, 100.54, nil, nil, true, now, now).
			AddRow("b2", "v1", "Starbucks", "starbucks", "cafe", "G",
				nil, nil, "07:00", "21:00", true, now, now))

	businesses, err := adapter.ListAll(context.Background(), 100)
	require.NoError(t, err)
	require.Len(t, businesses, 2)

	assert.Equal(t, "b1", businesses[0].ID)
	require.NotNil(t, businesses[0].Location)
	assert.InDelta(t, 13.74, businesses[0].Location.Lat, 1e-9)
	assert.Nil(t, businesses[0].Hours)

	assert.NoError(t, mock.ExpectationsWereMet())
}

func TestBusinessAdapter_SearchGlobally_QueryError(t *testing.T) {
	db, mock, err := sqlmock.New()
	require.NoError(t, err)
	defer db.Close()

	adapter := database.NewBusinessAdapter(postgres.NewClientFromDB(db))

	mock.ExpectQuery(`SELECT .+ FROM "businesses"`).
		WillReturnError(assert.AnError)

	_, err = adapter.SearchGlobally(context.Background(), "cafe", 50)
	assert.Error(t, err)
}
