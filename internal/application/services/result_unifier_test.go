package services

import (
	"context"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

func TestUnify_VenuesThenBusinesses(t *testing.T) {
	repo := &stubVenueRepo{}
	u := NewResultUnifier(repo)

	venues := []*entities.Venue{venue("v1", "central world", nil)}
	businesses := []*entities.Business{business("b1", "v1", "starbucks", nil)}

	results, err := u.Unify(context.Background(), venues, businesses)
	require.NoError(t, err)
	require.Len(t, results, 2)

	assert.Equal(t, entities.KindVenue, results[0].Kind)
	assert.Equal(t, "v1", results[0].ID)
	assert.Equal(t, entities.KindBusiness, results[1].Kind)
	assert.Equal(t, "b1", results[1].ID)
	assert.Equal(t, "v1", results[1].ParentID)
}

func TestUnify_BusinessInheritsVenueCoordsAndHours(t *testing.T) {
	repo := &stubVenueRepo{}
	u := NewResultUnifier(repo)

	v := venue("v1", "central world", coords(13.7466, 100.5396))
	v.Hours = &entities.OpenHours{Open: "10:00", Close: "22:00"}
	b := business("b1", "v1", "starbucks", nil)

	results, err := u.Unify(context.Background(), []*entities.Venue{v}, []*entities.Business{b})
	require.NoError(t, err)

	br := results[1]
	assert.Nil(t, br.Coords, "a business without its own coordinates keeps Coords nil")
	require.NotNil(t, br.ParentCoords)
	assert.InDelta(t, 13.7466, br.ParentCoords.Lat, 1e-9)
	require.NotNil(t, br.Hours)
	assert.Equal(t, "10:00", br.Hours.Open)
	assert.Equal(t, "central world", br.ParentName)
}

func TestUnify_BusinessOwnFieldsWin(t *testing.T) {
	repo := &stubVenueRepo{}
	u := NewResultUnifier(repo)

	v := venue("v1", "central world", coords(13.7466, 100.5396))
	v.Hours = &entities.OpenHours{Open: "10:00", Close: "22:00"}
	b := business("b1", "v1", "starbucks", coords(13.7470, 100.5400))
	b.Hours = &entities.OpenHours{Open: "07:00", Close: "21:00"}

	results, err := u.Unify(context.Background(), []*entities.Venue{v}, []*entities.Business{b})
	require.NoError(t, err)

	br := results[1]
	require.NotNil(t, br.Coords)
	assert.InDelta(t, 13.7470, br.Coords.Lat, 1e-9)
	assert.Equal(t, "07:00", br.Hours.Open)
}

func TestUnify_MissingOwnersFetchedInOneBatch(t *testing.T) {
	owner := venue("v9", "terminal 21", coords(13.74, 100.56))
	repo := &stubVenueRepo{venues: []*entities.Venue{owner}}
	u := NewResultUnifier(repo)

	businesses := []*entities.Business{
		business("b1", "v9", "cafe one", nil),
		business("b2", "v9", "cafe two", nil),
	}

	results, err := u.Unify(context.Background(), nil, businesses)
	require.NoError(t, err)
	require.Len(t, results, 2)

	require.Len(t, repo.byIDCalls, 1, "owner lookup must be batched")
	assert.Equal(t, []string{"v9"}, repo.byIDCalls[0])
	require.NotNil(t, results[0].ParentCoords)
	assert.Equal(t, "terminal 21", results[0].ParentName)
}

func TestUnify_OwnerLookupFailureIsNotFatal(t *testing.T) {
	repo := &stubVenueRepo{err: assert.AnError}
	u := NewResultUnifier(repo)

	businesses := []*entities.Business{business("b1", "v9", "cafe", nil)}

	results, err := u.Unify(context.Background(), nil, businesses)
	require.NoError(t, err)
	require.Len(t, results, 1)
	assert.Nil(t, results[0].ParentCoords)
	assert.Empty(t, results[0].ParentName)
}

func TestUnify_DoesNotMutateInputs(t *testing.T) {
	repo := &stubVenueRepo{}
	u := NewResultUnifier(repo)

	v := venue("v1", "central world", coords(13.7466, 100.5396))
	b := business("b1", "v1", "starbucks", nil)

	results, err := u.Unify(context.Background(), []*entities.Venue{v}, []*entities.Business{b})
	require.NoError(t, err)

	// Mutating the output must not reach the inputs
	results[0].Coords.Lat = 0
	assert.InDelta(t, 13.7466, v.Location.Lat, 1e-9)
	assert.Nil(t, b.Location)
	assert.Nil(t, b.Hours)
}

func TestUnify_OpenNowComputedFromHours(t *testing.T) {
	repo := &stubVenueRepo{}
	u := NewResultUnifier(repo)
	u.now = func() time.Time {
		return time.Date(2025, 6, 1, 12, 0, 0, 0, time.UTC)
	}

	open := venue("v1", "open venue", nil)
	open.Hours = &entities.OpenHours{Open: "10:00", Close: "22:00"}
	closed := venue("v2", "closed venue", nil)
	closed.Hours = &entities.OpenHours{Open: "22:00", Close: "02:00"}
	noHours := venue("v3", "no hours", nil)

	results, err := u.Unify(context.Background(), []*entities.Venue{open, closed, noHours}, nil)
	require.NoError(t, err)

	assert.True(t, results[0].OpenNow)
	assert.False(t, results[1].OpenNow)
	assert.False(t, results[2].OpenNow, "unknown hours report closed")
}
