package services

import (
	"context"
	"sync"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

type stubVenueRepo struct {
	mu        sync.Mutex
	venues    []*entities.Venue
	err       error
	listCalls int
	byIDCalls [][]string
}

func (r *stubVenueRepo) ListVenues(ctx context.Context) ([]*entities.Venue, error) {
	r.mu.Lock()
	r.listCalls++
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.venues, r.err
}

func (r *stubVenueRepo) GetByIDs(ctx context.Context, ids []string) ([]*entities.Venue, error) {
	r.mu.Lock()
	r.byIDCalls = append(r.byIDCalls, ids)
	r.mu.Unlock()
	if r.err != nil {
		return nil, r.err
	}

	wanted := make(map[string]bool, len(ids))
	for _, id := range ids {
		wanted[id] = true
	}
	var found []*entities.Venue
	for _, v := range r.venues {
		if wanted[v.ID] {
			found = append(found, v)
		}
	}
	return found, nil
}

type stubBusinessRepo struct {
	mu         sync.Mutex
	businesses []*entities.Business
	err        error
	calls      int
	lastToken  string
	lastLimit  int
}

func (r *stubBusinessRepo) SearchGlobally(ctx context.Context, token string, limit int) ([]*entities.Business, error) {
	r.mu.Lock()
	r.calls++
	r.lastToken = token
	r.lastLimit = limit
	r.mu.Unlock()
	if err := ctx.Err(); err != nil {
		return nil, err
	}
	return r.businesses, r.err
}

type stubEventRepo struct {
	mu     sync.Mutex
	events []*entities.SearchEvent
	err    error
	logged chan *entities.SearchEvent
}

func newStubEventRepo() *stubEventRepo {
	return &stubEventRepo{logged: make(chan *entities.SearchEvent, 16)}
}

func (r *stubEventRepo) LogEvent(ctx context.Context, event *entities.SearchEvent) error {
	r.mu.Lock()
	r.events = append(r.events, event)
	r.mu.Unlock()
	if r.logged != nil {
		r.logged <- event
	}
	return r.err
}

func (r *stubEventRepo) GetZeroResultQueries(ctx context.Context, limit int) ([]*entities.SearchEvent, error) {
	return r.events, r.err
}

type stubSink struct {
	mu      sync.Mutex
	metrics []*entities.Metric
	alerts  []*entities.Alert
}

func (s *stubSink) SendMetric(ctx context.Context, metric *entities.Metric) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.metrics = append(s.metrics, metric)
	return nil
}

func (s *stubSink) SendAlert(ctx context.Context, alert *entities.Alert) error {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.alerts = append(s.alerts, alert)
	return nil
}

func coords(lat, lng float64) *entities.Coordinates {
	return &entities.Coordinates{Lat: lat, Lng: lng}
}

func venue(id, name string, loc *entities.Coordinates) *entities.Venue {
	return &entities.Venue{
		ID:             id,
		Name:           name,
		NameNormalized: name,
		Location:       loc,
		IsActive:       true,
	}
}

func business(id, venueID, name string, loc *entities.Coordinates) *entities.Business {
	return &entities.Business{
		ID:             id,
		VenueID:        venueID,
		Name:           name,
		NameNormalized: name,
		Location:       loc,
		IsActive:       true,
	}
}
