package services

import (
	"context"
	"sync"
	"time"

	"github.com/rs/zerolog/log"

	"github.com/hanaihang/mallsearch/internal/domain/entities"
)

// EmitFunc receives the outcome of a debounced search. It is called at most
// once per Submit, and never for a superseded submission.
type EmitFunc func(results []*entities.SearchResult, err error)

type sessionState string

const (
	stateIdle      sessionState = "idle"
	stateScheduled sessionState = "scheduled"
	stateFetching  sessionState = "fetching"
	stateCancelled sessionState = "cancelled"
	stateCompleted sessionState = "completed"
	stateFailed    sessionState = "failed"
)

// SearchController serializes a stream of keystroke-level queries into
// debounced, cancellable searches. Each Submit supersedes the previous one:
// its pending timer is stopped and its in-flight context cancelled. Only the
// current session may emit.
type SearchController struct {
	service  *SearchService
	debounce time.Duration

	mu     sync.Mutex
	seq    uint64
	state  sessionState
	timer  *time.Timer
	cancel context.CancelFunc
}

// NewSearchController creates a controller for one query stream
func NewSearchController(service *SearchService, debounce time.Duration) *SearchController {
	if debounce <= 0 {
		debounce = 120 * time.Millisecond
	}
	return &SearchController{
		service:  service,
		debounce: debounce,
		state:    stateIdle,
	}
}

// Submit schedules a search for query after the debounce interval,
// superseding any pending or in-flight search.
func (c *SearchController) Submit(query string, loc *entities.Coordinates, emit EmitFunc) {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()

	c.seq++
	session := c.seq
	c.setStateLocked(session, stateScheduled)

	c.timer = time.AfterFunc(c.debounce, func() {
		c.fetch(session, query, loc, emit)
	})
}

// Cancel aborts any pending or in-flight search without emitting
func (c *SearchController) Cancel() {
	c.mu.Lock()
	defer c.mu.Unlock()

	c.supersedeLocked()
	c.seq++
	c.state = stateIdle
}

func (c *SearchController) fetch(session uint64, query string, loc *entities.Coordinates, emit EmitFunc) {
	c.mu.Lock()
	if session != c.seq {
		c.mu.Unlock()
		return
	}
	ctx, cancel := context.WithCancel(context.Background())
	c.cancel = cancel
	c.setStateLocked(session, stateFetching)
	c.mu.Unlock()

	results, err := c.service.Search(ctx, query, loc)
	cancel()

	c.mu.Lock()
	defer c.mu.Unlock()
	if session != c.seq {
		// Superseded while fetching; the newer session owns the stream
		return
	}
	if ctx.Err() != nil {
		c.setStateLocked(session, stateCancelled)
		return
	}
	if err != nil {
		c.setStateLocked(session, stateFailed)
	} else {
		c.setStateLocked(session, stateCompleted)
	}

	emit(results, err)
}

// supersedeLocked stops the pending timer and cancels the in-flight fetch.
// Callers must hold the mutex.
func (c *SearchController) supersedeLocked() {
	if c.timer != nil {
		c.timer.Stop()
		c.timer = nil
	}
	if c.cancel != nil {
		c.cancel()
		c.cancel = nil
	}
	if c.state == stateScheduled || c.state == stateFetching {
		c.setStateLocked(c.seq, stateCancelled)
	}
}

func (c *SearchController) setStateLocked(session uint64, next sessionState) {
	log.Debug().
		Uint64("session", session).
		Str("from", string(c.state)).
		Str("to", string(next)).
		Msg("search session transition")
	c.state = next
}
