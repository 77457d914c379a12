package grid

import (
	"errors"
	"sync"
	"time"

	"quick-order/internal/domain"

	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrGridNotFound = errors.New("grid session not found")

type session struct {
	grid     *Grid
	lastUsed time.Time
}

// Store owns the live grid sessions. A session is created when a bulk-order
// form is rendered, looked up by id on every grid interaction and discarded
// on explicit release or after sitting idle past the TTL.
type Store struct {
	mu       sync.Mutex
	sessions map[string]*session
	debounce time.Duration
	ttl      time.Duration
	logger   *zap.Logger
	stop     chan struct{}
	stopOnce sync.Once
}

// NewStore creates a grid session store and starts its expiry sweeper.
func NewStore(debounce, ttl time.Duration, logger *zap.Logger) *Store {
	s := &Store{
		sessions: make(map[string]*session),
		debounce: debounce,
		ttl:      ttl,
		logger:   logger,
		stop:     make(chan struct{}),
	}
	go s.sweep()
	return s
}

// Create seeds a new grid session from merged variants and returns its id.
func (s *Store) Create(variants []domain.Variant) string {
	id := uuid.New().String()

	s.mu.Lock()
	defer s.mu.Unlock()
	s.sessions[id] = &session{
		grid:     New(variants, s.debounce),
		lastUsed: time.Now(),
	}
	return id
}

// Get returns the grid for a session id and refreshes its idle timer.
func (s *Store) Get(id string) (*Grid, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	sess, ok := s.sessions[id]
	if !ok {
		return nil, ErrGridNotFound
	}
	sess.lastUsed = time.Now()
	return sess.grid, nil
}

// Release discards a session, the unmount path. Releasing an unknown id is a
// no-op so clients can release idempotently.
func (s *Store) Release(id string) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if sess, ok := s.sessions[id]; ok {
		sess.grid.Close()
		delete(s.sessions, id)
	}
}

// Close stops the sweeper and releases every session.
func (s *Store) Close() {
	s.stopOnce.Do(func() { close(s.stop) })

	s.mu.Lock()
	defer s.mu.Unlock()
	for id, sess := range s.sessions {
		sess.grid.Close()
		delete(s.sessions, id)
	}
}

func (s *Store) sweep() {
	interval := s.ttl / 4
	if interval < time.Second {
		interval = time.Second
	}
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-s.stop:
			return
		case <-ticker.C:
			s.expire(time.Now())
		}
	}
}

func (s *Store) expire(now time.Time) {
	s.mu.Lock()
	defer s.mu.Unlock()

	for id, sess := range s.sessions {
		if now.Sub(sess.lastUsed) > s.ttl {
			sess.grid.Close()
			delete(s.sessions, id)
			s.logger.Debug("Expired idle grid session", zap.String("grid_id", id))
		}
	}
}
