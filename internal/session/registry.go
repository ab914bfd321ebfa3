package session

import (
	"context"
	"errors"
	"sync"
	"sync/atomic"
	"time"

	"github.com/example/instrument-shop/internal/domain/cart"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

var ErrSessionNotFound = errors.New("session not found")

// CartFactory builds the cart for a new session.
type CartFactory func(sessionID string) *cart.Store

type session struct {
	id       string
	mu       sync.Mutex
	cart     *cart.Store
	lastSeen atomic.Int64 // unix nanos
}

// Registry holds one cart per session. Work on a cart goes through Do,
// which serializes it per session; carts of different sessions share no
// state.
type Registry struct {
	mu       sync.RWMutex
	sessions map[string]*session
	ttl      time.Duration
	newCart  CartFactory
	now      func() time.Time
	logger   *zap.Logger
}

type Option func(*Registry)

func WithCartFactory(f CartFactory) Option {
	return func(r *Registry) { r.newCart = f }
}

func WithClock(now func() time.Time) Option {
	return func(r *Registry) { r.now = now }
}

// NewRegistry discards sessions idle for longer than ttl.
func NewRegistry(ttl time.Duration, logger *zap.Logger, opts ...Option) *Registry {
	r := &Registry{
		sessions: make(map[string]*session),
		ttl:      ttl,
		newCart:  func(string) *cart.Store { return cart.NewStore() },
		now:      time.Now,
		logger:   logger.Named("session"),
	}
	for _, opt := range opts {
		opt(r)
	}
	return r
}

// Create starts a session with an empty cart and returns its id.
func (r *Registry) Create() string {
	id := uuid.New().String()
	s := &session{id: id, cart: r.newCart(id)}
	s.lastSeen.Store(r.now().UnixNano())

	r.mu.Lock()
	r.sessions[id] = s
	r.mu.Unlock()

	r.logger.Debug("session created", zap.String("session_id", id))
	return id
}

// Exists reports whether id names a live session.
func (r *Registry) Exists(id string) bool {
	_, err := r.lookup(id)
	return err == nil
}

// Do runs fn against the session's cart. Calls for the same session run
// one at a time in the order they acquire the session.
func (r *Registry) Do(ctx context.Context, id string, fn func(*cart.Store) error) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	s, err := r.lookup(id)
	if err != nil {
		return err
	}

	s.mu.Lock()
	defer s.mu.Unlock()

	s.lastSeen.Store(r.now().UnixNano())
	return fn(s.cart)
}

// End discards a session and clears its cart.
func (r *Registry) End(id string) {
	r.mu.Lock()
	s, ok := r.sessions[id]
	delete(r.sessions, id)
	r.mu.Unlock()

	if ok {
		s.discard()
		r.logger.Debug("session ended", zap.String("session_id", id))
	}
}

// Sweep discards every session idle longer than the TTL and returns how
// many were removed.
func (r *Registry) Sweep() int {
	now := r.now()

	var expired []*session
	r.mu.Lock()
	for id, s := range r.sessions {
		if r.expired(s, now) {
			delete(r.sessions, id)
			expired = append(expired, s)
		}
	}
	r.mu.Unlock()

	// cleared outside the registry lock so a busy session cannot stall others
	for _, s := range expired {
		s.discard()
	}
	return len(expired)
}

// Run sweeps every interval until ctx is done.
func (r *Registry) Run(ctx context.Context, interval time.Duration) error {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return nil
		case <-ticker.C:
			if n := r.Sweep(); n > 0 {
				r.logger.Info("expired sessions discarded", zap.Int("count", n))
			}
		}
	}
}

// Len returns the number of sessions held, expired or not.
func (r *Registry) Len() int {
	r.mu.RLock()
	defer r.mu.RUnlock()
	return len(r.sessions)
}

func (r *Registry) lookup(id string) (*session, error) {
	r.mu.RLock()
	s, ok := r.sessions[id]
	r.mu.RUnlock()

	if !ok || r.expired(s, r.now()) {
		return nil, ErrSessionNotFound
	}
	return s, nil
}

// discard waits for in-flight work on the cart, then clears it.
func (s *session) discard() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.cart.Clear()
}

func (r *Registry) expired(s *session, now time.Time) bool {
	return now.Sub(time.Unix(0, s.lastSeen.Load())) > r.ttl
}
