package memory

import (
	"context"
	"sync"
	"time"

	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/portal"

	"github.com/patrickmn/go-cache"
)

type SessionRepository struct {
	cache *cache.Cache

	// serializes Update so read-modify-write is atomic per process
	mu sync.Mutex
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(ttl time.Duration) *SessionRepository {
	// Purge expired sessions every 10 minutes
	c := cache.New(ttl, 10*time.Minute)
	return &SessionRepository{
		cache: c,
	}
}

func (r *SessionRepository) Get(_ context.Context, sessionID string) (portal.State, error) {
	if x, found := r.cache.Get(sessionID); found {
		return x.(portal.State).Clone(), nil
	}
	return portal.State{}, contract.ErrSessionNotFound
}

func (r *SessionRepository) Save(_ context.Context, state portal.State) error {
	r.cache.Set(state.SessionID, state.Clone(), cache.DefaultExpiration)
	return nil
}

func (r *SessionRepository) Update(ctx context.Context, sessionID string, fn func(portal.State) (portal.State, error)) (portal.State, error) {
	r.mu.Lock()
	defer r.mu.Unlock()

	current, err := r.Get(ctx, sessionID)
	if err != nil {
		return portal.State{}, err
	}
	next, err := fn(current)
	if err != nil {
		return current, err
	}
	if err := r.Save(ctx, next); err != nil {
		return current, err
	}
	return next, nil
}

func (r *SessionRepository) Delete(_ context.Context, sessionID string) error {
	r.cache.Delete(sessionID)
	return nil
}
