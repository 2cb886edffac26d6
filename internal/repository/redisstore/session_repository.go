package redisstore

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"howdy-portal-be/internal/repository/contract"
	"howdy-portal-be/pkg/portal"

	"github.com/redis/go-redis/v9"
)

const (
	keyPrefix        = "portal:session:"
	maxUpdateRetries = 8
)

// SessionRepository shares portal state between instances. Update uses
// WATCH/MULTI so concurrent writers on one session never lose an update.
type SessionRepository struct {
	rdb *redis.Client
	ttl time.Duration
}

var _ contract.SessionRepository = (*SessionRepository)(nil)

func NewSessionRepository(rdb *redis.Client, ttl time.Duration) *SessionRepository {
	return &SessionRepository{rdb: rdb, ttl: ttl}
}

func key(sessionID string) string {
	return keyPrefix + sessionID
}

func (r *SessionRepository) Get(ctx context.Context, sessionID string) (portal.State, error) {
	return r.load(ctx, r.rdb, sessionID)
}

func (r *SessionRepository) Save(ctx context.Context, state portal.State) error {
	data, err := json.Marshal(state)
	if err != nil {
		return fmt.Errorf("marshal session: %w", err)
	}
	return r.rdb.Set(ctx, key(state.SessionID), data, r.ttl).Err()
}

func (r *SessionRepository) Update(ctx context.Context, sessionID string, fn func(portal.State) (portal.State, error)) (portal.State, error) {
	k := key(sessionID)

	for i := 0; i < maxUpdateRetries; i++ {
		var current, next portal.State
		var fnErr error

		err := r.rdb.Watch(ctx, func(tx *redis.Tx) error {
			var err error
			current, err = r.load(ctx, tx, sessionID)
			if err != nil {
				return err
			}
			next, fnErr = fn(current)
			if fnErr != nil {
				return nil
			}
			data, err := json.Marshal(next)
			if err != nil {
				return fmt.Errorf("marshal session: %w", err)
			}
			_, err = tx.TxPipelined(ctx, func(pipe redis.Pipeliner) error {
				pipe.Set(ctx, k, data, r.ttl)
				return nil
			})
			return err
		}, k)

		switch {
		case errors.Is(err, redis.TxFailedErr):
			continue
		case err != nil:
			return portal.State{}, err
		case fnErr != nil:
			return current, fnErr
		default:
			return next, nil
		}
	}
	return portal.State{}, fmt.Errorf("update session %s: too much contention", sessionID)
}

func (r *SessionRepository) Delete(ctx context.Context, sessionID string) error {
	return r.rdb.Del(ctx, key(sessionID)).Err()
}

type getter interface {
	Get(ctx context.Context, key string) *redis.StringCmd
}

func (r *SessionRepository) load(ctx context.Context, c getter, sessionID string) (portal.State, error) {
	data, err := c.Get(ctx, key(sessionID)).Bytes()
	if errors.Is(err, redis.Nil) {
		return portal.State{}, contract.ErrSessionNotFound
	}
	if err != nil {
		return portal.State{}, err
	}
	var state portal.State
	if err := json.Unmarshal(data, &state); err != nil {
		return portal.State{}, fmt.Errorf("decode session: %w", err)
	}
	return state, nil
}
