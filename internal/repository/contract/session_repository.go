package contract

import (
	"context"
	"errors"

	"howdy-portal-be/pkg/portal"
)

var ErrSessionNotFound = errors.New("session not found")

// SessionRepository stores portal view state keyed by session id.
type SessionRepository interface {
	Get(ctx context.Context, sessionID string) (portal.State, error)
	Save(ctx context.Context, state portal.State) error
	// Update applies fn to the stored state atomically. When fn fails nothing
	// is written and the stored state is returned with fn's error.
	Update(ctx context.Context, sessionID string, fn func(portal.State) (portal.State, error)) (portal.State, error)
	Delete(ctx context.Context, sessionID string) error
}
