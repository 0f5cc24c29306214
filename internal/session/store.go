package session

import "context"

// Store persists sessions by ID. Get returns ErrSessionNotFound for unknown
// or expired sessions.
type Store interface {
	Get(ctx context.Context, id string) (*Session, error)
	Save(ctx context.Context, s *Session) error
}
