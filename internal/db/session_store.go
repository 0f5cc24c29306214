package db

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/jackc/pgx/v5"
	"github.com/jackc/pgx/v5/pgxpool"
)

// SessionStore is the PostgreSQL session.Store. Expired rows are removed by
// StartCleanup.
type SessionStore struct {
	pool *pgxpool.Pool
}

func NewSessionStore(pool *pgxpool.Pool) *SessionStore {
	return &SessionStore{pool: pool}
}

func (s *SessionStore) Get(ctx context.Context, id string) (*session.Session, error) {
	var (
		sess     session.Session
		captchas []byte
	)
	err := s.pool.QueryRow(ctx,
		`SELECT id, captchas, created_at, expires_at FROM sessions WHERE id = $1 AND expires_at > now()`,
		id,
	).Scan(&sess.ID, &captchas, &sess.CreatedAt, &sess.ExpiresAt)
	if err != nil {
		if errors.Is(err, pgx.ErrNoRows) {
			return nil, session.ErrSessionNotFound
		}
		return nil, fmt.Errorf("query session: %w", err)
	}

	if err := json.Unmarshal(captchas, &sess.Captchas); err != nil {
		return nil, fmt.Errorf("decode session captchas: %w", err)
	}
	return &sess, nil
}

func (s *SessionStore) Save(ctx context.Context, sess *session.Session) error {
	captchas := sess.Captchas
	if captchas == nil {
		captchas = map[string]session.Captcha{}
	}
	data, err := json.Marshal(captchas)
	if err != nil {
		return fmt.Errorf("encode session captchas: %w", err)
	}

	_, err = s.pool.Exec(ctx, `
		INSERT INTO sessions (id, captchas, created_at, expires_at)
		VALUES ($1, $2, $3, $4)
		ON CONFLICT (id) DO UPDATE SET captchas = EXCLUDED.captchas, expires_at = EXCLUDED.expires_at`,
		sess.ID, data, sess.CreatedAt, sess.ExpiresAt,
	)
	if err != nil {
		return fmt.Errorf("upsert session: %w", err)
	}
	return nil
}

func (s *SessionStore) DeleteExpired(ctx context.Context) (int64, error) {
	tag, err := s.pool.Exec(ctx, `DELETE FROM sessions WHERE expires_at <= now()`)
	if err != nil {
		return 0, fmt.Errorf("delete expired sessions: %w", err)
	}
	return tag.RowsAffected(), nil
}

func (s *SessionStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			removed, err := s.DeleteExpired(ctx)
			if err != nil {
				slog.Warn("Session cleanup failed", "error", err)
				continue
			}
			if removed > 0 {
				slog.Debug("Cleaned up sessions", "removed", removed)
			}
		}
	}
}
