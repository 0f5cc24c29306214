package session

import (
	"context"
	"log/slog"
	"sync"
	"time"
)

type MemoryStore struct {
	mu       sync.RWMutex
	sessions map[string]*Session
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		sessions: make(map[string]*Session),
	}
}

func (ms *MemoryStore) Get(_ context.Context, id string) (*Session, error) {
	ms.mu.RLock()
	s, exists := ms.sessions[id]
	ms.mu.RUnlock()

	if !exists || time.Now().After(s.ExpiresAt) {
		return nil, ErrSessionNotFound
	}
	return s.Clone(), nil
}

func (ms *MemoryStore) Save(_ context.Context, s *Session) error {
	ms.mu.Lock()
	ms.sessions[s.ID] = s.Clone()
	ms.mu.Unlock()
	return nil
}

func (ms *MemoryStore) Len() int {
	ms.mu.RLock()
	defer ms.mu.RUnlock()
	return len(ms.sessions)
}

func (ms *MemoryStore) StartCleanup(ctx context.Context, interval time.Duration) {
	ticker := time.NewTicker(interval)
	defer ticker.Stop()

	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			ms.cleanup(time.Now())
		}
	}
}

func (ms *MemoryStore) cleanup(now time.Time) {
	ms.mu.Lock()
	defer ms.mu.Unlock()

	removed, pruned := 0, 0
	for id, s := range ms.sessions {
		if now.After(s.ExpiresAt) {
			delete(ms.sessions, id)
			removed++
			continue
		}
		pruned += s.PruneCaptchas(now)
	}
	if removed > 0 || pruned > 0 {
		slog.Debug("Cleaned up sessions", "removed", removed, "captchas_pruned", pruned)
	}
}
