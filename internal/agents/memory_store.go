package agents

import (
	"context"
	"sync"
	"time"
)

type MemoryStore struct {
	mu      sync.RWMutex
	nextID  int64
	byID    map[int64]*Agent
	byLogin map[string]int64
}

func NewMemoryStore() *MemoryStore {
	return &MemoryStore{
		byID:    make(map[int64]*Agent),
		byLogin: make(map[string]int64),
	}
}

func (s *MemoryStore) Create(_ context.Context, agent *Agent) (int64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	if _, exists := s.byLogin[agent.LoginName]; exists {
		return 0, ErrLoginNameExists
	}

	s.nextID++
	stored := *agent
	stored.ID = s.nextID
	now := time.Now()
	stored.CreatedAt = now
	stored.UpdatedAt = now

	s.byID[stored.ID] = &stored
	s.byLogin[stored.LoginName] = stored.ID
	agent.ID = stored.ID
	return stored.ID, nil
}

func (s *MemoryStore) GetByID(_ context.Context, id int64) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, ErrAgentNotFound
	}
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) GetByLoginName(_ context.Context, loginName string) (*Agent, error) {
	s.mu.RLock()
	defer s.mu.RUnlock()

	id, ok := s.byLogin[loginName]
	if !ok {
		return nil, ErrAgentNotFound
	}
	cp := *s.byID[id]
	return &cp, nil
}

func (s *MemoryStore) RecordLogin(_ context.Context, id int64, rec LoginRecord) (*Agent, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return nil, ErrAgentNotFound
	}
	a.ApplyLogin(rec)
	cp := *a
	return &cp, nil
}

func (s *MemoryStore) UpdateBalance(_ context.Context, id int64, balance float64) (float64, error) {
	s.mu.Lock()
	defer s.mu.Unlock()

	a, ok := s.byID[id]
	if !ok {
		return 0, ErrAgentNotFound
	}
	a.Balance = balance
	a.UpdatedAt = time.Now()
	return a.Balance, nil
}
