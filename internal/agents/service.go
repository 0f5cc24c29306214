package agents

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
)

type RegisterInput struct {
	LoginName string
	Password  string
	AgentName string
	Phone     string
	RealName  string
	Level     int
	Balance   float64
}

type Service struct {
	store Store
}

func NewService(store Store) *Service {
	return &Service{store: store}
}

// Register creates an agent and returns its new ID. The login name is looked
// up first so a duplicate surfaces as ErrLoginNameExists before any hashing.
func (s *Service) Register(ctx context.Context, in RegisterInput) (int64, error) {
	existing, err := s.store.GetByLoginName(ctx, in.LoginName)
	if err != nil && !errors.Is(err, ErrAgentNotFound) {
		return 0, fmt.Errorf("lookup login name: %w", err)
	}
	if existing != nil {
		slog.Info("Login name already exists", "login_name", in.LoginName)
		return 0, ErrLoginNameExists
	}

	hash, err := HashPassword(in.Password)
	if err != nil {
		return 0, err
	}

	secret, err := GenerateSecret()
	if err != nil {
		return 0, fmt.Errorf("generate secret: %w", err)
	}

	agent := &Agent{
		AgentName:    in.AgentName,
		LoginName:    in.LoginName,
		PasswordHash: hash,
		Phone:        in.Phone,
		RealName:     in.RealName,
		Level:        in.Level,
		Role:         DefaultRole,
		SecretKey:    secret,
		Balance:      in.Balance,
	}

	id, err := s.store.Create(ctx, agent)
	if err != nil {
		if errors.Is(err, ErrLoginNameExists) {
			return 0, err
		}
		return 0, fmt.Errorf("create agent: %w", err)
	}

	slog.Info("Registered agent", "login_name", in.LoginName, "agent_id", id)
	return id, nil
}

func (s *Service) GetBalance(ctx context.Context, id int64) (float64, error) {
	agent, err := s.store.GetByID(ctx, id)
	if err != nil {
		return 0, err
	}
	return agent.Balance, nil
}

// UpdateBalance overwrites the stored balance. There is no compare-and-swap:
// concurrent writers race and the last write wins.
func (s *Service) UpdateBalance(ctx context.Context, id int64, balance float64) (float64, error) {
	updated, err := s.store.UpdateBalance(ctx, id, balance)
	if err != nil {
		return 0, err
	}
	slog.Debug("Balance updated", "agent_id", id, "balance", updated)
	return updated, nil
}
