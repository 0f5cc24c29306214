package auth

import (
	"context"
	"errors"
	"fmt"
	"log/slog"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
)

var (
	ErrUserNotFound       = errors.New("user not found")
	ErrInvalidCredentials = errors.New("invalid credentials")
)

// LoginIdentity names the agent logging in. LoginName takes precedence;
// AgentName is accepted from older clients that sent the login name under
// that field.
type LoginIdentity struct {
	LoginName string
	AgentName string
}

func (i LoginIdentity) Resolve() string {
	if i.LoginName != "" {
		return i.LoginName
	}
	return i.AgentName
}

type LoginInput struct {
	Identity LoginIdentity
	Password string
	IP       string
}

type LoginResult struct {
	Agent     *agents.Agent
	Token     string
	ExpiresAt time.Time
}

type Service struct {
	store  agents.Store
	config Config
	now    func() time.Time
}

func NewService(store agents.Store, config Config) *Service {
	return &Service{
		store:  store,
		config: config,
		now:    time.Now,
	}
}

// Login verifies credentials, records the login on the agent and mints a
// bearer token. CAPTCHA verification happens before this is called.
func (s *Service) Login(ctx context.Context, in LoginInput) (*LoginResult, error) {
	loginName := in.Identity.Resolve()

	agent, err := s.store.GetByLoginName(ctx, loginName)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			slog.Info("No agent found for login name", "login_name", loginName)
			if s.config.CollapseLoginErrors {
				return nil, ErrInvalidCredentials
			}
			return nil, ErrUserNotFound
		}
		return nil, fmt.Errorf("query agent: %w", err)
	}

	if !agents.CheckPassword(in.Password, agent.PasswordHash) {
		slog.Info("Password comparison failed", "login_name", loginName)
		return nil, ErrInvalidCredentials
	}

	now := s.now()
	updated, err := s.store.RecordLogin(ctx, agent.ID, agents.LoginRecord{At: now, IP: in.IP})
	if err != nil {
		return nil, fmt.Errorf("record login: %w", err)
	}

	token, expiresAt, err := GenerateToken(s.config.Secret, updated.ID, now)
	if err != nil {
		return nil, fmt.Errorf("generate token: %w", err)
	}

	return &LoginResult{
		Agent:     updated,
		Token:     token,
		ExpiresAt: expiresAt,
	}, nil
}
