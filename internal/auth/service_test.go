package auth

import (
	"context"
	"testing"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupService(t *testing.T, config Config) (*Service, *agents.MemoryStore) {
	t.Helper()
	store := agents.NewMemoryStore()
	_, err := agents.NewService(store).Register(context.Background(), agents.RegisterInput{
		LoginName: "a1",
		Password:  "p@ss",
		AgentName: "Agent One",
		Level:     4,
	})
	require.NoError(t, err)

	config.Secret = testSecret
	return NewService(store, config), store
}

func TestLoginIdentityResolve(t *testing.T) {
	assert.Equal(t, "a1", LoginIdentity{LoginName: "a1", AgentName: "legacy"}.Resolve())
	assert.Equal(t, "legacy", LoginIdentity{AgentName: "legacy"}.Resolve())
	assert.Equal(t, "", LoginIdentity{}.Resolve())
}

func TestLogin(t *testing.T) {
	svc, _ := setupService(t, Config{})
	fixed := time.Date(2024, 5, 1, 12, 0, 0, 0, time.UTC)
	svc.now = func() time.Time { return fixed }

	result, err := svc.Login(context.Background(), LoginInput{
		Identity: LoginIdentity{LoginName: "a1"},
		Password: "p@ss",
		IP:       "192.0.2.1",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", result.Agent.LoginName)
	assert.Equal(t, 1, result.Agent.LoginTimes)
	assert.Equal(t, "192.0.2.1", result.Agent.LastLoginIP)
	assert.Equal(t, fixed, *result.Agent.LastLoginTime)
	assert.Equal(t, fixed.Add(time.Hour), result.ExpiresAt)

	claims, err := ValidateTokenAt(testSecret, result.Token, fixed.Add(time.Minute))
	require.NoError(t, err)
	assert.Equal(t, result.Agent.ID, claims.AgentID)
}

func TestLoginLegacyAgentName(t *testing.T) {
	svc, _ := setupService(t, Config{})

	result, err := svc.Login(context.Background(), LoginInput{
		Identity: LoginIdentity{AgentName: "a1"},
		Password: "p@ss",
	})
	require.NoError(t, err)
	assert.Equal(t, "a1", result.Agent.LoginName)
}

func TestLoginIncrementsCounter(t *testing.T) {
	svc, store := setupService(t, Config{})

	for i := 0; i < 3; i++ {
		_, err := svc.Login(context.Background(), LoginInput{
			Identity: LoginIdentity{LoginName: "a1"},
			Password: "p@ss",
		})
		require.NoError(t, err)
	}

	a, err := store.GetByLoginName(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 3, a.LoginTimes)
	assert.NotNil(t, a.LastLogonTime)
}

func TestLoginUserNotFound(t *testing.T) {
	svc, _ := setupService(t, Config{})

	_, err := svc.Login(context.Background(), LoginInput{
		Identity: LoginIdentity{LoginName: "nobody"},
		Password: "p@ss",
	})
	assert.ErrorIs(t, err, ErrUserNotFound)
}

func TestLoginInvalidCredentials(t *testing.T) {
	svc, store := setupService(t, Config{})

	_, err := svc.Login(context.Background(), LoginInput{
		Identity: LoginIdentity{LoginName: "a1"},
		Password: "wrong",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)

	a, err := store.GetByLoginName(context.Background(), "a1")
	require.NoError(t, err)
	assert.Equal(t, 0, a.LoginTimes)
}

func TestLoginCollapsedErrors(t *testing.T) {
	svc, _ := setupService(t, Config{CollapseLoginErrors: true})

	_, err := svc.Login(context.Background(), LoginInput{
		Identity: LoginIdentity{LoginName: "nobody"},
		Password: "p@ss",
	})
	assert.ErrorIs(t, err, ErrInvalidCredentials)
}
