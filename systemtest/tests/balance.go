package tests

import (
	"context"
	"encoding/json"
	"net/http"
	"testing"
	"time"

	"github.com/EternisAI/agent-portal/internal/api/http/dto"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/db"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestBalance(t *testing.T, env *Env) {
	rr := env.do(http.MethodPost, "/api/agents/register", map[string]any{
		"login_name": "balanceagent",
		"agentpwd":   "password123",
		"balance":    12.5,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)
	var reg dto.RegisterResponse
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &reg))

	token, _, err := auth.GenerateToken(env.JWTSecret, reg.ID, time.Now())
	require.NoError(t, err)
	header := http.Header{"Authorization": []string{"Bearer " + token}}

	rr = env.do(http.MethodPost, "/api/agent/balance", nil, header)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"balance":12.5}`, rr.Body.String())

	rr = env.do(http.MethodPut, "/api/agents/balance", map[string]any{"balance": -3.25}, header)
	require.Equal(t, http.StatusOK, rr.Code)

	rr = env.do(http.MethodPost, "/api/agent/balance", nil, header)
	assert.JSONEq(t, `{"balance":-3.25}`, rr.Body.String())

	missing, _, err := auth.GenerateToken(env.JWTSecret, 999999, time.Now())
	require.NoError(t, err)
	rr = env.do(http.MethodPost, "/api/agent/balance", nil, http.Header{"Authorization": []string{"Bearer " + missing}})
	assert.Equal(t, http.StatusNotFound, rr.Code)

	rr = env.do(http.MethodPost, "/api/agent/balance", nil, nil)
	assert.Equal(t, http.StatusUnauthorized, rr.Code)
}

func TestSessionCleanup(t *testing.T, store *db.SessionStore) {
	ctx := context.Background()
	expired := &session.Session{
		ID:        "expired-session",
		CreatedAt: time.Now().Add(-2 * time.Hour),
		ExpiresAt: time.Now().Add(-time.Hour),
	}
	require.NoError(t, store.Save(ctx, expired))

	_, err := store.Get(ctx, expired.ID)
	assert.ErrorIs(t, err, session.ErrSessionNotFound)

	removed, err := store.DeleteExpired(ctx)
	require.NoError(t, err)
	assert.GreaterOrEqual(t, removed, int64(1))
}
