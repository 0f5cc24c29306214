package tests

import (
	"encoding/json"
	"net/http"
	"testing"

	"github.com/EternisAI/agent-portal/internal/api/http/dto"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestRegister(t *testing.T, env *Env) {
	t.Run("success", func(t *testing.T) {
		body := map[string]any{
			"login_name": "a1",
			"agentpwd":   "p@ss",
			"agent_name": "Agent One",
			"level":      4,
			"balance":    0,
		}
		rr := env.do(http.MethodPost, "/api/agents/register", body, nil)
		require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

		var resp dto.RegisterResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Positive(t, resp.ID)
	})

	t.Run("duplicate login name", func(t *testing.T) {
		body := map[string]any{"login_name": "dup", "agentpwd": "p@ss"}
		rr := env.do(http.MethodPost, "/api/agents/register", body, nil)
		require.Equal(t, http.StatusCreated, rr.Code)

		rr = env.do(http.MethodPost, "/api/agents/register", body, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("missing login name", func(t *testing.T) {
		rr := env.do(http.MethodPost, "/api/agents/register", map[string]any{"agentpwd": "p@ss"}, nil)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})
}

func TestLogin(t *testing.T, env *Env) {
	rr := env.do(http.MethodPost, "/api/agents/register", map[string]any{
		"login_name": "loginagent",
		"agentpwd":   "password123",
		"phone":      5550100,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code)

	t.Run("success", func(t *testing.T) {
		sid, code := env.captcha(t, "abc")
		body := map[string]any{"login_name": "loginagent", "agent_pwd": "password123", "agent_code": code, "t": "abc"}
		rr := env.do(http.MethodPost, "/api/agent/agentLogin", body, nil, sid)
		require.Equal(t, http.StatusOK, rr.Code, rr.Body.String())

		var resp dto.LoginResponse
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		require.NotNil(t, resp.Data.Phone)
		assert.Equal(t, "5550100", *resp.Data.Phone)
		assert.Equal(t, 1, resp.Data.LoginTimes)

		claims, err := auth.ValidateToken(env.JWTSecret, resp.Data.Token)
		require.NoError(t, err)
		assert.Equal(t, resp.Data.AgentID, claims.AgentID)

		// Second login moves the first one into last_logon.
		_, code = env.captcha(t, "abc", sid)
		body["agent_code"] = code
		rr = env.do(http.MethodPost, "/api/agent/agentLogin", body, nil, sid)
		require.Equal(t, http.StatusOK, rr.Code)
		require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
		assert.Equal(t, 2, resp.Data.LoginTimes)
		assert.NotNil(t, resp.Data.LastLogonTime)
	})

	t.Run("invalid captcha", func(t *testing.T) {
		sid, code := env.captcha(t, "abc")
		body := map[string]any{"login_name": "loginagent", "agent_pwd": "password123", "agent_code": code + "x", "t": "abc"}
		rr := env.do(http.MethodPost, "/api/agent/agentLogin", body, nil, sid)
		assert.Equal(t, http.StatusBadRequest, rr.Code)
	})

	t.Run("wrong password", func(t *testing.T) {
		sid, code := env.captcha(t, "abc")
		body := map[string]any{"login_name": "loginagent", "agent_pwd": "wrong", "agent_code": code, "t": "abc"}
		rr := env.do(http.MethodPost, "/api/agent/agentLogin", body, nil, sid)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "invalid_credentials")
	})

	t.Run("unknown agent", func(t *testing.T) {
		sid, code := env.captcha(t, "abc")
		body := map[string]any{"login_name": "nobody", "agent_pwd": "password123", "agent_code": code, "t": "abc"}
		rr := env.do(http.MethodPost, "/api/agent/agentLogin", body, nil, sid)
		assert.Equal(t, http.StatusUnauthorized, rr.Code)
		assert.Contains(t, rr.Body.String(), "user_not_found")
	})
}
