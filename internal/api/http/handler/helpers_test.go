package handler

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/api/http/middleware"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/require"
)

const testSecret = "handler-test-secret"

func init() {
	gin.SetMode(gin.TestMode)
}

type testEnv struct {
	router   *gin.Engine
	store    *agents.MemoryStore
	sessions *session.Manager
}

func setupEnv(t *testing.T) *testEnv {
	t.Helper()
	store := agents.NewMemoryStore()
	agentService := agents.NewService(store)
	authService := auth.NewService(store, auth.Config{Secret: testSecret})
	sessions := session.NewManager(session.NewMemoryStore(), session.Config{})
	generator := captcha.NewGenerator(captcha.DefaultOptions())

	agentHandler := NewAgentHandler(agentService)
	balanceHandler := NewBalanceHandler(agentService)
	captchaHandler := NewCaptchaHandler(generator, sessions)
	authHandler := NewAuthHandler(authService, sessions)

	r := gin.New()
	withSession := middleware.Sessions(sessions)
	requireToken := middleware.JWTAuth(testSecret)
	r.POST("/api/agents/register", agentHandler.Register)
	r.PUT("/api/agents/balance", requireToken, balanceHandler.UpdateBalance)
	r.GET("/api/agent/captcha", withSession, captchaHandler.Issue)
	r.POST("/api/agent/agentLogin", withSession, authHandler.Login)
	r.POST("/api/agent/balance", requireToken, balanceHandler.GetBalance)

	return &testEnv{router: r, store: store, sessions: sessions}
}

func (e *testEnv) do(method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var reader *bytes.Reader
	if body != nil {
		b, _ := json.Marshal(body)
		reader = bytes.NewReader(b)
	} else {
		reader = bytes.NewReader(nil)
	}
	req := httptest.NewRequest(method, path, reader)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.router.ServeHTTP(rr, req)
	return rr
}

func (e *testEnv) register(t *testing.T, loginName, password string) int64 {
	t.Helper()
	rr := e.do(http.MethodPost, "/api/agents/register", map[string]any{
		"login_name": loginName,
		"agentpwd":   password,
		"agent_name": "Agent " + loginName,
		"level":      4,
		"balance":    0,
	}, nil)
	require.Equal(t, http.StatusCreated, rr.Code, rr.Body.String())

	var resp struct {
		ID int64 `json:"id"`
	}
	require.NoError(t, json.Unmarshal(rr.Body.Bytes(), &resp))
	return resp.ID
}

// captcha requests a challenge for token t and returns the session cookie
// together with the expected answer read back from the session store.
func (e *testEnv) captcha(t *testing.T, token string) (*http.Cookie, string) {
	t.Helper()
	rr := e.do(http.MethodGet, "/api/agent/captcha?t="+token, nil, nil)
	require.Equal(t, http.StatusOK, rr.Code)

	var sid *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			sid = c
		}
	}
	require.NotNil(t, sid)

	sess, err := e.sessions.Load(context.Background(), sid.Value)
	require.NoError(t, err)
	require.False(t, sess.IsNew)
	return sid, sess.Captchas[token].Code
}

func bearer(token string) http.Header {
	return http.Header{"Authorization": []string{"Bearer " + token}}
}
