package tests

import (
	"bytes"
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"

	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

type Env struct {
	Router    *gin.Engine
	Sessions  *session.Manager
	JWTSecret string
}

func TestHealthCheck(t *testing.T, env *Env) {
	rr := env.do(http.MethodGet, "/health", nil, nil)
	assert.Equal(t, http.StatusOK, rr.Code)
	assert.JSONEq(t, `{"status":"ok"}`, rr.Body.String())
}

func (e *Env) do(method, path string, body any, header http.Header, cookies ...*http.Cookie) *httptest.ResponseRecorder {
	var buf bytes.Buffer
	if body != nil {
		_ = json.NewEncoder(&buf).Encode(body)
	}
	req := httptest.NewRequest(method, path, &buf)
	req.Header.Set("Content-Type", "application/json")
	for k, v := range header {
		req.Header[k] = v
	}
	for _, c := range cookies {
		req.AddCookie(c)
	}
	rr := httptest.NewRecorder()
	e.Router.ServeHTTP(rr, req)
	return rr
}

// captcha asks for a challenge and reads the expected answer back from the
// session store, the way the login page's user would read it off the image.
func (e *Env) captcha(t *testing.T, token string, cookies ...*http.Cookie) (*http.Cookie, string) {
	t.Helper()
	rr := e.do(http.MethodGet, "/api/agent/captcha?t="+token, nil, nil, cookies...)
	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))

	var sid *http.Cookie
	for _, c := range rr.Result().Cookies() {
		if c.Name == e.Sessions.Config().CookieName {
			sid = c
		}
	}
	if sid == nil && len(cookies) > 0 {
		sid = cookies[0]
	}
	require.NotNil(t, sid)

	sess, err := e.Sessions.Load(context.Background(), sid.Value)
	require.NoError(t, err)
	require.False(t, sess.IsNew)
	return sid, sess.Captchas[token].Code
}
