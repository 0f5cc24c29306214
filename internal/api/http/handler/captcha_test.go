package handler

import (
	"context"
	"net/http"
	"testing"

	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestIssueCaptchaMissingToken(t *testing.T) {
	env := setupEnv(t)

	rr := env.do(http.MethodGet, "/api/agent/captcha", nil, nil)

	assert.Equal(t, http.StatusBadRequest, rr.Code)
	assert.Equal(t, "Missing t value", rr.Body.String())
}

func TestIssueCaptcha(t *testing.T) {
	env := setupEnv(t)

	rr := env.do(http.MethodGet, "/api/agent/captcha?t=abc", nil, nil)

	require.Equal(t, http.StatusOK, rr.Code)
	assert.Equal(t, "image/svg+xml", rr.Header().Get("Content-Type"))
	assert.Equal(t, "no-store", rr.Header().Get("Cache-Control"))
	assert.Contains(t, rr.Body.String(), "<svg")
}

func TestIssueCaptchaStoresAnswerInSession(t *testing.T) {
	env := setupEnv(t)

	sid, code := env.captcha(t, "abc")
	assert.Len(t, code, 4)

	// A second challenge in the same session keeps the first token.
	rr := env.do(http.MethodGet, "/api/agent/captcha?t=def", nil, nil, sid)
	require.Equal(t, http.StatusOK, rr.Code)

	// The sid cookie is re-issued for the same session with a fresh Max-Age.
	cookies := rr.Result().Cookies()
	require.Len(t, cookies, 1)
	assert.Equal(t, sid.Value, cookies[0].Value)
	assert.Equal(t, int(session.DefaultTTL.Seconds()), cookies[0].MaxAge)

	sess, err := env.sessions.Load(context.Background(), sid.Value)
	require.NoError(t, err)
	assert.Contains(t, sess.Captchas, "abc")
	assert.Contains(t, sess.Captchas, "def")
}
