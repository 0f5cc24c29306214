package middleware

import (
	"context"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func setupSessionRouter(m *session.Manager) *gin.Engine {
	r := gin.New()
	r.Use(Sessions(m))
	r.GET("/whoami", func(c *gin.Context) {
		c.String(http.StatusOK, GetSession(c).ID)
	})
	r.POST("/touch", func(c *gin.Context) {
		sess := GetSession(c)
		if err := SaveSession(c, m, sess); err != nil {
			c.Status(http.StatusInternalServerError)
			return
		}
		c.String(http.StatusOK, sess.ID)
	})
	return r
}

func sidCookie(w *httptest.ResponseRecorder) *http.Cookie {
	for _, c := range w.Result().Cookies() {
		if c.Name == session.DefaultCookieName {
			return c
		}
	}
	return nil
}

func TestSessionsUnsavedSessionSetsNoCookie(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), session.Config{})
	r := setupSessionRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodGet, "/whoami", nil))

	require.Equal(t, http.StatusOK, w.Code)
	assert.NotEmpty(t, w.Body.String())
	assert.Nil(t, sidCookie(w))
}

func TestSaveSessionSetsCookie(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), session.Config{})
	r := setupSessionRouter(m)

	w := httptest.NewRecorder()
	r.ServeHTTP(w, httptest.NewRequest(http.MethodPost, "/touch", nil))

	require.Equal(t, http.StatusOK, w.Code)
	cookie := sidCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, w.Body.String(), cookie.Value)
	assert.True(t, cookie.HttpOnly)
	assert.Equal(t, int(session.DefaultTTL.Seconds()), cookie.MaxAge)

	stored, err := m.Load(context.Background(), cookie.Value)
	require.NoError(t, err)
	assert.False(t, stored.IsNew)
}

func TestSaveSessionRefreshesCookieForExistingSession(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), session.Config{TTL: time.Hour})
	sess, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, m.Save(context.Background(), sess))

	r := setupSessionRouter(m)
	req := httptest.NewRequest(http.MethodPost, "/touch", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, sess.ID, w.Body.String())
	cookie := sidCookie(w)
	require.NotNil(t, cookie)
	assert.Equal(t, sess.ID, cookie.Value)
	assert.Equal(t, int(time.Hour.Seconds()), cookie.MaxAge)
}

func TestSessionsExistingSessionReused(t *testing.T) {
	m := session.NewManager(session.NewMemoryStore(), session.Config{})
	sess, err := m.Load(context.Background(), "")
	require.NoError(t, err)
	require.NoError(t, m.Save(context.Background(), sess))

	r := setupSessionRouter(m)
	req := httptest.NewRequest(http.MethodGet, "/whoami", nil)
	req.AddCookie(&http.Cookie{Name: session.DefaultCookieName, Value: sess.ID})
	w := httptest.NewRecorder()
	r.ServeHTTP(w, req)

	assert.Equal(t, sess.ID, w.Body.String())
	assert.Nil(t, sidCookie(w))
}
