package middleware

import (
	"log/slog"
	"net/http"

	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
)

const sessionKey = "session"

// Sessions loads the caller's session from its cookie, or starts a new one.
// Handlers that change the session persist it with SaveSession before
// writing the response.
func Sessions(manager *session.Manager) gin.HandlerFunc {
	cfg := manager.Config()
	return func(c *gin.Context) {
		id, _ := c.Cookie(cfg.CookieName)

		sess, err := manager.Load(c.Request.Context(), id)
		if err != nil {
			slog.Error("Failed to load session", "error", err)
			c.AbortWithStatusJSON(http.StatusInternalServerError, gin.H{"message": err.Error()})
			return
		}

		slog.Debug("Session", "session_id", sess.ID, "new", sess.IsNew, "captchas", len(sess.Captchas))

		c.Set(sessionKey, sess)
		c.Next()
	}
}

// SaveSession stores sess and re-issues the sid cookie so its Max-Age
// follows the extended server-side expiry.
func SaveSession(c *gin.Context, manager *session.Manager, sess *session.Session) error {
	if err := manager.Save(c.Request.Context(), sess); err != nil {
		return err
	}
	cfg := manager.Config()
	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(cfg.CookieName, sess.ID, int(cfg.TTL.Seconds()), "/", "", cfg.Secure, true)
	return nil
}

func GetSession(c *gin.Context) *session.Session {
	v, ok := c.Get(sessionKey)
	if !ok {
		return nil
	}
	sess, _ := v.(*session.Session)
	return sess
}
