package handler

import (
	"log/slog"
	"net/http"

	"github.com/EternisAI/agent-portal/internal/api/http/middleware"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
)

type CaptchaHandler struct {
	generator *captcha.Generator
	sessions  *session.Manager
}

func NewCaptchaHandler(generator *captcha.Generator, sessions *session.Manager) *CaptchaHandler {
	return &CaptchaHandler{
		generator: generator,
		sessions:  sessions,
	}
}

// Issue renders a new challenge and remembers its answer under the t query value
// GET /api/agent/captcha?t=
func (h *CaptchaHandler) Issue(c *gin.Context) {
	t := c.Query("t")
	if t == "" {
		c.String(http.StatusBadRequest, "Missing t value")
		return
	}

	sess := middleware.GetSession(c)
	if sess == nil {
		c.String(http.StatusInternalServerError, "session unavailable")
		return
	}

	challenge, err := h.generator.Generate()
	if err != nil {
		slog.Error("Failed to generate captcha", "error", err)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}

	h.sessions.IssueCaptcha(sess, t, challenge.Text)
	if err := middleware.SaveSession(c, h.sessions, sess); err != nil {
		slog.Error("Failed to save session", "error", err, "session_id", sess.ID)
		c.String(http.StatusInternalServerError, err.Error())
		return
	}
	slog.Debug("Generated captcha", "session_id", sess.ID, "t", t)

	c.Header("Cache-Control", "no-store")
	c.Data(http.StatusOK, "image/svg+xml", challenge.SVG)
}
