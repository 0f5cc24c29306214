package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/api/http/dto"
	"github.com/EternisAI/agent-portal/internal/api/http/middleware"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
)

const tokenCookie = "token"

type AuthHandler struct {
	authService  *auth.Service
	sessions     *session.Manager
	secureCookie bool
}

func NewAuthHandler(authService *auth.Service, sessions *session.Manager) *AuthHandler {
	return &AuthHandler{
		authService:  authService,
		sessions:     sessions,
		secureCookie: sessions.Config().Secure,
	}
}

// Login checks the CAPTCHA answer, then credentials, and issues a bearer token
// POST /api/agent/agentLogin
func (h *AuthHandler) Login(c *gin.Context) {
	var req dto.LoginRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: http.StatusBadRequest, Message: err.Error()})
		return
	}

	sess := middleware.GetSession(c)
	if sess == nil {
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: http.StatusBadRequest, Message: "Invalid CAPTCHA"})
		return
	}

	captchaErr := h.sessions.VerifyCaptcha(sess, req.CaptchaKey, req.CaptchaCode)
	if err := middleware.SaveSession(c, h.sessions, sess); err != nil {
		slog.Error("Failed to save session", "error", err, "session_id", sess.ID)
		c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: http.StatusInternalServerError, Message: err.Error()})
		return
	}
	if captchaErr != nil {
		slog.Info("Invalid CAPTCHA", "session_id", sess.ID, "t", req.CaptchaKey)
		c.JSON(http.StatusBadRequest, dto.ErrorResponse{Code: http.StatusBadRequest, Message: "Invalid CAPTCHA"})
		return
	}

	result, err := h.authService.Login(c.Request.Context(), auth.LoginInput{
		Identity: auth.LoginIdentity{LoginName: req.LoginName, AgentName: req.AgentName},
		Password: req.Password,
		IP:       c.ClientIP(),
	})
	if err != nil {
		switch {
		case errors.Is(err, auth.ErrUserNotFound):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Login failed, user not found.",
				Reason:  "user_not_found",
			})
		case errors.Is(err, auth.ErrInvalidCredentials):
			c.JSON(http.StatusUnauthorized, dto.ErrorResponse{
				Code:    http.StatusUnauthorized,
				Message: "Invalid credentials",
				Reason:  "invalid_credentials",
			})
		default:
			slog.Error("Error during login process", "error", err)
			c.JSON(http.StatusInternalServerError, dto.ErrorResponse{Code: http.StatusInternalServerError, Message: err.Error()})
		}
		return
	}

	c.SetSameSite(http.SameSiteLaxMode)
	c.SetCookie(tokenCookie, result.Token, int(auth.DefaultTokenTTL.Seconds()), "/", "", h.secureCookie, true)
	c.JSON(http.StatusOK, dto.LoginResponse{
		Code: http.StatusOK,
		Msg:  "success",
		Data: profile(result.Agent, result.Token),
	})
}

func profile(a *agents.Agent, token string) dto.AgentProfile {
	var phone *string
	if a.Phone != "" {
		p := a.Phone
		phone = &p
	}
	return dto.AgentProfile{
		AgentID:            a.ID,
		AgentName:          a.AgentName,
		LoginName:          a.LoginName,
		Phone:              phone,
		RealName:           a.RealName,
		RoleLevel:          a.Level,
		LastLoginTime:      a.LastLoginTime,
		LastLogonTime:      a.LastLogonTime,
		LastLoginIP:        a.LastLoginIP,
		LastLogonIP:        a.LastLogonIP,
		LoginTimes:         a.LoginTimes,
		RechargePermission: a.RechargePermission,
		RedeemPermission:   a.RedeemPermission,
		RAgents:            a.RAgents,
		IsTest:             a.IsTest,
		IsAuthorised:       a.IsAuthorised,
		SecretKey:          a.SecretKey,
		ExpiresTime:        a.ExpiresTime,
		Token:              token,
		Role:               a.Role,
	}
}
