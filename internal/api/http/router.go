package http

import (
	"path/filepath"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/api/http/handler"
	"github.com/EternisAI/agent-portal/internal/api/http/middleware"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-gonic/gin"
)

type Services struct {
	AgentService *agents.Service
	AuthService  *auth.Service
	Sessions     *session.Manager
	Captcha      *captcha.Generator
	JWTSecret    string
	PublicDir    string
	Ping         handler.PingFunc
}

var staticDirs = []string{"css", "js", "img", "fonts"}

func SetupRoute(engine *gin.Engine, srvs *Services) {
	engine.Use(middleware.RequestLogger())

	healthHandler := handler.NewHealthHandler(srvs.Ping)
	engine.GET("/health", healthHandler.Check)

	if srvs.PublicDir != "" {
		for _, dir := range staticDirs {
			engine.Static("/static/"+dir, filepath.Join(srvs.PublicDir, "static", dir))
		}
		pageHandler := handler.NewPageHandler(srvs.PublicDir)
		engine.GET("/", pageHandler.Login)
		engine.GET("/login", pageHandler.Login)
		engine.GET("/HomeDetail", pageHandler.HomeDetail)
	}

	agentHandler := handler.NewAgentHandler(srvs.AgentService)
	balanceHandler := handler.NewBalanceHandler(srvs.AgentService)
	captchaHandler := handler.NewCaptchaHandler(srvs.Captcha, srvs.Sessions)
	authHandler := handler.NewAuthHandler(srvs.AuthService, srvs.Sessions)

	withSession := middleware.Sessions(srvs.Sessions)
	requireToken := middleware.JWTAuth(srvs.JWTSecret)

	engine.POST("/api/agents/register", agentHandler.Register)
	engine.PUT("/api/agents/balance", requireToken, balanceHandler.UpdateBalance)

	engine.GET("/api/agent/captcha", withSession, captchaHandler.Issue)
	engine.POST("/api/agent/agentLogin", withSession, authHandler.Login)
	engine.POST("/api/agent/balance", requireToken, balanceHandler.GetBalance)
}
