package main

import (
	"context"
	"fmt"
	"log/slog"
	"net/http"
	"os"
	"os/signal"
	"syscall"
	"time"

	"github.com/EternisAI/agent-portal/internal/agents"
	internalhttp "github.com/EternisAI/agent-portal/internal/api/http"
	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/EternisAI/agent-portal/internal/captcha"
	"github.com/EternisAI/agent-portal/internal/session"
	"github.com/gin-contrib/cors"
	"github.com/gin-gonic/gin"
)

var AppVersion string

func main() {
	InitConfig()

	slog.Info("Agent Portal", "version", AppVersion, "driver", config.Database.Driver)

	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	connectCtx, connectCancel := context.WithTimeout(ctx, 30*time.Second)
	store, err := openStorage(connectCtx, config.Database)
	connectCancel()
	if err != nil {
		slog.Error("Failed to open storage", "error", err)
		os.Exit(1)
	}

	sessions := session.NewManager(store.sessions, config.Session)
	if store.cleanup != nil {
		go store.cleanup(ctx, sessions.Config().CleanupInterval)
	}

	services := &internalhttp.Services{
		AgentService: agents.NewService(store.agents),
		AuthService:  auth.NewService(store.agents, config.Auth),
		Sessions:     sessions,
		Captcha:      captcha.NewGenerator(config.Captcha),
		JWTSecret:    config.Auth.Secret,
		PublicDir:    config.Http.PublicDir,
		Ping:         store.ping,
	}

	gin.SetMode(gin.ReleaseMode)
	engine := gin.New()
	engine.Use(cors.New(cors.Config{
		AllowOrigins:     []string{config.Http.ClientOrigin},
		AllowMethods:     []string{"PUT", "GET", "POST", "OPTIONS"},
		AllowHeaders:     []string{"Origin", "Content-Length", "Content-Type", "Authorization"},
		ExposeHeaders:    []string{"Content-Length"},
		AllowCredentials: true,
		MaxAge:           12 * time.Hour,
	}))
	engine.Use(gin.Recovery())
	internalhttp.SetupRoute(engine, services)

	httpServer := &http.Server{
		Addr:              fmt.Sprintf(":%d", config.Http.Port),
		Handler:           engine,
		ReadHeaderTimeout: 10 * time.Second,
	}

	errChan := make(chan error, 1)
	go func() {
		slog.Info("Starting HTTP server", "address", httpServer.Addr)
		if err := httpServer.ListenAndServe(); err != nil && err != http.ErrServerClosed {
			errChan <- fmt.Errorf("HTTP server error: %w", err)
		}
	}()

	sigChan := make(chan os.Signal, 1)
	signal.Notify(sigChan, os.Interrupt, syscall.SIGTERM)

	select {
	case err := <-errChan:
		slog.Error("Server error", "error", err)
	case sig := <-sigChan:
		slog.Info("Received shutdown signal", "signal", sig)
	}

	slog.Info("Shutting down server...")
	cancel()

	shutdownCtx, shutdownCancel := context.WithTimeout(context.Background(), 10*time.Second)
	defer shutdownCancel()
	if err := httpServer.Shutdown(shutdownCtx); err != nil {
		slog.Error("HTTP server shutdown error", "error", err)
	} else {
		slog.Info("HTTP server stopped")
	}
	store.close(shutdownCtx)

	slog.Info("Shutdown complete")
}
