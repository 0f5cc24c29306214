package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/api/http/dto"
	"github.com/gin-gonic/gin"
)

type AgentHandler struct {
	agentService *agents.Service
}

func NewAgentHandler(agentService *agents.Service) *AgentHandler {
	return &AgentHandler{agentService: agentService}
}

// Register creates an agent
// POST /api/agents/register
func (h *AgentHandler) Register(c *gin.Context) {
	var req dto.RegisterRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}

	id, err := h.agentService.Register(c.Request.Context(), agents.RegisterInput{
		LoginName: req.LoginName,
		Password:  req.Password,
		AgentName: req.AgentName,
		Phone:     string(req.Phone),
		RealName:  req.RealName,
		Level:     req.Level,
		Balance:   req.Balance,
	})
	if err != nil {
		if errors.Is(err, agents.ErrLoginNameExists) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: "Login name already exists."})
			return
		}
		if errors.Is(err, agents.ErrPasswordRequired) {
			c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
			return
		}
		slog.Error("Error registering agent", "error", err, "login_name", req.LoginName)
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusCreated, dto.RegisterResponse{
		Message: "Agent registered successfully",
		ID:      id,
	})
}
