package handler

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/EternisAI/agent-portal/internal/agents"
	"github.com/EternisAI/agent-portal/internal/api/http/dto"
	"github.com/EternisAI/agent-portal/internal/api/http/middleware"
	"github.com/gin-gonic/gin"
)

type BalanceHandler struct {
	agentService *agents.Service
}

func NewBalanceHandler(agentService *agents.Service) *BalanceHandler {
	return &BalanceHandler{agentService: agentService}
}

// GetBalance returns the authenticated agent's balance
// POST /api/agent/balance
func (h *BalanceHandler) GetBalance(c *gin.Context) {
	agentID, ok := middleware.AgentID(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	balance, err := h.agentService.GetBalance(c.Request.Context(), agentID)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Agent not found"})
			return
		}
		slog.Error("Error fetching balance", "error", err, "agent_id", agentID)
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.BalanceResponse{Balance: balance})
}

// UpdateBalance overwrites the authenticated agent's balance
// PUT /api/agents/balance
func (h *BalanceHandler) UpdateBalance(c *gin.Context) {
	agentID, ok := middleware.AgentID(c)
	if !ok {
		c.Status(http.StatusUnauthorized)
		return
	}

	var req dto.UpdateBalanceRequest
	if err := c.ShouldBindJSON(&req); err != nil {
		c.JSON(http.StatusBadRequest, dto.MessageResponse{Message: err.Error()})
		return
	}

	balance, err := h.agentService.UpdateBalance(c.Request.Context(), agentID, *req.Balance)
	if err != nil {
		if errors.Is(err, agents.ErrAgentNotFound) {
			c.JSON(http.StatusNotFound, dto.MessageResponse{Message: "Agent not found"})
			return
		}
		slog.Error("Error updating balance", "error", err, "agent_id", agentID)
		c.JSON(http.StatusInternalServerError, dto.MessageResponse{Message: err.Error()})
		return
	}

	c.JSON(http.StatusOK, dto.UpdateBalanceResponse{
		Message: "Balance updated successfully",
		Balance: balance,
	})
}
