package middleware

import (
	"log/slog"
	"net/http"
	"strings"

	"github.com/EternisAI/agent-portal/internal/auth"
	"github.com/gin-gonic/gin"
)

const AgentIDKey = "agent_id"

// JWTAuth gates a route on a bearer token. A missing token is 401; a token
// that fails signature or expiry checks is 403.
func JWTAuth(secret string) gin.HandlerFunc {
	return func(c *gin.Context) {
		token := bearerToken(c.GetHeader("Authorization"))
		if token == "" {
			c.AbortWithStatus(http.StatusUnauthorized)
			return
		}

		claims, err := auth.ValidateToken(secret, token)
		if err != nil {
			slog.Debug("Rejected bearer token", "error", err, "client_ip", c.ClientIP())
			c.AbortWithStatus(http.StatusForbidden)
			return
		}

		c.Set(AgentIDKey, claims.AgentID)
		c.Next()
	}
}

// AgentID returns the identity attached by JWTAuth.
func AgentID(c *gin.Context) (int64, bool) {
	v, ok := c.Get(AgentIDKey)
	if !ok {
		return 0, false
	}
	id, ok := v.(int64)
	return id, ok
}

func bearerToken(header string) string {
	scheme, token, found := strings.Cut(strings.TrimSpace(header), " ")
	if !found || !strings.EqualFold(scheme, "Bearer") {
		return ""
	}
	return strings.TrimSpace(token)
}
