package middleware

import (
	"net/http"
	"strings"

	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/response"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/services"
)

// RequireAuth validates the bearer token and stores the caller identity on
// the request context for downstream handlers.
func RequireAuth(auth *services.AuthService, log *logger.Logger) gin.HandlerFunc {
	return func(c *gin.Context) {
		tokenString := extractToken(c)
		if tokenString == "" {
			response.RespondError(c, http.StatusUnauthorized, "Missing access token", "unauthorized")
			return
		}
		ctx, err := auth.SetContextFromToken(c.Request.Context(), tokenString)
		if err != nil {
			response.RespondError(c, http.StatusUnauthorized, "Invalid access token", "unauthorized")
			return
		}
		c.Request = c.Request.WithContext(ctx)
		c.Next()
	}
}

func extractToken(c *gin.Context) string {
	if h := c.GetHeader("Authorization"); h != "" {
		parts := strings.SplitN(h, " ", 2)
		if len(parts) == 2 && strings.EqualFold(parts[0], "Bearer") {
			return strings.TrimSpace(parts[1])
		}
	}
	return strings.TrimSpace(c.Query("token"))
}
