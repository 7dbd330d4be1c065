package server

import (
	"github.com/gin-gonic/gin"

	"github.com/vael-labs/vael-backend/internal/http/handlers"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

type Handlers struct {
	Auth   *handlers.AuthHandler
	Sync   *handlers.SyncHandler
	Chat   *handlers.ChatHandler
	Health *handlers.HealthHandler
}

type Middleware struct {
	CORS        gin.HandlerFunc
	RequestLog  gin.HandlerFunc
	RequireAuth gin.HandlerFunc
}

// NewRouter builds the gin engine. Registration, login, sync, and chat are
// public; session management requires a valid access token.
func NewRouter(h Handlers, mw Middleware, log *logger.Logger) *gin.Engine {
	r := gin.New()
	r.Use(gin.Recovery())
	r.Use(mw.CORS)
	r.Use(mw.RequestLog)

	r.GET("/health", h.Health.Health)
	r.POST("/auth/register", h.Auth.Register)
	r.POST("/auth/login", h.Auth.Login)
	r.POST("/sync", h.Sync.Sync)
	r.POST("/api/chat", h.Chat.Chat)

	protected := r.Group("/")
	protected.Use(mw.RequireAuth)
	{
		protected.POST("/auth/refresh", h.Auth.Refresh)
		protected.POST("/auth/logout", h.Auth.Logout)
	}

	return r
}
