package app

import (
	"github.com/vael-labs/vael-backend/internal/http/middleware"
	"github.com/vael-labs/vael-backend/internal/server"
)

func (a *App) wireRouter() {
	a.Router = server.NewRouter(
		server.Handlers{
			Auth:   a.handlerSet.auth,
			Sync:   a.handlerSet.sync,
			Chat:   a.handlerSet.chat,
			Health: a.handlerSet.health,
		},
		server.Middleware{
			CORS:        middleware.CORS(),
			RequestLog:  middleware.RequestLogger(a.log),
			RequireAuth: middleware.RequireAuth(a.svcs.auth, a.log),
		},
		a.log,
	)
}
