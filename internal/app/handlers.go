package app

import (
	"github.com/vael-labs/vael-backend/internal/http/handlers"
)

type handlerSet struct {
	auth   *handlers.AuthHandler
	sync   *handlers.SyncHandler
	chat   *handlers.ChatHandler
	health *handlers.HealthHandler
}

func (a *App) wireHandlers() {
	a.handlerSet = handlerSet{
		auth:   handlers.NewAuthHandler(a.svcs.auth, a.log),
		sync:   handlers.NewSyncHandler(a.svcs.sync, a.log),
		chat:   handlers.NewChatHandler(a.svcs.coach, a.log),
		health: handlers.NewHealthHandler(),
	}
}
