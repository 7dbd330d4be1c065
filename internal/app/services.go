package app

import (
	"github.com/vael-labs/vael-backend/internal/platform/openai"
	"github.com/vael-labs/vael-backend/internal/services"
)

type serviceSet struct {
	auth      *services.AuthService
	embedding *services.EmbeddingService
	sync      *services.SyncService
	coach     *services.CoachService
}

func (a *App) wireServices() error {
	openaiCfg, err := openai.LoadConfig(a.log)
	if err != nil {
		return err
	}
	chatClient := openai.NewClient(openaiCfg, a.log)

	embedding := services.NewEmbeddingService(func() (openai.Client, error) {
		return openai.NewClient(openaiCfg, a.log), nil
	}, a.log)

	a.svcs = serviceSet{
		auth: services.NewAuthService(a.DB, a.repos.users, a.repos.tokens, services.AuthConfig{
			JWTSecret:  a.Config.JWTSecret,
			AccessTTL:  a.Config.AccessTTL,
			RefreshTTL: a.Config.RefreshTTL,
		}, a.log),
		embedding: embedding,
		sync:      services.NewSyncService(a.DB, a.repos.workouts, embedding, a.log),
		coach:     services.NewCoachService(a.repos.workouts, embedding, chatClient, a.log),
	}
	return nil
}
