package app

import (
	"fmt"
	"time"

	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/platform/envutil"
)

type Config struct {
	Port       string
	JWTSecret  string
	AccessTTL  time.Duration
	RefreshTTL time.Duration
}

func LoadConfig(log *logger.Logger) (Config, error) {
	secret := envutil.GetEnv("JWT_SECRET_KEY", "", log)
	if secret == "" {
		return Config{}, fmt.Errorf("JWT_SECRET_KEY is required")
	}
	return Config{
		Port:       envutil.GetEnv("PORT", "8000", log),
		JWTSecret:  secret,
		AccessTTL:  time.Duration(envutil.GetEnvAsInt("ACCESS_TOKEN_TTL", 3600, log)) * time.Second,
		RefreshTTL: time.Duration(envutil.GetEnvAsInt("REFRESH_TOKEN_TTL", 86400, log)) * time.Second,
	}, nil
}
