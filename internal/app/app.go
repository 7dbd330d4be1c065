package app

import (
	"github.com/gin-gonic/gin"
	"gorm.io/gorm"

	"github.com/vael-labs/vael-backend/internal/data/db"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

// App owns the fully wired application graph.
type App struct {
	Config Config
	DB     *gorm.DB
	Router *gin.Engine

	repos      repoSet
	svcs       serviceSet
	handlerSet handlerSet
	log        *logger.Logger
}

func New(log *logger.Logger) (*App, error) {
	cfg, err := LoadConfig(log)
	if err != nil {
		return nil, err
	}

	gormDB, err := db.NewPostgres(log)
	if err != nil {
		return nil, err
	}
	if err := db.AutoMigrateAll(gormDB); err != nil {
		return nil, err
	}

	a := &App{Config: cfg, DB: gormDB, log: log}
	a.wireRepos()
	if err := a.wireServices(); err != nil {
		return nil, err
	}
	a.wireHandlers()
	a.wireRouter()
	return a, nil
}
