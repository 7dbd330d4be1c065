package db

import (
	"fmt"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vael-labs/vael-backend/internal/pkg/logger"
	"github.com/vael-labs/vael-backend/internal/platform/envutil"
)

// NewPostgres opens the application database. DATABASE_URL wins when set,
// otherwise the DSN is assembled from the discrete POSTGRES_* variables.
func NewPostgres(log *logger.Logger) (*gorm.DB, error) {
	dsn := envutil.GetEnv("DATABASE_URL", "", log)
	if dsn == "" {
		host := envutil.GetEnv("POSTGRES_HOST", "localhost", log)
		port := envutil.GetEnv("POSTGRES_PORT", "5432", log)
		user := envutil.GetEnv("POSTGRES_USER", "postgres", log)
		pass := envutil.GetEnv("POSTGRES_PASSWORD", "postgres", log)
		name := envutil.GetEnv("POSTGRES_DB", "vael", log)
		sslmode := envutil.GetEnv("POSTGRES_SSLMODE", "disable", log)
		dsn = fmt.Sprintf("host=%s port=%s user=%s password=%s dbname=%s sslmode=%s",
			host, port, user, pass, name, sslmode)
	}

	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Warn),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		return nil, fmt.Errorf("opening postgres connection: %w", err)
	}

	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		return nil, fmt.Errorf("ensuring uuid-ossp extension: %w", err)
	}

	sqlDB, err := gormDB.DB()
	if err != nil {
		return nil, fmt.Errorf("resolving sql.DB handle: %w", err)
	}
	sqlDB.SetMaxOpenConns(envutil.GetEnvAsInt("POSTGRES_MAX_OPEN_CONNS", 25, log))
	sqlDB.SetMaxIdleConns(envutil.GetEnvAsInt("POSTGRES_MAX_IDLE_CONNS", 5, log))
	sqlDB.SetConnMaxLifetime(time.Duration(envutil.GetEnvAsInt("POSTGRES_CONN_MAX_LIFETIME_MIN", 30, log)) * time.Minute)

	log.Info("Connected to postgres")
	return gormDB, nil
}
