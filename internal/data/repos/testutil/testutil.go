package testutil

import (
	"os"
	"testing"
	"time"

	"gorm.io/driver/postgres"
	"gorm.io/gorm"
	gormlogger "gorm.io/gorm/logger"

	"github.com/vael-labs/vael-backend/internal/data/db"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

// DB opens the database named by TEST_POSTGRES_DSN and runs migrations.
// Tests that need postgres are skipped when the variable is unset.
func DB(t *testing.T) *gorm.DB {
	t.Helper()
	dsn := os.Getenv("TEST_POSTGRES_DSN")
	if dsn == "" {
		t.Skip("TEST_POSTGRES_DSN not set; skipping database test")
	}
	gormDB, err := gorm.Open(postgres.Open(dsn), &gorm.Config{
		Logger: gormlogger.Default.LogMode(gormlogger.Silent),
		NowFunc: func() time.Time {
			return time.Now().UTC()
		},
	})
	if err != nil {
		t.Fatalf("opening test database: %v", err)
	}
	if err := gormDB.Exec(`CREATE EXTENSION IF NOT EXISTS "uuid-ossp"`).Error; err != nil {
		t.Fatalf("ensuring uuid-ossp extension: %v", err)
	}
	if err := db.AutoMigrateAll(gormDB); err != nil {
		t.Fatalf("migrating test database: %v", err)
	}
	return gormDB
}

// Tx returns a transaction that is rolled back on cleanup so tests leave
// no rows behind.
func Tx(t *testing.T, gormDB *gorm.DB) *gorm.DB {
	t.Helper()
	tx := gormDB.Begin()
	if tx.Error != nil {
		t.Fatalf("beginning test transaction: %v", tx.Error)
	}
	t.Cleanup(func() {
		tx.Rollback()
	})
	return tx
}

func Logger(t *testing.T) *logger.Logger {
	t.Helper()
	log, err := logger.New("dev")
	if err != nil {
		t.Fatalf("building test logger: %v", err)
	}
	t.Cleanup(log.Sync)
	return log
}
