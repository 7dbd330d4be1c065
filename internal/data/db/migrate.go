package db

import (
	"fmt"

	"gorm.io/gorm"

	"github.com/vael-labs/vael-backend/internal/domain/auth"
	"github.com/vael-labs/vael-backend/internal/domain/user"
	"github.com/vael-labs/vael-backend/internal/domain/workout"
)

func AutoMigrateAll(gormDB *gorm.DB) error {
	if err := gormDB.AutoMigrate(
		&user.User{},
		&auth.UserToken{},
		&workout.Workout{},
	); err != nil {
		return fmt.Errorf("running auto migrations: %w", err)
	}
	return nil
}
