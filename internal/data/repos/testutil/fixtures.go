package testutil

import (
	"encoding/json"
	"fmt"
	"testing"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	"github.com/vael-labs/vael-backend/internal/domain/user"
	"github.com/vael-labs/vael-backend/internal/domain/workout"
)

func SeedUser(t *testing.T, tx *gorm.DB, email string) *user.User {
	t.Helper()
	u := &user.User{
		Email:    email,
		Password: "$2a$10$testonlyhashnotvalidxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxxx",
	}
	if err := tx.Create(u).Error; err != nil {
		t.Fatalf("seeding user %s: %v", email, err)
	}
	return u
}

func SeedWorkout(t *testing.T, tx *gorm.DB, userID uuid.UUID, name string, createdAt time.Time, embedding []float32) *workout.Workout {
	t.Helper()
	w := &workout.Workout{
		ID:           uuid.New(),
		UserID:       userID,
		Name:         name,
		Status:       "completed",
		StartTime:    createdAt.Add(-time.Hour),
		CreatedAt:    createdAt,
		LastModified: createdAt,
		Embedding:    EmbeddingJSON(t, embedding),
	}
	if err := tx.Create(w).Error; err != nil {
		t.Fatalf("seeding workout %s: %v", name, err)
	}
	return w
}

func EmbeddingJSON(t *testing.T, vec []float32) datatypes.JSON {
	t.Helper()
	if vec == nil {
		return nil
	}
	raw, err := json.Marshal(vec)
	if err != nil {
		t.Fatalf("marshaling embedding fixture: %v", err)
	}
	return datatypes.JSON(raw)
}

func UniqueEmail(prefix string) string {
	return fmt.Sprintf("%s-%s@example.test", prefix, uuid.NewString()[:8])
}
