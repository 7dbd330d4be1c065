package services

import (
	"context"
	"encoding/json"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"

	workoutrepo "github.com/vael-labs/vael-backend/internal/data/repos/workout"
	workoutdomain "github.com/vael-labs/vael-backend/internal/domain/workout"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

// WorkoutUpload is one client record in a bulk sync payload. Timestamps are
// client clocks; CreatedAt arbitrates conflicts between devices.
type WorkoutUpload struct {
	ID           uuid.UUID  `json:"id" binding:"required"`
	UserID       uuid.UUID  `json:"user_id" binding:"required"`
	Name         string     `json:"name" binding:"required"`
	StartTime    time.Time  `json:"start_time" binding:"required"`
	EndTime      *time.Time `json:"end_time"`
	Status       string     `json:"status" binding:"required"`
	VolumeKG     *float64   `json:"volume_kg"`
	CreatedAt    time.Time  `json:"created_at" binding:"required"`
	LastModified time.Time  `json:"last_modified" binding:"required"`
}

// SyncResult aggregates per-record outcomes of one sync batch.
type SyncResult struct {
	Applied int
	Skipped int
	Failed  int
}

type SyncService struct {
	db       *gorm.DB
	workouts workoutrepo.Repo
	embedder Embedder
	log      *logger.Logger
}

func NewSyncService(db *gorm.DB, workouts workoutrepo.Repo, embedder Embedder, log *logger.Logger) *SyncService {
	return &SyncService{db: db, workouts: workouts, embedder: embedder, log: log}
}

// SummarizeWorkout renders the canonical text indexed for retrieval.
func SummarizeWorkout(u *WorkoutUpload) string {
	vol := 0.0
	if u.VolumeKG != nil {
		vol = *u.VolumeKG
	}
	return fmt.Sprintf("Workout: %s. Status: %s. Volume: %vkg. Date: %s",
		u.Name, u.Status, vol, u.StartTime.Format(time.RFC3339))
}

// SyncWorkouts embeds each upload, then applies the whole batch inside one
// transaction. A failed embedding downgrades the record to unembedded
// instead of rejecting it; only a commit failure fails the batch.
func (s *SyncService) SyncWorkouts(ctx context.Context, uploads []*WorkoutUpload) (SyncResult, error) {
	records := make([]*workoutdomain.Workout, 0, len(uploads))
	for _, u := range uploads {
		var embedding datatypes.JSON
		vec, err := s.embedder.Embed(ctx, SummarizeWorkout(u))
		if err != nil {
			s.log.Warn("Embedding failed for workout, storing without vector", "workout_id", u.ID, "error", err)
		} else if raw, merr := json.Marshal(vec); merr != nil {
			s.log.Warn("Could not encode embedding, storing without vector", "workout_id", u.ID, "error", merr)
		} else {
			embedding = datatypes.JSON(raw)
		}
		records = append(records, &workoutdomain.Workout{
			ID:           u.ID,
			UserID:       u.UserID,
			Name:         u.Name,
			Status:       u.Status,
			StartTime:    u.StartTime,
			EndTime:      u.EndTime,
			VolumeKG:     u.VolumeKG,
			CreatedAt:    u.CreatedAt,
			LastModified: u.LastModified,
			Embedding:    embedding,
		})
	}

	var result SyncResult
	err := s.db.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		outcomes := s.workouts.UpsertBatch(ctx, tx, records)
		for _, o := range outcomes {
			switch o.Status {
			case workoutrepo.UpsertApplied:
				result.Applied++
			case workoutrepo.UpsertSkipped:
				result.Skipped++
			default:
				result.Failed++
			}
		}
		return nil
	})
	if err != nil {
		return SyncResult{}, fmt.Errorf("committing workout sync batch: %w", err)
	}
	return result, nil
}
