package workout

import (
	"context"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/vael-labs/vael-backend/internal/domain/workout"
	"github.com/vael-labs/vael-backend/internal/pkg/logger"
)

const (
	UpsertApplied = "applied"
	UpsertSkipped = "skipped"
	UpsertFailed  = "failed"
)

// UpsertOutcome reports what happened to a single record during a batch
// upsert. Skipped means a newer copy of the row was already stored.
type UpsertOutcome struct {
	WorkoutID uuid.UUID
	Status    string
	Err       error
}

type Repo interface {
	UpsertBatch(ctx context.Context, tx *gorm.DB, workouts []*workout.Workout) []UpsertOutcome
	ListEmbedded(ctx context.Context, tx *gorm.DB, limit int) ([]*workout.Workout, error)
	GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*workout.Workout, error)
}

type repo struct {
	db  *gorm.DB
	log *logger.Logger
}

func NewRepo(db *gorm.DB, log *logger.Logger) Repo {
	return &repo{db: db, log: log}
}

func (r *repo) conn(tx *gorm.DB) *gorm.DB {
	if tx != nil {
		return tx
	}
	return r.db
}

var upsertColumns = []string{
	"user_id",
	"name",
	"status",
	"start_time",
	"end_time",
	"volume_kg",
	"created_at",
	"last_modified",
	"embedding",
	"updated_at",
}

// UpsertBatch writes each record with last-write-wins semantics: an existing
// row is only replaced when the incoming created_at is strictly newer. One
// record failing does not stop the rest of the batch.
func (r *repo) UpsertBatch(ctx context.Context, tx *gorm.DB, workouts []*workout.Workout) []UpsertOutcome {
	outcomes := make([]UpsertOutcome, 0, len(workouts))
	for _, w := range workouts {
		res := r.conn(tx).WithContext(ctx).Clauses(clause.OnConflict{
			Columns:   []clause.Column{{Name: "id"}},
			DoUpdates: clause.AssignmentColumns(upsertColumns),
			Where: clause.Where{
				Exprs: []clause.Expression{
					gorm.Expr("workout.created_at < excluded.created_at"),
				},
			},
		}).Create(w)
		if res.Error != nil {
			r.log.Error("Failed to upsert workout", "workout_id", w.ID, "error", res.Error)
			outcomes = append(outcomes, UpsertOutcome{WorkoutID: w.ID, Status: UpsertFailed, Err: res.Error})
			continue
		}
		status := UpsertApplied
		if res.RowsAffected == 0 {
			status = UpsertSkipped
		}
		outcomes = append(outcomes, UpsertOutcome{WorkoutID: w.ID, Status: status})
	}
	return outcomes
}

// ListEmbedded returns the most recently created workouts that carry a
// usable embedding vector, newest first.
func (r *repo) ListEmbedded(ctx context.Context, tx *gorm.DB, limit int) ([]*workout.Workout, error) {
	if limit <= 0 {
		limit = 256
	}
	var workouts []*workout.Workout
	err := r.conn(tx).WithContext(ctx).
		Where("embedding IS NOT NULL AND embedding <> 'null'::jsonb AND embedding <> '[]'::jsonb").
		Order("created_at DESC").
		Limit(limit).
		Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}

func (r *repo) GetByIDs(ctx context.Context, tx *gorm.DB, ids []string) ([]*workout.Workout, error) {
	var workouts []*workout.Workout
	if len(ids) == 0 {
		return workouts, nil
	}
	err := r.conn(tx).WithContext(ctx).Where("id IN ?", ids).Find(&workouts).Error
	if err != nil {
		return nil, err
	}
	return workouts, nil
}
