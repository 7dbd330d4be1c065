package workout

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
)

// Workout is a client-authored training log. IDs are assigned by the client
// so the same row can be uploaded from multiple devices; CreatedAt is the
// client edit timestamp and decides which copy wins on conflict.
type Workout struct {
	ID           uuid.UUID      `gorm:"type:uuid;primaryKey" json:"id"`
	UserID       uuid.UUID      `gorm:"type:uuid;index;not null" json:"user_id"`
	Name         string         `gorm:"not null" json:"name"`
	Status       string         `gorm:"not null" json:"status"`
	StartTime    time.Time      `gorm:"not null" json:"start_time"`
	EndTime      *time.Time     `json:"end_time,omitempty"`
	VolumeKG     *float64       `gorm:"column:volume_kg" json:"volume_kg,omitempty"`
	CreatedAt    time.Time      `gorm:"not null" json:"created_at"`
	LastModified time.Time      `gorm:"not null" json:"last_modified"`
	Embedding    datatypes.JSON `gorm:"type:jsonb" json:"-"`
	UpdatedAt    time.Time      `json:"-"`
}

func (Workout) TableName() string { return "workout" }
