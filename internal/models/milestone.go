package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type MilestoneStatus string

const (
	MilestoneStatusPending   MilestoneStatus = "pending"
	MilestoneStatusCompleted MilestoneStatus = "completed"
)

// Milestone is a sub-deliverable of a proposal, identified by
// (job_id, freelancer_id, sort_order). Completion is one-way and pays out
// exactly once.
type Milestone struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_milestone_identity" json:"job_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_milestone_identity" json:"freelancer_id"`
	SortOrder    int       `gorm:"not null;uniqueIndex:idx_milestone_identity" json:"order"`

	Name     string `gorm:"type:varchar(160);not null" json:"name"`
	Duration int    `gorm:"not null" json:"duration"` // days
	Amount   int64  `gorm:"not null" json:"amount"`

	Status      MilestoneStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	CompletedAt *time.Time      `json:"completed_at,omitempty"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}

func (m *Milestone) BeforeCreate(tx *gorm.DB) (err error) {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
	return
}
