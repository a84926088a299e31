package models

import (
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

// Payment is the immutable escrow-release record, one per completed
// milestone. The unique index on the milestone identity is the last line of
// defense against double payment.
type Payment struct {
	ID             uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID          uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payment_milestone" json:"job_id"`
	FreelancerID   uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_payment_milestone;index" json:"freelancer_id"`
	MilestoneOrder int       `gorm:"not null;uniqueIndex:idx_payment_milestone" json:"milestone_order"`

	Amount int64 `gorm:"not null" json:"amount"`

	CreatedAt time.Time `json:"created_at"`
}

func (p *Payment) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
