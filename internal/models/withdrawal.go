package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
)

type WithdrawalStatus string

const (
	WithdrawalStatusPending   WithdrawalStatus = "pending"
	WithdrawalStatusCompleted WithdrawalStatus = "completed"
)

func ParseWithdrawalStatus(s string) (WithdrawalStatus, error) {
	switch WithdrawalStatus(s) {
	case WithdrawalStatusPending, WithdrawalStatusCompleted:
		return WithdrawalStatus(s), nil
	}
	return "", fmt.Errorf("unknown withdrawal status %q", s)
}

// Withdrawal converts freelancer balance into an external payout. The
// balance is debited when the request is created, and refunded if a pending
// request is deleted.
type Withdrawal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;index;not null" json:"freelancer_id"`

	Amount          int64          `gorm:"not null" json:"amount"`
	PaymentMethod   string         `gorm:"type:varchar(50);not null" json:"payment_method"`
	PaymentUsername string         `gorm:"type:varchar(120);not null" json:"payment_username"`
	PayoutDetails   datatypes.JSON `json:"payout_details,omitempty"` // method snapshot at request time

	Status      WithdrawalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`
	RequestedAt time.Time        `gorm:"autoCreateTime" json:"requested_at"`
	CompletedAt *time.Time       `json:"completed_at,omitempty"`

	UpdatedAt time.Time `json:"updated_at"`

	Freelancer *User `gorm:"foreignKey:FreelancerID" json:"-"`
}

func (w *Withdrawal) BeforeCreate(tx *gorm.DB) (err error) {
	if w.ID == uuid.Nil {
		w.ID = uuid.New()
	}
	return
}
