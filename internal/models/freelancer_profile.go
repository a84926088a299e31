package models

import (
	"time"

	"github.com/google/uuid"
)

// FreelancerProfile holds the freelancer's spendable balance. The balance
// column is only ever touched by the wallet service, inside a transaction
// that also writes the matching ledger row.
type FreelancerProfile struct {
	ID     uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	UserID uuid.UUID `gorm:"type:uuid;uniqueIndex;not null" json:"user_id"`

	Balance int64 `gorm:"not null;default:0" json:"balance"`

	Headline string `gorm:"type:varchar(120)" json:"headline"`
	About    string `gorm:"type:text" json:"about"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`
}
