package models

import (
	"time"

	"github.com/google/uuid"
)

type WalletTrxType string

const (
	WalletTrxCredit WalletTrxType = "credit" // milestone payout
	WalletTrxDebit  WalletTrxType = "debit"  // withdrawal request
	WalletTrxRefund WalletTrxType = "refund" // deleted withdrawal
)

// WalletTransaction is the append-only ledger backing the balance column.
// Every balance mutation writes one of these in the same transaction.
type WalletTransaction struct {
	ID           uuid.UUID     `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	FreelancerID uuid.UUID     `gorm:"type:uuid;index;not null" json:"freelancer_id"`
	Amount       int64         `gorm:"not null" json:"amount"`
	Type         WalletTrxType `gorm:"type:varchar(20);not null" json:"type"`
	Description  string        `gorm:"type:text" json:"description"`
	ReferenceID  *uuid.UUID    `gorm:"type:uuid;index" json:"reference_id,omitempty"` // payment or withdrawal id
	CreatedAt    time.Time     `json:"created_at"`
}
