package wallet

import (
	"errors"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-backend/internal/models"
)

// Service is the only writer of freelancer_profiles.balance. Every method
// takes the caller's open transaction and pairs the balance change with an
// append-only ledger row.
type Service struct {
	DB *gorm.DB
}

func NewService(db *gorm.DB) *Service {
	return &Service{DB: db}
}

// Credit adds milestone earnings to the freelancer's balance.
func (s *Service) Credit(tx *gorm.DB, freelancerID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to credit must be greater than zero")
	}

	result := tx.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return s.writeLedger(tx, freelancerID, amount, models.WalletTrxCredit, referenceID, description)
}

// Debit removes funds for a withdrawal request. The profile row is locked
// FOR UPDATE so concurrent requests can't both pass the balance check.
func (s *Service) Debit(tx *gorm.DB, freelancerID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to debit must be greater than zero")
	}

	var profile models.FreelancerProfile
	if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(&profile, "user_id = ?", freelancerID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return models.ErrNotFound
		}
		return err
	}

	if profile.Balance < amount {
		return models.ErrInsufficientBalance
	}

	result := tx.Model(&models.FreelancerProfile{}).
		Where("user_id = ? AND balance >= ?", freelancerID, amount).
		Update("balance", gorm.Expr("balance - ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrInsufficientBalance
	}

	return s.writeLedger(tx, freelancerID, amount, models.WalletTrxDebit, referenceID, description)
}

// Refund returns a deleted withdrawal's amount to the balance.
func (s *Service) Refund(tx *gorm.DB, freelancerID uuid.UUID, amount int64, referenceID uuid.UUID, description string) error {
	if amount <= 0 {
		return errors.New("amount to refund must be greater than zero")
	}

	result := tx.Model(&models.FreelancerProfile{}).
		Where("user_id = ?", freelancerID).
		Update("balance", gorm.Expr("balance + ?", amount))

	if result.Error != nil {
		return result.Error
	}
	if result.RowsAffected == 0 {
		return models.ErrNotFound
	}

	return s.writeLedger(tx, freelancerID, amount, models.WalletTrxRefund, referenceID, description)
}

func (s *Service) writeLedger(tx *gorm.DB, freelancerID uuid.UUID, amount int64, trxType models.WalletTrxType, referenceID uuid.UUID, description string) error {
	ledger := models.WalletTransaction{
		ID:           uuid.New(),
		FreelancerID: freelancerID,
		Amount:       amount,
		Type:         trxType,
		Description:  description,
		ReferenceID:  &referenceID,
	}
	return tx.Create(&ledger).Error
}
