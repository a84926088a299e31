package withdrawals

import (
	"context"
	"encoding/json"
	"errors"
	"strings"
	"time"

	"github.com/google/uuid"
	"gorm.io/datatypes"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
	"github.com/workhive/workhive-backend/internal/services/wallet"
)

// Service converts freelancer balance into payout requests. The balance is
// debited when the request is created, so concurrent requests can never sum
// past the balance.
type Service struct {
	DB       *gorm.DB
	Wallet   *wallet.Service
	Notifier notify.Notifier
}

func NewService(db *gorm.DB, walletSvc *wallet.Service, notifier notify.Notifier) *Service {
	return &Service{DB: db, Wallet: walletSvc, Notifier: notifier}
}

type CreateInput struct {
	Amount          int64  `json:"amount"`
	PaymentMethod   string `json:"payment_method"`
	PaymentUsername string `json:"payment_username"`
}

func (in CreateInput) validate() error {
	errs := models.NewValidationError()
	if in.Amount <= 0 {
		errs.Add("amount", "Amount must be greater than zero")
	}
	if strings.TrimSpace(in.PaymentMethod) == "" {
		errs.Add("payment_method", "Payment method is required")
	}
	if strings.TrimSpace(in.PaymentUsername) == "" {
		errs.Add("payment_username", "Payment username is required")
	}
	return errs.OrNil()
}

// Create debits the balance and inserts the pending withdrawal in one
// transaction. The wallet debit row-locks the profile, which is what makes
// the balance check safe under concurrency.
func (s *Service) Create(ctx context.Context, freelancerID uuid.UUID, in CreateInput) (*models.Withdrawal, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	details, _ := json.Marshal(map[string]string{
		"method":   in.PaymentMethod,
		"username": in.PaymentUsername,
	})

	w := models.Withdrawal{
		FreelancerID:    freelancerID,
		Amount:          in.Amount,
		PaymentMethod:   strings.TrimSpace(in.PaymentMethod),
		PaymentUsername: strings.TrimSpace(in.PaymentUsername),
		PayoutDetails:   datatypes.JSON(details),
		Status:          models.WithdrawalStatusPending,
	}

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.Create(&w).Error; err != nil {
			return err
		}
		desc := "Withdrawal request via " + w.PaymentMethod
		return s.Wallet.Debit(tx, freelancerID, w.Amount, w.ID, desc)
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, notify.Event{
		Type:      notify.EventWithdrawalRequested,
		AccountID: freelancerID,
		Message:   "Your withdrawal request was received and is awaiting review.",
		URL:       "/withdrawals/" + w.ID.String(),
	})

	return &w, nil
}

// Complete marks a pending withdrawal as paid out. No balance change: the
// debit already happened at request time.
func (s *Service) Complete(ctx context.Context, id uuid.UUID) (*models.Withdrawal, error) {
	var w models.Withdrawal
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockWithdrawal(tx, id, &w); err != nil {
			return err
		}
		if w.Status != models.WithdrawalStatusPending {
			return models.ErrInvalidState
		}

		now := time.Now()
		w.Status = models.WithdrawalStatusCompleted
		w.CompletedAt = &now
		return tx.Model(&w).Updates(map[string]interface{}{
			"status":       w.Status,
			"completed_at": now,
		}).Error
	})
	if err != nil {
		return nil, err
	}
	return &w, nil
}

// Delete cancels a pending withdrawal and refunds the amount. Admins may
// delete any pending request, the owner only their own.
func (s *Service) Delete(ctx context.Context, id, callerID uuid.UUID, isAdmin bool) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var w models.Withdrawal
		if err := lockWithdrawal(tx, id, &w); err != nil {
			return err
		}
		if !isAdmin && w.FreelancerID != callerID {
			return models.ErrForbidden
		}
		if w.Status != models.WithdrawalStatusPending {
			return models.ErrInvalidState
		}

		desc := "Refund for cancelled withdrawal via " + w.PaymentMethod
		if err := s.Wallet.Refund(tx, w.FreelancerID, w.Amount, w.ID, desc); err != nil {
			return err
		}
		return tx.Delete(&w).Error
	})
}

// ListForFreelancer returns the freelancer's own withdrawal history.
func (s *Service) ListForFreelancer(ctx context.Context, freelancerID uuid.UUID) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	err := s.DB.WithContext(ctx).
		Where("freelancer_id = ?", freelancerID).
		Order("requested_at DESC").
		Find(&out).Error
	return out, err
}

// ListAll returns every withdrawal, newest first (admin review queue).
func (s *Service) ListAll(ctx context.Context) ([]models.Withdrawal, error) {
	var out []models.Withdrawal
	err := s.DB.WithContext(ctx).
		Order("requested_at DESC").
		Find(&out).Error
	return out, err
}

func lockWithdrawal(tx *gorm.DB, id uuid.UUID, out *models.Withdrawal) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(out, "id = ?", id).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
