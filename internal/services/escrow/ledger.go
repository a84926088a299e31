package escrow

import (
	"context"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-backend/internal/gateway"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
	"github.com/workhive/workhive-backend/internal/services/jobs"
	"github.com/workhive/workhive-backend/internal/services/wallet"
)

// Ledger applies milestone completions: one authorization, one payment row,
// one balance credit, all in a single transaction serialized on the job row.
type Ledger struct {
	DB       *gorm.DB
	Gateway  gateway.Gateway
	Wallet   *wallet.Service
	Notifier notify.Notifier
}

func NewLedger(db *gorm.DB, gw gateway.Gateway, walletSvc *wallet.Service, notifier notify.Notifier) *Ledger {
	return &Ledger{DB: db, Gateway: gw, Wallet: walletSvc, Notifier: notifier}
}

// CompleteMilestone is the client's "pay for this milestone" action.
// Replays hit the completed status under the lock and fail with
// ErrAlreadyCompleted before any money moves.
func (l *Ledger) CompleteMilestone(ctx context.Context, jobID, freelancerID uuid.UUID, order int, clientID uuid.UUID, instrument gateway.Instrument) (*models.Payment, error) {
	if errs := instrument.Validate(); errs.HasErrors() {
		return nil, errs
	}

	var payment models.Payment
	var events []notify.Event

	err := l.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
			First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if job.ClientID != clientID {
			return models.ErrForbidden
		}
		if job.Status != models.JobStatusInProgress {
			return models.ErrInvalidState
		}

		var milestone models.Milestone
		if err := tx.Where("job_id = ? AND freelancer_id = ? AND sort_order = ?", jobID, freelancerID, order).
			First(&milestone).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if milestone.Status == models.MilestoneStatusCompleted {
			return models.ErrAlreadyCompleted
		}

		var accepted models.Proposal
		if err := tx.Where("job_id = ? AND freelancer_id = ? AND status = ?",
			jobID, freelancerID, models.ProposalStatusAccepted).First(&accepted).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrInvalidState
			}
			return err
		}

		approved, err := l.Gateway.Authorize(ctx, instrument, milestone.Amount)
		if err != nil {
			return err
		}
		if !approved {
			return models.ErrPaymentDeclined
		}

		now := time.Now()
		if err := tx.Model(&milestone).Updates(map[string]interface{}{
			"status":       models.MilestoneStatusCompleted,
			"completed_at": now,
		}).Error; err != nil {
			return err
		}

		payment = models.Payment{
			JobID:          jobID,
			FreelancerID:   freelancerID,
			MilestoneOrder: order,
			Amount:         milestone.Amount,
		}
		if err := tx.Create(&payment).Error; err != nil {
			return err
		}

		desc := fmt.Sprintf("Milestone %d payout for job %s", order, job.Title)
		if err := l.Wallet.Credit(tx, freelancerID, milestone.Amount, payment.ID, desc); err != nil {
			return err
		}

		events = append(events, notify.Event{
			Type:      notify.EventMilestoneCompleted,
			AccountID: freelancerID,
			Message:   fmt.Sprintf("Milestone %d of \"%s\" was completed and paid.", order, job.Title),
			URL:       "/jobs/" + jobID.String() + "/milestones",
		})

		var remaining int64
		if err := tx.Model(&models.Milestone{}).
			Where("job_id = ? AND freelancer_id = ? AND status = ?", jobID, freelancerID, models.MilestoneStatusPending).
			Count(&remaining).Error; err != nil {
			return err
		}
		if remaining == 0 {
			if err := jobs.Complete(tx, &job); err != nil {
				return err
			}
			for _, accountID := range []uuid.UUID{freelancerID, job.ClientID} {
				events = append(events, notify.Event{
					Type:      notify.EventJobCompleted,
					AccountID: accountID,
					Message:   "The job \"" + job.Title + "\" is complete.",
					URL:       "/jobs/" + jobID.String(),
				})
			}
		}

		return nil
	})
	if err != nil {
		return nil, err
	}

	l.Notifier.Notify(ctx, events...)

	return &payment, nil
}

// ListMilestones returns the milestone set for (job, freelancer), visible to
// the job's client and the proposing freelancer.
func (l *Ledger) ListMilestones(ctx context.Context, jobID, freelancerID, callerID uuid.UUID) ([]models.Milestone, error) {
	var job models.Job
	if err := l.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if job.ClientID != callerID && freelancerID != callerID {
		return nil, models.ErrForbidden
	}

	var out []models.Milestone
	err := l.DB.WithContext(ctx).
		Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
		Order("sort_order ASC").
		Find(&out).Error
	return out, err
}
