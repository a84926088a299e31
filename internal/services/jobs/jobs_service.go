package jobs

import (
	"context"
	"errors"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
)

// Service owns job status transitions. Every transition is checked against
// the table in models before a row is written.
type Service struct {
	DB       *gorm.DB
	Notifier notify.Notifier
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{DB: db, Notifier: notifier}
}

type CreateInput struct {
	Title       string `json:"title"`
	Description string `json:"description"`
	CategoryID  uint   `json:"category_id"`
	Budget      int64  `json:"budget"`
	Duration    int    `json:"duration"`
}

func (in CreateInput) validate() error {
	errs := models.NewValidationError()
	if strings.TrimSpace(in.Title) == "" {
		errs.Add("title", "Title is required")
	}
	if in.Budget <= 0 {
		errs.Add("budget", "Budget must be greater than zero")
	}
	if in.Duration <= 0 {
		errs.Add("duration", "Duration must be greater than zero")
	}
	return errs.OrNil()
}

// Create inserts a new job in pending status, awaiting admin approval.
func (s *Service) Create(ctx context.Context, clientID uuid.UUID, in CreateInput) (*models.Job, error) {
	if err := in.validate(); err != nil {
		return nil, err
	}

	job := models.Job{
		ClientID:    clientID,
		Title:       strings.TrimSpace(in.Title),
		Description: in.Description,
		CategoryID:  in.CategoryID,
		Budget:      in.Budget,
		Duration:    in.Duration,
		Status:      models.JobStatusPending,
	}
	if err := s.DB.WithContext(ctx).Create(&job).Error; err != nil {
		return nil, err
	}
	return &job, nil
}

func (s *Service) Get(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	return &job, nil
}

// Approve flips a pending job to open (admin moderation step).
func (s *Service) Approve(ctx context.Context, jobID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}
		if !job.Status.CanTransition(models.JobStatusOpen) {
			return models.ErrInvalidTransition
		}
		job.Status = models.JobStatusOpen
		return tx.Model(&job).Update("status", job.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Close withdraws a job and rejects every pending proposal on it. Closing a
// job that is not pending/open (including one already closed) fails.
func (s *Service) Close(ctx context.Context, jobID, clientID uuid.UUID) (*models.Job, error) {
	var job models.Job
	var losers []uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}
		if job.ClientID != clientID {
			return models.ErrForbidden
		}
		if !job.Status.CanTransition(models.JobStatusClosed) {
			return models.ErrInvalidTransition
		}

		if err := tx.Model(&models.Proposal{}).
			Where("job_id = ? AND status = ?", jobID, models.ProposalStatusPending).
			Pluck("freelancer_id", &losers).Error; err != nil {
			return err
		}
		if len(losers) > 0 {
			if err := tx.Model(&models.Proposal{}).
				Where("job_id = ? AND status = ?", jobID, models.ProposalStatusPending).
				Update("status", models.ProposalStatusRejected).Error; err != nil {
				return err
			}
		}

		job.Status = models.JobStatusClosed
		return tx.Model(&job).Update("status", job.Status).Error
	})
	if err != nil {
		return nil, err
	}

	events := make([]notify.Event, 0, len(losers))
	for _, fid := range losers {
		events = append(events, notify.Event{
			Type:      notify.EventProposalRejected,
			AccountID: fid,
			Message:   "The job \"" + job.Title + "\" was closed by the client.",
			URL:       "/jobs/" + job.ID.String(),
		})
	}
	s.Notifier.Notify(ctx, events...)

	return &job, nil
}

// Reopen puts a closed job back into moderation and resets every proposal
// on it to pending, re-opening the competition.
func (s *Service) Reopen(ctx context.Context, jobID, clientID uuid.UUID) (*models.Job, error) {
	var job models.Job
	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}
		if job.ClientID != clientID {
			return models.ErrForbidden
		}
		if !job.Status.CanTransition(models.JobStatusPending) {
			return models.ErrInvalidTransition
		}

		if err := tx.Model(&models.Proposal{}).
			Where("job_id = ?", jobID).
			Update("status", models.ProposalStatusPending).Error; err != nil {
			return err
		}

		job.Status = models.JobStatusPending
		return tx.Model(&job).Update("status", job.Status).Error
	})
	if err != nil {
		return nil, err
	}
	return &job, nil
}

// Complete marks a job completed after its final milestone was paid. Called
// by the milestone ledger inside its own transaction.
func Complete(tx *gorm.DB, job *models.Job) error {
	if !job.Status.CanTransition(models.JobStatusCompleted) {
		return models.ErrInvalidState
	}
	job.Status = models.JobStatusCompleted
	return tx.Model(job).Update("status", job.Status).Error
}

// lockJob loads the job row FOR UPDATE so concurrent transitions serialize.
func lockJob(tx *gorm.DB, jobID uuid.UUID, out *models.Job) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(out, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}
