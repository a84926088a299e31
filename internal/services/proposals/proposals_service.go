package proposals

import (
	"context"
	"errors"
	"fmt"
	"strings"

	"github.com/google/uuid"
	"gorm.io/gorm"
	"gorm.io/gorm/clause"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
)

// Service arbitrates proposals on a job and enforces the single-winner
// invariant under the job row lock.
type Service struct {
	DB       *gorm.DB
	Notifier notify.Notifier
}

func NewService(db *gorm.DB, notifier notify.Notifier) *Service {
	return &Service{DB: db, Notifier: notifier}
}

type MilestoneInput struct {
	Order    int    `json:"order"`
	Name     string `json:"name"`
	Duration int    `json:"duration"`
	Amount   int64  `json:"amount"`
}

// ValidateMilestones checks a proposal's milestone set: at least one entry,
// unique positive orders, positive durations and amounts, non-empty names.
func ValidateMilestones(in []MilestoneInput) *models.ValidationError {
	errs := models.NewValidationError()
	if len(in) == 0 {
		errs.Add("milestones", "At least one milestone is required")
		return errs
	}

	seen := map[int]bool{}
	for i, m := range in {
		key := func(f string) string { return fmt.Sprintf("milestones[%d].%s", i, f) }

		if m.Order <= 0 {
			errs.Add(key("order"), "Order must be a positive integer")
		} else if seen[m.Order] {
			errs.Add(key("order"), "Order must be unique within the proposal")
		}
		seen[m.Order] = true

		if strings.TrimSpace(m.Name) == "" {
			errs.Add(key("name"), "Name is required")
		}
		if m.Duration <= 0 {
			errs.Add(key("duration"), "Duration must be greater than zero")
		}
		if m.Amount <= 0 {
			errs.Add(key("amount"), "Amount must be greater than zero")
		}
	}
	return errs
}

func buildMilestones(jobID, freelancerID uuid.UUID, in []MilestoneInput) []models.Milestone {
	out := make([]models.Milestone, 0, len(in))
	for _, m := range in {
		out = append(out, models.Milestone{
			JobID:        jobID,
			FreelancerID: freelancerID,
			SortOrder:    m.Order,
			Name:         strings.TrimSpace(m.Name),
			Duration:     m.Duration,
			Amount:       m.Amount,
			Status:       models.MilestoneStatusPending,
		})
	}
	return out
}

// Submit creates a proposal with its milestone set in one transaction. One
// proposal per (job, freelancer).
func (s *Service) Submit(ctx context.Context, jobID, freelancerID uuid.UUID, coverLetter string, milestones []MilestoneInput) (*models.Proposal, error) {
	if errs := ValidateMilestones(milestones); errs.HasErrors() {
		return nil, errs
	}

	var proposal models.Proposal
	var job models.Job

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := tx.First(&job, "id = ?", jobID).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if !job.Status.AcceptsProposals() {
			return models.ErrInvalidState
		}

		var existing models.Proposal
		err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).First(&existing).Error
		if err == nil {
			return models.ErrConflict
		}
		if !errors.Is(err, gorm.ErrRecordNotFound) {
			return err
		}

		proposal = models.Proposal{
			JobID:        jobID,
			FreelancerID: freelancerID,
			CoverLetter:  coverLetter,
			Status:       models.ProposalStatusPending,
		}
		if err := tx.Create(&proposal).Error; err != nil {
			// two submits can race past the read above; the unique index
			// decides and the loser reports the same conflict
			if errors.Is(err, gorm.ErrDuplicatedKey) {
				return models.ErrConflict
			}
			return err
		}

		ms := buildMilestones(jobID, freelancerID, milestones)
		return tx.Create(&ms).Error
	})
	if err != nil {
		return nil, err
	}

	s.Notifier.Notify(ctx, notify.Event{
		Type:      notify.EventProposalSubmitted,
		AccountID: job.ClientID,
		Message:   "A new proposal arrived for \"" + job.Title + "\".",
		URL:       "/jobs/" + jobID.String() + "/proposals",
	})

	return &proposal, nil
}

// Update replaces the milestone set wholesale while the proposal is still
// pending. Takes the job row lock so it cannot interleave with Accept.
func (s *Service) Update(ctx context.Context, jobID, freelancerID uuid.UUID, coverLetter string, milestones []MilestoneInput) (*models.Proposal, error) {
	if errs := ValidateMilestones(milestones); errs.HasErrors() {
		return nil, errs
	}

	var proposal models.Proposal

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}
		if !job.Status.AcceptsProposals() {
			return models.ErrInvalidState
		}

		if err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return models.ErrInvalidState
		}

		// wholesale replace: drop the old set, insert the new one
		if err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			Delete(&models.Milestone{}).Error; err != nil {
			return err
		}
		ms := buildMilestones(jobID, freelancerID, milestones)
		if err := tx.Create(&ms).Error; err != nil {
			return err
		}

		proposal.CoverLetter = coverLetter
		return tx.Model(&proposal).Update("cover_letter", coverLetter).Error
	})
	if err != nil {
		return nil, err
	}
	return &proposal, nil
}

// Accept picks the winning proposal. One transaction, job row locked FOR
// UPDATE: winner accepted, every other pending proposal rejected, job moved
// to in_progress. A second accept on the same job hits the in_progress
// status and fails with ErrConflict.
func (s *Service) Accept(ctx context.Context, jobID, freelancerID, clientID uuid.UUID) (*models.Job, error) {
	var job models.Job
	var losers []uuid.UUID

	err := s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}
		if job.ClientID != clientID {
			return models.ErrForbidden
		}
		if job.Status == models.JobStatusInProgress {
			return models.ErrConflict
		}
		if !job.Status.AcceptsProposals() {
			return models.ErrInvalidState
		}

		var winner models.Proposal
		if err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			First(&winner).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		switch winner.Status {
		case models.ProposalStatusPending:
		case models.ProposalStatusAccepted:
			return models.ErrConflict
		default:
			return models.ErrInvalidState
		}

		if err := tx.Model(&models.Proposal{}).
			Where("job_id = ? AND freelancer_id != ? AND status = ?", jobID, freelancerID, models.ProposalStatusPending).
			Pluck("freelancer_id", &losers).Error; err != nil {
			return err
		}

		res := tx.Model(&winner).Update("status", models.ProposalStatusAccepted)
		if res.Error != nil {
			return res.Error
		}
		// zero rows means a writer outside the job lock removed the proposal
		if res.RowsAffected == 0 {
			return models.ErrConflict
		}
		if len(losers) > 0 {
			if err := tx.Model(&models.Proposal{}).
				Where("job_id = ? AND freelancer_id != ? AND status = ?", jobID, freelancerID, models.ProposalStatusPending).
				Update("status", models.ProposalStatusRejected).Error; err != nil {
				return err
			}
		}

		if !job.Status.CanTransition(models.JobStatusInProgress) {
			return models.ErrInvalidTransition
		}
		job.Status = models.JobStatusInProgress
		return tx.Model(&job).Update("status", job.Status).Error
	})
	if err != nil {
		return nil, err
	}

	events := []notify.Event{{
		Type:      notify.EventProposalAccepted,
		AccountID: freelancerID,
		Message:   "Your proposal for \"" + job.Title + "\" was accepted.",
		URL:       "/jobs/" + jobID.String(),
	}}
	for _, fid := range losers {
		events = append(events, notify.Event{
			Type:      notify.EventProposalRejected,
			AccountID: fid,
			Message:   "Your proposal for \"" + job.Title + "\" was not selected.",
			URL:       "/jobs/" + jobID.String(),
		})
	}
	s.Notifier.Notify(ctx, events...)

	return &job, nil
}

// Delete removes a pending proposal together with its milestones. Takes the
// job row lock so an in-flight Accept can never pick a deleted winner.
func (s *Service) Delete(ctx context.Context, jobID, freelancerID uuid.UUID) error {
	return s.DB.WithContext(ctx).Transaction(func(tx *gorm.DB) error {
		var job models.Job
		if err := lockJob(tx, jobID, &job); err != nil {
			return err
		}

		var proposal models.Proposal
		if err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			First(&proposal).Error; err != nil {
			if errors.Is(err, gorm.ErrRecordNotFound) {
				return models.ErrNotFound
			}
			return err
		}
		if proposal.Status != models.ProposalStatusPending {
			return models.ErrInvalidState
		}

		if err := tx.Where("job_id = ? AND freelancer_id = ?", jobID, freelancerID).
			Delete(&models.Milestone{}).Error; err != nil {
			return err
		}
		return tx.Delete(&proposal).Error
	})
}

// lockJob loads the job row FOR UPDATE. Every proposal mutation on a job
// goes through this lock, so accept, update and delete serialize.
func lockJob(tx *gorm.DB, jobID uuid.UUID, out *models.Job) error {
	err := tx.Clauses(clause.Locking{Strength: "UPDATE"}).
		First(out, "id = ?", jobID).Error
	if errors.Is(err, gorm.ErrRecordNotFound) {
		return models.ErrNotFound
	}
	return err
}

// ListForJob returns a job's proposals with freelancer and milestones, for
// the owning client.
func (s *Service) ListForJob(ctx context.Context, jobID, clientID uuid.UUID) ([]models.Proposal, error) {
	var job models.Job
	if err := s.DB.WithContext(ctx).First(&job, "id = ?", jobID).Error; err != nil {
		if errors.Is(err, gorm.ErrRecordNotFound) {
			return nil, models.ErrNotFound
		}
		return nil, err
	}
	if job.ClientID != clientID {
		return nil, models.ErrForbidden
	}

	var out []models.Proposal
	err := s.DB.WithContext(ctx).
		Preload("Freelancer").
		Preload("Milestones", func(db *gorm.DB) *gorm.DB { return db.Order("sort_order ASC") }).
		Where("job_id = ?", jobID).
		Order("created_at ASC").
		Find(&out).Error
	return out, err
}
