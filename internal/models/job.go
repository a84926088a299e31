package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
)

type JobStatus string

const (
	JobStatusPending    JobStatus = "pending"     // awaiting admin approval
	JobStatusOpen       JobStatus = "open"        // visible, accepting proposals
	JobStatusInProgress JobStatus = "in_progress" // a proposal was accepted
	JobStatusCompleted  JobStatus = "completed"   // final milestone paid
	JobStatusClosed     JobStatus = "closed"      // withdrawn by the client
)

// jobTransitions is the closed transition table for jobs. Any pair not
// listed here is rejected with ErrInvalidTransition before a row is touched.
var jobTransitions = map[JobStatus][]JobStatus{
	JobStatusPending:    {JobStatusOpen, JobStatusInProgress, JobStatusClosed},
	JobStatusOpen:       {JobStatusInProgress, JobStatusClosed},
	JobStatusInProgress: {JobStatusCompleted},
	JobStatusClosed:     {JobStatusPending},
	JobStatusCompleted:  {},
}

func (s JobStatus) CanTransition(to JobStatus) bool {
	for _, next := range jobTransitions[s] {
		if next == to {
			return true
		}
	}
	return false
}

// AcceptsProposals reports whether freelancers may still submit or edit
// proposals on a job in this status.
func (s JobStatus) AcceptsProposals() bool {
	return s == JobStatusPending || s == JobStatusOpen
}

func ParseJobStatus(s string) (JobStatus, error) {
	switch JobStatus(s) {
	case JobStatusPending, JobStatusOpen, JobStatusInProgress, JobStatusCompleted, JobStatusClosed:
		return JobStatus(s), nil
	}
	return "", fmt.Errorf("unknown job status %q", s)
}

type Job struct {
	ID       uuid.UUID `gorm:"type:uuid;default:gen_random_uuid();primaryKey" json:"id"`
	ClientID uuid.UUID `gorm:"type:uuid;index;not null" json:"client_id"`

	Title       string `gorm:"type:varchar(160);not null" json:"title"`
	Description string `gorm:"type:text" json:"description"`
	CategoryID  uint   `gorm:"index" json:"category_id"`
	Budget      int64  `gorm:"not null" json:"budget"`
	Duration    int    `gorm:"not null" json:"duration"` // days

	Status JobStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Client    *User      `gorm:"foreignKey:ClientID" json:"client,omitempty"`
	Proposals []Proposal `gorm:"foreignKey:JobID" json:"proposals,omitempty"`
}
