package models

import (
	"fmt"
	"time"

	"github.com/google/uuid"
	"gorm.io/gorm"
)

type ProposalStatus string

const (
	ProposalStatusPending  ProposalStatus = "pending"
	ProposalStatusAccepted ProposalStatus = "accepted"
	ProposalStatusRejected ProposalStatus = "rejected"
)

func ParseProposalStatus(s string) (ProposalStatus, error) {
	switch ProposalStatus(s) {
	case ProposalStatusPending, ProposalStatusAccepted, ProposalStatusRejected:
		return ProposalStatus(s), nil
	}
	return "", fmt.Errorf("unknown proposal status %q", s)
}

// Proposal is one freelancer's bid on a job. (job_id, freelancer_id) is
// unique; at most one proposal per job may ever be accepted.
type Proposal struct {
	ID           uuid.UUID `gorm:"type:uuid;primaryKey" json:"id"`
	JobID        uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_job_freelancer" json:"job_id"`
	FreelancerID uuid.UUID `gorm:"type:uuid;not null;uniqueIndex:idx_proposal_job_freelancer" json:"freelancer_id"`

	CoverLetter string         `gorm:"type:text" json:"cover_letter"`
	Status      ProposalStatus `gorm:"type:varchar(20);not null;default:'pending';index" json:"status"`

	CreatedAt time.Time `json:"created_at"`
	UpdatedAt time.Time `json:"updated_at"`

	Freelancer *User       `gorm:"foreignKey:FreelancerID" json:"freelancer,omitempty"`
	Milestones []Milestone `gorm:"foreignKey:JobID,FreelancerID;references:JobID,FreelancerID" json:"milestones,omitempty"`
}

func (p *Proposal) BeforeCreate(tx *gorm.DB) (err error) {
	if p.ID == uuid.Nil {
		p.ID = uuid.New()
	}
	return
}
