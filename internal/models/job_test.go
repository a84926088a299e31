package models_test

import (
	"testing"

	"github.com/workhive/workhive-backend/internal/models"
)

func TestParseJobStatus_ValidValues(t *testing.T) {
	valid := []string{"pending", "open", "in_progress", "completed", "closed"}
	for _, s := range valid {
		got, err := models.ParseJobStatus(s)
		if err != nil {
			t.Errorf("ParseJobStatus(%q) returned unexpected error: %v", s, err)
		}
		if string(got) != s {
			t.Errorf("ParseJobStatus(%q) = %q, want %q", s, got, s)
		}
	}
}

func TestParseJobStatus_InvalidValue(t *testing.T) {
	if _, err := models.ParseJobStatus("cancelled"); err == nil {
		t.Error("ParseJobStatus(\"cancelled\") expected error, got nil")
	}
	if _, err := models.ParseJobStatus(""); err == nil {
		t.Error("ParseJobStatus(\"\") expected error, got nil")
	}
}

func TestJobStatus_ValidTransitions(t *testing.T) {
	cases := []struct {
		from models.JobStatus
		to   models.JobStatus
	}{
		{models.JobStatusPending, models.JobStatusOpen},       // admin approval
		{models.JobStatusPending, models.JobStatusInProgress}, // proposal accepted pre-approval
		{models.JobStatusPending, models.JobStatusClosed},
		{models.JobStatusOpen, models.JobStatusInProgress},
		{models.JobStatusOpen, models.JobStatusClosed},
		{models.JobStatusInProgress, models.JobStatusCompleted},
		{models.JobStatusClosed, models.JobStatusPending}, // reopen
	}
	for _, c := range cases {
		if !c.from.CanTransition(c.to) {
			t.Errorf("CanTransition(%s -> %s) should be true", c.from, c.to)
		}
	}
}

func TestJobStatus_InvalidTransitions(t *testing.T) {
	cases := []struct {
		from models.JobStatus
		to   models.JobStatus
	}{
		{models.JobStatusOpen, models.JobStatusPending},
		{models.JobStatusOpen, models.JobStatusCompleted},
		{models.JobStatusInProgress, models.JobStatusOpen},
		{models.JobStatusInProgress, models.JobStatusClosed},
		{models.JobStatusInProgress, models.JobStatusPending},
		{models.JobStatusClosed, models.JobStatusOpen},
		{models.JobStatusClosed, models.JobStatusInProgress},
		{models.JobStatusClosed, models.JobStatusClosed}, // closing twice must fail
		{models.JobStatusPending, models.JobStatusCompleted},
	}
	for _, c := range cases {
		if c.from.CanTransition(c.to) {
			t.Errorf("CanTransition(%s -> %s) should be false", c.from, c.to)
		}
	}
}

func TestJobStatus_CompletedIsTerminal(t *testing.T) {
	targets := []models.JobStatus{
		models.JobStatusPending, models.JobStatusOpen, models.JobStatusInProgress,
		models.JobStatusCompleted, models.JobStatusClosed,
	}
	for _, to := range targets {
		if models.JobStatusCompleted.CanTransition(to) {
			t.Errorf("CanTransition(completed -> %s) should be false (terminal state)", to)
		}
	}
}

func TestJobStatus_SelfTransitions(t *testing.T) {
	all := []models.JobStatus{
		models.JobStatusPending, models.JobStatusOpen, models.JobStatusInProgress,
		models.JobStatusCompleted, models.JobStatusClosed,
	}
	for _, s := range all {
		if s.CanTransition(s) {
			t.Errorf("CanTransition(%s -> %s) should be false (self)", s, s)
		}
	}
}

func TestJobStatus_AcceptsProposals(t *testing.T) {
	accepting := []models.JobStatus{models.JobStatusPending, models.JobStatusOpen}
	for _, s := range accepting {
		if !s.AcceptsProposals() {
			t.Errorf("AcceptsProposals(%s) should be true", s)
		}
	}
	notAccepting := []models.JobStatus{
		models.JobStatusInProgress, models.JobStatusCompleted, models.JobStatusClosed,
	}
	for _, s := range notAccepting {
		if s.AcceptsProposals() {
			t.Errorf("AcceptsProposals(%s) should be false", s)
		}
	}
}
