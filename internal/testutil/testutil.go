// Package testutil backs the database-level service tests. Tests that need
// a real Postgres read its DSN from TEST_DB_DSN and skip when it is unset,
// so the pure-unit suites still run everywhere.
package testutil

import (
	"context"
	"fmt"
	"os"
	"testing"

	"github.com/google/uuid"
	"gorm.io/gorm"

	"github.com/workhive/workhive-backend/internal/db"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/notify"
)

// OpenDB connects to the test database, migrates the schema and truncates
// every table so each test starts clean.
func OpenDB(t *testing.T) *gorm.DB {
	t.Helper()

	dsn := os.Getenv("TEST_DB_DSN")
	if dsn == "" {
		t.Skip("TEST_DB_DSN not set")
	}

	gdb, err := db.Connect(dsn)
	if err != nil {
		t.Fatalf("connect test database: %v", err)
	}

	if err := gdb.AutoMigrate(
		&models.User{},
		&models.FreelancerProfile{},
		&models.Job{},
		&models.Proposal{},
		&models.Milestone{},
		&models.Payment{},
		&models.WalletTransaction{},
		&models.Withdrawal{},
	); err != nil {
		t.Fatalf("migrate test database: %v", err)
	}

	if err := gdb.Exec(
		"TRUNCATE users, freelancer_profiles, jobs, proposals, milestones, payments, wallet_transactions, withdrawals CASCADE",
	).Error; err != nil {
		t.Fatalf("truncate test database: %v", err)
	}

	return gdb
}

// NopNotifier satisfies notify.Notifier for tests that don't assert on
// events.
type NopNotifier struct{}

func (NopNotifier) Notify(context.Context, ...notify.Event) {}

func SeedUser(t *testing.T, gdb *gorm.DB, role models.Role) *models.User {
	t.Helper()
	u := &models.User{
		Name:     string(role) + " account",
		Email:    uuid.NewString() + "@example.test",
		Password: "not-a-real-hash",
		Role:     role,
		IsActive: true,
	}
	if err := gdb.Create(u).Error; err != nil {
		t.Fatalf("seed user: %v", err)
	}
	return u
}

// SeedFreelancer creates a freelancer user with a profile holding the given
// balance.
func SeedFreelancer(t *testing.T, gdb *gorm.DB, balance int64) *models.User {
	t.Helper()
	u := SeedUser(t, gdb, models.RoleFreelancer)
	if err := gdb.Create(&models.FreelancerProfile{UserID: u.ID, Balance: balance}).Error; err != nil {
		t.Fatalf("seed freelancer profile: %v", err)
	}
	return u
}

func SeedJob(t *testing.T, gdb *gorm.DB, clientID uuid.UUID, status models.JobStatus) *models.Job {
	t.Helper()
	j := &models.Job{
		ClientID: clientID,
		Title:    "Landing page build",
		Budget:   50000,
		Duration: 10,
		Status:   status,
	}
	if err := gdb.Create(j).Error; err != nil {
		t.Fatalf("seed job: %v", err)
	}
	return j
}

// SeedProposal creates a proposal plus one pending milestone per amount,
// ordered 1..n.
func SeedProposal(t *testing.T, gdb *gorm.DB, jobID, freelancerID uuid.UUID, status models.ProposalStatus, amounts ...int64) *models.Proposal {
	t.Helper()
	p := &models.Proposal{
		JobID:        jobID,
		FreelancerID: freelancerID,
		CoverLetter:  "I can do this.",
		Status:       status,
	}
	if err := gdb.Create(p).Error; err != nil {
		t.Fatalf("seed proposal: %v", err)
	}
	for i, amount := range amounts {
		m := &models.Milestone{
			JobID:        jobID,
			FreelancerID: freelancerID,
			SortOrder:    i + 1,
			Name:         fmt.Sprintf("Milestone %d", i+1),
			Duration:     3,
			Amount:       amount,
			Status:       models.MilestoneStatusPending,
		}
		if err := gdb.Create(m).Error; err != nil {
			t.Fatalf("seed milestone %d: %v", i+1, err)
		}
	}
	return p
}
