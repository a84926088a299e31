package escrow_test

import (
	"context"
	"errors"
	"testing"

	"github.com/workhive/workhive-backend/internal/gateway"
	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/services/escrow"
	"github.com/workhive/workhive-backend/internal/services/wallet"
	"github.com/workhive/workhive-backend/internal/testutil"
)

type stubGateway struct{ approve bool }

func (g stubGateway) Authorize(context.Context, gateway.Instrument, int64) (bool, error) {
	return g.approve, nil
}

func payingInstrument() gateway.Instrument {
	return gateway.Instrument{CardNumber: "4242 4242 4242 4242", Expiry: "12/99", CVV: "123"}
}

func TestCompleteMilestone_PaysExactlyOnce(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, gdb, models.RoleClient)
	fr := testutil.SeedFreelancer(t, gdb, 0)
	job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusInProgress)
	testutil.SeedProposal(t, gdb, job.ID, fr.ID, models.ProposalStatusAccepted, 10000, 15000)

	ledger := escrow.NewLedger(gdb, stubGateway{approve: true}, wallet.NewService(gdb), testutil.NopNotifier{})

	payment, err := ledger.CompleteMilestone(ctx, job.ID, fr.ID, 1, client.ID, payingInstrument())
	if err != nil {
		t.Fatalf("CompleteMilestone returned error: %v", err)
	}
	if payment.Amount != 10000 {
		t.Errorf("payment amount = %d, want 10000", payment.Amount)
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", fr.ID)
	if profile.Balance != 10000 {
		t.Errorf("balance after payout = %d, want 10000", profile.Balance)
	}

	if _, err := ledger.CompleteMilestone(ctx, job.ID, fr.ID, 1, client.ID, payingInstrument()); !errors.Is(err, models.ErrAlreadyCompleted) {
		t.Fatalf("replayed completion = %v, want ErrAlreadyCompleted", err)
	}

	var payments int64
	gdb.Model(&models.Payment{}).Where("job_id = ?", job.ID).Count(&payments)
	if payments != 1 {
		t.Errorf("payment rows = %d, want 1", payments)
	}
	gdb.First(&profile, "user_id = ?", fr.ID)
	if profile.Balance != 10000 {
		t.Errorf("balance after replay = %d, want 10000", profile.Balance)
	}
}

func TestCompleteMilestone_FinalMilestoneCompletesJob(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, gdb, models.RoleClient)
	fr := testutil.SeedFreelancer(t, gdb, 0)
	job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusInProgress)
	testutil.SeedProposal(t, gdb, job.ID, fr.ID, models.ProposalStatusAccepted, 10000, 15000)

	ledger := escrow.NewLedger(gdb, stubGateway{approve: true}, wallet.NewService(gdb), testutil.NopNotifier{})

	for order := 1; order <= 2; order++ {
		if _, err := ledger.CompleteMilestone(ctx, job.ID, fr.ID, order, client.ID, payingInstrument()); err != nil {
			t.Fatalf("CompleteMilestone(order=%d) returned error: %v", order, err)
		}
	}

	var got models.Job
	if err := gdb.First(&got, "id = ?", job.ID).Error; err != nil {
		t.Fatalf("reload job: %v", err)
	}
	if got.Status != models.JobStatusCompleted {
		t.Errorf("job status = %s, want completed", got.Status)
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", fr.ID)
	if profile.Balance != 25000 {
		t.Errorf("balance = %d, want 25000", profile.Balance)
	}
}

func TestCompleteMilestone_DeclineWritesNothing(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, gdb, models.RoleClient)
	fr := testutil.SeedFreelancer(t, gdb, 0)
	job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusInProgress)
	testutil.SeedProposal(t, gdb, job.ID, fr.ID, models.ProposalStatusAccepted, 10000)

	ledger := escrow.NewLedger(gdb, stubGateway{approve: false}, wallet.NewService(gdb), testutil.NopNotifier{})

	if _, err := ledger.CompleteMilestone(ctx, job.ID, fr.ID, 1, client.ID, payingInstrument()); !errors.Is(err, models.ErrPaymentDeclined) {
		t.Fatalf("declined completion = %v, want ErrPaymentDeclined", err)
	}

	var milestone models.Milestone
	gdb.First(&milestone, "job_id = ? AND sort_order = ?", job.ID, 1)
	if milestone.Status != models.MilestoneStatusPending {
		t.Errorf("milestone status after decline = %s, want pending", milestone.Status)
	}

	var payments int64
	gdb.Model(&models.Payment{}).Where("job_id = ?", job.ID).Count(&payments)
	if payments != 0 {
		t.Errorf("payment rows after decline = %d, want 0", payments)
	}

	var profile models.FreelancerProfile
	gdb.First(&profile, "user_id = ?", fr.ID)
	if profile.Balance != 0 {
		t.Errorf("balance after decline = %d, want 0", profile.Balance)
	}
}
