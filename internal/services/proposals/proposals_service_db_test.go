package proposals_test

import (
	"context"
	"errors"
	"sync"
	"testing"

	"github.com/workhive/workhive-backend/internal/models"
	"github.com/workhive/workhive-backend/internal/services/proposals"
	"github.com/workhive/workhive-backend/internal/testutil"
)

func TestAccept_SecondAcceptConflicts(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, gdb, models.RoleClient)
	first := testutil.SeedFreelancer(t, gdb, 0)
	second := testutil.SeedFreelancer(t, gdb, 0)
	job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusOpen)
	testutil.SeedProposal(t, gdb, job.ID, first.ID, models.ProposalStatusPending, 10000)
	testutil.SeedProposal(t, gdb, job.ID, second.ID, models.ProposalStatusPending, 12000)

	svc := proposals.NewService(gdb, testutil.NopNotifier{})

	if _, err := svc.Accept(ctx, job.ID, first.ID, client.ID); err != nil {
		t.Fatalf("first Accept returned error: %v", err)
	}
	if _, err := svc.Accept(ctx, job.ID, second.ID, client.ID); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("second Accept = %v, want ErrConflict", err)
	}

	var accepted int64
	gdb.Model(&models.Proposal{}).
		Where("job_id = ? AND status = ?", job.ID, models.ProposalStatusAccepted).
		Count(&accepted)
	if accepted != 1 {
		t.Fatalf("accepted proposals = %d, want 1", accepted)
	}
}

func TestSubmit_DuplicateProposalConflicts(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()

	client := testutil.SeedUser(t, gdb, models.RoleClient)
	fr := testutil.SeedFreelancer(t, gdb, 0)
	job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusOpen)

	svc := proposals.NewService(gdb, testutil.NopNotifier{})
	in := []proposals.MilestoneInput{{Order: 1, Name: "Design", Duration: 3, Amount: 10000}}

	if _, err := svc.Submit(ctx, job.ID, fr.ID, "first", in); err != nil {
		t.Fatalf("first Submit returned error: %v", err)
	}
	if _, err := svc.Submit(ctx, job.ID, fr.ID, "second", in); !errors.Is(err, models.ErrConflict) {
		t.Fatalf("duplicate Submit = %v, want ErrConflict", err)
	}

	var count int64
	gdb.Model(&models.Proposal{}).Where("job_id = ?", job.ID).Count(&count)
	if count != 1 {
		t.Fatalf("proposal rows = %d, want 1", count)
	}
}

// Accept and Delete race on the same proposal. Both go through the job row
// lock, so exactly one may win and an in_progress job always keeps its
// accepted proposal.
func TestAccept_ConcurrentDeleteNeverStrandsJob(t *testing.T) {
	gdb := testutil.OpenDB(t)
	ctx := context.Background()
	svc := proposals.NewService(gdb, testutil.NopNotifier{})

	for i := 0; i < 10; i++ {
		client := testutil.SeedUser(t, gdb, models.RoleClient)
		fr := testutil.SeedFreelancer(t, gdb, 0)
		job := testutil.SeedJob(t, gdb, client.ID, models.JobStatusOpen)
		testutil.SeedProposal(t, gdb, job.ID, fr.ID, models.ProposalStatusPending, 10000)

		var wg sync.WaitGroup
		var acceptErr, deleteErr error
		wg.Add(2)
		go func() {
			defer wg.Done()
			_, acceptErr = svc.Accept(ctx, job.ID, fr.ID, client.ID)
		}()
		go func() {
			defer wg.Done()
			deleteErr = svc.Delete(ctx, job.ID, fr.ID)
		}()
		wg.Wait()

		if acceptErr == nil && deleteErr == nil {
			t.Fatal("Accept and Delete both succeeded on the same proposal")
		}

		var got models.Job
		if err := gdb.First(&got, "id = ?", job.ID).Error; err != nil {
			t.Fatalf("reload job: %v", err)
		}
		if got.Status == models.JobStatusInProgress {
			var accepted int64
			gdb.Model(&models.Proposal{}).
				Where("job_id = ? AND status = ?", job.ID, models.ProposalStatusAccepted).
				Count(&accepted)
			if accepted != 1 {
				t.Fatalf("in_progress job has %d accepted proposals, want 1", accepted)
			}
		}
	}
}
