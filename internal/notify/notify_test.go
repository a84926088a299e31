package notify_test

import (
	"encoding/json"
	"testing"

	"github.com/google/uuid"

	"github.com/workhive/workhive-backend/internal/notify"
)

// The event contract is consumed by out-of-process subscribers; the JSON
// field names are part of the interface.
func TestEvent_JSONShape(t *testing.T) {
	accountID := uuid.New()
	ev := notify.Event{
		Type:      notify.EventProposalAccepted,
		AccountID: accountID,
		Message:   "Your proposal was accepted.",
		URL:       "/jobs/abc",
	}

	b, err := json.Marshal(ev)
	if err != nil {
		t.Fatalf("Marshal returned error: %v", err)
	}

	var got map[string]interface{}
	if err := json.Unmarshal(b, &got); err != nil {
		t.Fatalf("Unmarshal returned error: %v", err)
	}

	want := map[string]string{
		"type":       "proposal_accepted",
		"account_id": accountID.String(),
		"message":    "Your proposal was accepted.",
		"url":        "/jobs/abc",
	}
	for key, val := range want {
		if got[key] != val {
			t.Errorf("field %q = %v, want %q", key, got[key], val)
		}
	}
	if len(got) != len(want) {
		t.Errorf("event has %d fields, want %d: %v", len(got), len(want), got)
	}
}

func TestEventTypes_AreStable(t *testing.T) {
	cases := map[string]string{
		notify.EventProposalSubmitted:   "proposal_submitted",
		notify.EventProposalAccepted:    "proposal_accepted",
		notify.EventProposalRejected:    "proposal_rejected",
		notify.EventMilestoneCompleted:  "milestone_completed",
		notify.EventJobCompleted:        "job_completed",
		notify.EventWithdrawalRequested: "withdrawal_requested",
	}
	for got, want := range cases {
		if got != want {
			t.Errorf("event type %q, want %q", got, want)
		}
	}
}
