package notify

import (
	"context"
	"encoding/json"
	"log"

	"github.com/google/uuid"
	"github.com/redis/go-redis/v9"
)

// Event is the notification contract the core emits after a state change.
// Delivery (websocket push, email, storage) lives behind the channel and is
// not this backend's concern.
type Event struct {
	Type      string    `json:"type"`
	AccountID uuid.UUID `json:"account_id"`
	Message   string    `json:"message"`
	URL       string    `json:"url"`
}

const (
	EventProposalSubmitted   = "proposal_submitted"
	EventProposalAccepted    = "proposal_accepted"
	EventProposalRejected    = "proposal_rejected"
	EventMilestoneCompleted  = "milestone_completed"
	EventJobCompleted        = "job_completed"
	EventWithdrawalRequested = "withdrawal_requested"
)

// Notifier is fire-and-forget: implementations log failures and never
// return them, so a dead notification pipe can't roll back a payment.
type Notifier interface {
	Notify(ctx context.Context, events ...Event)
}

// RedisNotifier publishes events as JSON on a single pub/sub channel.
type RedisNotifier struct {
	RDB     *redis.Client
	Channel string
}

func NewRedisNotifier(rdb *redis.Client, channel string) *RedisNotifier {
	return &RedisNotifier{RDB: rdb, Channel: channel}
}

func (n *RedisNotifier) Notify(ctx context.Context, events ...Event) {
	for _, ev := range events {
		payload, err := json.Marshal(ev)
		if err != nil {
			log.Printf("notify: marshal %s for %s: %v", ev.Type, ev.AccountID, err)
			continue
		}
		if err := n.RDB.Publish(ctx, n.Channel, payload).Err(); err != nil {
			log.Printf("notify: publish %s for %s: %v", ev.Type, ev.AccountID, err)
		}
	}
}
