package gateway

import (
	"context"
	"strings"
)

// DeclineCard always fails authorization in the sandbox, mirroring the
// decline test card real processors ship.
const DeclineCard = "4000000000000002"

// Sandbox approves every well-formed instrument except the decline card.
// Swap in a real processor behind the Gateway interface in production.
type Sandbox struct{}

func NewSandbox() *Sandbox {
	return &Sandbox{}
}

func (s *Sandbox) Authorize(ctx context.Context, instrument Instrument, amount int64) (bool, error) {
	if amount <= 0 {
		return false, nil
	}
	card := strings.ReplaceAll(strings.TrimSpace(instrument.CardNumber), " ", "")
	if card == DeclineCard {
		return false, nil
	}
	return true, nil
}
