// Package outbox decouples notification/email delivery from the transactions
// that trigger it. The engine only ever sees Enqueue; delivery guarantees are
// the sink's problem. Enqueue failures must never roll back the state change
// that produced the event.
package outbox

import (
	"context"
	"time"

	"concours/pkg/domain"
)

// Kind classifies an outbox event.
type Kind string

const (
	// KindPaymentConfirmed is emitted when a payment transitions into valid.
	KindPaymentConfirmed Kind = "payment.confirmed"
	// KindCandidatureValidated is emitted exactly once, when a candidate is
	// promoted to validated.
	KindCandidatureValidated Kind = "candidature.validated"
)

// Event is emitted from domain logic to capture key lifecycle actions. Keep
// it transport-agnostic so sinks can fan out.
type Event struct {
	CandidateID domain.CandidateID `json:"candidate_id"`
	Kind        Kind               `json:"kind"`
	Payload     map[string]any     `json:"payload,omitempty"`
	OccurredAt  time.Time          `json:"occurred_at"`
}

// Outbox accepts events for asynchronous delivery. Implementations must be
// safe for concurrent use and must not block the caller on delivery.
type Outbox interface {
	Enqueue(ctx context.Context, event Event) error
}

// Sink delivers a single event to its destination (broker, email relay, log).
type Sink interface {
	Publish(ctx context.Context, event Event) error
}
