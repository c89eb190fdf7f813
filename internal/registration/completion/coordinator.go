// Package completion owns the derived lifecycle state of an application: the
// pure stage resolver and the coordinator that promotes a candidate to
// validated exactly once when every document and the payment line up.
package completion

import (
	"context"
	"errors"
	"log/slog"

	"go.opentelemetry.io/otel"

	"concours/internal/outbox"
	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

var tracer = otel.Tracer("concours/registration/completion")

// CandidateStore is the slice of the candidate store the coordinator needs.
type CandidateStore interface {
	FindByID(ctx context.Context, id domain.CandidateID) (models.Candidate, error)
	UpdateStage(ctx context.Context, id domain.CandidateID, stage models.Stage) error
	Promote(ctx context.Context, id domain.CandidateID) (bool, error)
}

// DocumentSource lists a candidate's documents.
type DocumentSource interface {
	ListByCandidate(ctx context.Context, candidateID domain.CandidateID) ([]models.Document, error)
}

// PaymentSource returns the authoritative payment for a candidate, or
// sentinel.ErrNotFound when none was recorded yet.
type PaymentSource interface {
	CurrentForCandidate(ctx context.Context, candidateID domain.CandidateID) (models.Payment, error)
}

// Metrics is the slice of process metrics the coordinator reports to.
type Metrics interface {
	IncPromoted()
}

// Coordinator reacts to document and payment writes. Reevaluate may be called
// any number of times, concurrently, in any order; the guarded promotion in
// the candidate store keeps the transition and its notification exactly-once.
type Coordinator struct {
	candidates CandidateStore
	documents  DocumentSource
	payments   PaymentSource
	outbox     outbox.Outbox
	logger     *slog.Logger
	metrics    Metrics
}

func NewCoordinator(candidates CandidateStore, documents DocumentSource, payments PaymentSource, out outbox.Outbox, logger *slog.Logger, metrics Metrics) *Coordinator {
	return &Coordinator{
		candidates: candidates,
		documents:  documents,
		payments:   payments,
		outbox:     out,
		logger:     logger,
		metrics:    metrics,
	}
}

// Reevaluate recomputes the candidate's stage and promotes when complete.
// Safe to retry after any failure: no step here requires manual repair.
func (c *Coordinator) Reevaluate(ctx context.Context, candidateID domain.CandidateID) error {
	ctx, span := tracer.Start(ctx, "completion.reevaluate")
	defer span.End()

	candidate, err := c.candidates.FindByID(ctx, candidateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return derrors.New(derrors.CodeNotFound, "candidate not found")
		}
		return derrors.Wrap(err, derrors.CodeStoreUnavailable, "load candidate")
	}

	documents, err := c.documents.ListByCandidate(ctx, candidateID)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStoreUnavailable, "load documents")
	}

	var payment *models.Payment
	current, err := c.payments.CurrentForCandidate(ctx, candidateID)
	switch {
	case err == nil:
		payment = &current
	case errors.Is(err, sentinel.ErrNotFound) || derrors.HasCode(err, derrors.CodeNotFound):
		// no payment recorded yet
	default:
		return derrors.Wrap(err, derrors.CodeStoreUnavailable, "load payment")
	}

	stage := ResolveStage(documents, payment)
	if stage != candidate.Stage {
		if err := c.candidates.UpdateStage(ctx, candidateID, stage); err != nil {
			return derrors.Wrap(err, derrors.CodeStoreUnavailable, "cache stage")
		}
	}

	if stage != models.StageComplete || candidate.Status != models.StatusPending {
		return nil
	}

	promoted, err := c.candidates.Promote(ctx, candidateID)
	if err != nil {
		return derrors.Wrap(err, derrors.CodeStoreUnavailable, "promote candidate")
	}
	if !promoted {
		// Another reevaluation won the race. Success-no-op: do not re-notify.
		return nil
	}

	if c.metrics != nil {
		c.metrics.IncPromoted()
	}
	c.logger.InfoContext(ctx, "candidate promoted to validated",
		"candidate_id", candidateID.String(),
		"application_number", candidate.ApplicationNumber,
	)

	event := outbox.Event{
		CandidateID: candidateID,
		Kind:        outbox.KindCandidatureValidated,
		Payload: map[string]any{
			"application_number": candidate.ApplicationNumber,
		},
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := c.outbox.Enqueue(ctx, event); err != nil {
		// The promotion stands; delivery is the outbox's concern.
		c.logger.ErrorContext(ctx, "validation notification not enqueued",
			"error", err,
			"candidate_id", candidateID.String(),
		)
	}
	return nil
}
