package payments

import (
	"context"
	"errors"
	"log/slog"

	"concours/internal/outbox"
	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

// CandidateSource resolves the candidate a payment belongs to; the service
// reads the fee-exemption flag from it before accepting an attempt.
type CandidateSource interface {
	ByID(ctx context.Context, id domain.CandidateID) (models.Candidate, error)
}

// Reevaluator is the completion coordinator as seen from the payment side.
type Reevaluator interface {
	Reevaluate(ctx context.Context, candidateID domain.CandidateID) error
}

// Service is the payment ledger: it records attempts, applies gateway or
// admin confirmations, and exposes the single authoritative payment per
// candidate.
type Service struct {
	store      Store
	candidates CandidateSource
	completion Reevaluator
	outbox     outbox.Outbox
	logger     *slog.Logger
}

func NewService(store Store, candidates CandidateSource, completion Reevaluator, out outbox.Outbox, logger *slog.Logger) *Service {
	return &Service{store: store, candidates: candidates, completion: completion, outbox: out, logger: logger}
}

// RecordAttempt registers a pending payment. The fee invariant is checked
// against the candidate's exemption flag before insert. A reference that
// already resolves to the same candidate is a gateway retry and returns the
// existing payment id; the same reference on another candidate is an error.
func (s *Service) RecordAttempt(ctx context.Context, candidateID domain.CandidateID, amount int64, method, reference string) (domain.PaymentID, error) {
	candidate, err := s.candidates.ByID(ctx, candidateID)
	if err != nil {
		return domain.PaymentID{}, err
	}

	payment, err := models.NewPayment(candidateID, amount, method, reference, candidate.FeeExempt, requestcontext.Now(ctx))
	if err != nil {
		return domain.PaymentID{}, err
	}

	if err := s.store.Create(ctx, payment); err != nil {
		if errors.Is(err, sentinel.ErrConflict) {
			return s.resolveDuplicate(ctx, candidateID, reference)
		}
		return domain.PaymentID{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "record payment attempt")
	}
	return payment.ID, nil
}

// resolveDuplicate treats a reference collision from the same candidate as an
// idempotent resubmission rather than an error.
func (s *Service) resolveDuplicate(ctx context.Context, candidateID domain.CandidateID, reference string) (domain.PaymentID, error) {
	existing, err := s.store.FindByReference(ctx, reference)
	if err != nil {
		return domain.PaymentID{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "resolve duplicate reference")
	}
	if existing.CandidateID == candidateID {
		s.logger.InfoContext(ctx, "duplicate payment reference resubmitted",
			"reference", reference,
			"candidate_id", candidateID.String(),
		)
		return existing.ID, nil
	}
	return domain.PaymentID{}, derrors.Newf(derrors.CodeDuplicateReference, "reference %q belongs to another application", reference)
}

// SetState applies a gateway callback or a manual admin confirmation. A
// transition into valid triggers a completion reevaluation and a payment
// confirmation notification, neither of which can fail the state change.
func (s *Service) SetState(ctx context.Context, id domain.PaymentID, state models.PaymentState) (models.Payment, error) {
	if !models.ValidPaymentState(state) {
		return models.Payment{}, derrors.Newf(derrors.CodeBadRequest, "unknown payment state %q", state)
	}

	previous, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Payment{}, derrors.New(derrors.CodeNotFound, "payment not found")
		}
		return models.Payment{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "find payment")
	}

	payment, err := s.store.UpdateState(ctx, id, state)
	if err != nil {
		return models.Payment{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "update payment state")
	}

	if state == models.PaymentValid && previous.State != models.PaymentValid {
		s.notifyConfirmed(ctx, payment)
		if err := s.completion.Reevaluate(ctx, payment.CandidateID); err != nil {
			s.logger.WarnContext(ctx, "completion reevaluation failed, will retry on next write",
				"error", err,
				"candidate_id", payment.CandidateID.String(),
			)
		}
	}
	return payment, nil
}

// CurrentForCandidate returns the authoritative payment for a candidate.
func (s *Service) CurrentForCandidate(ctx context.Context, candidateID domain.CandidateID) (models.Payment, error) {
	payment, err := s.store.CurrentForCandidate(ctx, candidateID)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Payment{}, derrors.New(derrors.CodeNotFound, "no payment recorded")
		}
		return models.Payment{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "current payment")
	}
	return payment, nil
}

func (s *Service) notifyConfirmed(ctx context.Context, payment models.Payment) {
	event := outbox.Event{
		CandidateID: payment.CandidateID,
		Kind:        outbox.KindPaymentConfirmed,
		Payload: map[string]any{
			"amount":    payment.Amount,
			"reference": payment.Reference,
			"method":    payment.Method,
		},
		OccurredAt: requestcontext.Now(ctx),
	}
	if err := s.outbox.Enqueue(ctx, event); err != nil {
		s.logger.WarnContext(ctx, "payment confirmation notification not enqueued",
			"error", err,
			"candidate_id", payment.CandidateID.String(),
		)
	}
}
