package payments

import (
	"context"

	"concours/internal/registration/models"
	"concours/pkg/domain"
)

// Store persists payment attempts. Create returns sentinel.ErrConflict when
// the gateway reference already exists; CurrentForCandidate returns the most
// recently created attempt, which is the only authoritative one.
type Store interface {
	Create(ctx context.Context, payment models.Payment) error
	FindByID(ctx context.Context, id domain.PaymentID) (models.Payment, error)
	FindByReference(ctx context.Context, reference string) (models.Payment, error)
	UpdateState(ctx context.Context, id domain.PaymentID, state models.PaymentState) (models.Payment, error)
	CurrentForCandidate(ctx context.Context, candidateID domain.CandidateID) (models.Payment, error)
}
