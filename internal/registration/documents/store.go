package documents

import (
	"context"

	"concours/internal/registration/models"
	"concours/pkg/domain"
)

// Store persists documents. Implementations return sentinel errors for
// infrastructure facts; the service translates them.
type Store interface {
	Create(ctx context.Context, document models.Document) error
	FindByID(ctx context.Context, id domain.DocumentID) (models.Document, error)
	Update(ctx context.Context, document models.Document) error
	ListByCandidate(ctx context.Context, candidateID domain.CandidateID) ([]models.Document, error)
}
