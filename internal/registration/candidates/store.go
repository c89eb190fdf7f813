package candidates

import (
	"context"

	"concours/internal/registration/models"
	"concours/pkg/domain"
)

// Store persists candidates. Implementations return sentinel errors
// (pkg/sentinel) for infrastructure facts; the service translates them.
type Store interface {
	Create(ctx context.Context, candidate models.Candidate) error
	FindByID(ctx context.Context, id domain.CandidateID) (models.Candidate, error)
	FindByApplicationNumber(ctx context.Context, number string) (models.Candidate, error)
	// UpdateProfile persists non-lifecycle fields only (name, contact).
	UpdateProfile(ctx context.Context, candidate models.Candidate) error
	// UpdateStage refreshes the cached stage column.
	UpdateStage(ctx context.Context, id domain.CandidateID, stage models.Stage) error
	// Promote flips status from pending to validated, guarded so concurrent
	// callers cannot double-fire. Returns true only for the call that
	// actually performed the transition.
	Promote(ctx context.Context, id domain.CandidateID) (bool, error)
}
