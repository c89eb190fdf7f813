package candidates

import (
	"context"
	"errors"
	"log/slog"

	"concours/internal/registration/models"
	"concours/internal/registration/sequence"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

// Service is the registration entry point: it allocates the application
// number and creates the candidate row in one call.
type Service struct {
	store     Store
	allocator *sequence.Allocator
	logger    *slog.Logger
}

func NewService(store Store, allocator *sequence.Allocator, logger *slog.Logger) *Service {
	return &Service{store: store, allocator: allocator, logger: logger}
}

// RegisterInput carries the identity fields collected at registration time.
type RegisterInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
	FeeExempt bool
}

// Register allocates an application number and creates the candidate. The
// allocation is not rolled back if the insert fails; a gap in the daily
// sequence is acceptable, a duplicate is not.
func (s *Service) Register(ctx context.Context, input RegisterInput) (models.Candidate, error) {
	number, err := s.allocator.NextApplicationNumber(ctx)
	if err != nil {
		return models.Candidate{}, err
	}

	candidate, err := models.NewCandidate(number, input.FirstName, input.LastName, input.Email, input.Phone, input.FeeExempt, requestcontext.Now(ctx))
	if err != nil {
		return models.Candidate{}, err
	}

	if err := s.store.Create(ctx, candidate); err != nil {
		return models.Candidate{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "create candidate")
	}

	s.logger.InfoContext(ctx, "candidate registered",
		"candidate_id", candidate.ID.String(),
		"application_number", candidate.ApplicationNumber,
	)
	return candidate, nil
}

// ByID loads one candidate.
func (s *Service) ByID(ctx context.Context, id domain.CandidateID) (models.Candidate, error) {
	candidate, err := s.store.FindByID(ctx, id)
	if err != nil {
		return models.Candidate{}, translateLookup(err)
	}
	return candidate, nil
}

// ByRef resolves a candidate from either form of external reference: the
// candidate id or the application number. Legacy call paths pass either, and
// both must land on the same row.
func (s *Service) ByRef(ctx context.Context, ref string) (models.Candidate, error) {
	if id, err := domain.ParseCandidateID(ref); err == nil {
		return s.ByID(ctx, id)
	}
	candidate, err := s.store.FindByApplicationNumber(ctx, ref)
	if err != nil {
		return models.Candidate{}, translateLookup(err)
	}
	return candidate, nil
}

// ProfileInput carries the editable non-lifecycle fields.
type ProfileInput struct {
	FirstName string
	LastName  string
	Email     string
	Phone     string
}

// UpdateProfile edits identity fields only. Status and stage never move
// through this path.
func (s *Service) UpdateProfile(ctx context.Context, id domain.CandidateID, input ProfileInput) (models.Candidate, error) {
	candidate, err := s.ByID(ctx, id)
	if err != nil {
		return models.Candidate{}, err
	}

	candidate.FirstName = input.FirstName
	candidate.LastName = input.LastName
	candidate.Email = input.Email
	candidate.Phone = input.Phone
	candidate.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.UpdateProfile(ctx, candidate); err != nil {
		return models.Candidate{}, translateLookup(err)
	}
	return s.store.FindByID(ctx, id)
}

func translateLookup(err error) error {
	if errors.Is(err, sentinel.ErrNotFound) {
		return derrors.New(derrors.CodeNotFound, "candidate not found")
	}
	return derrors.Wrap(err, derrors.CodeStoreUnavailable, "candidate lookup")
}
