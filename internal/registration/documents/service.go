package documents

import (
	"context"
	"errors"
	"log/slog"

	"concours/internal/registration/models"
	"concours/internal/storage"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

// Reevaluator is the completion coordinator as seen from the document side.
type Reevaluator interface {
	Reevaluate(ctx context.Context, candidateID domain.CandidateID) error
}

// Service is the document ledger: it records uploads, applies reviewer
// verdicts and candidate-initiated replacements, and triggers a completion
// reevaluation after every successful mutation.
type Service struct {
	store      Store
	completion Reevaluator
	storage    storage.DocumentStore
	logger     *slog.Logger
}

func NewService(store Store, completion Reevaluator, docStore storage.DocumentStore, logger *slog.Logger) *Service {
	return &Service{store: store, completion: completion, storage: docStore, logger: logger}
}

// RecordUpload registers a freshly uploaded document in pending state.
func (s *Service) RecordUpload(ctx context.Context, candidateID domain.CandidateID, kind, storageRef string) (domain.DocumentID, error) {
	document, err := models.NewDocument(candidateID, kind, storageRef, requestcontext.Now(ctx))
	if err != nil {
		return domain.DocumentID{}, err
	}

	if err := s.store.Create(ctx, document); err != nil {
		return domain.DocumentID{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "record upload")
	}

	s.reevaluate(ctx, candidateID)
	return document.ID, nil
}

// SetValidation applies a reviewer verdict. A document already marked valid
// is immutable; re-opening it is an explicit administrative action this
// service does not offer.
func (s *Service) SetValidation(ctx context.Context, id domain.DocumentID, state models.ValidationState, comment string) (models.Document, error) {
	if !models.ValidValidationState(state) {
		return models.Document{}, derrors.Newf(derrors.CodeBadRequest, "unknown validation state %q", state)
	}

	document, err := s.byID(ctx, id)
	if err != nil {
		return models.Document{}, err
	}
	if document.State == models.DocValid {
		return models.Document{}, derrors.New(derrors.CodeInvalidTransition, "document already validated")
	}

	document.State = state
	if state == models.DocRejected {
		document.Comment = comment
	} else {
		document.Comment = ""
	}
	document.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, document); err != nil {
		return models.Document{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "set validation")
	}

	s.reevaluate(ctx, document.CandidateID)
	return document, nil
}

// Replace swaps the stored file behind a pending or rejected document and
// resets it for a fresh review. Validated documents cannot be replaced.
func (s *Service) Replace(ctx context.Context, id domain.DocumentID, newStorageRef string) (models.Document, error) {
	document, err := s.byID(ctx, id)
	if err != nil {
		return models.Document{}, err
	}
	if document.State == models.DocValid {
		return models.Document{}, derrors.New(derrors.CodeNotReplaceable, "validated document cannot be replaced")
	}

	exists, err := s.storage.Exists(ctx, newStorageRef)
	if err != nil {
		return models.Document{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "check storage ref")
	}
	if !exists {
		return models.Document{}, derrors.Newf(derrors.CodeBadRequest, "unknown storage ref %q", newStorageRef)
	}

	document.StorageRef = newStorageRef
	document.State = models.DocPending
	document.Comment = ""
	document.UpdatedAt = requestcontext.Now(ctx)

	if err := s.store.Update(ctx, document); err != nil {
		return models.Document{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "replace document")
	}

	s.reevaluate(ctx, document.CandidateID)
	return document, nil
}

// ListByCandidate returns a candidate's documents, oldest first.
func (s *Service) ListByCandidate(ctx context.Context, candidateID domain.CandidateID) ([]models.Document, error) {
	documents, err := s.store.ListByCandidate(ctx, candidateID)
	if err != nil {
		return nil, derrors.Wrap(err, derrors.CodeStoreUnavailable, "list documents")
	}
	return documents, nil
}

func (s *Service) byID(ctx context.Context, id domain.DocumentID) (models.Document, error) {
	document, err := s.store.FindByID(ctx, id)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return models.Document{}, derrors.New(derrors.CodeNotFound, "document not found")
		}
		return models.Document{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "find document")
	}
	return document, nil
}

// reevaluate is best-effort: a failed reevaluation is logged and left for the
// next triggering write, it never fails the mutation that succeeded.
func (s *Service) reevaluate(ctx context.Context, candidateID domain.CandidateID) {
	if err := s.completion.Reevaluate(ctx, candidateID); err != nil {
		s.logger.WarnContext(ctx, "completion reevaluation failed, will retry on next write",
			"error", err,
			"candidate_id", candidateID.String(),
		)
	}
}
