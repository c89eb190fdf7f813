package models

import (
	"time"

	"concours/pkg/derrors"
	"concours/pkg/domain"
)

// ValidationState is a reviewer's verdict on a single document.
type ValidationState string

const (
	DocPending  ValidationState = "pending"
	DocValid    ValidationState = "valid"
	DocRejected ValidationState = "rejected"
)

// Document kinds accepted by the platform.
const (
	DocKindIdentity      = "identity"
	DocKindDiploma       = "diploma"
	DocKindPhoto         = "photo"
	DocKindBirthCert     = "birth_certificate"
	DocKindMedicalReport = "medical_report"
)

// Document is one uploaded piece of evidence attached to an application.
// StorageRef is an opaque handle into the external document store.
type Document struct {
	ID          domain.DocumentID  `db:"id"`
	CandidateID domain.CandidateID `db:"candidate_id"`
	Kind        string             `db:"kind"`
	StorageRef  string             `db:"storage_ref"`
	State       ValidationState    `db:"validation_state"`
	Comment     string             `db:"comment"`
	CreatedAt   time.Time          `db:"created_at"`
	UpdatedAt   time.Time          `db:"updated_at"`
}

// NewDocument builds a pending document for the given candidate.
func NewDocument(candidateID domain.CandidateID, kind, storageRef string, now time.Time) (Document, error) {
	if candidateID.IsNil() {
		return Document{}, derrors.New(derrors.CodeBadRequest, "candidate id required")
	}
	if kind == "" {
		return Document{}, derrors.New(derrors.CodeBadRequest, "document kind required")
	}
	if storageRef == "" {
		return Document{}, derrors.New(derrors.CodeBadRequest, "storage ref required")
	}
	return Document{
		ID:          domain.NewDocumentID(),
		CandidateID: candidateID,
		Kind:        kind,
		StorageRef:  storageRef,
		State:       DocPending,
		CreatedAt:   now,
		UpdatedAt:   now,
	}, nil
}

// ValidValidationState reports whether s is a known verdict.
func ValidValidationState(s ValidationState) bool {
	switch s {
	case DocPending, DocValid, DocRejected:
		return true
	}
	return false
}
