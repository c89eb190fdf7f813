package models

import (
	"strings"
	"time"

	"concours/pkg/derrors"
	"concours/pkg/domain"
)

// CandidateStatus is the lifecycle status of an application. The only
// engineered transition is pending -> validated; there is no reverse edge.
type CandidateStatus string

const (
	StatusPending   CandidateStatus = "pending"
	StatusValidated CandidateStatus = "validated"
)

// Candidate is an applicant with an assigned application number. Status is
// mutated only through the guarded promotion in the completion coordinator;
// Stage is a cached copy of the derived lifecycle stage.
type Candidate struct {
	ID                domain.CandidateID `db:"id"`
	FirstName         string             `db:"first_name"`
	LastName          string             `db:"last_name"`
	Email             string             `db:"email"`
	Phone             string             `db:"phone"`
	ApplicationNumber string             `db:"application_number"`
	Stage             Stage              `db:"stage"`
	Status            CandidateStatus    `db:"status"`
	FeeExempt         bool               `db:"fee_exempt"`
	CreatedAt         time.Time          `db:"created_at"`
	UpdatedAt         time.Time          `db:"updated_at"`
}

// NewCandidate builds a pending candidate with the given application number.
func NewCandidate(applicationNumber, firstName, lastName, email, phone string, feeExempt bool, now time.Time) (Candidate, error) {
	if applicationNumber == "" {
		return Candidate{}, derrors.New(derrors.CodeBadRequest, "application number required")
	}
	if strings.TrimSpace(firstName) == "" || strings.TrimSpace(lastName) == "" {
		return Candidate{}, derrors.New(derrors.CodeBadRequest, "candidate name required")
	}
	if !strings.Contains(email, "@") {
		return Candidate{}, derrors.New(derrors.CodeBadRequest, "valid email required")
	}
	return Candidate{
		ID:                domain.NewCandidateID(),
		FirstName:         strings.TrimSpace(firstName),
		LastName:          strings.TrimSpace(lastName),
		Email:             email,
		Phone:             phone,
		ApplicationNumber: applicationNumber,
		Stage:             StageRegistration,
		Status:            StatusPending,
		FeeExempt:         feeExempt,
		CreatedAt:         now,
		UpdatedAt:         now,
	}, nil
}
