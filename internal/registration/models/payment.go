package models

import (
	"time"

	"concours/pkg/derrors"
	"concours/pkg/domain"
)

// PaymentState is the outcome of a payment attempt as reported by the gateway
// or by a manual admin confirmation.
type PaymentState string

const (
	PaymentPending PaymentState = "pending"
	PaymentValid   PaymentState = "valid"
	PaymentFailed  PaymentState = "failed"
)

// Payment methods known to the platform. The gateway wire formats themselves
// live outside the engine.
const (
	MethodCinetPay = "cinetpay"
	MethodMyPVIT   = "mypvit"
	MethodManual   = "manual"
	MethodExempt   = "exempt"
)

// Payment is one fee payment attempt. Amount is in minor currency units.
// Only the most recently created payment for a candidate is authoritative.
type Payment struct {
	ID          domain.PaymentID   `db:"id"`
	CandidateID domain.CandidateID `db:"candidate_id"`
	Amount      int64              `db:"amount"`
	Method      string             `db:"method"`
	Reference   string             `db:"reference"`
	State       PaymentState       `db:"state"`
	CreatedAt   time.Time          `db:"created_at"`
}

// NewPayment builds a pending payment attempt, enforcing the fee invariant at
// construction: exempt applications pay exactly zero, everyone else pays a
// positive amount.
func NewPayment(candidateID domain.CandidateID, amount int64, method, reference string, feeExempt bool, now time.Time) (Payment, error) {
	if candidateID.IsNil() {
		return Payment{}, derrors.New(derrors.CodeBadRequest, "candidate id required")
	}
	if reference == "" {
		return Payment{}, derrors.New(derrors.CodeBadRequest, "payment reference required")
	}
	if feeExempt {
		if amount != 0 {
			return Payment{}, derrors.Newf(derrors.CodeInvalidAmount, "fee-exempt application must pay 0, got %d", amount)
		}
	} else if amount <= 0 {
		return Payment{}, derrors.Newf(derrors.CodeInvalidAmount, "amount must be positive, got %d", amount)
	}
	return Payment{
		ID:          domain.NewPaymentID(),
		CandidateID: candidateID,
		Amount:      amount,
		Method:      method,
		Reference:   reference,
		State:       PaymentPending,
		CreatedAt:   now,
	}, nil
}

// ValidPaymentState reports whether s is a known payment state.
func ValidPaymentState(s PaymentState) bool {
	switch s {
	case PaymentPending, PaymentValid, PaymentFailed:
		return true
	}
	return false
}
