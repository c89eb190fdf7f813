package models

// Stage is the derived lifecycle position of an application. It is computed
// from document and payment state, never stored as a source of truth; the
// candidates table only caches it for listing screens.
type Stage string

const (
	StageRegistration Stage = "registration"
	StageDocuments    Stage = "documents"
	StagePayment      Stage = "payment"
	StageComplete     Stage = "complete"
)
