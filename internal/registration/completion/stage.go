package completion

import "concours/internal/registration/models"

// ResolveStage derives the lifecycle stage of an application from the two
// reads it is given. Pure and deterministic; the only stage logic in the
// codebase, so every screen and report agrees on where a candidate stands.
//
// Evaluated in order, first match wins:
//  1. no documents            -> registration
//  2. payment absent/invalid  -> payment if all documents valid, else documents
//  3. all valid + paid        -> complete
//
// Rejected and pending documents are not distinguished here: both block
// progression past the documents stage. The distinction only matters in the
// per-document view.
func ResolveStage(documents []models.Document, payment *models.Payment) models.Stage {
	if len(documents) == 0 {
		return models.StageRegistration
	}

	allValid := true
	for _, document := range documents {
		if document.State != models.DocValid {
			allValid = false
			break
		}
	}

	paymentOK := payment != nil && payment.State == models.PaymentValid

	switch {
	case allValid && paymentOK:
		return models.StageComplete
	case allValid:
		return models.StagePayment
	default:
		return models.StageDocuments
	}
}
