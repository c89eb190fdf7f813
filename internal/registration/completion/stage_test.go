package completion

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"concours/internal/registration/models"
)

func TestResolveStage(t *testing.T) {
	doc := func(state models.ValidationState) models.Document {
		return models.Document{State: state}
	}
	payment := func(state models.PaymentState) *models.Payment {
		return &models.Payment{State: state}
	}

	tests := []struct {
		name      string
		documents []models.Document
		payment   *models.Payment
		want      models.Stage
	}{
		{
			name:      "no documents means registration",
			documents: nil,
			payment:   nil,
			want:      models.StageRegistration,
		},
		{
			name:      "no documents ignores payment",
			documents: nil,
			payment:   payment(models.PaymentValid),
			want:      models.StageRegistration,
		},
		{
			name:      "all documents valid without payment means payment",
			documents: []models.Document{doc(models.DocValid)},
			payment:   nil,
			want:      models.StagePayment,
		},
		{
			name:      "pending document blocks at documents",
			documents: []models.Document{doc(models.DocPending)},
			payment:   nil,
			want:      models.StageDocuments,
		},
		{
			name:      "rejected document blocks at documents even when paid",
			documents: []models.Document{doc(models.DocValid), doc(models.DocRejected)},
			payment:   payment(models.PaymentValid),
			want:      models.StageDocuments,
		},
		{
			name:      "pending payment does not complete",
			documents: []models.Document{doc(models.DocValid)},
			payment:   payment(models.PaymentPending),
			want:      models.StagePayment,
		},
		{
			name:      "failed payment does not complete",
			documents: []models.Document{doc(models.DocValid)},
			payment:   payment(models.PaymentFailed),
			want:      models.StagePayment,
		},
		{
			name:      "all valid and paid means complete",
			documents: []models.Document{doc(models.DocValid)},
			payment:   payment(models.PaymentValid),
			want:      models.StageComplete,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			assert.Equal(t, tt.want, ResolveStage(tt.documents, tt.payment))
		})
	}
}

func TestResolveStageIsPure(t *testing.T) {
	documents := []models.Document{{State: models.DocValid}, {State: models.DocRejected}}
	payment := &models.Payment{State: models.PaymentValid}

	first := ResolveStage(documents, payment)
	second := ResolveStage(documents, payment)

	assert.Equal(t, first, second)
	assert.Equal(t, models.DocValid, documents[0].State, "resolver must not mutate its inputs")
	assert.Equal(t, models.PaymentValid, payment.State, "resolver must not mutate its inputs")
}
