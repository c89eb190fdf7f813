package completion

import (
	"context"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours/internal/outbox"
	"concours/internal/registration/candidates"
	"concours/internal/registration/documents"
	"concours/internal/registration/models"
	"concours/internal/registration/payments"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
)

type coordinatorHarness struct {
	candidates  *candidates.MemoryStore
	documents   *documents.MemoryStore
	payments    *payments.MemoryStore
	outbox      *outbox.Memory
	coordinator *Coordinator
}

func newCoordinatorHarness() *coordinatorHarness {
	h := &coordinatorHarness{
		candidates: candidates.NewMemoryStore(),
		documents:  documents.NewMemoryStore(),
		payments:   payments.NewMemoryStore(),
		outbox:     outbox.NewMemory(),
	}
	h.coordinator = NewCoordinator(h.candidates, h.documents, h.payments, h.outbox, slog.New(slog.DiscardHandler), nil)
	return h
}

func (h *coordinatorHarness) seedCandidate(t *testing.T, now time.Time) models.Candidate {
	t.Helper()
	candidate, err := models.NewCandidate("20260830-1", "Ada", "Lovelace", "ada@example.com", "", false, now)
	require.NoError(t, err)
	require.NoError(t, h.candidates.Create(context.Background(), candidate))
	return candidate
}

func (h *coordinatorHarness) seedDocument(t *testing.T, candidateID domain.CandidateID, state models.ValidationState, now time.Time) {
	t.Helper()
	document, err := models.NewDocument(candidateID, models.DocKindIdentity, "mem://doc", now)
	require.NoError(t, err)
	document.State = state
	require.NoError(t, h.documents.Create(context.Background(), document))
}

func (h *coordinatorHarness) seedPayment(t *testing.T, candidateID domain.CandidateID, state models.PaymentState, now time.Time) {
	t.Helper()
	payment, err := models.NewPayment(candidateID, 5000, models.MethodManual, "ref-1", false, now)
	require.NoError(t, err)
	payment.State = state
	require.NoError(t, h.payments.Create(context.Background(), payment))
}

func TestCoordinatorReevaluate(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	t.Run("unknown candidate", func(t *testing.T) {
		h := newCoordinatorHarness()
		err := h.coordinator.Reevaluate(ctx, domain.NewCandidateID())
		assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
	})

	t.Run("caches the resolved stage on the candidate", func(t *testing.T) {
		h := newCoordinatorHarness()
		candidate := h.seedCandidate(t, now)
		h.seedDocument(t, candidate.ID, models.DocPending, now)

		require.NoError(t, h.coordinator.Reevaluate(ctx, candidate.ID))

		reloaded, err := h.candidates.FindByID(ctx, candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageDocuments, reloaded.Stage)
		assert.Equal(t, models.StatusPending, reloaded.Status)
		assert.Empty(t, h.outbox.ListByCandidate(candidate.ID))
	})

	t.Run("incomplete application never promotes", func(t *testing.T) {
		h := newCoordinatorHarness()
		candidate := h.seedCandidate(t, now)
		h.seedDocument(t, candidate.ID, models.DocValid, now)
		h.seedPayment(t, candidate.ID, models.PaymentPending, now)

		require.NoError(t, h.coordinator.Reevaluate(ctx, candidate.ID))

		reloaded, err := h.candidates.FindByID(ctx, candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StagePayment, reloaded.Stage)
		assert.Equal(t, models.StatusPending, reloaded.Status)
		assert.Empty(t, h.outbox.ListByCandidate(candidate.ID))
	})

	t.Run("complete application promotes and notifies once", func(t *testing.T) {
		h := newCoordinatorHarness()
		candidate := h.seedCandidate(t, now)
		h.seedDocument(t, candidate.ID, models.DocValid, now)
		h.seedPayment(t, candidate.ID, models.PaymentValid, now)

		require.NoError(t, h.coordinator.Reevaluate(ctx, candidate.ID))

		reloaded, err := h.candidates.FindByID(ctx, candidate.ID)
		require.NoError(t, err)
		assert.Equal(t, models.StageComplete, reloaded.Stage)
		assert.Equal(t, models.StatusValidated, reloaded.Status)

		events := h.outbox.ListByCandidate(candidate.ID)
		require.Len(t, events, 1)
		assert.Equal(t, outbox.KindCandidatureValidated, events[0].Kind)
		assert.Equal(t, candidate.ApplicationNumber, events[0].Payload["application_number"])
	})

	t.Run("reevaluating a validated candidate is a no-op", func(t *testing.T) {
		h := newCoordinatorHarness()
		candidate := h.seedCandidate(t, now)
		h.seedDocument(t, candidate.ID, models.DocValid, now)
		h.seedPayment(t, candidate.ID, models.PaymentValid, now)

		require.NoError(t, h.coordinator.Reevaluate(ctx, candidate.ID))
		require.NoError(t, h.coordinator.Reevaluate(ctx, candidate.ID))

		assert.Len(t, h.outbox.ListByCandidate(candidate.ID), 1)
	})
}

func TestCoordinatorPromotesAtMostOnceUnderConcurrency(t *testing.T) {
	now := time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC)
	ctx := requestcontext.WithTime(context.Background(), now)

	h := newCoordinatorHarness()
	candidate := h.seedCandidate(t, now)
	h.seedDocument(t, candidate.ID, models.DocValid, now)
	h.seedPayment(t, candidate.ID, models.PaymentValid, now)

	const callers = 50
	var wg sync.WaitGroup
	errs := make(chan error, callers)
	for i := 0; i < callers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			errs <- h.coordinator.Reevaluate(ctx, candidate.ID)
		}()
	}
	wg.Wait()
	close(errs)

	for err := range errs {
		require.NoError(t, err)
	}

	reloaded, err := h.candidates.FindByID(ctx, candidate.ID)
	require.NoError(t, err)
	assert.Equal(t, models.StatusValidated, reloaded.Status)

	events := h.outbox.ListByCandidate(candidate.ID)
	require.Len(t, events, 1, "exactly one validation notification across all racing reevaluations")
	assert.Equal(t, outbox.KindCandidatureValidated, events[0].Kind)
}
