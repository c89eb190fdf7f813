package documents

import (
	"context"
	"errors"
	"log/slog"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours/internal/registration/models"
	"concours/internal/storage"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
)

// reevalRecorder stands in for the completion coordinator.
type reevalRecorder struct {
	mu    sync.Mutex
	calls []domain.CandidateID
	err   error
}

func (r *reevalRecorder) Reevaluate(_ context.Context, candidateID domain.CandidateID) error {
	r.mu.Lock()
	defer r.mu.Unlock()
	r.calls = append(r.calls, candidateID)
	return r.err
}

func (r *reevalRecorder) count() int {
	r.mu.Lock()
	defer r.mu.Unlock()
	return len(r.calls)
}

type documentHarness struct {
	service   *Service
	store     *MemoryStore
	blobs     *storage.Memory
	reevals   *reevalRecorder
	candidate domain.CandidateID
	ctx       context.Context
}

func newDocumentHarness() *documentHarness {
	h := &documentHarness{
		store:     NewMemoryStore(),
		blobs:     storage.NewMemory(),
		reevals:   &reevalRecorder{},
		candidate: domain.NewCandidateID(),
		ctx:       requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC)),
	}
	h.service = NewService(h.store, h.reevals, h.blobs, slog.New(slog.DiscardHandler))
	return h
}

func (h *documentHarness) upload(t *testing.T) domain.DocumentID {
	t.Helper()
	id, err := h.service.RecordUpload(h.ctx, h.candidate, models.DocKindDiploma, "mem://initial")
	require.NoError(t, err)
	return id
}

func TestServiceRecordUpload(t *testing.T) {
	t.Run("registers a pending document and triggers a reevaluation", func(t *testing.T) {
		h := newDocumentHarness()

		id := h.upload(t)

		document, err := h.store.FindByID(h.ctx, id)
		require.NoError(t, err)
		assert.Equal(t, models.DocPending, document.State)
		assert.Equal(t, h.candidate, document.CandidateID)
		assert.Equal(t, 1, h.reevals.count())
	})

	t.Run("rejects a missing kind", func(t *testing.T) {
		h := newDocumentHarness()

		_, err := h.service.RecordUpload(h.ctx, h.candidate, "", "mem://x")
		assert.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
		assert.Zero(t, h.reevals.count())
	})

	t.Run("succeeds even when the reevaluation fails", func(t *testing.T) {
		h := newDocumentHarness()
		h.reevals.err = errors.New("coordinator down")

		id, err := h.service.RecordUpload(h.ctx, h.candidate, models.DocKindPhoto, "mem://photo")
		require.NoError(t, err)
		assert.False(t, id.IsNil())
	})
}

func TestServiceSetValidation(t *testing.T) {
	t.Run("rejection stores the reviewer comment", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)

		document, err := h.service.SetValidation(h.ctx, id, models.DocRejected, "blurry scan")
		require.NoError(t, err)
		assert.Equal(t, models.DocRejected, document.State)
		assert.Equal(t, "blurry scan", document.Comment)
		assert.Equal(t, 2, h.reevals.count())
	})

	t.Run("approval clears any previous comment", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)

		_, err := h.service.SetValidation(h.ctx, id, models.DocRejected, "blurry scan")
		require.NoError(t, err)

		document, err := h.service.SetValidation(h.ctx, id, models.DocValid, "ignored")
		require.NoError(t, err)
		assert.Equal(t, models.DocValid, document.State)
		assert.Empty(t, document.Comment)
	})

	t.Run("a validated document is immutable", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)

		_, err := h.service.SetValidation(h.ctx, id, models.DocValid, "")
		require.NoError(t, err)

		_, err = h.service.SetValidation(h.ctx, id, models.DocRejected, "changed my mind")
		assert.True(t, derrors.HasCode(err, derrors.CodeInvalidTransition))
	})

	t.Run("unknown state", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)

		_, err := h.service.SetValidation(h.ctx, id, "approved", "")
		assert.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
	})

	t.Run("unknown document", func(t *testing.T) {
		h := newDocumentHarness()

		_, err := h.service.SetValidation(h.ctx, domain.NewDocumentID(), models.DocValid, "")
		assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
	})
}

func TestServiceReplace(t *testing.T) {
	t.Run("resets a rejected document for a fresh review", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)
		_, err := h.service.SetValidation(h.ctx, id, models.DocRejected, "blurry scan")
		require.NoError(t, err)

		ref, err := h.blobs.Put(h.ctx, []byte("new bytes"), storage.Metadata{FileName: "diploma.pdf"})
		require.NoError(t, err)

		document, err := h.service.Replace(h.ctx, id, ref)
		require.NoError(t, err)
		assert.Equal(t, models.DocPending, document.State)
		assert.Equal(t, ref, document.StorageRef)
		assert.Empty(t, document.Comment)
		assert.Equal(t, 3, h.reevals.count())
	})

	t.Run("a validated document cannot be replaced", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)
		_, err := h.service.SetValidation(h.ctx, id, models.DocValid, "")
		require.NoError(t, err)

		ref, err := h.blobs.Put(h.ctx, []byte("new bytes"), storage.Metadata{})
		require.NoError(t, err)

		_, err = h.service.Replace(h.ctx, id, ref)
		assert.True(t, derrors.HasCode(err, derrors.CodeNotReplaceable))
	})

	t.Run("the replacement ref must resolve in storage", func(t *testing.T) {
		h := newDocumentHarness()
		id := h.upload(t)

		_, err := h.service.Replace(h.ctx, id, "mem://nowhere")
		assert.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
	})
}

func TestServiceListByCandidate(t *testing.T) {
	h := newDocumentHarness()
	first := h.upload(t)

	h.ctx = requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 10, 0, 0, 0, time.UTC))
	second, err := h.service.RecordUpload(h.ctx, h.candidate, models.DocKindPhoto, "mem://photo")
	require.NoError(t, err)

	documents, err := h.service.ListByCandidate(h.ctx, h.candidate)
	require.NoError(t, err)
	require.Len(t, documents, 2)
	assert.Equal(t, first, documents[0].ID, "oldest first")
	assert.Equal(t, second, documents[1].ID)

	none, err := h.service.ListByCandidate(h.ctx, domain.NewCandidateID())
	require.NoError(t, err)
	assert.Empty(t, none)
}
