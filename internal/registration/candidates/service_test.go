package candidates

import (
	"context"
	"log/slog"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"concours/internal/registration/models"
	"concours/internal/registration/sequence"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
)

func newTestService() *Service {
	log := slog.New(slog.DiscardHandler)
	allocator := sequence.NewAllocator(sequence.NewMemoryCounterStore(), log, nil)
	return NewService(NewMemoryStore(), allocator, log)
}

func registerInput() RegisterInput {
	return RegisterInput{
		FirstName: "Ada",
		LastName:  "Lovelace",
		Email:     "ada@example.com",
		Phone:     "+24106000001",
	}
}

func TestServiceRegister(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))

	t.Run("creates a pending candidate with an allocated number", func(t *testing.T) {
		svc := newTestService()

		candidate, err := svc.Register(ctx, registerInput())
		require.NoError(t, err)
		assert.Equal(t, "20260830-1", candidate.ApplicationNumber)
		assert.Equal(t, models.StatusPending, candidate.Status)
		assert.Equal(t, models.StageRegistration, candidate.Stage)
		assert.False(t, candidate.FeeExempt)

		next, err := svc.Register(ctx, RegisterInput{FirstName: "Alan", LastName: "Turing", Email: "alan@example.com"})
		require.NoError(t, err)
		assert.Equal(t, "20260830-2", next.ApplicationNumber)
	})

	t.Run("rejects an invalid email", func(t *testing.T) {
		svc := newTestService()
		input := registerInput()
		input.Email = "not-an-email"

		_, err := svc.Register(ctx, input)
		assert.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
	})

	t.Run("rejects a blank name", func(t *testing.T) {
		svc := newTestService()
		input := registerInput()
		input.FirstName = "   "

		_, err := svc.Register(ctx, input)
		assert.True(t, derrors.HasCode(err, derrors.CodeBadRequest))
	})
}

func TestServiceByRef(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	svc := newTestService()

	candidate, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	t.Run("resolves by candidate id", func(t *testing.T) {
		found, err := svc.ByRef(ctx, candidate.ID.String())
		require.NoError(t, err)
		assert.Equal(t, candidate.ID, found.ID)
	})

	t.Run("resolves by application number", func(t *testing.T) {
		found, err := svc.ByRef(ctx, candidate.ApplicationNumber)
		require.NoError(t, err)
		assert.Equal(t, candidate.ID, found.ID)
	})

	t.Run("unknown reference", func(t *testing.T) {
		_, err := svc.ByRef(ctx, "20991231-42")
		assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
	})

	t.Run("well-formed uuid with no row", func(t *testing.T) {
		_, err := svc.ByRef(ctx, domain.NewCandidateID().String())
		assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
	})
}

func TestServiceUpdateProfile(t *testing.T) {
	ctx := requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 9, 0, 0, 0, time.UTC))
	svc := newTestService()

	candidate, err := svc.Register(ctx, registerInput())
	require.NoError(t, err)

	later := requestcontext.WithTime(context.Background(), time.Date(2026, 8, 30, 12, 0, 0, 0, time.UTC))
	updated, err := svc.UpdateProfile(later, candidate.ID, ProfileInput{
		FirstName: "Augusta",
		LastName:  "King",
		Email:     "augusta@example.com",
		Phone:     "+24106000002",
	})
	require.NoError(t, err)

	assert.Equal(t, "Augusta", updated.FirstName)
	assert.Equal(t, "King", updated.LastName)
	assert.Equal(t, "augusta@example.com", updated.Email)

	// lifecycle fields never move through profile edits
	assert.Equal(t, candidate.ApplicationNumber, updated.ApplicationNumber)
	assert.Equal(t, models.StatusPending, updated.Status)
	assert.Equal(t, models.StageRegistration, updated.Stage)
	assert.True(t, updated.UpdatedAt.After(candidate.UpdatedAt))

	t.Run("unknown candidate", func(t *testing.T) {
		_, err := svc.UpdateProfile(ctx, domain.NewCandidateID(), ProfileInput{FirstName: "X", LastName: "Y", Email: "x@y.z"})
		assert.True(t, derrors.HasCode(err, derrors.CodeNotFound))
	})
}
