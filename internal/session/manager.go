// Package session issues, extends, validates and revokes the short-lived
// authentication sessions candidates use between registration steps. The
// invariant is one non-expired session per candidate: a second login extends
// the existing session instead of minting a second token.
package session

import (
	"context"
	"errors"
	"log/slog"
	"time"

	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
	"concours/pkg/requestcontext"
	"concours/pkg/sentinel"
)

// DefaultTTL is the session lifetime when none is configured.
const DefaultTTL = 24 * time.Hour

// CandidateResolver resolves a candidate from an id or application number.
type CandidateResolver interface {
	ByRef(ctx context.Context, ref string) (models.Candidate, error)
}

// Metrics is the slice of process metrics the manager reports to.
type Metrics interface {
	IncSessionCreated()
	IncSessionExtended()
	AddSessionsPurged(n int64)
}

// Manager owns the session lifecycle.
type Manager struct {
	store      Store
	candidates CandidateResolver
	ttl        time.Duration
	logger     *slog.Logger
	metrics    Metrics
}

func NewManager(store Store, candidates CandidateResolver, ttl time.Duration, logger *slog.Logger, metrics Metrics) *Manager {
	if ttl <= 0 {
		ttl = DefaultTTL
	}
	return &Manager{store: store, candidates: candidates, ttl: ttl, logger: logger, metrics: metrics}
}

// CreateOrExtend returns a live session for the given candidate reference.
// An unknown reference still yields a session, bound to no candidate, so a
// login racing ahead of registration is not blocked; such placeholder
// sessions carry no authorization weight.
func (m *Manager) CreateOrExtend(ctx context.Context, candidateRef string) (Session, error) {
	now := requestcontext.Now(ctx)

	var candidateID *domain.CandidateID
	candidate, err := m.candidates.ByRef(ctx, candidateRef)
	switch {
	case err == nil:
		id := candidate.ID
		candidateID = &id
	case derrors.HasCode(err, derrors.CodeNotFound):
		m.logger.InfoContext(ctx, "creating placeholder session for unresolved candidate ref",
			"candidate_ref", candidateRef,
		)
	default:
		return Session{}, err
	}

	if candidateID != nil {
		existing, err := m.store.FindLiveByCandidate(ctx, *candidateID)
		switch {
		case err == nil:
			if err := m.store.UpdateExpiry(ctx, existing.Token, now.Add(m.ttl)); err != nil {
				return Session{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "extend session")
			}
			existing.ExpiresAt = now.Add(m.ttl)
			if m.metrics != nil {
				m.metrics.IncSessionExtended()
			}
			return existing, nil
		case errors.Is(err, sentinel.ErrNotFound):
			// fall through to create
		default:
			return Session{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "find live session")
		}
	}

	// One retry on the vanishingly rare token collision, then fail.
	for attempt := 0; attempt < 2; attempt++ {
		created := Session{
			ID:          domain.NewSessionID(),
			CandidateID: candidateID,
			Token:       newToken(),
			ExpiresAt:   now.Add(m.ttl),
			CreatedAt:   now,
		}
		err := m.store.Create(ctx, created)
		if err == nil {
			if m.metrics != nil {
				m.metrics.IncSessionCreated()
			}
			return created, nil
		}
		if !errors.Is(err, sentinel.ErrConflict) {
			return Session{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "create session")
		}
		m.logger.WarnContext(ctx, "session token collision, retrying with fresh token")
	}
	return Session{}, derrors.New(derrors.CodeInternal, "session token collision persisted after retry")
}

// Validate resolves a token to its session and, when the session is bound,
// its candidate. Placeholder sessions return a nil candidate; callers must
// not treat them as identified.
func (m *Manager) Validate(ctx context.Context, token string) (Session, *models.Candidate, error) {
	found, err := m.store.FindByToken(ctx, token)
	if err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return Session{}, nil, derrors.New(derrors.CodeNotFound, "session not found")
		}
		return Session{}, nil, derrors.Wrap(err, derrors.CodeStoreUnavailable, "find session")
	}
	if !found.Live(requestcontext.Now(ctx)) {
		return Session{}, nil, derrors.New(derrors.CodeSessionExpired, "session expired")
	}
	if found.CandidateID == nil {
		return found, nil, nil
	}

	candidate, err := m.candidates.ByRef(ctx, found.CandidateID.String())
	if err != nil {
		return Session{}, nil, err
	}
	return found, &candidate, nil
}

// Extend pushes a live session's expiry out by the given number of hours.
func (m *Manager) Extend(ctx context.Context, token string, hours int) (Session, error) {
	if hours <= 0 {
		return Session{}, derrors.New(derrors.CodeBadRequest, "extension hours must be positive")
	}

	found, _, err := m.Validate(ctx, token)
	if err != nil {
		return Session{}, err
	}

	expiresAt := requestcontext.Now(ctx).Add(time.Duration(hours) * time.Hour)
	if err := m.store.UpdateExpiry(ctx, token, expiresAt); err != nil {
		return Session{}, derrors.Wrap(err, derrors.CodeStoreUnavailable, "extend session")
	}
	found.ExpiresAt = expiresAt
	return found, nil
}

// Revoke deletes a session by token.
func (m *Manager) Revoke(ctx context.Context, token string) error {
	if err := m.store.DeleteByToken(ctx, token); err != nil {
		if errors.Is(err, sentinel.ErrNotFound) {
			return derrors.New(derrors.CodeNotFound, "session not found")
		}
		return derrors.Wrap(err, derrors.CodeStoreUnavailable, "revoke session")
	}
	return nil
}

// PurgeExpired removes every expired session and reports the count. Pure
// deletes on expires_at, so it is safe alongside live traffic.
func (m *Manager) PurgeExpired(ctx context.Context) (int64, error) {
	purged, err := m.store.DeleteExpired(ctx)
	if err != nil {
		return 0, derrors.Wrap(err, derrors.CodeStoreUnavailable, "purge expired sessions")
	}
	if purged > 0 {
		if m.metrics != nil {
			m.metrics.AddSessionsPurged(purged)
		}
		m.logger.InfoContext(ctx, "purged expired sessions", "count", purged)
	}
	return purged, nil
}
