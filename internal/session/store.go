package session

import (
	"context"
	"time"

	"concours/pkg/domain"
)

// Store persists sessions, keyed by token. Create returns
// sentinel.ErrConflict on a token collision so the manager can retry with a
// fresh token.
type Store interface {
	Create(ctx context.Context, session Session) error
	FindByToken(ctx context.Context, token string) (Session, error)
	// FindLiveByCandidate returns the candidate's non-expired session, or
	// sentinel.ErrNotFound. At most one exists by construction.
	FindLiveByCandidate(ctx context.Context, candidateID domain.CandidateID) (Session, error)
	UpdateExpiry(ctx context.Context, token string, expiresAt time.Time) error
	DeleteByToken(ctx context.Context, token string) error
	// DeleteExpired removes every session past its expiry and reports the
	// count. Safe to run concurrently with everything else.
	DeleteExpired(ctx context.Context) (int64, error)
}
