package session

import (
	"time"

	"concours/pkg/domain"
)

// Session is a short-lived authentication handle. CandidateID is nil for
// placeholder sessions created before the application number could be
// resolved; those are never equivalent to an identified session in
// authorization checks.
type Session struct {
	ID          domain.SessionID
	CandidateID *domain.CandidateID
	Token       string
	ExpiresAt   time.Time
	CreatedAt   time.Time
}

// Authenticated reports whether the session is bound to a known candidate.
func (s Session) Authenticated() bool { return s.CandidateID != nil }

// Live reports whether the session has not yet expired at the given instant.
func (s Session) Live(now time.Time) bool { return s.ExpiresAt.After(now) }
