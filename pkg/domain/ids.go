// Package domain holds the typed identifiers shared across the registration
// engine. Wrapping uuid.UUID per entity keeps a document id from being passed
// where a candidate id is expected.
package domain

import (
	"fmt"

	"github.com/google/uuid"
)

type (
	CandidateID uuid.UUID
	DocumentID  uuid.UUID
	PaymentID   uuid.UUID
	SessionID   uuid.UUID
)

func NewCandidateID() CandidateID { return CandidateID(uuid.New()) }
func NewDocumentID() DocumentID   { return DocumentID(uuid.New()) }
func NewPaymentID() PaymentID     { return PaymentID(uuid.New()) }
func NewSessionID() SessionID     { return SessionID(uuid.New()) }

func (id CandidateID) String() string { return uuid.UUID(id).String() }
func (id DocumentID) String() string  { return uuid.UUID(id).String() }
func (id PaymentID) String() string   { return uuid.UUID(id).String() }
func (id SessionID) String() string   { return uuid.UUID(id).String() }

func (id CandidateID) IsNil() bool { return uuid.UUID(id) == uuid.Nil }
func (id DocumentID) IsNil() bool  { return uuid.UUID(id) == uuid.Nil }
func (id PaymentID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }
func (id SessionID) IsNil() bool   { return uuid.UUID(id) == uuid.Nil }

// Text marshaling keeps the ids in canonical uuid form wherever they cross a
// serialization boundary (JSON bodies, Redis payloads, outbox events).

func (id CandidateID) MarshalText() ([]byte, error) { return []byte(id.String()), nil }
func (id DocumentID) MarshalText() ([]byte, error)  { return []byte(id.String()), nil }
func (id PaymentID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }
func (id SessionID) MarshalText() ([]byte, error)   { return []byte(id.String()), nil }

func (id *CandidateID) UnmarshalText(b []byte) error {
	parsed, err := ParseCandidateID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *DocumentID) UnmarshalText(b []byte) error {
	parsed, err := ParseDocumentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *PaymentID) UnmarshalText(b []byte) error {
	parsed, err := ParsePaymentID(string(b))
	if err != nil {
		return err
	}
	*id = parsed
	return nil
}

func (id *SessionID) UnmarshalText(b []byte) error {
	u, err := uuid.Parse(string(b))
	if err != nil {
		return fmt.Errorf("parse session id: %w", err)
	}
	*id = SessionID(u)
	return nil
}

// ParseCandidateID validates and returns a CandidateID from its string form.
func ParseCandidateID(s string) (CandidateID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return CandidateID{}, fmt.Errorf("parse candidate id: %w", err)
	}
	return CandidateID(u), nil
}

// ParseDocumentID validates and returns a DocumentID from its string form.
func ParseDocumentID(s string) (DocumentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return DocumentID{}, fmt.Errorf("parse document id: %w", err)
	}
	return DocumentID(u), nil
}

// ParsePaymentID validates and returns a PaymentID from its string form.
func ParsePaymentID(s string) (PaymentID, error) {
	u, err := uuid.Parse(s)
	if err != nil {
		return PaymentID{}, fmt.Errorf("parse payment id: %w", err)
	}
	return PaymentID(u), nil
}
