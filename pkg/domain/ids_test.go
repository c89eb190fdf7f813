package domain

import (
	"encoding/json"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestParseCandidateID(t *testing.T) {
	t.Run("round trip", func(t *testing.T) {
		id := NewCandidateID()
		parsed, err := ParseCandidateID(id.String())
		require.NoError(t, err)
		assert.Equal(t, id, parsed)
	})

	t.Run("rejects garbage", func(t *testing.T) {
		_, err := ParseCandidateID("20260830-1")
		assert.Error(t, err)
	})

	t.Run("rejects empty", func(t *testing.T) {
		_, err := ParseCandidateID("")
		assert.Error(t, err)
	})
}

func TestIsNil(t *testing.T) {
	assert.True(t, CandidateID{}.IsNil())
	assert.True(t, DocumentID{}.IsNil())
	assert.True(t, PaymentID{}.IsNil())
	assert.True(t, SessionID{}.IsNil())

	assert.False(t, NewCandidateID().IsNil())
	assert.False(t, NewDocumentID().IsNil())
	assert.False(t, NewPaymentID().IsNil())
	assert.False(t, NewSessionID().IsNil())
}

func TestIDJSONRoundTrip(t *testing.T) {
	type wrapper struct {
		Candidate CandidateID `json:"candidate"`
		Document  DocumentID  `json:"document"`
	}
	in := wrapper{Candidate: NewCandidateID(), Document: NewDocumentID()}

	raw, err := json.Marshal(in)
	require.NoError(t, err)
	assert.Contains(t, string(raw), in.Candidate.String(), "ids serialize as canonical uuid strings")

	var out wrapper
	require.NoError(t, json.Unmarshal(raw, &out))
	assert.Equal(t, in, out)
}
