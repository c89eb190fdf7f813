package httptransport

import (
	"net/http"
	"time"

	"concours/internal/session"
)

type sessionResponse struct {
	Token         string `json:"token"`
	CandidateID   string `json:"candidate_id,omitempty"`
	ExpiresAt     string `json:"expires_at"`
	Authenticated bool   `json:"authenticated"`
}

func toSessionResponse(s session.Session) sessionResponse {
	resp := sessionResponse{
		Token:         s.Token,
		ExpiresAt:     s.ExpiresAt.UTC().Format(time.RFC3339),
		Authenticated: s.Authenticated(),
	}
	if s.CandidateID != nil {
		resp.CandidateID = s.CandidateID.String()
	}
	return resp
}

func (h *Handler) handleCreateOrExtend(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateRef string `json:"candidate_ref"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	created, err := h.sessions.CreateOrExtend(r.Context(), req.CandidateRef)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toSessionResponse(created))
}

func (h *Handler) handleValidateSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	found, candidate, err := h.sessions.Validate(r.Context(), req.Token)
	if err != nil {
		writeError(w, err)
		return
	}

	body := map[string]any{"session": toSessionResponse(found)}
	if candidate != nil {
		body["candidate"] = toCandidateResponse(*candidate)
	}
	respond(w, http.StatusOK, body)
}

func (h *Handler) handleExtendSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
		Hours int    `json:"hours"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	extended, err := h.sessions.Extend(r.Context(), req.Token, req.Hours)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toSessionResponse(extended))
}

func (h *Handler) handleRevokeSession(w http.ResponseWriter, r *http.Request) {
	var req struct {
		Token string `json:"token"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	if err := h.sessions.Revoke(r.Context(), req.Token); err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusNoContent, nil)
}
