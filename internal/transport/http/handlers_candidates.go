package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concours/internal/registration/candidates"
	"concours/internal/registration/completion"
	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
)

type registerRequest struct {
	FirstName string `json:"first_name"`
	LastName  string `json:"last_name"`
	Email     string `json:"email"`
	Phone     string `json:"phone"`
	FeeExempt bool   `json:"fee_exempt"`
}

type candidateResponse struct {
	ID                string `json:"id"`
	FirstName         string `json:"first_name"`
	LastName          string `json:"last_name"`
	Email             string `json:"email"`
	Phone             string `json:"phone"`
	ApplicationNumber string `json:"application_number"`
	Stage             string `json:"stage"`
	Status            string `json:"status"`
	FeeExempt         bool   `json:"fee_exempt"`
}

func toCandidateResponse(c models.Candidate) candidateResponse {
	return candidateResponse{
		ID:                c.ID.String(),
		FirstName:         c.FirstName,
		LastName:          c.LastName,
		Email:             c.Email,
		Phone:             c.Phone,
		ApplicationNumber: c.ApplicationNumber,
		Stage:             string(c.Stage),
		Status:            string(c.Status),
		FeeExempt:         c.FeeExempt,
	}
}

func (h *Handler) handleRegister(w http.ResponseWriter, r *http.Request) {
	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate, err := h.candidates.Register(r.Context(), candidates.RegisterInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
		FeeExempt: req.FeeExempt,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, toCandidateResponse(candidate))
}

func (h *Handler) handleCandidateByRef(w http.ResponseWriter, r *http.Request) {
	candidate, err := h.candidates.ByRef(r.Context(), chi.URLParam(r, "ref"))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toCandidateResponse(candidate))
}

func (h *Handler) handleUpdateProfile(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCandidateID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid candidate id"))
		return
	}

	var req registerRequest
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidate, err := h.candidates.UpdateProfile(r.Context(), id, candidates.ProfileInput{
		FirstName: req.FirstName,
		LastName:  req.LastName,
		Email:     req.Email,
		Phone:     req.Phone,
	})
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toCandidateResponse(candidate))
}

// handleCandidateStatus reports the derived stage together with the
// per-document and payment detail a stuck candidate needs to see what is
// outstanding. Never a raw error.
func (h *Handler) handleCandidateStatus(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCandidateID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid candidate id"))
		return
	}

	candidate, err := h.candidates.ByID(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	docs, err := h.documents.ListByCandidate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}

	var payment *models.Payment
	current, err := h.payments.CurrentForCandidate(r.Context(), id)
	if err == nil {
		payment = &current
	} else if !derrors.HasCode(err, derrors.CodeNotFound) {
		writeError(w, err)
		return
	}

	body := map[string]any{
		"application_number": candidate.ApplicationNumber,
		"status":             candidate.Status,
		"stage":              completion.ResolveStage(docs, payment),
		"documents":          toDocumentResponses(docs),
	}
	if payment != nil {
		body["payment"] = toPaymentResponse(*payment)
	}
	respond(w, http.StatusOK, body)
}
