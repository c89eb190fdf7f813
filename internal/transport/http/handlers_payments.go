package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
)

type paymentResponse struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	Amount      int64  `json:"amount"`
	Method      string `json:"method"`
	Reference   string `json:"reference"`
	State       string `json:"state"`
}

func toPaymentResponse(p models.Payment) paymentResponse {
	return paymentResponse{
		ID:          p.ID.String(),
		CandidateID: p.CandidateID.String(),
		Amount:      p.Amount,
		Method:      p.Method,
		Reference:   p.Reference,
		State:       string(p.State),
	}
}

func (h *Handler) handleRecordAttempt(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateID string `json:"candidate_id"`
		Amount      int64  `json:"amount"`
		Method      string `json:"method"`
		Reference   string `json:"reference"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	candidateID, err := domain.ParseCandidateID(req.CandidateID)
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid candidate id"))
		return
	}

	id, err := h.payments.RecordAttempt(r.Context(), candidateID, req.Amount, req.Method, req.Reference)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"id": id.String()})
}

// handleSetPaymentState serves both the gateway callback adapter and manual
// admin confirmation.
func (h *Handler) handleSetPaymentState(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParsePaymentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid payment id"))
		return
	}

	var req struct {
		State string `json:"state"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	payment, err := h.payments.SetState(r.Context(), id, models.PaymentState(req.State))
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toPaymentResponse(payment))
}

func (h *Handler) handleCurrentPayment(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCandidateID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid candidate id"))
		return
	}

	payment, err := h.payments.CurrentForCandidate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toPaymentResponse(payment))
}
