// Package httptransport is the thin JSON layer over the registration engine.
// It delegates to domain services without embedding business logic; file
// upload plumbing, gateway wire formats and UI rendering live elsewhere.
package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concours/internal/registration/candidates"
	"concours/internal/registration/documents"
	"concours/internal/registration/payments"
	"concours/internal/session"
)

// Handler bundles the engine services the routes delegate to.
type Handler struct {
	candidates *candidates.Service
	documents  *documents.Service
	payments   *payments.Service
	sessions   *session.Manager
}

func NewHandler(c *candidates.Service, d *documents.Service, p *payments.Service, s *session.Manager) *Handler {
	return &Handler{candidates: c, documents: d, payments: p, sessions: s}
}

// Routes wires the engine endpoints onto a chi router.
func (h *Handler) Routes() http.Handler {
	r := chi.NewRouter()

	r.Route("/candidates", func(r chi.Router) {
		r.Post("/", h.handleRegister)
		r.Get("/{ref}", h.handleCandidateByRef)
		r.Put("/{id}/profile", h.handleUpdateProfile)
		r.Get("/{id}/status", h.handleCandidateStatus)
		r.Get("/{id}/documents", h.handleListDocuments)
		r.Get("/{id}/payment", h.handleCurrentPayment)
	})

	r.Route("/documents", func(r chi.Router) {
		r.Post("/", h.handleRecordUpload)
		r.Post("/{id}/validation", h.handleSetValidation)
		r.Post("/{id}/replace", h.handleReplace)
	})

	r.Route("/payments", func(r chi.Router) {
		r.Post("/", h.handleRecordAttempt)
		r.Post("/{id}/state", h.handleSetPaymentState)
	})

	r.Route("/sessions", func(r chi.Router) {
		r.Post("/", h.handleCreateOrExtend)
		r.Post("/validate", h.handleValidateSession)
		r.Post("/extend", h.handleExtendSession)
		r.Post("/revoke", h.handleRevokeSession)
	})

	return r
}
