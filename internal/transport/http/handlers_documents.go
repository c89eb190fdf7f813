package httptransport

import (
	"net/http"

	"github.com/go-chi/chi/v5"

	"concours/internal/registration/models"
	"concours/pkg/derrors"
	"concours/pkg/domain"
)

type documentResponse struct {
	ID          string `json:"id"`
	CandidateID string `json:"candidate_id"`
	Kind        string `json:"kind"`
	StorageRef  string `json:"storage_ref"`
	State       string `json:"state"`
	Comment     string `json:"comment,omitempty"`
}

func toDocumentResponse(d models.Document) documentResponse {
	return documentResponse{
		ID:          d.ID.String(),
		CandidateID: d.CandidateID.String(),
		Kind:        d.Kind,
		StorageRef:  d.StorageRef,
		State:       string(d.State),
		Comment:     d.Comment,
	}
}

func toDocumentResponses(docs []models.Document) []documentResponse {
	out := make([]documentResponse, 0, len(docs))
	for _, d := range docs {
		out = append(out, toDocumentResponse(d))
	}
	return out
}

func (h *Handler) handleRecordUpload(w http.ResponseWriter, r *http.Request) {
	var req struct {
		CandidateID string `json:"candidate_id"`
		Kind        string `json:"kind"`
		StorageRef  string `json:"storage_ref"`
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

	id, err := h.documents.RecordUpload(r.Context(), candidateID, req.Kind, req.StorageRef)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusCreated, map[string]string{"id": id.String()})
}

func (h *Handler) handleSetValidation(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid document id"))
		return
	}

	var req struct {
		State   string `json:"state"`
		Comment string `json:"comment"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	document, err := h.documents.SetValidation(r.Context(), id, models.ValidationState(req.State), req.Comment)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toDocumentResponse(document))
}

func (h *Handler) handleReplace(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseDocumentID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid document id"))
		return
	}

	var req struct {
		StorageRef string `json:"storage_ref"`
	}
	if err := decode(r, &req); err != nil {
		writeError(w, err)
		return
	}

	document, err := h.documents.Replace(r.Context(), id, req.StorageRef)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toDocumentResponse(document))
}

func (h *Handler) handleListDocuments(w http.ResponseWriter, r *http.Request) {
	id, err := domain.ParseCandidateID(chi.URLParam(r, "id"))
	if err != nil {
		writeError(w, derrors.Wrap(err, derrors.CodeBadRequest, "invalid candidate id"))
		return
	}

	docs, err := h.documents.ListByCandidate(r.Context(), id)
	if err != nil {
		writeError(w, err)
		return
	}
	respond(w, http.StatusOK, toDocumentResponses(docs))
}
