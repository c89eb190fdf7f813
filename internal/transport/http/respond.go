package httptransport

import (
	"encoding/json"
	"net/http"

	"concours/pkg/derrors"
)

func respond(w http.ResponseWriter, status int, body any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError centralizes domain error translation so every endpoint returns
// the same JSON error envelope.
func writeError(w http.ResponseWriter, err error) {
	code := derrors.CodeOf(err)
	respond(w, statusFor(code), map[string]string{
		"error":   string(code),
		"message": err.Error(),
	})
}

func statusFor(code derrors.Code) int {
	switch code {
	case derrors.CodeNotFound:
		return http.StatusNotFound
	case derrors.CodeInvalidAmount, derrors.CodeInvalidTransition, derrors.CodeNotReplaceable, derrors.CodeBadRequest:
		return http.StatusBadRequest
	case derrors.CodeDuplicateReference:
		return http.StatusConflict
	case derrors.CodeSessionExpired:
		return http.StatusUnauthorized
	case derrors.CodeStoreUnavailable:
		return http.StatusServiceUnavailable
	default:
		return http.StatusInternalServerError
	}
}

func decode(r *http.Request, into any) error {
	if err := json.NewDecoder(r.Body).Decode(into); err != nil {
		return derrors.Wrap(err, derrors.CodeBadRequest, "decode request body")
	}
	return nil
}
