package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"

	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

func writeJSON(w http.ResponseWriter, status int, body interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if body != nil {
		_ = json.NewEncoder(w).Encode(body)
	}
}

// writeError renders any error as the shared {error_id, message, resource,
// details} body. Errors not already an apperrors.APIError are
// rendered as an opaque 500 internal-error body rather than leaking internals.
func writeError(w http.ResponseWriter, err error) {
	var apiErr apperrors.APIError
	if errors.As(err, &apiErr) {
		writeJSON(w, apiErr.HTTPStatus(), apiErr.Payload())
		return
	}
	writeJSON(w, http.StatusInternalServerError, map[string]interface{}{
		"error_id": "internal-error",
		"message":  "Internal error",
	})
}
