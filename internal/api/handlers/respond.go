package handlers

import (
	"encoding/json"
	"net/http"

	"github.com/rs/zerolog/log"

	"github.com/mserrato/accounts-be/internal/apperrors"
)

// writeJSON writes v as a JSON response with the given status.
func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if v != nil {
		json.NewEncoder(w).Encode(v)
	}
}

// errorBody is the externally visible error shape.
type errorBody struct {
	Error   string             `json:"error"`
	Code    string             `json:"code,omitempty"`
	Details []apperrors.Detail `json:"details,omitempty"`
}

// writeError classifies err and writes it. Domain errors pass through with
// their status and code; anything unclassified is logged with full detail
// and flattened to a generic 500 so no internal message crosses the
// boundary.
func writeError(w http.ResponseWriter, r *http.Request, err error) {
	appErr := apperrors.Classify(err)
	if appErr.Kind == apperrors.KindInternal {
		log.Error().Err(appErr.Unwrap()).Str("path", r.URL.Path).Msg("Unhandled error")
		writeJSON(w, http.StatusInternalServerError, errorBody{Error: "Internal server error"})
		return
	}
	writeJSON(w, appErr.Status, errorBody{
		Error:   appErr.Message,
		Code:    appErr.Code,
		Details: appErr.Details,
	})
}
