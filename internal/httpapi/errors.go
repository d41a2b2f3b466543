package httpapi

import (
	"encoding/json"
	"net/http"

	"sentimentd/pkg/types"
)

// Stable client-facing failure messages. Tests pin these verbatim.
const (
	msgModelUnavailable = "Model is not available due to a startup error"
	msgNotJSON          = "Request must be JSON"
	msgBadTextField     = "Missing or invalid 'text' field in JSON payload"
	msgInferenceFailed  = "An internal error occurred during prediction"
)

// writeJSONError writes the single-field JSON error payload.
func writeJSONError(w http.ResponseWriter, status int, msg string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(types.ErrorResponse{Error: msg})
}
