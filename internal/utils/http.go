package utils

import (
	"encoding/json"
	"fmt"
	"net/http"
)

// WriteJSON encodes data as JSON onto w under the given status code.
//
// Handlers pass the exact envelope they want on the wire (usually a
// models.APIResponse); WriteJSON adds no wrapping of its own. The
// Content-Type header is set before the status line so the two always
// travel together.
//
// Encoding failures answer with a plain-text 500 and return a wrapped
// error; nothing of the half-built body reaches the client.
func WriteJSON(w http.ResponseWriter, data any, statusCode int) (int, error) {
	body, err := json.Marshal(data)
	if err != nil {
		http.Error(w, "failed to encode response", http.StatusInternalServerError)
		return 0, fmt.Errorf("failed to encode response body: %w", err)
	}

	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(statusCode)

	return w.Write(body)
}
