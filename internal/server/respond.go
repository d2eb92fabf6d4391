package server

import (
	"encoding/json"
	"net/http"

	"go.uber.org/zap"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	if err := json.NewEncoder(w).Encode(payload); err != nil {
		zap.L().Error("server: encode response", zap.Error(err))
	}
}

// writeValidationError is the 400 shape: no fallback data, just the message.
func writeValidationError(w http.ResponseWriter, msg string) {
	writeJSON(w, http.StatusBadRequest, map[string]any{
		"success": false,
		"error":   msg,
	})
}

// writeServerError is the 500 shape. fallback, when non-nil, carries
// sentinel values matching the success payload so the caller can render
// something rather than nothing.
func writeServerError(w http.ResponseWriter, msg string, err error, fallback any) {
	payload := map[string]any{
		"success": false,
		"error":   msg,
	}
	if err != nil {
		payload["details"] = err.Error()
	}
	if fallback != nil {
		payload["fallbackData"] = fallback
	}
	writeJSON(w, http.StatusInternalServerError, payload)
}
