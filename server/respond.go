package server

import (
	"encoding/json"
	"net/http"

	interrors "github.com/dohahub/eduhub-edge/internal/errors"
)

func writeJSON(w http.ResponseWriter, status int, payload any) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(payload)
}

func writeError(w http.ResponseWriter, status int, message string) {
	writeJSON(w, status, map[string]string{"error": message})
}

// writeGatewayError is the 502 shape for backend transport failures.
func writeGatewayError(w http.ResponseWriter, err error) {
	writeJSON(w, http.StatusBadGateway, map[string]string{
		"error":   interrors.ErrBadGateway.Error(),
		"details": err.Error(),
	})
}
