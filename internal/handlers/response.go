package handlers

import (
	"encoding/json"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/roomservice/internal/models"
)

// WriteJSON writes a JSON response
func WriteJSON(w http.ResponseWriter, status int, data interface{}, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)

	if err := json.NewEncoder(w).Encode(data); err != nil {
		logger.Error("failed to encode JSON response", "error", err)
	}
}

// WriteSuccess writes {"success": true} with an optional message
func WriteSuccess(w http.ResponseWriter, message string, logger *slog.Logger) {
	WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Message: message}, logger)
}

// WriteError writes a {"success": false, "message": ...} envelope
func WriteError(w http.ResponseWriter, status int, message string, logger *slog.Logger) {
	WriteJSON(w, status, models.APIResponse{Success: false, Message: message}, logger)
}
