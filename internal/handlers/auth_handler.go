package handlers

import (
	"errors"
	"log/slog"
	"net/http"

	"github.com/Lixing-Zhang/roomservice/internal/models"
	"github.com/Lixing-Zhang/roomservice/internal/service"
)

// AuthHandler handles the admin login
type AuthHandler struct {
	authService *service.AuthService
	log         *slog.Logger
}

// NewAuthHandler creates a new auth handler
func NewAuthHandler(authService *service.AuthService, log *slog.Logger) *AuthHandler {
	return &AuthHandler{
		authService: authService,
		log:         log,
	}
}

// Login handles POST /admin-login
func (h *AuthHandler) Login(w http.ResponseWriter, r *http.Request) {
	var req models.LoginRequest

	if err := decodeJSON(w, r, &req); err != nil {
		WriteError(w, http.StatusBadRequest, "Invalid request body.", h.log)
		return
	}

	token, err := h.authService.Login(req.Username, req.Password)
	if err != nil {
		if errors.Is(err, service.ErrInvalidCredentials) {
			WriteError(w, http.StatusUnauthorized, "Invalid credentials.", h.log)
			return
		}
		h.log.Error("admin login failed", "error", err)
		WriteError(w, http.StatusInternalServerError, "Server error.", h.log)
		return
	}

	WriteJSON(w, http.StatusOK, models.APIResponse{Success: true, Token: token}, h.log)
}
