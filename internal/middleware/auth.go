package middleware

import (
	"encoding/json"
	"log/slog"
	"net/http"
	"strings"

	"github.com/golang-jwt/jwt/v5"

	"github.com/Lixing-Zhang/roomservice/internal/models"
)

// TokenValidator checks admin bearer tokens
type TokenValidator interface {
	ValidateToken(token string) (*jwt.RegisteredClaims, error)
}

// AdminAuth middleware requires an "Authorization: Bearer <token>" header
// issued by the admin login. When enabled is false every request passes.
func AdminAuth(validator TokenValidator, enabled bool, logger *slog.Logger) func(next http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		if !enabled {
			return next
		}

		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			header := r.Header.Get("Authorization")
			token, ok := strings.CutPrefix(header, "Bearer ")
			if !ok || strings.TrimSpace(token) == "" {
				unauthorized(w, "Authorization token required.", logger)
				return
			}

			claims, err := validator.ValidateToken(strings.TrimSpace(token))
			if err != nil {
				logger.Warn("rejected admin token", "path", r.URL.Path, "error", err)
				unauthorized(w, "Invalid or expired token.", logger)
				return
			}

			logger.Debug("admin request authorized", "subject", claims.Subject, "path", r.URL.Path)
			next.ServeHTTP(w, r)
		})
	}
}

func unauthorized(w http.ResponseWriter, message string, logger *slog.Logger) {
	w.Header().Set("Content-Type", "application/json")
	w.Header().Set("WWW-Authenticate", `Bearer realm="admin"`)
	w.WriteHeader(http.StatusUnauthorized)

	if err := json.NewEncoder(w).Encode(models.APIResponse{Success: false, Message: message}); err != nil {
		logger.Error("failed to encode auth error", "error", err)
	}
}
