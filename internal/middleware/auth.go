package middleware

import (
	"context"
	"encoding/json"
	"errors"
	"net/http"
	"strings"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type contextKey string

const (
	adminIDKey contextKey = "admin_id"
	tokenKey   contextKey = "session_token"
)

// Authenticator resolves a session token to an admin id.
type Authenticator interface {
	Authenticate(ctx context.Context, token string) (uuid.UUID, error)
}

// ExtractBearerToken returns the token of an "Authorization: Bearer <token>"
// header, or "".
func ExtractBearerToken(header string) string {
	const prefix = "Bearer "
	if len(header) < len(prefix) || !strings.EqualFold(header[:len(prefix)], prefix) {
		return ""
	}
	return strings.TrimSpace(header[len(prefix):])
}

// RequireAdmin rejects requests without a valid admin session with 401.
func RequireAdmin(auth Authenticator, logger *zap.Logger) func(http.Handler) http.Handler {
	return func(next http.Handler) http.Handler {
		return http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
			token := ExtractBearerToken(r.Header.Get("Authorization"))
			if token == "" {
				writeJSONError(w, http.StatusUnauthorized, "Authentification requise")
				return
			}

			adminID, err := auth.Authenticate(r.Context(), token)
			if err != nil {
				if errors.Is(err, apperrors.ErrAuth) {
					writeJSONError(w, http.StatusUnauthorized, apperrors.UserMessage(err))
					return
				}
				logger.Error("session lookup failed", zap.Error(err))
				writeJSONError(w, http.StatusInternalServerError, "Erreur interne du serveur")
				return
			}

			ctx := context.WithValue(r.Context(), adminIDKey, adminID)
			ctx = context.WithValue(ctx, tokenKey, token)
			next.ServeHTTP(w, r.WithContext(ctx))
		})
	}
}

// AdminID returns the admin authenticated by RequireAdmin.
func AdminID(ctx context.Context) (uuid.UUID, bool) {
	id, ok := ctx.Value(adminIDKey).(uuid.UUID)
	return id, ok
}

// SessionToken returns the bearer token accepted by RequireAdmin.
func SessionToken(ctx context.Context) string {
	token, _ := ctx.Value(tokenKey).(string)
	return token
}

func writeJSONError(w http.ResponseWriter, status int, message string) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(map[string]interface{}{
		"success": false,
		"message": message,
	})
}
