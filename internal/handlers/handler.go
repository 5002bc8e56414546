// Package handlers implements the REST endpoints of the feedback service.
// Errors are always answered as {"success":false,"message":"..."}.
package handlers

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/middleware"
	"github.com/AnshRaj112/remontee-backend/internal/services"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Handler groups the endpoints and the services they call.
type Handler struct {
	feedback *services.FeedbackService
	catalog  *services.CatalogService
	auth     *services.AuthService
	logger   *zap.Logger
}

func New(feedback *services.FeedbackService, catalog *services.CatalogService, auth *services.AuthService, logger *zap.Logger) *Handler {
	return &Handler{feedback: feedback, catalog: catalog, auth: auth, logger: logger}
}

// Response is the envelope used for errors and bodiless successes.
type Response struct {
	Success bool   `json:"success"`
	Message string `json:"message"`
}

func writeJSON(w http.ResponseWriter, status int, v interface{}) {
	w.Header().Set("Content-Type", "application/json")
	w.WriteHeader(status)
	_ = json.NewEncoder(w).Encode(v)
}

func statusFor(code apperrors.ErrorCode) int {
	switch code {
	case apperrors.ErrorCodeValidation:
		return http.StatusBadRequest
	case apperrors.ErrorCodeAuth:
		return http.StatusUnauthorized
	case apperrors.ErrorCodeNotFound:
		return http.StatusNotFound
	case apperrors.ErrorCodeConflict:
		return http.StatusConflict
	default:
		return http.StatusInternalServerError
	}
}

// writeError answers with the status matching err's code. Unexpected errors
// are logged and their details withheld from the caller.
func (h *Handler) writeError(w http.ResponseWriter, r *http.Request, err error) {
	var appErr *apperrors.AppError
	if errors.As(err, &appErr) && appErr.Code != apperrors.ErrorCodeInternal {
		writeJSON(w, statusFor(appErr.Code), Response{Success: false, Message: appErr.Message})
		return
	}
	h.logger.Error("request failed",
		zap.String("path", r.URL.Path),
		zap.String("request_id", chimw.GetReqID(r.Context())),
		zap.Error(err))
	writeJSON(w, http.StatusInternalServerError, Response{Success: false, Message: "Erreur interne du serveur"})
}

func decodeJSON(r *http.Request, dest interface{}) error {
	if err := json.NewDecoder(r.Body).Decode(dest); err != nil {
		return apperrors.Wrap(apperrors.ErrorCodeValidation, "Corps de requête invalide", err)
	}
	return nil
}

// idParam parses the {id} path segment. Ids are SERIAL columns, so anything
// outside int32 is rejected before it reaches the database.
func idParam(r *http.Request) (int, error) {
	id, err := strconv.ParseInt(chi.URLParam(r, "id"), 10, 32)
	if err != nil || id <= 0 {
		return 0, apperrors.Validation("Identifiant invalide")
	}
	return int(id), nil
}

func adminID(r *http.Request) string {
	if id, ok := middleware.AdminID(r.Context()); ok {
		return id.String()
	}
	return ""
}

// Health reports liveness.
func Health(w http.ResponseWriter, r *http.Request) {
	w.Write([]byte("OK"))
}
