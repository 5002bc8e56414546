package routes

import (
	"net/http"

	"github.com/AnshRaj112/remontee-backend/internal/handlers"
	"github.com/AnshRaj112/remontee-backend/internal/middleware"
	"github.com/AnshRaj112/remontee-backend/pkg/clientip"
	"github.com/go-chi/chi/v5"
	chimw "github.com/go-chi/chi/v5/middleware"
	"go.uber.org/zap"
)

// Options tune the middleware stack.
type Options struct {
	AllowedOrigins []string
	Production     bool   // security headers, host check and rate limits
	AllowedHost    string // used only when Production is set
	TrustProxy     bool
}

// NewRouter builds the full HTTP stack.
func NewRouter(h *handlers.Handler, auth middleware.Authenticator, logger *zap.Logger, opts Options) *chi.Mux {
	clientIP := clientip.Resolver(opts.TrustProxy)

	r := chi.NewRouter()
	r.Use(chimw.RequestID)
	r.Use(middleware.RequestLogger(logger, clientIP))
	r.Use(chimw.Recoverer)
	r.Use(middleware.CORS(opts.AllowedOrigins))
	if opts.Production {
		for _, mw := range middleware.ProductionSecurity(opts.AllowedHost, clientIP) {
			r.Use(mw)
		}
	}

	r.Get("/health", handlers.Health)
	SetupRoutes(r, h, middleware.RequireAdmin(auth, logger))
	return r
}

// SetupRoutes registers the /api endpoints. requireAdmin guards the admin ones.
func SetupRoutes(r chi.Router, h *handlers.Handler, requireAdmin func(http.Handler) http.Handler) {
	r.Route("/api", func(r chi.Router) {
		// Public
		r.Post("/login", h.Login)
		r.Post("/feedback", h.SubmitFeedback)
		r.Get("/feedback/public", h.ListFeedback)
		r.Get("/types", h.ListActiveTypes)

		// Admin
		r.Group(func(r chi.Router) {
			r.Use(requireAdmin)

			r.Post("/logout", h.Logout)

			r.Get("/feedback", h.ListFeedback)
			r.Get("/feedback/{id}", h.GetFeedback)
			r.Get("/feedback/{id}/history", h.FeedbackHistory)
			r.Patch("/feedback/{id}/status", h.UpdateStatus)
			r.Patch("/feedback/{id}/admin-action", h.UpdateAdminAction)
			r.Delete("/feedback/{id}", h.DeleteFeedback)

			r.Get("/admin/types", h.ListAllTypes)
			r.Post("/types", h.CreateType)
			r.Patch("/types/{id}", h.UpdateType)
			r.Delete("/types/{id}", h.DeleteType)
		})
	})
}
