// Package testserver runs the real router over in-memory stores for tests
// of the HTTP API and of the client packages.
package testserver

import (
	"context"
	"net/http/httptest"
	"testing"

	"github.com/AnshRaj112/remontee-backend/internal/handlers"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/AnshRaj112/remontee-backend/internal/repository"
	"github.com/AnshRaj112/remontee-backend/internal/routes"
	"github.com/AnshRaj112/remontee-backend/internal/services"
	"github.com/AnshRaj112/remontee-backend/pkg/utils"
	"go.uber.org/zap"
)

const (
	AdminEmail    = "admin@mim.fr"
	AdminPassword = "motdepasse"
)

// Server is an httptest server plus direct access to its stores.
type Server struct {
	*httptest.Server
	Feedback *repository.MemoryFeedbackRepository
	Types    *repository.MemoryProblemTypeRepository
	Admins   *repository.MemoryAdminRepository
	Sessions *services.MemorySessionStore
	Audit    *services.MemoryAuditLog
}

// New starts a server seeded with the default problem types and one admin
// (AdminEmail / AdminPassword). It is closed when t ends.
func New(t testing.TB) *Server {
	t.Helper()
	logger := zap.NewNop()

	s := &Server{
		Feedback: repository.NewMemoryFeedbackRepository(),
		Types:    repository.NewMemoryProblemTypeRepository(models.DefaultProblemTypes...),
		Admins:   repository.NewMemoryAdminRepository(),
		Sessions: services.NewMemorySessionStore(),
		Audit:    &services.MemoryAuditLog{},
	}

	hash, err := utils.HashPasswordWith(AdminPassword, utils.Argon2Params{Memory: 1024, Time: 1, Parallelism: 1, SaltLength: 8, KeyLength: 16})
	if err != nil {
		t.Fatalf("hash admin password: %v", err)
	}
	err = s.Admins.Create(context.Background(), &models.Admin{
		Email: AdminEmail, Nom: "ADMIN", Prenom: "Admin", Role: models.RoleAdmin,
		PasswordHash: hash, IsActive: true,
	})
	if err != nil {
		t.Fatalf("create admin: %v", err)
	}

	auth := services.NewAuthService(s.Admins, s.Sessions, logger)
	h := handlers.New(
		services.NewFeedbackService(s.Feedback, s.Audit, services.NopPublisher{}, logger),
		services.NewCatalogService(s.Types, services.NopCache{}, logger),
		auth,
		logger,
	)
	s.Server = httptest.NewServer(routes.NewRouter(h, auth, logger, routes.Options{}))
	t.Cleanup(s.Close)
	return s
}

// APIURL is the base URL of the /api routes.
func (s *Server) APIURL() string {
	return s.URL + "/api"
}
