// Package repository holds the storage contracts of the feedback service and
// their Postgres and in-memory implementations. Lookups of unknown ids return
// an apperrors NotFound error; uniqueness violations return a Conflict error.
package repository

import (
	"context"

	"github.com/AnshRaj112/remontee-backend/internal/models"
)

type FeedbackRepository interface {
	// Create stores f and fills in its ID and CreatedAt.
	Create(ctx context.Context, f *models.Feedback) error
	// List returns every record, newest first.
	List(ctx context.Context) ([]models.Feedback, error)
	GetByID(ctx context.Context, id int) (*models.Feedback, error)
	UpdateStatus(ctx context.Context, id int, status models.Status) error
	UpdateAdminAction(ctx context.Context, id int, text string) error
	Delete(ctx context.Context, id int) error
}

type ProblemTypeRepository interface {
	List(ctx context.Context) ([]models.ProblemType, error)
	ListActive(ctx context.Context) ([]models.ProblemType, error)
	Create(ctx context.Context, label string) (*models.ProblemType, error)
	SetActive(ctx context.Context, id int, active bool) (*models.ProblemType, error)
	Delete(ctx context.Context, id int) error
}

type AdminRepository interface {
	GetByEmail(ctx context.Context, email string) (*models.Admin, error)
	Create(ctx context.Context, a *models.Admin) error
}
