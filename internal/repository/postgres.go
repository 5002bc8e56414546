package repository

import (
	"context"
	"database/sql"
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/AnshRaj112/remontee-backend/internal/apperrors"
	"github.com/AnshRaj112/remontee-backend/internal/models"
	"github.com/google/uuid"
	"github.com/lib/pq"
)

const uniqueViolation = "23505"

func isUniqueViolation(err error) bool {
	var pqErr *pq.Error
	return errors.As(err, &pqErr) && pqErr.Code == uniqueViolation
}

// --- Feedback ---

type postgresFeedbackRepo struct {
	db *sql.DB
}

func NewPostgresFeedbackRepository(db *sql.DB) FeedbackRepository {
	return &postgresFeedbackRepo{db: db}
}

const feedbackColumns = `id, societe_agence, to_char(date, 'YYYY-MM-DD'), nom, prenom, lieu_client,
	type_probleme, description, action, action_admin, status, created_at`

func scanFeedback(row interface{ Scan(...interface{}) error }, f *models.Feedback) error {
	return row.Scan(&f.ID, &f.SocieteAgence, &f.Date, &f.Nom, &f.Prenom, &f.LieuClient,
		&f.TypeProbleme, &f.Description, &f.Action, &f.ActionAdmin, &f.Status, &f.CreatedAt)
}

func (r *postgresFeedbackRepo) Create(ctx context.Context, f *models.Feedback) error {
	query := `INSERT INTO feedbacks (societe_agence, date, nom, prenom, lieu_client, type_probleme, description, action, status)
	          VALUES ($1, $2::date, $3, $4, $5, $6, $7, $8, $9) RETURNING id, created_at`
	err := r.db.QueryRowContext(ctx, query,
		f.SocieteAgence, f.Date, f.Nom, f.Prenom, f.LieuClient,
		f.TypeProbleme, f.Description, f.Action, f.Status,
	).Scan(&f.ID, &f.CreatedAt)
	if err != nil {
		return fmt.Errorf("insert feedback: %w", err)
	}
	return nil
}

func (r *postgresFeedbackRepo) List(ctx context.Context) ([]models.Feedback, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT `+feedbackColumns+` FROM feedbacks ORDER BY created_at DESC, id DESC`)
	if err != nil {
		return nil, fmt.Errorf("query feedbacks: %w", err)
	}
	defer rows.Close()

	list := []models.Feedback{}
	for rows.Next() {
		var f models.Feedback
		if err := scanFeedback(rows, &f); err != nil {
			return nil, fmt.Errorf("scan feedback: %w", err)
		}
		list = append(list, f)
	}
	return list, rows.Err()
}

func (r *postgresFeedbackRepo) GetByID(ctx context.Context, id int) (*models.Feedback, error) {
	var f models.Feedback
	err := scanFeedback(r.db.QueryRowContext(ctx, `SELECT `+feedbackColumns+` FROM feedbacks WHERE id = $1`, id), &f)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Newf(apperrors.ErrorCodeNotFound, "Remontée #%d introuvable", id)
		}
		return nil, fmt.Errorf("get feedback %d: %w", id, err)
	}
	return &f, nil
}

func (r *postgresFeedbackRepo) exec(ctx context.Context, id int, query string, args ...interface{}) error {
	result, err := r.db.ExecContext(ctx, query, args...)
	if err != nil {
		return fmt.Errorf("update feedback %d: %w", id, err)
	}
	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return apperrors.Newf(apperrors.ErrorCodeNotFound, "Remontée #%d introuvable", id)
	}
	return nil
}

func (r *postgresFeedbackRepo) UpdateStatus(ctx context.Context, id int, status models.Status) error {
	return r.exec(ctx, id, `UPDATE feedbacks SET status = $1 WHERE id = $2`, status, id)
}

func (r *postgresFeedbackRepo) UpdateAdminAction(ctx context.Context, id int, text string) error {
	return r.exec(ctx, id, `UPDATE feedbacks SET action_admin = $1 WHERE id = $2`, text, id)
}

func (r *postgresFeedbackRepo) Delete(ctx context.Context, id int) error {
	return r.exec(ctx, id, `DELETE FROM feedbacks WHERE id = $1`, id)
}

// --- Problem types ---

type postgresProblemTypeRepo struct {
	db *sql.DB
}

func NewPostgresProblemTypeRepository(db *sql.DB) ProblemTypeRepository {
	return &postgresProblemTypeRepo{db: db}
}

func (r *postgresProblemTypeRepo) query(ctx context.Context, where string) ([]models.ProblemType, error) {
	rows, err := r.db.QueryContext(ctx, `SELECT id, label, is_active, created_at FROM problem_types `+where+` ORDER BY label ASC`)
	if err != nil {
		return nil, fmt.Errorf("query problem types: %w", err)
	}
	defer rows.Close()

	types := []models.ProblemType{}
	for rows.Next() {
		var pt models.ProblemType
		if err := rows.Scan(&pt.ID, &pt.Label, &pt.IsActive, &pt.CreatedAt); err != nil {
			return nil, fmt.Errorf("scan problem type: %w", err)
		}
		types = append(types, pt)
	}
	return types, rows.Err()
}

func (r *postgresProblemTypeRepo) List(ctx context.Context) ([]models.ProblemType, error) {
	return r.query(ctx, "")
}

func (r *postgresProblemTypeRepo) ListActive(ctx context.Context) ([]models.ProblemType, error) {
	return r.query(ctx, "WHERE is_active = TRUE")
}

func (r *postgresProblemTypeRepo) Create(ctx context.Context, label string) (*models.ProblemType, error) {
	pt := models.ProblemType{Label: label, IsActive: true}
	err := r.db.QueryRowContext(ctx,
		`INSERT INTO problem_types (label, is_active) VALUES ($1, TRUE) RETURNING id, created_at`,
		label).Scan(&pt.ID, &pt.CreatedAt)
	if err != nil {
		if isUniqueViolation(err) {
			return nil, apperrors.Newf(apperrors.ErrorCodeConflict, "Le type %q existe déjà", label)
		}
		return nil, fmt.Errorf("insert problem type: %w", err)
	}
	return &pt, nil
}

func (r *postgresProblemTypeRepo) SetActive(ctx context.Context, id int, active bool) (*models.ProblemType, error) {
	var pt models.ProblemType
	err := r.db.QueryRowContext(ctx,
		`UPDATE problem_types SET is_active = $1 WHERE id = $2 RETURNING id, label, is_active, created_at`,
		active, id).Scan(&pt.ID, &pt.Label, &pt.IsActive, &pt.CreatedAt)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.Newf(apperrors.ErrorCodeNotFound, "Type #%d introuvable", id)
		}
		return nil, fmt.Errorf("update problem type %d: %w", id, err)
	}
	return &pt, nil
}

func (r *postgresProblemTypeRepo) Delete(ctx context.Context, id int) error {
	result, err := r.db.ExecContext(ctx, `DELETE FROM problem_types WHERE id = $1`, id)
	if err != nil {
		return fmt.Errorf("delete problem type %d: %w", id, err)
	}
	n, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("rows affected: %w", err)
	}
	if n == 0 {
		return apperrors.Newf(apperrors.ErrorCodeNotFound, "Type #%d introuvable", id)
	}
	return nil
}

// --- Admins ---

type postgresAdminRepo struct {
	db *sql.DB
}

func NewPostgresAdminRepository(db *sql.DB) AdminRepository {
	return &postgresAdminRepo{db: db}
}

func (r *postgresAdminRepo) GetByEmail(ctx context.Context, email string) (*models.Admin, error) {
	var a models.Admin
	err := r.db.QueryRowContext(ctx, `
		SELECT id, created_at, updated_at, email, nom, prenom, role, password_hash, is_active
		FROM admins
		WHERE LOWER(email) = LOWER($1)
	`, strings.TrimSpace(email)).Scan(&a.ID, &a.CreatedAt, &a.UpdatedAt, &a.Email, &a.Nom, &a.Prenom, &a.Role, &a.PasswordHash, &a.IsActive)
	if err != nil {
		if err == sql.ErrNoRows {
			return nil, apperrors.NotFound("Administrateur introuvable")
		}
		return nil, fmt.Errorf("get admin: %w", err)
	}
	return &a, nil
}

func (r *postgresAdminRepo) Create(ctx context.Context, a *models.Admin) error {
	if a.ID == uuid.Nil {
		a.ID = uuid.New()
	}
	now := time.Now()
	a.CreatedAt, a.UpdatedAt = now, now
	_, err := r.db.ExecContext(ctx, `
		INSERT INTO admins (id, created_at, updated_at, email, nom, prenom, role, password_hash, is_active)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9)
	`, a.ID, a.CreatedAt, a.UpdatedAt, a.Email, a.Nom, a.Prenom, a.Role, a.PasswordHash, a.IsActive)
	if err != nil {
		if isUniqueViolation(err) {
			return apperrors.Newf(apperrors.ErrorCodeConflict, "Un administrateur avec l'email %s existe déjà", a.Email)
		}
		return fmt.Errorf("insert admin: %w", err)
	}
	return nil
}
