package database

import (
	"context"
	"database/sql"
	"time"

	"github.com/AnshRaj112/remontee-backend/internal/models"
	_ "github.com/lib/pq"
	"go.uber.org/zap"
)

// ConnectPostgres opens the connection pool, pings it and bootstraps the schema.
func ConnectPostgres(ctx context.Context, postgresURI string, logger *zap.Logger) (*sql.DB, error) {
	db, err := sql.Open("postgres", postgresURI)
	if err != nil {
		return nil, err
	}

	// Set connection pool settings
	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	pingCtx, cancel := context.WithTimeout(ctx, 10*time.Second)
	defer cancel()
	if err = db.PingContext(pingCtx); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("connected to PostgreSQL")

	if err = InitPostgresTables(ctx, db); err != nil {
		db.Close()
		return nil, err
	}
	if err = SeedProblemTypes(ctx, db); err != nil {
		db.Close()
		return nil, err
	}

	logger.Info("PostgreSQL tables initialized")
	return db, nil
}

// InitPostgresTables creates all necessary tables if they don't exist
func InitPostgresTables(ctx context.Context, db *sql.DB) error {
	queries := []string{
		`CREATE TABLE IF NOT EXISTS admins (
			id UUID PRIMARY KEY DEFAULT gen_random_uuid(),
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			updated_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			email VARCHAR(255) NOT NULL UNIQUE,
			nom VARCHAR(255) NOT NULL,
			prenom VARCHAR(255) NOT NULL,
			role VARCHAR(50) NOT NULL DEFAULT 'ADMIN',
			password_hash VARCHAR(255) NOT NULL,
			is_active BOOLEAN NOT NULL DEFAULT TRUE
		)`,

		`CREATE TABLE IF NOT EXISTS problem_types (
			id SERIAL PRIMARY KEY,
			label VARCHAR(255) NOT NULL UNIQUE,
			is_active BOOLEAN NOT NULL DEFAULT TRUE,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW()
		)`,

		`CREATE TABLE IF NOT EXISTS feedbacks (
			id SERIAL PRIMARY KEY,
			created_at TIMESTAMPTZ NOT NULL DEFAULT NOW(),
			societe_agence VARCHAR(255) NOT NULL DEFAULT '',
			date DATE NOT NULL,
			nom VARCHAR(255) NOT NULL,
			prenom VARCHAR(255) NOT NULL,
			lieu_client VARCHAR(255) NOT NULL,
			type_probleme VARCHAR(255) NOT NULL,
			description TEXT NOT NULL DEFAULT '',
			action TEXT NOT NULL DEFAULT '',
			action_admin TEXT NOT NULL DEFAULT '',
			status VARCHAR(20) NOT NULL DEFAULT 'En attente'
				CHECK (status IN ('En attente', 'En cours', 'Traité'))
		)`,

		`CREATE INDEX IF NOT EXISTS idx_admins_email ON admins(email)`,
		`CREATE INDEX IF NOT EXISTS idx_problem_types_is_active ON problem_types(is_active)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_created_at ON feedbacks(created_at)`,
		`CREATE INDEX IF NOT EXISTS idx_feedbacks_status ON feedbacks(status)`,
	}

	for _, query := range queries {
		if _, err := db.ExecContext(ctx, query); err != nil {
			return err
		}
	}
	return nil
}

// SeedProblemTypes inserts the default catalog into an empty problem_types table.
func SeedProblemTypes(ctx context.Context, db *sql.DB) error {
	var count int
	if err := db.QueryRowContext(ctx, `SELECT COUNT(*) FROM problem_types`).Scan(&count); err != nil {
		return err
	}
	if count > 0 {
		return nil
	}
	for _, label := range models.DefaultProblemTypes {
		if _, err := db.ExecContext(ctx,
			`INSERT INTO problem_types (label, is_active) VALUES ($1, TRUE) ON CONFLICT (label) DO NOTHING`,
			label); err != nil {
			return err
		}
	}
	return nil
}
