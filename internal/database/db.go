package database

import (
	"context"
	"database/sql"
	"fmt"
	"time"

	// Postgres driver
	_ "github.com/lib/pq"
)

// DB wraps the sql.DB connection pool.
type DB struct {
	*sql.DB
}

// New opens a Postgres connection pool and verifies connectivity.
func New(databaseURL string) (*DB, error) {
	db, err := sql.Open("postgres", databaseURL)
	if err != nil {
		return nil, fmt.Errorf("failed to open database: %w", err)
	}

	db.SetMaxOpenConns(25)
	db.SetMaxIdleConns(5)
	db.SetConnMaxLifetime(5 * time.Minute)

	ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
	defer cancel()

	if err := db.PingContext(ctx); err != nil {
		if closeErr := db.Close(); closeErr != nil {
			return nil, fmt.Errorf("failed to ping database: %w (close: %v)", err, closeErr)
		}
		return nil, fmt.Errorf("failed to ping database: %w", err)
	}

	return &DB{DB: db}, nil
}

// HealthCheck verifies the database connection is healthy.
func (db *DB) HealthCheck(ctx context.Context) error {
	return db.PingContext(ctx)
}

// Migrate creates the schema if it does not exist yet.
func (db *DB) Migrate(ctx context.Context) error {
	statements := []string{
		`CREATE TABLE IF NOT EXISTS plans (
			id UUID PRIMARY KEY,
			email TEXT NOT NULL,
			name TEXT NOT NULL DEFAULT '',
			title TEXT NOT NULL,
			total_weeks INT NOT NULL,
			total_days INT NOT NULL,
			first_revenue_target TEXT NOT NULL,
			start_date TIMESTAMPTZ NOT NULL,
			status TEXT NOT NULL DEFAULT 'active',
			coaching_style TEXT NOT NULL,
			nudge_frequency TEXT NOT NULL,
			content_depth TEXT NOT NULL,
			intake_data JSONB NOT NULL,
			roadmap_data JSONB NOT NULL,
			last_nudge_sent TIMESTAMPTZ,
			last_email_sent TIMESTAMPTZ,
			created_at TIMESTAMPTZ NOT NULL,
			updated_at TIMESTAMPTZ NOT NULL
		)`,
		`CREATE INDEX IF NOT EXISTS idx_plans_status ON plans (status)`,
		`CREATE TABLE IF NOT EXISTS completed_tasks (
			plan_id UUID NOT NULL REFERENCES plans(id) ON DELETE CASCADE,
			task_id TEXT NOT NULL,
			completed_at TIMESTAMPTZ NOT NULL,
			PRIMARY KEY (plan_id, task_id)
		)`,
	}

	for _, stmt := range statements {
		if _, err := db.ExecContext(ctx, stmt); err != nil {
			return fmt.Errorf("failed to run migration: %w", err)
		}
	}

	return nil
}
