package database

import (
	"context"
	"database/sql"
	"encoding/json"
	"fmt"
	"time"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/google/uuid"
)

// PlanRepository handles plan database operations
type PlanRepository struct {
	db *DB
}

// NewPlanRepository creates a new plan repository
func NewPlanRepository(db *DB) *PlanRepository {
	return &PlanRepository{db: db}
}

const planColumns = `id, email, name, title, total_weeks, total_days, first_revenue_target,
		start_date, status, coaching_style, nudge_frequency, content_depth,
		intake_data, roadmap_data, last_nudge_sent, last_email_sent, created_at, updated_at`

/// Create persists a new plan. The store issues the canonical identifier:
// any ID already set on the plan is overwritten.
func (r *PlanRepository) Create(ctx context.Context, plan *models.Plan) error {
	query := `
		INSERT INTO plans (` + planColumns + `)
		VALUES ($1, $2, $3, $4, $5, $6, $7, $8, $9, $10, $11, $12, $13, $14, $15, $16, $17, $18)
		RETURNING created_at, updated_at
	`

	intakeJSON, err := json.Marshal(plan.Intake)
	if err != nil {
		return fmt.Errorf("failed to marshal intake data: %w", err)
	}
	roadmapJSON, err := json.Marshal(plan.Roadmap)
	if err != nil {
		return fmt.Errorf("failed to marshal roadmap data: %w", err)
	}

	plan.ID = uuid.New()
	now := time.Now()
	err = r.db.QueryRowContext(ctx, query,
		plan.ID,
		plan.Email,
		plan.Name,
		plan.Title,
		plan.TotalWeeks,
		plan.TotalDays,
		plan.FirstRevenue,
		plan.StartDate,
		plan.Status,
		plan.CoachingStyle,
		plan.NudgeFrequency,
		plan.ContentDepth,
		intakeJSON,
		roadmapJSON,
		nil,
		nil,
		now,
		now,
	).Scan(&plan.CreatedAt, &plan.UpdatedAt)

	if err != nil {
		return fmt.Errorf("failed to create plan: %w", err)
	}

	return nil
}

// GetByID retrieves a plan by ID
func (r *PlanRepository) GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE id = $1`

	plan, err := r.scanPlan(r.db.QueryRowContext(ctx, query, id))
	if err == sql.ErrNoRows {
		return nil, fmt.Errorf("plan not found: %w", err)
	}
	if err != nil {
		return nil, fmt.Errorf("failed to get plan: %w", err)
	}

	return plan, nil
}

// ListActive retrieves all plans in active status, in one pass. The nudge
// scheduler reads this on every batch run.
func (r *PlanRepository) ListActive(ctx context.Context) ([]*models.Plan, error) {
	query := `SELECT ` + planColumns + ` FROM plans WHERE status = $1 ORDER BY created_at`

	rows, err := r.db.QueryContext(ctx, query, models.PlanStatusActive)
	if err != nil {
		return nil, fmt.Errorf("failed to query active plans: %w", err)
	}
	defer rows.Close()

	var plans []*models.Plan
	for rows.Next() {
		plan, err := r.scanPlan(rows)
		if err != nil {
			return nil, fmt.Errorf("failed to scan plan: %w", err)
		}
		plans = append(plans, plan)
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating plans: %w", err)
	}

	return plans, nil
}

// GetCompletedTasks returns the set of task IDs marked done for a plan.
func (r *PlanRepository) GetCompletedTasks(ctx context.Context, planID uuid.UUID) (models.CompletionSet, error) {
	query := `SELECT task_id FROM completed_tasks WHERE plan_id = $1`

	rows, err := r.db.QueryContext(ctx, query, planID)
	if err != nil {
		return nil, fmt.Errorf("failed to query completed tasks: %w", err)
	}
	defer rows.Close()

	set := models.CompletionSet{}
	for rows.Next() {
		var taskID string
		if err := rows.Scan(&taskID); err != nil {
			return nil, fmt.Errorf("failed to scan task id: %w", err)
		}
		set[taskID] = struct{}{}
	}

	if err := rows.Err(); err != nil {
		return nil, fmt.Errorf("error iterating completed tasks: %w", err)
	}

	return set, nil
}

// SetTaskCompletion marks or unmarks a task done. Marking is idempotent.
func (r *PlanRepository) SetTaskCompletion(ctx context.Context, planID uuid.UUID, taskID string, completed bool) error {
	if completed {
		query := `
			INSERT INTO completed_tasks (plan_id, task_id, completed_at)
			VALUES ($1, $2, $3)
			ON CONFLICT (plan_id, task_id) DO NOTHING
		`
		if _, err := r.db.ExecContext(ctx, query, planID, taskID, time.Now()); err != nil {
			return fmt.Errorf("failed to mark task complete: %w", err)
		}
		return nil
	}

	query := `DELETE FROM completed_tasks WHERE plan_id = $1 AND task_id = $2`
	if _, err := r.db.ExecContext(ctx, query, planID, taskID); err != nil {
		return fmt.Errorf("failed to unmark task: %w", err)
	}
	return nil
}

// UpdateNudgeTimestamps records a successful send. Only the scheduler writes
// these fields.
func (r *PlanRepository) UpdateNudgeTimestamps(ctx context.Context, planID uuid.UUID, sentAt time.Time) error {
	query := `
		UPDATE plans
		SET last_nudge_sent = $2, last_email_sent = $2, updated_at = $3
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, planID, sentAt, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update nudge timestamps: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("plan not found")
	}

	return nil
}

// UpdatePreferences updates the per-plan message preferences.
func (r *PlanRepository) UpdatePreferences(ctx context.Context, planID uuid.UUID, prefs models.Preferences) error {
	query := `
		UPDATE plans
		SET coaching_style = $2, nudge_frequency = $3, content_depth = $4, updated_at = $5
		WHERE id = $1
	`

	result, err := r.db.ExecContext(ctx, query, planID,
		prefs.CoachingStyle, prefs.NudgeFrequency, prefs.ContentDepth, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update preferences: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("plan not found")
	}

	return nil
}

// UpdateStatus moves a plan between active/paused/completed.
func (r *PlanRepository) UpdateStatus(ctx context.Context, planID uuid.UUID, status models.PlanStatus) error {
	query := `UPDATE plans SET status = $2, updated_at = $3 WHERE id = $1`

	result, err := r.db.ExecContext(ctx, query, planID, status, time.Now())
	if err != nil {
		return fmt.Errorf("failed to update status: %w", err)
	}

	rowsAffected, err := result.RowsAffected()
	if err != nil {
		return fmt.Errorf("failed to get rows affected: %w", err)
	}
	if rowsAffected == 0 {
		return fmt.Errorf("plan not found")
	}

	return nil
}

type rowScanner interface {
	Scan(dest ...any) error
}

func (r *PlanRepository) scanPlan(row rowScanner) (*models.Plan, error) {
	plan := &models.Plan{}
	var intakeJSON, roadmapJSON []byte
	var lastNudgeSent, lastEmailSent sql.NullTime

	err := row.Scan(
		&plan.ID,
		&plan.Email,
		&plan.Name,
		&plan.Title,
		&plan.TotalWeeks,
		&plan.TotalDays,
		&plan.FirstRevenue,
		&plan.StartDate,
		&plan.Status,
		&plan.CoachingStyle,
		&plan.NudgeFrequency,
		&plan.ContentDepth,
		&intakeJSON,
		&roadmapJSON,
		&lastNudgeSent,
		&lastEmailSent,
		&plan.CreatedAt,
		&plan.UpdatedAt,
	)
	if err != nil {
		return nil, err
	}

	if err := json.Unmarshal(intakeJSON, &plan.Intake); err != nil {
		return nil, fmt.Errorf("failed to unmarshal intake data: %w", err)
	}
	if err := json.Unmarshal(roadmapJSON, &plan.Roadmap); err != nil {
		return nil, fmt.Errorf("failed to unmarshal roadmap data: %w", err)
	}

	if lastNudgeSent.Valid {
		plan.LastNudgeSent = &lastNudgeSent.Time
	}
	if lastEmailSent.Valid {
		plan.LastEmailSent = &lastEmailSent.Time
	}

	return plan, nil
}
