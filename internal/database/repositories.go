package database

import (
	"context"
	"time"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/google/uuid"
)

// PlanRepositoryInterface defines the interface for plan repository operations
// This interface enables better testability by allowing mock implementations
type PlanRepositoryInterface interface {
	Create(ctx context.Context, plan *models.Plan) error
	GetByID(ctx context.Context, id uuid.UUID) (*models.Plan, error)
	ListActive(ctx context.Context) ([]*models.Plan, error)
	GetCompletedTasks(ctx context.Context, planID uuid.UUID) (models.CompletionSet, error)
	SetTaskCompletion(ctx context.Context, planID uuid.UUID, taskID string, completed bool) error
	UpdateNudgeTimestamps(ctx context.Context, planID uuid.UUID, sentAt time.Time) error
	UpdatePreferences(ctx context.Context, planID uuid.UUID, prefs models.Preferences) error
	UpdateStatus(ctx context.Context, planID uuid.UUID, status models.PlanStatus) error
}

// Ensure concrete types implement the interfaces
var _ PlanRepositoryInterface = (*PlanRepository)(nil)
