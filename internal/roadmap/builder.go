// Package roadmap turns an intake profile into a persisted, day-indexed plan.
// Generation prefers the AI provider but always degrades to the deterministic
// fallback skeleton; only a persistence failure surfaces to the caller.
package roadmap

import (
	"context"
	"fmt"
	"sort"
	"time"

	"github.com/benvon/launch-coach/internal/database"
	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/services/ai"
	"github.com/benvon/launch-coach/internal/timeline"
	"go.uber.org/zap"
)

const (
	// DefaultGenerateTimeout bounds the provider call; a timeout is treated
	// the same as any other provider error and triggers the fallback.
	DefaultGenerateTimeout = 60 * time.Second

	// MinTasksPerWeek and MaxTasksPerWeek set the requested task density.
	MinTasksPerWeek = 3
	MaxTasksPerWeek = 5
)

// Builder builds and persists roadmap plans.
type Builder struct {
	provider   ai.Provider // nil disables AI generation entirely
	planRepo   database.PlanRepositoryInterface
	logger     *zap.Logger
	genTimeout time.Duration
}

// NewBuilder creates a roadmap builder. provider may be nil, in which case
// every plan uses the fallback skeleton.
func NewBuilder(provider ai.Provider, planRepo database.PlanRepositoryInterface, logger *zap.Logger) *Builder {
	return &Builder{
		provider:   provider,
		planRepo:   planRepo,
		logger:     logger,
		genTimeout: DefaultGenerateTimeout,
	}
}

// SetGenerateTimeout overrides the provider call timeout.
func (b *Builder) SetGenerateTimeout(d time.Duration) {
	if d > 0 {
		b.genTimeout = d
	}
}

// Build derives the timeline, generates a roadmap (AI or fallback), and
// persists the plan. The returned plan carries the store-issued ID.
func (b *Builder) Build(ctx context.Context, intake models.IntakeProfile, email, name string) (*models.Plan, error) {
	multiplier := timeline.PacingMultiplier(intake.HoursPerWeek)
	totalWeeks := timeline.TotalWeeks(multiplier)
	totalDays := timeline.TotalDays(multiplier)
	startPhase := timeline.StartPhase(intake.BusinessStage)

	now := time.Now().UTC()
	plan := &models.Plan{
		Email:          email,
		Name:           name,
		Title:          defaultTitle(intake),
		TotalWeeks:     totalWeeks,
		TotalDays:      totalDays,
		FirstRevenue:   timeline.FirstRevenueTarget(intake.HoursPerWeek),
		StartDate:      time.Date(now.Year(), now.Month(), now.Day(), 0, 0, 0, 0, time.UTC),
		Status:         models.PlanStatusActive,
		CoachingStyle:  intake.CoachingStyle,
		NudgeFrequency: intake.NudgeFrequency,
		ContentDepth:   intake.ContentDepth,
		Intake:         intake,
	}

	roadmap, title, err := b.generate(ctx, intake, multiplier, totalWeeks, totalDays, startPhase)
	if err != nil {
		// Provider failure is recovered locally, never surfaced to the user.
		if b.logger != nil {
			b.logger.Warn("roadmap_generation_fell_back",
				zap.String("hours_per_week", intake.HoursPerWeek),
				zap.Bool("rate_limited", ai.IsRateLimitError(err)),
				zap.Bool("quota_exhausted", ai.IsQuotaError(err)),
				zap.Error(err),
			)
		}
		roadmap = FallbackRoadmap(intake, multiplier, totalWeeks, totalDays, startPhase)
		title = ""
	}
	if title != "" {
		plan.Title = title
	}

	normalizeRoadmap(&roadmap, totalDays)
	plan.Roadmap = roadmap

	// Persistence failure is the only fatal path.
	if err := b.planRepo.Create(ctx, plan); err != nil {
		return nil, fmt.Errorf("failed to persist plan: %w", err)
	}

	if b.logger != nil {
		b.logger.Info("plan_created",
			zap.String("plan_id", plan.ID.String()),
			zap.Int("total_weeks", totalWeeks),
			zap.Int("task_count", len(plan.Roadmap.Tasks)),
			zap.String("nudge_frequency", string(plan.NudgeFrequency)),
		)
	}

	return plan, nil
}

// generate calls the provider and parses its response. Any error means the
// caller should use the fallback.
func (b *Builder) generate(ctx context.Context, intake models.IntakeProfile, multiplier float64, totalWeeks, totalDays, startPhase int) (models.Roadmap, string, error) {
	if b.provider == nil {
		return models.Roadmap{}, "", fmt.Errorf("no generative provider configured")
	}

	genCtx, cancel := context.WithTimeout(ctx, b.genTimeout)
	defer cancel()

	prompt := buildRoadmapPrompt(intake, multiplier, totalWeeks, totalDays, startPhase)
	content, err := b.provider.Generate(genCtx, prompt, ai.GenerateOptions{
		JSONMode:     true,
		SystemPrompt: roadmapSystemPrompt,
	})
	if err != nil {
		return models.Roadmap{}, "", err
	}

	roadmap, title, err := parseRoadmapResponse(content)
	if err != nil {
		return models.Roadmap{}, "", err
	}
	if len(roadmap.Tasks) == 0 {
		return models.Roadmap{}, "", fmt.Errorf("generated roadmap has no tasks")
	}

	return roadmap, title, nil
}

// normalizeRoadmap enforces the day-range invariant, fills derived fields,
// assigns IDs to tasks that lack one, and stable-sorts tasks by day so the
// original generation order breaks ties.
func normalizeRoadmap(r *models.Roadmap, totalDays int) {
	for i := range r.Tasks {
		t := &r.Tasks[i]
		if t.Day < 1 {
			t.Day = 1
		}
		if t.Day > totalDays {
			t.Day = totalDays
		}
		t.Week = timeline.WeekForDay(t.Day)
		if t.ID == "" {
			t.ID = fmt.Sprintf("task-%d", i+1)
		}
		switch t.Type {
		case models.TaskTypeAction, models.TaskTypeResearch, models.TaskTypeCreation,
			models.TaskTypeOutreach, models.TaskTypeReview, models.TaskTypeMilestone:
		default:
			t.Type = models.DefaultTaskType
		}
		if t.Type == models.TaskTypeMilestone {
			t.IsMilestone = true
		}
	}

	sort.SliceStable(r.Tasks, func(i, j int) bool {
		return r.Tasks[i].Day < r.Tasks[j].Day
	})

	for i := range r.Milestones {
		m := &r.Milestones[i]
		if m.Day < 1 {
			m.Day = 1
		}
		if m.Day > totalDays {
			m.Day = totalDays
		}
	}
}

func defaultTitle(intake models.IntakeProfile) string {
	if intake.BusinessType != "" {
		return fmt.Sprintf("Launch Roadmap: %s", intake.BusinessType)
	}
	return "Launch Roadmap"
}
