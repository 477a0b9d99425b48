// Package scheduler implements the nudge batch run: it walks all active
// plans, decides per plan whether a notification is due, and composes and
// sends the message. Each plan is evaluated fresh on every run; the only
// persisted scheduling state is the last-sent timestamp, so re-running the
// batch is idempotent and the next cycle is the retry mechanism.
package scheduler

import (
	"context"
	"fmt"
	"sync"
	"time"

	"github.com/benvon/launch-coach/internal/compose"
	"github.com/benvon/launch-coach/internal/database"
	logpkg "github.com/benvon/launch-coach/internal/logger"
	"github.com/benvon/launch-coach/internal/mail"
	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/services/ai"
	"github.com/benvon/launch-coach/internal/timeline"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

// DefaultConcurrency bounds the per-plan worker pool.
const DefaultConcurrency = 4

// Outcome statuses for a single plan in a batch run.
const (
	OutcomeSent    = "sent"
	OutcomeSkipped = "skipped"
	OutcomeFailed  = "failed"
)

// Skip and failure reasons.
const (
	ReasonOnRequest = "on_request"
	ReasonTooSoon   = "too_soon"
	ReasonNoTasks   = "no_tasks"
)

// MessageComposer produces the subject and HTML body for a plan snapshot.
type MessageComposer interface {
	Compose(ctx context.Context, snap compose.Snapshot) (subject, body string, err error)
}

// PlanOutcome records what happened to one plan during a batch run.
type PlanOutcome struct {
	PlanID uuid.UUID `json:"plan_id"`
	Email  string    `json:"email"`
	Status string    `json:"status"`
	Reason string    `json:"reason,omitempty"`
}

// BatchResult is the aggregate report of one batch run. It is for
// operational visibility only; failed plans are retried naturally on the
// next run because their timestamps were not advanced.
type BatchResult struct {
	Processed int           `json:"processed"`
	Sent      int           `json:"sent"`
	Skipped   int           `json:"skipped"`
	Failed    int           `json:"failed"`
	Outcomes  []PlanOutcome `json:"outcomes"`
}

// Scheduler runs the nudge batch over all active plans.
type Scheduler struct {
	planRepo    database.PlanRepositoryInterface
	composer    MessageComposer
	mailer      mail.Mailer
	logger      *zap.Logger
	concurrency int
}

// New creates a scheduler. concurrency <= 0 selects DefaultConcurrency.
func New(planRepo database.PlanRepositoryInterface, composer MessageComposer, mailer mail.Mailer, logger *zap.Logger, concurrency int) *Scheduler {
	if concurrency <= 0 {
		concurrency = DefaultConcurrency
	}
	return &Scheduler{
		planRepo:    planRepo,
		composer:    composer,
		mailer:      mailer,
		logger:      logger,
		concurrency: concurrency,
	}
}

// RunBatch evaluates every active plan against now and sends the nudges that
// are due. Plans are independent, so they are processed by a bounded worker
// pool. The returned error covers only the initial plan listing; per-plan
// failures are recorded in the result and do not stop the batch.
func (s *Scheduler) RunBatch(ctx context.Context, now time.Time) (*BatchResult, error) {
	plans, err := s.planRepo.ListActive(ctx)
	if err != nil {
		return nil, fmt.Errorf("failed to list active plans: %w", err)
	}

	result := &BatchResult{Outcomes: make([]PlanOutcome, 0, len(plans))}
	if len(plans) == 0 {
		s.logger.Info("nudge_batch_completed", zap.Int("processed", 0))
		return result, nil
	}

	jobs := make(chan *models.Plan)
	var mu sync.Mutex
	var wg sync.WaitGroup

	workers := s.concurrency
	if workers > len(plans) {
		workers = len(plans)
	}

	for i := 0; i < workers; i++ {
		wg.Add(1)
		go func() {
			defer wg.Done()
			for plan := range jobs {
				outcome := s.processPlan(ctx, plan, now)
				mu.Lock()
				result.Processed++
				switch outcome.Status {
				case OutcomeSent:
					result.Sent++
				case OutcomeSkipped:
					result.Skipped++
				case OutcomeFailed:
					result.Failed++
				}
				result.Outcomes = append(result.Outcomes, outcome)
				mu.Unlock()
			}
		}()
	}

	for _, plan := range plans {
		jobs <- plan
	}
	close(jobs)
	wg.Wait()

	s.logger.Info("nudge_batch_completed",
		zap.Int("processed", result.Processed),
		zap.Int("sent", result.Sent),
		zap.Int("skipped", result.Skipped),
		zap.Int("failed", result.Failed),
	)
	return result, nil
}

// processPlan runs the per-plan state machine. Timestamps advance only after
// a successful send, so every non-sent outcome leaves the plan untouched.
func (s *Scheduler) processPlan(ctx context.Context, plan *models.Plan, now time.Time) PlanOutcome {
	outcome := PlanOutcome{PlanID: plan.ID, Email: plan.Email}

	intervalDays, sends := plan.NudgeFrequency.IntervalDays()
	if !sends {
		outcome.Status = OutcomeSkipped
		outcome.Reason = ReasonOnRequest
		return outcome
	}

	if plan.LastNudgeSent != nil && models.CalendarDaysBetween(*plan.LastNudgeSent, now) < intervalDays {
		outcome.Status = OutcomeSkipped
		outcome.Reason = ReasonTooSoon
		return outcome
	}

	if len(plan.Roadmap.Tasks) == 0 {
		outcome.Status = OutcomeSkipped
		outcome.Reason = ReasonNoTasks
		return outcome
	}

	completed, err := s.planRepo.GetCompletedTasks(ctx, plan.ID)
	if err != nil {
		s.logger.Error("nudge_completion_read_failed",
			zap.String("plan_id", plan.ID.String()),
			zap.Error(err),
		)
		outcome.Status = OutcomeFailed
		outcome.Reason = "completion_read_failed"
		return outcome
	}

	currentDay := plan.CurrentPlanDay(now)
	lookahead := plan.NudgeFrequency.LookaheadDays()

	var due, upcoming []models.Task
	missedCount := 0
	for _, task := range plan.Roadmap.Tasks {
		if completed.Contains(task.ID) {
			continue
		}
		switch {
		case task.Day == currentDay:
			due = append(due, task)
		case task.Day > currentDay && task.Day <= currentDay+lookahead:
			upcoming = append(upcoming, task)
		case task.Day < currentDay:
			missedCount++
		}
	}

	snap := compose.Snapshot{
		PlanID:         plan.ID,
		PlanTitle:      plan.Title,
		RecipientName:  plan.Name,
		CoachingStyle:  plan.CoachingStyle,
		ContentDepth:   plan.ContentDepth,
		Frequency:      plan.NudgeFrequency,
		CurrentDay:     currentDay,
		CurrentWeek:    timeline.WeekForDay(currentDay),
		TotalWeeks:     plan.TotalWeeks,
		ProgressPct:    completed.ProgressPct(len(plan.Roadmap.Tasks)),
		DueTasks:       due,
		UpcomingTasks:  upcoming,
		CompletedCount: len(completed),
		MissedCount:    missedCount,
	}

	// Tag the context so provider debug logs can be correlated to the plan.
	subject, body, err := s.composer.Compose(ai.WithPlanID(ctx, plan.ID), snap)
	if err != nil {
		outcome.Status = OutcomeFailed
		outcome.Reason = "compose_failed"
		return outcome
	}

	if err := s.mailer.Send(ctx, plan.Email, subject, body); err != nil {
		s.logger.Warn("nudge_send_failed",
			zap.String("plan_id", plan.ID.String()),
			zap.String("error", logpkg.SanitizeError(err)),
		)
		outcome.Status = OutcomeFailed
		outcome.Reason = "send_failed"
		return outcome
	}

	if err := s.planRepo.UpdateNudgeTimestamps(ctx, plan.ID, now); err != nil {
		// The mail went out but the timestamp write failed. Report it so the
		// operator knows the next run may send early.
		s.logger.Error("nudge_timestamp_update_failed",
			zap.String("plan_id", plan.ID.String()),
			zap.Error(err),
		)
		outcome.Status = OutcomeFailed
		outcome.Reason = "timestamp_update_failed"
		return outcome
	}

	s.logger.Info("nudge_sent",
		zap.String("plan_id", plan.ID.String()),
		zap.Int("current_day", currentDay),
		zap.Int("due_tasks", len(due)),
		zap.Int("upcoming_tasks", len(upcoming)),
	)
	outcome.Status = OutcomeSent
	return outcome
}
