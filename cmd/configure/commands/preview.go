package commands

import (
	"context"
	"fmt"
	"os"
	"time"

	"github.com/benvon/launch-coach/internal/compose"
	"github.com/benvon/launch-coach/internal/config"
	"github.com/benvon/launch-coach/internal/database"
	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/timeline"
	"github.com/google/uuid"
	"github.com/spf13/cobra"
)

// NewPreviewCmd creates the preview command
func NewPreviewCmd() *cobra.Command {
	var planID string

	cmd := &cobra.Command{
		Use:   "preview",
		Short: "Preview the next nudge message for a plan",
		Long:  "Compose the nudge message a plan would receive right now and print it without sending. The AI coaching comment is replaced by the canned fallback.",
		RunE: func(cmd *cobra.Command, args []string) error {
			if planID == "" {
				return fmt.Errorf("--plan is required")
			}
			id, err := uuid.Parse(planID)
			if err != nil {
				return fmt.Errorf("invalid plan ID: %w", err)
			}

			cfg, err := config.Load()
			if err != nil {
				return fmt.Errorf("failed to load config: %w", err)
			}

			db, err := database.New(cfg.DatabaseURL)
			if err != nil {
				return fmt.Errorf("failed to connect to database: %w", err)
			}
			defer func() {
				if err := db.Close(); err != nil {
					fmt.Fprintf(os.Stderr, "Warning: failed to close database: %v\n", err)
				}
			}()

			planRepo := database.NewPlanRepository(db)
			ctx := context.Background()

			plan, err := planRepo.GetByID(ctx, id)
			if err != nil {
				return fmt.Errorf("failed to load plan: %w", err)
			}
			completed, err := planRepo.GetCompletedTasks(ctx, plan.ID)
			if err != nil {
				return fmt.Errorf("failed to load completion state: %w", err)
			}

			templates, err := compose.Load(cfg.TemplatesPath)
			if err != nil {
				return fmt.Errorf("failed to load templates: %w", err)
			}

			now := time.Now().UTC()
			currentDay := plan.CurrentPlanDay(now)
			lookahead := plan.NudgeFrequency.LookaheadDays()

			var due, upcoming []models.Task
			missed := 0
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
					missed++
				}
			}

			composer := compose.NewComposer(nil, templates, nil)
			subject, body, err := composer.Compose(ctx, compose.Snapshot{
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
				MissedCount:    missed,
			})
			if err != nil {
				return fmt.Errorf("failed to compose message: %w", err)
			}

			fmt.Printf("To: %s\n", plan.Email)
			fmt.Printf("Subject: %s\n\n", subject)
			fmt.Println(body)
			return nil
		},
	}

	cmd.Flags().StringVar(&planID, "plan", "", "Plan ID to preview")

	return cmd
}
