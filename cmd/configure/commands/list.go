package commands

import (
	"context"
	"fmt"
	"os"

	"github.com/benvon/launch-coach/internal/config"
	"github.com/benvon/launch-coach/internal/database"
	"github.com/spf13/cobra"
)

// NewListCmd creates the list command
func NewListCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List active plans",
		Long:  "List all plans eligible for the nudge batch",
		RunE: func(cmd *cobra.Command, args []string) error {
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

			plans, err := planRepo.ListActive(ctx)
			if err != nil {
				return fmt.Errorf("failed to list plans: %w", err)
			}

			if len(plans) == 0 {
				fmt.Println("No active plans")
				return nil
			}

			fmt.Println("Active plans:")
			for _, plan := range plans {
				fmt.Printf("  - ID: %s\n", plan.ID)
				fmt.Printf("    Email: %s\n", plan.Email)
				fmt.Printf("    Title: %s\n", plan.Title)
				fmt.Printf("    Started: %s (%d weeks)\n", plan.StartDate.Format("2006-01-02"), plan.TotalWeeks)
				fmt.Printf("    Cadence: %s, style: %s, depth: %s\n", plan.NudgeFrequency, plan.CoachingStyle, plan.ContentDepth)
				if plan.LastNudgeSent != nil {
					fmt.Printf("    Last nudge: %s\n", plan.LastNudgeSent.Format("2006-01-02 15:04"))
				} else {
					fmt.Printf("    Last nudge: never\n")
				}
				fmt.Println()
			}

			return nil
		},
	}

	return cmd
}
