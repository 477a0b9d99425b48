// Package compose builds tone-adapted nudge messages from a plan snapshot.
// The template path never fails; the AI coaching comment on weekly summaries
// degrades to a canned per-style sentence.
package compose

import (
	"context"
	"fmt"
	"html"
	"strconv"
	"strings"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/services/ai"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

const (
	// MaxTasksDaily bounds the task list in a daily-view message.
	MaxTasksDaily = 5
	// MaxTasksWeekly bounds the task list in a weekly-view message.
	MaxTasksWeekly = 10

	// commentMaxTokens caps the AI coaching comment length.
	commentMaxTokens = 200
)

// Snapshot is the per-plan state the scheduler hands to the composer.
type Snapshot struct {
	PlanID         uuid.UUID
	PlanTitle      string
	RecipientName  string
	CoachingStyle  models.CoachingStyle
	ContentDepth   models.ContentDepth
	Frequency      models.NudgeFrequency
	CurrentDay     int
	CurrentWeek    int
	TotalWeeks     int
	ProgressPct    int
	DueTasks       []models.Task
	UpcomingTasks  []models.Task
	CompletedCount int
	MissedCount    int
}

// Composer builds nudge subjects and HTML bodies.
type Composer struct {
	provider  ai.Provider // nil disables AI coaching comments
	templates TemplateTable
	logger    *zap.Logger
	baseURL   string
}

// NewComposer creates a composer. provider may be nil.
func NewComposer(provider ai.Provider, templates TemplateTable, logger *zap.Logger) *Composer {
	if templates == nil {
		templates, _ = Load("")
	}
	return &Composer{provider: provider, templates: templates, logger: logger}
}

// SetBaseURL enables a "view your roadmap" footer link pointing at the
// public site. Empty (the default) omits the footer.
func (c *Composer) SetBaseURL(u string) {
	c.baseURL = strings.TrimRight(u, "/")
}

// Compose builds the subject and HTML body for a snapshot. The error return
// exists for interface symmetry; the template path always succeeds.
func (c *Composer) Compose(ctx context.Context, snap Snapshot) (string, string, error) {
	st := c.templates.styleFor(snap.CoachingStyle)
	weekly := snap.Frequency == models.FrequencyWeekly

	vars := map[string]string{
		"name":        displayName(snap.RecipientName),
		"title":       snap.PlanTitle,
		"day":         strconv.Itoa(snap.CurrentDay),
		"week":        strconv.Itoa(snap.CurrentWeek),
		"total_weeks": strconv.Itoa(snap.TotalWeeks),
		"progress":    strconv.Itoa(snap.ProgressPct),
		"completed":   strconv.Itoa(snap.CompletedCount),
		"missed":      strconv.Itoa(snap.MissedCount),
	}

	var subject, greeting string
	if weekly {
		subject = interpolate(st.WeeklySubject, vars)
		greeting = interpolate(st.WeeklyGreeting, vars)
	} else {
		subject = interpolate(st.DailySubject, vars)
		greeting = interpolate(st.DailyGreeting, vars)
	}

	var body strings.Builder
	fmt.Fprintf(&body, "<h2>%s</h2>\n", html.EscapeString(greeting))
	fmt.Fprintf(&body, "<p>Progress: %d%% of <strong>%s</strong></p>\n",
		snap.ProgressPct, html.EscapeString(snap.PlanTitle))

	if len(snap.DueTasks) == 0 && len(snap.UpcomingTasks) == 0 {
		// The cadence is honored even with no outstanding work: send the
		// caught-up variant rather than skipping.
		fmt.Fprintf(&body, "<p>%s</p>\n", html.EscapeString(interpolate(st.CaughtUp, vars)))
		c.writeFooter(&body, snap)
		return subject, body.String(), nil
	}

	maxShown := MaxTasksDaily
	if weekly {
		maxShown = MaxTasksWeekly
	}
	remaining := maxShown

	if len(snap.DueTasks) > 0 {
		body.WriteString("<h3>Due today</h3>\n")
		remaining -= c.writeTaskList(&body, snap.DueTasks, snap.ContentDepth, remaining)
	}
	if len(snap.UpcomingTasks) > 0 && remaining > 0 {
		if weekly {
			body.WriteString("<h3>This week</h3>\n")
		} else {
			body.WriteString("<h3>Coming up</h3>\n")
		}
		c.writeTaskList(&body, snap.UpcomingTasks, snap.ContentDepth, remaining)
	}

	if weekly {
		comment := c.coachingComment(ctx, snap, st, vars)
		fmt.Fprintf(&body, "<p><em>%s</em></p>\n", html.EscapeString(comment))
	}

	c.writeFooter(&body, snap)
	return subject, body.String(), nil
}

func (c *Composer) writeFooter(body *strings.Builder, snap Snapshot) {
	if c.baseURL == "" || snap.PlanID == uuid.Nil {
		return
	}
	fmt.Fprintf(body, "<p><a href=\"%s/plans/%s\">View your full roadmap</a></p>\n",
		c.baseURL, snap.PlanID)
}

// writeTaskList renders up to limit tasks and returns how many it wrote.
// Detail visibility is gated by content depth: essential shows titles only,
// balanced adds descriptions, deep_dive adds completion criteria.
func (c *Composer) writeTaskList(body *strings.Builder, tasks []models.Task, depth models.ContentDepth, limit int) int {
	body.WriteString("<ul>\n")
	written := 0
	for _, task := range tasks {
		if written >= limit {
			break
		}
		fmt.Fprintf(body, "<li><strong>%s</strong>", html.EscapeString(task.Title))
		if task.TimeEstimate != "" {
			fmt.Fprintf(body, " <span>(%s)</span>", html.EscapeString(task.TimeEstimate))
		}

		switch depth {
		case models.DepthEssential:
			// Title only.
		case models.DepthDeepDive:
			if task.Description != "" {
				fmt.Fprintf(body, "<br>%s", html.EscapeString(task.Description))
			}
			if task.Criteria != "" {
				fmt.Fprintf(body, "<br><em>Done when: %s</em>", html.EscapeString(task.Criteria))
			}
		default:
			if task.Description != "" {
				fmt.Fprintf(body, "<br>%s", html.EscapeString(task.Description))
			}
		}
		body.WriteString("</li>\n")
		written++
	}
	body.WriteString("</ul>\n")
	return written
}

// coachingComment asks the provider for a short weekly comment; on any
// failure it returns the canned per-style sentence with the literal counts.
func (c *Composer) coachingComment(ctx context.Context, snap Snapshot, st StyleTemplates, vars map[string]string) string {
	fallback := interpolate(st.FallbackComment, vars)
	if c.provider == nil {
		return fallback
	}

	prompt := fmt.Sprintf(
		"Write one or two sentences of %s-style coaching for a founder in week %d of a %d-week launch plan. "+
			"They completed %d tasks this week and missed %d. Progress overall: %d%%. "+
			"Address the founder directly. Plain text, no greeting, no sign-off.",
		snap.CoachingStyle, snap.CurrentWeek, snap.TotalWeeks,
		snap.CompletedCount, snap.MissedCount, snap.ProgressPct,
	)

	comment, err := c.provider.Generate(ctx, prompt, ai.GenerateOptions{MaxTokens: commentMaxTokens})
	if err != nil || strings.TrimSpace(comment) == "" {
		if c.logger != nil && err != nil {
			c.logger.Warn("coaching_comment_fell_back", zap.Error(err))
		}
		return fallback
	}
	return strings.TrimSpace(comment)
}

func displayName(name string) string {
	if name == "" {
		return "there"
	}
	return name
}
