package models

import (
	"time"

	"github.com/google/uuid"
)

// PlanStatus represents the lifecycle state of a roadmap plan.
type PlanStatus string

const (
	PlanStatusActive    PlanStatus = "active"
	PlanStatusCompleted PlanStatus = "completed"
	PlanStatusPaused    PlanStatus = "paused"
)

// TaskType categorizes a roadmap task.
type TaskType string

const (
	TaskTypeAction    TaskType = "action"
	TaskTypeResearch  TaskType = "research"
	TaskTypeCreation  TaskType = "creation"
	TaskTypeOutreach  TaskType = "outreach"
	TaskTypeReview    TaskType = "review"
	TaskTypeMilestone TaskType = "milestone"

	// DefaultTaskType is used when an unknown task type is encountered.
	DefaultTaskType = TaskTypeAction
)

// Task is a single day-indexed roadmap item. Tasks are immutable once
// generated; only their completion state (tracked separately) changes.
type Task struct {
	ID           string   `json:"id"`
	Day          int      `json:"day"`
	Week         int      `json:"week"`
	Phase        int      `json:"phase"`
	Title        string   `json:"title"`
	Description  string   `json:"description,omitempty"`
	Criteria     string   `json:"completion_criteria,omitempty"`
	TimeEstimate string   `json:"time_estimate,omitempty"`
	Type         TaskType `json:"type"`
	Resources    []string `json:"resources,omitempty"`
	IsMilestone  bool     `json:"is_milestone"`
}

// Phase groups consecutive weeks of a roadmap under a theme.
type Phase struct {
	Number      int    `json:"number"`
	Title       string `json:"title"`
	WeekStart   int    `json:"week_start"`
	WeekEnd     int    `json:"week_end"`
	Description string `json:"description,omitempty"`
}

// Milestone is a named checkpoint within a roadmap.
type Milestone struct {
	Day   int    `json:"day"`
	Title string `json:"title"`
}

// Roadmap is the generated task/phase/milestone structure. It is stored as an
// opaque JSON blob on the plan record.
type Roadmap struct {
	Tasks      []Task      `json:"tasks"`
	Phases     []Phase     `json:"phases"`
	Milestones []Milestone `json:"milestones"`
}

// Plan is a generated roadmap plan. The preference fields are copied from the
// IntakeProfile at creation so the user can change them independently.
type Plan struct {
	ID             uuid.UUID      `json:"id"`
	Email          string         `json:"email"`
	Name           string         `json:"name,omitempty"`
	Title          string         `json:"title"`
	TotalWeeks     int            `json:"total_weeks"`
	TotalDays      int            `json:"total_days"`
	FirstRevenue   string         `json:"first_revenue_target"`
	StartDate      time.Time      `json:"start_date"`
	Status         PlanStatus     `json:"status"`
	CoachingStyle  CoachingStyle  `json:"coaching_style"`
	NudgeFrequency NudgeFrequency `json:"nudge_frequency"`
	ContentDepth   ContentDepth   `json:"content_depth"`
	Intake         IntakeProfile  `json:"intake"`
	Roadmap        Roadmap        `json:"roadmap"`
	LastNudgeSent  *time.Time     `json:"last_nudge_sent,omitempty"`
	LastEmailSent  *time.Time     `json:"last_email_sent,omitempty"`
	CreatedAt      time.Time      `json:"created_at"`
	UpdatedAt      time.Time      `json:"updated_at"`
}

// Preferences are the three per-plan message settings the user can change
// after intake.
type Preferences struct {
	CoachingStyle  CoachingStyle  `json:"coaching_style"`
	NudgeFrequency NudgeFrequency `json:"nudge_frequency"`
	ContentDepth   ContentDepth   `json:"content_depth"`
}

// CompletionSet is the set of task IDs marked done for a plan.
type CompletionSet map[string]struct{}

// Contains reports whether the task ID is marked done.
func (s CompletionSet) Contains(taskID string) bool {
	_, ok := s[taskID]
	return ok
}

// ProgressPct returns the rounded completion percentage for totalTasks tasks.
// An empty plan is 0%, never a division by zero.
func (s CompletionSet) ProgressPct(totalTasks int) int {
	if totalTasks == 0 {
		return 0
	}
	return int(float64(len(s))*100/float64(totalTasks) + 0.5)
}

// CurrentPlanDay returns the 1-indexed plan day for the given instant. Day
// arithmetic is done on UTC-normalized calendar days so behavior near
// midnight does not depend on server locale.
func (p *Plan) CurrentPlanDay(now time.Time) int {
	return CalendarDaysBetween(p.StartDate, now) + 1
}

// CalendarDaysBetween returns the number of whole UTC calendar days from a to
// b. Negative when b precedes a.
func CalendarDaysBetween(a, b time.Time) int {
	au := a.UTC()
	bu := b.UTC()
	astart := time.Date(au.Year(), au.Month(), au.Day(), 0, 0, 0, 0, time.UTC)
	bstart := time.Date(bu.Year(), bu.Month(), bu.Day(), 0, 0, 0, 0, time.UTC)
	return int(bstart.Sub(astart).Hours() / 24)
}

// IntervalDays returns the minimum number of days between nudges for the
// frequency. The second return is false for on_request, which never sends.
func (f NudgeFrequency) IntervalDays() (int, bool) {
	switch f {
	case FrequencyDaily:
		return 1, true
	case FrequencyEveryFewDays:
		return 3, true
	case FrequencyWeekly:
		return 7, true
	case FrequencyOnRequest:
		return 0, false
	default:
		return 7, true
	}
}

// LookaheadDays returns how many days past the current plan day a nudge
// message looks for upcoming tasks.
func (f NudgeFrequency) LookaheadDays() int {
	if f == FrequencyWeekly {
		return 7
	}
	return 1
}
