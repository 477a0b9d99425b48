package roadmap

import (
	"bytes"
	"encoding/json"
	"fmt"
	"strings"

	"github.com/benvon/launch-coach/internal/models"
)

const roadmapSystemPrompt = "You are a startup coach who writes concrete, " +
	"day-by-day launch roadmaps for first-time founders. Respond with valid JSON only."

// buildRoadmapPrompt builds the generation prompt from the intake answers and
// the derived timeline parameters.
func buildRoadmapPrompt(intake models.IntakeProfile, multiplier float64, totalWeeks, totalDays, startPhase int) string {
	var sb strings.Builder

	sb.WriteString("Create a personalized launch roadmap for this founder.\n\nFounder profile:\n")
	fmt.Fprintf(&sb, "- Business: %s (%s)\n", intake.BusinessDescription, intake.BusinessType)
	fmt.Fprintf(&sb, "- Stage: %s\n", intake.BusinessStage)
	if intake.CustomerDescription != "" {
		fmt.Fprintf(&sb, "- Target customer: %s\n", intake.CustomerDescription)
	}
	if intake.Industry != "" {
		fmt.Fprintf(&sb, "- Industry: %s\n", intake.Industry)
	}
	fmt.Fprintf(&sb, "- Available time: %s hours/week\n", intake.HoursPerWeek)
	if intake.Budget != "" {
		fmt.Fprintf(&sb, "- Budget: %s\n", intake.Budget)
	}
	if len(intake.Strengths) > 0 {
		fmt.Fprintf(&sb, "- Strengths: %s\n", strings.Join(intake.Strengths, ", "))
	}
	if intake.BiggestGap != "" {
		fmt.Fprintf(&sb, "- Biggest gap: %s\n", intake.BiggestGap)
	}
	if intake.TimelineTarget != "" {
		fmt.Fprintf(&sb, "- Timeline goal: %s\n", intake.TimelineTarget)
	}
	if intake.RevenueTarget != "" {
		fmt.Fprintf(&sb, "- Revenue goal: %s\n", intake.RevenueTarget)
	}

	sb.WriteString("\nPlan parameters (already computed, do not change them):\n")
	fmt.Fprintf(&sb, "- Total duration: %d weeks (%d days), pacing multiplier %.1f\n", totalWeeks, totalDays, multiplier)
	fmt.Fprintf(&sb, "- Start at phase %d (earlier phases are already done)\n", startPhase)
	fmt.Fprintf(&sb, "- Target density: %d-%d tasks per week, for every week of the plan\n", MinTasksPerWeek, MaxTasksPerWeek)

	sb.WriteString(`
Respond with a JSON object in this format:
{
  "title": "plan title",
  "phases": [{"number": 1, "title": "...", "week_start": 1, "week_end": 2, "description": "..."}],
  "tasks": [{"day": 1, "title": "...", "description": "...", "completion_criteria": "...",
             "time_estimate": "2 hours", "type": "action", "resources": ["..."], "is_milestone": false}],
  "milestones": [{"day": 14, "title": "..."}]
}

Rules:
- "day" is 1-indexed from the plan start and must stay within the plan duration.
- "type" is one of: action, research, creation, outreach, review, milestone.
- Every week of the plan must have tasks; do not front-load the first weeks only.
- Mark revenue-relevant checkpoints (first pitch, first sale) as milestones.

Return only valid JSON.`)

	return sb.String()
}

// roadmapResponse is the JSON schema expected back from the provider.
type roadmapResponse struct {
	Title      string             `json:"title"`
	Phases     []models.Phase     `json:"phases"`
	Tasks      []models.Task      `json:"tasks"`
	Milestones []models.Milestone `json:"milestones"`
}

// parseRoadmapResponse parses the provider response, tolerating prose
// around the JSON object.
func parseRoadmapResponse(content string) (models.Roadmap, string, error) {
	var resp roadmapResponse
	raw := content
	if err := json.Unmarshal([]byte(raw), &resp); err != nil {
		if len(raw) > 0 && raw[0] != '{' {
			start := bytes.Index([]byte(raw), []byte("{"))
			end := bytes.LastIndex([]byte(raw), []byte("}"))
			if start != -1 && end != -1 && end > start {
				raw = raw[start : end+1]
			}
		}
		if err := json.Unmarshal([]byte(raw), &resp); err != nil {
			return models.Roadmap{}, "", fmt.Errorf("failed to parse roadmap response: %w", err)
		}
	}

	return models.Roadmap{
		Tasks:      resp.Tasks,
		Phases:     resp.Phases,
		Milestones: resp.Milestones,
	}, resp.Title, nil
}
