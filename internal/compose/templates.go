package compose

import (
	"fmt"
	"os"
	"strings"

	"github.com/benvon/launch-coach/internal/models"
	"gopkg.in/yaml.v3"
)

// StyleTemplates holds the message templates for one coaching style.
// Placeholders: {name}, {title}, {day}, {week}, {total_weeks}, {progress},
// {completed}, {missed}.
type StyleTemplates struct {
	DailySubject    string `yaml:"daily_subject"`
	DailyGreeting   string `yaml:"daily_greeting"`
	WeeklySubject   string `yaml:"weekly_subject"`
	WeeklyGreeting  string `yaml:"weekly_greeting"`
	CaughtUp        string `yaml:"caught_up"`
	FallbackComment string `yaml:"fallback_comment"`
}

// TemplateTable maps coaching styles to their templates.
type TemplateTable map[models.CoachingStyle]StyleTemplates

// defaultTemplates are the compiled-in templates. A YAML file can override
// individual fields per style; anything unset falls back to these.
var defaultTemplates = TemplateTable{
	models.CoachingStyleDirect: {
		DailySubject:    "Day {day}: today's tasks for {title}",
		DailyGreeting:   "Day {day}. Here's what to do.",
		WeeklySubject:   "Week {week} of {total_weeks}: your plan check-in",
		WeeklyGreeting:  "Week {week}. You're at {progress}% of the plan. Here's what matters this week.",
		CaughtUp:        "Nothing due today. You're caught up, so use the time to get ahead or take the rest day.",
		FallbackComment: "You completed {completed} tasks and missed {missed} this week. Keep the streak where it counts.",
	},
	models.CoachingStyleExplainWhy: {
		DailySubject:    "Day {day} of {title}: today's focus and why it matters",
		DailyGreeting:   "It's day {day}. Each task below moves you toward your first revenue, so here's today's focus.",
		WeeklySubject:   "Week {week} check-in: where you are and why this week matters",
		WeeklyGreeting:  "You've reached week {week} of {total_weeks} at {progress}% complete. This week's tasks build directly on what you've finished.",
		CaughtUp:        "Nothing is due today, and that's by plan: the roadmap leaves room to breathe so you don't burn out before launch.",
		FallbackComment: "This week you completed {completed} tasks and missed {missed}. Finished tasks compound, which is why closing the missed ones first matters most.",
	},
	models.CoachingStyleHandHolding: {
		DailySubject:    "Your day {day} checklist for {title}",
		DailyGreeting:   "Hi {name}, welcome to day {day}! Here's your checklist, one step at a time.",
		WeeklySubject:   "Week {week}: you're doing great, here's your check-in",
		WeeklyGreeting:  "Hi {name}, you made it to week {week} and you're {progress}% through the plan. Let's walk through this week together.",
		CaughtUp:        "You're all caught up today, {name}, genuinely well done. Rest up; tomorrow's tasks will be waiting.",
		FallbackComment: "You finished {completed} tasks this week and {missed} slipped, which happens to everyone. Pick one to catch up on and you're back on track.",
	},
	models.CoachingStyleChallenging: {
		DailySubject:    "Day {day}. {title} won't launch itself.",
		DailyGreeting:   "Day {day} of {total_weeks} weeks. Prove today counts.",
		WeeklySubject:   "Week {week} scorecard: {progress}% done",
		WeeklyGreeting:  "Week {week}. {progress}% complete. The founders who win treat this list as non-negotiable.",
		CaughtUp:        "Nothing due. Most people would coast; get ahead of next week instead.",
		FallbackComment: "{completed} done, {missed} missed. The missed ones are the ones that would have paid you.",
	},
}

// Load returns the template table, applying overrides from the YAML file at
// path when path is non-empty. Unknown styles in the file are ignored.
func Load(path string) (TemplateTable, error) {
	table := make(TemplateTable, len(defaultTemplates))
	for style, st := range defaultTemplates {
		table[style] = st
	}
	if path == "" {
		return table, nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read template file: %w", err)
	}

	var overrides map[string]StyleTemplates
	if err := yaml.Unmarshal(data, &overrides); err != nil {
		return nil, fmt.Errorf("failed to parse template file: %w", err)
	}

	for name, override := range overrides {
		style := models.CoachingStyle(name)
		base, ok := table[style]
		if !ok {
			continue
		}
		table[style] = mergeTemplates(base, override)
	}

	return table, nil
}

func mergeTemplates(base, override StyleTemplates) StyleTemplates {
	if override.DailySubject != "" {
		base.DailySubject = override.DailySubject
	}
	if override.DailyGreeting != "" {
		base.DailyGreeting = override.DailyGreeting
	}
	if override.WeeklySubject != "" {
		base.WeeklySubject = override.WeeklySubject
	}
	if override.WeeklyGreeting != "" {
		base.WeeklyGreeting = override.WeeklyGreeting
	}
	if override.CaughtUp != "" {
		base.CaughtUp = override.CaughtUp
	}
	if override.FallbackComment != "" {
		base.FallbackComment = override.FallbackComment
	}
	return base
}

// styleFor resolves a coaching style to its templates, silently defaulting
// on unknown styles.
func (t TemplateTable) styleFor(style models.CoachingStyle) StyleTemplates {
	if st, ok := t[style]; ok {
		return st
	}
	return t[models.DefaultCoachingStyle]
}

// interpolate substitutes the placeholder tokens in a template string.
func interpolate(tmpl string, vars map[string]string) string {
	pairs := make([]string, 0, len(vars)*2)
	for k, v := range vars {
		pairs = append(pairs, "{"+k+"}", v)
	}
	return strings.NewReplacer(pairs...).Replace(tmpl)
}
