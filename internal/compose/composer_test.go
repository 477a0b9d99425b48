package compose

import (
	"context"
	"errors"
	"html"
	"strings"
	"testing"

	"github.com/benvon/launch-coach/internal/models"
	"github.com/benvon/launch-coach/internal/services/ai"
	"github.com/google/uuid"
)

type mockProvider struct {
	response string
	err      error
	calls    int
}

func (m *mockProvider) Generate(_ context.Context, _ string, _ ai.GenerateOptions) (string, error) {
	m.calls++
	return m.response, m.err
}

var _ ai.Provider = (*mockProvider)(nil)

func taskN(n int) []models.Task {
	tasks := make([]models.Task, n)
	for i := range tasks {
		tasks[i] = models.Task{
			ID:          "task-" + string(rune('a'+i)),
			Title:       "Task " + string(rune('A'+i)),
			Description: "Description " + string(rune('A'+i)),
			Criteria:    "Criteria " + string(rune('A'+i)),
		}
	}
	return tasks
}

func baseSnapshot() Snapshot {
	return Snapshot{
		PlanTitle:     "Launch Roadmap: Candle Studio",
		RecipientName: "Sam",
		CoachingStyle: models.CoachingStyleDirect,
		ContentDepth:  models.DepthBalanced,
		Frequency:     models.FrequencyDaily,
		CurrentDay:    8,
		CurrentWeek:   2,
		TotalWeeks:    12,
		ProgressPct:   25,
	}
}

func TestComposeDailyBoundsTasksToFive(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()
	snap.DueTasks = taskN(4)
	snap.UpcomingTasks = taskN(4)

	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got := strings.Count(body, "<li>"); got != 5 {
		t.Errorf("daily task count = %d, want 5", got)
	}
}

func TestComposeWeeklyBoundsTasksToTen(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()
	snap.Frequency = models.FrequencyWeekly
	snap.DueTasks = taskN(7)
	snap.UpcomingTasks = taskN(7)

	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}

	if got := strings.Count(body, "<li>"); got != 10 {
		t.Errorf("weekly task count = %d, want 10", got)
	}
}

func TestComposeDepthGating(t *testing.T) {
	t.Parallel()

	tests := []struct {
		name            string
		depth           models.ContentDepth
		wantDescription bool
		wantCriteria    bool
	}{
		{"essential titles only", models.DepthEssential, false, false},
		{"balanced adds description", models.DepthBalanced, true, false},
		{"deep dive adds criteria", models.DepthDeepDive, true, true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			c := NewComposer(nil, nil, nil)
			snap := baseSnapshot()
			snap.ContentDepth = tt.depth
			snap.DueTasks = []models.Task{{
				Title:       "Write your pitch",
				Description: "One paragraph describing the offer",
				Criteria:    "A friend can repeat it back",
			}}

			_, body, err := c.Compose(context.Background(), snap)
			if err != nil {
				t.Fatalf("Compose() error = %v", err)
			}

			if !strings.Contains(body, "Write your pitch") {
				t.Error("body missing task title")
			}
			if got := strings.Contains(body, "One paragraph"); got != tt.wantDescription {
				t.Errorf("description shown = %v, want %v", got, tt.wantDescription)
			}
			if got := strings.Contains(body, "repeat it back"); got != tt.wantCriteria {
				t.Errorf("criteria shown = %v, want %v", got, tt.wantCriteria)
			}
		})
	}
}

func TestComposeCaughtUpVariant(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()

	subject, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if subject == "" {
		t.Error("subject is empty")
	}
	if strings.Contains(body, "<li>") {
		t.Error("caught-up body should not list tasks")
	}
	caughtUp := html.EscapeString(defaultTemplates[models.CoachingStyleDirect].CaughtUp)
	if !strings.Contains(body, caughtUp) {
		t.Errorf("body missing caught-up line %q", caughtUp)
	}
}

func TestComposeWeeklyUsesProviderComment(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{response: "Strong week. Keep the outreach volume up."}
	c := NewComposer(provider, nil, nil)
	snap := baseSnapshot()
	snap.Frequency = models.FrequencyWeekly
	snap.DueTasks = taskN(2)

	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if provider.calls != 1 {
		t.Errorf("provider calls = %d, want 1", provider.calls)
	}
	if !strings.Contains(body, "Keep the outreach volume up") {
		t.Error("body missing provider comment")
	}
}

func TestComposeWeeklyCommentFallsBack(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{err: errors.New("api unavailable")}
	c := NewComposer(provider, nil, nil)
	snap := baseSnapshot()
	snap.Frequency = models.FrequencyWeekly
	snap.DueTasks = taskN(1)
	snap.CompletedCount = 3
	snap.MissedCount = 2

	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if !strings.Contains(body, "3") || !strings.Contains(body, "2") {
		t.Error("fallback comment missing completed/missed counts")
	}
}

func TestComposeDailySkipsProvider(t *testing.T) {
	t.Parallel()

	provider := &mockProvider{response: "unused"}
	c := NewComposer(provider, nil, nil)
	snap := baseSnapshot()
	snap.DueTasks = taskN(1)

	if _, _, err := c.Compose(context.Background(), snap); err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if provider.calls != 0 {
		t.Errorf("provider calls = %d, want 0 on daily view", provider.calls)
	}
}

func TestComposeEscapesUserContent(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()
	snap.PlanTitle = "<script>alert(1)</script>"
	snap.DueTasks = []models.Task{{Title: "<b>bold</b>"}}

	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strings.Contains(body, "<script>") || strings.Contains(body, "<b>bold</b>") {
		t.Error("body contains unescaped user content")
	}
}

func TestComposeUnknownStyleDefaults(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()
	snap.CoachingStyle = models.CoachingStyle("zen")

	subject, _, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if subject == "" {
		t.Error("unknown style should fall back to default templates")
	}
}

func TestComposeFooterLink(t *testing.T) {
	t.Parallel()

	c := NewComposer(nil, nil, nil)
	snap := baseSnapshot()
	snap.PlanID = uuid.New()
	snap.DueTasks = taskN(1)

	// No base URL configured: no footer.
	_, body, err := c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	if strings.Contains(body, "View your full roadmap") {
		t.Error("footer should be omitted without a base URL")
	}

	c.SetBaseURL("https://coach.example.com/")
	_, body, err = c.Compose(context.Background(), snap)
	if err != nil {
		t.Fatalf("Compose() error = %v", err)
	}
	want := "https://coach.example.com/plans/" + snap.PlanID.String()
	if !strings.Contains(body, want) {
		t.Errorf("body missing footer link %q", want)
	}
}
