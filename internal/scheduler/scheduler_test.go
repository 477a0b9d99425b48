package scheduler

import (
	"context"
	"errors"
	"strings"
	"sync"
	"testing"
	"time"

	"github.com/benvon/launch-coach/internal/compose"
	"github.com/benvon/launch-coach/internal/database"
	"github.com/benvon/launch-coach/internal/models"
	"github.com/google/uuid"
	"go.uber.org/zap"
)

type mockPlanRepo struct {
	mu        sync.Mutex
	plans     map[uuid.UUID]*models.Plan
	completed map[uuid.UUID]models.CompletionSet

	listErr         error
	completedErr    error
	timestampsErr   error
	timestampWrites int
}

func newMockPlanRepo(plans ...*models.Plan) *mockPlanRepo {
	repo := &mockPlanRepo{
		plans:     make(map[uuid.UUID]*models.Plan),
		completed: make(map[uuid.UUID]models.CompletionSet),
	}
	for _, p := range plans {
		repo.plans[p.ID] = p
	}
	return repo
}

func (m *mockPlanRepo) Create(_ context.Context, plan *models.Plan) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.plans[plan.ID] = plan
	return nil
}

func (m *mockPlanRepo) GetByID(_ context.Context, id uuid.UUID) (*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[id]
	if !ok {
		return nil, errors.New("plan not found")
	}
	return plan, nil
}

func (m *mockPlanRepo) ListActive(_ context.Context) ([]*models.Plan, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.listErr != nil {
		return nil, m.listErr
	}
	var active []*models.Plan
	for _, p := range m.plans {
		if p.Status == models.PlanStatusActive {
			active = append(active, p)
		}
	}
	return active, nil
}

func (m *mockPlanRepo) GetCompletedTasks(_ context.Context, planID uuid.UUID) (models.CompletionSet, error) {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.completedErr != nil {
		return nil, m.completedErr
	}
	set, ok := m.completed[planID]
	if !ok {
		return models.CompletionSet{}, nil
	}
	return set, nil
}

func (m *mockPlanRepo) SetTaskCompletion(_ context.Context, planID uuid.UUID, taskID string, done bool) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	set, ok := m.completed[planID]
	if !ok {
		set = models.CompletionSet{}
		m.completed[planID] = set
	}
	if done {
		set[taskID] = struct{}{}
	} else {
		delete(set, taskID)
	}
	return nil
}

func (m *mockPlanRepo) UpdateNudgeTimestamps(_ context.Context, planID uuid.UUID, sentAt time.Time) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.timestampsErr != nil {
		return m.timestampsErr
	}
	plan, ok := m.plans[planID]
	if !ok {
		return errors.New("plan not found")
	}
	m.timestampWrites++
	ts := sentAt
	plan.LastNudgeSent = &ts
	plan.LastEmailSent = &ts
	return nil
}

func (m *mockPlanRepo) UpdatePreferences(_ context.Context, planID uuid.UUID, prefs models.Preferences) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[planID]
	if !ok {
		return errors.New("plan not found")
	}
	plan.CoachingStyle = prefs.CoachingStyle
	plan.NudgeFrequency = prefs.NudgeFrequency
	plan.ContentDepth = prefs.ContentDepth
	return nil
}

func (m *mockPlanRepo) UpdateStatus(_ context.Context, planID uuid.UUID, status models.PlanStatus) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	plan, ok := m.plans[planID]
	if !ok {
		return errors.New("plan not found")
	}
	plan.Status = status
	return nil
}

var _ database.PlanRepositoryInterface = (*mockPlanRepo)(nil)

type sentMail struct {
	to      string
	subject string
	body    string
}

type mockMailer struct {
	mu   sync.Mutex
	sent []sentMail
	err  error
}

func (m *mockMailer) Send(_ context.Context, to, subject, htmlBody string) error {
	m.mu.Lock()
	defer m.mu.Unlock()
	if m.err != nil {
		return m.err
	}
	m.sent = append(m.sent, sentMail{to: to, subject: subject, body: htmlBody})
	return nil
}

func (m *mockMailer) sentCount() int {
	m.mu.Lock()
	defer m.mu.Unlock()
	return len(m.sent)
}

func testScheduler(repo *mockPlanRepo, mailer *mockMailer) *Scheduler {
	composer := compose.NewComposer(nil, nil, nil)
	return New(repo, composer, mailer, zap.NewNop(), 2)
}

func testPlan(freq models.NudgeFrequency, startDaysAgo int, now time.Time, tasks []models.Task) *models.Plan {
	return &models.Plan{
		ID:             uuid.New(),
		Email:          "founder@example.com",
		Name:           "Sam",
		Title:          "Launch Roadmap: Test",
		TotalWeeks:     12,
		TotalDays:      84,
		StartDate:      now.AddDate(0, 0, -startDaysAgo),
		Status:         models.PlanStatusActive,
		CoachingStyle:  models.CoachingStyleDirect,
		NudgeFrequency: freq,
		ContentDepth:   models.DepthBalanced,
		Roadmap:        models.Roadmap{Tasks: tasks},
	}
}

func defaultTasks() []models.Task {
	return []models.Task{
		{ID: "task-1", Day: 1, Week: 1, Title: "Write your pitch"},
		{ID: "task-2", Day: 3, Week: 1, Title: "List ten prospects"},
		{ID: "task-3", Day: 4, Week: 1, Title: "Run discovery calls"},
		{ID: "task-4", Day: 30, Week: 5, Title: "Set pricing"},
	}
}

func findOutcome(t *testing.T, result *BatchResult, planID uuid.UUID) PlanOutcome {
	t.Helper()
	for _, o := range result.Outcomes {
		if o.PlanID == planID {
			return o
		}
	}
	t.Fatalf("no outcome for plan %s", planID)
	return PlanOutcome{}
}

func TestRunBatchSendsAndIsIdempotent(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := testPlan(models.FrequencyDaily, 2, now, defaultTasks())
	repo := newMockPlanRepo(plan)
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if result.Sent != 1 || result.Failed != 0 || result.Skipped != 0 {
		t.Fatalf("first run = %+v, want 1 sent", result)
	}
	if plan.LastNudgeSent == nil || !plan.LastNudgeSent.Equal(now) {
		t.Error("last_nudge_sent not advanced to now")
	}

	result, err = s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() second error = %v", err)
	}
	outcome := findOutcome(t, result, plan.ID)
	if outcome.Status != OutcomeSkipped || outcome.Reason != ReasonTooSoon {
		t.Errorf("second run outcome = %+v, want skip too_soon", outcome)
	}
	if mailer.sentCount() != 1 {
		t.Errorf("mails sent = %d, want 1", mailer.sentCount())
	}
}

func TestRunBatchWeeklyIntervalGate(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)

	tests := []struct {
		name       string
		daysAgo    int
		wantStatus string
		wantReason string
	}{
		{"six days ago is too soon", 6, OutcomeSkipped, ReasonTooSoon},
		{"seven days ago is eligible", 7, OutcomeSent, ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Parallel()

			plan := testPlan(models.FrequencyWeekly, 14, now, defaultTasks())
			last := now.AddDate(0, 0, -tt.daysAgo)
			plan.LastNudgeSent = &last

			repo := newMockPlanRepo(plan)
			mailer := &mockMailer{}
			s := testScheduler(repo, mailer)

			result, err := s.RunBatch(context.Background(), now)
			if err != nil {
				t.Fatalf("RunBatch() error = %v", err)
			}
			outcome := findOutcome(t, result, plan.ID)
			if outcome.Status != tt.wantStatus || outcome.Reason != tt.wantReason {
				t.Errorf("outcome = %+v, want %s/%s", outcome, tt.wantStatus, tt.wantReason)
			}
			if tt.wantStatus == OutcomeSent {
				if plan.LastNudgeSent == nil || !plan.LastNudgeSent.Equal(now) {
					t.Error("last_nudge_sent not advanced on send")
				}
			}
		})
	}
}

func TestRunBatchOnRequestSkips(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := testPlan(models.FrequencyOnRequest, 2, now, defaultTasks())
	repo := newMockPlanRepo(plan)
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	outcome := findOutcome(t, result, plan.ID)
	if outcome.Status != OutcomeSkipped || outcome.Reason != ReasonOnRequest {
		t.Errorf("outcome = %+v, want skip on_request", outcome)
	}
	if mailer.sentCount() != 0 {
		t.Error("on_request plan should never receive mail")
	}
}

func TestRunBatchCaughtUpStillSends(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Day 11 with a daily lookahead: the only remaining task is on day 30,
	// outside the window, so the message is the caught-up variant.
	plan := testPlan(models.FrequencyDaily, 10, now, defaultTasks())
	repo := newMockPlanRepo(plan)
	repo.completed[plan.ID] = models.CompletionSet{
		"task-1": {}, "task-2": {}, "task-3": {},
	}
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	outcome := findOutcome(t, result, plan.ID)
	if outcome.Status != OutcomeSent {
		t.Fatalf("outcome = %+v, want sent", outcome)
	}
	if mailer.sentCount() != 1 {
		t.Fatal("expected one mail")
	}
	if strings.Contains(mailer.sent[0].body, "<li>") {
		t.Error("caught-up message should not list tasks")
	}
}

func TestRunBatchSendFailureLeavesStateUntouched(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := testPlan(models.FrequencyDaily, 2, now, defaultTasks())
	repo := newMockPlanRepo(plan)
	mailer := &mockMailer{err: errors.New("smtp unavailable")}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	outcome := findOutcome(t, result, plan.ID)
	if outcome.Status != OutcomeFailed || outcome.Reason != "send_failed" {
		t.Errorf("outcome = %+v, want failed send_failed", outcome)
	}
	if plan.LastNudgeSent != nil {
		t.Error("send failure must not advance last_nudge_sent")
	}
	if repo.timestampWrites != 0 {
		t.Error("send failure must not write timestamps")
	}
}

func TestRunBatchEmptyRoadmapSkips(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	plan := testPlan(models.FrequencyDaily, 2, now, nil)
	repo := newMockPlanRepo(plan)
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	outcome := findOutcome(t, result, plan.ID)
	if outcome.Status != OutcomeSkipped || outcome.Reason != ReasonNoTasks {
		t.Errorf("outcome = %+v, want skip no_tasks", outcome)
	}
}

func TestRunBatchTaskSelection(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	// Day 3: task-2 is due, task-3 is within the 1-day lookahead, task-1 is
	// completed, task-4 is far out.
	plan := testPlan(models.FrequencyDaily, 2, now, defaultTasks())
	repo := newMockPlanRepo(plan)
	repo.completed[plan.ID] = models.CompletionSet{"task-1": {}}
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	if _, err := s.RunBatch(context.Background(), now); err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if mailer.sentCount() != 1 {
		t.Fatal("expected one mail")
	}
	body := mailer.sent[0].body
	if !strings.Contains(body, "List ten prospects") {
		t.Error("body missing due task")
	}
	if !strings.Contains(body, "Run discovery calls") {
		t.Error("body missing upcoming task")
	}
	if strings.Contains(body, "Set pricing") {
		t.Error("body includes task outside the lookahead window")
	}
	if strings.Contains(body, "Write your pitch") {
		t.Error("body includes a completed task")
	}
}

func TestRunBatchMixedPlans(t *testing.T) {
	t.Parallel()

	now := time.Date(2026, 3, 10, 9, 0, 0, 0, time.UTC)
	due := testPlan(models.FrequencyDaily, 2, now, defaultTasks())
	onRequest := testPlan(models.FrequencyOnRequest, 2, now, defaultTasks())
	paused := testPlan(models.FrequencyDaily, 2, now, defaultTasks())
	paused.Status = models.PlanStatusPaused

	repo := newMockPlanRepo(due, onRequest, paused)
	mailer := &mockMailer{}
	s := testScheduler(repo, mailer)

	result, err := s.RunBatch(context.Background(), now)
	if err != nil {
		t.Fatalf("RunBatch() error = %v", err)
	}
	if result.Processed != 2 {
		t.Errorf("processed = %d, want 2 (paused plan excluded)", result.Processed)
	}
	if result.Sent != 1 || result.Skipped != 1 {
		t.Errorf("result = %+v, want 1 sent and 1 skipped", result)
	}
}
