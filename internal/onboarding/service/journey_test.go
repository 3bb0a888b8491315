package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	auditdomain "onboardflow/internal/audit/domain"
	"onboardflow/internal/notify"
	"onboardflow/internal/onboarding/machine"
	"onboardflow/internal/profile/domain"
	"onboardflow/internal/profile/repository"
	profilesvc "onboardflow/internal/profile/service"
)

var fixedNow = time.Date(2026, 10, 23, 9, 0, 0, 0, time.UTC)

type event struct {
	userID, action, metadata string
}

// mockAudit implements audit.AuditLogger for tests.
type mockAudit struct {
	mu     sync.Mutex
	events []event
}

func (m *mockAudit) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.events = append(m.events, event{userID, action, metadata})
}

func (m *mockAudit) actions() []string {
	m.mu.Lock()
	defer m.mu.Unlock()
	var out []string
	for _, e := range m.events {
		out = append(out, e.action)
	}
	return out
}

type fixture struct {
	journey  *Journey
	audit    *mockAudit
	recorder *notify.Recorder
	notifier *notify.Dispatcher
}

func newFixture(t *testing.T) *fixture {
	t.Helper()
	clock := func() time.Time { return fixedNow }
	store := profilesvc.NewStore(repository.NewMemoryRepository(), nil, profilesvc.WithClock(clock))
	a := &mockAudit{}
	rec := &notify.Recorder{}
	d := notify.NewDispatcher(rec, nil)
	t.Cleanup(func() { _ = d.Drain(context.Background()) })
	j := NewJourney(store, nil, WithClock(clock), WithAudit(a), WithNotifier(d))
	return &fixture{journey: j, audit: a, recorder: rec, notifier: d}
}

func (f *fixture) notifications(t *testing.T) []notify.Notification {
	t.Helper()
	if err := f.notifier.Drain(context.Background()); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	return f.recorder.Notifications()
}

func TestJourney_CompleteDayPersistsAndNotifies(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	p, err := f.journey.CompleteDay(ctx, "alice", 1)
	if err != nil {
		t.Fatalf("CompleteDay: %v", err)
	}
	if p.OnboardingDay != 2 {
		t.Errorf("OnboardingDay = %d, want 2", p.OnboardingDay)
	}
	stored, err := f.journey.Profile(ctx, "alice")
	if err != nil {
		t.Fatalf("Profile: %v", err)
	}
	if stored.OnboardingDay != 2 || !stored.IsDayCompleted(1) {
		t.Errorf("stored profile not updated: day=%d progress=%v", stored.OnboardingDay, stored.DayProgress)
	}
	if got := f.audit.actions(); len(got) != 1 || got[0] != auditdomain.ActionDayCompleted {
		t.Errorf("audit actions = %v", got)
	}
	if f.audit.events[0].metadata != `{"day":1}` {
		t.Errorf("audit metadata = %q", f.audit.events[0].metadata)
	}
	ns := f.notifications(t)
	if len(ns) != 1 || ns[0].Kind != notify.KindDayCompleted || ns[0].UserID != "alice" {
		t.Errorf("notifications = %+v", ns)
	}
}

func TestJourney_RejectedTransitionLeavesStoreUntouched(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.journey.CompleteDay(ctx, "alice", 3); !errors.Is(err, machine.ErrDayLocked) {
		t.Fatalf("CompleteDay(3) error = %v, want ErrDayLocked", err)
	}
	days, err := f.journey.Days(ctx, "alice")
	if err != nil {
		t.Fatalf("Days: %v", err)
	}
	if days[0].Status != machine.DayActive {
		t.Errorf("day 1 status = %s, want active", days[0].Status)
	}
	if len(f.audit.actions()) != 0 {
		t.Errorf("rejected transition should not be audited: %v", f.audit.actions())
	}
	if ns := f.notifications(t); len(ns) != 0 {
		t.Errorf("rejected transition should not notify: %+v", ns)
	}
}

func TestJourney_FullJourneyToGraduation(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for d := 1; d <= 4; d++ {
		if _, err := f.journey.CompleteDay(ctx, "alice", d); err != nil {
			t.Fatalf("CompleteDay(%d): %v", d, err)
		}
	}
	if _, err := f.journey.Graduate(ctx, "alice"); !errors.Is(err, machine.ErrFeedbackRequired) {
		t.Fatalf("early Graduate error = %v, want ErrFeedbackRequired", err)
	}
	steps := []struct {
		name string
		run  func() (*domain.UserProfile, error)
	}{
		{"advance to signoff", func() (*domain.UserProfile, error) { return f.journey.Advance(ctx, "alice") }},
		{"signoff", func() (*domain.UserProfile, error) { return f.journey.RecordSignoff(ctx, "alice", "maria", "ready") }},
		{"advance to feedback", func() (*domain.UserProfile, error) { return f.journey.Advance(ctx, "alice") }},
		{"back to overview", func() (*domain.UserProfile, error) { return f.journey.GoTo(ctx, "alice", domain.PhaseOverview) }},
		{"advance to signoff again", func() (*domain.UserProfile, error) { return f.journey.Advance(ctx, "alice") }},
		{"advance to feedback again", func() (*domain.UserProfile, error) { return f.journey.Advance(ctx, "alice") }},
		{"feedback", func() (*domain.UserProfile, error) { return f.journey.SubmitFeedback(ctx, "alice", 4, "good") }},
	}
	for _, s := range steps {
		if _, err := s.run(); err != nil {
			t.Fatalf("%s: %v", s.name, err)
		}
	}
	p, err := f.journey.Graduate(ctx, "alice")
	if err != nil {
		t.Fatalf("Graduate: %v", err)
	}
	if !p.OnboardingComplete || p.Day5.Phase != domain.PhaseGraduation {
		t.Errorf("graduated profile = complete:%v phase:%s", p.OnboardingComplete, p.Day5.Phase)
	}
	stored, _ := f.journey.Profile(ctx, "alice")
	if !stored.OnboardingComplete {
		t.Error("graduation should be persisted")
	}
	actions := f.audit.actions()
	if actions[len(actions)-1] != auditdomain.ActionGraduated {
		t.Errorf("last audit action = %q, want graduated", actions[len(actions)-1])
	}
	var graduated int
	for _, n := range f.notifications(t) {
		if n.Kind == notify.KindGraduated {
			graduated++
		}
	}
	if graduated != 1 {
		t.Errorf("graduated notifications = %d, want 1", graduated)
	}
}

func TestJourney_WithoutCollaborators(t *testing.T) {
	store := profilesvc.NewStore(repository.NewMemoryRepository(), nil)
	j := NewJourney(store, nil)
	if _, err := j.CompleteDay(context.Background(), "bob", 1); err != nil {
		t.Fatalf("CompleteDay without audit/notifier: %v", err)
	}
}
