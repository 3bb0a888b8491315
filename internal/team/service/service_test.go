package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	auditdomain "onboardflow/internal/audit/domain"
	"onboardflow/internal/notify"
	"onboardflow/internal/team/actionqueue"
	"onboardflow/internal/team/domain"
	"onboardflow/internal/team/repository"
)

var fixedNow = time.Date(2026, 10, 22, 10, 0, 0, 0, time.UTC)

// mockAudit implements audit.AuditLogger for tests.
type mockAudit struct {
	mu      sync.Mutex
	actions []string
}

func (m *mockAudit) LogEvent(ctx context.Context, userID, action, resource, metadata string) {
	m.mu.Lock()
	defer m.mu.Unlock()
	m.actions = append(m.actions, action)
}

type fixture struct {
	svc      *Service
	audit    *mockAudit
	recorder *notify.Recorder
	notifier *notify.Dispatcher
}

func newFixture(t *testing.T, opts ...Option) *fixture {
	t.Helper()
	a := &mockAudit{}
	rec := &notify.Recorder{}
	d := notify.NewDispatcher(rec, nil)
	t.Cleanup(func() { _ = d.Drain(context.Background()) })
	opts = append([]Option{WithClock(func() time.Time { return fixedNow }), WithAudit(a), WithNotifier(d)}, opts...)
	svc := NewService(repository.NewMemoryRepository(), nil, opts...)
	for _, m := range []domain.Member{
		{ID: "sam", ManagerID: "maria", Name: "Sam", BurnoutScore: 50, CurrentLoad: 90},
		{ID: "lee", ManagerID: "maria", Name: "Lee", BurnoutScore: 80, CurrentLoad: 130},
		{ID: "kim", ManagerID: "other", Name: "Kim", BurnoutScore: 99, CurrentLoad: 150},
	} {
		if err := svc.AddMember(context.Background(), m); err != nil {
			t.Fatalf("AddMember %s: %v", m.ID, err)
		}
	}
	return &fixture{svc: svc, audit: a, recorder: rec, notifier: d}
}

func ids(items []domain.ActionItem) []string {
	out := make([]string, len(items))
	for i, it := range items {
		out[i] = it.ID
	}
	return out
}

func TestGenerateActionQueue_ScopedToManager(t *testing.T) {
	f := newFixture(t)
	items, err := f.svc.GenerateActionQueue(context.Background(), "maria")
	if err != nil {
		t.Fatalf("GenerateActionQueue: %v", err)
	}
	want := []string{actionqueue.BurnoutActionID("lee"), actionqueue.VisibilityActionID}
	if diff := cmp.Diff(want, ids(items)); diff != "" {
		t.Errorf("queue mismatch (-want +got):\n%s", diff)
	}
}

func TestAcknowledgeAction_MergedAtReadTime(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	before, _ := f.svc.Roster(ctx, "maria")

	items, err := f.svc.AcknowledgeAction(ctx, "maria", actionqueue.VisibilityActionID)
	if err != nil {
		t.Fatalf("AcknowledgeAction: %v", err)
	}
	if !items[1].Acknowledged || items[0].Acknowledged {
		t.Errorf("items = %+v, want only visibility acknowledged", items)
	}
	again, err := f.svc.GenerateActionQueue(ctx, "maria")
	if err != nil {
		t.Fatalf("GenerateActionQueue: %v", err)
	}
	if !again[1].Acknowledged {
		t.Error("acknowledgement should persist across reads")
	}
	after, _ := f.svc.Roster(ctx, "maria")
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("acknowledging changed the roster (-before +after):\n%s", diff)
	}
	if _, err := f.svc.AcknowledgeAction(ctx, "maria", "burnout:kim"); !errors.Is(err, domain.ErrActionNotFound) {
		t.Errorf("ack of another team's action error = %v, want ErrActionNotFound", err)
	}
}

func TestApplyStaffingPlan(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	roster, err := f.svc.ApplyStaffingPlan(ctx, "maria", []domain.Assignment{{MemberID: "sam", Load: 140}})
	if err != nil {
		t.Fatalf("ApplyStaffingPlan: %v", err)
	}
	if roster[0].BurnoutScore != 70 || roster[0].CurrentLoad != 140 {
		t.Errorf("sam = %+v, want score 70 load 140", roster[0])
	}
	stored, _ := f.svc.Roster(ctx, "maria")
	if stored[0].BurnoutScore != 70 {
		t.Errorf("stored score = %v, want 70", stored[0].BurnoutScore)
	}
	if err := f.notifier.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	got := f.recorder.Notifications()
	if len(got) != 1 || got[0].Kind != notify.KindBurnoutAlert || got[0].Subject != "sam" {
		t.Errorf("notifications = %+v, want one burnout alert for sam", got)
	}
	if diff := cmp.Diff([]string{auditdomain.ActionStaffingApplied}, f.audit.actions); diff != "" {
		t.Errorf("audit mismatch (-want +got):\n%s", diff)
	}
}

func TestApplyStaffingPlan_RejectsWholePlan(t *testing.T) {
	testCases := []struct {
		name string
		plan []domain.Assignment
		want error
	}{
		{"unknown member", []domain.Assignment{{MemberID: "sam", Load: 120}, {MemberID: "ghost", Load: 50}}, domain.ErrMemberNotFound},
		{"other manager's member", []domain.Assignment{{MemberID: "kim", Load: 50}}, domain.ErrMemberNotFound},
		{"invalid load", []domain.Assignment{{MemberID: "sam", Load: 120}, {MemberID: "lee", Load: -5}}, domain.ErrInvalidLoad},
		{"member assigned twice", []domain.Assignment{{MemberID: "sam", Load: 130}, {MemberID: "sam", Load: 130}}, domain.ErrDuplicateAssignment},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			f := newFixture(t)
			ctx := context.Background()
			before, _ := f.svc.Roster(ctx, "maria")
			if _, err := f.svc.ApplyStaffingPlan(ctx, "maria", tc.plan); !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			after, _ := f.svc.Roster(ctx, "maria")
			if diff := cmp.Diff(before, after); diff != "" {
				t.Errorf("rejected plan changed the roster (-before +after):\n%s", diff)
			}
		})
	}
}

type brokenClassifier struct{}

func (brokenClassifier) ClassifyBurnout(context.Context, domain.Member) (domain.Classification, error) {
	return domain.Classification{}, errors.New("policy unavailable")
}

func TestGenerateActionQueue_ClassifierFailureFallsBack(t *testing.T) {
	f := newFixture(t, WithClassifier(brokenClassifier{}))
	items, err := f.svc.GenerateActionQueue(context.Background(), "maria")
	if err != nil {
		t.Fatalf("GenerateActionQueue: %v", err)
	}
	if items[0].ID != actionqueue.BurnoutActionID("lee") || items[0].Priority != domain.PriorityHigh {
		t.Errorf("items = %+v, want lee HIGH first", items)
	}
}

func TestAddMember_Validation(t *testing.T) {
	f := newFixture(t)
	for _, m := range []domain.Member{
		{ID: " "},
		{ID: "x", BurnoutScore: 101},
		{ID: "x", SkillScores: map[string]float64{"go": -1}},
	} {
		if err := f.svc.AddMember(context.Background(), m); !errors.Is(err, ErrInvalidMember) {
			t.Errorf("AddMember(%+v) error = %v, want ErrInvalidMember", m, err)
		}
	}
}

func TestApplyStaffingPlan_SingleAssignmentScoredOnce(t *testing.T) {
	f := newFixture(t)
	roster, err := f.svc.ApplyStaffingPlan(context.Background(), "maria", []domain.Assignment{{MemberID: "sam", Load: 130}})
	if err != nil {
		t.Fatalf("ApplyStaffingPlan: %v", err)
	}
	if roster[0].BurnoutScore != 65 {
		t.Errorf("sam burnout = %v, want 65", roster[0].BurnoutScore)
	}
}

// failingSaveRepo implements repository.Repository and fails every batch save.
type failingSaveRepo struct {
	*repository.MemoryRepository
}

func (failingSaveRepo) SaveMembers(context.Context, []domain.Member) error {
	return errors.New("tx aborted")
}

func TestApplyStaffingPlan_SaveFailureLeavesRosterUnchanged(t *testing.T) {
	repo := failingSaveRepo{MemoryRepository: repository.NewMemoryRepository()}
	ctx := context.Background()
	for _, m := range []domain.Member{
		{ID: "sam", ManagerID: "maria", Name: "Sam", BurnoutScore: 50, CurrentLoad: 90},
		{ID: "lee", ManagerID: "maria", Name: "Lee", BurnoutScore: 40, CurrentLoad: 80},
	} {
		if err := repo.SaveMember(ctx, m); err != nil {
			t.Fatalf("SaveMember %s: %v", m.ID, err)
		}
	}
	a := &mockAudit{}
	rec := &notify.Recorder{}
	d := notify.NewDispatcher(rec, nil)
	svc := NewService(repo, nil, WithAudit(a), WithNotifier(d))
	before, _ := svc.Roster(ctx, "maria")

	_, err := svc.ApplyStaffingPlan(ctx, "maria", []domain.Assignment{{MemberID: "sam", Load: 200}, {MemberID: "lee", Load: 150}})
	if err == nil {
		t.Fatal("ApplyStaffingPlan succeeded, want the save error")
	}
	after, _ := svc.Roster(ctx, "maria")
	if diff := cmp.Diff(before, after); diff != "" {
		t.Errorf("failed plan changed the roster (-before +after):\n%s", diff)
	}
	if err := d.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if got := rec.Notifications(); len(got) != 0 {
		t.Errorf("notifications = %+v, want none", got)
	}
	if len(a.actions) != 0 {
		t.Errorf("audit = %v, want none", a.actions)
	}
}
