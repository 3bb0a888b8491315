package service

import (
	"context"
	"errors"
	"sync"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	auditdomain "onboardflow/internal/audit/domain"
	content "onboardflow/internal/content/domain"
	"onboardflow/internal/moderation/domain"
	"onboardflow/internal/moderation/repository"
	"onboardflow/internal/notify"
	"onboardflow/internal/platform/errkind"
)

var fixedNow = time.Date(2026, 10, 21, 14, 0, 0, 0, time.UTC)

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

func newFixture(t *testing.T) *fixture {
	t.Helper()
	a := &mockAudit{}
	rec := &notify.Recorder{}
	d := notify.NewDispatcher(rec, nil)
	t.Cleanup(func() { _ = d.Drain(context.Background()) })
	svc := NewService(repository.NewMemoryRepository(), nil,
		WithClock(func() time.Time { return fixedNow }), WithAudit(a), WithNotifier(d))
	return &fixture{svc: svc, audit: a, recorder: rec, notifier: d}
}

func TestSubmitFlag_ThreeReasonsQuarantine(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	var last domain.State
	for i, r := range []domain.Reason{domain.ReasonIncorrect, domain.ReasonOutdated, domain.ReasonIncorrect} {
		st, err := f.svc.SubmitFlag(ctx, FlagRequest{CardID: "pm-1", UserID: "alice", Reason: r})
		if err != nil {
			t.Fatalf("flag %d: %v", i, err)
		}
		if st.FlagCount != i+1 {
			t.Errorf("after flag %d: FlagCount = %d, want %d", i, st.FlagCount, i+1)
		}
		last = st
	}
	want := domain.State{CardID: "pm-1", FlagCount: 3, Flagged: true, LastReason: domain.ReasonIncorrect}
	if diff := cmp.Diff(want, last); diff != "" {
		t.Errorf("state mismatch (-want +got):\n%s", diff)
	}
	if !last.IsQuarantined() {
		t.Error("card should be quarantined")
	}

	if err := f.notifier.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	got := f.recorder.Notifications()
	if len(got) != 1 || got[0].Kind != notify.KindCardQuarantined || got[0].Subject != "pm-1" {
		t.Errorf("notifications = %+v, want one quarantine notice for pm-1", got)
	}
	if diff := cmp.Diff([]string{auditdomain.ActionCardQuarantined}, f.audit.actions); diff != "" {
		t.Errorf("audit actions mismatch (-want +got):\n%s", diff)
	}
}

func TestSubmitFlag_QuarantineIsSticky(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 5; i++ {
		st, err := f.svc.SubmitFlag(ctx, FlagRequest{CardID: "c", Reason: domain.ReasonOutdated})
		if err != nil {
			t.Fatalf("flag %d: %v", i, err)
		}
		if i >= 2 && !st.IsQuarantined() {
			t.Errorf("flag %d: quarantine reverted", i)
		}
	}
	if err := f.notifier.Drain(ctx); err != nil {
		t.Fatalf("Drain: %v", err)
	}
	if n := len(f.recorder.Notifications()); n != 1 {
		t.Errorf("quarantine notified %d times, want once", n)
	}
}

func TestSubmitFlag_Rejections(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	if _, err := f.svc.SubmitFlag(ctx, FlagRequest{CardID: "c", Reason: domain.ReasonIncorrect, SubmissionID: "s-1"}); err != nil {
		t.Fatalf("first flag: %v", err)
	}
	testCases := []struct {
		name string
		req  FlagRequest
		want error
	}{
		{"invalid reason", FlagRequest{CardID: "c", Reason: "BORING"}, domain.ErrInvalidReason},
		{"missing card", FlagRequest{CardID: " ", Reason: domain.ReasonIncorrect}, domain.ErrMissingCardID},
		{"replayed submission", FlagRequest{CardID: "c", Reason: domain.ReasonOutdated, SubmissionID: "s-1"}, domain.ErrDuplicateFlag},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := f.svc.SubmitFlag(ctx, tc.req)
			if !errors.Is(err, tc.want) {
				t.Fatalf("error = %v, want %v", err, tc.want)
			}
			if !errkind.Is(err, errkind.Moderation) {
				t.Errorf("error kind = %s, want moderation", errkind.KindOf(err))
			}
			st, err := f.svc.State(ctx, "c")
			if err != nil {
				t.Fatalf("State: %v", err)
			}
			if st.FlagCount != 1 || st.LastReason != domain.ReasonIncorrect {
				t.Errorf("state changed on rejection: %+v", st)
			}
		})
	}
}

func TestQuarantinedAndAnnotate(t *testing.T) {
	f := newFixture(t)
	ctx := context.Background()
	for i := 0; i < 3; i++ {
		if _, err := f.svc.SubmitFlag(ctx, FlagRequest{CardID: "bad", Reason: domain.ReasonInappropriate}); err != nil {
			t.Fatal(err)
		}
	}
	if _, err := f.svc.SubmitFlag(ctx, FlagRequest{CardID: "meh", Reason: domain.ReasonOutdated}); err != nil {
		t.Fatal(err)
	}

	q, err := f.svc.Quarantined(ctx)
	if err != nil {
		t.Fatalf("Quarantined: %v", err)
	}
	if diff := cmp.Diff(map[string]bool{"bad": true}, q); diff != "" {
		t.Errorf("quarantined mismatch (-want +got):\n%s", diff)
	}

	in := []content.Card{{ID: "meh"}, {ID: "clean"}}
	out, err := f.svc.Annotate(ctx, in)
	if err != nil {
		t.Fatalf("Annotate: %v", err)
	}
	want := []content.Card{
		{ID: "meh", FlagCount: 1, Flagged: true, LastFlagReason: "OUTDATED"},
		{ID: "clean"},
	}
	if diff := cmp.Diff(want, out); diff != "" {
		t.Errorf("Annotate mismatch (-want +got):\n%s", diff)
	}
	if in[0].Flagged {
		t.Error("Annotate must not mutate its input")
	}
}
