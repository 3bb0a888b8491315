package engine

import (
	"context"
	"os"
	"path/filepath"
	"testing"

	"github.com/google/go-cmp/cmp"

	"onboardflow/internal/team/actionqueue"
	"onboardflow/internal/team/domain"
)

var _ actionqueue.Classifier = (*OPAEvaluator)(nil)

func newEvaluator(t *testing.T, module string) *OPAEvaluator {
	t.Helper()
	e, err := NewOPAEvaluator(context.Background(), module, nil)
	if err != nil {
		t.Fatalf("NewOPAEvaluator: %v", err)
	}
	return e
}

func TestOPAEvaluator_HealthCheck(t *testing.T) {
	if err := newEvaluator(t, "").HealthCheck(context.Background()); err != nil {
		t.Fatalf("HealthCheck: %v", err)
	}
}

func TestOPAEvaluator_DefaultPolicyMatchesThresholds(t *testing.T) {
	e := newEvaluator(t, "")
	members := []domain.Member{
		{ID: "healthy", BurnoutScore: 40, CurrentLoad: 90},
		{ID: "score-flag", BurnoutScore: 60, CurrentLoad: 90},
		{ID: "load-edge", BurnoutScore: 10, CurrentLoad: 105},
		{ID: "load-flag", BurnoutScore: 10, CurrentLoad: 110},
		{ID: "score-high", BurnoutScore: 75, CurrentLoad: 50},
		{ID: "load-high", BurnoutScore: 0, CurrentLoad: 125},
		{ID: "both", BurnoutScore: 80, CurrentLoad: 130},
	}
	for _, m := range members {
		t.Run(m.ID, func(t *testing.T) {
			got, err := e.ClassifyBurnout(context.Background(), m)
			if err != nil {
				t.Fatalf("ClassifyBurnout: %v", err)
			}
			if diff := cmp.Diff(domain.Classify(m), got); diff != "" {
				t.Errorf("classification mismatch (-thresholds +policy):\n%s", diff)
			}
		})
	}
}

const strictPolicy = `package onboardflow.burnout

default flagged := false

flagged if input.member.current_load > 100

priority := "HIGH" if flagged

signals contains "overCapacity" if flagged
`

func TestOPAEvaluator_CustomPolicy(t *testing.T) {
	path := filepath.Join(t.TempDir(), "strict.rego")
	if err := os.WriteFile(path, []byte(strictPolicy), 0o600); err != nil {
		t.Fatal(err)
	}
	module, err := LoadPolicy(path)
	if err != nil {
		t.Fatalf("LoadPolicy: %v", err)
	}
	e := newEvaluator(t, module)
	got, err := e.ClassifyBurnout(context.Background(), domain.Member{ID: "m", CurrentLoad: 101})
	if err != nil {
		t.Fatalf("ClassifyBurnout: %v", err)
	}
	want := domain.Classification{Flagged: true, Priority: domain.PriorityHigh, Signals: []string{"overCapacity"}}
	if diff := cmp.Diff(want, got); diff != "" {
		t.Errorf("classification mismatch (-want +got):\n%s", diff)
	}

	items, err := actionqueue.GenerateWith(context.Background(), []domain.Member{{ID: "m", CurrentLoad: 101}}, e)
	if err != nil {
		t.Fatalf("GenerateWith: %v", err)
	}
	if items[0].ID != actionqueue.BurnoutActionID("m") || items[0].Priority != domain.PriorityHigh {
		t.Errorf("items = %+v, want HIGH burnout item from policy", items)
	}
}

const brokenResultPolicy = `package onboardflow.burnout

flagged := "yes"
`

func TestOPAEvaluator_BadResultFallsBackToThresholds(t *testing.T) {
	e := newEvaluator(t, brokenResultPolicy)
	m := domain.Member{ID: "m", BurnoutScore: 80, CurrentLoad: 130}
	got, err := e.ClassifyBurnout(context.Background(), m)
	if err != nil {
		t.Fatalf("ClassifyBurnout should fall back, got %v", err)
	}
	if diff := cmp.Diff(domain.Classify(m), got); diff != "" {
		t.Errorf("fallback mismatch (-want +got):\n%s", diff)
	}
	if err := e.HealthCheck(context.Background()); err == nil {
		t.Error("HealthCheck should report a policy without a boolean flagged")
	}
}

func TestNewOPAEvaluator_CompileError(t *testing.T) {
	if _, err := NewOPAEvaluator(context.Background(), "package broken\n\nthis is not rego", nil); err == nil {
		t.Fatal("want compile error")
	}
}

func TestLoadPolicy(t *testing.T) {
	if p, err := LoadPolicy(""); err != nil || p != DefaultPolicy {
		t.Errorf("LoadPolicy(\"\") = %q, %v; want default policy", p, err)
	}
	if _, err := LoadPolicy(filepath.Join(t.TempDir(), "missing.rego")); err == nil {
		t.Error("want error for missing file")
	}
}
