package explainer

import (
	"strings"
	"testing"

	"onboardflow/internal/content/domain"
)

func TestExplain_AuthorExplainerWins(t *testing.T) {
	card := domain.Card{ID: "c1", Slot: domain.SlotDomainEdge, Explainer: "Because Maria asked."}
	ctx := Context{Role: "EMPLOYEE", JobTitle: "Engineer", RecentKPIAlerts: []string{"churn"}, CurrentWorkload: 99}
	if got := Explain(card, ctx); got != "Because Maria asked." {
		t.Errorf("Explain = %q, want the author explainer verbatim", got)
	}
}

func TestWorkloadFor(t *testing.T) {
	testCases := []struct {
		load float64
		want WorkloadBucket
	}{
		{0, WorkloadLight},
		{49.9, WorkloadLight},
		{50, WorkloadSteady},
		{85, WorkloadSteady},
		{85.1, WorkloadHeavy},
		{130, WorkloadHeavy},
	}
	for _, tc := range testCases {
		if got := WorkloadFor(tc.load); got != tc.want {
			t.Errorf("WorkloadFor(%v) = %s, want %s", tc.load, got, tc.want)
		}
	}
}

func TestExplain_Templates(t *testing.T) {
	testCases := []struct {
		name string
		card domain.Card
		ctx  Context
		want string
	}{
		{
			name: "domain edge by workload",
			card: domain.Card{ID: "c", Slot: domain.SlotDomainEdge},
			ctx:  Context{Role: "EMPLOYEE", JobTitle: "Product Manager", Bucket: domain.BucketDefault, CurrentWorkload: 90},
			want: "Short on time: the one domain detail a Product Manager most often trips over.",
		},
		{
			name: "monday anchor heavy",
			card: domain.Card{ID: "c", Slot: domain.SlotContextAnchor},
			ctx:  Context{Role: "EMPLOYEE", JobTitle: "Engineer", Bucket: domain.BucketMondayPlanning, CurrentWorkload: 100},
			want: "Your plate is full going into the week; this anchor helps you decide what a Engineer can drop.",
		},
		{
			name: "monday anchor falls back to any workload",
			card: domain.Card{ID: "c", Slot: domain.SlotContextAnchor},
			ctx:  Context{Role: "EMPLOYEE", JobTitle: "Engineer", Bucket: domain.BucketMondayPlanning, CurrentWorkload: 10},
			want: "It is Monday: a quick anchor so your week as Engineer starts from the team's priorities.",
		},
		{
			name: "role token lowercased",
			card: domain.Card{ID: "c", Slot: domain.SlotContextAnchor},
			ctx:  Context{Role: "MANAGER", Bucket: domain.BucketDefault},
			want: "Background every manager on the team relies on.",
		},
		{
			name: "unknown slot uses fallback and role for title",
			card: domain.Card{ID: "c", Slot: "POSTER"},
			ctx:  Context{Role: "EMPLOYEE"},
			want: "Picked for you as employee.",
		},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			if got := Explain(tc.card, tc.ctx); got != tc.want {
				t.Errorf("Explain = %q, want %q", got, tc.want)
			}
		})
	}
}

func TestExplain_ContextClauses(t *testing.T) {
	card := domain.Card{ID: "sim", Slot: domain.SlotSimulator}
	got := Explain(card, Context{
		Role:                "EMPLOYEE",
		JobTitle:            "Support Lead",
		Bucket:              domain.BucketWednesdaySimulator,
		RecentlySeenCardIDs: []string{"other", "sim"},
		CurrentWorkload:     60,
		RecentKPIAlerts:     []string{"first response time", "csat"},
		PendingDeadlines:    []string{"the Q4 roadmap review"},
	})
	for _, part := range []string{
		"Wednesday practice: a realistic scenario to rehearse as Support Lead",
		"You saw this recently",
		"recent alert on first response time.",
		"Keep the Q4 roadmap review in view.",
	} {
		if !strings.Contains(got, part) {
			t.Errorf("Explain = %q, missing %q", got, part)
		}
	}
	if strings.Contains(got, "csat") {
		t.Errorf("Explain = %q, should mention only the first alert", got)
	}
}

func TestExplain_Deterministic(t *testing.T) {
	card := domain.Card{ID: "c", Slot: domain.SlotMicroSkill}
	ctx := Context{Role: "EMPLOYEE", JobTitle: "Analyst", Bucket: domain.BucketFridayReflection, CurrentWorkload: 70}
	if Explain(card, ctx) != Explain(card, ctx) {
		t.Error("Explain should be deterministic")
	}
}
