package machine

import (
	"errors"
	"testing"
	"time"

	"github.com/google/go-cmp/cmp"

	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/profile/domain"
)

var t0 = time.Date(2026, 10, 19, 9, 0, 0, 0, time.UTC)

func employee() domain.UserProfile {
	return *domain.NewProfile("alice", domain.RoleEmployee, t0)
}

func atDay5(t *testing.T) domain.UserProfile {
	t.Helper()
	p := employee()
	for d := 1; d <= 4; d++ {
		var err error
		p, err = CompleteDay(p, d, t0.Add(time.Duration(d)*time.Hour))
		if err != nil {
			t.Fatalf("complete day %d: %v", d, err)
		}
	}
	return p
}

func TestCompleteDay_AdvancesActiveDay(t *testing.T) {
	for d := 1; d < domain.LastDay; d++ {
		p := employee()
		p.OnboardingDay = d
		got, err := CompleteDay(p, d, t0)
		if err != nil {
			t.Fatalf("day %d: %v", d, err)
		}
		if got.OnboardingDay != d+1 {
			t.Errorf("day %d: OnboardingDay = %d, want %d", d, got.OnboardingDay, d+1)
		}
		if !got.DayProgress[d].Completed {
			t.Errorf("day %d: not marked completed", d)
		}
		if got.DayProgress[d].CompletedAt == nil || !got.DayProgress[d].CompletedAt.Equal(t0) {
			t.Errorf("day %d: CompletedAt = %v, want %v", d, got.DayProgress[d].CompletedAt, t0)
		}
		if p.DayProgress[d].Completed {
			t.Errorf("day %d: input profile was mutated", d)
		}
	}
}

func TestCompleteDay_LastDayStaysOnFive(t *testing.T) {
	p := atDay5(t)
	got, err := CompleteDay(p, 5, t0)
	if err != nil {
		t.Fatalf("complete day 5: %v", err)
	}
	if got.OnboardingDay != 5 {
		t.Errorf("OnboardingDay = %d, want 5", got.OnboardingDay)
	}
	if !got.DayProgress[5].Completed {
		t.Error("day 5 should be completed")
	}
	if _, err := CompleteDay(got, 5, t0); !errors.Is(err, ErrDayAlreadyCompleted) {
		t.Errorf("second completion error = %v, want ErrDayAlreadyCompleted", err)
	}
}

func TestCompleteDay_RejectsNonActiveDays(t *testing.T) {
	p := employee()
	p, _ = CompleteDay(p, 1, t0)
	testCases := []struct {
		name string
		day  int
	}{
		{"future day", 3},
		{"far future", 5},
		{"already completed day", 1},
		{"manager-only day 0", 0},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			got, err := CompleteDay(p, tc.day, t0)
			if !errors.Is(err, ErrDayLocked) {
				t.Fatalf("error = %v, want ErrDayLocked", err)
			}
			if !errkind.Is(err, errkind.State) {
				t.Error("ErrDayLocked should be a state error")
			}
			if diff := cmp.Diff(p, got); diff != "" {
				t.Errorf("profile changed on rejection (-want +got):\n%s", diff)
			}
		})
	}
}

func TestDays_StatusDerivation(t *testing.T) {
	p := employee()
	p, _ = CompleteDay(p, 1, t0)
	p, _ = CompleteDay(p, 2, t0)
	got := Days(p)
	want := []DayStatus{DayCompleted, DayCompleted, DayActive, DayLocked, DayLocked}
	if len(got) != len(want) {
		t.Fatalf("len(Days) = %d, want %d", len(got), len(want))
	}
	for i, v := range got {
		if v.Day != i+1 {
			t.Errorf("Days[%d].Day = %d, want %d", i, v.Day, i+1)
		}
		if v.Status != want[i] {
			t.Errorf("day %d status = %s, want %s", v.Day, v.Status, want[i])
		}
	}
	if got[0].CompletedAt == nil {
		t.Error("completed day should carry CompletedAt")
	}
	if got[3].Status.Navigable() {
		t.Error("locked day must not be navigable")
	}
}

func TestStatusOf_AvailableWhenBehindWithoutRecord(t *testing.T) {
	p := employee()
	p.OnboardingDay = 3
	if s := StatusOf(p, 2); s != DayAvailable {
		t.Errorf("StatusOf(2) = %s, want available", s)
	}
	if !DayAvailable.Navigable() {
		t.Error("available day should be navigable")
	}
}

func TestDays_ManagerSeesDayZero(t *testing.T) {
	p := *domain.NewProfile("maria", domain.RoleManager, t0)
	days := Days(p)
	if len(days) != 6 || days[0].Day != 0 {
		t.Fatalf("manager days = %+v, want 0..5", days)
	}
	if days[0].Status != DayActive {
		t.Errorf("day 0 status = %s, want active", days[0].Status)
	}
	p, err := CompleteDay(p, 0, t0)
	if err != nil {
		t.Fatalf("complete day 0: %v", err)
	}
	if p.OnboardingDay != 1 {
		t.Errorf("OnboardingDay = %d, want 1", p.OnboardingDay)
	}
}

func TestDay5Flow_HappyPath(t *testing.T) {
	p := atDay5(t)
	var err error
	if p, err = Advance(p); err != nil {
		t.Fatalf("advance to signoff: %v", err)
	}
	if p.Day5.Phase != domain.PhaseSignoff {
		t.Fatalf("phase = %s, want SIGNOFF", p.Day5.Phase)
	}
	if _, err := Advance(p); !errors.Is(err, ErrSignoffRequired) {
		t.Fatalf("advance without signoff error = %v, want ErrSignoffRequired", err)
	}
	if p, err = RecordSignoff(p, "maria", "great week", t0); err != nil {
		t.Fatalf("signoff: %v", err)
	}
	if p, err = Advance(p); err != nil {
		t.Fatalf("advance to feedback: %v", err)
	}
	if _, err := Graduate(p, t0); !errors.Is(err, ErrFeedbackRequired) {
		t.Fatalf("graduate without feedback error = %v, want ErrFeedbackRequired", err)
	}
	if _, err := Advance(p); !errors.Is(err, ErrFeedbackRequired) {
		t.Fatalf("advance without feedback error = %v, want ErrFeedbackRequired", err)
	}
	if p, err = SubmitFeedback(p, 5, "loved it", t0); err != nil {
		t.Fatalf("feedback: %v", err)
	}
	if _, err := Advance(p); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Fatalf("advance past feedback before graduating error = %v, want ErrInvalidPhaseTransition", err)
	}
	if p, err = Graduate(p, t0); err != nil {
		t.Fatalf("graduate: %v", err)
	}
	if !p.OnboardingComplete {
		t.Error("graduate should set OnboardingComplete")
	}
	if p.Day5.Phase != domain.PhaseGraduation {
		t.Errorf("phase = %s, want GRADUATION", p.Day5.Phase)
	}
	if !p.DayProgress[5].Completed {
		t.Error("graduate should record day 5 completion")
	}
	if p, err = Advance(p); err != nil {
		t.Fatalf("advance to transition: %v", err)
	}
	if p.Day5.Phase != domain.PhaseTransition {
		t.Errorf("phase = %s, want TRANSITION", p.Day5.Phase)
	}
	if _, err := Advance(p); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("advance past transition error = %v, want ErrInvalidPhaseTransition", err)
	}
	if _, err := Graduate(p, t0); !errors.Is(err, ErrOnboardingComplete) {
		t.Errorf("second graduate error = %v, want ErrOnboardingComplete", err)
	}
	if _, err := CompleteDay(p, 5, t0); !errors.Is(err, ErrOnboardingComplete) {
		t.Errorf("complete after graduation error = %v, want ErrOnboardingComplete", err)
	}
}

func TestDay5Flow_BackwardOnlyToVisited(t *testing.T) {
	p := atDay5(t)
	p, _ = Advance(p)
	p, _ = RecordSignoff(p, "maria", "", t0)
	p, _ = Advance(p)

	back, err := GoTo(p, domain.PhaseOverview)
	if err != nil {
		t.Fatalf("go back to overview: %v", err)
	}
	if back.Day5.Phase != domain.PhaseOverview {
		t.Errorf("phase = %s, want OVERVIEW", back.Day5.Phase)
	}
	if back.Day5.Furthest != domain.PhaseFeedback {
		t.Errorf("furthest = %s, want FEEDBACK", back.Day5.Furthest)
	}
	if _, err := GoTo(back, domain.PhaseFeedback); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("jump forward error = %v, want ErrInvalidPhaseTransition", err)
	}
	if _, err := GoTo(p, domain.PhaseTransition); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("go to unvisited error = %v, want ErrInvalidPhaseTransition", err)
	}
	if _, err := GoTo(p, domain.Phase("LUNCH")); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("go to unknown phase error = %v, want ErrInvalidPhaseTransition", err)
	}
	forward, err := Advance(back)
	if err != nil {
		t.Fatalf("advance after going back: %v", err)
	}
	if forward.Day5.Phase != domain.PhaseSignoff {
		t.Errorf("phase = %s, want SIGNOFF", forward.Day5.Phase)
	}
}

func TestDay5Flow_NotReachedBeforeDayFive(t *testing.T) {
	p := employee()
	if _, err := Advance(p); !errors.Is(err, ErrDay5NotReached) {
		t.Errorf("Advance error = %v, want ErrDay5NotReached", err)
	}
	if _, err := Graduate(p, t0); !errors.Is(err, ErrDay5NotReached) {
		t.Errorf("Graduate error = %v, want ErrDay5NotReached", err)
	}
}

func TestDay5Flow_PhaseGuards(t *testing.T) {
	p := atDay5(t)
	if _, err := RecordSignoff(p, "maria", "", t0); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("signoff on overview error = %v, want ErrInvalidPhaseTransition", err)
	}
	if _, err := SubmitFeedback(p, 4, "", t0); !errors.Is(err, ErrInvalidPhaseTransition) {
		t.Errorf("feedback on overview error = %v, want ErrInvalidPhaseTransition", err)
	}
	p, _ = Advance(p)
	if _, err := RecordSignoff(p, "  ", "", t0); !errors.Is(err, ErrSignoffRequired) {
		t.Errorf("blank manager error = %v, want ErrSignoffRequired", err)
	}
	p, _ = RecordSignoff(p, "maria", "", t0)
	p, _ = Advance(p)
	for _, rating := range []int{0, 6} {
		if _, err := SubmitFeedback(p, rating, "", t0); !errors.Is(err, ErrInvalidFeedback) {
			t.Errorf("rating %d error = %v, want ErrInvalidFeedback", rating, err)
		}
	}
}
