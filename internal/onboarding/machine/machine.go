// Package machine holds the pure onboarding state machine. Every transition takes a profile
// value and returns a new one; the input is never mutated.
package machine

import (
	"fmt"
	"strings"
	"time"

	"onboardflow/internal/platform/errkind"
	"onboardflow/internal/profile/domain"
)

var (
	ErrDayLocked              = errkind.New(errkind.State, "day is locked")
	ErrDayAlreadyCompleted    = errkind.New(errkind.State, "day is already completed")
	ErrOnboardingComplete     = errkind.New(errkind.State, "onboarding is already complete")
	ErrFeedbackRequired       = errkind.New(errkind.State, "feedback must be submitted before graduating")
	ErrSignoffRequired        = errkind.New(errkind.State, "manager signoff is required")
	ErrInvalidPhaseTransition = errkind.New(errkind.State, "invalid day-5 phase transition")
	ErrDay5NotReached         = errkind.New(errkind.State, "day-5 flow is not available yet")
	ErrInvalidFeedback        = errkind.New(errkind.State, "feedback rating must be between 1 and 5")
)

// DayStatus is the navigation status of one onboarding day.
type DayStatus string

const (
	DayCompleted DayStatus = "completed"
	DayActive    DayStatus = "active"
	DayAvailable DayStatus = "available"
	DayLocked    DayStatus = "locked"
)

// Navigable reports whether the day can be opened.
func (s DayStatus) Navigable() bool { return s != DayLocked }

// DayView is the derived status of one day.
type DayView struct {
	Day         int        `json:"day"`
	Status      DayStatus  `json:"status"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// StatusOf derives the status of day d from onboardingDay and dayProgress.
func StatusOf(p domain.UserProfile, d int) DayStatus {
	switch {
	case p.DayProgress[d].Completed:
		return DayCompleted
	case d == p.OnboardingDay:
		return DayActive
	case d < p.OnboardingDay:
		return DayAvailable
	default:
		return DayLocked
	}
}

// Days returns the status of every day visible to the profile's role, in order.
func Days(p domain.UserProfile) []DayView {
	first := p.Role.FirstDay()
	out := make([]DayView, 0, domain.LastDay-first+1)
	for d := first; d <= domain.LastDay; d++ {
		v := DayView{Day: d, Status: StatusOf(p, d)}
		if rec, ok := p.DayProgress[d]; ok && rec.CompletedAt != nil {
			t := *rec.CompletedAt
			v.CompletedAt = &t
		}
		out = append(out, v)
	}
	return out
}

// CompleteDay marks day d complete and advances onboardingDay when d is not the last day.
// Only the active day may be completed.
func CompleteDay(p domain.UserProfile, d int, now time.Time) (domain.UserProfile, error) {
	if p.OnboardingComplete {
		return p, ErrOnboardingComplete
	}
	if d != p.OnboardingDay {
		return p, fmt.Errorf("complete day %d (active day %d): %w", d, p.OnboardingDay, ErrDayLocked)
	}
	if p.DayProgress[d].Completed {
		return p, fmt.Errorf("complete day %d: %w", d, ErrDayAlreadyCompleted)
	}
	out := p.Clone()
	at := now
	out.DayProgress[d] = domain.DayRecord{Completed: true, CompletedAt: &at}
	if d < domain.LastDay {
		out.OnboardingDay = d + 1
	}
	return out, nil
}

func requireDay5(p domain.UserProfile) error {
	if p.OnboardingDay != domain.LastDay {
		return ErrDay5NotReached
	}
	return nil
}

func currentPhase(p domain.UserProfile) domain.Phase {
	if p.Day5.Phase == "" {
		return domain.PhaseOverview
	}
	return p.Day5.Phase
}

func furthestPhase(p domain.UserProfile) domain.Phase {
	if p.Day5.Furthest == "" || p.Day5.Furthest.Index() < currentPhase(p).Index() {
		return currentPhase(p)
	}
	return p.Day5.Furthest
}

// Advance moves the Day-5 flow exactly one phase forward. Leaving SIGNOFF requires a recorded
// signoff; leaving FEEDBACK requires graduation, which only Graduate performs.
func Advance(p domain.UserProfile) (domain.UserProfile, error) {
	if err := requireDay5(p); err != nil {
		return p, err
	}
	cur := currentPhase(p)
	idx := cur.Index()
	if idx+1 >= len(domain.Phases) {
		return p, fmt.Errorf("advance past %s: %w", cur, ErrInvalidPhaseTransition)
	}
	switch cur {
	case domain.PhaseSignoff:
		if p.Day5.Signoff == nil {
			return p, ErrSignoffRequired
		}
	case domain.PhaseFeedback:
		if p.Day5.Feedback == nil {
			return p, ErrFeedbackRequired
		}
		if !p.OnboardingComplete {
			return p, fmt.Errorf("advance past %s without graduating: %w", cur, ErrInvalidPhaseTransition)
		}
	}
	return moveTo(p, domain.Phases[idx+1]), nil
}

// GoTo navigates the Day-5 flow back to target. Every phase behind the current one has been
// visited, so any backward move is allowed; forward moves must go through Advance.
func GoTo(p domain.UserProfile, target domain.Phase) (domain.UserProfile, error) {
	if err := requireDay5(p); err != nil {
		return p, err
	}
	if target.Index() < 0 {
		return p, fmt.Errorf("go to %q: %w", target, ErrInvalidPhaseTransition)
	}
	if target.Index() > currentPhase(p).Index() {
		return p, fmt.Errorf("go to %s (forward): %w", target, ErrInvalidPhaseTransition)
	}
	if p.OnboardingComplete && target.Index() < domain.PhaseGraduation.Index() {
		return p, fmt.Errorf("go to %s after graduation: %w", target, ErrInvalidPhaseTransition)
	}
	return moveTo(p, target), nil
}

func moveTo(p domain.UserProfile, target domain.Phase) domain.UserProfile {
	out := p.Clone()
	furthest := furthestPhase(p)
	out.Day5.Phase = target
	if target.Index() > furthest.Index() {
		furthest = target
	}
	out.Day5.Furthest = furthest
	return out
}

// RecordSignoff stores the manager's confirmation. Valid only while the flow is on SIGNOFF.
func RecordSignoff(p domain.UserProfile, managerID, note string, now time.Time) (domain.UserProfile, error) {
	if err := requireDay5(p); err != nil {
		return p, err
	}
	if currentPhase(p) != domain.PhaseSignoff {
		return p, fmt.Errorf("signoff during %s: %w", currentPhase(p), ErrInvalidPhaseTransition)
	}
	managerID = strings.TrimSpace(managerID)
	if managerID == "" {
		return p, ErrSignoffRequired
	}
	out := p.Clone()
	out.Day5.Signoff = &domain.Signoff{ManagerID: managerID, Note: strings.TrimSpace(note), SignedAt: now}
	return out, nil
}

// SubmitFeedback stores the new hire's feedback. Valid only while the flow is on FEEDBACK.
func SubmitFeedback(p domain.UserProfile, rating int, comment string, now time.Time) (domain.UserProfile, error) {
	if err := requireDay5(p); err != nil {
		return p, err
	}
	if currentPhase(p) != domain.PhaseFeedback {
		return p, fmt.Errorf("feedback during %s: %w", currentPhase(p), ErrInvalidPhaseTransition)
	}
	if rating < 1 || rating > 5 {
		return p, ErrInvalidFeedback
	}
	out := p.Clone()
	out.Day5.Feedback = &domain.Feedback{Rating: rating, Comment: strings.TrimSpace(comment), SubmittedAt: now}
	return out, nil
}

// Graduate completes onboarding. Requires submitted feedback. Records Day-5 completion if it is
// missing and moves the flow to GRADUATION.
func Graduate(p domain.UserProfile, now time.Time) (domain.UserProfile, error) {
	if p.OnboardingComplete {
		return p, ErrOnboardingComplete
	}
	if err := requireDay5(p); err != nil {
		return p, err
	}
	if p.Day5.Feedback == nil {
		return p, ErrFeedbackRequired
	}
	out := moveTo(p, domain.PhaseGraduation)
	if !out.DayProgress[domain.LastDay].Completed {
		at := now
		out.DayProgress[domain.LastDay] = domain.DayRecord{Completed: true, CompletedAt: &at}
	}
	out.OnboardingComplete = true
	return out, nil
}
