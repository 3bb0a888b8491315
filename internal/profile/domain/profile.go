package domain

import (
	"errors"
	"strings"
	"time"
)

// Role is the product role of a user.
type Role string

const (
	RoleEmployee Role = "EMPLOYEE"
	RoleManager  Role = "MANAGER"
)

// FirstDay is the first onboarding day for a role. Day 0 is an optional manager-only day.
func (r Role) FirstDay() int {
	if r == RoleManager {
		return 0
	}
	return 1
}

// LastDay is the final onboarding day; completing it does not advance onboardingDay.
const LastDay = 5

// Phase is a step of the Day-5 signoff flow. Phases are strictly ordered.
type Phase string

const (
	PhaseOverview   Phase = "OVERVIEW"
	PhaseSignoff    Phase = "SIGNOFF"
	PhaseFeedback   Phase = "FEEDBACK"
	PhaseGraduation Phase = "GRADUATION"
	PhaseTransition Phase = "TRANSITION"
)

// Phases lists the Day-5 flow in order.
var Phases = []Phase{PhaseOverview, PhaseSignoff, PhaseFeedback, PhaseGraduation, PhaseTransition}

// Index returns the position of p in Phases, or -1 if p is not a known phase.
func (p Phase) Index() int {
	for i, q := range Phases {
		if q == p {
			return i
		}
	}
	return -1
}

// DayRecord is the completion record of one onboarding day.
type DayRecord struct {
	Completed   bool       `json:"completed"`
	CompletedAt *time.Time `json:"completed_at,omitempty"`
}

// Signoff is the manager confirmation recorded during the Day-5 flow.
type Signoff struct {
	ManagerID string    `json:"manager_id"`
	Note      string    `json:"note,omitempty"`
	SignedAt  time.Time `json:"signed_at"`
}

// Feedback is the new hire's end-of-journey feedback.
type Feedback struct {
	Rating      int       `json:"rating"`
	Comment     string    `json:"comment,omitempty"`
	SubmittedAt time.Time `json:"submitted_at"`
}

// Day5Flow tracks the signoff → feedback → graduation sub-flow. Furthest is the furthest phase visited.
type Day5Flow struct {
	Phase    Phase     `json:"phase"`
	Furthest Phase     `json:"furthest"`
	Signoff  *Signoff  `json:"signoff,omitempty"`
	Feedback *Feedback `json:"feedback,omitempty"`
}

// UserProfile is the persisted onboarding state of one user.
type UserProfile struct {
	ID                 string            `json:"id"`
	Name               string            `json:"name"`
	Email              string            `json:"email,omitempty"`
	Role               Role              `json:"role"`
	JobTitle           string            `json:"job_title"`
	Department         string            `json:"department"`
	RoleCategory       string            `json:"role_category"`
	OnboardingDay      int               `json:"onboarding_day"`
	OnboardingComplete bool              `json:"onboarding_complete"`
	DayProgress        map[int]DayRecord `json:"day_progress"`
	Day5               Day5Flow          `json:"day5"`
	CreatedAt          time.Time         `json:"created_at"`
	UpdatedAt          time.Time         `json:"updated_at"`
}

// NewProfile returns a freshly initialized profile positioned on the role's first day.
func NewProfile(id string, role Role, now time.Time) *UserProfile {
	if role == "" {
		role = RoleEmployee
	}
	return &UserProfile{
		ID:            id,
		Role:          role,
		OnboardingDay: role.FirstDay(),
		DayProgress:   make(map[int]DayRecord),
		Day5:          Day5Flow{Phase: PhaseOverview, Furthest: PhaseOverview},
		CreatedAt:     now,
		UpdatedAt:     now,
	}
}

// Validate validates the profile for persistence. Returns an error describing the first validation failure.
func (p *UserProfile) Validate() error {
	if strings.TrimSpace(p.ID) == "" {
		return errors.New("profile id is required")
	}
	if p.Role != RoleEmployee && p.Role != RoleManager {
		return errors.New("profile role must be EMPLOYEE or MANAGER")
	}
	if p.OnboardingDay < p.Role.FirstDay() || p.OnboardingDay > LastDay {
		return errors.New("profile onboarding day out of range")
	}
	for d := range p.DayProgress {
		if d < 0 || d > LastDay {
			return errors.New("profile day progress references an unknown day")
		}
	}
	if p.Day5.Phase != "" && p.Day5.Phase.Index() < 0 {
		return errors.New("profile day-5 phase is unknown")
	}
	if p.Day5.Furthest != "" && p.Day5.Furthest.Index() < 0 {
		return errors.New("profile day-5 furthest phase is unknown")
	}
	return nil
}

// Clone returns a deep copy so transitions never mutate the caller's value.
func (p UserProfile) Clone() UserProfile {
	out := p
	out.DayProgress = make(map[int]DayRecord, len(p.DayProgress))
	for d, rec := range p.DayProgress {
		if rec.CompletedAt != nil {
			t := *rec.CompletedAt
			rec.CompletedAt = &t
		}
		out.DayProgress[d] = rec
	}
	if p.Day5.Signoff != nil {
		s := *p.Day5.Signoff
		out.Day5.Signoff = &s
	}
	if p.Day5.Feedback != nil {
		f := *p.Day5.Feedback
		out.Day5.Feedback = &f
	}
	return out
}

// IsDayCompleted reports whether day d has been completed.
func (p *UserProfile) IsDayCompleted(d int) bool {
	return p.DayProgress[d].Completed
}
