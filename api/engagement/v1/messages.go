package engagementv1

import (
	"time"

	content "onboardflow/internal/content/domain"
	moderation "onboardflow/internal/moderation/domain"
	"onboardflow/internal/onboarding/machine"
	preboarding "onboardflow/internal/preboarding/domain"
	profile "onboardflow/internal/profile/domain"
	team "onboardflow/internal/team/domain"
)

// DateLayout is the layout of date fields (calendar day, no time of day).
const DateLayout = "2006-01-02"

// Profile

type GetProfileRequest struct {
	// UserID defaults to the caller. Reading another user's profile requires the MANAGER role.
	UserID string `json:"user_id,omitempty"`
}

type EnrollProfileRequest struct {
	// UserID defaults to the caller. Enrolling another user requires the MANAGER role.
	UserID       string       `json:"user_id,omitempty"`
	Name         string       `json:"name"`
	Email        string       `json:"email,omitempty"`
	Role         profile.Role `json:"role"`
	JobTitle     string       `json:"job_title"`
	Department   string       `json:"department"`
	RoleCategory string       `json:"role_category"`
}

type ProfileResponse struct {
	Profile *profile.UserProfile `json:"profile"`
}

// Onboarding journey. All journey RPCs act on the caller except RecordSignoff.

type ListDaysRequest struct{}

type ListDaysResponse struct {
	Days []machine.DayView `json:"days"`
}

type CompleteDayRequest struct {
	Day int `json:"day"`
}

type AdvancePhaseRequest struct{}

type GoToPhaseRequest struct {
	Phase profile.Phase `json:"phase"`
}

type RecordSignoffRequest struct {
	// UserID is the new hire being signed off; the caller is recorded as the manager.
	UserID string `json:"user_id"`
	Note   string `json:"note,omitempty"`
}

type SubmitFeedbackRequest struct {
	Rating  int    `json:"rating"`
	Comment string `json:"comment,omitempty"`
}

type GraduateRequest struct{}

// Content

type SelectDailyCardsRequest struct {
	// Date is YYYY-MM-DD; empty means today.
	Date string `json:"date,omitempty"`
}

type SelectDailyCardsResponse struct {
	Cards  []content.Card `json:"cards"`
	Source string         `json:"source"`
}

type ExplainCardRequest struct {
	CardID              string   `json:"card_id"`
	Date                string   `json:"date,omitempty"`
	RecentlySeenCardIDs []string `json:"recently_seen_card_ids,omitempty"`
	CurrentWorkload     float64  `json:"current_workload,omitempty"`
	RecentKPIAlerts     []string `json:"recent_kpi_alerts,omitempty"`
	PendingDeadlines    []string `json:"pending_deadlines,omitempty"`
}

type ExplainCardResponse struct {
	Explanation string `json:"explanation"`
}

// Moderation

type SubmitFlagRequest struct {
	CardID string            `json:"card_id"`
	Reason moderation.Reason `json:"reason"`
	// SubmissionID deduplicates client retries; a replayed id is rejected.
	SubmissionID string `json:"submission_id,omitempty"`
}

type GetModerationStateRequest struct {
	CardID string `json:"card_id"`
}

type ModerationStateResponse struct {
	State       moderation.State `json:"state"`
	Quarantined bool             `json:"quarantined"`
}

// Preboarding

type GetReadinessRequest struct {
	// UserID defaults to the caller. Reading another user's readiness requires the MANAGER role.
	UserID string `json:"user_id,omitempty"`
}

type ReadinessResponse struct {
	UserID string                     `json:"user_id"`
	Items  []preboarding.Item         `json:"items"`
	Score  preboarding.ReadinessScore `json:"score"`
}

type UpdateItemStatusRequest struct {
	ItemID string             `json:"item_id"`
	Status preboarding.Status `json:"status"`
}

type EscalateItemRequest struct {
	ItemID     string `json:"item_id"`
	EscalateTo string `json:"escalate_to"`
}

type ItemResponse struct {
	Item preboarding.Item `json:"item"`
}

// Team. All team RPCs require the MANAGER role and act on the caller's team.

type GenerateActionQueueRequest struct{}

type AcknowledgeActionRequest struct {
	ActionID string `json:"action_id"`
}

type ActionQueueResponse struct {
	Items []team.ActionItem `json:"items"`
}

type ApplyStaffingPlanRequest struct {
	Assignments []team.Assignment `json:"assignments"`
}

type ApplyStaffingPlanResponse struct {
	Members []team.Member `json:"members"`
}

// Activity

type ListActivityRequest struct {
	Limit  int32 `json:"limit,omitempty"`
	Offset int32 `json:"offset,omitempty"`
}

type ActivityEntry struct {
	ID        string    `json:"id"`
	Action    string    `json:"action"`
	Resource  string    `json:"resource"`
	Metadata  string    `json:"metadata,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

type ListActivityResponse struct {
	Entries []ActivityEntry `json:"entries"`
}
