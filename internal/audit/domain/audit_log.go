package domain

import "time"

// Activity actions recorded outside the RPC audit trail.
const (
	ActionDayCompleted    = "day_completed"
	ActionGraduated       = "graduated"
	ActionSignoffRecorded = "signoff_recorded"
	ActionCardQuarantined = "card_quarantined"
	ActionItemEscalated   = "item_escalated"
	ActionStaffingApplied = "staffing_plan_applied"
)

// AuditLog represents one activity-log entry.
type AuditLog struct {
	ID        string
	UserID    string
	Action    string
	Resource  string
	IP        string
	Metadata  string
	CreatedAt time.Time
}
