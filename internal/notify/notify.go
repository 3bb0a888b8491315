// Package notify delivers fire-and-forget notifications about onboarding and engagement events.
package notify

import (
	"context"
	"errors"
	"time"
)

// Severity ranks a notification.
type Severity string

const (
	SeverityInfo     Severity = "info"
	SeverityWarning  Severity = "warning"
	SeverityCritical Severity = "critical"
)

// Notification kinds emitted by the services.
const (
	KindDayCompleted    = "day_completed"
	KindGraduated       = "graduated"
	KindCardQuarantined = "card_quarantined"
	KindItemEscalated   = "item_escalated"
	KindBurnoutAlert    = "burnout_alert"
)

// Notification is one message handed to a Sink.
type Notification struct {
	Kind      string    `json:"kind"`
	Message   string    `json:"message"`
	Severity  Severity  `json:"severity"`
	UserID    string    `json:"user_id,omitempty"`
	Subject   string    `json:"subject,omitempty"`
	CreatedAt time.Time `json:"created_at"`
}

// Sink delivers notifications. Callers use it best-effort: log and ignore errors.
type Sink interface {
	Notify(ctx context.Context, n Notification) error
}

// Nop discards every notification.
type Nop struct{}

func (Nop) Notify(context.Context, Notification) error { return nil }

// Multi fans a notification out to every sink and joins their errors.
type Multi []Sink

func (m Multi) Notify(ctx context.Context, n Notification) error {
	var errs []error
	for _, s := range m {
		if s == nil {
			continue
		}
		if err := s.Notify(ctx, n); err != nil {
			errs = append(errs, err)
		}
	}
	return errors.Join(errs...)
}
