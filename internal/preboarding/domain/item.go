// Package domain holds preboarding checklist items and the readiness score derived from them.
package domain

import (
	"fmt"
	"math"
	"strings"
	"time"

	"onboardflow/internal/platform/errkind"
)

// Category groups checklist items.
type Category string

const (
	CategoryIdentity Category = "IDENTITY"
	CategoryDevice   Category = "DEVICE"
	CategoryFacility Category = "FACILITY"
	CategoryFinance  Category = "FINANCE"
	CategoryTeam     Category = "TEAM"
)

// Critical reports whether items of c count toward the critical readiness totals.
func (c Category) Critical() bool {
	switch c {
	case CategoryIdentity, CategoryDevice, CategoryFacility:
		return true
	}
	return false
}

// Valid reports whether c is a known category.
func (c Category) Valid() bool {
	switch c {
	case CategoryIdentity, CategoryDevice, CategoryFacility, CategoryFinance, CategoryTeam:
		return true
	}
	return false
}

// Status is the progress of a checklist item.
type Status string

const (
	StatusPending    Status = "PENDING"
	StatusInProgress Status = "IN_PROGRESS"
	StatusReady      Status = "READY"
	StatusBlocked    Status = "BLOCKED"
	StatusEscalated  Status = "ESCALATED"
)

// Valid reports whether s is a known status.
func (s Status) Valid() bool {
	switch s {
	case StatusPending, StatusInProgress, StatusReady, StatusBlocked, StatusEscalated:
		return true
	}
	return false
}

var (
	ErrNotBlocked        = errkind.New(errkind.State, "only blocked items can be escalated")
	ErrEscalationTarget  = errkind.New(errkind.State, "escalation target is required")
	ErrEscalateViaUpdate = errkind.New(errkind.State, "use escalate to move an item to ESCALATED")
	ErrUnknownStatus     = errkind.New(errkind.Data, "unknown preboarding status")
	ErrItemNotFound      = errkind.New(errkind.NotFound, "preboarding item not found")
)

// Item is one preboarding checklist entry for a user.
type Item struct {
	ID          string     `json:"id" yaml:"id"`
	UserID      string     `json:"user_id" yaml:"user_id"`
	Title       string     `json:"title" yaml:"title"`
	Category    Category   `json:"category" yaml:"category"`
	Status      Status     `json:"status" yaml:"status"`
	Owner       string     `json:"owner" yaml:"owner"`
	ETA         *time.Time `json:"eta,omitempty" yaml:"eta,omitempty"`
	EscalatedTo string     `json:"escalated_to,omitempty" yaml:"escalated_to,omitempty"`
	EscalatedAt *time.Time `json:"escalated_at,omitempty" yaml:"escalated_at,omitempty"`
	UpdatedAt   time.Time  `json:"updated_at" yaml:"-"`
}

// Escalate moves a BLOCKED item to ESCALATED and records who it was escalated to.
// The readiness score does not change: an escalated item is still not ready.
func Escalate(it Item, target string, now time.Time) (Item, error) {
	if it.Status != StatusBlocked {
		return it, fmt.Errorf("escalate %s (status %s): %w", it.ID, it.Status, ErrNotBlocked)
	}
	target = strings.TrimSpace(target)
	if target == "" {
		return it, ErrEscalationTarget
	}
	at := now
	it.Status = StatusEscalated
	it.EscalatedTo = target
	it.EscalatedAt = &at
	it.UpdatedAt = now
	return it, nil
}

// UpdateStatus sets any status except ESCALATED, which only Escalate may set.
// Leaving ESCALATED for another status clears nothing: the escalation record is kept.
func UpdateStatus(it Item, s Status, now time.Time) (Item, error) {
	if !s.Valid() {
		return it, fmt.Errorf("status %q: %w", s, ErrUnknownStatus)
	}
	if s == StatusEscalated {
		return it, ErrEscalateViaUpdate
	}
	it.Status = s
	it.UpdatedAt = now
	return it, nil
}

// ReadinessScore is derived from an item set on every read and never stored.
type ReadinessScore struct {
	OverallScore       int `json:"overall_score"`
	CriticalItemsReady int `json:"critical_items_ready"`
	CriticalItemsTotal int `json:"critical_items_total"`
	BlockedItems       int `json:"blocked_items"`
}

// Score computes the readiness score. OverallScore is round(100 × ready / total), 0 for no items.
func Score(items []Item) ReadinessScore {
	var s ReadinessScore
	ready := 0
	for _, it := range items {
		isReady := it.Status == StatusReady
		if isReady {
			ready++
		}
		if it.Status == StatusBlocked {
			s.BlockedItems++
		}
		if it.Category.Critical() {
			s.CriticalItemsTotal++
			if isReady {
				s.CriticalItemsReady++
			}
		}
	}
	if len(items) > 0 {
		s.OverallScore = int(math.Round(100 * float64(ready) / float64(len(items))))
	}
	return s
}
