// Package domain holds daily cards, the content catalog and the weekday rhythm.
package domain

import (
	"time"

	preboarding "onboardflow/internal/preboarding/domain"
)

// Slot is the content category a daily card occupies.
type Slot string

const (
	SlotContextAnchor Slot = "CONTEXT_ANCHOR"
	SlotDomainEdge    Slot = "DOMAIN_EDGE"
	SlotMicroSkill    Slot = "MICRO_SKILL"
	SlotSimulator     Slot = "SIMULATOR"
)

// Valid reports whether s is a known slot.
func (s Slot) Valid() bool {
	switch s {
	case SlotContextAnchor, SlotDomainEdge, SlotMicroSkill, SlotSimulator:
		return true
	}
	return false
}

// QuarantineThreshold is the flag count at which a card is quarantined.
const QuarantineThreshold = 3

// Card is one daily feed card. Targeting lists are optional; an empty list matches everyone.
type Card struct {
	ID             string   `json:"id" yaml:"id"`
	Slot           Slot     `json:"slot" yaml:"slot"`
	Title          string   `json:"title" yaml:"title"`
	Body           string   `json:"body" yaml:"body"`
	RoleCategories []string `json:"role_categories,omitempty" yaml:"role_categories,omitempty"`
	JobTitles      []string `json:"job_titles,omitempty" yaml:"job_titles,omitempty"`
	Explainer      string   `json:"explainer,omitempty" yaml:"explainer,omitempty"`

	FlagCount      int    `json:"flag_count" yaml:"-"`
	Flagged        bool   `json:"flagged" yaml:"-"`
	LastFlagReason string `json:"last_flag_reason,omitempty" yaml:"-"`
}

// Targeted reports whether the card carries any role or job-title targeting.
func (c Card) Targeted() bool {
	return len(c.RoleCategories) > 0 || len(c.JobTitles) > 0
}

// IsQuarantined is derived from FlagCount on every read.
func (c Card) IsQuarantined() bool {
	return c.FlagCount >= QuarantineThreshold
}

// SimulatorDefinition describes a scenario the Wednesday simulator card is built from.
type SimulatorDefinition struct {
	ID       string `json:"id" yaml:"id"`
	Title    string `json:"title" yaml:"title"`
	Scenario string `json:"scenario" yaml:"scenario"`
	Prompt   string `json:"prompt" yaml:"prompt"`
}

// Catalog is the static, read-only content source. Card order is priority order.
type Catalog struct {
	Cards                []Card                `json:"cards" yaml:"cards"`
	PreboardingTemplates []preboarding.Item    `json:"preboarding_templates" yaml:"preboarding_templates"`
	Simulators           []SimulatorDefinition `json:"simulators" yaml:"simulators"`
	ActiveSimulator      string                `json:"active_simulator" yaml:"active_simulator"`
}

// Simulator returns the active simulator definition.
func (c *Catalog) Simulator() (SimulatorDefinition, bool) {
	for _, s := range c.Simulators {
		if s.ID == c.ActiveSimulator {
			return s, true
		}
	}
	return SimulatorDefinition{}, false
}

// Card returns the catalog card with id.
func (c *Catalog) Card(id string) (Card, bool) {
	for _, card := range c.Cards {
		if card.ID == id {
			return card, true
		}
	}
	return Card{}, false
}

// WeekdayBucket is the weekday rhythm a date falls into.
type WeekdayBucket string

const (
	BucketMondayPlanning     WeekdayBucket = "MONDAY_PLANNING"
	BucketWednesdaySimulator WeekdayBucket = "WEDNESDAY_SIMULATOR"
	BucketFridayReflection   WeekdayBucket = "FRIDAY_REFLECTION"
	BucketDefault            WeekdayBucket = "DEFAULT"
)

// BucketFor returns the weekday bucket of date in its own location.
func BucketFor(date time.Time) WeekdayBucket {
	switch date.Weekday() {
	case time.Monday:
		return BucketMondayPlanning
	case time.Wednesday:
		return BucketWednesdaySimulator
	case time.Friday:
		return BucketFridayReflection
	default:
		return BucketDefault
	}
}
