// Package domain holds the team roster, manager action items and burnout classification.
package domain

import (
	"math"

	"onboardflow/internal/platform/errkind"
)

var (
	ErrMemberNotFound      = errkind.New(errkind.NotFound, "team member not found")
	ErrInvalidLoad         = errkind.New(errkind.Data, "assigned load must be between 0 and 300")
	ErrActionNotFound      = errkind.New(errkind.NotFound, "action item not found")
	ErrDuplicateAssignment = errkind.New(errkind.Data, "staffing plan assigns a member more than once")
)

// Member is one person on a manager's team. BurnoutScore is 0..100; CurrentLoad is a percentage
// of nominal capacity and may exceed 100.
type Member struct {
	ID             string             `json:"id" yaml:"id"`
	ManagerID      string             `json:"manager_id" yaml:"manager_id"`
	Name           string             `json:"name" yaml:"name"`
	BurnoutScore   float64            `json:"burnout_score" yaml:"burnout_score"`
	CurrentLoad    float64            `json:"current_load" yaml:"current_load"`
	SkillScores    map[string]float64 `json:"skill_scores,omitempty" yaml:"skill_scores,omitempty"`
	BurnoutSignals []string           `json:"burnout_signals,omitempty" yaml:"burnout_signals,omitempty"`
}

// DisplayName returns Name, or ID when Name is empty.
func (m Member) DisplayName() string {
	if m.Name != "" {
		return m.Name
	}
	return m.ID
}

// MaxLoad bounds an assigned load.
const MaxLoad = 300

// Assignment sets one member's load in a staffing plan.
type Assignment struct {
	MemberID string  `json:"member_id" yaml:"member_id"`
	Load     float64 `json:"load" yaml:"load"`
}

// ApplyLoad returns m with load assigned. Loads above 100 raise the burnout score by half the
// overage, capped at 100; the score is never lowered.
func ApplyLoad(m Member, load float64) (Member, error) {
	if load < 0 || load > MaxLoad || math.IsNaN(load) {
		return m, ErrInvalidLoad
	}
	m.CurrentLoad = load
	if load > 100 {
		m.BurnoutScore = math.Min(100, m.BurnoutScore+math.Max(0, load-100)/2)
	}
	return m, nil
}

// Priority orders action items.
type Priority string

const (
	PriorityHigh   Priority = "HIGH"
	PriorityMedium Priority = "MEDIUM"
	PriorityLow    Priority = "LOW"
)

// Rank is the sort position of p: HIGH 0, MEDIUM 1, LOW 2. Unknown priorities sort last.
func (p Priority) Rank() int {
	switch p {
	case PriorityHigh:
		return 0
	case PriorityMedium:
		return 1
	case PriorityLow:
		return 2
	}
	return 3
}

// ActionType is the kind of intervention.
type ActionType string

const (
	ActionBurnout    ActionType = "BURNOUT"
	ActionSkillGap   ActionType = "SKILL_GAP"
	ActionVisibility ActionType = "VISIBILITY"
)

// ActionItem is derived from a roster snapshot on every read and never stored. Acknowledged is
// merged in from the acknowledgement set.
type ActionItem struct {
	ID           string     `json:"id"`
	Type         ActionType `json:"type"`
	Priority     Priority   `json:"priority"`
	Title        string     `json:"title"`
	Context      string     `json:"context"`
	MemberIDs    []string   `json:"member_ids,omitempty"`
	Acknowledged bool       `json:"acknowledged"`
}

// Classification is the burnout verdict for one member. Signals names what triggered it.
type Classification struct {
	Flagged  bool     `json:"flagged"`
	Priority Priority `json:"priority,omitempty"`
	Signals  []string `json:"signals,omitempty"`
}

// Burnout thresholds.
const (
	FlagBurnoutScore = 60
	FlagLoad         = 105
	HighBurnoutScore = 75
	HighLoad         = 120
)

// Classify applies the burnout thresholds to m.
func Classify(m Member) Classification {
	var c Classification
	if m.BurnoutScore >= FlagBurnoutScore {
		c.Signals = append(c.Signals, "burnoutScore")
	}
	if m.CurrentLoad > FlagLoad {
		c.Signals = append(c.Signals, "currentLoad")
	}
	if len(c.Signals) == 0 {
		return c
	}
	c.Flagged = true
	c.Priority = PriorityMedium
	if m.BurnoutScore >= HighBurnoutScore || m.CurrentLoad > HighLoad {
		c.Priority = PriorityHigh
	}
	return c
}
