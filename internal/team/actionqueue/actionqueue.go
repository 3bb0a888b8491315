// Package actionqueue derives a manager's prioritized interventions from a roster snapshot.
// The queue is recomputed on every read and never stored.
package actionqueue

import (
	"context"
	"fmt"
	"slices"
	"sort"
	"strings"

	"onboardflow/internal/team/domain"
)

// SkillGapThreshold is the score below which a member counts toward a skill gap.
const SkillGapThreshold = 50

// minGapMembers is how many weak members make a gap.
const minGapMembers = 2

// VisibilityActionID is the id of the fixed visibility item.
const VisibilityActionID = "visibility:team"

// Classifier decides whether a member needs a burnout intervention.
type Classifier interface {
	ClassifyBurnout(ctx context.Context, m domain.Member) (domain.Classification, error)
}

// Thresholds is the built-in Classifier.
type Thresholds struct{}

func (Thresholds) ClassifyBurnout(_ context.Context, m domain.Member) (domain.Classification, error) {
	return domain.Classify(m), nil
}

// BurnoutActionID is the id of the burnout item for memberID.
func BurnoutActionID(memberID string) string { return "burnout:" + memberID }

// SkillGapActionID is the id of the skill-gap item for skill.
func SkillGapActionID(skill string) string { return "skill-gap:" + skill }

// Generate builds the queue with the built-in thresholds.
func Generate(team []domain.Member) []domain.ActionItem {
	items, _ := GenerateWith(context.Background(), team, Thresholds{})
	return items
}

// GenerateWith builds the queue using c for burnout decisions. Items are emitted per member in
// roster order, then the skill gap, then the visibility item, and stably sorted by priority rank.
func GenerateWith(ctx context.Context, team []domain.Member, c Classifier) ([]domain.ActionItem, error) {
	var items []domain.ActionItem
	for _, m := range team {
		cl, err := c.ClassifyBurnout(ctx, m)
		if err != nil {
			return nil, fmt.Errorf("classify %s: %w", m.ID, err)
		}
		if !cl.Flagged {
			continue
		}
		items = append(items, burnoutItem(m, cl))
	}
	if gap, ok := skillGap(team); ok {
		items = append(items, gap)
	}
	items = append(items, domain.ActionItem{
		ID:       VisibilityActionID,
		Type:     domain.ActionVisibility,
		Priority: domain.PriorityLow,
		Title:    "Share the team's wins this week",
		Context:  "Recognize recent contributions in a team channel or your next skip-level update.",
	})
	sort.SliceStable(items, func(i, j int) bool {
		return items[i].Priority.Rank() < items[j].Priority.Rank()
	})
	return items, nil
}

func burnoutItem(m domain.Member, cl domain.Classification) domain.ActionItem {
	priority := cl.Priority
	if priority == "" {
		priority = domain.PriorityMedium
	}
	signals := append(slices.Clone(cl.Signals), m.BurnoutSignals...)
	return domain.ActionItem{
		ID:       BurnoutActionID(m.ID),
		Type:     domain.ActionBurnout,
		Priority: priority,
		Title:    fmt.Sprintf("Check in with %s about workload", m.DisplayName()),
		Context: fmt.Sprintf("burnout score %.0f, load %.0f%%; signals: %s",
			m.BurnoutScore, m.CurrentLoad, strings.Join(signals, ", ")),
		MemberIDs: []string{m.ID},
	}
}

// skillGap picks the skill with the most members under the threshold, ties broken by skill name.
// Affected members are listed in roster order.
func skillGap(team []domain.Member) (domain.ActionItem, bool) {
	weak := make(map[string][]domain.Member)
	for _, m := range team {
		for skill, score := range m.SkillScores {
			if score < SkillGapThreshold {
				weak[skill] = append(weak[skill], m)
			}
		}
	}
	best := ""
	for skill, members := range weak {
		if len(members) < minGapMembers {
			continue
		}
		if best == "" || len(members) > len(weak[best]) || (len(members) == len(weak[best]) && skill < best) {
			best = skill
		}
	}
	if best == "" {
		return domain.ActionItem{}, false
	}
	ids := make([]string, 0, len(weak[best]))
	names := make([]string, 0, len(weak[best]))
	for _, m := range weak[best] {
		ids = append(ids, m.ID)
		names = append(names, m.DisplayName())
	}
	return domain.ActionItem{
		ID:        SkillGapActionID(best),
		Type:      domain.ActionSkillGap,
		Priority:  domain.PriorityMedium,
		Title:     fmt.Sprintf("Close the %s skill gap", best),
		Context:   fmt.Sprintf("%s score below %d on %s", strings.Join(names, ", "), SkillGapThreshold, best),
		MemberIDs: ids,
	}, true
}

// Merge returns a copy of items with Acknowledged set from acks. items is not modified.
func Merge(items []domain.ActionItem, acks map[string]bool) []domain.ActionItem {
	out := make([]domain.ActionItem, len(items))
	for i, it := range items {
		it.MemberIDs = slices.Clone(it.MemberIDs)
		it.Acknowledged = acks[it.ID]
		out[i] = it
	}
	return out
}
