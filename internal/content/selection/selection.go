// Package selection picks the daily cards for a user: role targeting, generic backfill and the
// weekday rhythm overrides. Selection is a pure function of (user, date, catalog).
package selection

import (
	"strings"
	"time"

	"onboardflow/internal/content/domain"
	profile "onboardflow/internal/profile/domain"
)

// DailyLimit is the maximum number of cards in a daily selection.
const DailyLimit = 3

// Fixed rhythm cards.
var (
	PlanningAnchorCard = domain.Card{
		ID:    "rhythm-monday-planning",
		Slot:  domain.SlotContextAnchor,
		Title: "Plan your week",
		Body:  "Pick the one outcome that would make this week a success and share it with your manager.",
	}
	ReflectionCard = domain.Card{
		ID:    "rhythm-friday-reflection",
		Slot:  domain.SlotMicroSkill,
		Title: "Look back on your week",
		Body:  "Write down one thing you learned, one thing that surprised you and one question for next week.",
	}
)

// SimulatorCardID is the id of the card synthesized from simulator definition defID.
func SimulatorCardID(defID string) string {
	return "simulator-" + defID
}

// override replaces the card at index with the one build returns. build reports false when it
// has nothing to offer (e.g. no active simulator).
type override struct {
	index int
	build func(c *domain.Catalog) (domain.Card, bool)
}

// rhythm maps each weekday bucket to its override. Adding a rhythm day is a new entry here.
var rhythm = map[domain.WeekdayBucket]override{
	domain.BucketMondayPlanning: {
		index: 0,
		build: func(*domain.Catalog) (domain.Card, bool) { return PlanningAnchorCard, true },
	},
	domain.BucketWednesdaySimulator: {
		index: 2,
		build: simulatorCard,
	},
	domain.BucketFridayReflection: {
		index: 2,
		build: func(*domain.Catalog) (domain.Card, bool) { return ReflectionCard, true },
	},
}

func simulatorCard(c *domain.Catalog) (domain.Card, bool) {
	def, ok := c.Simulator()
	if !ok {
		return domain.Card{}, false
	}
	body := def.Scenario
	if def.Prompt != "" {
		if body != "" {
			body += "\n\n"
		}
		body += def.Prompt
	}
	return domain.Card{
		ID:    SimulatorCardID(def.ID),
		Slot:  domain.SlotSimulator,
		Title: def.Title,
		Body:  body,
	}, true
}

func normalize(s string) string {
	return strings.ToLower(strings.TrimSpace(s))
}

func matchesAny(list []string, value string) bool {
	if len(list) == 0 {
		return true
	}
	v := normalize(value)
	for _, s := range list {
		if normalize(s) == v {
			return true
		}
	}
	return false
}

// Select returns at most DailyLimit cards for user on date.
func Select(user profile.UserProfile, date time.Time, c *domain.Catalog) []domain.Card {
	return SelectExcluding(user, date, c, nil)
}

// SelectExcluding is Select with cards whose id is in excluded removed from consideration,
// including rhythm cards. A skipped rhythm card leaves the underlying selection in place.
func SelectExcluding(user profile.UserProfile, date time.Time, c *domain.Catalog, excluded map[string]bool) []domain.Card {
	if c == nil {
		return nil
	}
	out := make([]domain.Card, 0, DailyLimit)
	picked := make(map[string]bool, DailyLimit)

	for _, card := range c.Cards {
		if len(out) == DailyLimit {
			break
		}
		if !card.Targeted() || excluded[card.ID] {
			continue
		}
		if matchesAny(card.RoleCategories, user.RoleCategory) && matchesAny(card.JobTitles, user.JobTitle) {
			out = append(out, card)
			picked[card.ID] = true
		}
	}
	for _, card := range c.Cards {
		if len(out) == DailyLimit {
			break
		}
		if card.Targeted() || excluded[card.ID] || picked[card.ID] {
			continue
		}
		out = append(out, card)
		picked[card.ID] = true
	}

	if o, ok := rhythm[domain.BucketFor(date)]; ok && o.index < len(out) {
		if card, ok := o.build(c); ok && !excluded[card.ID] {
			out[o.index] = card
		}
	}
	return out
}

// Lookup finds a card that Select can return: a catalog card, a rhythm card or the synthesized
// simulator card.
func Lookup(c *domain.Catalog, id string) (domain.Card, bool) {
	switch id {
	case PlanningAnchorCard.ID:
		return PlanningAnchorCard, true
	case ReflectionCard.ID:
		return ReflectionCard, true
	}
	if c == nil {
		return domain.Card{}, false
	}
	if card, ok := simulatorCard(c); ok && card.ID == id {
		return card, true
	}
	return c.Card(id)
}
