// Package explainer produces the "why am I seeing this" line for a daily card.
package explainer

import (
	"slices"
	"strings"

	"onboardflow/internal/content/domain"
)

// WorkloadBucket groups a workload percentage.
type WorkloadBucket string

const (
	WorkloadAny    WorkloadBucket = ""
	WorkloadLight  WorkloadBucket = "LIGHT"
	WorkloadSteady WorkloadBucket = "STEADY"
	WorkloadHeavy  WorkloadBucket = "HEAVY"
)

// WorkloadFor buckets a workload percentage: below 50 is light, above 85 is heavy.
func WorkloadFor(load float64) WorkloadBucket {
	switch {
	case load < 50:
		return WorkloadLight
	case load > 85:
		return WorkloadHeavy
	default:
		return WorkloadSteady
	}
}

// Context is what the reader is doing when the card is shown.
type Context struct {
	Role                string               `json:"role"`
	JobTitle            string               `json:"job_title"`
	Bucket              domain.WeekdayBucket `json:"weekday_bucket"`
	RecentlySeenCardIDs []string             `json:"recently_seen_card_ids,omitempty"`
	CurrentWorkload     float64              `json:"current_workload"`
	RecentKPIAlerts     []string             `json:"recent_kpi_alerts,omitempty"`
	PendingDeadlines    []string             `json:"pending_deadlines,omitempty"`
}

type key struct {
	slot     domain.Slot
	bucket   domain.WeekdayBucket
	workload WorkloadBucket
}

// templates are looked up from the most to the least specific key. An empty bucket or workload
// matches any value.
var templates = map[key]string{
	{domain.SlotContextAnchor, domain.BucketMondayPlanning, WorkloadAny}:   "It is Monday: a quick anchor so your week as {title} starts from the team's priorities.",
	{domain.SlotContextAnchor, domain.BucketMondayPlanning, WorkloadHeavy}: "Your plate is full going into the week; this anchor helps you decide what a {title} can drop.",
	{domain.SlotContextAnchor, "", WorkloadAny}:                            "Background every {role} on the team relies on.",

	{domain.SlotDomainEdge, "", WorkloadLight}:  "You have room today, so here is a deeper piece of the domain a {title} works in.",
	{domain.SlotDomainEdge, "", WorkloadSteady}: "A piece of domain knowledge picked for your work as {title}.",
	{domain.SlotDomainEdge, "", WorkloadHeavy}:  "Short on time: the one domain detail a {title} most often trips over.",

	{domain.SlotMicroSkill, domain.BucketFridayReflection, WorkloadAny}: "Friday is for looking back; this skill is worth practicing before next week.",
	{domain.SlotMicroSkill, "", WorkloadHeavy}:                          "A two-minute habit that makes a heavy week easier.",
	{domain.SlotMicroSkill, "", WorkloadAny}:                            "A small skill new {role}s pick up in their first weeks.",

	{domain.SlotSimulator, domain.BucketWednesdaySimulator, WorkloadAny}: "Wednesday practice: a realistic scenario to rehearse as {title}, with nothing at stake.",
	{domain.SlotSimulator, "", WorkloadAny}:                              "A practice scenario for the situations a {title} runs into.",
}

const fallback = "Picked for you as {title}."

func lookup(slot domain.Slot, bucket domain.WeekdayBucket, workload WorkloadBucket) string {
	for _, k := range []key{
		{slot, bucket, workload},
		{slot, bucket, WorkloadAny},
		{slot, "", workload},
		{slot, "", WorkloadAny},
	} {
		if t, ok := templates[k]; ok {
			return t
		}
	}
	return fallback
}

func orDefault(s, def string) string {
	if s = strings.TrimSpace(s); s != "" {
		return s
	}
	return def
}

// Explain returns the card's author explainer verbatim when set. Otherwise it fills the template
// for (slot, weekday bucket, workload bucket) and appends clauses for a repeat showing, the first
// KPI alert and the first pending deadline.
func Explain(card domain.Card, c Context) string {
	if card.Explainer != "" {
		return card.Explainer
	}
	role := strings.ToLower(orDefault(c.Role, "team member"))
	r := strings.NewReplacer("{role}", role, "{title}", orDefault(c.JobTitle, role))

	var b strings.Builder
	b.WriteString(r.Replace(lookup(card.Slot, c.Bucket, WorkloadFor(c.CurrentWorkload))))
	if slices.Contains(c.RecentlySeenCardIDs, card.ID) {
		b.WriteString(" You saw this recently; it is back because it still applies.")
	}
	if len(c.RecentKPIAlerts) > 0 {
		b.WriteString(" It ties into the recent alert on " + c.RecentKPIAlerts[0] + ".")
	}
	if len(c.PendingDeadlines) > 0 {
		b.WriteString(" Keep " + c.PendingDeadlines[0] + " in view.")
	}
	return b.String()
}
