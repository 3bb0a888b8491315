package catalog

import (
	"os"
	"path/filepath"
	"strings"
	"testing"

	"onboardflow/internal/content/domain"
)

func TestDefault_IsValid(t *testing.T) {
	c, err := Default()
	if err != nil {
		t.Fatalf("Default: %v", err)
	}
	if len(c.Cards) == 0 || len(c.PreboardingTemplates) == 0 {
		t.Fatalf("default catalog is empty: %d cards, %d templates", len(c.Cards), len(c.PreboardingTemplates))
	}
	sim, ok := c.Simulator()
	if !ok || sim.ID != "incident-triage" {
		t.Errorf("active simulator = %+v, %v", sim, ok)
	}
	var untargeted int
	for _, card := range c.Cards {
		if !card.Targeted() {
			untargeted++
		}
	}
	if untargeted < 3 {
		t.Errorf("default catalog needs at least 3 generic cards for backfill, has %d", untargeted)
	}
}

func TestLoad_EmptyPathUsesDefault(t *testing.T) {
	c, err := Load("  ")
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if _, ok := c.Card("generic-company-story"); !ok {
		t.Error("default catalog card missing")
	}
}

func TestLoad_File(t *testing.T) {
	path := filepath.Join(t.TempDir(), "catalog.yaml")
	data := `
cards:
  - id: only
    slot: MICRO_SKILL
    title: Only card
`
	if err := os.WriteFile(path, []byte(data), 0o600); err != nil {
		t.Fatalf("write: %v", err)
	}
	c, err := Load(path)
	if err != nil {
		t.Fatalf("Load: %v", err)
	}
	if len(c.Cards) != 1 || c.Cards[0].Slot != domain.SlotMicroSkill {
		t.Errorf("cards = %+v", c.Cards)
	}
	if _, ok := c.Simulator(); ok {
		t.Error("no active simulator expected")
	}
}

func TestLoad_MissingFile(t *testing.T) {
	if _, err := Load(filepath.Join(t.TempDir(), "nope.yaml")); err == nil {
		t.Fatal("missing file should fail")
	}
}

func TestParse_Invalid(t *testing.T) {
	testCases := []struct {
		name    string
		yaml    string
		wantErr string
	}{
		{"unknown field", "cards:\n  - id: a\n    slot: MICRO_SKILL\n    colour: red\n", "colour"},
		{"duplicate id", "cards:\n  - {id: a, slot: MICRO_SKILL}\n  - {id: a, slot: DOMAIN_EDGE}\n", "duplicate id"},
		{"bad slot", "cards:\n  - {id: a, slot: POSTER}\n", "unknown slot"},
		{"missing id", "cards:\n  - {slot: MICRO_SKILL}\n", "id is required"},
		{"bad category", "preboarding_templates:\n  - {id: x, category: SNACKS}\n", "unknown category"},
		{"bad status", "preboarding_templates:\n  - {id: x, category: TEAM, status: DONE}\n", "unknown status"},
		{"undefined simulator", "active_simulator: ghost\n", "not defined"},
	}
	for _, tc := range testCases {
		t.Run(tc.name, func(t *testing.T) {
			_, err := Parse([]byte(tc.yaml))
			if err == nil {
				t.Fatal("Parse should fail")
			}
			if !strings.Contains(err.Error(), tc.wantErr) {
				t.Errorf("error = %v, want it to mention %q", err, tc.wantErr)
			}
		})
	}
}
