// Package roster loads a manager's team from YAML. A demo roster is embedded for seeding and the
// operator CLI.
package roster

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"onboardflow/internal/team/domain"
)

//go:embed demo_roster.yaml
var demoRoster []byte

// Roster is one manager's team.
type Roster struct {
	ManagerID string          `yaml:"manager_id"`
	Members   []domain.Member `yaml:"members"`
}

// Demo returns the embedded demo roster.
func Demo() (*Roster, error) {
	return Parse(demoRoster)
}

// Load reads the roster at path, or the demo roster when path is empty.
func Load(path string) (*Roster, error) {
	if strings.TrimSpace(path) == "" {
		return Demo()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("roster: read %s: %w", path, err)
	}
	r, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("roster: %s: %w", path, err)
	}
	return r, nil
}

// Parse decodes and validates a YAML roster. Members without a manager inherit the roster's.
func Parse(data []byte) (*Roster, error) {
	var r Roster
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&r); err != nil {
		return nil, fmt.Errorf("roster: decode: %w", err)
	}
	r.ManagerID = strings.TrimSpace(r.ManagerID)
	for i := range r.Members {
		if r.Members[i].ManagerID == "" {
			r.Members[i].ManagerID = r.ManagerID
		}
	}
	if err := validate(&r); err != nil {
		return nil, err
	}
	return &r, nil
}

func inRange(v, max float64) bool { return v >= 0 && v <= max }

func validate(r *Roster) error {
	var errs []error
	if r.ManagerID == "" {
		errs = append(errs, errors.New("manager_id is required"))
	}
	seen := make(map[string]bool, len(r.Members))
	for i, m := range r.Members {
		switch {
		case strings.TrimSpace(m.ID) == "":
			errs = append(errs, fmt.Errorf("members[%d]: id is required", i))
			continue
		case seen[m.ID]:
			errs = append(errs, fmt.Errorf("members[%d]: duplicate id %q", i, m.ID))
		}
		seen[m.ID] = true
		if !inRange(m.BurnoutScore, 100) {
			errs = append(errs, fmt.Errorf("member %s: burnout_score must be between 0 and 100", m.ID))
		}
		if !inRange(m.CurrentLoad, domain.MaxLoad) {
			errs = append(errs, fmt.Errorf("member %s: current_load must be between 0 and %d", m.ID, domain.MaxLoad))
		}
		for skill, v := range m.SkillScores {
			if !inRange(v, 100) {
				errs = append(errs, fmt.Errorf("member %s: skill %s must be between 0 and 100", m.ID, skill))
			}
		}
	}
	return errors.Join(errs...)
}
