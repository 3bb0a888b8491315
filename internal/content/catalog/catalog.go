// Package catalog loads the static content catalog from YAML. The default catalog is embedded in
// the binary; CATALOG_PATH points at an override file.
package catalog

import (
	"bytes"
	_ "embed"
	"errors"
	"fmt"
	"os"
	"strings"

	"gopkg.in/yaml.v3"

	"onboardflow/internal/content/domain"
)

//go:embed default_catalog.yaml
var defaultCatalog []byte

// Default returns the embedded catalog.
func Default() (*domain.Catalog, error) {
	return Parse(defaultCatalog)
}

// Load reads the catalog at path, or the embedded default when path is empty.
func Load(path string) (*domain.Catalog, error) {
	if strings.TrimSpace(path) == "" {
		return Default()
	}
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("catalog: read %s: %w", path, err)
	}
	c, err := Parse(data)
	if err != nil {
		return nil, fmt.Errorf("catalog: %s: %w", path, err)
	}
	return c, nil
}

// Parse decodes and validates a YAML catalog. Unknown fields are rejected.
func Parse(data []byte) (*domain.Catalog, error) {
	var c domain.Catalog
	dec := yaml.NewDecoder(bytes.NewReader(data))
	dec.KnownFields(true)
	if err := dec.Decode(&c); err != nil {
		return nil, fmt.Errorf("catalog: decode: %w", err)
	}
	if err := Validate(&c); err != nil {
		return nil, err
	}
	return &c, nil
}

// Validate checks ids are unique and every enum value is known.
func Validate(c *domain.Catalog) error {
	var errs []error
	seen := make(map[string]bool, len(c.Cards))
	for i, card := range c.Cards {
		if strings.TrimSpace(card.ID) == "" {
			errs = append(errs, fmt.Errorf("card %d: id is required", i))
			continue
		}
		if seen[card.ID] {
			errs = append(errs, fmt.Errorf("card %s: duplicate id", card.ID))
		}
		seen[card.ID] = true
		if !card.Slot.Valid() {
			errs = append(errs, fmt.Errorf("card %s: unknown slot %q", card.ID, card.Slot))
		}
	}
	tpl := make(map[string]bool, len(c.PreboardingTemplates))
	for i, it := range c.PreboardingTemplates {
		if strings.TrimSpace(it.ID) == "" {
			errs = append(errs, fmt.Errorf("preboarding template %d: id is required", i))
			continue
		}
		if tpl[it.ID] {
			errs = append(errs, fmt.Errorf("preboarding template %s: duplicate id", it.ID))
		}
		tpl[it.ID] = true
		if !it.Category.Valid() {
			errs = append(errs, fmt.Errorf("preboarding template %s: unknown category %q", it.ID, it.Category))
		}
		if it.Status != "" && !it.Status.Valid() {
			errs = append(errs, fmt.Errorf("preboarding template %s: unknown status %q", it.ID, it.Status))
		}
	}
	if c.ActiveSimulator != "" {
		if _, ok := c.Simulator(); !ok {
			errs = append(errs, fmt.Errorf("active simulator %q is not defined", c.ActiveSimulator))
		}
	}
	return errors.Join(errs...)
}
