// pkg/registry/registry.go
package registry

import (
	"encoding/json"
	"fmt"
	"os"
	"slices"
	"strings"
	"time"

	"outfit-workers/internal/stylist/catalog"
)

func LoadRegistry(path string) (*RuleRegistry, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, err
	}
	var reg RuleRegistry
	if err := json.Unmarshal(data, &reg); err != nil {
		return nil, fmt.Errorf("failed to parse rule registry %s: %w", path, err)
	}
	return &reg, nil
}

// LoadRuleTable reads path and returns its validated rule table.
func LoadRuleTable(path string) (catalog.RuleTable, error) {
	reg, err := LoadRegistry(path)
	if err != nil {
		return nil, err
	}
	return reg.RuleTable()
}

// RuleTable converts the registry, rejecting unknown categories, duplicate
// pairs and blank outfits, and requiring every weather × occasion pair.
func (r *RuleRegistry) RuleTable() (catalog.RuleTable, error) {
	table := make(catalog.RuleTable, len(r.Rules))
	for i, rule := range r.Rules {
		if !slices.Contains(catalog.Weathers, rule.Weather) {
			return nil, fmt.Errorf("rule %d: unknown weather %q", i, rule.Weather)
		}
		if !slices.Contains(catalog.Occasions, rule.Occasion) {
			return nil, fmt.Errorf("rule %d: unknown occasion %q", i, rule.Occasion)
		}
		key := catalog.Key{Weather: rule.Weather, Occasion: rule.Occasion}
		if _, dup := table[key]; dup {
			return nil, fmt.Errorf("rule %d: duplicate entry for %s", i, key)
		}

		outfits := make([]string, 0, len(rule.Outfits))
		for _, o := range rule.Outfits {
			o = strings.TrimSpace(o)
			if o == "" {
				return nil, fmt.Errorf("rule %d: blank outfit for %s", i, key)
			}
			outfits = append(outfits, o)
		}
		table[key] = outfits
	}

	if err := table.Validate(catalog.Weathers, catalog.Occasions); err != nil {
		return nil, err
	}
	return table, nil
}

// FromRuleTable lists table in vocabulary order.
func FromRuleTable(table catalog.RuleTable, version string) *RuleRegistry {
	reg := &RuleRegistry{
		Version:     version,
		LastUpdated: time.Now().UTC().Format(time.RFC3339),
	}
	for _, w := range catalog.Weathers {
		for _, o := range catalog.Occasions {
			outfits, ok := table[catalog.Key{Weather: w, Occasion: o}]
			if !ok {
				continue
			}
			reg.Rules = append(reg.Rules, Rule{
				Weather:  w,
				Occasion: o,
				Outfits:  append([]string(nil), outfits...),
			})
		}
	}
	return reg
}

func SaveRegistry(path string, reg *RuleRegistry) error {
	data, err := json.MarshalIndent(reg, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
