// pkg/registry/schema.go
package registry

// RuleRegistry is the on-disk form of an outfit rule table.
type RuleRegistry struct {
	Version     string `json:"version"`
	LastUpdated string `json:"lastUpdated"`
	Rules       []Rule `json:"rules"`
}

type Rule struct {
	Weather  string   `json:"weather"`
	Occasion string   `json:"occasion"`
	Outfits  []string `json:"outfits"`
}
