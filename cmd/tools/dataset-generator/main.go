// cmd/tools/dataset-generator/main.go
package main

import (
	"flag"
	"fmt"
	"os"

	"outfit-workers/internal/common/config"
	"outfit-workers/internal/stylist/catalog"
	"outfit-workers/internal/stylist/dataset"
	"outfit-workers/pkg/registry"
)

func main() {
	cfg, err := config.Load()
	if err != nil {
		fmt.Printf("Error loading config: %v\n", err)
		os.Exit(1)
	}

	samples := flag.Int("samples", cfg.Model.Samples, "Number of rows to generate")
	seed := flag.Int64("seed", cfg.Model.Seed, "Random seed (0 draws a time-based seed)")
	out := flag.String("out", cfg.Model.CorpusPath, "Output CSV path")
	rulesPath := flag.String("rules", cfg.Model.RulesPath, "Optional JSON rule table (default: built-in rules)")
	dumpRules := flag.String("dump-rules", "", "Write the active rule table as JSON to this path and exit")
	flag.Parse()

	rules := catalog.DefaultRules()
	if *rulesPath != "" {
		rules, err = registry.LoadRuleTable(*rulesPath)
		if err != nil {
			fmt.Printf("Error loading rules: %v\n", err)
			os.Exit(1)
		}
	}

	if *dumpRules != "" {
		if err := registry.SaveRegistry(*dumpRules, registry.FromRuleTable(rules, "1.0.0")); err != nil {
			fmt.Printf("Error writing rules: %v\n", err)
			os.Exit(1)
		}
		fmt.Printf("Wrote %d rules to %s\n", len(rules), *dumpRules)
		return
	}

	gen := dataset.NewGenerator(rules, nil)
	if *seed != 0 {
		gen = dataset.NewSeededGenerator(rules, *seed)
	}
	corpus, err := gen.Generate(*samples)
	if err != nil {
		fmt.Printf("Error generating dataset: %v\n", err)
		os.Exit(1)
	}

	if err := dataset.SaveFile(*out, corpus); err != nil {
		fmt.Printf("Error saving dataset: %v\n", err)
		os.Exit(1)
	}
	fmt.Printf("Dataset created: %d rows -> %s\n", len(corpus), *out)
}
