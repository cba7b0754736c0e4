package report

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Target statuses.
const (
	StatusSkipped   = "skipped"
	StatusUnchanged = "unchanged"
	StatusUpdated   = "updated"
)

// Target describes what happened to one general catalog.
type Target struct {
	Path   string   `yaml:"path"`
	Status string   `yaml:"status"`
	Added  []string `yaml:"added,omitempty"`
	Reason string   `yaml:"reason,omitempty"`
}

// Stats holds aggregate counts.
type Stats struct {
	Targets     int `yaml:"targets"`
	Updated     int `yaml:"updated"`
	Unchanged   int `yaml:"unchanged"`
	Skipped     int `yaml:"skipped"`
	ModelsAdded int `yaml:"models_added"`
}

// Report is the YAML summary of a single run, suitable for a CI artifact.
type Report struct {
	GeneratedAt   string   `yaml:"generated_at"`
	Pricing       string   `yaml:"pricing"`
	PricingModels int      `yaml:"pricing_models"`
	DryRun        bool     `yaml:"dry_run"`
	Targets       []Target `yaml:"targets"`
	Stats         Stats    `yaml:"stats"`
}

// New starts a report for the given pricing file.
func New(pricing string, pricingModels int, dryRun bool) *Report {
	return &Report{
		GeneratedAt:   time.Now().UTC().Format(time.RFC3339),
		Pricing:       pricing,
		PricingModels: pricingModels,
		DryRun:        dryRun,
		Targets:       []Target{},
	}
}

// Add records a target outcome and updates the stats.
func (r *Report) Add(t Target) {
	r.Targets = append(r.Targets, t)
	r.Stats.Targets++
	switch t.Status {
	case StatusUpdated:
		r.Stats.Updated++
		r.Stats.ModelsAdded += len(t.Added)
	case StatusUnchanged:
		r.Stats.Unchanged++
	case StatusSkipped:
		r.Stats.Skipped++
	}
}

// Write marshals the report to path with a header comment.
func Write(path string, r *Report) error {
	data, err := yaml.Marshal(r)
	if err != nil {
		return fmt.Errorf("marshaling report: %w", err)
	}

	header := "# pricesync run report\n# Auto-generated - DO NOT EDIT\n\n"
	output := header + string(data)

	if err := os.WriteFile(path, []byte(output), 0o644); err != nil {
		return fmt.Errorf("writing report: %w", err)
	}
	return nil
}
