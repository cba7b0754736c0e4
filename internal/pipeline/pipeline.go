package pipeline

import (
	"errors"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"

	"github.com/sethvargo/go-githubactions"

	"github.com/everstacklabs/pricesync/internal/catalog"
	"github.com/everstacklabs/pricesync/internal/config"
	"github.com/everstacklabs/pricesync/internal/diff"
	"github.com/everstacklabs/pricesync/internal/report"
)

// ExitCode constants for CLI.
const (
	ExitSuccess = 0
	ExitFailure = 1
	ExitChanges = 2 // Missing models found (check mode)
)

// ErrPricingNotFound is returned when the pricing file does not exist.
var ErrPricingNotFound = errors.New("pricing file not found")

// Status is the outcome for a single target file.
type Status string

const (
	StatusSkipped   Status = report.StatusSkipped
	StatusUnchanged Status = report.StatusUnchanged
	StatusUpdated   Status = report.StatusUpdated
)

// Result holds the outcome of reconciling one general catalog.
type Result struct {
	Target     string
	Status     Status
	Added      []string
	SkipReason string
}

// AnyUpdated reports whether at least one target gained models.
func AnyUpdated(results []Result) bool {
	for _, r := range results {
		if r.Status == StatusUpdated {
			return true
		}
	}
	return false
}

// Pipeline reconciles one pricing catalog against its general catalogs.
type Pipeline struct {
	cfg    *config.Config
	out    io.Writer
	errOut io.Writer

	// Workflow commands for GitHub Actions: notices go to out, errors to errOut.
	notices  *githubactions.Action
	failures *githubactions.Action
}

// Option configures the Pipeline.
type Option func(*Pipeline)

// WithOutput redirects the user-facing output. Defaults are stdout and stderr.
func WithOutput(out, errOut io.Writer) Option {
	return func(p *Pipeline) {
		p.out = out
		p.errOut = errOut
	}
}

// New creates a new Pipeline.
func New(cfg *config.Config, opts ...Option) *Pipeline {
	p := &Pipeline{cfg: cfg, out: os.Stdout, errOut: os.Stderr}
	for _, opt := range opts {
		opt(p)
	}
	p.notices = githubactions.New(githubactions.WithWriter(p.out))
	p.failures = githubactions.New(githubactions.WithWriter(p.errOut))
	return p
}

// Run reconciles pricingPath against generalPath, or against the targets
// inferred from pricingPath when generalPath is empty.
//
// A missing pricing file stops the run with ErrPricingNotFound. Missing
// general files are skipped. Any read, parse or write error aborts the run
// and is returned together with the results gathered so far.
func (p *Pipeline) Run(pricingPath, generalPath string) ([]Result, error) {
	if _, err := os.Stat(pricingPath); err != nil {
		if errors.Is(err, fs.ErrNotExist) {
			p.failures.WithFieldsMap(map[string]string{"file": pricingPath}).Errorf("Pricing file not found")
			return nil, fmt.Errorf("%w: %s", ErrPricingNotFound, pricingPath)
		}
		return nil, fmt.Errorf("checking pricing file: %w", err)
	}

	targets := ResolveTargets(pricingPath, generalPath, p.cfg.GeneralDir, p.cfg.Aliases)

	pricing, err := catalog.Load(pricingPath)
	if err != nil {
		return nil, fmt.Errorf("loading pricing catalog: %w", err)
	}
	pricingKeys := pricing.Keys()

	slog.Info("pricing catalog loaded",
		"path", pricingPath,
		"models", len(pricingKeys),
		"targets", len(targets))

	rep := report.New(pricingPath, len(pricingKeys), p.cfg.DryRun)

	var results []Result
	for _, target := range targets {
		result, err := p.syncTarget(target, pricingKeys)
		if err != nil {
			return results, err
		}
		results = append(results, result)
		rep.Add(report.Target{
			Path:   result.Target,
			Status: string(result.Status),
			Added:  result.Added,
			Reason: result.SkipReason,
		})
	}

	if p.cfg.ReportPath != "" {
		if err := report.Write(p.cfg.ReportPath, rep); err != nil {
			return results, err
		}
		slog.Info("report written", "path", p.cfg.ReportPath)
	}

	return results, nil
}

func (p *Pipeline) syncTarget(target string, pricingKeys []string) (Result, error) {
	result := Result{Target: target}

	before, err := os.ReadFile(target)
	if errors.Is(err, fs.ErrNotExist) {
		p.notices.Noticef("No general file at %s, skipping", target)
		result.Status = StatusSkipped
		result.SkipReason = "file not found"
		return result, nil
	} else if err != nil {
		return result, fmt.Errorf("reading %s: %w", target, err)
	}

	general, err := catalog.Parse(before)
	if err != nil {
		return result, fmt.Errorf("parsing %s: %w", target, err)
	}

	cs, err := diff.Compute(target, pricingKeys, general)
	if err != nil {
		return result, err
	}

	slog.Debug("general catalog reconciled",
		"target", target,
		"present", cs.Present,
		"missing", len(cs.Missing))

	if !cs.HasChanges() {
		fmt.Fprint(p.out, diff.RenderSummary(cs, p.cfg.DryRun))
		result.Status = StatusUnchanged
		return result, nil
	}

	if p.cfg.DryRun {
		slog.Info("dry run, not writing", "target", target, "models", len(cs.Missing))
	} else if err := catalog.Write(target, cs.Catalog); err != nil {
		return result, err
	}

	fmt.Fprint(p.out, diff.RenderSummary(cs, p.cfg.DryRun))

	if p.cfg.ShowDiff {
		after, err := cs.Catalog.Encode()
		if err != nil {
			return result, err
		}
		ud, err := diff.RenderUnified(target, before, after)
		if err != nil {
			return result, err
		}
		fmt.Fprint(p.out, ud)
	}

	result.Status = StatusUpdated
	result.Added = cs.Missing
	return result, nil
}
