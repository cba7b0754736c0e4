package main

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"

	"github.com/spf13/cobra"

	"github.com/everstacklabs/pricesync/internal/config"
	"github.com/everstacklabs/pricesync/internal/pipeline"
)

const usage = "Usage: pricesync <pricing-file> [general-file]"

var errUsage = errors.New(usage)

type app struct {
	stdout   io.Writer
	stderr   io.Writer
	cfgFile  string
	exitCode int
}

func main() {
	os.Exit(run(os.Args[1:], os.Stdout, os.Stderr))
}

// run executes the CLI and returns the process exit code.
func run(args []string, stdout, stderr io.Writer) int {
	a := &app{stdout: stdout, stderr: stderr}

	// cobra falls back to os.Args when given nil.
	if args == nil {
		args = []string{}
	}

	cmd := a.rootCmd()
	cmd.SetArgs(args)
	cmd.SetOut(stdout)
	cmd.SetErr(stderr)

	if err := cmd.Execute(); err != nil {
		switch {
		case errors.Is(err, errUsage):
			fmt.Fprintln(stderr, usage)
		case errors.Is(err, pipeline.ErrPricingNotFound):
			// Already reported as an annotation.
		default:
			fmt.Fprintf(stderr, "Error: %v\n", err)
		}
		return pipeline.ExitFailure
	}

	return a.exitCode
}

func (a *app) rootCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "pricesync <pricing-file> [general-file]",
		Short: "Add priced models missing from the general catalog",
		Long: `Adds a minimal configuration stub to the general catalog for every model
listed in the pricing catalog but not yet configured.

Without a general-file argument the target is general/<pricing file name>;
pricing/openai.json feeds both general/openai.json and general/open-ai.json.`,
		Args: func(cmd *cobra.Command, args []string) error {
			if len(args) < 1 || len(args) > 2 {
				return errUsage
			}
			return nil
		},
		SilenceUsage:  true,
		SilenceErrors: true,
		RunE:          a.runSync,
	}

	cmd.PersistentFlags().StringVar(&a.cfgFile, "config", "", "config file (default: ./.pricesync.yaml)")
	cmd.Flags().String("general-dir", "general", "Directory holding general catalogs")
	cmd.Flags().Bool("dry-run", false, "Show what would be added without writing")
	cmd.Flags().Bool("check", false, "Dry run that exits 2 when models are missing")
	cmd.Flags().Bool("diff", false, "Print a unified diff for every changed file")
	cmd.Flags().String("report", "", "Write a YAML run report to this path")
	cmd.Flags().String("log-level", "warn", "Log level (debug, info, warn, error)")

	return cmd
}

func (a *app) runSync(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(a.cfgFile, cmd.Flags())
	if err != nil {
		return fmt.Errorf("loading config: %w", err)
	}

	setupLogging(a.stderr, cfg.LogLevel)

	var generalPath string
	if len(args) > 1 {
		generalPath = args[1]
	}

	p := pipeline.New(cfg, pipeline.WithOutput(a.stdout, a.stderr))
	results, err := p.Run(args[0], generalPath)
	if err != nil {
		return err
	}

	for _, r := range results {
		switch r.Status {
		case pipeline.StatusSkipped:
			slog.Info("target skipped", "target", r.Target, "reason", r.SkipReason)
		case pipeline.StatusUpdated:
			slog.Info("target updated", "target", r.Target, "added", len(r.Added), "dry_run", cfg.DryRun)
		default:
			slog.Info("target up to date", "target", r.Target)
		}
	}

	if cfg.Check && pipeline.AnyUpdated(results) {
		a.exitCode = pipeline.ExitChanges
	}
	return nil
}
