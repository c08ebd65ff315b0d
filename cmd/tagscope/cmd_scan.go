package main

import (
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/yairfalse/tagscope/config"
	"github.com/yairfalse/tagscope/credentials"
	"github.com/yairfalse/tagscope/filter"
	"github.com/yairfalse/tagscope/orchestrator"
	"github.com/yairfalse/tagscope/report"
	"github.com/yairfalse/tagscope/storage"
	"github.com/yairfalse/tagscope/telemetry"
)

var (
	scanInputDir  string
	scanOutputDir string
	scanFocusFile string
)

// scanCmd represents the scan command
var scanCmd = &cobra.Command{
	Use:   "scan",
	Short: "Scan every environment and write tag reports",
	Long: `Scan the tagged resources of every environment whose credential
bundle lives in the input directory, then write:
- <env>_tags.csv: the full tag matrix per environment
- <env>_focused_tags.csv: the focused matrix, when a rule is configured
- summary_tags.csv: tag keys, per-environment presence, value unions
- focused_summary_tags.csv: coverage counts for the focused tags

Environments are scanned one at a time in credential-file order. A
failure in any environment aborts the run; nothing partial is reported
as complete.`,
	Example: `  tagscope scan                          # Use tagscope.yaml in the cwd
  tagscope scan -c /etc/tagscope.yaml    # Explicit config file
  tagscope scan --focus rules.yaml       # Override the filter rule file
  tagscope scan --output /tmp/reports    # Override the report directory`,
	RunE: runScan,
}

func init() {
	rootCmd.AddCommand(scanCmd)

	scanCmd.Flags().StringVarP(&scanInputDir, "input", "i", "", "Directory of credential bundles (overrides config)")
	scanCmd.Flags().StringVarP(&scanOutputDir, "output", "o", "", "Directory for CSV reports (overrides config)")
	scanCmd.Flags().StringVarP(&scanFocusFile, "focus", "f", "", "YAML filter rule file (overrides config)")
}

func runScan(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	applyScanOverrides(cfg)

	if err := cfg.EnsurePaths(); err != nil {
		return err
	}

	logger := telemetry.NewLogger("tagscope")
	logger.SetLevel(cfg.LogLevel)

	ctx, cancel := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer cancel()

	shutdown := initTelemetry(ctx, logger)
	defer shutdown()

	creds, err := credentials.Discover(cfg.InputDir)
	if err != nil {
		return err
	}

	var rule *filter.Rule
	if cfg.FocusFile != "" {
		rule, err = filter.Load(cfg.FocusFile)
		if err != nil {
			return err
		}
	}

	var store *storage.Store
	if cfg.SnapshotDB != "" {
		store, err = storage.Open(cfg.SnapshotDB)
		if err != nil {
			return err
		}
		defer func() { _ = store.Close() }()
	}

	orch := orchestrator.New(orchestrator.Config{
		Credentials: creds,
		Rule:        rule,
		Writer:      report.NewWriter(cfg.OutputDir, logger),
		Store:       store,
		MaxRetries:  cfg.MaxRetries,
		Logger:      logger,
	})

	if err := orch.Run(ctx); err != nil {
		return err
	}

	fmt.Fprintf(os.Stdout, "Scanned %d environments, reports written to %s\n", len(creds), cfg.OutputDir)
	return nil
}

func applyScanOverrides(cfg *config.Config) {
	if scanInputDir != "" {
		cfg.InputDir = scanInputDir
	}
	if scanOutputDir != "" {
		cfg.OutputDir = scanOutputDir
	}
	if scanFocusFile != "" {
		cfg.FocusFile = scanFocusFile
	}
}
