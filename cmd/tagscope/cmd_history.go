package main

import (
	"fmt"
	"os"
	"sort"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/yairfalse/tagscope/config"
	"github.com/yairfalse/tagscope/storage"
)

var (
	historyRunID       uint64
	historyEnvironment string
)

// historyCmd represents the history command
var historyCmd = &cobra.Command{
	Use:   "history",
	Short: "List recorded scan runs",
	Long: `List the scan runs recorded in the snapshot database, with
per-environment resource counts. With --run and --environment, print
the stored resource snapshot of one environment instead.

Requires snapshot_db to be set in the configuration file.`,
	Example: `  tagscope history                         # List all recorded runs
  tagscope history --run 3 --environment prod  # Show one stored snapshot`,
	RunE: runHistory,
}

func init() {
	rootCmd.AddCommand(historyCmd)

	historyCmd.Flags().Uint64Var(&historyRunID, "run", 0, "Run ID to inspect")
	historyCmd.Flags().StringVarP(&historyEnvironment, "environment", "e", "", "Environment whose snapshot to print")
}

func runHistory(cmd *cobra.Command, args []string) error {
	cfg, err := config.Load(configPath)
	if err != nil {
		return err
	}
	if cfg.SnapshotDB == "" {
		return fmt.Errorf("snapshot_db is not configured, no history to show")
	}

	store, err := storage.Open(cfg.SnapshotDB)
	if err != nil {
		return err
	}
	defer func() { _ = store.Close() }()

	if historyRunID != 0 {
		if historyEnvironment == "" {
			return fmt.Errorf("--run requires --environment")
		}
		return printSnapshot(store, historyRunID, historyEnvironment)
	}

	return printRuns(store)
}

func printRuns(store *storage.Store) error {
	runs, err := store.Runs()
	if err != nil {
		return err
	}
	if len(runs) == 0 {
		fmt.Println("No runs recorded yet.")
		return nil
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "RUN\tTIMESTAMP\tENVIRONMENTS")
	for _, run := range runs {
		fmt.Fprintf(w, "%d\t%s\t%s\n",
			run.ID,
			run.Timestamp.Format("2006-01-02 15:04:05"),
			formatCounts(run.Environments),
		)
	}
	return w.Flush()
}

func printSnapshot(store *storage.Store, runID uint64, environment string) error {
	resources, err := store.Snapshot(runID, environment)
	if err != nil {
		return err
	}

	w := tabwriter.NewWriter(os.Stdout, 0, 4, 2, ' ', 0)
	fmt.Fprintln(w, "ARN\tTYPE\tTAGS")
	for _, resource := range resources {
		fmt.Fprintf(w, "%s\t%s\t%d\n", resource.ARN, resource.Type, len(resource.Tags))
	}
	return w.Flush()
}

// formatCounts renders environment counts as "dev=12, prod=40" in name order.
func formatCounts(counts map[string]int) string {
	names := make([]string, 0, len(counts))
	for name := range counts {
		names = append(names, name)
	}
	sort.Strings(names)

	parts := make([]string, 0, len(names))
	for _, name := range names {
		parts = append(parts, fmt.Sprintf("%s=%d", name, counts[name]))
	}
	return strings.Join(parts, ", ")
}
