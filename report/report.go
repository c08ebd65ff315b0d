// Package report writes the CSV outputs of a scan run.
//
// All outputs are byte-reproducible given identical inputs: column order,
// row order, the joined-set formats and the N/A sentinel are part of the
// contract, not incidental.
package report

import (
	"context"
	"encoding/csv"
	"fmt"
	"os"
	"path/filepath"
	"sort"
	"strconv"
	"strings"

	"github.com/yairfalse/tagscope/filter"
	"github.com/yairfalse/tagscope/matrix"
	"github.com/yairfalse/tagscope/summary"
	"github.com/yairfalse/tagscope/telemetry"
)

// Writer emits CSV reports into one output directory.
type Writer struct {
	dir    string
	logger *telemetry.Logger
}

// NewWriter creates a Writer rooted at dir. The directory must exist.
func NewWriter(dir string, logger *telemetry.Logger) *Writer {
	return &Writer{dir: dir, logger: logger}
}

// Dir returns the output directory.
func (w *Writer) Dir() string { return w.dir }

// WriteEnvironment writes the full per-environment matrix to <env>_tags.csv.
func (w *Writer) WriteEnvironment(ctx context.Context, environment string, table matrix.Table) (string, error) {
	return w.writeTable(ctx, environment+"_tags.csv", table)
}

// WriteEnvironmentFocused writes the focused per-environment matrix to
// <env>_focused_tags.csv.
func (w *Writer) WriteEnvironmentFocused(ctx context.Context, environment string, table matrix.Table) (string, error) {
	return w.writeTable(ctx, environment+"_focused_tags.csv", table)
}

// WriteSummary writes summary_tags.csv: one row per tag key, a yes/no
// presence column per environment, and the sorted value union joined
// with "; ".
func (w *Writer) WriteSummary(ctx context.Context, environments []string, rows []summary.Row) (string, error) {
	header := make([]string, 0, len(environments)+2)
	header = append(header, "Tag Key")
	header = append(header, environments...)
	header = append(header, "Possible Values")

	table := matrix.Table{Header: header}
	for _, row := range rows {
		record := make([]string, 0, len(header))
		record = append(record, row.TagKey)
		for _, env := range environments {
			record = append(record, presenceWord(row.Presence[env]))
		}
		record = append(record, strings.Join(row.Values, "; "))
		table.Rows = append(table.Rows, record)
	}

	return w.writeTable(ctx, "summary_tags.csv", table)
}

// WriteCoverage writes focused_summary_tags.csv: per-environment counts of
// resources with and without focus tags, alongside the rule sets that
// produced them.
func (w *Writer) WriteCoverage(ctx context.Context, rows []summary.CoverageRow, rule *filter.Rule) (string, error) {
	table := matrix.Table{Header: []string{
		"Environment",
		"Focused Tag Key",
		"Focused Tag Value",
		"Excluded Tag Key",
		"Excluded Tag Value",
		"Total Resources",
		"Resources with Focused Tags",
		"Resources Missing Focused Tags",
	}}

	includeKeys := joinedSet(rule.IncludeKeys)
	includeValues := joinedSet(rule.IncludeValues)
	excludeKeys := joinedSet(rule.ExcludeKeys)
	excludeValues := joinedSet(rule.ExcludeValues)

	for _, row := range rows {
		table.Rows = append(table.Rows, []string{
			row.Environment,
			includeKeys,
			includeValues,
			excludeKeys,
			excludeValues,
			strconv.Itoa(row.Total),
			strconv.Itoa(row.Matching),
			strconv.Itoa(row.Missing),
		})
	}

	return w.writeTable(ctx, "focused_summary_tags.csv", table)
}

// writeTable writes one CSV file atomically enough for a one-shot CLI:
// create, write header then rows, flush, close.
func (w *Writer) writeTable(ctx context.Context, name string, table matrix.Table) (string, error) {
	path := filepath.Join(w.dir, name)

	file, err := os.Create(path) // #nosec G304 -- path is under the configured output dir
	if err != nil {
		return "", fmt.Errorf("create %s: %w", name, err)
	}

	writer := csv.NewWriter(file)
	if err := writer.Write(table.Header); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("write %s header: %w", name, err)
	}
	for _, row := range table.Rows {
		if err := writer.Write(row); err != nil {
			_ = file.Close()
			return "", fmt.Errorf("write %s row: %w", name, err)
		}
	}
	writer.Flush()
	if err := writer.Error(); err != nil {
		_ = file.Close()
		return "", fmt.Errorf("flush %s: %w", name, err)
	}
	if err := file.Close(); err != nil {
		return "", fmt.Errorf("close %s: %w", name, err)
	}

	telemetry.ReportsWritten.Add(ctx, 1)
	w.logger.LogReportWritten(ctx, path, len(table.Rows))
	return path, nil
}

func presenceWord(present bool) string {
	if present {
		return "yes"
	}
	return "no"
}

// joinedSet renders a rule set as a stable ", "-joined list.
func joinedSet(values []string) string {
	sorted := make([]string, len(values))
	copy(sorted, values)
	sort.Strings(sorted)
	return strings.Join(sorted, ", ")
}
