// Package matrix projects sparse resource tag sets into dense tabular rows.
package matrix

import (
	"slices"
	"sort"

	"github.com/yairfalse/tagscope/types"
)

// Sentinel marks "tag key not present on this resource" in dense output.
const Sentinel = "N/A"

// Table is a dense projection ready for CSV writing.
type Table struct {
	Header []string
	Rows   [][]string
}

// Project renders the full matrix: one column per distinct tag key seen
// across the input, sorted lexicographically so output is reproducible byte
// for byte. Two passes: collect the key universe, then emit rows.
func Project(resources []types.Resource) Table {
	keys := tagKeyUniverse(resources)

	header := make([]string, 0, 2+len(keys))
	header = append(header, "Resource ARN", "Resource Type")
	header = append(header, keys...)

	rows := make([][]string, 0, len(resources))
	for _, resource := range resources {
		row := make([]string, 0, len(header))
		row = append(row, resource.ARN, resource.Type)
		for _, key := range keys {
			row = append(row, resolveValue(resource, key))
		}
		rows = append(rows, row)
	}

	return Table{Header: header, Rows: rows}
}

// ProjectFocused renders a single value column for one focus key. A resource
// whose resolved value falls in excludeValues is omitted entirely; this is a
// row-level filter, so it changes row counts, not just cell contents.
func ProjectFocused(resources []types.Resource, focusKey string, excludeValues []string) Table {
	header := []string{"Resource ARN", "Resource Type", focusKey}

	var rows [][]string
	for _, resource := range resources {
		value := resolveValue(resource, focusKey)
		if slices.Contains(excludeValues, value) {
			continue
		}
		rows = append(rows, []string{resource.ARN, resource.Type, value})
	}

	return Table{Header: header, Rows: rows}
}

// tagKeyUniverse collects every distinct tag key in the input, sorted.
func tagKeyUniverse(resources []types.Resource) []string {
	seen := make(map[string]struct{})
	var keys []string
	for _, resource := range resources {
		for _, tag := range resource.Tags {
			if _, ok := seen[tag.Key]; ok {
				continue
			}
			seen[tag.Key] = struct{}{}
			keys = append(keys, tag.Key)
		}
	}
	sort.Strings(keys)
	return keys
}

// resolveValue scans a resource's tags for the key; first match wins when a
// key appears more than once, absence yields the sentinel.
func resolveValue(resource types.Resource, key string) string {
	if value, ok := resource.TagValue(key); ok {
		return value
	}
	return Sentinel
}
