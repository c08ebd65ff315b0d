// Package summary merges per-environment resource sets into
// cross-environment comparison views.
package summary

import (
	"sort"

	"github.com/google/btree"

	"github.com/yairfalse/tagscope/filter"
	"github.com/yairfalse/tagscope/types"
)

// Row records one tag key's presence across environments plus the
// de-duplicated union of every value observed for it anywhere.
type Row struct {
	TagKey   string
	Presence map[string]bool
	Values   []string
}

// CoverageRow counts focus-tag coverage for one environment.
// Matching + Missing always equals Total.
type CoverageRow struct {
	Environment string
	Total       int
	Matching    int
	Missing     int
}

// Build scans every environment's resource set and emits one row per
// distinct tag key, ordered by key. The btree index keeps keys sorted while
// the per-key state grows incrementally; it never shrinks during a scan.
func Build(environments []string, data map[string][]types.Resource) []Row {
	index := btree.NewG(2, func(a, b string) bool { return a < b })
	presence := make(map[string]map[string]bool)
	values := make(map[string]map[string]struct{})

	for _, env := range environments {
		for _, resource := range data[env] {
			for _, tag := range resource.Tags {
				if _, ok := presence[tag.Key]; !ok {
					presence[tag.Key] = make(map[string]bool)
					values[tag.Key] = make(map[string]struct{})
					index.ReplaceOrInsert(tag.Key)
				}
				presence[tag.Key][env] = true
				values[tag.Key][tag.Value] = struct{}{}
			}
		}
	}

	rows := make([]Row, 0, index.Len())
	index.Ascend(func(key string) bool {
		rows = append(rows, Row{
			TagKey:   key,
			Presence: presence[key],
			Values:   sortedSet(values[key]),
		})
		return true
	})
	return rows
}

// BuildCoverage counts, per environment, resources carrying at least one
// focus tag versus resources missing one. Counting uses the rule's focus
// predicate only; row-level value exclusion from focused projections does
// not apply here.
func BuildCoverage(environments []string, data map[string][]types.Resource, rule *filter.Rule) []CoverageRow {
	rows := make([]CoverageRow, 0, len(environments))
	for _, env := range environments {
		row := CoverageRow{Environment: env, Total: len(data[env])}
		for _, resource := range data[env] {
			if rule.HasFocusTag(resource) {
				row.Matching++
			} else {
				row.Missing++
			}
		}
		rows = append(rows, row)
	}
	return rows
}

func sortedSet(set map[string]struct{}) []string {
	out := make([]string, 0, len(set))
	for value := range set {
		out = append(out, value)
	}
	sort.Strings(out)
	return out
}
