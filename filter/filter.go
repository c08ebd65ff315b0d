// Package filter applies declarative tag rules to resource sets.
package filter

import (
	"fmt"
	"os"
	"slices"

	"gopkg.in/yaml.v3"

	"github.com/yairfalse/tagscope/types"
)

// Rule is the declarative include/exclude document loaded from YAML.
// Empty include sets mean no restriction; exclude sets always apply,
// so a key or value listed on both sides is excluded.
type Rule struct {
	IncludeKeys   []string `yaml:"include_keys"`
	ExcludeKeys   []string `yaml:"exclude_keys"`
	IncludeValues []string `yaml:"include_values"`
	ExcludeValues []string `yaml:"exclude_values"`
}

// Load reads a rule document from a YAML file.
func Load(path string) (*Rule, error) {
	data, err := os.ReadFile(path) // #nosec G304 -- path is intentional user input
	if err != nil {
		return nil, fmt.Errorf("read rule file: %w", err)
	}

	rule := &Rule{}
	if err := yaml.Unmarshal(data, rule); err != nil {
		return nil, fmt.Errorf("parse rule file: %w", err)
	}

	return rule, nil
}

// IsEmpty reports whether the rule restricts nothing.
func (r *Rule) IsEmpty() bool {
	return len(r.IncludeKeys) == 0 && len(r.ExcludeKeys) == 0 &&
		len(r.IncludeValues) == 0 && len(r.ExcludeValues) == 0
}

// FocusKey returns the tag key singled out for focused reports:
// the first include key, or "" when the rule names none.
func (r *Rule) FocusKey() string {
	if len(r.IncludeKeys) == 0 {
		return ""
	}
	return r.IncludeKeys[0]
}

// MatchesTag reports whether a single tag survives the rule.
func (r *Rule) MatchesTag(tag types.Tag) bool {
	if len(r.IncludeKeys) > 0 && !slices.Contains(r.IncludeKeys, tag.Key) {
		return false
	}
	if slices.Contains(r.ExcludeKeys, tag.Key) {
		return false
	}
	if len(r.IncludeValues) > 0 && !slices.Contains(r.IncludeValues, tag.Value) {
		return false
	}
	if slices.Contains(r.ExcludeValues, tag.Value) {
		return false
	}
	return true
}

// HasFocusTag reports whether the resource carries at least one tag whose
// key or value is included and which hits no exclusion. Used by coverage
// counting; unlike MatchesTag, an empty include side does not match-all here.
func (r *Rule) HasFocusTag(resource types.Resource) bool {
	for _, tag := range resource.Tags {
		included := slices.Contains(r.IncludeKeys, tag.Key) ||
			slices.Contains(r.IncludeValues, tag.Value)
		excluded := slices.Contains(r.ExcludeKeys, tag.Key) ||
			slices.Contains(r.ExcludeValues, tag.Value)
		if included && !excluded {
			return true
		}
	}
	return false
}

// Apply returns the resources whose tags survive the rule. Resources left
// with zero tags are dropped entirely. Resource and tag order is preserved
// and the input slice is never mutated.
func (r *Rule) Apply(resources []types.Resource) []types.Resource {
	filtered := make([]types.Resource, 0, len(resources))
	for _, resource := range resources {
		var kept []types.Tag
		for _, tag := range resource.Tags {
			if r.MatchesTag(tag) {
				kept = append(kept, tag)
			}
		}
		if len(kept) == 0 {
			continue
		}
		resource.Tags = kept
		filtered = append(filtered, resource)
	}
	return filtered
}
