package filter

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/tagscope/types"
)

func TestLoad_RuleDocument(t *testing.T) {
	path := filepath.Join(t.TempDir(), "focus.yaml")
	require.NoError(t, os.WriteFile(path, []byte(`
include_keys: [Team, Owner]
exclude_values: ["N/A"]
`), 0600))

	rule, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, []string{"Team", "Owner"}, rule.IncludeKeys)
	assert.Equal(t, []string{"N/A"}, rule.ExcludeValues)
	assert.Equal(t, "Team", rule.FocusKey())
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestMatchesTag_EmptyIncludesMatchAll(t *testing.T) {
	rule := &Rule{}
	assert.True(t, rule.MatchesTag(types.Tag{Key: "Team", Value: "payments"}))
	assert.True(t, rule.IsEmpty())
	assert.Equal(t, "", rule.FocusKey())
}

func TestMatchesTag_IncludeKeys(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team"}}
	assert.True(t, rule.MatchesTag(types.Tag{Key: "Team", Value: "core"}))
	assert.False(t, rule.MatchesTag(types.Tag{Key: "Env", Value: "prod"}))
}

func TestMatchesTag_ExcludeWinsOverInclude(t *testing.T) {
	rule := &Rule{
		IncludeKeys: []string{"Team"},
		ExcludeKeys: []string{"Team"},
	}
	assert.False(t, rule.MatchesTag(types.Tag{Key: "Team", Value: "core"}))

	rule = &Rule{
		IncludeValues: []string{"prod"},
		ExcludeValues: []string{"prod"},
	}
	assert.False(t, rule.MatchesTag(types.Tag{Key: "Env", Value: "prod"}))
}

func TestMatchesTag_ValueSets(t *testing.T) {
	rule := &Rule{IncludeValues: []string{"prod"}, ExcludeValues: []string{"test"}}
	assert.True(t, rule.MatchesTag(types.Tag{Key: "Env", Value: "prod"}))
	assert.False(t, rule.MatchesTag(types.Tag{Key: "Env", Value: "staging"}))
	assert.False(t, rule.MatchesTag(types.Tag{Key: "Env", Value: "test"}))
}

func sampleResources() []types.Resource {
	return []types.Resource{
		{
			ARN:  "arn:aws:ec2:eu-central-1:1:instance/a",
			Type: "ec2",
			Tags: []types.Tag{
				{Key: "Team", Value: "payments"},
				{Key: "Env", Value: "prod"},
			},
		},
		{
			ARN:  "arn:aws:rds:eu-central-1:1:db/b",
			Type: "rds",
			Tags: []types.Tag{{Key: "Env", Value: "staging"}},
		},
	}
}

func TestApply_DropsResourcesWithNoSurvivingTags(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team"}}

	filtered := rule.Apply(sampleResources())
	require.Len(t, filtered, 1)
	assert.Equal(t, "arn:aws:ec2:eu-central-1:1:instance/a", filtered[0].ARN)
	assert.Equal(t, []types.Tag{{Key: "Team", Value: "payments"}}, filtered[0].Tags)
}

func TestApply_PreservesOrder(t *testing.T) {
	rule := &Rule{ExcludeValues: []string{"nope"}}
	resources := sampleResources()

	filtered := rule.Apply(resources)
	require.Len(t, filtered, 2)
	assert.Equal(t, resources[0].ARN, filtered[0].ARN)
	assert.Equal(t, resources[1].ARN, filtered[1].ARN)
	assert.Equal(t, resources[0].Tags, filtered[0].Tags)
}

func TestApply_DoesNotMutateInput(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team"}}
	resources := sampleResources()

	_ = rule.Apply(resources)
	assert.Len(t, resources[0].Tags, 2)
}

func TestApply_Idempotent(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team"}, ExcludeValues: []string{"core"}}
	once := rule.Apply(sampleResources())
	twice := rule.Apply(once)
	assert.Equal(t, once, twice)
}

func TestApply_EverySurvivingTagMatches(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team", "Env"}, ExcludeValues: []string{"staging"}}
	for _, resource := range rule.Apply(sampleResources()) {
		require.NotEmpty(t, resource.Tags)
		for _, tag := range resource.Tags {
			assert.True(t, rule.MatchesTag(tag))
		}
	}
}

func TestHasFocusTag(t *testing.T) {
	rule := &Rule{IncludeKeys: []string{"Team"}}
	resources := sampleResources()

	assert.True(t, rule.HasFocusTag(resources[0]))
	assert.False(t, rule.HasFocusTag(resources[1]))
}

func TestHasFocusTag_ExcludedValueDoesNotCount(t *testing.T) {
	rule := &Rule{
		IncludeKeys:   []string{"Team"},
		ExcludeValues: []string{"payments"},
	}
	resources := sampleResources()

	// The only Team tag carries an excluded value
	assert.False(t, rule.HasFocusTag(resources[0]))
}

func TestHasFocusTag_IncludeValueAlone(t *testing.T) {
	rule := &Rule{IncludeValues: []string{"staging"}}
	resources := sampleResources()

	assert.False(t, rule.HasFocusTag(resources[0]))
	assert.True(t, rule.HasFocusTag(resources[1]))
}
