package matrix

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/yairfalse/tagscope/types"
)

func sampleResources() []types.Resource {
	return []types.Resource{
		{
			ARN:  "arn:x:svc:r1",
			Type: "svc",
			Tags: []types.Tag{{Key: "Team", Value: "payments"}},
		},
		{
			ARN:  "arn:x:svc:r2",
			Type: "svc",
			Tags: []types.Tag{
				{Key: "Team", Value: "core"},
				{Key: "Env", Value: "prod"},
			},
		},
	}
}

func TestProject_SortedColumnUnion(t *testing.T) {
	table := Project(sampleResources())

	assert.Equal(t, []string{"Resource ARN", "Resource Type", "Env", "Team"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"arn:x:svc:r1", "svc", Sentinel, "payments"}, table.Rows[0])
	assert.Equal(t, []string{"arn:x:svc:r2", "svc", "prod", "core"}, table.Rows[1])
}

func TestProject_RowWidthMatchesHeader(t *testing.T) {
	table := Project(sampleResources())
	for _, row := range table.Rows {
		assert.Len(t, row, len(table.Header))
	}
}

func TestProject_Empty(t *testing.T) {
	table := Project(nil)
	assert.Equal(t, []string{"Resource ARN", "Resource Type"}, table.Header)
	assert.Empty(t, table.Rows)
}

func TestProject_DuplicateKeyFirstMatchWins(t *testing.T) {
	table := Project([]types.Resource{
		{
			ARN:  "arn:x:svc:r1",
			Type: "svc",
			Tags: []types.Tag{
				{Key: "Team", Value: "payments"},
				{Key: "Team", Value: "core"},
			},
		},
	})

	assert.Equal(t, []string{"arn:x:svc:r1", "svc", "payments"}, table.Rows[0])
}

func TestProjectFocused_SingleColumn(t *testing.T) {
	table := ProjectFocused(sampleResources(), "Team", nil)

	assert.Equal(t, []string{"Resource ARN", "Resource Type", "Team"}, table.Header)
	require.Len(t, table.Rows, 2)
	assert.Equal(t, []string{"arn:x:svc:r1", "svc", "payments"}, table.Rows[0])
	assert.Equal(t, []string{"arn:x:svc:r2", "svc", "core"}, table.Rows[1])
}

func TestProjectFocused_ExcludedValueOmitsRow(t *testing.T) {
	table := ProjectFocused(sampleResources(), "Team", []string{"core"})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "arn:x:svc:r1", table.Rows[0][0])
}

func TestProjectFocused_MissingKeyYieldsSentinel(t *testing.T) {
	table := ProjectFocused(sampleResources(), "Owner", nil)

	require.Len(t, table.Rows, 2)
	assert.Equal(t, Sentinel, table.Rows[0][2])
	assert.Equal(t, Sentinel, table.Rows[1][2])
}

func TestProjectFocused_SentinelCanBeExcluded(t *testing.T) {
	// Excluding the sentinel drops every resource missing the focus key
	table := ProjectFocused(sampleResources(), "Env", []string{Sentinel})

	require.Len(t, table.Rows, 1)
	assert.Equal(t, "arn:x:svc:r2", table.Rows[0][0])
	assert.Equal(t, "prod", table.Rows[0][2])
}
