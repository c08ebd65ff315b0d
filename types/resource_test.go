package types

import (
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestTypeFromARN(t *testing.T) {
	assert.Equal(t, "ec2", TypeFromARN("arn:aws:ec2:eu-central-1:123456789012:instance/i-0abc"))
	assert.Equal(t, "s3", TypeFromARN("arn:aws:s3:::my-bucket"))
	assert.Equal(t, "svc", TypeFromARN("arn:x:svc:r1"))
}

func TestTypeFromARN_Malformed(t *testing.T) {
	assert.Equal(t, UnknownType, TypeFromARN("not-an-arn"))
	assert.Equal(t, UnknownType, TypeFromARN("arn:aws"))
	assert.Equal(t, UnknownType, TypeFromARN(""))
}

func TestTypeFromARN_EmptyServiceSegment(t *testing.T) {
	assert.Equal(t, UnknownType, TypeFromARN("arn:aws::region:acct:thing"))
}

func TestNewResource_DerivesType(t *testing.T) {
	r := NewResource("arn:aws:rds:eu-central-1:123456789012:db:mydb", nil)
	assert.Equal(t, "rds", r.Type)
	assert.Equal(t, "arn:aws:rds:eu-central-1:123456789012:db:mydb", r.ARN)
}

func TestTagValue_FirstMatchWins(t *testing.T) {
	r := Resource{
		ARN: "arn:aws:ec2:eu-central-1:123456789012:instance/i-0abc",
		Tags: []Tag{
			{Key: "Team", Value: "payments"},
			{Key: "Team", Value: "core"},
		},
	}

	value, ok := r.TagValue("Team")
	assert.True(t, ok)
	assert.Equal(t, "payments", value)
}

func TestTagValue_Missing(t *testing.T) {
	r := Resource{Tags: []Tag{{Key: "Env", Value: "prod"}}}

	_, ok := r.TagValue("Team")
	assert.False(t, ok)
	assert.False(t, r.HasTagKey("Team"))
	assert.True(t, r.HasTagKey("Env"))
}

func TestBuildResourceMap(t *testing.T) {
	resources := []Resource{
		{ARN: "arn:aws:ec2:eu-central-1:1:instance/a"},
		{ARN: "arn:aws:ec2:eu-central-1:1:instance/b"},
	}

	m := BuildResourceMap(resources)
	assert.Len(t, m, 2)
	assert.Equal(t, resources[0], m["arn:aws:ec2:eu-central-1:1:instance/a"])
}
