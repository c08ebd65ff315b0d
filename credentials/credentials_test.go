package credentials

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeBundle(t *testing.T, dir, name, content string) {
	t.Helper()
	require.NoError(t, os.WriteFile(filepath.Join(dir, name), []byte(content), 0600))
}

const prodBundle = `export AWS_ACCESS_KEY_ID="AKIAPROD"
export AWS_SECRET_ACCESS_KEY="secret-prod"
export AWS_SESSION_TOKEN="token-prod"
export AWS_REGION="us-west-2"
`

func TestDiscover_ParsesBundle(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "prod.ini", prodBundle)

	creds, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, creds, 1)

	assert.Equal(t, "prod", creds[0].Environment)
	assert.Equal(t, "AKIAPROD", creds[0].AccessKeyID)
	assert.Equal(t, "secret-prod", creds[0].SecretAccessKey)
	assert.Equal(t, "token-prod", creds[0].SessionToken)
	assert.Equal(t, "us-west-2", creds[0].Region)
}

func TestDiscover_DefaultRegion(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "staging.ini", `export AWS_ACCESS_KEY_ID="AKIA"
export AWS_SECRET_ACCESS_KEY="secret"
`)

	creds, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, DefaultRegion, creds[0].Region)
}

func TestDiscover_OrderedByFileName(t *testing.T) {
	dir := t.TempDir()
	bundle := `export AWS_ACCESS_KEY_ID="AKIA"
export AWS_SECRET_ACCESS_KEY="secret"
`
	writeBundle(t, dir, "staging.ini", bundle)
	writeBundle(t, dir, "dev.ini", bundle)
	writeBundle(t, dir, "prod.ini", bundle)

	creds, err := Discover(dir)
	require.NoError(t, err)
	require.Len(t, creds, 3)
	assert.Equal(t, "dev", creds[0].Environment)
	assert.Equal(t, "prod", creds[1].Environment)
	assert.Equal(t, "staging", creds[2].Environment)
}

func TestDiscover_IgnoresNonIniFiles(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "prod.ini", prodBundle)
	writeBundle(t, dir, "notes.txt", "not credentials")

	creds, err := Discover(dir)
	require.NoError(t, err)
	assert.Len(t, creds, 1)
}

func TestDiscover_IgnoresNonExportLines(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "prod.ini", `# comment
export AWS_ACCESS_KEY_ID="AKIA"
export AWS_SECRET_ACCESS_KEY="secret"
garbage line without export
`)

	creds, err := Discover(dir)
	require.NoError(t, err)
	assert.Equal(t, "AKIA", creds[0].AccessKeyID)
}

func TestDiscover_EmptyDir(t *testing.T) {
	_, err := Discover(t.TempDir())
	assert.ErrorIs(t, err, ErrNoCredentials)
}

func TestDiscover_MissingKeysFatal(t *testing.T) {
	dir := t.TempDir()
	writeBundle(t, dir, "broken.ini", `export AWS_REGION="eu-central-1"`)

	_, err := Discover(dir)
	assert.ErrorContains(t, err, "broken.ini")
}
