package rules_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/aviu16/mercury-bot/pkg/rules"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_File(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	data := []byte(`
exclude_vendors:
  - Gusto
  - "Internal Transfer"
exclude_categories:
  - payroll
`)
	require.NoError(t, os.WriteFile(path, data, 0o644))

	r, err := rules.Load(path)
	require.NoError(t, err)

	assert.True(t, r.ExcludesVendor("Gusto"))
	assert.True(t, r.ExcludesVendor("gusto"))
	assert.True(t, r.ExcludesVendor("  internal transfer "))
	assert.False(t, r.ExcludesVendor("AWS"))

	assert.True(t, r.ExcludesCategory("Payroll"))
	assert.False(t, r.ExcludesCategory("software"))
	assert.False(t, r.ExcludesCategory(""))
}

func TestLoad_MissingFileIsEmpty(t *testing.T) {
	r, err := rules.Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.NoError(t, err)
	assert.False(t, r.ExcludesVendor("anything"))
}

func TestLoad_EmptyPathIsEmpty(t *testing.T) {
	r, err := rules.Load("")
	require.NoError(t, err)
	assert.False(t, r.ExcludesVendor("anything"))
	assert.False(t, r.ExcludesCategory("anything"))
}

func TestLoad_BadYAML(t *testing.T) {
	path := filepath.Join(t.TempDir(), "rules.yaml")
	require.NoError(t, os.WriteFile(path, []byte("exclude_vendors: {not a list"), 0o644))

	_, err := rules.Load(path)
	assert.Error(t, err)
}
