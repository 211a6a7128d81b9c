package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amiguard.yaml")
	content := `region: us-east-1
dry_run: true
policy:
  trusted_images:
    - ami-blessed
  exempt_tag: "compliance:waived"
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "us-east-1", cfg.Region)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []string{"ami-blessed"}, cfg.Policy.TrustedImages)
	assert.Equal(t, "compliance:waived", cfg.Policy.ExemptTag)
}

func TestLoad_MissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	assert.Error(t, err)
}

func TestLoad_InvalidTrustedImage(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "amiguard.yaml")
	content := `policy:
  trusted_images:
    - not-an-ami
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o600))

	_, err := Load(path)
	require.Error(t, err)
	assert.Contains(t, err.Error(), "not-an-ami")
}

func TestFromEnv(t *testing.T) {
	t.Setenv("AMIGUARD_REGION", "eu-west-1")
	t.Setenv("AMIGUARD_DRY_RUN", "true")
	t.Setenv("AMIGUARD_TRUSTED_IMAGES", "ami-1, ami-2,")
	t.Setenv("AMIGUARD_EXEMPT_TAG", "compliance:waived")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Equal(t, "eu-west-1", cfg.Region)
	assert.True(t, cfg.DryRun)
	assert.Equal(t, []string{"ami-1", "ami-2"}, cfg.Policy.TrustedImages)
	assert.Equal(t, "compliance:waived", cfg.Policy.ExemptTag)
}

func TestFromEnv_Empty(t *testing.T) {
	t.Setenv("AMIGUARD_REGION", "")
	t.Setenv("AMIGUARD_DRY_RUN", "")
	t.Setenv("AMIGUARD_TRUSTED_IMAGES", "")
	t.Setenv("AMIGUARD_EXEMPT_TAG", "")

	cfg, err := FromEnv()
	require.NoError(t, err)
	assert.Empty(t, cfg.Region)
	assert.False(t, cfg.DryRun)
	assert.Empty(t, cfg.Policy.TrustedImages)
}
