package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load(t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "postgres://localhost:5432/blackpoint", cfg.DatabaseURL)
	assert.Empty(t, cfg.Employees)
	assert.False(t, cfg.StrictManualEntries)
}

func TestLoadFromFile(t *testing.T) {
	dir := t.TempDir()
	content := `
server:
  port: "9090"
database:
  url: postgres://db.internal:5432/portal
auth:
  employees:
    - Brendan Abbott
    - Kyla Abbott
timeclock:
  strict_manual_entries: true
`
	require.NoError(t, os.WriteFile(filepath.Join(dir, "portal.yaml"), []byte(content), 0o644))

	cfg, err := Load(dir)
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Port)
	assert.Equal(t, "postgres://db.internal:5432/portal", cfg.DatabaseURL)
	assert.Equal(t, []string{"Brendan Abbott", "Kyla Abbott"}, cfg.Employees)
	assert.True(t, cfg.StrictManualEntries)
}

func TestLoadEnvOverride(t *testing.T) {
	t.Setenv("PORTAL_SERVER_PORT", "7456")

	cfg, err := Load(t.TempDir())
	require.NoError(t, err)
	assert.Equal(t, "7456", cfg.Port)
}

func TestAuthorized(t *testing.T) {
	cfg := &Config{Employees: []string{"Brendan Abbott", "Kyla Abbott"}}

	assert.True(t, cfg.Authorized("Brendan Abbott"))
	assert.True(t, cfg.Authorized("  Kyla Abbott  "), "names are trimmed before matching")
	assert.False(t, cfg.Authorized("brendan abbott"), "matching is case-sensitive")
	assert.False(t, cfg.Authorized("Mallory"))
	assert.False(t, cfg.Authorized(""))
}
