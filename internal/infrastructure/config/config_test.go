package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_DefaultsAndFile(t *testing.T) {
	path := writeConfig(t, `
server:
  port: 9090
database:
  driver: sqlite
  sqlite_path: test.db
`)

	cfg, err := Load("", path)
	require.NoError(t, err)

	assert.Equal(t, 9090, cfg.Server.Port)
	assert.Equal(t, "sqlite", cfg.Database.Driver)
	assert.Equal(t, "goose", cfg.Database.MigrationStrategy)
	assert.Equal(t, "system@admin.com", cfg.Bootstrap.AdminEmail)
	assert.Equal(t, "System Administrator", cfg.Bootstrap.AdminName)
	assert.Equal(t, 10, cfg.RateLimit.Login.Attempts)
	assert.Same(t, cfg, Get())
}

func TestLoad_EnvOverrides(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")
	t.Setenv("ADPILOT_SERVER_PORT", "7070")
	t.Setenv("ADPILOT_BOOTSTRAP_ADMIN_EMAIL", "root@adpilot.test")

	cfg, err := Load("", path)
	require.NoError(t, err)
	assert.Equal(t, 7070, cfg.Server.Port)
	assert.Equal(t, "root@adpilot.test", cfg.Bootstrap.AdminEmail)
}

func TestLoad_ModeOverride(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\nauth:\n  jwt:\n    secret: s3cret\n")

	cfg, err := Load("release", path)
	require.NoError(t, err)
	assert.Equal(t, "release", cfg.Server.Mode)
}

func TestLoad_RejectsDefaultSecretInRelease(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: sqlite\n")

	_, err := Load("release", path)
	assert.ErrorContains(t, err, "auth.jwt.secret")
}

func TestLoad_RejectsUnknownDriver(t *testing.T) {
	path := writeConfig(t, "database:\n  driver: oracle\n")

	_, err := Load("", path)
	assert.ErrorContains(t, err, "oracle")
}

func TestLoad_MissingExplicitFile(t *testing.T) {
	_, err := Load("", filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}
