package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

// allConfigKeys lists every REVIEWDECK_ env var that Load() reads.
var allConfigKeys = []string{
	"REVIEWDECK_ENV",
	"REVIEWDECK_BASE_PATH",
	"REVIEWDECK_LISTEN_ADDR",
	"REVIEWDECK_DB_PATH",
	"REVIEWDECK_FIXTURES_PATH",
	"REVIEWDECK_LOG_LEVEL",
	"REVIEWDECK_LOG_FILE",
	"REVIEWDECK_VIEW_TTL",
	"REVIEWDECK_SWEEP_INTERVAL",
	"REVIEWDECK_REPO_FULL_NAME",
}

// isolateConfigEnv saves and unsets all REVIEWDECK_ env vars so tests don't
// inherit values from the host environment (e.g. a running dev server).
// t.Cleanup restores original values after the test.
func isolateConfigEnv(t *testing.T) {
	t.Helper()
	for _, key := range allConfigKeys {
		if orig, ok := os.LookupEnv(key); ok {
			t.Cleanup(func() { os.Setenv(key, orig) })
		} else {
			t.Cleanup(func() { os.Unsetenv(key) })
		}
		os.Unsetenv(key)
	}
}

func writeConfigFile(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "reviewdeck.toml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestLoad_Defaults(t *testing.T) {
	isolateConfigEnv(t)

	cfg, err := Load("")

	require.NoError(t, err)
	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.False(t, cfg.IsProduction())
	assert.Equal(t, "", cfg.BasePath)
	assert.Equal(t, "127.0.0.1:8080", cfg.ListenAddr)
	assert.Equal(t, "reviewdeck.db", cfg.DBPath)
	assert.Equal(t, "", cfg.FixturesPath)
	assert.Equal(t, "info", cfg.LogLevel)
	assert.Equal(t, 30*time.Minute, cfg.ViewTTL)
	assert.Equal(t, time.Minute, cfg.SweepInterval)
	assert.Equal(t, "SonarSource/asast-scanner-pipeline", cfg.RepoFullName)
}

func TestLoad_ProductionBasePath(t *testing.T) {
	isolateConfigEnv(t)
	t.Setenv("REVIEWDECK_ENV", "production")

	cfg, err := Load("")

	require.NoError(t, err)
	assert.True(t, cfg.IsProduction())
	assert.Equal(t, "/v2-public", cfg.BasePath)
}

func TestLoad_BasePathOverride(t *testing.T) {
	tests := []struct {
		name  string
		value string
		want  string
	}{
		{name: "trailing slash trimmed", value: "/review/", want: "/review"},
		{name: "root means none", value: "/", want: ""},
		{name: "empty clears production default", value: "", want: ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv("REVIEWDECK_ENV", "production")
			t.Setenv("REVIEWDECK_BASE_PATH", tt.value)

			cfg, err := Load("")

			require.NoError(t, err)
			assert.Equal(t, tt.want, cfg.BasePath)
		})
	}
}

func TestLoad_FileThenEnvPrecedence(t *testing.T) {
	isolateConfigEnv(t)
	path := writeConfigFile(t, `
listen_addr = "0.0.0.0:9090"
db_path = "/var/lib/reviewdeck/data.db"
view_ttl = "10m"
`)
	t.Setenv("REVIEWDECK_LISTEN_ADDR", "127.0.0.1:7070")

	cfg, err := Load(path)

	require.NoError(t, err)
	assert.Equal(t, "127.0.0.1:7070", cfg.ListenAddr)
	assert.Equal(t, "/var/lib/reviewdeck/data.db", cfg.DBPath)
	assert.Equal(t, 10*time.Minute, cfg.ViewTTL)
}

func TestLoad_MissingFile(t *testing.T) {
	isolateConfigEnv(t)

	_, err := Load(filepath.Join(t.TempDir(), "absent.toml"))

	assert.ErrorContains(t, err, "load config file")
}

func TestLoad_Invalid(t *testing.T) {
	tests := []struct {
		name    string
		key     string
		value   string
		wantErr string
	}{
		{name: "unknown env", key: "REVIEWDECK_ENV", value: "staging", wantErr: "env must be"},
		{name: "relative base path", key: "REVIEWDECK_BASE_PATH", value: "v2-public", wantErr: "base_path must start with /"},
		{name: "bad ttl", key: "REVIEWDECK_VIEW_TTL", value: "soon", wantErr: "view_ttl has invalid duration"},
		{name: "zero interval", key: "REVIEWDECK_SWEEP_INTERVAL", value: "0s", wantErr: "sweep_interval must be positive"},
		{name: "bad log level", key: "REVIEWDECK_LOG_LEVEL", value: "verbose", wantErr: "log_level"},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			isolateConfigEnv(t)
			t.Setenv(tt.key, tt.value)

			_, err := Load("")

			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
