package blockflow

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, body string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "blockflow.yaml")
	require.NoError(t, os.WriteFile(path, []byte(body), 0o600))
	return path
}

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()

	require.NoError(t, cfg.Validate())
	assert.Equal(t, 300*time.Millisecond, cfg.ValidationDelay)
	assert.Equal(t, 2*time.Second, cfg.AutosaveDelay)
	assert.Equal(t, "workflow-autosave", cfg.StorageKey)
	assert.Equal(t, "Sample Workflow", cfg.WorkflowName)
	assert.Equal(t, "1.0.0", cfg.Version)
	assert.False(t, cfg.ReportDanglingEdges)
	assert.Equal(t, DriverSQLite, cfg.Store.Driver)
}

func TestLoadConfig_OverridesDefaults(t *testing.T) {
	path := writeConfig(t, `
validation_delay: 150ms
autosave_delay: 5s
workflow_name: Onboarding
report_dangling_edges: true
store:
  driver: redis
  dsn: redis://localhost:6379/0
  redis_prefix: "bf:"
  redis_ttl: 24h
`)

	cfg, err := LoadConfig(path)
	require.NoError(t, err)

	assert.Equal(t, 150*time.Millisecond, cfg.ValidationDelay)
	assert.Equal(t, 5*time.Second, cfg.AutosaveDelay)
	assert.Equal(t, "Onboarding", cfg.WorkflowName)
	assert.True(t, cfg.ReportDanglingEdges)
	assert.Equal(t, DriverRedis, cfg.Store.Driver)
	assert.Equal(t, "bf:", cfg.Store.RedisPrefix)
	assert.Equal(t, 24*time.Hour, cfg.Store.RedisTTL)

	// Untouched keys keep their defaults.
	assert.Equal(t, "workflow-autosave", cfg.StorageKey)
	assert.Equal(t, "1.0.0", cfg.Version)
}

func TestLoadConfig_Invalid(t *testing.T) {
	cases := map[string]struct {
		body string
		want string
	}{
		"unknown driver": {
			body: "store:\n  driver: cassandra\n",
			want: "Store.Driver must be one of",
		},
		"postgres without dsn": {
			body: "store:\n  driver: postgres\n  dsn: \"\"\n",
			want: "Store.DSN is required unless",
		},
		"zero autosave delay": {
			body: "autosave_delay: 0s\n",
			want: "AutosaveDelay must be gt",
		},
		"autosave before validation": {
			body: "validation_delay: 300ms\nautosave_delay: 100ms\n",
			want: "AutosaveDelay must be greater than ValidationDelay",
		},
		"empty storage key": {
			body: "storage_key: \"\"\n",
			want: "StorageKey is required",
		},
	}

	for name, tc := range cases {
		t.Run(name, func(t *testing.T) {
			_, err := LoadConfig(writeConfig(t, tc.body))
			require.ErrorIs(t, err, ErrInvalidConfig)
			require.Contains(t, err.Error(), tc.want)
		})
	}
}

func TestLoadConfig_MemoryDriverNeedsNoDSN(t *testing.T) {
	cfg, err := LoadConfig(writeConfig(t, "store:\n  driver: memory\n  dsn: \"\"\n"))
	require.NoError(t, err)
	require.Equal(t, DriverMemory, cfg.Store.Driver)
}

func TestLoadConfig_MissingFile(t *testing.T) {
	_, err := LoadConfig(filepath.Join(t.TempDir(), "nope.yaml"))
	require.ErrorIs(t, err, os.ErrNotExist)
}

func TestLoadConfig_Malformed(t *testing.T) {
	_, err := LoadConfig(writeConfig(t, "validation_delay: [1, 2"))
	require.Error(t, err)
	require.NotErrorIs(t, err, ErrInvalidConfig)
}
