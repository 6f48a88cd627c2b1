package core_test

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/core"
)

var configEnvKeys = []string{
	"MEMORY_BACKEND",
	"MEMORY_FILE_PATH",
	"MEMORY_ID_SCHEME",
	"MEMORY_SNOWFLAKE_NODE",
	"MEMORY_SEARCH_LIMIT",
	"MEMORY_RRF_K",
	"LOG_LEVEL",
	"LOG_PRETTY",
	"MEMORY_METRICS_ENABLED",
	"MEMORY_METRICS_NAMESPACE",
}

// unsetConfigEnv removes every config variable for the duration of the test.
func unsetConfigEnv(t *testing.T) {
	t.Helper()
	for _, k := range configEnvKeys {
		t.Setenv(k, "")
		require.NoError(t, os.Unsetenv(k))
	}
}

func TestDefaultConfig(t *testing.T) {
	config := core.DefaultConfig()

	assert.Equal(t, core.ProviderMemory, config.Backend.Provider)
	assert.Equal(t, "snowflake", config.IDScheme)
	assert.Equal(t, 10, config.Search.DefaultLimit)
	assert.Equal(t, 60, config.Search.RRFK)
	assert.Equal(t, "info", config.Log.Level)
	assert.False(t, config.Metrics.Enabled)
	assert.NoError(t, config.Validate())
}

func TestLoadConfigFromEnv(t *testing.T) {
	tests := []struct {
		name    string
		envVars map[string]string
		wantErr bool
		check   func(t *testing.T, config *core.Config)
	}{
		{
			name: "file backend",
			envVars: map[string]string{
				"MEMORY_BACKEND":           "file",
				"MEMORY_FILE_PATH":         "/tmp/memories.jsonl",
				"MEMORY_ID_SCHEME":         "uuid",
				"MEMORY_SNOWFLAKE_NODE":    "3",
				"MEMORY_SEARCH_LIMIT":      "25",
				"MEMORY_RRF_K":             "30",
				"LOG_LEVEL":                "debug",
				"LOG_PRETTY":               "true",
				"MEMORY_METRICS_ENABLED":   "true",
				"MEMORY_METRICS_NAMESPACE": "agent",
			},
			check: func(t *testing.T, config *core.Config) {
				assert.Equal(t, "file", config.Backend.Provider)
				assert.Equal(t, "/tmp/memories.jsonl", config.Backend.Path)
				assert.Equal(t, "uuid", config.IDScheme)
				assert.Equal(t, int64(3), config.SnowflakeNode)
				assert.Equal(t, 25, config.Search.DefaultLimit)
				assert.Equal(t, 30, config.Search.RRFK)
				assert.Equal(t, "debug", config.Log.Level)
				assert.True(t, config.Log.Pretty)
				assert.True(t, config.Metrics.Enabled)
				assert.Equal(t, "agent", config.Metrics.Namespace)
			},
		},
		{
			name: "disabled backend",
			envVars: map[string]string{
				"MEMORY_BACKEND":        "none",
				"MEMORY_FILE_PATH":      "unused",
				"MEMORY_ID_SCHEME":      "nanoid",
				"MEMORY_SNOWFLAKE_NODE": "1",
				"MEMORY_SEARCH_LIMIT":   "10",
				"MEMORY_RRF_K":          "60",
				"LOG_LEVEL":             "warn",
				"LOG_PRETTY":            "false",
			},
			check: func(t *testing.T, config *core.Config) {
				assert.Equal(t, "none", config.Backend.Provider)
				assert.Equal(t, "nanoid", config.IDScheme)
				assert.False(t, config.Log.Pretty)
			},
		},
		{
			name: "invalid number",
			envVars: map[string]string{
				"MEMORY_SEARCH_LIMIT": "ten",
			},
			wantErr: true,
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			for k, v := range tt.envVars {
				t.Setenv(k, v)
			}

			config, err := core.LoadConfigFromEnv()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidConfig)
				assert.Nil(t, config)
				return
			}
			require.NoError(t, err)
			tt.check(t, config)
		})
	}
}

func TestLoadConfigFromEnvFile(t *testing.T) {
	unsetConfigEnv(t)

	envPath := filepath.Join(t.TempDir(), "test.env")
	content := "MEMORY_BACKEND=file\nMEMORY_FILE_PATH=/data/mem.jsonl\nMEMORY_RRF_K=42\n"
	require.NoError(t, os.WriteFile(envPath, []byte(content), 0644))

	config, err := core.LoadConfigFromEnvFile(envPath)
	require.NoError(t, err)
	assert.Equal(t, "file", config.Backend.Provider)
	assert.Equal(t, "/data/mem.jsonl", config.Backend.Path)
	assert.Equal(t, 42, config.Search.RRFK)
	assert.Equal(t, 10, config.Search.DefaultLimit)

	_, err = core.LoadConfigFromEnvFile(filepath.Join(t.TempDir(), "missing.env"))
	assert.Error(t, err)
}

func TestLoadConfigFromJSON(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "config.json")
	content := `{
  "backend": {"provider": "file", "path": "./memories.jsonl"},
  "id_scheme": "nanoid",
  "search": {"default_limit": 5},
  "metrics": {"enabled": true, "namespace": "test"}
}`
	require.NoError(t, os.WriteFile(path, []byte(content), 0644))

	config, err := core.LoadConfigFromJSON(path)
	require.NoError(t, err)
	assert.Equal(t, "file", config.Backend.Provider)
	assert.Equal(t, "./memories.jsonl", config.Backend.Path)
	assert.Equal(t, "nanoid", config.IDScheme)
	assert.Equal(t, 5, config.Search.DefaultLimit)
	// Unset fields keep their defaults.
	assert.Equal(t, 60, config.Search.RRFK)
	assert.Equal(t, "info", config.Log.Level)
	assert.True(t, config.Metrics.Enabled)

	_, err = core.LoadConfigFromJSON(filepath.Join(dir, "missing.json"))
	var memErr *core.MemoryError
	require.ErrorAs(t, err, &memErr)
	assert.Equal(t, "LoadConfigFromJSON", memErr.Op)

	bad := filepath.Join(dir, "bad.json")
	require.NoError(t, os.WriteFile(bad, []byte("{"), 0644))
	_, err = core.LoadConfigFromJSON(bad)
	assert.Error(t, err)
}

func TestConfigValidate(t *testing.T) {
	tests := []struct {
		name    string
		mutate  func(c *core.Config)
		wantErr bool
	}{
		{name: "defaults", mutate: func(c *core.Config) {}},
		{name: "file", mutate: func(c *core.Config) { c.Backend.Provider = "file" }},
		{name: "none", mutate: func(c *core.Config) { c.Backend.Provider = "none" }},
		{name: "empty scheme", mutate: func(c *core.Config) { c.IDScheme = "" }},
		{name: "unknown provider", mutate: func(c *core.Config) { c.Backend.Provider = "sqlite" }, wantErr: true},
		{name: "missing provider", mutate: func(c *core.Config) { c.Backend.Provider = "" }, wantErr: true},
		{name: "unknown scheme", mutate: func(c *core.Config) { c.IDScheme = "counter" }, wantErr: true},
		{name: "node out of range", mutate: func(c *core.Config) { c.SnowflakeNode = 1024 }, wantErr: true},
		{name: "negative limit", mutate: func(c *core.Config) { c.Search.DefaultLimit = -1 }, wantErr: true},
		{name: "negative k", mutate: func(c *core.Config) { c.Search.RRFK = -1 }, wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			config := core.DefaultConfig()
			tt.mutate(config)

			err := config.Validate()
			if tt.wantErr {
				assert.ErrorIs(t, err, core.ErrInvalidConfig)
			} else {
				assert.NoError(t, err)
			}
		})
	}
}

func TestFindEnvFile(t *testing.T) {
	dir := t.TempDir()
	nested := filepath.Join(dir, "a", "b")
	require.NoError(t, os.MkdirAll(nested, 0755))
	require.NoError(t, os.WriteFile(filepath.Join(dir, ".env"), []byte("LOG_LEVEL=debug\n"), 0644))

	wd, err := os.Getwd()
	require.NoError(t, err)
	require.NoError(t, os.Chdir(nested))
	t.Cleanup(func() { _ = os.Chdir(wd) })

	path, found := core.FindEnvFile()
	require.True(t, found)

	// TempDir may sit behind a symlink (macOS /var), Getwd returns the resolved path.
	want, err := filepath.EvalSymlinks(filepath.Join(dir, ".env"))
	require.NoError(t, err)
	got, err := filepath.EvalSymlinks(path)
	require.NoError(t, err)
	assert.Equal(t, want, got)
}
