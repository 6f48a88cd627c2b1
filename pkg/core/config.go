package core

import (
	"encoding/json"
	"fmt"
	"os"
	"path/filepath"
	"strconv"

	"github.com/joho/godotenv"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/idgen"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/ranking"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Backend providers.
const (
	ProviderMemory = "memory"
	ProviderFile   = "file"
	ProviderNone   = "none"
)

// Config contains the complete configuration for a memory client.
//
// It includes settings for:
//   - Backend selection (in-memory, file, none)
//   - ID generation
//   - Search defaults
//   - Logging and metrics
//
// Example:
//
//	config := &core.Config{
//	    Backend: core.BackendConfig{
//	        Provider: "file",
//	        Path:     "./memories.jsonl",
//	    },
//	    IDScheme: "uuid",
//	}
type Config struct {
	// Backend selects and configures the storage backend.
	Backend BackendConfig `json:"backend"`

	// IDScheme selects how IDs are generated: snowflake, uuid or nanoid.
	IDScheme string `json:"id_scheme,omitempty"`

	// SnowflakeNode is the node number for snowflake IDs (0-1023).
	SnowflakeNode int64 `json:"snowflake_node,omitempty"`

	// Search contains search defaults.
	Search SearchConfig `json:"search"`

	// Log contains logging configuration.
	Log LogConfig `json:"log"`

	// Metrics contains Prometheus metrics configuration.
	Metrics MetricsConfig `json:"metrics"`
}

// BackendConfig contains configuration for the storage backend.
//
// Supported providers: memory, file, none
type BackendConfig struct {
	// Provider is the backend name.
	Provider string `json:"provider"`

	// Path is the JSON-lines file used by the file provider.
	// Empty means ~/.rustedclaw/memory/memories.jsonl.
	Path string `json:"path,omitempty"`
}

// SearchConfig contains search defaults.
type SearchConfig struct {
	// DefaultLimit is used when a search does not set a limit.
	DefaultLimit int `json:"default_limit"`

	// RRFK is the Reciprocal Rank Fusion constant for hybrid search.
	RRFK int `json:"rrf_k"`
}

// LogConfig contains logging configuration.
type LogConfig struct {
	// Level is one of debug, info, warn, error.
	Level string `json:"level"`

	// Pretty enables human-readable console output.
	Pretty bool `json:"pretty"`
}

// MetricsConfig contains Prometheus metrics configuration.
type MetricsConfig struct {
	// Enabled registers backend metrics with the default registerer.
	Enabled bool `json:"enabled"`

	// Namespace prefixes metric names.
	Namespace string `json:"namespace,omitempty"`
}

// DefaultConfig returns a configuration for an in-memory backend with
// snowflake IDs, a limit of 10 and k = 60.
func DefaultConfig() *Config {
	return &Config{
		Backend:       BackendConfig{Provider: ProviderMemory},
		IDScheme:      string(idgen.SchemeSnowflake),
		SnowflakeNode: 1,
		Search: SearchConfig{
			DefaultLimit: storage.DefaultLimit,
			RRFK:         ranking.DefaultRRFK,
		},
		Log: LogConfig{Level: "info"},
	}
}

// LoadConfigFromEnv loads configuration from environment variables.
//
// The function:
//  1. Searches for .env or .env.example files (up to 5 directory levels up)
//  2. Loads environment variables from the found file
//  3. Parses environment variables into a Config struct
//
// Supported environment variables:
//   - MEMORY_BACKEND (memory, file, none)
//   - MEMORY_FILE_PATH
//   - MEMORY_ID_SCHEME (snowflake, uuid, nanoid), MEMORY_SNOWFLAKE_NODE
//   - MEMORY_SEARCH_LIMIT, MEMORY_RRF_K
//   - LOG_LEVEL, LOG_PRETTY
//   - MEMORY_METRICS_ENABLED, MEMORY_METRICS_NAMESPACE
//
// Returns a Config instance, or an error if a numeric variable cannot be parsed.
//
// Example:
//
//	config, err := core.LoadConfigFromEnv()
//	if err != nil {
//	    log.Fatal().Err(err).Msg("load config")
//	}
func LoadConfigFromEnv() (*Config, error) {
	// Use FindEnvFile to locate .env file (supports upward search)
	envPath, found := FindEnvFile()
	if found {
		_ = godotenv.Load(envPath)
	} else {
		_ = godotenv.Load()
	}

	return configFromEnv()
}

func configFromEnv() (*Config, error) {
	config := DefaultConfig()

	config.Backend.Provider = getEnvOrDefault("MEMORY_BACKEND", ProviderMemory)
	config.Backend.Path = os.Getenv("MEMORY_FILE_PATH")
	config.IDScheme = getEnvOrDefault("MEMORY_ID_SCHEME", string(idgen.SchemeSnowflake))
	config.Log.Level = getEnvOrDefault("LOG_LEVEL", "info")
	config.Log.Pretty = os.Getenv("LOG_PRETTY") == "true"
	config.Metrics.Enabled = os.Getenv("MEMORY_METRICS_ENABLED") == "true"
	config.Metrics.Namespace = os.Getenv("MEMORY_METRICS_NAMESPACE")

	var err error
	if config.SnowflakeNode, err = getEnvInt64("MEMORY_SNOWFLAKE_NODE", config.SnowflakeNode); err != nil {
		return nil, err
	}
	limit, err := getEnvInt64("MEMORY_SEARCH_LIMIT", int64(config.Search.DefaultLimit))
	if err != nil {
		return nil, err
	}
	config.Search.DefaultLimit = int(limit)
	k, err := getEnvInt64("MEMORY_RRF_K", int64(config.Search.RRFK))
	if err != nil {
		return nil, err
	}
	config.Search.RRFK = int(k)

	return config, nil
}

// LoadConfigFromEnvFile loads configuration from a specific .env file.
//
// Parameters:
//   - envPath: Path to the .env file
//
// Returns a Config instance, or an error if loading fails.
func LoadConfigFromEnvFile(envPath string) (*Config, error) {
	if err := godotenv.Load(envPath); err != nil {
		return nil, fmt.Errorf("failed to load .env file: %w", err)
	}
	return configFromEnv()
}

// LoadConfigFromJSON loads configuration from a JSON file.
//
// Fields missing from the file keep their DefaultConfig values.
//
// Parameters:
//   - path: Path to the JSON configuration file
//
// Returns a Config instance, or an error if loading or parsing fails.
func LoadConfigFromJSON(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}

	config := DefaultConfig()
	if err := json.Unmarshal(data, config); err != nil {
		return nil, NewMemoryError("LoadConfigFromJSON", err)
	}

	return config, nil
}

// Validate validates the configuration.
//
// Checks that:
//   - the backend provider is memory, file or none
//   - the ID scheme is known and the snowflake node is in range
//   - search defaults are not negative
//
// Returns an error wrapping ErrInvalidConfig if validation fails, nil otherwise.
func (c *Config) Validate() error {
	switch c.Backend.Provider {
	case ProviderMemory, ProviderFile, ProviderNone:
	default:
		return NewMemoryError("Validate", fmt.Errorf("%w: unknown backend provider %q", ErrInvalidConfig, c.Backend.Provider))
	}

	switch idgen.Scheme(c.IDScheme) {
	case "", idgen.SchemeSnowflake, idgen.SchemeUUID, idgen.SchemeNanoID:
	default:
		return NewMemoryError("Validate", fmt.Errorf("%w: unknown id scheme %q", ErrInvalidConfig, c.IDScheme))
	}

	if c.SnowflakeNode < 0 || c.SnowflakeNode > 1023 {
		return NewMemoryError("Validate", fmt.Errorf("%w: snowflake node %d out of range", ErrInvalidConfig, c.SnowflakeNode))
	}

	if c.Search.DefaultLimit < 0 || c.Search.RRFK < 0 {
		return NewMemoryError("Validate", fmt.Errorf("%w: negative search defaults", ErrInvalidConfig))
	}
	return nil
}

// getEnvOrDefault gets an environment variable or returns the default value.
func getEnvOrDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt64(key string, defaultValue int64) (int64, error) {
	value := os.Getenv(key)
	if value == "" {
		return defaultValue, nil
	}
	n, err := strconv.ParseInt(value, 10, 64)
	if err != nil {
		return 0, NewMemoryError("LoadConfigFromEnv", fmt.Errorf("%w: %s: %v", ErrInvalidConfig, key, err))
	}
	return n, nil
}

// FindEnvFile searches for .env or .env.example files.
//
// The search:
//  1. Checks the current directory
//  2. Searches up to 5 directory levels up
//  3. Returns the first .env or .env.example file found
//
// Returns:
//   - path: Path to the found file (empty if not found)
//   - found: True if a file was found, false otherwise
func FindEnvFile() (string, bool) {
	// First check the current directory
	if _, err := os.Stat(".env"); err == nil {
		return ".env", true
	}
	if _, err := os.Stat(".env.example"); err == nil {
		return ".env.example", true
	}

	// Check project root directory (search upward)
	dir, _ := os.Getwd()
	for i := 0; i < 5; i++ {
		envPath := filepath.Join(dir, ".env")
		envExamplePath := filepath.Join(dir, ".env.example")

		if _, err := os.Stat(envPath); err == nil {
			return envPath, true
		}
		if _, err := os.Stat(envExamplePath); err == nil {
			return envExamplePath, true
		}

		parent := filepath.Dir(dir)
		if parent == dir {
			break
		}
		dir = parent
	}

	return "", false
}
