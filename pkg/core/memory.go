package core

import (
	"context"
	"strings"
	"time"

	"github.com/rs/zerolog"

	"github.com/Nitin-100/rustedclaw-sub001/internal/logger"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Client is the main memory client.
//
// It provides a complete interface for storing, retrieving, and managing
// memories on top of any storage.Backend, with support for:
//   - Keyword, vector and hybrid (RRF) search
//   - Tag filtering
//   - Persistent or in-process storage
//
// The client is thread-safe and can be used concurrently from multiple goroutines.
//
// Example usage:
//
//	config, _ := core.LoadConfigFromEnv()
//	client, _ := core.NewClient(config)
//	defer client.Close()
//
//	memory, _ := client.Add(ctx, "User prefers Rust",
//	    core.WithTags("preference"),
//	)
type Client struct {
	// config contains the client configuration.
	config *Config

	// backend stores the memories.
	backend storage.Backend

	// logger is the client logger.
	logger zerolog.Logger

	// now returns the current time.
	now func() time.Time
}

// NewClient creates a new memory client.
//
// The client is initialized with:
//   - A zerolog logger built from cfg.Log
//   - The backend selected by cfg.Backend (memory, file, none)
//   - Metrics if cfg.Metrics.Enabled
//
// Parameters:
//   - cfg: Configuration; nil means DefaultConfig()
//
// Returns a new Client instance, or an error if initialization fails.
//
// Example:
//
//	client, err := core.NewClient(&core.Config{
//	    Backend: core.BackendConfig{Provider: "file", Path: "./memories.jsonl"},
//	})
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = DefaultConfig()
	}

	// Validate configuration
	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	log := logger.New(logger.Config{
		Level:  cfg.Log.Level,
		Pretty: cfg.Log.Pretty,
	})

	backend, err := NewBackend(cfg, &log)
	if err != nil {
		return nil, err
	}

	return NewClientWithBackend(backend, cfg), nil
}

// NewClientWithBackend creates a client around an existing backend.
//
// Only the Search section of cfg is used; nil means DefaultConfig().
// Logging is disabled.
func NewClientWithBackend(backend storage.Backend, cfg *Config) *Client {
	if cfg == nil {
		cfg = DefaultConfig()
	}
	return &Client{
		config:  cfg,
		backend: backend,
		logger:  zerolog.Nop(),
		now:     time.Now,
	}
}

// Add stores a new memory.
//
// The memory is given an ID by the backend unless WithID is used; adding an
// existing ID overwrites that memory.
//
// Parameters:
//   - ctx: Context for cancellation
//   - content: Memory content (must not be blank)
//   - opts: Optional parameters (ID, Tags, Source, Embedding, CreatedAt)
//
// Returns the stored Memory. If the backend stored the memory but failed to
// persist it, both the Memory and an error wrapping ErrStorageOperation are
// returned.
//
// Example:
//
//	memory, err := client.Add(ctx, "User prefers dark mode",
//	    core.WithTags("preference", "ui"),
//	    core.WithSource("conversation_42"),
//	)
func (c *Client) Add(ctx context.Context, content string, opts ...AddOption) (*Memory, error) {
	if strings.TrimSpace(content) == "" {
		return nil, NewMemoryError("Add", ErrInvalidInput)
	}

	addOpts := applyAddOptions(opts)

	created := addOpts.CreatedAt
	if created.IsZero() {
		created = c.now()
	}

	memory := &Memory{
		ID:           addOpts.ID,
		Content:      content,
		Tags:         addOpts.Tags,
		Source:       addOpts.Source,
		CreatedAt:    created,
		LastAccessed: created,
		Embedding:    addOpts.Embedding,
	}

	id, err := c.backend.Store(ctx, memory)
	if err != nil && id == "" {
		return nil, NewMemoryError("Add", err)
	}
	memory.ID = id

	c.logger.Debug().Str("id", id).Int("tags", len(memory.Tags)).Msg("memory added")
	return memory, NewMemoryError("Add", err)
}

// Search searches memories.
//
// The ranking follows the mode (hybrid by default): keyword occurrence
// scoring, cosine similarity against WithQueryEmbedding, or Reciprocal Rank
// Fusion of both.
//
// Parameters:
//   - ctx: Context for cancellation
//   - query: Query text, matched case-insensitively against content
//   - opts: Optional parameters (Limit, MinScore, Tags, Mode, QueryEmbedding)
//
// Returns matching memories sorted by score, highest first.
//
// Example:
//
//	results, err := client.Search(ctx, "rust",
//	    core.WithLimit(5),
//	    core.WithTagsForSearch("preference"),
//	)
func (c *Client) Search(ctx context.Context, query string, opts ...SearchOption) ([]*Memory, error) {
	results, err := c.backend.Search(ctx, c.buildQuery(query, opts))
	if err != nil {
		return nil, NewMemoryError("Search", err)
	}
	return results, nil
}

func (c *Client) buildQuery(text string, opts []SearchOption) *storage.Query {
	searchOpts := applySearchOptions(opts)

	limit := searchOpts.Limit
	if limit <= 0 {
		limit = c.config.Search.DefaultLimit
	}

	return &storage.Query{
		Text:      text,
		Limit:     limit,
		MinScore:  searchOpts.MinScore,
		Tags:      searchOpts.Tags,
		Mode:      searchOpts.Mode.Resolve(),
		Embedding: searchOpts.Embedding,
	}
}

// Get retrieves a memory by ID.
//
// Returns an error wrapping ErrNotFound if no memory has the ID.
func (c *Client) Get(ctx context.Context, id string) (*Memory, error) {
	memory, err := c.backend.Get(ctx, id)
	if err != nil {
		return nil, NewMemoryError("Get", err)
	}
	return memory, nil
}

// Delete deletes a memory by ID.
//
// Returns true if a memory was deleted and false if none had the ID.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	deleted, err := c.backend.Delete(ctx, id)
	return deleted, NewMemoryError("Delete", err)
}

// Count returns the number of stored memories.
func (c *Client) Count(ctx context.Context) (int, error) {
	n, err := c.backend.Count(ctx)
	if err != nil {
		return 0, NewMemoryError("Count", err)
	}
	return n, nil
}

// Clear deletes all memories.
func (c *Client) Clear(ctx context.Context) error {
	return NewMemoryError("Clear", c.backend.Clear(ctx))
}

// Backend returns the backend used by the client.
func (c *Client) Backend() storage.Backend {
	return c.backend
}

// Close closes the client and releases the backend.
func (c *Client) Close() error {
	return NewMemoryError("Close", c.backend.Close())
}
