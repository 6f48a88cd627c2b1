// Package file provides a durable memory backend backed by a JSON-lines file.
//
// Entries are loaded into memory when the client is created and the whole
// file is rewritten after every mutation (store, delete, clear). Reads are
// served from memory. The file is human-readable with one entry per line:
//
//	{"id":"...","content":"...","tags":["..."],"source":null,"created_at":"...","last_accessed":"...","score":0}
//
// Embeddings are never written; they must be re-supplied after a restart.
package file

import (
	"context"
	"os"
	"path/filepath"
	"sync"
	"time"

	"github.com/moby/sys/atomicwriter"
	"github.com/rs/zerolog"

	"github.com/Nitin-100/rustedclaw-sub001/internal/entryset"
	"github.com/Nitin-100/rustedclaw-sub001/internal/logger"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/idgen"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/ranking"
	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// Name is the backend identifier.
const Name = "file"

// Client implements storage.Backend on top of a JSON-lines file.
type Client struct {
	// path is the location of the JSON-lines file.
	path string

	// mu guards entries and serialises rewrites of the file.
	mu      sync.RWMutex
	entries *entryset.Set

	ids    idgen.Generator
	rrfK   int
	logger zerolog.Logger
	now    func() time.Time
}

// Config contains configuration for creating a file backend.
type Config struct {
	// Path is the JSON-lines file. Defaults to DefaultPath().
	Path string

	// IDGenerator assigns IDs to entries stored without one.
	// Defaults to a snowflake generator.
	IDGenerator idgen.Generator

	// Logger receives load, flush and skipped-line events. Nil disables logging.
	Logger *zerolog.Logger

	// RRFK is the fusion constant for hybrid search. Values <= 0 mean
	// ranking.DefaultRRFK.
	RRFK int
}

// DefaultPath returns ~/.rustedclaw/memory/memories.jsonl, or a path relative
// to the working directory when no home directory is known.
func DefaultPath() string {
	home, err := os.UserHomeDir()
	if err != nil || home == "" {
		home = "."
	}
	return filepath.Join(home, ".rustedclaw", "memory", "memories.jsonl")
}

// NewClient creates a file backend and loads any existing entries.
//
// A missing file yields an empty backend; the file is created on the first
// mutation. Lines that are not valid entries are skipped with a warning.
//
// Parameters:
//   - cfg: Backend configuration; nil uses defaults
//
// Returns:
//   - *Client: The file backend
//   - error: A *storage.Error if the file exists but cannot be read
func NewClient(cfg *Config) (*Client, error) {
	if cfg == nil {
		cfg = &Config{}
	}
	path := cfg.Path
	if path == "" {
		path = DefaultPath()
	}
	ids := cfg.IDGenerator
	if ids == nil {
		ids = idgen.Default()
	}
	k := cfg.RRFK
	if k <= 0 {
		k = ranking.DefaultRRFK
	}

	c := &Client{
		path:    path,
		entries: entryset.New(),
		ids:     ids,
		rrfK:    k,
		logger:  logger.OrNop(cfg.Logger).With().Str("backend", Name).Str("path", path).Logger(),
		now:     time.Now,
	}

	if err := c.load(); err != nil {
		return nil, err
	}
	return c, nil
}

// Path returns the location of the backing file.
func (c *Client) Path() string {
	return c.path
}

// Name returns "file".
func (c *Client) Name() string {
	return Name
}

// Store inserts or overwrites an entry and rewrites the file.
//
// If the rewrite fails the entry stays stored in memory and a *storage.Error
// is returned together with the ID.
func (c *Client) Store(ctx context.Context, entry *storage.Entry) (string, error) {
	if err := ctx.Err(); err != nil {
		return "", err
	}

	e := entryset.Prepare(entry, c.ids, c.now())

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Upsert(e)
	return e.ID, c.flushLocked()
}

// Search ranks the loaded entries for the query and refreshes LastAccessed on
// every returned entry. The file is not touched; refreshed timestamps are
// written by the next mutation.
func (c *Client) Search(ctx context.Context, query *storage.Query) ([]*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	results := ranking.Search(c.entries.All(), query, c.rrfK)
	matched := c.entries.Stored(results)
	c.mu.RUnlock()

	if len(results) > 0 {
		now := c.now()
		entryset.Stamp(results, now)
		c.mu.Lock()
		c.entries.Touch(matched, now)
		c.mu.Unlock()
	}
	return results, nil
}

// Delete removes the entry with the given ID. The file is rewritten only
// when an entry was actually removed.
func (c *Client) Delete(ctx context.Context, id string) (bool, error) {
	if err := ctx.Err(); err != nil {
		return false, err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	if !c.entries.Delete(id) {
		return false, nil
	}
	return true, c.flushLocked()
}

// Get returns a copy of the entry with the given ID.
func (c *Client) Get(ctx context.Context, id string) (*storage.Entry, error) {
	if err := ctx.Err(); err != nil {
		return nil, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entries.Get(id)
	if !ok {
		return nil, storage.ErrNotFound
	}
	return e, nil
}

// Count returns the number of loaded entries.
func (c *Client) Count(ctx context.Context) (int, error) {
	if err := ctx.Err(); err != nil {
		return 0, err
	}

	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.entries.Len(), nil
}

// Clear removes all entries and truncates the file.
func (c *Client) Clear(ctx context.Context) error {
	if err := ctx.Err(); err != nil {
		return err
	}

	c.mu.Lock()
	defer c.mu.Unlock()

	c.entries.Clear()
	return c.flushLocked()
}

// Close is a no-op; every mutation is already on disk.
func (c *Client) Close() error {
	return nil
}

// flushLocked rewrites the whole file from memory. The caller holds mu for
// writing.
func (c *Client) flushLocked() error {
	buf, err := encode(c.entries.All())
	if err != nil {
		return &storage.Error{Op: "encode", Path: c.path, Err: err}
	}

	if dir := filepath.Dir(c.path); dir != "" && dir != "." {
		if err := os.MkdirAll(dir, 0755); err != nil {
			return &storage.Error{Op: "flush", Path: c.path, Err: err}
		}
	}

	if err := atomicwriter.WriteFile(c.path, buf, 0644); err != nil {
		return &storage.Error{Op: "flush", Path: c.path, Err: err}
	}

	c.logger.Debug().Int("count", c.entries.Len()).Msg("flushed memory file")
	return nil
}

var _ storage.Backend = (*Client)(nil)
