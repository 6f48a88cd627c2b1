// Package storage provides interfaces and types for memory storage backends.
//
// It defines the Backend interface that all storage implementations must satisfy,
// along with the entry and query types shared by every backend.
package storage

import (
	"context"
	"time"
)

// DefaultLimit is the number of results returned when a query does not set one.
const DefaultLimit = 10

// Entry represents one memory stored in a backend.
type Entry struct {
	// ID is the unique identifier of the entry.
	// Backends assign one when it is empty at store time.
	ID string `json:"id"`

	// Content is the text content of the entry; the unit of retrieval.
	Content string `json:"content"`

	// Tags are caller-defined labels used for coarse filtering.
	Tags []string `json:"tags"`

	// Source records where the entry came from (e.g. a conversation ID).
	// Empty means no source.
	Source string `json:"source,omitempty"`

	// CreatedAt is when the entry was created.
	CreatedAt time.Time `json:"created_at"`

	// LastAccessed is refreshed whenever a search returns the entry.
	LastAccessed time.Time `json:"last_accessed"`

	// Score is the relevance score from search operations.
	// It is meaningless outside of search results and reset on store.
	Score float64 `json:"score"`

	// Embedding is the optional vector supplied by an external embedding process.
	// Entries without one are invisible to vector search. Never persisted.
	Embedding []float32 `json:"-"`
}

// Clone returns a deep copy of the entry.
func (e *Entry) Clone() *Entry {
	if e == nil {
		return nil
	}
	c := *e
	if e.Tags != nil {
		c.Tags = append([]string(nil), e.Tags...)
	}
	if e.Embedding != nil {
		c.Embedding = append([]float32(nil), e.Embedding...)
	}
	return &c
}

// HasAnyTag reports whether the entry carries at least one of tags.
// An empty tags list matches every entry.
func (e *Entry) HasAnyTag(tags []string) bool {
	if len(tags) == 0 {
		return true
	}
	for _, want := range tags {
		for _, have := range e.Tags {
			if want == have {
				return true
			}
		}
	}
	return false
}

// SearchMode declares how a query should be ranked.
type SearchMode string

const (
	// ModeKeyword ranks by case-insensitive occurrence count of the query text.
	ModeKeyword SearchMode = "keyword"

	// ModeVector ranks by cosine similarity against the query embedding.
	ModeVector SearchMode = "vector"

	// ModeHybrid fuses keyword and vector rankings with Reciprocal Rank Fusion.
	ModeHybrid SearchMode = "hybrid"
)

// Resolve returns the effective mode. The zero value resolves to ModeHybrid.
func (m SearchMode) Resolve() SearchMode {
	switch m {
	case ModeKeyword, ModeVector:
		return m
	default:
		return ModeHybrid
	}
}

// Query is a single search request.
type Query struct {
	// Text is matched as a case-insensitive substring of entry content.
	Text string `json:"text"`

	// Limit is the maximum number of results. Values <= 0 mean DefaultLimit.
	Limit int `json:"limit"`

	// MinScore drops results scoring below it (inclusive bound).
	MinScore float64 `json:"min_score"`

	// Tags restricts results to entries sharing at least one tag.
	Tags []string `json:"tags,omitempty"`

	// Mode selects the ranking strategy.
	Mode SearchMode `json:"mode,omitempty"`

	// Embedding is the query vector used by vector and hybrid modes.
	Embedding []float32 `json:"-"`
}

// NewQuery returns a query for text with the default limit and hybrid mode.
func NewQuery(text string) *Query {
	return &Query{
		Text:  text,
		Limit: DefaultLimit,
		Mode:  ModeHybrid,
	}
}

// EffectiveLimit returns Limit, or DefaultLimit when Limit is not positive.
func (q *Query) EffectiveLimit() int {
	if q.Limit <= 0 {
		return DefaultLimit
	}
	return q.Limit
}

// Backend defines the interface for memory storage backends.
//
// All storage implementations (in-memory, file, no-op) must implement this
// interface. Callers depend on Backend only and never on a concrete type.
type Backend interface {
	// Name returns the backend identifier (e.g. "in_memory", "file", "none").
	Name() string

	// Store inserts or overwrites an entry and returns its final ID.
	//
	// An empty entry ID is replaced with a generated one. Storing an ID that
	// already exists overwrites that entry.
	Store(ctx context.Context, entry *Entry) (string, error)

	// Search returns ranked entries for the query, at most query.Limit of them.
	//
	// Every returned entry has its LastAccessed refreshed in the backend.
	Search(ctx context.Context, query *Query) ([]*Entry, error)

	// Delete removes the entry with the given ID.
	//
	// Returns true if an entry was removed and false if the ID was absent.
	Delete(ctx context.Context, id string) (bool, error)

	// Get returns a copy of the entry with the given ID, or ErrNotFound.
	//
	// Get does not refresh LastAccessed.
	Get(ctx context.Context, id string) (*Entry, error)

	// Count returns the number of live entries.
	Count(ctx context.Context) (int, error)

	// Clear removes all entries, including any on-disk state.
	Clear(ctx context.Context) error

	// Close releases resources held by the backend.
	Close() error
}
