package core

import (
	"time"

	"github.com/Nitin-100/rustedclaw-sub001/pkg/storage"
)

// AddOption is a function type for configuring Add operations.
//
// Options are applied using the functional options pattern, allowing
// flexible configuration without requiring all parameters.
type AddOption func(*AddOptions)

// AddOptions contains configuration options for Add operations.
type AddOptions struct {
	// ID overrides the generated ID. Adding an existing ID overwrites it.
	ID string

	// Tags are labels attached to the memory.
	Tags []string

	// Source records where the memory came from (e.g. a conversation ID).
	Source string

	// Embedding is a pre-computed vector for the content.
	Embedding []float32

	// CreatedAt overrides the creation time.
	CreatedAt time.Time
}

// WithID sets an explicit ID for Add operations.
//
// Example:
//
//	memory, _ := client.Add(ctx, "content", core.WithID("pref-language"))
func WithID(id string) AddOption {
	return func(opts *AddOptions) {
		opts.ID = id
	}
}

// WithTags sets tags for Add operations.
//
// Example:
//
//	memory, _ := client.Add(ctx, "content", core.WithTags("preference", "language"))
func WithTags(tags ...string) AddOption {
	return func(opts *AddOptions) {
		opts.Tags = tags
	}
}

// WithSource sets the provenance of the memory for Add operations.
func WithSource(source string) AddOption {
	return func(opts *AddOptions) {
		opts.Source = source
	}
}

// WithEmbedding attaches a pre-computed embedding for Add operations.
//
// Embeddings are not persisted by the file backend.
func WithEmbedding(embedding []float32) AddOption {
	return func(opts *AddOptions) {
		opts.Embedding = embedding
	}
}

// WithCreatedAt sets the creation time for Add operations.
func WithCreatedAt(t time.Time) AddOption {
	return func(opts *AddOptions) {
		opts.CreatedAt = t
	}
}

// applyAddOptions applies AddOption functions.
func applyAddOptions(opts []AddOption) *AddOptions {
	options := &AddOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}

// SearchOption is a function type for configuring Search operations.
type SearchOption func(*SearchOptions)

// SearchOptions contains configuration options for Search operations.
type SearchOptions struct {
	// Limit is the maximum number of results. Zero uses the client default.
	Limit int

	// MinScore drops results scoring below it.
	MinScore float64

	// Tags restricts results to memories sharing at least one tag.
	Tags []string

	// Mode selects keyword, vector or hybrid ranking.
	Mode storage.SearchMode

	// Embedding is the query vector for vector and hybrid ranking.
	Embedding []float32
}

// WithLimit sets the result limit for Search operations.
//
// Example:
//
//	results, _ := client.Search(ctx, "query", core.WithLimit(5))
func WithLimit(limit int) SearchOption {
	return func(opts *SearchOptions) {
		opts.Limit = limit
	}
}

// WithMinScore sets the minimum score for Search operations.
func WithMinScore(minScore float64) SearchOption {
	return func(opts *SearchOptions) {
		opts.MinScore = minScore
	}
}

// WithTagsForSearch restricts Search operations to the given tags.
//
// Example:
//
//	results, _ := client.Search(ctx, "query", core.WithTagsForSearch("work"))
func WithTagsForSearch(tags ...string) SearchOption {
	return func(opts *SearchOptions) {
		opts.Tags = tags
	}
}

// WithMode sets the ranking mode for Search operations.
func WithMode(mode storage.SearchMode) SearchOption {
	return func(opts *SearchOptions) {
		opts.Mode = mode
	}
}

// WithQueryEmbedding sets the query vector for Search operations.
//
// Example:
//
//	results, _ := client.Search(ctx, "rust", core.WithQueryEmbedding(vec))
func WithQueryEmbedding(embedding []float32) SearchOption {
	return func(opts *SearchOptions) {
		opts.Embedding = embedding
	}
}

// applySearchOptions applies SearchOption functions.
func applySearchOptions(opts []SearchOption) *SearchOptions {
	options := &SearchOptions{}
	for _, opt := range opts {
		opt(options)
	}
	return options
}
