package core

import (
	"context"
)

// DefaultStreamLimit is the maximum number of results SearchStream returns
// when no limit is given.
const DefaultStreamLimit = 1000

// StreamingSearchResult contains a batch of search results from streaming search.
type StreamingSearchResult struct {
	// Memories is a batch of matching memories.
	Memories []*Memory

	// BatchIndex is the index of this batch (0-based).
	BatchIndex int

	// IsLastBatch indicates whether this is the last batch.
	IsLastBatch bool

	// Error contains any error that occurred during streaming (if any).
	Error error
}

// SearchStream performs a search and streams the ranked results in batches.
//
// Ranking needs the full result set, so the search runs once and the
// results are then delivered batch by batch in score order. Without
// WithLimit, up to DefaultStreamLimit results are returned.
//
// Parameters:
//   - ctx: Context for cancellation
//   - query: Search query string
//   - batchSize: Number of results per batch (values < 1 mean 1)
//   - opts: Optional search parameters
//
// Returns a channel that receives StreamingSearchResult batches.
// The channel is closed when all results have been sent or an error occurs.
// A search with no results sends a single empty last batch.
//
// Example:
//
//	resultChan := client.SearchStream(ctx, "Python programming",
//	    50, // batch size
//	    core.WithLimit(200), // maximum total results
//	)
//
//	for result := range resultChan {
//	    if result.Error != nil {
//	        log.Fatal().Err(result.Error).Msg("stream failed")
//	    }
//	    for _, mem := range result.Memories {
//	        processMemory(mem)
//	    }
//	}
func (c *Client) SearchStream(ctx context.Context, query string, batchSize int, opts ...SearchOption) <-chan *StreamingSearchResult {
	resultChan := make(chan *StreamingSearchResult, 1)
	if batchSize < 1 {
		batchSize = 1
	}

	go func() {
		defer close(resultChan)

		q := c.buildQuery(query, opts)
		if applySearchOptions(opts).Limit <= 0 {
			q.Limit = DefaultStreamLimit
		}

		memories, err := c.backend.Search(ctx, q)
		if err != nil {
			resultChan <- &StreamingSearchResult{
				Error: NewMemoryError("SearchStream", err),
			}
			return
		}

		if len(memories) == 0 {
			resultChan <- &StreamingSearchResult{IsLastBatch: true}
			return
		}

		batchIndex := 0
		for i := 0; i < len(memories); i += batchSize {
			end := min(i+batchSize, len(memories))
			batch := &StreamingSearchResult{
				Memories:    memories[i:end],
				BatchIndex:  batchIndex,
				IsLastBatch: end >= len(memories),
			}

			select {
			case <-ctx.Done():
				// The consumer may have stopped reading; never block on the error.
				select {
				case resultChan <- &StreamingSearchResult{
					BatchIndex: batchIndex,
					Error:      NewMemoryError("SearchStream", ctx.Err()),
				}:
				default:
				}
				return
			case resultChan <- batch:
			}
			batchIndex++
		}
	}()

	return resultChan
}
