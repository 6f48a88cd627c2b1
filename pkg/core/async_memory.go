package core

import (
	"context"
	"sync"
)

// AsyncClient runs Client operations on their own goroutines.
//
// Each *Async method returns a channel that receives exactly one result and
// is then closed. Wait blocks until every started operation has delivered.
//
//	ac, _ := core.NewAsyncClient(config)
//	defer ac.Close()
//
//	res := <-ac.AddAsync(ctx, "User likes Python", core.WithTags("preference"))
type AsyncClient struct {
	*Client
	wg sync.WaitGroup
}

// MemoryResult carries the outcome of AddAsync or GetAsync.
type MemoryResult struct {
	Memory *Memory
	Error  error
}

// AsyncSearchResult carries the outcome of SearchAsync.
type AsyncSearchResult struct {
	Memories []*Memory
	Error    error
}

// DeleteResult carries the outcome of DeleteAsync.
type DeleteResult struct {
	Deleted bool
	Error   error
}

// NewAsyncClient builds a Client from cfg and wraps it.
func NewAsyncClient(cfg *Config) (*AsyncClient, error) {
	client, err := NewClient(cfg)
	if err != nil {
		return nil, err
	}
	return &AsyncClient{Client: client}, nil
}

// NewAsyncClientWithBackend wraps a client over an existing backend.
func NewAsyncClientWithBackend(backend Backend, cfg *Config) *AsyncClient {
	return &AsyncClient{Client: NewClientWithBackend(backend, cfg)}
}

// spawn runs fn on a goroutine tracked by wg and delivers its value on a
// channel with room for it, so the goroutine never waits on the reader.
func spawn[T any](wg *sync.WaitGroup, fn func() T) <-chan T {
	ch := make(chan T, 1)
	wg.Add(1)
	go func() {
		defer wg.Done()
		defer close(ch)
		ch <- fn()
	}()
	return ch
}

// AddAsync is the asynchronous form of Add.
func (ac *AsyncClient) AddAsync(ctx context.Context, content string, opts ...AddOption) <-chan *MemoryResult {
	return spawn(&ac.wg, func() *MemoryResult {
		memory, err := ac.Add(ctx, content, opts...)
		return &MemoryResult{Memory: memory, Error: err}
	})
}

// SearchAsync is the asynchronous form of Search.
func (ac *AsyncClient) SearchAsync(ctx context.Context, query string, opts ...SearchOption) <-chan *AsyncSearchResult {
	return spawn(&ac.wg, func() *AsyncSearchResult {
		memories, err := ac.Search(ctx, query, opts...)
		return &AsyncSearchResult{Memories: memories, Error: err}
	})
}

// GetAsync is the asynchronous form of Get.
func (ac *AsyncClient) GetAsync(ctx context.Context, id string) <-chan *MemoryResult {
	return spawn(&ac.wg, func() *MemoryResult {
		memory, err := ac.Get(ctx, id)
		return &MemoryResult{Memory: memory, Error: err}
	})
}

// DeleteAsync is the asynchronous form of Delete.
func (ac *AsyncClient) DeleteAsync(ctx context.Context, id string) <-chan *DeleteResult {
	return spawn(&ac.wg, func() *DeleteResult {
		deleted, err := ac.Delete(ctx, id)
		return &DeleteResult{Deleted: deleted, Error: err}
	})
}

// ClearAsync is the asynchronous form of Clear.
func (ac *AsyncClient) ClearAsync(ctx context.Context) <-chan error {
	return spawn(&ac.wg, func() error {
		return ac.Clear(ctx)
	})
}

// Wait blocks until every pending operation has finished.
func (ac *AsyncClient) Wait() {
	ac.wg.Wait()
}

// Close waits for pending operations, then closes the underlying client.
func (ac *AsyncClient) Close() error {
	ac.Wait()
	return ac.Client.Close()
}
