package search

import (
	"context"
	"fmt"
	"sync"

	"github.com/rocketscienceinc/tictactoe-engine/internal/entity"
)

// Key identifies a search by position, perspective and depth. Pruning does not
// change results, so it is not part of the key.
type Key struct {
	Board entity.Board
	Mark  entity.Mark
	Depth int
}

func (that Key) String() string {
	return fmt.Sprintf("%s:%s:%d", that.Board, that.Mark, that.Depth)
}

// Cache stores finished top-level results. A miss is reported with ok=false
// and a nil error.
type Cache interface {
	Get(ctx context.Context, key Key) (Result, bool, error)
	Set(ctx context.Context, key Key, result Result) error
}

// MemoryCache is a process-local Cache.
type MemoryCache struct {
	mu      sync.RWMutex
	entries map[Key]Result
}

func NewMemoryCache() *MemoryCache {
	return &MemoryCache{
		entries: make(map[Key]Result),
	}
}

func (that *MemoryCache) Get(_ context.Context, key Key) (Result, bool, error) {
	that.mu.RLock()
	defer that.mu.RUnlock()

	result, ok := that.entries[key]

	return result, ok, nil
}

func (that *MemoryCache) Set(_ context.Context, key Key, result Result) error {
	that.mu.Lock()
	defer that.mu.Unlock()

	that.entries[key] = result

	return nil
}

// Flush - drops every entry and reports how many there were.
func (that *MemoryCache) Flush(_ context.Context) (int, error) {
	that.mu.Lock()
	defer that.mu.Unlock()

	deleted := len(that.entries)
	that.entries = make(map[Key]Result)

	return deleted, nil
}

func (that *MemoryCache) Len() int {
	that.mu.RLock()
	defer that.mu.RUnlock()

	return len(that.entries)
}
