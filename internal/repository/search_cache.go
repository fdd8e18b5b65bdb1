package repository

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/redis/go-redis/v9"
	"github.com/rocketscienceinc/tictactoe-engine/internal/search"
)

const searchKeyPrefix = "search:"

// SearchCacheRepository keeps finished search results in redis so that every
// process behind the same redis shares one transposition cache.
type SearchCacheRepository struct {
	client *redis.Client
	ttl    time.Duration
}

// NewSearchCacheRepository - ttl of zero keeps entries forever.
func NewSearchCacheRepository(client *redis.Client, ttl time.Duration) *SearchCacheRepository {
	return &SearchCacheRepository{
		client: client,
		ttl:    ttl,
	}
}

func (that *SearchCacheRepository) Get(ctx context.Context, key search.Key) (search.Result, bool, error) {
	response, err := that.client.Get(ctx, searchKeyPrefix+key.String()).Result()

	if errors.Is(err, redis.Nil) {
		return search.Result{}, false, nil
	}

	if err != nil {
		return search.Result{}, false, fmt.Errorf("failed to get search result: %w", err)
	}

	var result search.Result
	if err = json.Unmarshal([]byte(response), &result); err != nil {
		return search.Result{}, false, fmt.Errorf("failed to unmarshal search result: %w", err)
	}

	return result, true, nil
}

func (that *SearchCacheRepository) Set(ctx context.Context, key search.Key, result search.Result) error {
	resultJSON, err := json.Marshal(result)
	if err != nil {
		return fmt.Errorf("could not marshal search result: %w", err)
	}

	if err = that.client.Set(ctx, searchKeyPrefix+key.String(), resultJSON, that.ttl).Err(); err != nil {
		return fmt.Errorf("failed to set search result: %w", err)
	}

	return nil
}

// Flush - removes every cached search result.
func (that *SearchCacheRepository) Flush(ctx context.Context) (int, error) {
	deleted := 0

	iter := that.client.Scan(ctx, 0, searchKeyPrefix+"*", 100).Iterator()
	for iter.Next(ctx) {
		if err := that.client.Del(ctx, iter.Val()).Err(); err != nil {
			return deleted, fmt.Errorf("failed to delete search result: %w", err)
		}
		deleted++
	}

	if err := iter.Err(); err != nil {
		return deleted, fmt.Errorf("failed to scan search results: %w", err)
	}

	return deleted, nil
}
