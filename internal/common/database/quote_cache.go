// internal/common/database/quote_cache.go
package database

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"strconv"
	"strings"
	"time"

	apperrors "home-quote-workers/internal/common/errors"

	"github.com/redis/go-redis/v9"
)

const quoteKeyPrefix = "quote:v1:"

// QuoteCache is a read-through cache of computed quotes. Quotes are a pure
// function of their inputs, so entries never go stale; the TTL only bounds
// memory. A nil *QuoteCache is valid and caches nothing.
type QuoteCache struct {
	client *redis.Client
	ttl    time.Duration
}

// NewQuoteCache returns nil when client is nil or ttl is not positive.
func NewQuoteCache(client *redis.Client, ttl time.Duration) *QuoteCache {
	if client == nil || ttl <= 0 {
		return nil
	}
	return &QuoteCache{client: client, ttl: ttl}
}

// QuoteKey normalizes quote inputs into a cache key. State and property type
// are free text, so they are Go-quoted to keep the separator unambiguous. A nil
// square footage and zero encode differently so the key reflects the request,
// not the result.
func QuoteKey(state, propertyType string, squareFootage *float64, roofAge float64) string {
	sqft := "none"
	if squareFootage != nil {
		sqft = strconv.FormatFloat(*squareFootage, 'g', -1, 64)
	}
	return quoteKeyPrefix + strings.Join([]string{
		strconv.Quote(state),
		strconv.Quote(propertyType),
		sqft,
		strconv.FormatFloat(roofAge, 'g', -1, 64),
	}, "|")
}

// Get loads key into dst. found is false on a miss.
func (c *QuoteCache) Get(ctx context.Context, key string, dst interface{}) (found bool, err error) {
	if c == nil {
		return false, nil
	}

	val, err := c.client.Get(ctx, key).Result()
	if errors.Is(err, redis.Nil) {
		return false, nil
	}
	if err != nil {
		return false, apperrors.NewQuoteCacheFailedError("get", err)
	}

	if err := json.Unmarshal([]byte(val), dst); err != nil {
		return false, apperrors.NewQuoteCacheFailedError("decode", fmt.Errorf("key %s: %w", key, err))
	}
	return true, nil
}

func (c *QuoteCache) Set(ctx context.Context, key string, v interface{}) error {
	if c == nil {
		return nil
	}

	data, err := json.Marshal(v)
	if err != nil {
		return apperrors.NewQuoteCacheFailedError("encode", err)
	}
	if err := c.client.Set(ctx, key, data, c.ttl).Err(); err != nil {
		return apperrors.NewQuoteCacheFailedError("set", err)
	}
	return nil
}
