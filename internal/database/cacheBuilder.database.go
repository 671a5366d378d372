package database

import (
	"context"
	"encoding/json"
	"fmt"
	"strings"
	"time"

	"github.com/valkey-io/valkey-go"
)

// CacheBuilder is a small fluent helper over the valkey client for the
// JSON get/set/delete pattern every repository uses.
type CacheBuilder struct {
	cache      valkey.Client
	key        string
	value      string
	ttl        time.Duration
	ctx        context.Context
	ctxTimeout time.Duration
	err        error
}

func NewCacheBuilder(cache valkey.Client, key string) *CacheBuilder {
	return &CacheBuilder{
		cache:      cache,
		key:        key,
		ttl:        1 * time.Hour,
		ctxTimeout: 5 * time.Second,
		ctx:        context.Background(),
	}
}

func (cb *CacheBuilder) WithStruct(value any) *CacheBuilder {
	bytes, err := json.Marshal(value)
	if err != nil {
		cb.err = fmt.Errorf("failed to marshal value to json: %w", err)
		return cb
	}

	cb.value = string(bytes)
	return cb
}

// WithHash prefixes the key with a cache namespace, "hash:key".
func (cb *CacheBuilder) WithHash(hash string) *CacheBuilder {
	if hash != "" {
		cb.key = fmt.Sprintf("%s:%s", hash, cb.key)
	}

	return cb
}

func (cb *CacheBuilder) WithTTL(ttl time.Duration) *CacheBuilder {
	cb.ttl = ttl
	return cb
}

func (cb *CacheBuilder) WithContext(ctx context.Context) *CacheBuilder {
	cb.ctx = ctx
	return cb
}

func (cb *CacheBuilder) Set() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.key == "" {
		return fmt.Errorf("key is required")
	}

	if cb.value == "" {
		return fmt.Errorf("value is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Set().Key(cb.key).Value(cb.value).Ex(cb.ttl).Build()).
		Error()
}

// Get unmarshals the cached JSON into result. Returns false with no
// error on a cache miss.
func (cb *CacheBuilder) Get(result any) (bool, error) {
	if cb.err != nil {
		return false, cb.err
	}

	if cb.key == "" {
		return false, fmt.Errorf("key is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	data, err := cb.cache.Do(ctx, cb.cache.B().Get().Key(cb.key).Build()).ToString()
	if err != nil {
		if isKeyNotFoundError(err) {
			return false, nil
		}
		return false, err
	}

	if data == "" {
		return false, nil
	}

	err = json.Unmarshal([]byte(data), result)
	if err != nil {
		return false, err
	}

	return true, nil
}

func (cb *CacheBuilder) Delete() error {
	if cb.err != nil {
		return cb.err
	}

	if cb.key == "" {
		return fmt.Errorf("key is required")
	}

	ctx, cancel := cb.createTimeoutContext()
	defer cancel()

	return cb.cache.Do(ctx, cb.cache.B().Del().Key(cb.key).Build()).Error()
}

func (cb *CacheBuilder) createTimeoutContext() (context.Context, context.CancelFunc) {
	return context.WithTimeout(cb.ctx, cb.ctxTimeout)
}

func isKeyNotFoundError(err error) bool {
	if err == nil {
		return false
	}

	errStr := err.Error()
	return strings.Contains(errStr, "key not found") ||
		strings.Contains(errStr, "nil") ||
		valkey.IsValkeyNil(err)
}
