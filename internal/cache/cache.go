// Package cache defines the key-value cache used for tenant documents.
package cache

import (
	"context"
	"time"
)

// Cache is a byte-value key cache. Implementations must be safe for
// concurrent use.
type Cache interface {
	Get(ctx context.Context, key string) ([]byte, bool, error)
	Set(ctx context.Context, key string, value []byte, ttl time.Duration) error
	Delete(ctx context.Context, key string) error
}

// Nop is a cache that never stores anything.
type Nop struct{}

func (Nop) Get(context.Context, string) ([]byte, bool, error)          { return nil, false, nil }
func (Nop) Set(context.Context, string, []byte, time.Duration) error { return nil }
func (Nop) Delete(context.Context, string) error                      { return nil }
