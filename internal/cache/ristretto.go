package cache

import (
	"context"
	"fmt"
	"time"

	"github.com/dgraph-io/ristretto/v2"
)

// Ristretto is an in-process cache bounded by total value size.
type Ristretto struct {
	c *ristretto.Cache[string, []byte]
}

// NewRistretto creates a ristretto-backed cache holding at most maxCostBytes
// of values.
func NewRistretto(maxCostBytes int64) (*Ristretto, error) {
	c, err := ristretto.NewCache(&ristretto.Config[string, []byte]{
		NumCounters: max(maxCostBytes/100*10, 1000),
		MaxCost:     maxCostBytes,
		BufferItems: 64,
	})
	if err != nil {
		return nil, fmt.Errorf("create ristretto cache: %w", err)
	}
	return &Ristretto{c: c}, nil
}

func (r *Ristretto) Get(_ context.Context, key string) ([]byte, bool, error) {
	val, found := r.c.Get(key)
	if !found {
		return nil, false, nil
	}
	return val, true, nil
}

// Set stores a value and waits until it is visible to Get.
func (r *Ristretto) Set(_ context.Context, key string, value []byte, ttl time.Duration) error {
	r.c.SetWithTTL(key, value, int64(len(value)), ttl)
	r.c.Wait()
	return nil
}

func (r *Ristretto) Delete(_ context.Context, key string) error {
	r.c.Del(key)
	return nil
}

// Close shuts down the cache and releases resources.
func (r *Ristretto) Close() {
	r.c.Close()
}
