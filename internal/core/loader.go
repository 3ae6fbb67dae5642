package core

import (
	"context"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/rs/zerolog"

	"github.com/edvin/agencysites/internal/cache"
	"github.com/edvin/agencysites/internal/content"
	"github.com/edvin/agencysites/internal/metrics"
	"github.com/edvin/agencysites/internal/model"
)

// DefaultStoreTimeout bounds how long a render waits for the store.
const DefaultStoreTimeout = 3500 * time.Millisecond

// DocumentStore returns raw tenant documents by slug.
type DocumentStore interface {
	GetDocument(ctx context.Context, slug string) ([]byte, error)
}

// Snapshot is a tenant as loaded for one render. Degraded snapshots carry
// the demo content because the store did not answer in time.
type Snapshot struct {
	Tenant   *model.Tenant
	Degraded bool
}

// Loader reads tenants for rendering through a short-lived cache, with a
// bounded wait on the store.
type Loader struct {
	store   DocumentStore
	cache   cache.Cache
	timeout time.Duration
	ttl     time.Duration
}

func NewLoader(store DocumentStore, c cache.Cache, timeout, ttl time.Duration) *Loader {
	if c == nil {
		c = cache.Nop{}
	}
	if timeout <= 0 {
		timeout = DefaultStoreTimeout
	}
	return &Loader{store: store, cache: c, timeout: timeout, ttl: ttl}
}

func cacheKey(slug string) string {
	return "tenant:" + slug
}

// Load returns the tenant published under slug. An unknown slug is
// ErrNotFound; a slow or failing store yields a degraded demo snapshot and
// no error. A document with mistyped fields is repaired, never replaced
// by the demo agency. Every call returns a fresh copy the caller may modify.
func (l *Loader) Load(ctx context.Context, slug string) (Snapshot, error) {
	logger := zerolog.Ctx(ctx)
	key := cacheKey(slug)

	if doc, ok, err := l.cache.Get(ctx, key); err == nil && ok {
		if t, err := DecodeTenant(ctx, doc); err == nil {
			metrics.CacheLookups.WithLabelValues("hit").Inc()
			return Snapshot{Tenant: t}, nil
		}
		_ = l.cache.Delete(ctx, key)
	}
	metrics.CacheLookups.WithLabelValues("miss").Inc()

	storeCtx, cancel := context.WithTimeout(ctx, l.timeout)
	defer cancel()

	doc, err := l.store.GetDocument(storeCtx, slug)
	if err == nil {
		t, decodeErr := DecodeTenant(ctx, doc)
		if decodeErr == nil {
			// Cache the repaired form so mistyped fields are reported once per store read.
			if clean, err := json.Marshal(t); err == nil {
				doc = clean
			}
			if err := l.cache.Set(ctx, key, doc, l.ttl); err != nil {
				logger.Debug().Err(err).Str("slug", slug).Msg("cache tenant document")
			}
			return Snapshot{Tenant: t}, nil
		}
		err = decodeErr
	}

	if errors.Is(err, ErrNotFound) {
		if slug == content.DemoSlug {
			demo := content.DemoTenant()
			return Snapshot{Tenant: &demo}, nil
		}
		return Snapshot{}, fmt.Errorf("load tenant %s: %w", slug, err)
	}

	metrics.StoreFallbacks.Inc()
	logger.Warn().Err(err).Str("slug", slug).Dur("timeout", l.timeout).Msg("tenant store unavailable, serving demo content")
	demo := content.DemoTenant()
	demo.Slug = slug
	return Snapshot{Tenant: &demo, Degraded: true}, nil
}

// Invalidate drops the cached document for slug.
func (l *Loader) Invalidate(ctx context.Context, slug string) {
	_ = l.cache.Delete(ctx, cacheKey(slug))
}

// InvalidateOn drops cached documents whenever the watcher reports a change.
func (l *Loader) InvalidateOn(w *Watcher) (cancel func()) {
	return w.Subscribe("", func(c Change) {
		l.Invalidate(context.Background(), c.Slug)
	})
}
