package core

import (
	"context"
	"encoding/json"
	"fmt"
	"sync"
	"time"

	"github.com/jackc/pgx/v5/pgconn"
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/rs/zerolog"
)

// ChangeChannel is the Postgres notification channel fed by the tenants
// table trigger.
const ChangeChannel = "tenant_changed"

// Change identifies a tenant whose document was written.
type Change struct {
	TenantID string `json:"id"`
	Slug     string `json:"slug"`
}

// Watcher fans tenant change notifications out to subscribers.
type Watcher struct {
	logger zerolog.Logger

	mu     sync.RWMutex
	nextID int
	subs   map[int]subscription
}

type subscription struct {
	tenantID string
	fn       func(Change)
}

func NewWatcher(logger zerolog.Logger) *Watcher {
	return &Watcher{
		logger: logger.With().Str("component", "tenant-watcher").Logger(),
		subs:   make(map[int]subscription),
	}
}

// Subscribe registers onChange for one tenant, or for every tenant when
// tenantID is empty. Callbacks run on the watcher goroutine and must not
// block. The returned cancel func is safe to call more than once.
func (w *Watcher) Subscribe(tenantID string, onChange func(Change)) (cancel func()) {
	w.mu.Lock()
	id := w.nextID
	w.nextID++
	w.subs[id] = subscription{tenantID: tenantID, fn: onChange}
	w.mu.Unlock()

	var once sync.Once
	return func() {
		once.Do(func() {
			w.mu.Lock()
			delete(w.subs, id)
			w.mu.Unlock()
		})
	}
}

// Notify delivers a change to matching subscribers.
func (w *Watcher) Notify(c Change) {
	w.mu.RLock()
	targets := make([]func(Change), 0, len(w.subs))
	for _, s := range w.subs {
		if s.tenantID == "" || s.tenantID == c.TenantID {
			targets = append(targets, s.fn)
		}
	}
	w.mu.RUnlock()

	for _, fn := range targets {
		fn(c)
	}
}

// Subscribers returns the number of registered callbacks.
func (w *Watcher) Subscribers() int {
	w.mu.RLock()
	defer w.mu.RUnlock()
	return len(w.subs)
}

// notificationSource is satisfied by *pgx.Conn.
type notificationSource interface {
	WaitForNotification(ctx context.Context) (*pgconn.Notification, error)
}

// consume dispatches notifications until the source fails or ctx ends.
func (w *Watcher) consume(ctx context.Context, src notificationSource) error {
	for {
		n, err := src.WaitForNotification(ctx)
		if err != nil {
			return err
		}
		var c Change
		if err := json.Unmarshal([]byte(n.Payload), &c); err != nil || c.TenantID == "" {
			w.logger.Warn().Str("payload", n.Payload).Msg("ignoring malformed tenant change notification")
			continue
		}
		w.Notify(c)
	}
}

// Run listens for tenant changes until ctx is done, reconnecting with
// backoff after failures. The backoff starts over once LISTEN succeeds.
func (w *Watcher) Run(ctx context.Context, pool *pgxpool.Pool) {
	w.run(ctx, newRetryDelay(time.Second, 30*time.Second), func(ctx context.Context, listening func()) error {
		return w.listen(ctx, pool, listening)
	})
}

type listenFunc func(ctx context.Context, listening func()) error

func (w *Watcher) run(ctx context.Context, delay *retryDelay, listen listenFunc) {
	for {
		err := listen(ctx, delay.reset)
		if ctx.Err() != nil {
			return
		}
		wait := delay.next()
		w.logger.Warn().Err(err).Dur("retry_in", wait).Msg("tenant change listener stopped")
		select {
		case <-ctx.Done():
			return
		case <-time.After(wait):
		}
	}
}

func (w *Watcher) listen(ctx context.Context, pool *pgxpool.Pool, listening func()) error {
	conn, err := pool.Acquire(ctx)
	if err != nil {
		return fmt.Errorf("acquire listener connection: %w", err)
	}
	defer conn.Release()

	if _, err := conn.Exec(ctx, "LISTEN "+ChangeChannel); err != nil {
		return fmt.Errorf("listen %s: %w", ChangeChannel, err)
	}
	listening()
	w.logger.Info().Str("channel", ChangeChannel).Msg("listening for tenant changes")
	return w.consume(ctx, conn.Conn())
}

// retryDelay doubles from base up to max.
type retryDelay struct {
	base, max, cur time.Duration
}

func newRetryDelay(base, max time.Duration) *retryDelay {
	return &retryDelay{base: base, max: max, cur: base}
}

func (d *retryDelay) next() time.Duration {
	wait := d.cur
	d.cur = min(d.cur*2, d.max)
	return wait
}

func (d *retryDelay) reset() {
	d.cur = d.base
}
