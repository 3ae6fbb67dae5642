package metrics

import (
	"github.com/jackc/pgx/v5/pgxpool"
	"github.com/prometheus/client_golang/prometheus"
)

// poolStater is satisfied by *pgxpool.Pool.
type poolStater interface {
	Stat() *pgxpool.Stat
}

// RegisterStoreMetrics exposes tenant store pool statistics on reg.
func RegisterStoreMetrics(reg prometheus.Registerer, pool poolStater) {
	gauge := func(name, help string, value func(s *pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewGaugeFunc(prometheus.GaugeOpts{
			Name: name,
			Help: help,
		}, func() float64 {
			return value(pool.Stat())
		})
	}
	counter := func(name, help string, value func(s *pgxpool.Stat) float64) prometheus.Collector {
		return prometheus.NewCounterFunc(prometheus.CounterOpts{
			Name: name,
			Help: help,
		}, func() float64 {
			return value(pool.Stat())
		})
	}

	reg.MustRegister(
		gauge("tenant_store_acquired_conns", "Connections currently checked out of the tenant store pool",
			func(s *pgxpool.Stat) float64 { return float64(s.AcquiredConns()) }),
		gauge("tenant_store_idle_conns", "Idle connections in the tenant store pool",
			func(s *pgxpool.Stat) float64 { return float64(s.IdleConns()) }),
		gauge("tenant_store_max_conns", "Maximum size of the tenant store pool",
			func(s *pgxpool.Stat) float64 { return float64(s.MaxConns()) }),
		counter("tenant_store_empty_acquires_total", "Acquires that had to wait for a connection",
			func(s *pgxpool.Stat) float64 { return float64(s.EmptyAcquireCount()) }),
		counter("tenant_store_acquire_wait_seconds_total", "Time spent waiting for pool connections",
			func(s *pgxpool.Stat) float64 { return s.AcquireDuration().Seconds() }),
	)
}
