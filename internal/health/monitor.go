package health

import (
	"context"
	"errors"
	"sync"
	"time"

	"github.com/agriferti/agriferti-backend/pkg/logger"
	"github.com/agriferti/agriferti-backend/pkg/metrics"
)

// Pinger is anything with a liveness probe.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Snapshot is the advisory result of the most recent poll. It never gates
// request handling; /health/ready reports it as-is.
type Snapshot struct {
	DBHealthy    bool      `json:"db_healthy"`
	RedisHealthy bool      `json:"redis_healthy"`
	CheckedAt    time.Time `json:"checked_at"`
}

// Healthy reports whether every dependency answered the last poll.
func (s Snapshot) Healthy() bool {
	return s.DBHealthy && s.RedisHealthy
}

// Monitor polls the backing dependencies on a fixed interval and keeps the
// latest snapshot for the readiness endpoint and the liveness gauge.
type Monitor struct {
	db       Pinger
	redis    Pinger
	interval time.Duration
	timeout  time.Duration
	metrics  *metrics.SaleMetrics
	logg     *logger.Logger

	mu   sync.RWMutex
	last Snapshot
}

// NewMonitor constructs a monitor. interval defaults to 30 seconds.
func NewMonitor(db, redis Pinger, interval time.Duration, saleMetrics *metrics.SaleMetrics, logg *logger.Logger) (*Monitor, error) {
	if db == nil {
		return nil, errors.New("db pinger required")
	}
	if redis == nil {
		return nil, errors.New("redis pinger required")
	}
	if logg == nil {
		return nil, errors.New("logger required")
	}
	if interval <= 0 {
		interval = 30 * time.Second
	}
	return &Monitor{
		db:       db,
		redis:    redis,
		interval: interval,
		timeout:  5 * time.Second,
		metrics:  saleMetrics,
		logg:     logg,
	}, nil
}

// Run polls until ctx is cancelled. An immediate first poll seeds the
// snapshot before the first tick.
func (m *Monitor) Run(ctx context.Context) {
	m.poll(ctx)

	ticker := time.NewTicker(m.interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			m.poll(ctx)
		}
	}
}

// Snapshot returns the most recent poll result.
func (m *Monitor) Snapshot() Snapshot {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.last
}

func (m *Monitor) poll(ctx context.Context) {
	probeCtx, cancel := context.WithTimeout(ctx, m.timeout)
	defer cancel()

	snap := Snapshot{
		DBHealthy:    m.probe(probeCtx, "postgres", m.db),
		RedisHealthy: m.probe(probeCtx, "redis", m.redis),
		CheckedAt:    time.Now().UTC(),
	}

	m.mu.Lock()
	m.last = snap
	m.mu.Unlock()
}

func (m *Monitor) probe(ctx context.Context, name string, pinger Pinger) bool {
	err := pinger.Ping(ctx)
	up := err == nil
	m.metrics.SetDependencyUp(name, up)
	if err != nil {
		m.logg.Error(ctx, "liveness probe failed: "+name, err)
	}
	return up
}
