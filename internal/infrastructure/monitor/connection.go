package monitor

import (
	"context"
	"sync"
	"time"

	redislib "github.com/redis/go-redis/v9"
	"go.uber.org/zap"
)

// Pinger is implemented by *pgxpool.Pool and the BoltDB store.
type Pinger interface {
	Ping(ctx context.Context) error
}

// Monitor caches the reachability of the board's dependencies. Refresh is
// driven by the scheduler; GetStatus never blocks on the network.
type Monitor struct {
	storage Pinger
	driver  string
	redis   *redislib.Client

	status Status
	mu     sync.RWMutex
	now    func() time.Time
	logger *zap.Logger
}

func New(storage Pinger, driver string, redis *redislib.Client, logger *zap.Logger) *Monitor {
	if logger == nil {
		logger = zap.NewNop()
	}
	return &Monitor{
		storage: storage,
		driver:  driver,
		redis:   redis,
		now:     time.Now,
		logger:  logger,
		status:  Status{StorageDriver: driver},
	}
}

func (m *Monitor) IsOnline() bool {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status.Healthy()
}

func (m *Monitor) GetStatus() Status {
	m.mu.RLock()
	defer m.mu.RUnlock()
	return m.status
}

// Refresh pings every dependency and records the result. It only returns
// ctx errors.
func (m *Monitor) Refresh(ctx context.Context) error {
	status := Status{
		Storage:       m.checkStorage(ctx),
		StorageDriver: m.driver,
		Redis:         m.checkRedis(ctx),
		LastCheck:     m.now(),
	}

	m.mu.Lock()
	prev := m.status
	m.status = status
	m.mu.Unlock()

	if !prev.LastCheck.IsZero() && prev.Healthy() != status.Healthy() {
		m.logger.Warn("dependency health changed",
			zap.Bool("storage", status.Storage),
			zap.Bool("redis", status.Redis),
		)
	}
	return ctx.Err()
}

func (m *Monitor) checkStorage(ctx context.Context) bool {
	if m.storage == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 3*time.Second)
	defer cancel()
	return m.storage.Ping(ctx) == nil
}

func (m *Monitor) checkRedis(ctx context.Context) bool {
	if m.redis == nil {
		return false
	}
	ctx, cancel := context.WithTimeout(ctx, 2*time.Second)
	defer cancel()
	return m.redis.Ping(ctx).Err() == nil
}
