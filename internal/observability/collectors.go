package observability

import (
	"context"
	"time"

	"github.com/redis/go-redis/v9"
	"gorm.io/gorm"

	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

const defaultCollectInterval = 10 * time.Second

// poll runs sample every interval until ctx is done.
func poll(ctx context.Context, interval time.Duration, sample func(context.Context)) {
	if interval <= 0 {
		interval = defaultCollectInterval
	}
	go func() {
		ticker := time.NewTicker(interval)
		defer ticker.Stop()
		for {
			select {
			case <-ctx.Done():
				return
			case <-ticker.C:
				sample(ctx)
			}
		}
	}()
}

// StartDBCollector samples the connection pool every interval until ctx is done.
func (m *Metrics) StartDBCollector(ctx context.Context, log *logger.Logger, db *gorm.DB, interval time.Duration) {
	if m == nil || db == nil {
		return
	}
	poll(ctx, interval, func(context.Context) {
		sqlDB, err := db.DB()
		if err != nil {
			if log != nil {
				log.Warn("metrics: db stats unavailable", "error", err)
			}
			return
		}
		st := sqlDB.Stats()
		for stat, v := range map[string]float64{
			"open_connections":      float64(st.OpenConnections),
			"in_use":                float64(st.InUse),
			"idle":                  float64(st.Idle),
			"wait_count":            float64(st.WaitCount),
			"wait_duration_seconds": st.WaitDuration.Seconds(),
		} {
			m.dbStats.set(v, stat)
		}
	})
}

// StartRedisCollector pings rdb every interval. The client is owned by the caller.
func (m *Metrics) StartRedisCollector(ctx context.Context, log *logger.Logger, rdb *redis.Client, interval time.Duration) {
	if m == nil || rdb == nil {
		return
	}
	poll(ctx, interval, func(ctx context.Context) {
		if err := rdb.Ping(ctx).Err(); err != nil {
			m.redisUp.set(0)
			if log != nil {
				log.Warn("metrics: redis ping failed", "error", err)
			}
			return
		}
		m.redisUp.set(1)
	})
}
