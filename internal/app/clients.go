package app

import (
	"fmt"

	"github.com/kajkor/kajkor-backend/internal/observability"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime/bus"
)

type Clients struct {
	Bus     bus.Bus
	Metrics *observability.Metrics
}

func wireClients(log *logger.Logger, cfg Config) (Clients, error) {
	log.Info("Wiring clients...")
	var out Clients

	b, err := bus.New(log, cfg.RedisAddr, cfg.RedisChannel)
	if err != nil {
		return Clients{}, fmt.Errorf("init notification bus: %w", err)
	}
	out.Bus = b

	if cfg.MetricsEnabled {
		out.Metrics = observability.NewMetrics()
	}
	return out, nil
}

func (c Clients) Close() {
	if c.Bus != nil {
		_ = c.Bus.Close()
	}
}
