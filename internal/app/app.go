package app

import (
	"context"
	"fmt"
	"time"

	"golang.org/x/sync/errgroup"
	"gorm.io/gorm"

	dbpkg "github.com/kajkor/kajkor-backend/internal/data/db"
	httpserver "github.com/kajkor/kajkor-backend/internal/http"
	"github.com/kajkor/kajkor-backend/internal/observability"
	"github.com/kajkor/kajkor-backend/internal/platform/clock"
	"github.com/kajkor/kajkor-backend/internal/platform/envutil"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
	"github.com/kajkor/kajkor-backend/internal/realtime/bus"
)

const collectorInterval = 15 * time.Second

type App struct {
	Log      *logger.Logger
	DB       *gorm.DB
	Server   *httpserver.Server
	Cfg      Config
	Repos    Repos
	Services Services
	Clients  Clients

	dbService    *dbpkg.Service
	otelShutdown func(context.Context) error
}

// Options overrides pieces of the wiring, mostly for tests.
type Options struct {
	Log   *logger.Logger
	Clock clock.Clock
}

// Bootstrap builds the logger from LOG_MODE, loads configuration and wires the app.
func Bootstrap(ctx context.Context, configPath string) (*App, error) {
	log, err := logger.New(envLogMode())
	if err != nil {
		return nil, fmt.Errorf("init logger: %w", err)
	}
	log.Info("Loading configuration...")
	cfg, err := LoadConfig(log, configPath)
	if err != nil {
		log.Sync()
		return nil, err
	}
	return New(ctx, cfg, Options{Log: log})
}

func New(ctx context.Context, cfg Config, opts Options) (*App, error) {
	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}
	log := opts.Log
	if log == nil {
		var err error
		if log, err = logger.New(cfg.LogMode); err != nil {
			return nil, fmt.Errorf("init logger: %w", err)
		}
	}

	otelShutdown := observability.InitOTel(ctx, log, observability.OtelConfig{
		Enabled:     cfg.Otel.Enabled,
		ServiceName: cfg.Otel.ServiceName,
		Environment: cfg.Env,
		Endpoint:    cfg.Otel.Endpoint,
		Headers:     cfg.Otel.Headers,
		Insecure:    cfg.Otel.Insecure,
		SampleRatio: cfg.Otel.SampleRatio,
	})

	dbService, err := dbpkg.NewService(cfg.DatabaseConfig(), log)
	if err != nil {
		log.Sync()
		return nil, fmt.Errorf("init database: %w", err)
	}
	if err := dbpkg.AutoMigrateAll(dbService.DB()); err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, fmt.Errorf("automigrate: %w", err)
	}
	theDB := dbService.DB()

	clients, err := wireClients(log, cfg)
	if err != nil {
		_ = dbService.Close()
		log.Sync()
		return nil, err
	}

	repoSet := wireRepos(theDB, log)
	serviceSet := wireServices(theDB, log, cfg, repoSet, clients, opts.Clock)
	handlerSet := wireHandlers(log, theDB, serviceSet)
	mw := wireMiddleware(log, serviceSet)
	server := wireServer(log, cfg, clients.Metrics, handlerSet, mw)

	return &App{
		Log:          log,
		DB:           theDB,
		Server:       server,
		Cfg:          cfg,
		Repos:        repoSet,
		Services:     serviceSet,
		Clients:      clients,
		dbService:    dbService,
		otelShutdown: otelShutdown,
	}, nil
}

// Migrate opens the configured database, migrates every model and closes it again.
func Migrate(cfg Config, log *logger.Logger) error {
	svc, err := dbpkg.NewService(cfg.DatabaseConfig(), log)
	if err != nil {
		return fmt.Errorf("init database: %w", err)
	}
	defer svc.Close()
	if err := dbpkg.AutoMigrateAll(svc.DB()); err != nil {
		return fmt.Errorf("automigrate: %w", err)
	}
	log.Info("Migration complete", "driver", svc.Driver())
	return nil
}

// Run serves HTTP on addr until ctx is cancelled. Background collectors and the
// bus forwarder share the same lifetime.
func (a *App) Run(ctx context.Context, addr string) error {
	if a == nil || a.Server == nil {
		return fmt.Errorf("app not initialized")
	}
	if addr == "" {
		addr = ":" + a.Cfg.Port
	}

	g, gctx := errgroup.WithContext(ctx)

	if m := a.Clients.Metrics; m != nil {
		m.StartDBCollector(gctx, a.Log, a.DB, collectorInterval)
		if rdb := bus.RedisClient(a.Clients.Bus); rdb != nil {
			m.StartRedisCollector(gctx, a.Log, rdb, collectorInterval)
		}
	}

	if a.Clients.Bus != nil {
		log := a.Log.With("component", "NotificationForwarder")
		if err := a.Clients.Bus.StartForwarder(gctx, func(ev realtime.Event) {
			log.Debug("notification event", "notification_id", ev.NotificationID, "type", ev.Type)
		}); err != nil {
			a.Log.Warn("notification forwarder not started", "error", err)
		}
	}

	g.Go(func() error {
		a.Log.Info("HTTP server listening", "addr", addr)
		return a.Server.Run(gctx, addr)
	})
	return g.Wait()
}

func (a *App) Close() {
	if a == nil {
		return
	}
	a.Clients.Close()
	if a.otelShutdown != nil {
		ctx, cancel := context.WithTimeout(context.Background(), 5*time.Second)
		if err := a.otelShutdown(ctx); err != nil && a.Log != nil {
			a.Log.Warn("otel shutdown failed", "error", err)
		}
		cancel()
	}
	if a.dbService != nil {
		_ = a.dbService.Close()
	}
	if a.Log != nil {
		a.Log.Sync()
	}
}

func envLogMode() string {
	return envutil.String("LOG_MODE", "development", nil)
}
