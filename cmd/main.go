package main

import (
	"context"
	"encoding/json"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/kajkor/kajkor-backend/internal/app"
	"github.com/kajkor/kajkor-backend/internal/platform/envutil"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
	"github.com/kajkor/kajkor-backend/internal/realtime"
	"github.com/kajkor/kajkor-backend/internal/realtime/bus"
)

var (
	configPath string
	serveAddr  string
)

func main() {
	if err := newRootCmd().ExecuteContext(context.Background()); err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	rootCmd := &cobra.Command{
		Use:          "kajkor",
		Short:        "Kajkor productivity backend",
		SilenceUsage: true,
		RunE:         runServe,
	}
	rootCmd.PersistentFlags().StringVar(&configPath, "config", "", "path to a YAML config file (overrides CONFIG_FILE)")
	rootCmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :$PORT)")

	rootCmd.AddCommand(newServeCmd())
	rootCmd.AddCommand(newMigrateCmd())
	rootCmd.AddCommand(newNotificationsCmd())
	return rootCmd
}

func newServeCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API",
		RunE:  runServe,
	}
	cmd.Flags().StringVar(&serveAddr, "addr", "", "listen address (default :$PORT)")
	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	ctx, stop := signalContext(cmd.Context())
	defer stop()

	a, err := app.Bootstrap(ctx, configPath)
	if err != nil {
		return fmt.Errorf("failed to initialize app: %w", err)
	}
	defer a.Close()

	if err := a.Run(ctx, serveAddr); err != nil {
		a.Log.Error("server exited", "error", err)
		return err
	}
	a.Log.Info("server stopped")
	return nil
}

func newMigrateCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "migrate",
		Short: "Create or update the database schema and exit",
		RunE: func(_ *cobra.Command, _ []string) error {
			log, cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if err := cfg.Validate(); err != nil {
				return err
			}
			return app.Migrate(cfg, log)
		},
	}
}

func newNotificationsCmd() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "notifications",
		Short: "Inspect the notification bus",
	}
	cmd.AddCommand(&cobra.Command{
		Use:   "tail",
		Short: "Print queued notification events as JSON lines until interrupted",
		RunE: func(c *cobra.Command, _ []string) error {
			log, cfg, err := loadConfig()
			if err != nil {
				return err
			}
			defer log.Sync()
			if cfg.RedisAddr == "" {
				return fmt.Errorf("REDIS_ADDR is not set; nothing to tail")
			}
			b, err := bus.New(log, cfg.RedisAddr, cfg.RedisChannel)
			if err != nil {
				return err
			}
			defer b.Close()

			ctx, stop := signalContext(c.Context())
			defer stop()
			enc := json.NewEncoder(c.OutOrStdout())
			if err := b.StartForwarder(ctx, func(ev realtime.Event) {
				_ = enc.Encode(ev)
			}); err != nil {
				return err
			}
			<-ctx.Done()
			return nil
		},
	})
	return cmd
}

func loadConfig() (*logger.Logger, app.Config, error) {
	log, err := logger.New(envutil.String("LOG_MODE", "development", nil))
	if err != nil {
		return nil, app.Config{}, fmt.Errorf("init logger: %w", err)
	}
	cfg, err := app.LoadConfig(log, configPath)
	if err != nil {
		log.Sync()
		return nil, app.Config{}, err
	}
	return log, cfg, nil
}


func signalContext(parent context.Context) (context.Context, context.CancelFunc) {
	return signal.NotifyContext(parent, os.Interrupt, syscall.SIGTERM)
}
