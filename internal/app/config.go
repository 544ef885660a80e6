package app

import (
	"fmt"
	"os"
	"strings"
	"time"

	"gopkg.in/yaml.v3"

	dbpkg "github.com/kajkor/kajkor-backend/internal/data/db"
	"github.com/kajkor/kajkor-backend/internal/platform/envutil"
	"github.com/kajkor/kajkor-backend/internal/platform/logger"
)

// Config is resolved in three layers: defaults, then the optional YAML file named
// by CONFIG_FILE, then environment variables.
type Config struct {
	Env     string `yaml:"env"`
	Port    string `yaml:"port"`
	LogMode string `yaml:"log_mode"`

	JWTSecretKey    string        `yaml:"jwt_secret_key"`
	AccessTokenTTL  time.Duration `yaml:"-"`
	RefreshTokenTTL time.Duration `yaml:"-"`
	AccessTTLSecs   int           `yaml:"access_token_ttl"`
	RefreshTTLSecs  int           `yaml:"refresh_token_ttl"`

	DB DBConfig `yaml:"db"`

	RedisAddr    string `yaml:"redis_addr"`
	RedisChannel string `yaml:"redis_channel"`

	DefaultTimezone string   `yaml:"default_timezone"`
	AllowedOrigins  []string `yaml:"cors_allowed_origins"`

	MetricsEnabled bool       `yaml:"metrics_enabled"`
	Otel           OtelConfig `yaml:"otel"`
}

type DBConfig struct {
	Driver   string `yaml:"driver"`
	Host     string `yaml:"host"`
	Port     string `yaml:"port"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Name     string `yaml:"name"`
	SSLMode  string `yaml:"sslmode"`
	SQLite   string `yaml:"sqlite_path"`
}

type OtelConfig struct {
	Enabled     bool    `yaml:"enabled"`
	ServiceName string  `yaml:"service_name"`
	Endpoint    string  `yaml:"endpoint"`
	Headers     string  `yaml:"headers"`
	Insecure    bool    `yaml:"insecure"`
	SampleRatio float64 `yaml:"sampler_ratio"`
}

func defaultConfig() Config {
	return Config{
		Env:             "development",
		Port:            "8080",
		LogMode:         "development",
		JWTSecretKey:    "defaultsecret",
		AccessTTLSecs:   3600,
		RefreshTTLSecs:  30 * 86400,
		DB:              DBConfig{Driver: dbpkg.DriverPostgres, Host: "localhost", Port: "5432", User: "postgres", Name: "kajkor", SSLMode: "disable", SQLite: "kajkor.db"},
		RedisChannel:    "notifications",
		DefaultTimezone: "UTC",
		AllowedOrigins:  []string{"*"},
		Otel:            OtelConfig{ServiceName: "kajkor", SampleRatio: 0.1},
	}
}

// LoadConfig resolves the configuration. path overrides CONFIG_FILE when non-empty.
func LoadConfig(log *logger.Logger, path string) (Config, error) {
	cfg := defaultConfig()

	if strings.TrimSpace(path) == "" {
		path = envutil.String("CONFIG_FILE", "", log)
	}
	if path != "" {
		raw, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(raw, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file %s: %w", path, err)
		}
	}

	cfg.Env = envutil.String("APP_ENV", cfg.Env, log)
	cfg.Port = envutil.String("PORT", cfg.Port, log)
	cfg.LogMode = envutil.String("LOG_MODE", cfg.LogMode, log)
	cfg.JWTSecretKey = envutil.String("JWT_SECRET_KEY", cfg.JWTSecretKey, log)
	cfg.AccessTTLSecs = envutil.Int("ACCESS_TOKEN_TTL", cfg.AccessTTLSecs, log)
	cfg.RefreshTTLSecs = envutil.Int("REFRESH_TOKEN_TTL", cfg.RefreshTTLSecs, log)

	cfg.DB.Driver = envutil.String("DB_DRIVER", cfg.DB.Driver, log)
	cfg.DB.Host = envutil.String("POSTGRES_HOST", cfg.DB.Host, log)
	cfg.DB.Port = envutil.String("POSTGRES_PORT", cfg.DB.Port, log)
	cfg.DB.User = envutil.String("POSTGRES_USER", cfg.DB.User, log)
	cfg.DB.Password = envutil.String("POSTGRES_PASSWORD", cfg.DB.Password, log)
	cfg.DB.Name = envutil.String("POSTGRES_NAME", cfg.DB.Name, log)
	cfg.DB.SSLMode = envutil.String("POSTGRES_SSLMODE", cfg.DB.SSLMode, log)
	cfg.DB.SQLite = envutil.String("SQLITE_PATH", cfg.DB.SQLite, log)

	cfg.RedisAddr = envutil.String("REDIS_ADDR", cfg.RedisAddr, log)
	cfg.RedisChannel = envutil.String("REDIS_CHANNEL", cfg.RedisChannel, log)
	cfg.DefaultTimezone = envutil.String("DEFAULT_TIMEZONE", cfg.DefaultTimezone, log)
	cfg.AllowedOrigins = envutil.List("CORS_ALLOWED_ORIGINS", cfg.AllowedOrigins, log)
	cfg.MetricsEnabled = envutil.Bool("METRICS_ENABLED", cfg.MetricsEnabled, log)

	cfg.Otel.Enabled = envutil.Bool("OTEL_ENABLED", cfg.Otel.Enabled, log)
	cfg.Otel.ServiceName = envutil.String("OTEL_SERVICE_NAME", cfg.Otel.ServiceName, log)
	cfg.Otel.Endpoint = envutil.String("OTEL_EXPORTER_OTLP_ENDPOINT", cfg.Otel.Endpoint, log)
	cfg.Otel.Headers = envutil.String("OTEL_EXPORTER_OTLP_HEADERS", cfg.Otel.Headers, log)
	cfg.Otel.Insecure = envutil.Bool("OTEL_EXPORTER_OTLP_INSECURE", cfg.Otel.Insecure, log)
	cfg.Otel.SampleRatio = envutil.Float("OTEL_SAMPLER_RATIO", cfg.Otel.SampleRatio, log)

	cfg.AccessTokenTTL = time.Duration(cfg.AccessTTLSecs) * time.Second
	cfg.RefreshTokenTTL = time.Duration(cfg.RefreshTTLSecs) * time.Second
	return cfg, nil
}

func (c Config) Validate() error {
	switch strings.ToLower(strings.TrimSpace(c.DB.Driver)) {
	case dbpkg.DriverPostgres, dbpkg.DriverSQLite:
	default:
		return fmt.Errorf("unsupported DB_DRIVER %q", c.DB.Driver)
	}
	if c.AccessTokenTTL <= 0 || c.RefreshTokenTTL <= 0 {
		return fmt.Errorf("token TTLs must be positive")
	}
	if strings.TrimSpace(c.JWTSecretKey) == "" {
		return fmt.Errorf("JWT_SECRET_KEY is required")
	}
	if _, err := time.LoadLocation(c.DefaultTimezone); err != nil {
		return fmt.Errorf("unknown DEFAULT_TIMEZONE %q", c.DefaultTimezone)
	}
	return nil
}

func (c Config) DatabaseConfig() dbpkg.Config {
	return dbpkg.Config{
		Driver:           c.DB.Driver,
		PostgresHost:     c.DB.Host,
		PostgresPort:     c.DB.Port,
		PostgresUser:     c.DB.User,
		PostgresPassword: c.DB.Password,
		PostgresName:     c.DB.Name,
		PostgresSSLMode:  c.DB.SSLMode,
		SQLitePath:       c.DB.SQLite,
	}
}

func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DefaultTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}
