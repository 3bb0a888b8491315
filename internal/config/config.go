// Package config loads and validates app config from env and an optional .env file using Viper.
package config

import (
	"errors"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Config holds application configuration loaded from the environment.
type Config struct {
	// GRPCAddr is the address the gRPC server listens on (e.g. :8080).
	GRPCAddr string `mapstructure:"GRPC_ADDR"`
	// DatabaseURL is the Postgres DSN; when empty the server uses in-memory repositories.
	DatabaseURL string `mapstructure:"DATABASE_URL"`
	// Env is the application environment (e.g. "development", "production").
	Env string `mapstructure:"APP_ENV"`
	// LogLevel is the zap level name (debug, info, warn, error).
	LogLevel string `mapstructure:"LOG_LEVEL"`

	// OTLPEndpoint is the OTLP gRPC collector endpoint; empty disables export.
	OTLPEndpoint string `mapstructure:"OTEL_EXPORTER_OTLP_ENDPOINT"`
	// OTLPInsecure forces plaintext export even for https endpoints.
	OTLPInsecure bool `mapstructure:"OTEL_EXPORTER_OTLP_INSECURE"`
	// ServiceName is the OTel service.name resource attribute.
	ServiceName string `mapstructure:"OTEL_SERVICE_NAME"`

	// CatalogPath is an optional YAML content catalog; empty uses the embedded catalog.
	CatalogPath string `mapstructure:"CATALOG_PATH"`
	// PolicyPath is an optional Rego file replacing the default burnout policy.
	PolicyPath string `mapstructure:"POLICY_PATH"`

	// GenerationLatency is the simulated latency of daily-content generation (e.g. "800ms").
	GenerationLatency string `mapstructure:"GENERATION_LATENCY"`
	// GenerationTimeout bounds one generation call before falling back to rule-based selection.
	GenerationTimeout string `mapstructure:"GENERATION_TIMEOUT"`
	// PreboardingPollInterval is how often preboarding readiness is refreshed (e.g. "30s").
	PreboardingPollInterval string `mapstructure:"PREBOARDING_POLL_INTERVAL"`
	// PreboardingWatchTTL is how long a user stays in the refresh set after their last readiness read.
	PreboardingWatchTTL string `mapstructure:"PREBOARDING_WATCH_TTL"`

	// KafkaBrokers is a comma-separated list of Kafka broker addresses for notifications.
	KafkaBrokers string `mapstructure:"KAFKA_BROKERS"`
	// NotifyKafkaTopic is the Kafka topic notifications are written to.
	NotifyKafkaTopic string `mapstructure:"NOTIFY_KAFKA_TOPIC"`

	// Worker-only: Loki URL the notification worker pushes to (e.g. http://localhost:3100).
	LokiURL string `mapstructure:"LOKI_URL"`
	// KafkaGroupID is the consumer group ID for the notification worker.
	KafkaGroupID string `mapstructure:"KAFKA_GROUP_ID"`
}

// Load reads .env (if present), then builds and validates Config from the environment via Viper.
// Missing .env is ignored (e.g. in CI). Env vars override .env. Returns an error if required fields are invalid.
func Load() (*Config, error) {
	v := viper.New()

	v.SetConfigFile(".env")
	v.SetConfigType("env")
	_ = v.ReadInConfig() // ignore ErrConfigFileNotFound

	v.AutomaticEnv()

	v.SetDefault("GRPC_ADDR", ":8080")
	v.SetDefault("DATABASE_URL", "")
	v.SetDefault("APP_ENV", "")
	v.SetDefault("LOG_LEVEL", "info")
	v.SetDefault("OTEL_EXPORTER_OTLP_ENDPOINT", "")
	v.SetDefault("OTEL_EXPORTER_OTLP_INSECURE", false)
	v.SetDefault("OTEL_SERVICE_NAME", "onboardflow")
	v.SetDefault("CATALOG_PATH", "")
	v.SetDefault("POLICY_PATH", "")
	v.SetDefault("GENERATION_LATENCY", "0s")
	v.SetDefault("GENERATION_TIMEOUT", "3s")
	v.SetDefault("PREBOARDING_POLL_INTERVAL", "30s")
	v.SetDefault("PREBOARDING_WATCH_TTL", "24h")
	v.SetDefault("KAFKA_BROKERS", "")
	v.SetDefault("NOTIFY_KAFKA_TOPIC", "onboardflow-notifications")
	v.SetDefault("LOKI_URL", "")
	v.SetDefault("KAFKA_GROUP_ID", "onboardflow-notify-worker")

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, err
	}

	if cfg.GRPCAddr == "" {
		return nil, errors.New("config: GRPC_ADDR must be set")
	}
	if _, err := parseNonNegative(cfg.GenerationLatency); err != nil {
		return nil, errors.New("config: GENERATION_LATENCY must be a non-negative duration")
	}
	if d, err := parseNonNegative(cfg.GenerationTimeout); err != nil || d == 0 {
		return nil, errors.New("config: GENERATION_TIMEOUT must be a positive duration")
	}
	if d, err := parseNonNegative(cfg.PreboardingPollInterval); err != nil || d == 0 {
		return nil, errors.New("config: PREBOARDING_POLL_INTERVAL must be a positive duration")
	}
	if d, err := parseNonNegative(cfg.PreboardingWatchTTL); err != nil || d == 0 {
		return nil, errors.New("config: PREBOARDING_WATCH_TTL must be a positive duration")
	}

	return &cfg, nil
}

func parseNonNegative(s string) (time.Duration, error) {
	d, err := time.ParseDuration(strings.TrimSpace(s))
	if err != nil {
		return 0, err
	}
	if d < 0 {
		return 0, errors.New("negative duration")
	}
	return d, nil
}

// Latency parses GenerationLatency. Returns 0 if unset or invalid.
func (c *Config) Latency() time.Duration {
	d, err := parseNonNegative(c.GenerationLatency)
	if err != nil {
		return 0
	}
	return d
}

// Timeout parses GenerationTimeout. Returns 3s if unset or invalid.
func (c *Config) Timeout() time.Duration {
	d, err := parseNonNegative(c.GenerationTimeout)
	if err != nil || d == 0 {
		return 3 * time.Second
	}
	return d
}

// PollInterval parses PreboardingPollInterval. Returns 30s if unset or invalid.
func (c *Config) PollInterval() time.Duration {
	d, err := parseNonNegative(c.PreboardingPollInterval)
	if err != nil || d == 0 {
		return 30 * time.Second
	}
	return d
}

// WatchTTL parses PreboardingWatchTTL. Returns 24h if unset or invalid.
func (c *Config) WatchTTL() time.Duration {
	d, err := parseNonNegative(c.PreboardingWatchTTL)
	if err != nil || d == 0 {
		return 24 * time.Hour
	}
	return d
}

// KafkaBrokersList returns Kafka broker addresses from the comma-separated config.
// Used to decide if Kafka notifications are enabled (non-empty list) and to create the writer.
func (c *Config) KafkaBrokersList() []string {
	if c == nil || c.KafkaBrokers == "" {
		return nil
	}
	parts := strings.Split(c.KafkaBrokers, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
