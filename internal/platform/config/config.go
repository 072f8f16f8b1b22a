// Package config loads process configuration from PROFILES_* environment
// variables. Optional backends (Postgres, Redis, Kafka, tracing) are disabled
// when their address is empty; the in-memory implementations are used instead.
package config

import (
	"fmt"
	"time"

	"github.com/caarlos0/env/v11"

	"bizledger/pkg/platform/strings"
)

// Server captures HTTP server level configuration.
type Server struct {
	Addr            string        `env:"PROFILES_ADDR" envDefault:":8080"`
	Environment     string        `env:"PROFILES_ENV" envDefault:"local"`
	ShutdownTimeout time.Duration `env:"PROFILES_SHUTDOWN_TIMEOUT" envDefault:"10s"`
	ReadTimeout     time.Duration `env:"PROFILES_READ_TIMEOUT" envDefault:"15s"`
	WriteTimeout    time.Duration `env:"PROFILES_WRITE_TIMEOUT" envDefault:"30s"`
	IdleTimeout     time.Duration `env:"PROFILES_IDLE_TIMEOUT" envDefault:"60s"`
	LogLevel        string        `env:"PROFILES_LOG_LEVEL" envDefault:"info"`
	LogFormat       string        `env:"PROFILES_LOG_FORMAT" envDefault:"json"`

	Auth     AuthConfig
	Postgres PostgresConfig
	Redis    RedisConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
	Parties  PartyConfig
	Limits   RateLimitConfig
}

// AuthConfig configures bearer token validation.
type AuthConfig struct {
	JWTSigningKey string        `env:"PROFILES_JWT_SIGNING_KEY" envDefault:"dev-secret-key-change-in-production"`
	JWTIssuer     string        `env:"PROFILES_JWT_ISSUER" envDefault:"bizledger"`
	JWTAudience   string        `env:"PROFILES_JWT_AUDIENCE" envDefault:"bizledger-api"`
	TokenTTL      time.Duration `env:"PROFILES_TOKEN_TTL" envDefault:"1h"`
}

// PostgresConfig configures the record store. Empty URL keeps records in memory.
type PostgresConfig struct {
	URL             string        `env:"PROFILES_DATABASE_URL"`
	MaxConns        int32         `env:"PROFILES_DATABASE_MAX_CONNS" envDefault:"10"`
	MinConns        int32         `env:"PROFILES_DATABASE_MIN_CONNS" envDefault:"1"`
	MaxConnLifetime time.Duration `env:"PROFILES_DATABASE_MAX_CONN_LIFETIME" envDefault:"30m"`
	ConnectTimeout  time.Duration `env:"PROFILES_DATABASE_CONNECT_TIMEOUT" envDefault:"5s"`
}

// RedisConfig configures the shared notary. Empty URL keeps the notary in memory.
type RedisConfig struct {
	URL          string        `env:"PROFILES_REDIS_URL"`
	PoolSize     int           `env:"PROFILES_REDIS_POOL_SIZE" envDefault:"10"`
	MinIdleConns int           `env:"PROFILES_REDIS_MIN_IDLE_CONNS" envDefault:"2"`
	DialTimeout  time.Duration `env:"PROFILES_REDIS_DIAL_TIMEOUT" envDefault:"5s"`
	ReadTimeout  time.Duration `env:"PROFILES_REDIS_READ_TIMEOUT" envDefault:"3s"`
	WriteTimeout time.Duration `env:"PROFILES_REDIS_WRITE_TIMEOUT" envDefault:"3s"`
	KeyPrefix    string        `env:"PROFILES_REDIS_KEY_PREFIX" envDefault:"bizledger:notary:"`
}

// KafkaConfig configures the transition feed and audit sink. No brokers means
// both stay in process.
type KafkaConfig struct {
	Brokers          []string `env:"PROFILES_KAFKA_BROKERS" envSeparator:","`
	ClientID         string   `env:"PROFILES_KAFKA_CLIENT_ID" envDefault:"bizledger"`
	TransitionsTopic string   `env:"PROFILES_KAFKA_TRANSITIONS_TOPIC" envDefault:"profile.transitions"`
	AuditTopic       string   `env:"PROFILES_KAFKA_AUDIT_TOPIC" envDefault:"profile.audit"`
	Partitions       int32    `env:"PROFILES_KAFKA_PARTITIONS" envDefault:"3"`
	Replication      int16    `env:"PROFILES_KAFKA_REPLICATION" envDefault:"1"`
}

// TracingConfig configures OTLP export. Empty endpoint disables tracing.
type TracingConfig struct {
	Endpoint    string `env:"PROFILES_OTEL_ENDPOINT"`
	ServiceName string `env:"PROFILES_OTEL_SERVICE_NAME" envDefault:"bizledger"`
}

// RateLimitConfig bounds profile writes per party. With Redis configured the
// window is shared between replicas.
type RateLimitConfig struct {
	Disabled  bool          `env:"PROFILES_RATELIMIT_DISABLED" envDefault:"false"`
	Writes    int           `env:"PROFILES_RATELIMIT_WRITES" envDefault:"60"`
	Window    time.Duration `env:"PROFILES_RATELIMIT_WINDOW" envDefault:"1m"`
	KeyPrefix string        `env:"PROFILES_RATELIMIT_KEY_PREFIX" envDefault:"bizledger:ratelimit:"`
}

// PartyConfig seeds the party directory and key ring.
// Each seed is "uuid:name:hex-ed25519-seed".
type PartyConfig struct {
	Seeds []string `env:"PROFILES_PARTY_SEEDS" envSeparator:";"`
}

// PostgresEnabled reports whether a database URL is configured.
func (s Server) PostgresEnabled() bool { return s.Postgres.URL != "" }

// RedisEnabled reports whether a Redis URL is configured.
func (s Server) RedisEnabled() bool { return s.Redis.URL != "" }

// KafkaEnabled reports whether any broker is configured.
func (s Server) KafkaEnabled() bool { return len(strings.CleanList(s.Kafka.Brokers)) > 0 }

// IsLocal reports whether the server runs in a developer environment.
func (s Server) IsLocal() bool { return s.Environment == "local" }

// ParseEnv loads configuration from environment variables into target.
func ParseEnv(target any) error {
	if err := env.Parse(target); err != nil {
		return fmt.Errorf("parse env: %w", err)
	}
	return nil
}

// FromEnv builds a Server config from environment variables so main stays lean.
func FromEnv() (Server, error) {
	var cfg Server
	if err := ParseEnv(&cfg); err != nil {
		return Server{}, err
	}
	if !cfg.IsLocal() && cfg.Auth.JWTSigningKey == "dev-secret-key-change-in-production" {
		return Server{}, fmt.Errorf("PROFILES_JWT_SIGNING_KEY must be set outside local environments")
	}
	return cfg, nil
}
