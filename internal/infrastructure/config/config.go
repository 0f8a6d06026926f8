package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/bibbank/risk-service/internal/domain/service"
	pkgkafka "github.com/bibbank/risk-service/pkg/kafka"
	pkgpostgres "github.com/bibbank/risk-service/pkg/postgres"
)

// Storage drivers.
const (
	StoragePostgres = "postgres"
	StorageSQLite   = "sqlite"
	StorageMemory   = "memory"
)

// Config holds all configuration for the risk service.
type Config struct {
	// gRPC server port
	GRPCPort int
	// HTTP metrics/health port
	HTTPPort int
	// Service name for observability
	ServiceName string
	// Default strategy for score previews
	ScoreStrategy string
	// Enables gRPC server reflection
	GRPCReflection bool
	// TLS key pair for the gRPC listener; plaintext when both are empty
	GRPCTLSCertFile string
	GRPCTLSKeyFile  string

	Log      LogConfig
	Storage  StorageConfig
	Database DatabaseConfig
	Kafka    KafkaConfig
	Tracing  TracingConfig
}

// LogConfig holds logging settings.
type LogConfig struct {
	Level  string
	Format string
}

// StorageConfig selects the persistence backend.
type StorageConfig struct {
	Driver     string
	SQLitePath string
}

// DatabaseConfig holds PostgreSQL connection settings.
type DatabaseConfig struct {
	Host     string
	Port     int
	User     string
	Password string
	Database string
	SSLMode  string
	MaxConns int
}

// KafkaConfig holds Kafka settings. Events are only forwarded when Enabled.
type KafkaConfig struct {
	Enabled       bool
	Brokers       []string
	Topic         string
	ConsumerGroup string
}

// TracingConfig holds OTLP trace export settings.
type TracingConfig struct {
	Enabled  bool
	Endpoint string
}

// Load reads configuration from environment variables with defaults.
func Load() Config {
	return Config{
		GRPCPort:        getEnvInt("GRPC_PORT", 8090),
		HTTPPort:        getEnvInt("HTTP_PORT", 9090),
		ServiceName:     getEnv("SERVICE_NAME", "risk-service"),
		ScoreStrategy:   getEnv("SCORE_STRATEGY", service.CalculatorSimple),
		GRPCReflection:  getEnvBool("GRPC_REFLECTION", false),
		GRPCTLSCertFile: getEnv("GRPC_TLS_CERT_FILE", ""),
		GRPCTLSKeyFile:  getEnv("GRPC_TLS_KEY_FILE", ""),
		Log: LogConfig{
			Level:  getEnv("LOG_LEVEL", "info"),
			Format: getEnv("LOG_FORMAT", "json"),
		},
		Storage: StorageConfig{
			Driver:     getEnv("STORAGE_DRIVER", StoragePostgres),
			SQLitePath: getEnv("SQLITE_PATH", "risks.db"),
		},
		Database: DatabaseConfig{
			Host:     getEnv("DB_HOST", "localhost"),
			Port:     getEnvInt("DB_PORT", 5432),
			User:     getEnv("DB_USER", "risk"),
			Password: getEnv("DB_PASSWORD", ""),
			Database: getEnv("DB_NAME", "risk"),
			SSLMode:  getEnv("DB_SSLMODE", "require"),
			MaxConns: getEnvInt("DB_MAX_CONNS", 10),
		},
		Kafka: KafkaConfig{
			Enabled:       getEnvBool("KAFKA_ENABLED", false),
			Brokers:       getEnvList("KAFKA_BROKERS", []string{"localhost:9092"}),
			Topic:         getEnv("KAFKA_TOPIC", "risk-events"),
			ConsumerGroup: getEnv("KAFKA_CONSUMER_GROUP", "risk-watch"),
		},
		Tracing: TracingConfig{
			Enabled:  getEnvBool("TRACING_ENABLED", false),
			Endpoint: getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", "localhost:4317"),
		},
	}
}

// Validate checks that the settings are consistent.
func (c Config) Validate() error {
	var errs []error

	if c.GRPCPort <= 0 || c.GRPCPort > 65535 {
		errs = append(errs, fmt.Errorf("GRPC_PORT %d is out of range", c.GRPCPort))
	}
	if c.HTTPPort <= 0 || c.HTTPPort > 65535 {
		errs = append(errs, fmt.Errorf("HTTP_PORT %d is out of range", c.HTTPPort))
	}
	if c.GRPCPort == c.HTTPPort {
		errs = append(errs, fmt.Errorf("GRPC_PORT and HTTP_PORT must differ, both are %d", c.GRPCPort))
	}

	if (c.GRPCTLSCertFile == "") != (c.GRPCTLSKeyFile == "") {
		errs = append(errs, errors.New("GRPC_TLS_CERT_FILE and GRPC_TLS_KEY_FILE must be set together"))
	}

	switch c.Storage.Driver {
	case StoragePostgres:
		if c.Database.Password == "" {
			errs = append(errs, errors.New("DB_PASSWORD environment variable is required for the postgres driver"))
		}
	case StorageSQLite:
		if c.Storage.SQLitePath == "" {
			errs = append(errs, errors.New("SQLITE_PATH is required for the sqlite driver"))
		}
	case StorageMemory:
	default:
		errs = append(errs, fmt.Errorf("STORAGE_DRIVER must be one of postgres, sqlite, memory, got %q", c.Storage.Driver))
	}

	if c.Kafka.Enabled && len(c.Kafka.Brokers) == 0 {
		errs = append(errs, errors.New("KAFKA_BROKERS is required when KAFKA_ENABLED is set"))
	}
	if _, err := service.NewScoreCalculator(c.ScoreStrategy); err != nil {
		errs = append(errs, fmt.Errorf("SCORE_STRATEGY: %w", err))
	}

	return errors.Join(errs...)
}

// Postgres converts the database settings for pkg/postgres.
func (c Config) Postgres() pkgpostgres.Config {
	return pkgpostgres.Config{
		Host:            c.Database.Host,
		Port:            c.Database.Port,
		User:            c.Database.User,
		Password:        c.Database.Password,
		Database:        c.Database.Database,
		SSLMode:         c.Database.SSLMode,
		ApplicationName: c.ServiceName,
		MaxConns:        int32(c.Database.MaxConns),
	}
}

// KafkaClient converts the Kafka settings for pkg/kafka.
func (c Config) KafkaClient() pkgkafka.Config {
	return pkgkafka.Config{
		Brokers:       c.Kafka.Brokers,
		ConsumerGroup: c.Kafka.ConsumerGroup,
	}
}

// GRPCAddress returns the gRPC listen address.
func (c Config) GRPCAddress() string {
	return fmt.Sprintf(":%d", c.GRPCPort)
}

// HTTPAddress returns the HTTP listen address.
func (c Config) HTTPAddress() string {
	return fmt.Sprintf(":%d", c.HTTPPort)
}

func getEnv(key, defaultVal string) string {
	if val := os.Getenv(key); val != "" {
		return val
	}
	return defaultVal
}

func getEnvInt(key string, defaultVal int) int {
	if val := os.Getenv(key); val != "" {
		if i, err := strconv.Atoi(val); err == nil {
			return i
		}
	}
	return defaultVal
}

func getEnvBool(key string, defaultVal bool) bool {
	if val := os.Getenv(key); val != "" {
		if b, err := strconv.ParseBool(val); err == nil {
			return b
		}
	}
	return defaultVal
}

func getEnvList(key string, defaultVal []string) []string {
	val := os.Getenv(key)
	if val == "" {
		return defaultVal
	}
	var out []string
	for _, part := range strings.Split(val, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
