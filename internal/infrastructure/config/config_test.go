package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_Defaults(t *testing.T) {
	for _, key := range []string{
		"GRPC_PORT", "HTTP_PORT", "STORAGE_DRIVER", "KAFKA_ENABLED", "KAFKA_BROKERS",
		"SCORE_STRATEGY", "DB_PASSWORD", "LOG_FORMAT",
	} {
		t.Setenv(key, "")
	}

	cfg := Load()
	assert.Equal(t, 8090, cfg.GRPCPort)
	assert.Equal(t, 9090, cfg.HTTPPort)
	assert.Equal(t, "risk-service", cfg.ServiceName)
	assert.Equal(t, StoragePostgres, cfg.Storage.Driver)
	assert.Equal(t, "simple", cfg.ScoreStrategy)
	assert.False(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"localhost:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "risk-events", cfg.Kafka.Topic)
	assert.Equal(t, ":8090", cfg.GRPCAddress())
	assert.Equal(t, ":9090", cfg.HTTPAddress())
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("GRPC_PORT", "7000")
	t.Setenv("HTTP_PORT", "not-a-number")
	t.Setenv("KAFKA_ENABLED", "true")
	t.Setenv("KAFKA_BROKERS", "k1:9092, k2:9092,")
	t.Setenv("STORAGE_DRIVER", "sqlite")
	t.Setenv("SQLITE_PATH", "/tmp/r.db")
	t.Setenv("DB_MAX_CONNS", "4")

	cfg := Load()
	assert.Equal(t, 7000, cfg.GRPCPort)
	assert.Equal(t, 9090, cfg.HTTPPort, "invalid ints fall back to the default")
	assert.True(t, cfg.Kafka.Enabled)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.Kafka.Brokers)
	assert.Equal(t, "/tmp/r.db", cfg.Storage.SQLitePath)
	assert.Equal(t, int32(4), cfg.Postgres().MaxConns)
	assert.Equal(t, []string{"k1:9092", "k2:9092"}, cfg.KafkaClient().Brokers)
	require.NoError(t, cfg.Validate())
}

func TestConfig_Validate(t *testing.T) {
	valid := func() Config {
		return Config{
			GRPCPort:      8090,
			HTTPPort:      9090,
			ScoreStrategy: "matrix",
			Storage:       StorageConfig{Driver: StorageMemory},
		}
	}

	require.NoError(t, valid().Validate())

	tests := []struct {
		name    string
		mutate  func(*Config)
		wantErr string
	}{
		{"postgres without password", func(c *Config) { c.Storage.Driver = StoragePostgres }, "DB_PASSWORD"},
		{"unknown driver", func(c *Config) { c.Storage.Driver = "mysql" }, "STORAGE_DRIVER"},
		{"sqlite without path", func(c *Config) { c.Storage.Driver = StorageSQLite }, "SQLITE_PATH"},
		{"same ports", func(c *Config) { c.HTTPPort = c.GRPCPort }, "must differ"},
		{"port out of range", func(c *Config) { c.GRPCPort = 70000 }, "GRPC_PORT"},
		{"kafka without brokers", func(c *Config) { c.Kafka.Enabled = true }, "KAFKA_BROKERS"},
		{"unknown strategy", func(c *Config) { c.ScoreStrategy = "magic" }, "SCORE_STRATEGY"},
		{"tls cert without key", func(c *Config) { c.GRPCTLSCertFile = "server.pem" }, "GRPC_TLS_KEY_FILE"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := valid()
			tt.mutate(&cfg)
			err := cfg.Validate()
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}
