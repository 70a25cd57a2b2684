package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

type Config struct {
	Server        ServerConfig
	Database      DatabaseConfig
	Log           LogConfig
	Redis         RedisConfig
	Kafka         KafkaConfig
	Idempotency   IdempotencyConfig
	Stock         StockConfig
	Notifications NotificationsConfig
}

type ServerConfig struct {
	Port            int
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration
}

type DatabaseConfig struct {
	Host            string
	Port            int
	User            string
	Password        string
	Name            string
	MaxOpenConns    int
	MaxIdleConns    int
	ConnMaxLifetime time.Duration
}

type LogConfig struct {
	Level string
}

type RedisConfig struct {
	Addr     string
	Password string
	DB       int
}

type KafkaConfig struct {
	Enabled     bool
	Brokers     []string
	Topic       string
	GroupID     string
	Workers     int
	ServiceName string
}

const (
	GuardBackendLedger = "ledger"
	GuardBackendRedis  = "redis"
	GuardBackendMemory = "memory"
)

type IdempotencyConfig struct {
	Backend string
	TTL     time.Duration
}

type StockConfig struct {
	TxTimeout         time.Duration
	MaxRetryAttempts  int
	LowStockThreshold int
}

type NotificationsConfig struct {
	Location *time.Location
}

// Load reads configuration from the environment, falling back to an optional
// config.yaml in the working directory and then to defaults.
func Load() (*Config, error) {
	viper.SetConfigName("config")
	viper.SetConfigType("yaml")
	viper.AddConfigPath(".")
	viper.AddConfigPath("internal/config")
	if err := viper.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("reading config file: %w", err)
		}
	}

	viper.AutomaticEnv()

	viper.SetDefault("SERVER_PORT", 8080)
	viper.SetDefault("SERVER_READ_TIMEOUT", "10s")
	viper.SetDefault("SERVER_WRITE_TIMEOUT", "10s")
	viper.SetDefault("SERVER_SHUTDOWN_TIMEOUT", "10s")
	viper.SetDefault("DB_HOST", "localhost")
	viper.SetDefault("DB_PORT", 3306)
	viper.SetDefault("DB_USER", "supplierhub")
	viper.SetDefault("DB_PASSWORD", "secret")
	viper.SetDefault("DB_NAME", "supplierhub")
	viper.SetDefault("DB_MAX_OPEN_CONNS", 25)
	viper.SetDefault("DB_MAX_IDLE_CONNS", 5)
	viper.SetDefault("DB_CONN_MAX_LIFETIME", "5m")
	viper.SetDefault("LOG_LEVEL", "info")
	viper.SetDefault("REDIS_ADDR", "localhost:6379")
	viper.SetDefault("REDIS_PASSWORD", "")
	viper.SetDefault("REDIS_DB", 0)
	viper.SetDefault("KAFKA_ENABLED", false)
	viper.SetDefault("KAFKA_BROKERS", "localhost:9092")
	viper.SetDefault("KAFKA_TOPIC", "suborder-transitions")
	viper.SetDefault("KAFKA_GROUP_ID", "supplierhub-sync")
	viper.SetDefault("KAFKA_WORKERS", 4)
	viper.SetDefault("SERVICE_NAME", "supplierhub")
	viper.SetDefault("IDEMPOTENCY_BACKEND", GuardBackendLedger)
	viper.SetDefault("IDEMPOTENCY_TTL", "168h")
	viper.SetDefault("STOCK_TX_TIMEOUT", "5s")
	viper.SetDefault("STOCK_MAX_RETRY_ATTEMPTS", 3)
	viper.SetDefault("STOCK_LOW_THRESHOLD", 5)
	viper.SetDefault("NOTIFICATIONS_TIMEZONE", "Local")

	serverTimeouts := make(map[string]time.Duration, 3)
	for _, key := range []string{"SERVER_READ_TIMEOUT", "SERVER_WRITE_TIMEOUT", "SERVER_SHUTDOWN_TIMEOUT"} {
		d, err := time.ParseDuration(viper.GetString(key))
		if err != nil {
			return nil, fmt.Errorf("invalid %s: %w", key, err)
		}
		serverTimeouts[key] = d
	}

	connMaxLifetime, err := time.ParseDuration(viper.GetString("DB_CONN_MAX_LIFETIME"))
	if err != nil {
		return nil, fmt.Errorf("invalid DB_CONN_MAX_LIFETIME: %w", err)
	}

	idemTTL, err := time.ParseDuration(viper.GetString("IDEMPOTENCY_TTL"))
	if err != nil {
		return nil, fmt.Errorf("invalid IDEMPOTENCY_TTL: %w", err)
	}

	stockTxTimeout, err := time.ParseDuration(viper.GetString("STOCK_TX_TIMEOUT"))
	if err != nil {
		return nil, fmt.Errorf("invalid STOCK_TX_TIMEOUT: %w", err)
	}

	loc, err := time.LoadLocation(viper.GetString("NOTIFICATIONS_TIMEZONE"))
	if err != nil {
		return nil, fmt.Errorf("invalid NOTIFICATIONS_TIMEZONE: %w", err)
	}

	cfg := &Config{
		Server: ServerConfig{
			Port:            viper.GetInt("SERVER_PORT"),
			ReadTimeout:     serverTimeouts["SERVER_READ_TIMEOUT"],
			WriteTimeout:    serverTimeouts["SERVER_WRITE_TIMEOUT"],
			ShutdownTimeout: serverTimeouts["SERVER_SHUTDOWN_TIMEOUT"],
		},
		Database: DatabaseConfig{
			Host:            viper.GetString("DB_HOST"),
			Port:            viper.GetInt("DB_PORT"),
			User:            viper.GetString("DB_USER"),
			Password:        viper.GetString("DB_PASSWORD"),
			Name:            viper.GetString("DB_NAME"),
			MaxOpenConns:    viper.GetInt("DB_MAX_OPEN_CONNS"),
			MaxIdleConns:    viper.GetInt("DB_MAX_IDLE_CONNS"),
			ConnMaxLifetime: connMaxLifetime,
		},
		Log: LogConfig{
			Level: viper.GetString("LOG_LEVEL"),
		},
		Redis: RedisConfig{
			Addr:     viper.GetString("REDIS_ADDR"),
			Password: viper.GetString("REDIS_PASSWORD"),
			DB:       viper.GetInt("REDIS_DB"),
		},
		Kafka: KafkaConfig{
			Enabled:     viper.GetBool("KAFKA_ENABLED"),
			Brokers:     splitCSV(viper.GetString("KAFKA_BROKERS")),
			Topic:       viper.GetString("KAFKA_TOPIC"),
			GroupID:     viper.GetString("KAFKA_GROUP_ID"),
			Workers:     viper.GetInt("KAFKA_WORKERS"),
			ServiceName: viper.GetString("SERVICE_NAME"),
		},
		Idempotency: IdempotencyConfig{
			Backend: strings.ToLower(viper.GetString("IDEMPOTENCY_BACKEND")),
			TTL:     idemTTL,
		},
		Stock: StockConfig{
			TxTimeout:         stockTxTimeout,
			MaxRetryAttempts:  viper.GetInt("STOCK_MAX_RETRY_ATTEMPTS"),
			LowStockThreshold: viper.GetInt("STOCK_LOW_THRESHOLD"),
		},
		Notifications: NotificationsConfig{
			Location: loc,
		},
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) validate() error {
	switch c.Idempotency.Backend {
	case GuardBackendLedger, GuardBackendRedis, GuardBackendMemory:
	default:
		return fmt.Errorf("IDEMPOTENCY_BACKEND must be one of ledger, redis, memory; got %q", c.Idempotency.Backend)
	}
	if c.Stock.MaxRetryAttempts <= 0 {
		return fmt.Errorf("STOCK_MAX_RETRY_ATTEMPTS must be > 0")
	}
	if c.Kafka.Enabled {
		if len(c.Kafka.Brokers) == 0 {
			return fmt.Errorf("KAFKA_BROKERS must not be empty")
		}
		if c.Kafka.Topic == "" {
			return fmt.Errorf("KAFKA_TOPIC must not be empty")
		}
		if c.Kafka.GroupID == "" {
			return fmt.Errorf("KAFKA_GROUP_ID must not be empty")
		}
	}
	return nil
}

func splitCSV(value string) []string {
	parts := strings.Split(value, ",")
	out := make([]string, 0, len(parts))
	for _, p := range parts {
		if s := strings.TrimSpace(p); s != "" {
			out = append(out, s)
		}
	}
	return out
}
