package config

import (
	"errors"
	"flag"
	"fmt"
	"io"
	"io/fs"
	"log/slog"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Storage backends accepted by STORAGE_BACKEND.
const (
	BackendMemory   = "memory"
	BackendPostgres = "postgres"
	BackendRedis    = "redis"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress      string
	StorageBackend  string
	DatabaseURI     string
	RedisAddr       string
	KafkaBrokers    []string
	KafkaTopic      string
	LockShards      int
	EventWorkers    int
	EventBuffer     int
	StoreLatency    time.Duration
	ShutdownTimeout time.Duration
	LogLevel        slog.Level
}

const (
	defaultRunAddress      = ":8080"
	defaultStorageBackend  = BackendMemory
	defaultKafkaTopic      = "point-transactions"
	defaultLockShards      = 64
	defaultEventWorkers    = 4
	defaultEventBuffer     = 256
	defaultShutdownTimeout = 10 * time.Second
	defaultLogLevel        = "info"
	defaultEnvFile         = ".env"
)

// Load parses configuration from an optional .env file, environment variables and flags.
// Flags take precedence over the environment; real environment variables win over .env entries.
func Load() (*Config, error) {
	if err := loadEnvFile(defaultEnvFile); err != nil {
		return nil, err
	}
	return load(os.Args[1:], os.LookupEnv)
}

func loadEnvFile(path string) error {
	err := godotenv.Load(path)
	if err == nil || errors.Is(err, fs.ErrNotExist) {
		return nil
	}
	return fmt.Errorf("load %s: %w", path, err)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:      getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		StorageBackend:  getString(lookup, "STORAGE_BACKEND", defaultStorageBackend),
		DatabaseURI:     getString(lookup, "DATABASE_URI", ""),
		RedisAddr:       getString(lookup, "REDIS_ADDR", ""),
		KafkaTopic:      getString(lookup, "KAFKA_TOPIC", defaultKafkaTopic),
		LockShards:      getInt(lookup, "LOCK_SHARDS", defaultLockShards),
		EventWorkers:    getInt(lookup, "EVENT_WORKERS", defaultEventWorkers),
		EventBuffer:     getInt(lookup, "EVENT_BUFFER", defaultEventBuffer),
		StoreLatency:    getDuration(lookup, "STORE_LATENCY", 0),
		ShutdownTimeout: getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("pointledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		brokersStr         = getString(lookup, "KAFKA_BROKERS", "")
		logLevelStr        = getString(lookup, "LOG_LEVEL", defaultLogLevel)
		storeLatencyStr    = cfg.StoreLatency.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.StorageBackend, "storage", cfg.StorageBackend, "Storage backend: memory, postgres or redis")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.RedisAddr, "redis", cfg.RedisAddr, "Redis address")
	fs.StringVar(&brokersStr, "kafka", brokersStr, "Comma separated Kafka brokers, empty disables publishing")
	fs.StringVar(&cfg.KafkaTopic, "kafka-topic", cfg.KafkaTopic, "Kafka topic for transaction events")
	fs.IntVar(&cfg.LockShards, "lock-shards", cfg.LockShards, "Number of user lock registry shards")
	fs.IntVar(&cfg.EventWorkers, "event-workers", cfg.EventWorkers, "Number of event dispatcher workers")
	fs.IntVar(&cfg.EventBuffer, "event-buffer", cfg.EventBuffer, "Queue size per event worker")
	fs.StringVar(&storeLatencyStr, "store-latency", storeLatencyStr, "Artificial latency for the memory store")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")
	fs.StringVar(&logLevelStr, "log-level", logLevelStr, "Log level: debug, info, warn or error")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.StoreLatency, err = time.ParseDuration(storeLatencyStr); err != nil {
		return nil, fmt.Errorf("invalid store latency: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if err = cfg.LogLevel.UnmarshalText([]byte(logLevelStr)); err != nil {
		return nil, fmt.Errorf("invalid log level: %w", err)
	}

	cfg.KafkaBrokers = splitList(brokersStr)
	cfg.StorageBackend = strings.ToLower(strings.TrimSpace(cfg.StorageBackend))

	if cfg.LockShards <= 0 {
		cfg.LockShards = defaultLockShards
	}

	if cfg.EventWorkers <= 0 {
		cfg.EventWorkers = defaultEventWorkers
	}

	if cfg.EventBuffer <= 0 {
		cfg.EventBuffer = defaultEventBuffer
	}

	if cfg.StoreLatency < 0 {
		cfg.StoreLatency = 0
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.KafkaTopic == "" {
		cfg.KafkaTopic = defaultKafkaTopic
	}

	switch cfg.StorageBackend {
	case BackendMemory:
	case BackendPostgres:
		if cfg.DatabaseURI == "" {
			return nil, fmt.Errorf("database URI must be provided for %s storage", BackendPostgres)
		}
	case BackendRedis:
		if cfg.RedisAddr == "" {
			return nil, fmt.Errorf("redis address must be provided for %s storage", BackendRedis)
		}
	default:
		return nil, fmt.Errorf("unknown storage backend %q", cfg.StorageBackend)
	}

	return cfg, nil
}

// EventsEnabled reports whether transaction events should be published.
func (c *Config) EventsEnabled() bool {
	return len(c.KafkaBrokers) > 0
}

func splitList(v string) []string {
	var out []string
	for _, part := range strings.Split(v, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}

func getString(lookup envLookup, key, def string) string {
	if v, ok := lookup(key); ok && v != "" {
		return v
	}
	return def
}

func getInt(lookup envLookup, key string, def int) int {
	if v, ok := lookup(key); ok && v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return def
}

func getDuration(lookup envLookup, key string, def time.Duration) time.Duration {
	if v, ok := lookup(key); ok && v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return def
}
