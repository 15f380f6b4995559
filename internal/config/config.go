package config

import (
	"flag"
	"fmt"
	"io"
	"os"
	"strconv"
	"time"
)

// Config holds application level configuration loaded from environment and flags.
type Config struct {
	RunAddress        string
	DatabaseURI       string
	AdminTokenHash    string
	DefaultExpiration time.Duration
	EventBufferSize   int
	WorkerPoolSize    int
	CacheRetries      int
	CacheRetryBackoff time.Duration
	ShutdownTimeout   time.Duration
}

const (
	defaultRunAddress        = ":8080"
	defaultExpirationWindow  = 365 * 24 * time.Hour
	defaultEventBufferSize   = 256
	defaultWorkerPoolSize    = 4
	defaultCacheRetries      = 3
	defaultCacheRetryBackoff = time.Second
	defaultShutdownTimeout   = 10 * time.Second
)

// Load parses configuration from flags and environment variables.
func Load() (*Config, error) {
	return load(os.Args[1:], os.LookupEnv)
}

type envLookup func(string) (string, bool)

func load(args []string, lookup envLookup) (*Config, error) {
	cfg := &Config{
		RunAddress:        getString(lookup, "RUN_ADDRESS", defaultRunAddress),
		DatabaseURI:       getString(lookup, "DATABASE_URI", ""),
		AdminTokenHash:    getString(lookup, "ADMIN_TOKEN_HASH", ""),
		DefaultExpiration: getDuration(lookup, "DEFAULT_EXPIRATION", defaultExpirationWindow),
		EventBufferSize:   getInt(lookup, "EVENT_BUFFER_SIZE", defaultEventBufferSize),
		WorkerPoolSize:    getInt(lookup, "WORKER_POOL_SIZE", defaultWorkerPoolSize),
		CacheRetries:      getInt(lookup, "CACHE_RETRY_ATTEMPTS", defaultCacheRetries),
		CacheRetryBackoff: getDuration(lookup, "CACHE_RETRY_BACKOFF", defaultCacheRetryBackoff),
		ShutdownTimeout:   getDuration(lookup, "SHUTDOWN_TIMEOUT", defaultShutdownTimeout),
	}

	fs := flag.NewFlagSet("pointledger", flag.ContinueOnError)
	fs.SetOutput(io.Discard)

	var (
		expirationStr      = cfg.DefaultExpiration.String()
		backoffStr         = cfg.CacheRetryBackoff.String()
		shutdownTimeoutStr = cfg.ShutdownTimeout.String()
	)

	fs.StringVar(&cfg.RunAddress, "a", cfg.RunAddress, "HTTP server listen address")
	fs.StringVar(&cfg.DatabaseURI, "d", cfg.DatabaseURI, "PostgreSQL DSN")
	fs.StringVar(&cfg.AdminTokenHash, "admin-token-hash", cfg.AdminTokenHash, "bcrypt hash of the admin API token")
	fs.IntVar(&cfg.EventBufferSize, "event-buffer", cfg.EventBufferSize, "Event bus buffer size per subscriber")
	fs.IntVar(&cfg.WorkerPoolSize, "worker-pool", cfg.WorkerPoolSize, "Number of concurrent cache maintenance workers")
	fs.IntVar(&cfg.CacheRetries, "cache-retries", cfg.CacheRetries, "Cache delta attempts before reconciliation is requested")
	fs.StringVar(&expirationStr, "default-expiration", expirationStr, "Expiration window for grants without explicit date")
	fs.StringVar(&backoffStr, "cache-backoff", backoffStr, "Initial backoff between cache delta retries")
	fs.StringVar(&shutdownTimeoutStr, "shutdown-timeout", shutdownTimeoutStr, "Graceful shutdown timeout")

	if err := fs.Parse(args); err != nil {
		return nil, fmt.Errorf("parse flags: %w", err)
	}

	var err error

	if cfg.DefaultExpiration, err = time.ParseDuration(expirationStr); err != nil {
		return nil, fmt.Errorf("invalid default expiration: %w", err)
	}

	if cfg.CacheRetryBackoff, err = time.ParseDuration(backoffStr); err != nil {
		return nil, fmt.Errorf("invalid cache backoff: %w", err)
	}

	if cfg.ShutdownTimeout, err = time.ParseDuration(shutdownTimeoutStr); err != nil {
		return nil, fmt.Errorf("invalid shutdown timeout: %w", err)
	}

	if hashFile, ok := lookup("ADMIN_TOKEN_HASH_FILE"); ok && hashFile != "" {
		content, err := os.ReadFile(hashFile)
		if err != nil {
			return nil, fmt.Errorf("read admin token hash file: %w", err)
		}
		cfg.AdminTokenHash = string(content)
	}

	if cfg.EventBufferSize <= 0 {
		cfg.EventBufferSize = defaultEventBufferSize
	}

	if cfg.WorkerPoolSize <= 0 {
		cfg.WorkerPoolSize = defaultWorkerPoolSize
	}

	if cfg.CacheRetries <= 0 {
		cfg.CacheRetries = defaultCacheRetries
	}

	if cfg.CacheRetryBackoff <= 0 {
		cfg.CacheRetryBackoff = defaultCacheRetryBackoff
	}

	if cfg.DefaultExpiration <= 0 {
		cfg.DefaultExpiration = defaultExpirationWindow
	}

	if cfg.ShutdownTimeout <= 0 {
		cfg.ShutdownTimeout = defaultShutdownTimeout
	}

	if cfg.DatabaseURI == "" {
		return nil, fmt.Errorf("database URI must be provided")
	}

	return cfg, nil
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
