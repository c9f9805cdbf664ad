// Package config provides environment-driven configuration for kinnet.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/persistorai/kinnet/internal/compute"
	"github.com/persistorai/kinnet/internal/traversal"
)

// Store drivers.
const (
	DriverPostgres = "postgres"
	DriverSQLite   = "sqlite"
)

// Secret wraps a sensitive string to prevent accidental logging or marshalling.
type Secret string

// String implements fmt.Stringer, returning a redacted placeholder.
func (s Secret) String() string { return "[REDACTED]" }

// GoString implements fmt.GoStringer, returning a redacted placeholder.
func (s Secret) GoString() string { return "[REDACTED]" }

// MarshalText implements encoding.TextMarshaler, returning a redacted placeholder.
func (s Secret) MarshalText() ([]byte, error) { return []byte("[REDACTED]"), nil }

// Value returns the underlying secret string.
func (s Secret) Value() string { return string(s) }

// Config holds all application configuration values.
type Config struct {
	StoreDriver string
	DatabaseURL Secret
	SQLitePath  string
	DBMaxConns  int

	Port        string
	ListenHost  string
	CORSOrigins []string
	LogLevel    string

	ComputeWorkers   int
	LayoutWorkers    int
	ComputeQueueSize int
	PartitionSize    int

	MaxTraversalNodes int
	MaxTraversalDepth int

	// RelationshipTable is an optional YAML file replacing the built-in code table.
	RelationshipTable string
}

// Load reads configuration from environment variables with sensible defaults.
func Load() (*Config, error) {
	cfg := &Config{
		StoreDriver:       strings.ToLower(envOrDefault("STORE_DRIVER", DriverPostgres)),
		DatabaseURL:       Secret(envOrDefault("DATABASE_URL", "")),
		SQLitePath:        envOrDefault("SQLITE_PATH", ""),
		Port:              envOrDefault("PORT", "3040"),
		ListenHost:        envOrDefault("LISTEN_HOST", "127.0.0.1"),
		LogLevel:          envOrDefault("LOG_LEVEL", "info"),
		RelationshipTable: envOrDefault("RELATIONSHIP_TABLE", ""),
	}

	ints := []struct {
		key      string
		fallback int
		min, max int
		dst      *int
	}{
		{"DB_MAX_CONNS", 10, 2, 200, &cfg.DBMaxConns},
		{"COMPUTE_WORKERS", compute.MaxWorkers, compute.MinWorkers, compute.MaxWorkers, &cfg.ComputeWorkers},
		{"LAYOUT_WORKERS", compute.MaxLayoutWorkers, compute.MinWorkers, compute.MaxLayoutWorkers, &cfg.LayoutWorkers},
		{"COMPUTE_QUEUE_SIZE", 64, 1, 10_000, &cfg.ComputeQueueSize},
		{"PARTITION_SIZE", 0, 0, traversal.DefaultMaxNodes, &cfg.PartitionSize},
		{"MAX_TRAVERSAL_NODES", 5_000, 1, traversal.DefaultMaxNodes, &cfg.MaxTraversalNodes},
		{"MAX_TRAVERSAL_DEPTH", 3, 1, traversal.MaxDepthLimit, &cfg.MaxTraversalDepth},
	}

	for _, v := range ints {
		n, err := intEnv(v.key, v.fallback, v.min, v.max)
		if err != nil {
			return nil, err
		}

		*v.dst = n
	}

	if origins := envOrDefault("CORS_ORIGINS", ""); origins != "" {
		for _, o := range strings.Split(origins, ",") {
			if o = strings.TrimSpace(o); o != "" {
				cfg.CORSOrigins = append(cfg.CORSOrigins, o)
			}
		}
	}

	if err := cfg.validate(); err != nil {
		return nil, fmt.Errorf("config validation: %w", err)
	}

	return cfg, nil
}

// Addr returns the listen address in host:port format.
func (c *Config) Addr() string {
	return c.ListenHost + ":" + c.Port
}

func intEnv(key string, fallback, lo, hi int) (int, error) {
	raw := envOrDefault(key, strconv.Itoa(fallback))

	n, err := strconv.Atoi(raw)
	if err != nil || n < lo || n > hi {
		return 0, fmt.Errorf("%s must be an integer between %d and %d", key, lo, hi)
	}

	return n, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}

	return fallback
}
