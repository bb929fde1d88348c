package app

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/concordfed/logdb/internal/logstore"
	"github.com/concordfed/logdb/internal/logstore/sqlbackend"
)

// BackendType selects the storage backend used by the node.
type BackendType string

// Supported backend types.
const (
	BackendTypeMySQL  BackendType = "mysql"
	BackendTypeMemory BackendType = "memory"
)

// Config contains runtime settings for a node process.
type Config struct {
	NodeID   string
	LogLevel string

	Backend BackendType
	MySQL   sqlbackend.Config

	// Solo marks the process as a standalone master without consensus.
	Solo bool
	// LogRetention is the minimum number of applied log records kept after purge.
	LogRetention uint64
	// FederationEnabled journals solo writes for cross-cluster replication.
	FederationEnabled bool
	// PurgeInterval is the period of the retention compactor.
	PurgeInterval time.Duration

	MetricsAddr string
	PprofAddr   string

	TracingEnabled     bool
	TracingEndpoint    string
	TracingServiceName string
}

// DefaultConfig returns a local-development configuration.
func DefaultConfig() Config {
	return Config{
		NodeID:   "zone-0",
		LogLevel: "info",
		Backend:  BackendTypeMySQL,
		MySQL: sqlbackend.Config{
			User:     "oneadmin",
			Password: "oneadmin",
			Host:     "127.0.0.1",
			Port:     "3306",
			Database: "logdb",
		},
		Solo:               true,
		LogRetention:       logstore.DefaultConfig().LogRetention,
		PurgeInterval:      time.Minute,
		TracingServiceName: "logdb",
	}
}

// LogStore derives the log-store configuration from the node settings.
func (c Config) LogStore() logstore.Config {
	return logstore.Config{
		Solo:              c.Solo,
		LogRetention:      c.LogRetention,
		FederationEnabled: c.FederationEnabled,
	}
}

// LoadConfigFromEnv loads config from environment variables.
//
// Supported vars:
// - LOGDB_NODE_ID
// - LOGDB_LOG_LEVEL (debug|info|warn|error)
// - LOGDB_BACKEND (mysql|memory)
// - LOGDB_MYSQL_USER / _PASSWORD / _HOST / _PORT / _DATABASE
// - LOGDB_SOLO (bool)
// - LOGDB_LOG_RETENTION (uint)
// - LOGDB_FEDERATION_ENABLED (bool)
// - LOGDB_PURGE_INTERVAL (duration, e.g. "60s")
// - LOGDB_METRICS_ADDR
// - LOGDB_PPROF_ADDR
// - LOGDB_TRACING_ENABLED (bool)
// - LOGDB_TRACING_ENDPOINT
// - LOGDB_TRACING_SERVICE_NAME
func LoadConfigFromEnv() (Config, error) {
	cfg := DefaultConfig()

	if v := strings.TrimSpace(os.Getenv("LOGDB_NODE_ID")); v != "" {
		cfg.NodeID = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_LOG_LEVEL")); v != "" {
		cfg.LogLevel = strings.ToLower(v)
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_BACKEND")); v != "" {
		cfg.Backend = BackendType(strings.ToLower(v))
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_MYSQL_USER")); v != "" {
		cfg.MySQL.User = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_MYSQL_PASSWORD")); v != "" {
		cfg.MySQL.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_MYSQL_HOST")); v != "" {
		cfg.MySQL.Host = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_MYSQL_PORT")); v != "" {
		cfg.MySQL.Port = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_MYSQL_DATABASE")); v != "" {
		cfg.MySQL.Database = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_SOLO")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid LOGDB_SOLO %q: %w", v, err)
		}
		cfg.Solo = b
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_LOG_RETENTION")); v != "" {
		n, err := strconv.ParseUint(v, 10, 64)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid LOGDB_LOG_RETENTION %q: %w", v, err)
		}
		cfg.LogRetention = n
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_FEDERATION_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid LOGDB_FEDERATION_ENABLED %q: %w", v, err)
		}
		cfg.FederationEnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_PURGE_INTERVAL")); v != "" {
		d, err := time.ParseDuration(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid LOGDB_PURGE_INTERVAL %q: %w", v, err)
		}
		cfg.PurgeInterval = d
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_METRICS_ADDR")); v != "" {
		cfg.MetricsAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_PPROF_ADDR")); v != "" {
		cfg.PprofAddr = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_TRACING_ENABLED")); v != "" {
		b, err := strconv.ParseBool(v)
		if err != nil {
			return Config{}, fmt.Errorf("app: invalid LOGDB_TRACING_ENABLED %q: %w", v, err)
		}
		cfg.TracingEnabled = b
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_TRACING_ENDPOINT")); v != "" {
		cfg.TracingEndpoint = v
	}
	if v := strings.TrimSpace(os.Getenv("LOGDB_TRACING_SERVICE_NAME")); v != "" {
		cfg.TracingServiceName = v
	}

	if err := cfg.Validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

// Validate checks that required settings are present and supported.
func (c Config) Validate() error {
	if strings.TrimSpace(c.NodeID) == "" {
		return fmt.Errorf("app: node id is required")
	}
	switch strings.ToLower(strings.TrimSpace(c.LogLevel)) {
	case "debug", "info", "warn", "error":
	default:
		return fmt.Errorf("app: unsupported log level %q", c.LogLevel)
	}
	switch c.Backend {
	case BackendTypeMySQL:
		if strings.TrimSpace(c.MySQL.Host) == "" || strings.TrimSpace(c.MySQL.Database) == "" {
			return fmt.Errorf("app: mysql host and database are required")
		}
	case BackendTypeMemory:
	default:
		return fmt.Errorf("app: unsupported backend type %q", c.Backend)
	}
	if c.PurgeInterval <= 0 {
		return fmt.Errorf("app: purge interval must be positive")
	}
	if c.TracingEnabled && strings.TrimSpace(c.TracingEndpoint) == "" {
		return fmt.Errorf("app: tracing endpoint is required when tracing is enabled")
	}
	return nil
}
