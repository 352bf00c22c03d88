package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/cosmosgate/cosmosgate/core/logger"
)

// Connector kinds selectable via the CONNECTOR environment variable.
const (
	ConnectorCosmos  = "cosmos"
	ConnectorMongoDB = "mongodb"
)

// Config holds the process-wide settings, read once at startup and
// immutable for the process lifetime.
type Config struct {
	// ConnectionString holds the document store's account endpoint and key.
	ConnectionString string
	// DatabaseID is the default database targeted by queries.
	DatabaseID string
	// ContainerID is the default container targeted by queries.
	ContainerID string
	// Connector selects the wire protocol: cosmos (SQL API) or mongodb.
	Connector string
	// Port is the HTTP listen port.
	Port string
	// LogLevel is the global log level (1=ERROR .. 4=DEBUG).
	LogLevel int
}

// Load reads configuration from the environment. Missing required
// variables are a fatal startup condition, never a per-request error.
func Load() (*Config, error) {
	cfg := &Config{
		ConnectionString: os.Getenv("CONNECTION_STRING"),
		DatabaseID:       os.Getenv("DATABASE_ID"),
		ContainerID:      os.Getenv("CONTAINER_ID"),
		Connector:        strings.ToLower(os.Getenv("CONNECTOR")),
		Port:             os.Getenv("PORT"),
		LogLevel:         logger.LevelInfo,
	}

	if cfg.Connector == "" {
		cfg.Connector = ConnectorCosmos
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	if raw := os.Getenv("LOG_LEVEL"); raw != "" {
		level, err := strconv.Atoi(raw)
		if err != nil || level < logger.LevelError || level > logger.LevelDebug {
			return nil, fmt.Errorf("invalid LOG_LEVEL %q: must be an integer between %d and %d", raw, logger.LevelError, logger.LevelDebug)
		}
		cfg.LogLevel = level
	}

	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) validate() error {
	var missing []string
	if c.ConnectionString == "" {
		missing = append(missing, "CONNECTION_STRING")
	}
	if c.DatabaseID == "" {
		missing = append(missing, "DATABASE_ID")
	}
	if c.ContainerID == "" {
		missing = append(missing, "CONTAINER_ID")
	}
	if len(missing) > 0 {
		return fmt.Errorf("missing required environment variable(s): %s", strings.Join(missing, ", "))
	}

	switch c.Connector {
	case ConnectorCosmos, ConnectorMongoDB:
	default:
		return fmt.Errorf("unsupported connector %q: must be %q or %q", c.Connector, ConnectorCosmos, ConnectorMongoDB)
	}
	return nil
}
