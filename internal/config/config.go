// Package config reads service configuration from the environment.
package config

import (
	"os"
	"strconv"
	"time"

	"github.com/mizu-catering/orderhub/internal/schedule"
)

// Config holds everything the server needs to start.
type Config struct {
	// HTTPAddr is the listen address, e.g. ":8080".
	HTTPAddr string
	// SQLitePath is the order database file.
	SQLitePath string
	// RedisAddr enables the menu cache when non-empty.
	RedisAddr string
	// ExternalTimeout bounds each payment/store/email call.
	ExternalTimeout time.Duration
	// Schedule holds the delivery window knobs.
	Schedule schedule.Config
	// Tracing enables the OTLP exporter.
	Tracing bool
}

// Load reads the configuration, falling back to development defaults.
func Load() *Config {
	sched := schedule.DefaultConfig()
	sched.LeadTime = getDuration("DELIVERY_LEAD_TIME", sched.LeadTime)
	sched.SlotInterval = getDuration("DELIVERY_SLOT_INTERVAL", sched.SlotInterval)

	return &Config{
		HTTPAddr:        getEnv("HTTP_ADDR", ":8080"),
		SQLitePath:      getEnv("SQLITE_PATH", "./data/orders.db"),
		RedisAddr:       os.Getenv("REDIS_ADDR"),
		ExternalTimeout: getDuration("EXTERNAL_TIMEOUT", 5*time.Second),
		Schedule:        sched,
		Tracing:         getBool("TRACING_ENABLED", false),
	}
}

func getEnv(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func getDuration(key string, fallback time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return fallback
}

func getBool(key string, fallback bool) bool {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			return b
		}
	}
	return fallback
}
