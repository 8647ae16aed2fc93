package config

import (
	"os"
	"runtime"
	"strconv"
	"time"
)

// Config holds all runtime configuration loaded from environment variables.
// Every field has a sensible default; the server runs with no environment
// at all (in-memory journal, no webhook) for local development.
type Config struct {
	// Server
	HTTPPort        string
	ReadTimeout     time.Duration
	WriteTimeout    time.Duration
	ShutdownTimeout time.Duration

	// Database. Empty DatabaseURL disables the Postgres journal and the
	// simulation persists into the in-memory journal instead.
	DatabaseURL string
	DBMaxConns  int32
	DBMinConns  int32

	// Simulation
	Workers      int           // fork-join worker slots; 0 = GOMAXPROCS
	Entities     int           // entity population iterated each tick
	TickInterval time.Duration // time between fork-join invocations
	Seed         uint64        // RNG seed; 0 = derived from wall clock

	// Alerting thresholds on the simulated reading (0..100 scale)
	AlertThreshold    float64
	CriticalThreshold float64

	// Delivery
	DeliveryRate   int    // journal/webhook events per second, per kind
	WebhookURL     string // empty disables the webhook provider
	WebhookTimeout time.Duration
}

func Load() *Config {
	return &Config{
		HTTPPort:        getEnv("HTTP_PORT", "8080"),
		ReadTimeout:     getDuration("READ_TIMEOUT", 5*time.Second),
		WriteTimeout:    getDuration("WRITE_TIMEOUT", 10*time.Second),
		ShutdownTimeout: getDuration("SHUTDOWN_TIMEOUT", 30*time.Second),

		DatabaseURL: os.Getenv("DATABASE_URL"),
		DBMaxConns:  int32(getInt("DB_MAX_CONNS", 10)),
		DBMinConns:  int32(getInt("DB_MIN_CONNS", 2)),

		Workers:      getInt("WORKERS", runtime.GOMAXPROCS(0)),
		Entities:     getInt("ENTITIES", 4096),
		TickInterval: getDuration("TICK_INTERVAL", time.Second),
		Seed:         uint64(getInt("SEED", 0)),

		AlertThreshold:    getFloat("ALERT_THRESHOLD", 75),
		CriticalThreshold: getFloat("CRITICAL_THRESHOLD", 90),

		DeliveryRate:   getInt("DELIVERY_RATE", 500),
		WebhookURL:     os.Getenv("WEBHOOK_URL"),
		WebhookTimeout: getDuration("WEBHOOK_TIMEOUT", 5*time.Second),
	}
}

func getEnv(key, defaultVal string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return defaultVal
}

func getInt(key string, defaultVal int) int {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			return n
		}
	}
	return defaultVal
}

func getFloat(key string, defaultVal float64) float64 {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			return f
		}
	}
	return defaultVal
}

func getDuration(key string, defaultVal time.Duration) time.Duration {
	if v := os.Getenv(key); v != "" {
		if d, err := time.ParseDuration(v); err == nil {
			return d
		}
	}
	return defaultVal
}
