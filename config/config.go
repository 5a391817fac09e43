package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"sync"
	"time"

	"roicalc/database"
)

// Config holds all application configuration
type Config struct {
	// HTTP configuration
	Port               int
	CORSAllowedOrigins []string
	ReportRateLimit    int // Report requests allowed per client per minute

	// Database configuration
	DatabaseURL  string
	DatabaseName string

	// Logging configuration
	LogLevel  string
	LogFormat string // "text" or "json"

	// Scenario read cache (disabled when RedisAddr is empty)
	RedisAddr        string
	ScenarioCacheTTL time.Duration

	// NATS configuration (event forwarding disabled when empty)
	NATSServers string

	// Discord webhook for lead notifications (disabled when empty)
	DiscordLeadWebhookID    string
	DiscordLeadWebhookToken string

	// OpenTelemetry configuration
	OTelEnabled              bool
	OTelExporterType         string // "console", "otlp" or "none"
	OTelOTLPEndpoint         string
	OTelServiceName          string
	OTelExportIntervalMillis int

	// Timeouts
	LeadCaptureTimeout time.Duration
	ShutdownTimeout    time.Duration

	// Environment
	Environment string // "development", "production" or "test"
}

var (
	instance *Config
	once     sync.Once
	mu       sync.Mutex // Protects instance for test setup
)

// Get returns the global configuration instance
func Get() *Config {
	mu.Lock()
	defer mu.Unlock()

	// If instance is already set (e.g., by tests), return it
	if instance != nil {
		return instance
	}

	once.Do(func() {
		var err error
		instance, err = load()
		if err != nil {
			panic(fmt.Sprintf("failed to load config: %v", err))
		}
	})
	return instance
}

// SetForTesting replaces the global configuration instance
func SetForTesting(cfg *Config) {
	mu.Lock()
	defer mu.Unlock()
	instance = cfg
}

// Load reads the configuration from the environment without touching the global instance
func Load() (*Config, error) {
	return load()
}

// GetDatabaseURL constructs the full database URL by combining base URL and database name
func (c *Config) GetDatabaseURL() string {
	return database.ConstructDatabaseURL(c.DatabaseURL, c.DatabaseName)
}

// IsProduction reports whether the service runs in production mode
func (c *Config) IsProduction() bool {
	return c.Environment == "production"
}

// load loads configuration from environment variables
func load() (*Config, error) {
	config := &Config{
		// HTTP
		Port:               3001,
		CORSAllowedOrigins: []string{"*"},
		ReportRateLimit:    10,

		// Database
		DatabaseURL:  os.Getenv("DATABASE_URL"),
		DatabaseName: os.Getenv("DATABASE_NAME"),

		// Logging
		LogLevel:  getEnvWithDefault("LOG_LEVEL", "info"),
		LogFormat: os.Getenv("LOG_FORMAT"),

		// Cache
		RedisAddr:        os.Getenv("REDIS_ADDR"),
		ScenarioCacheTTL: 10 * time.Minute,

		// NATS
		NATSServers: os.Getenv("NATS_SERVERS"),

		// Discord
		DiscordLeadWebhookID:    os.Getenv("DISCORD_LEAD_WEBHOOK_ID"),
		DiscordLeadWebhookToken: os.Getenv("DISCORD_LEAD_WEBHOOK_TOKEN"),

		// OpenTelemetry
		OTelEnabled:              os.Getenv("OTEL_ENABLED") == "true",
		OTelExporterType:         getEnvWithDefault("OTEL_EXPORTER_TYPE", "console"),
		OTelOTLPEndpoint:         getEnvWithDefault("OTEL_OTLP_ENDPOINT", "localhost:4317"),
		OTelServiceName:          getEnvWithDefault("OTEL_SERVICE_NAME", "roicalc"),
		OTelExportIntervalMillis: 60000,

		// Timeouts
		LeadCaptureTimeout: 5 * time.Second,
		ShutdownTimeout:    10 * time.Second,

		// Environment
		Environment: os.Getenv("ENVIRONMENT"),
	}

	// Override defaults if environment variables are set
	if port := os.Getenv("PORT"); port != "" {
		parsedPort, err := strconv.Atoi(port)
		if err != nil || parsedPort <= 0 || parsedPort > 65535 {
			return nil, fmt.Errorf("PORT must be a valid TCP port, got %q", port)
		}
		config.Port = parsedPort
	}
	if limit := os.Getenv("REPORT_RATE_LIMIT"); limit != "" {
		if parsedLimit, err := strconv.Atoi(limit); err == nil && parsedLimit > 0 {
			config.ReportRateLimit = parsedLimit
		}
	}
	if interval := os.Getenv("OTEL_EXPORT_INTERVAL_MS"); interval != "" {
		if parsedInterval, err := strconv.Atoi(interval); err == nil && parsedInterval > 0 {
			config.OTelExportIntervalMillis = parsedInterval
		}
	}
	config.ScenarioCacheTTL = getDurationWithDefault("SCENARIO_CACHE_TTL", config.ScenarioCacheTTL)
	config.LeadCaptureTimeout = getDurationWithDefault("LEAD_CAPTURE_TIMEOUT", config.LeadCaptureTimeout)
	config.ShutdownTimeout = getDurationWithDefault("SHUTDOWN_TIMEOUT", config.ShutdownTimeout)

	// Parse allowed CORS origins
	if origins := os.Getenv("CORS_ALLOWED_ORIGINS"); origins != "" {
		config.CORSAllowedOrigins = nil
		for _, origin := range strings.Split(origins, ",") {
			origin = strings.TrimSpace(origin)
			if origin != "" {
				config.CORSAllowedOrigins = append(config.CORSAllowedOrigins, origin)
			}
		}
	}

	// Set default environment if not specified
	if config.Environment == "" {
		config.Environment = "development"
	}

	if config.Environment != "test" {
		// Validate required configuration
		if config.DatabaseURL == "" {
			return nil, fmt.Errorf("DATABASE_URL is required")
		}
	}

	if (config.DiscordLeadWebhookID == "") != (config.DiscordLeadWebhookToken == "") {
		return nil, fmt.Errorf("DISCORD_LEAD_WEBHOOK_ID and DISCORD_LEAD_WEBHOOK_TOKEN must be set together")
	}

	return config, nil
}

// NewTestConfig returns a configuration suitable for tests
func NewTestConfig() *Config {
	return &Config{
		Port:                     3001,
		CORSAllowedOrigins:       []string{"*"},
		ReportRateLimit:          1000,
		LogLevel:                 "debug",
		ScenarioCacheTTL:         time.Minute,
		OTelExporterType:         "none",
		OTelServiceName:          "roicalc-test",
		OTelExportIntervalMillis: 60000,
		LeadCaptureTimeout:       time.Second,
		ShutdownTimeout:          time.Second,
		Environment:              "test",
	}
}

func getEnvWithDefault(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getDurationWithDefault(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if parsed, err := time.ParseDuration(value); err == nil && parsed > 0 {
			return parsed
		}
	}
	return defaultValue
}
