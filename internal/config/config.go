package config

import (
	"errors"
	"os"
	"strconv"
	"time"

	sharedcfg "github.com/couchcryptid/storm-data-shared/config"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// TomTom provider configuration.
	TomTomKey     string
	TomTomTimeout time.Duration

	// Nearby-search page size forwarded to the provider when the caller
	// does not ask for one.
	PageSize int

	// Geocode candidate limit for address suggestions.
	SuggestLimit int

	// History store configuration.
	HistoryDBPath string

	// Optional search-event publishing.
	KafkaEnabled   bool
	KafkaBrokers   []string
	KafkaSinkTopic string
}

// Load reads configuration from environment variables, applying defaults where unset.
func Load() (*Config, error) {
	shutdownTimeout, err := sharedcfg.ParseShutdownTimeout()
	if err != nil {
		return nil, err
	}

	tomtomTimeoutStr := sharedcfg.EnvOrDefault("TOMTOM_TIMEOUT", "5s")
	tomtomTimeout, err := time.ParseDuration(tomtomTimeoutStr)
	if err != nil || tomtomTimeout <= 0 {
		return nil, errors.New("invalid TOMTOM_TIMEOUT")
	}

	kafkaEnabled := os.Getenv("KAFKA_ENABLED") == "true"

	cfg := &Config{
		HTTPAddr:        sharedcfg.EnvOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        sharedcfg.EnvOrDefault("LOG_LEVEL", "info"),
		LogFormat:       sharedcfg.EnvOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		TomTomKey:     os.Getenv("TOMTOM_KEY"),
		TomTomTimeout: tomtomTimeout,

		PageSize:     parsePositiveInt("PAGE_SIZE", 9),
		SuggestLimit: parsePositiveInt("SUGGEST_LIMIT", 5),

		HistoryDBPath: sharedcfg.EnvOrDefault("HISTORY_DB_PATH", "facility-finder.db"),

		KafkaEnabled:   kafkaEnabled,
		KafkaBrokers:   sharedcfg.ParseBrokers(sharedcfg.EnvOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaSinkTopic: sharedcfg.EnvOrDefault("KAFKA_SINK_TOPIC", "facility-search-events"),
	}

	if cfg.TomTomKey == "" {
		return nil, errors.New("TOMTOM_KEY is required")
	}
	if cfg.KafkaEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaEnabled && cfg.KafkaSinkTopic == "" {
		return nil, errors.New("KAFKA_ENABLED is true but KAFKA_SINK_TOPIC is not set")
	}

	return cfg, nil
}

func parsePositiveInt(key string, def int) int {
	if s := os.Getenv(key); s != "" {
		if n, err := strconv.Atoi(s); err == nil && n > 0 {
			return n
		}
	}
	return def
}
