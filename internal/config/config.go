// Package config loads service settings from the environment, reading an
// optional .env file first.
package config

import (
	"errors"
	"fmt"
	"os"
	"strings"
	"time"

	"github.com/joho/godotenv"
)

// Config holds all service settings, populated from environment variables.
type Config struct {
	DatabaseDriver string
	DatabaseDSN    string

	WeatherMappingURL  string
	WeatherMessagesURL string
	FetchTimeout       time.Duration

	HTTPAddr        string
	LogLevel        string
	LogFormat       string
	ShutdownTimeout time.Duration

	// Optional export of the merged dataset.
	KafkaBrokers       []string
	KafkaExportTopic   string
	KafkaExportEnabled bool
	OutputDir          string
}

// Load reads configuration from the environment, applying defaults where
// unset. A .env file in the working directory is honored when present.
func Load() (*Config, error) {
	_ = godotenv.Load()

	fetchTimeout, err := envDuration("FETCH_TIMEOUT", 30*time.Second)
	if err != nil {
		return nil, err
	}
	shutdownTimeout, err := envDuration("SHUTDOWN_TIMEOUT", 10*time.Second)
	if err != nil {
		return nil, err
	}

	cfg := &Config{
		DatabaseDriver: envOrDefault("DATABASE_DRIVER", "sqlite3"),
		DatabaseDSN:    envOrDefault("DATABASE_DSN", "data/field_survey.db"),

		WeatherMappingURL:  envOrDefault("WEATHER_MAPPING_URL", "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/weather_data_field_mapping.csv"),
		WeatherMessagesURL: envOrDefault("WEATHER_MESSAGES_URL", "https://raw.githubusercontent.com/Explore-AI/Public-Data/master/Maji_Ndogo/weather_station_data.csv"),
		FetchTimeout:       fetchTimeout,

		HTTPAddr:        envOrDefault("HTTP_ADDR", ":8080"),
		LogLevel:        envOrDefault("LOG_LEVEL", "info"),
		LogFormat:       envOrDefault("LOG_FORMAT", "json"),
		ShutdownTimeout: shutdownTimeout,

		KafkaBrokers:       splitBrokers(envOrDefault("KAFKA_BROKERS", "localhost:9092")),
		KafkaExportTopic:   envOrDefault("KAFKA_EXPORT_TOPIC", "field-dataset"),
		KafkaExportEnabled: os.Getenv("KAFKA_EXPORT_ENABLED") == "true",
		OutputDir:          os.Getenv("OUTPUT_DIR"),
	}

	if cfg.DatabaseDSN == "" {
		return nil, errors.New("DATABASE_DSN is required")
	}
	if cfg.WeatherMappingURL == "" {
		return nil, errors.New("WEATHER_MAPPING_URL is required")
	}
	if cfg.WeatherMessagesURL == "" {
		return nil, errors.New("WEATHER_MESSAGES_URL is required")
	}
	if cfg.KafkaExportEnabled && len(cfg.KafkaBrokers) == 0 {
		return nil, errors.New("KAFKA_EXPORT_ENABLED is true but KAFKA_BROKERS is not set")
	}
	if cfg.KafkaExportEnabled && cfg.KafkaExportTopic == "" {
		return nil, errors.New("KAFKA_EXPORT_ENABLED is true but KAFKA_EXPORT_TOPIC is not set")
	}

	return cfg, nil
}

func envOrDefault(key, fallback string) string {
	if v := os.Getenv(key); v != "" {
		return v
	}
	return fallback
}

func envDuration(key string, fallback time.Duration) (time.Duration, error) {
	s := os.Getenv(key)
	if s == "" {
		return fallback, nil
	}
	d, err := time.ParseDuration(s)
	if err != nil || d <= 0 {
		return 0, fmt.Errorf("invalid %s: %q", key, s)
	}
	return d, nil
}

func splitBrokers(s string) []string {
	var brokers []string
	for _, b := range strings.Split(s, ",") {
		if b = strings.TrimSpace(b); b != "" {
			brokers = append(brokers, b)
		}
	}
	return brokers
}
