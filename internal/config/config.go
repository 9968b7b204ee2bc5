package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config holds all configuration for the station viewer
type Config struct {
	// Digitraffic
	BaseURL         string
	HTTPTimeout     time.Duration
	ArrivingTrains  int
	DepartingTrains int

	// Presentation
	Timezone   string
	TimeLayout string
	Labels     Labels

	// HTTP server
	Port        string
	CORSOrigins []string

	// History store
	HistoryEnabled    bool
	SQLitePath        string
	DatabaseURL       string
	RetentionDuration time.Duration

	// Logging
	LogLevel string
	LogFile  string
}

// Labels are the user-visible strings of the page, tables and status line.
type Labels struct {
	Title             string `yaml:"title"`
	SearchPlaceholder string `yaml:"search_placeholder"`
	FetchButton       string `yaml:"fetch_button"`
	ArrivingTitle     string `yaml:"arriving_title"`
	DepartingTitle    string `yaml:"departing_title"`
	TrainColumn       string `yaml:"train_column"`
	OriginColumn      string `yaml:"origin_column"`
	DestinationColumn string `yaml:"destination_column"`
	ArrivalColumn     string `yaml:"arrival_column"`
	DepartureColumn   string `yaml:"departure_column"`
	ActualColumn      string `yaml:"actual_column"`
	DelayColumn       string `yaml:"delay_column"`
	EmptyTable        string `yaml:"empty_table"`

	StatusLoading      string `yaml:"status_loading"`
	StatusFound        string `yaml:"status_found"` // fmt verb %d receives the train count
	StatusNoTrains     string `yaml:"status_no_trains"`
	StatusFetchFailed  string `yaml:"status_fetch_failed"`
	StatusCatalogError string `yaml:"status_catalog_error"`
	StatusSelect       string `yaml:"status_select"`
}

// DefaultLabels returns the built-in English labels.
func DefaultLabels() Labels {
	return Labels{
		Title:             "Station timetable",
		SearchPlaceholder: "Search station…",
		FetchButton:       "Fetch trains",
		ArrivingTitle:     "Arriving trains",
		DepartingTitle:    "Departing trains",
		TrainColumn:       "Train",
		OriginColumn:      "From",
		DestinationColumn: "Destination",
		ArrivalColumn:     "Arrival",
		DepartureColumn:   "Departure",
		ActualColumn:      "Actual",
		DelayColumn:       "Delay",
		EmptyTable:        "No trains",

		StatusLoading:      "Fetching station data…",
		StatusFound:        "Found %d trains",
		StatusNoTrains:     "No trains currently.",
		StatusFetchFailed:  "Fetch failed.",
		StatusCatalogError: "Station lookup error.",
		StatusSelect:       "Select a station.",
	}
}

// Load reads .env files and environment variables with sensible defaults
func Load() (*Config, error) {
	// Base .env first, then .env.local which overrides it for local development
	_ = godotenv.Load(".env")
	_ = godotenv.Overload(".env.local")

	cfg := &Config{
		BaseURL:         strings.TrimRight(getEnv("DIGITRAFFIC_BASE_URL", "https://rata.digitraffic.fi/api/v1"), "/"),
		HTTPTimeout:     getEnvDuration("HTTP_TIMEOUT", 15*time.Second),
		ArrivingTrains:  getEnvInt("ARRIVING_TRAINS", 50),
		DepartingTrains: getEnvInt("DEPARTING_TRAINS", 50),

		Timezone:   getEnv("TIMEZONE", "Europe/Helsinki"),
		TimeLayout: getEnv("TIME_LAYOUT", "15.04"),
		Labels:     DefaultLabels(),

		Port:        getEnv("PORT", "8080"),
		CORSOrigins: splitList(getEnv("CORS_ORIGINS", "*")),

		HistoryEnabled:    getEnvBool("HISTORY_ENABLED", true),
		SQLitePath:        getEnv("SQLITE_DATABASE", "data/junat.db"),
		DatabaseURL:       getEnv("DATABASE_URL", ""),
		RetentionDuration: time.Duration(getEnvInt("RETENTION_HOURS", 168)) * time.Hour,

		LogLevel: getEnv("LOG_LEVEL", "info"),
		LogFile:  getEnv("LOG_FILE", ""),
	}

	if path := getEnv("LABELS_FILE", ""); path != "" {
		labels, err := LoadLabels(path, cfg.Labels)
		if err != nil {
			return nil, err
		}
		cfg.Labels = labels
	}

	if err := cfg.Validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

// Validate checks values that would otherwise fail later at request time
func (c *Config) Validate() error {
	if c.BaseURL == "" {
		return fmt.Errorf("DIGITRAFFIC_BASE_URL must not be empty")
	}
	if c.ArrivingTrains < 0 || c.DepartingTrains < 0 {
		return fmt.Errorf("train window must not be negative (arriving=%d, departing=%d)", c.ArrivingTrains, c.DepartingTrains)
	}
	if _, err := time.LoadLocation(c.Timezone); err != nil {
		return fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return nil
}

// Location returns the configured display time zone
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// LoadLabels reads a YAML label file on top of base. Keys missing from the file
// keep their value from base.
func LoadLabels(path string, base Labels) (Labels, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return base, fmt.Errorf("failed to read labels file: %w", err)
	}

	labels := base
	if err := yaml.Unmarshal(data, &labels); err != nil {
		return base, fmt.Errorf("failed to parse labels file: %w", err)
	}
	return labels, nil
}

func getEnv(key, defaultValue string) string {
	if value := os.Getenv(key); value != "" {
		return value
	}
	return defaultValue
}

func getEnvInt(key string, defaultValue int) int {
	if value := os.Getenv(key); value != "" {
		if intValue, err := strconv.Atoi(value); err == nil {
			return intValue
		}
	}
	return defaultValue
}

func getEnvBool(key string, defaultValue bool) bool {
	if value := os.Getenv(key); value != "" {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return defaultValue
}

func getEnvDuration(key string, defaultValue time.Duration) time.Duration {
	if value := os.Getenv(key); value != "" {
		if duration, err := time.ParseDuration(value); err == nil {
			return duration
		}
	}
	return defaultValue
}

func splitList(value string) []string {
	var out []string
	for _, part := range strings.Split(value, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
