package config

import (
	"errors"
	"fmt"
	"io"
	"log/slog"
	"os"
	"strings"
	"time"
	_ "time/tzdata"

	"github.com/go-playground/validator/v10"
	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

type AppConfig struct {
	// DataPoint forecast provider.
	DataPointAPIKey  string `validate:"required"`
	DataPointBaseURL string `validate:"omitempty,url"`

	// ProbeURL is fetched to decide whether the network is reachable.
	ProbeURL string `validate:"omitempty,url"`

	// GeocoderAPIKey enables reverse geocoding; empty disables Locate.
	GeocoderAPIKey string

	// DefaultSiteID is loaded on first run.
	DefaultSiteID string `validate:"required,numeric"`

	// Timezone decides where calendar days start.
	Timezone string `validate:"required"`

	HTTPTimeout time.Duration `validate:"gt=0"`

	// StorePath selects a SQLite file for persistence; empty keeps state in memory.
	StorePath string

	Port string `validate:"required,numeric"`

	LogLevel  string `validate:"oneof=debug info warn warning error"`
	LogFormat string `validate:"oneof=json text"`

	// Outbound rate limit for provider calls. Zero disables limiting.
	RateLimitRPS   float64 `validate:"gte=0"`
	RateLimitBurst int     `validate:"gte=1"`

	// RolloverEnabled schedules the midnight freshness job.
	RolloverEnabled bool
}

var validate = validator.New()

// Load reads configuration from a .env file, an optional config.yaml, and the
// environment, in increasing order of precedence.
func Load() (*AppConfig, error) {
	if err := godotenv.Load(); err != nil {
		slog.Debug("no .env file loaded", "error", err)
	}

	v := viper.New()
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	v.AddConfigPath(".")
	v.AddConfigPath("./config")

	setDefaults(v)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("failed to read config file: %w", err)
		}
	}

	return fromViper(v)
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("datapoint_api_key", "")
	v.SetDefault("datapoint_base_url", "")
	v.SetDefault("probe_url", "")
	v.SetDefault("geocoder_api_key", "")
	v.SetDefault("default_site_id", "352409")
	v.SetDefault("timezone", "Europe/London")
	v.SetDefault("http_timeout", "10s")
	v.SetDefault("store_path", "")
	v.SetDefault("port", "8080")
	v.SetDefault("log_level", "info")
	v.SetDefault("log_format", "text")
	v.SetDefault("rate_limit_rps", 1.0)
	v.SetDefault("rate_limit_burst", 5)
	v.SetDefault("rollover_enabled", true)
}

func fromViper(v *viper.Viper) (*AppConfig, error) {
	cfg := &AppConfig{
		DataPointAPIKey:  v.GetString("datapoint_api_key"),
		DataPointBaseURL: v.GetString("datapoint_base_url"),
		ProbeURL:         v.GetString("probe_url"),
		GeocoderAPIKey:   v.GetString("geocoder_api_key"),
		DefaultSiteID:    v.GetString("default_site_id"),
		Timezone:         v.GetString("timezone"),
		HTTPTimeout:      v.GetDuration("http_timeout"),
		StorePath:        v.GetString("store_path"),
		Port:             v.GetString("port"),
		LogLevel:         strings.ToLower(v.GetString("log_level")),
		LogFormat:        strings.ToLower(v.GetString("log_format")),
		RateLimitRPS:     v.GetFloat64("rate_limit_rps"),
		RateLimitBurst:   v.GetInt("rate_limit_burst"),
		RolloverEnabled:  v.GetBool("rollover_enabled"),
	}

	if err := validate.Struct(cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	if _, err := cfg.Location(); err != nil {
		return nil, err
	}
	return cfg, nil
}

// Location resolves the configured time zone.
func (c *AppConfig) Location() (*time.Location, error) {
	loc, err := time.LoadLocation(c.Timezone)
	if err != nil {
		return nil, fmt.Errorf("invalid TIMEZONE %q: %w", c.Timezone, err)
	}
	return loc, nil
}

// Addr returns the listen address in the format ":port".
func (c *AppConfig) Addr() string {
	return ":" + c.Port
}

// NewLogger creates a slog.Logger writing to stdout at the configured level and format.
func (c *AppConfig) NewLogger() *slog.Logger {
	return c.newLogger(os.Stdout)
}

func (c *AppConfig) newLogger(w io.Writer) *slog.Logger {
	var level slog.Level
	switch strings.ToLower(c.LogLevel) {
	case "debug":
		level = slog.LevelDebug
	case "warn", "warning":
		level = slog.LevelWarn
	case "error":
		level = slog.LevelError
	default:
		level = slog.LevelInfo
	}

	opts := &slog.HandlerOptions{Level: level}

	var handler slog.Handler
	switch strings.ToLower(c.LogFormat) {
	case "json":
		handler = slog.NewJSONHandler(w, opts)
	default:
		handler = slog.NewTextHandler(w, opts)
	}
	return slog.New(handler)
}
