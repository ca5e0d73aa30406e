package config

import (
	"bytes"
	"strings"
	"testing"
	"time"

	"github.com/spf13/viper"
)

func newViper(values map[string]any) *viper.Viper {
	v := viper.New()
	setDefaults(v)
	for k, val := range values {
		v.Set(k, val)
	}
	return v
}

func TestDefaults(t *testing.T) {
	cfg, err := fromViper(newViper(map[string]any{"datapoint_api_key": "secret"}))
	if err != nil {
		t.Fatalf("unexpected error: %v", err)
	}

	if cfg.DefaultSiteID != "352409" {
		t.Errorf("DefaultSiteID = %q", cfg.DefaultSiteID)
	}
	if cfg.Timezone != "Europe/London" {
		t.Errorf("Timezone = %q", cfg.Timezone)
	}
	if cfg.HTTPTimeout != 10*time.Second {
		t.Errorf("HTTPTimeout = %v", cfg.HTTPTimeout)
	}
	if cfg.Addr() != ":8080" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.RateLimitRPS != 1 || cfg.RateLimitBurst != 5 {
		t.Errorf("rate limit = %v/%d", cfg.RateLimitRPS, cfg.RateLimitBurst)
	}
	if !cfg.RolloverEnabled {
		t.Error("RolloverEnabled should default to true")
	}
	if cfg.StorePath != "" {
		t.Errorf("StorePath = %q", cfg.StorePath)
	}
}

func TestValidation(t *testing.T) {
	tests := []struct {
		name   string
		values map[string]any
	}{
		{name: "missing api key", values: map[string]any{}},
		{name: "non-numeric site", values: map[string]any{"datapoint_api_key": "k", "default_site_id": "paisley"}},
		{name: "bad port", values: map[string]any{"datapoint_api_key": "k", "port": "http"}},
		{name: "bad log level", values: map[string]any{"datapoint_api_key": "k", "log_level": "loud"}},
		{name: "bad log format", values: map[string]any{"datapoint_api_key": "k", "log_format": "xml"}},
		{name: "bad base url", values: map[string]any{"datapoint_api_key": "k", "datapoint_base_url": "not a url"}},
		{name: "zero burst", values: map[string]any{"datapoint_api_key": "k", "rate_limit_burst": 0}},
		{name: "negative timeout", values: map[string]any{"datapoint_api_key": "k", "http_timeout": "-1s"}},
		{name: "unknown timezone", values: map[string]any{"datapoint_api_key": "k", "timezone": "Mars/Olympus"}},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			if _, err := fromViper(newViper(tt.values)); err == nil {
				t.Fatal("expected error")
			}
		})
	}
}

func TestLoadFromEnvironment(t *testing.T) {
	t.Setenv("DATAPOINT_API_KEY", "from-env")
	t.Setenv("PORT", "9090")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("ROLLOVER_ENABLED", "false")
	t.Setenv("LOG_FORMAT", "JSON")

	cfg, err := Load()
	if err != nil {
		t.Fatalf("Load returned error: %v", err)
	}
	if cfg.DataPointAPIKey != "from-env" {
		t.Errorf("DataPointAPIKey = %q", cfg.DataPointAPIKey)
	}
	if cfg.Addr() != ":9090" {
		t.Errorf("Addr = %q", cfg.Addr())
	}
	if cfg.RolloverEnabled {
		t.Error("RolloverEnabled should be false")
	}
	if cfg.LogFormat != "json" {
		t.Errorf("LogFormat = %q", cfg.LogFormat)
	}

	loc, err := cfg.Location()
	if err != nil {
		t.Fatalf("Location returned error: %v", err)
	}
	if loc != time.UTC {
		t.Errorf("Location = %v", loc)
	}
}

func TestNewLogger(t *testing.T) {
	var buf bytes.Buffer
	cfg := &AppConfig{LogLevel: "warn", LogFormat: "json"}
	logger := cfg.newLogger(&buf)

	logger.Info("hidden")
	logger.Warn("shown", "name", "Paisley")

	out := buf.String()
	if strings.Contains(out, "hidden") {
		t.Errorf("info record should be filtered: %s", out)
	}
	if !strings.Contains(out, `"msg":"shown"`) || !strings.Contains(out, `"name":"Paisley"`) {
		t.Errorf("unexpected output: %s", out)
	}
}
