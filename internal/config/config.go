package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// View and window mode values accepted on the renderer surfaces.
const (
	ViewLatestPerUser = "latest-per-user"
	ViewAllEvents     = "all-events"

	WindowAnchored  = "friday-to-today"
	WindowTodayOnly = "today-only"
	WindowNone      = "none"
)

// TZ strategy values for naive ISO timestamps (see internal/status).
const (
	StrategyTagElseUTC  = "tag-else-utc"
	StrategyAssumeUTC   = "assume-utc"
	StrategyAssumeLocal = "assume-local"
)

// Config holds the full process configuration. Values come from an optional
// YAML file (CONFIG_FILE) overridden by environment variables.
type Config struct {
	Port string `yaml:"port"`

	// Event feed source: URL wins over path when both are set.
	SourceURL       string `yaml:"source_url"`
	SourcePath      string `yaml:"source_path"`
	CacheTTLSec     int    `yaml:"cache_ttl_sec"`
	FetchTimeoutSec int    `yaml:"fetch_timeout_sec"`

	// Display timezone for every rendered date/time.
	DisplayTimezone string `yaml:"display_timezone"` // IANA name
	DisplayTZLabel  string `yaml:"display_tz_label"` // label as written by the feed producer

	// Naive-ISO provenance policy: tag-else-utc | assume-utc | assume-local.
	TZStrategy string `yaml:"tz_strategy"`

	// Business-week window.
	WindowAnchor         string `yaml:"window_anchor"` // weekday name
	WindowAnchorRollback bool   `yaml:"window_anchor_rollback"`
	ShowWindow           bool   `yaml:"show_window"`
	TodayOnly            bool   `yaml:"today_only"`

	// Default view parameters.
	PreferToday bool   `yaml:"prefer_today"`
	DefaultView string `yaml:"default_view"`

	RedisAddr string `yaml:"redis_addr"`

	RateRPS   float64 `yaml:"rate_rps"`
	RateBurst int     `yaml:"rate_burst"`
}

func defaults() Config {
	return Config{
		Port:            "3000",
		SourcePath:      "user_status_dashboard.json",
		CacheTTLSec:     600,
		FetchTimeoutSec: 30,
		DisplayTimezone: "Asia/Kolkata",
		DisplayTZLabel:  "IST",
		TZStrategy:      StrategyTagElseUTC,
		WindowAnchor:    "Friday",
		ShowWindow:      true,
		DefaultView:     ViewLatestPerUser,
		RateRPS:         20,
		RateBurst:       40,
	}
}

// Load builds the configuration: defaults, then the YAML file named by
// CONFIG_FILE (if any), then environment variables on top.
func Load() (Config, error) {
	cfg := defaults()

	if path := os.Getenv("CONFIG_FILE"); path != "" {
		b, err := os.ReadFile(path)
		if err != nil {
			return Config{}, fmt.Errorf("read config file: %w", err)
		}
		if err := yaml.Unmarshal(b, &cfg); err != nil {
			return Config{}, fmt.Errorf("parse config file: %w", err)
		}
	}

	applyEnv(&cfg)

	if err := cfg.validate(); err != nil {
		return Config{}, err
	}
	return cfg, nil
}

func applyEnv(cfg *Config) {
	setString(&cfg.Port, "PORT")
	setString(&cfg.SourceURL, "SOURCE_URL")
	setString(&cfg.SourcePath, "SOURCE_PATH")
	setInt(&cfg.CacheTTLSec, "CACHE_TTL_SEC")
	setInt(&cfg.FetchTimeoutSec, "FETCH_TIMEOUT_SEC")
	setString(&cfg.DisplayTimezone, "DISPLAY_TIMEZONE")
	setString(&cfg.DisplayTZLabel, "DISPLAY_TZ_LABEL")
	setString(&cfg.TZStrategy, "TZ_STRATEGY")
	setString(&cfg.WindowAnchor, "WINDOW_ANCHOR")
	setBool(&cfg.WindowAnchorRollback, "WINDOW_ANCHOR_ROLLBACK")
	setBool(&cfg.ShowWindow, "SHOW_WINDOW")
	setBool(&cfg.TodayOnly, "TODAY_ONLY")
	setBool(&cfg.PreferToday, "PREFER_TODAY")
	setString(&cfg.DefaultView, "DEFAULT_VIEW")
	setString(&cfg.RedisAddr, "REDIS_ADDR")
	setFloat(&cfg.RateRPS, "RATE_RPS")
	setInt(&cfg.RateBurst, "RATE_BURST")
}

func (c Config) validate() error {
	switch c.TZStrategy {
	case StrategyTagElseUTC, StrategyAssumeUTC, StrategyAssumeLocal:
	default:
		return fmt.Errorf("invalid TZ_STRATEGY %q", c.TZStrategy)
	}
	switch c.DefaultView {
	case ViewLatestPerUser, ViewAllEvents:
	default:
		return fmt.Errorf("invalid DEFAULT_VIEW %q", c.DefaultView)
	}
	if _, err := ParseWeekday(c.WindowAnchor); err != nil {
		return err
	}
	if _, err := time.LoadLocation(c.DisplayTimezone); err != nil {
		return fmt.Errorf("invalid DISPLAY_TIMEZONE %q: %w", c.DisplayTimezone, err)
	}
	if c.CacheTTLSec <= 0 {
		return fmt.Errorf("CACHE_TTL_SEC must be positive, got %d", c.CacheTTLSec)
	}
	if c.FetchTimeoutSec <= 0 {
		return fmt.Errorf("FETCH_TIMEOUT_SEC must be positive, got %d", c.FetchTimeoutSec)
	}
	return nil
}

// CacheTTL returns the snapshot cache expiry as a duration.
func (c Config) CacheTTL() time.Duration {
	return time.Duration(c.CacheTTLSec) * time.Second
}

// FetchTimeout bounds one feed fetch.
func (c Config) FetchTimeout() time.Duration {
	return time.Duration(c.FetchTimeoutSec) * time.Second
}

// Location resolves the display timezone. Load has already validated it.
func (c Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.DisplayTimezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// AnchorWeekday resolves the window anchor. Load has already validated it.
func (c Config) AnchorWeekday() time.Weekday {
	wd, err := ParseWeekday(c.WindowAnchor)
	if err != nil {
		return time.Friday
	}
	return wd
}

// WindowMode resolves the three window toggles into one mode, today-only
// taking precedence over the anchored window.
func (c Config) WindowMode() string {
	if c.TodayOnly {
		return WindowTodayOnly
	}
	if c.ShowWindow {
		return WindowAnchored
	}
	return WindowNone
}

// ParseWeekday maps an English weekday name (case-insensitive) to time.Weekday.
func ParseWeekday(name string) (time.Weekday, error) {
	for wd := time.Sunday; wd <= time.Saturday; wd++ {
		if strings.EqualFold(wd.String(), name) {
			return wd, nil
		}
	}
	return time.Sunday, fmt.Errorf("invalid weekday %q", name)
}

func setString(dst *string, key string) {
	if v := os.Getenv(key); v != "" {
		*dst = v
	}
}

func setInt(dst *int, key string) {
	if v := os.Getenv(key); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			*dst = n
		}
	}
}

func setFloat(dst *float64, key string) {
	if v := os.Getenv(key); v != "" {
		if f, err := strconv.ParseFloat(v, 64); err == nil {
			*dst = f
		}
	}
}

func setBool(dst *bool, key string) {
	if v := os.Getenv(key); v != "" {
		if b, err := strconv.ParseBool(v); err == nil {
			*dst = b
		}
	}
}
