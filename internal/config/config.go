// Package config provides YAML-based configuration loading for the guestbook.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"

	"github.com/joho/godotenv"
	"gopkg.in/yaml.v3"
)

// Config is the top-level guestbook configuration, loaded from guestbook.yaml.
type Config struct {
	Server  ServerConfig  `yaml:"server"`
	DB      DBConfig      `yaml:"db"`
	Printer PrinterConfig `yaml:"printer"`
	Limits  LimitsConfig  `yaml:"limits"`
	Bridge  BridgeConfig  `yaml:"bridge"`
	Notify  NotifyConfig  `yaml:"notify"`
}

// ServerConfig holds settings for the public submission API.
type ServerConfig struct {
	Listen string `yaml:"listen"`
}

// DBConfig holds store connection settings. Sqlite is the default backend;
// a MySQL DSN can be supplied instead for a shared server deployment.
type DBConfig struct {
	Driver string `yaml:"driver"` // "sqlite" (default) or "mysql"
	Path   string `yaml:"path"`   // sqlite database file
	DSN    string `yaml:"dsn"`    // mysql DSN, required when driver is mysql
}

// Source returns the driver-appropriate connection string.
func (d DBConfig) Source() string {
	if d.Driver == "mysql" {
		return d.DSN
	}
	return d.Path
}

// PrinterConfig holds settings for reaching the printer bridge.
type PrinterConfig struct {
	URL            string `yaml:"url"`
	TimeoutSeconds int    `yaml:"timeout_seconds"`
}

// LimitsConfig holds submission admission limits.
type LimitsConfig struct {
	DailyCeiling int `yaml:"daily_ceiling"` // accepted messages per UTC day
	MaxLength    int `yaml:"max_length"`    // code points per message, pre-sanitization
	PerHour      int `yaml:"per_hour"`      // submissions per hour per address
}

// BridgeConfig holds settings for the printer bridge daemon.
type BridgeConfig struct {
	Listen string `yaml:"listen"`
	Device string `yaml:"device"` // printer character device path
}

// NotifyConfig holds optional operator-notification settings. Notifications
// are disabled unless a platform is configured.
type NotifyConfig struct {
	Platform     string `yaml:"platform"` // "", "slack", or "discord"
	Channel      string `yaml:"channel"`
	SlackToken   string `yaml:"slack_token"`
	DiscordToken string `yaml:"discord_token"`
	DigestCron   string `yaml:"digest_cron"` // 5-field cron expression, empty disables the digest
}

// Load reads a YAML config file from path and returns a validated Config.
// Environment overrides are applied after the file is parsed; a .env file in
// the working directory is honored when present.
func Load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("config: read %s: %w", path, err)
	}
	return Parse(data)
}

// Parse unmarshals YAML bytes into a validated Config.
func Parse(data []byte) (*Config, error) {
	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("config: parse: %w", err)
	}
	godotenv.Load()
	cfg.applyDefaults()
	if err := cfg.applyEnv(); err != nil {
		return nil, err
	}
	if err := cfg.validate(); err != nil {
		return nil, err
	}
	return &cfg, nil
}

// applyDefaults fills in default values.
func (c *Config) applyDefaults() {
	if c.Server.Listen == "" {
		c.Server.Listen = ":8000"
	}
	if c.DB.Driver == "" {
		c.DB.Driver = "sqlite"
	}
	if c.DB.Path == "" {
		c.DB.Path = "guestbook.db"
	}
	if c.Printer.URL == "" {
		c.Printer.URL = "http://127.0.0.1:8765/print"
	}
	if c.Printer.TimeoutSeconds == 0 {
		c.Printer.TimeoutSeconds = 5
	}
	if c.Limits.DailyCeiling == 0 {
		c.Limits.DailyCeiling = 30
	}
	if c.Limits.MaxLength == 0 {
		c.Limits.MaxLength = 10000
	}
	if c.Limits.PerHour == 0 {
		c.Limits.PerHour = 3
	}
	if c.Bridge.Listen == "" {
		c.Bridge.Listen = "127.0.0.1:8765"
	}
	if c.Bridge.Device == "" {
		c.Bridge.Device = "/dev/usb/lp0"
	}
}

// applyEnv applies environment variable overrides on top of the file values.
func (c *Config) applyEnv() error {
	if v := os.Getenv("GUESTBOOK_DAILY_LIMIT"); v != "" {
		n, err := strconv.Atoi(v)
		if err != nil {
			return fmt.Errorf("config: GUESTBOOK_DAILY_LIMIT %q: %w", v, err)
		}
		c.Limits.DailyCeiling = n
	}
	if v := os.Getenv("GUESTBOOK_DB_PATH"); v != "" {
		c.DB.Path = v
	}
	if v := os.Getenv("GUESTBOOK_PRINTER_URL"); v != "" {
		c.Printer.URL = v
	}
	return nil
}

// validate checks that all fields are present and consistent.
func (c *Config) validate() error {
	var errs []string
	switch c.DB.Driver {
	case "sqlite":
	case "mysql":
		if c.DB.DSN == "" {
			errs = append(errs, "db.dsn is required when db.driver is mysql")
		}
	default:
		errs = append(errs, fmt.Sprintf("db.driver %q is not supported (sqlite, mysql)", c.DB.Driver))
	}
	if c.Limits.DailyCeiling < 1 {
		errs = append(errs, "limits.daily_ceiling must be at least 1")
	}
	if c.Limits.MaxLength < 1 {
		errs = append(errs, "limits.max_length must be at least 1")
	}
	if c.Limits.PerHour < 1 {
		errs = append(errs, "limits.per_hour must be at least 1")
	}
	switch c.Notify.Platform {
	case "":
	case "slack":
		if c.Notify.SlackToken == "" {
			errs = append(errs, "notify.slack_token is required for platform slack")
		}
		if c.Notify.Channel == "" {
			errs = append(errs, "notify.channel is required for platform slack")
		}
	case "discord":
		if c.Notify.DiscordToken == "" {
			errs = append(errs, "notify.discord_token is required for platform discord")
		}
		if c.Notify.Channel == "" {
			errs = append(errs, "notify.channel is required for platform discord")
		}
	default:
		errs = append(errs, fmt.Sprintf("notify.platform %q is not supported (slack, discord)", c.Notify.Platform))
	}
	if len(errs) > 0 {
		return fmt.Errorf("config: validation failed: %s", strings.Join(errs, "; "))
	}
	return nil
}
