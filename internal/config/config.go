package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the application configuration
type Config struct {
	Server     ServerConfig     `yaml:"server"`
	Firestore  FirestoreConfig  `yaml:"firestore"`
	Notify     NotifyConfig     `yaml:"notify"`
	Settlement SettlementConfig `yaml:"settlement"`
	Scheduler  SchedulerConfig  `yaml:"scheduler"`
	Log        LogConfig        `yaml:"log"`
}

// ServerConfig contains HTTP server settings
type ServerConfig struct {
	Host string `yaml:"host"`
	Port int    `yaml:"port"`
}

// FirestoreConfig contains document-store connection settings
type FirestoreConfig struct {
	ProjectID        string `yaml:"project_id"`
	CredentialsFile  string `yaml:"credentials_file"`
	OpTimeoutSeconds int    `yaml:"op_timeout_seconds"`
}

// NotifyConfig contains notification dispatcher settings. Either channel
// may be left unconfigured; dispatch is best-effort.
type NotifyConfig struct {
	Telegram TelegramConfig `yaml:"telegram"`
	Email    EmailConfig    `yaml:"email"`
}

type TelegramConfig struct {
	Token  string `yaml:"token"`
	ChatID int64  `yaml:"chat_id"`
}

type EmailConfig struct {
	SendGridAPIKey string `yaml:"sendgrid_api_key"`
	From           string `yaml:"from"`
	To             string `yaml:"to"`
}

// SettlementConfig contains weekly settlement settings. The default
// court and shuttlecock costs seed the scheduled run; an admin-triggered
// run supplies explicit figures.
type SettlementConfig struct {
	BasePriceCents              int64  `yaml:"base_price_cents"`
	MinimumPriceCents           int64  `yaml:"minimum_price_cents"`
	DefaultCourtCostCents       int64  `yaml:"default_court_cost_cents"`
	DefaultShuttlecockCostCents int64  `yaml:"default_shuttlecock_cost_cents"`
	SessionsPerWeek             int    `yaml:"sessions_per_week"`
	Timezone                    string `yaml:"timezone"`
}

// SchedulerConfig contains cron schedule settings
type SchedulerConfig struct {
	WeeklySettlement string `yaml:"weekly_settlement"`
}

// LogConfig contains logging settings
type LogConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "json", "text" or "console"
}

// Load reads configuration from a YAML file
func Load(configPath string) (*Config, error) {
	data, err := os.ReadFile(configPath)
	if err != nil {
		return nil, fmt.Errorf("failed to read config file: %w", err)
	}

	var cfg Config
	if err := yaml.Unmarshal(data, &cfg); err != nil {
		return nil, fmt.Errorf("failed to parse config file: %w", err)
	}

	cfg.overrideWithEnv()

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}

	return &cfg, nil
}

// overrideWithEnv overrides config values with environment variables
func (c *Config) overrideWithEnv() {
	// Firestore
	if val := os.Getenv("FIRESTORE_PROJECT_ID"); val != "" {
		c.Firestore.ProjectID = val
	}
	if val := os.Getenv("GOOGLE_APPLICATION_CREDENTIALS"); val != "" {
		c.Firestore.CredentialsFile = val
	}

	// Notify
	if val := os.Getenv("TELEGRAM_BOT_TOKEN"); val != "" {
		c.Notify.Telegram.Token = val
	}
	if val := os.Getenv("TELEGRAM_CHAT_ID"); val != "" {
		fmt.Sscanf(val, "%d", &c.Notify.Telegram.ChatID)
	}
	if val := os.Getenv("SENDGRID_API_KEY"); val != "" {
		c.Notify.Email.SendGridAPIKey = val
	}

	// Server
	if val := os.Getenv("SERVER_HOST"); val != "" {
		c.Server.Host = val
	}
	if val := os.Getenv("SERVER_PORT"); val != "" {
		fmt.Sscanf(val, "%d", &c.Server.Port)
	}

	// Log
	if val := os.Getenv("LOG_LEVEL"); val != "" {
		c.Log.Level = val
	}
	if val := os.Getenv("LOG_FORMAT"); val != "" {
		c.Log.Format = val
	}
}

// Validate checks if the configuration is valid
func (c *Config) Validate() error {
	// Server defaults
	if c.Server.Port == 0 {
		c.Server.Port = 8080
	}
	if c.Server.Port < 0 || c.Server.Port > 65535 {
		return fmt.Errorf("invalid server port: %d", c.Server.Port)
	}

	// Firestore validation
	if c.Firestore.ProjectID == "" {
		return fmt.Errorf("firestore project id is required")
	}
	if c.Firestore.OpTimeoutSeconds == 0 {
		c.Firestore.OpTimeoutSeconds = 10
	}

	// Settlement validation
	if c.Settlement.BasePriceCents <= 0 {
		return fmt.Errorf("settlement base price must be positive")
	}
	if c.Settlement.MinimumPriceCents < 0 {
		return fmt.Errorf("settlement minimum price must not be negative")
	}
	if c.Settlement.MinimumPriceCents > c.Settlement.BasePriceCents {
		return fmt.Errorf("settlement minimum price must not exceed base price")
	}
	if c.Settlement.Timezone == "" {
		c.Settlement.Timezone = "Asia/Bangkok"
	}
	if _, err := time.LoadLocation(c.Settlement.Timezone); err != nil {
		return fmt.Errorf("invalid settlement timezone %q: %w", c.Settlement.Timezone, err)
	}

	// Scheduler defaults: settle the finished week Monday 01:00 local
	if c.Scheduler.WeeklySettlement == "" {
		c.Scheduler.WeeklySettlement = "0 0 1 * * 1"
	}

	// Log defaults
	if c.Log.Level == "" {
		c.Log.Level = "info"
	}
	if c.Log.Format == "" {
		c.Log.Format = "text"
	}

	return nil
}

// Location returns the settlement timezone. Validate has already checked
// it parses.
func (c *Config) Location() *time.Location {
	loc, err := time.LoadLocation(c.Settlement.Timezone)
	if err != nil {
		return time.UTC
	}
	return loc
}

// OpTimeout returns the per-operation store timeout.
func (c *Config) OpTimeout() time.Duration {
	return time.Duration(c.Firestore.OpTimeoutSeconds) * time.Second
}

// GetServerAddress returns the HTTP server address
func (c *Config) GetServerAddress() string {
	return fmt.Sprintf("%s:%d", c.Server.Host, c.Server.Port)
}
