// Package config loads and validates the proxmox-mcp configuration file.
package config

import (
	"fmt"
	"strings"
	"time"
)

// Config is the root of the YAML configuration file.
type Config struct {
	Proxmox  ProxmoxConfig  `yaml:"proxmox"`
	Auth     AuthConfig     `yaml:"auth"`
	Rotation RotationConfig `yaml:"rotation"`
	History  HistoryConfig  `yaml:"history"`
	Logging  LoggingConfig  `yaml:"logging"`
}

// ProxmoxConfig describes how to reach the Proxmox VE API.
type ProxmoxConfig struct {
	Host      string `yaml:"host"`
	Port      int    `yaml:"port"`      // default 8006
	VerifySSL *bool  `yaml:"verifySsl"` // default true
}

// AuthConfig holds the API token triple used for authentication.
// TokenValue is usually supplied via a $(PROXMOX_TOKEN_VALUE) placeholder.
type AuthConfig struct {
	User       string `yaml:"user"`      // e.g. "automation@pve"
	TokenName  string `yaml:"tokenName"` // e.g. "rotation"
	TokenValue string `yaml:"tokenValue"`
}

// RotationConfig tunes the snapshot rotation engine.
type RotationConfig struct {
	WeeklyDay     string          `yaml:"weeklyDay"` // week boundary day, default "monday"
	IncludeMemory bool            `yaml:"includeMemory"`
	Retention     RetentionConfig `yaml:"retention"`
}

// RetentionConfig sets the per-cadence retention windows. Zero values fall
// back to the defaults below.
type RetentionConfig struct {
	HourlyDays  int `yaml:"hourlyDays"`  // default 3
	DailyDays   int `yaml:"dailyDays"`   // default 14
	WeeklyWeeks int `yaml:"weeklyWeeks"` // default 8
	MonthlyDays int `yaml:"monthlyDays"` // default 730
}

// HistoryConfig configures the optional rotation run log. An empty path
// disables recording.
type HistoryConfig struct {
	Path string `yaml:"path"`
}

type LoggingConfig struct {
	Level  string `yaml:"level"`  // "debug", "info", "warn", "error"
	Format string `yaml:"format"` // "text" or "json"
}

const (
	defaultPort        = 8006
	defaultHourlyDays  = 3
	defaultDailyDays   = 14
	defaultWeeklyWeeks = 8
	defaultMonthlyDays = 730
)

var weekdays = map[string]time.Weekday{
	"sunday":    time.Sunday,
	"monday":    time.Monday,
	"tuesday":   time.Tuesday,
	"wednesday": time.Wednesday,
	"thursday":  time.Thursday,
	"friday":    time.Friday,
	"saturday":  time.Saturday,
}

func (c *Config) applyDefaults() {
	if c.Proxmox.Port == 0 {
		c.Proxmox.Port = defaultPort
	}
	if c.Proxmox.VerifySSL == nil {
		v := true
		c.Proxmox.VerifySSL = &v
	}
	if c.Rotation.WeeklyDay == "" {
		c.Rotation.WeeklyDay = "monday"
	}
	if c.Rotation.Retention.HourlyDays == 0 {
		c.Rotation.Retention.HourlyDays = defaultHourlyDays
	}
	if c.Rotation.Retention.DailyDays == 0 {
		c.Rotation.Retention.DailyDays = defaultDailyDays
	}
	if c.Rotation.Retention.WeeklyWeeks == 0 {
		c.Rotation.Retention.WeeklyWeeks = defaultWeeklyWeeks
	}
	if c.Rotation.Retention.MonthlyDays == 0 {
		c.Rotation.Retention.MonthlyDays = defaultMonthlyDays
	}
	if c.Logging.Level == "" {
		c.Logging.Level = "info"
	}
	if c.Logging.Format == "" {
		c.Logging.Format = "text"
	}
}

// Validate checks that all required fields are present and well-formed.
func (c *Config) Validate() error {
	if c.Proxmox.Host == "" {
		return fmt.Errorf("proxmox.host is required")
	}
	if c.Auth.User == "" {
		return fmt.Errorf("auth.user is required")
	}
	if c.Auth.TokenName == "" {
		return fmt.Errorf("auth.tokenName is required")
	}
	if c.Auth.TokenValue == "" {
		return fmt.Errorf("auth.tokenValue is required")
	}
	if _, err := c.Rotation.Weekday(); err != nil {
		return err
	}
	r := c.Rotation.Retention
	for name, v := range map[string]int{
		"hourlyDays":  r.HourlyDays,
		"dailyDays":   r.DailyDays,
		"weeklyWeeks": r.WeeklyWeeks,
		"monthlyDays": r.MonthlyDays,
	} {
		if v < 0 {
			return fmt.Errorf("rotation.retention.%s must not be negative", name)
		}
	}
	return nil
}

// Weekday resolves the configured week-boundary day.
func (r RotationConfig) Weekday() (time.Weekday, error) {
	d, ok := weekdays[strings.ToLower(r.WeeklyDay)]
	if !ok {
		return 0, fmt.Errorf("rotation.weeklyDay: unknown day %q", r.WeeklyDay)
	}
	return d, nil
}

// VerifyTLS reports whether API certificates should be verified.
func (p ProxmoxConfig) VerifyTLS() bool {
	return p.VerifySSL == nil || *p.VerifySSL
}

// Durations the retention windows expand to.
func (r RetentionConfig) HourlyWindow() time.Duration {
	return time.Duration(r.HourlyDays) * 24 * time.Hour
}

func (r RetentionConfig) DailyWindow() time.Duration {
	return time.Duration(r.DailyDays) * 24 * time.Hour
}

func (r RetentionConfig) WeeklyWindow() time.Duration {
	return time.Duration(r.WeeklyWeeks) * 7 * 24 * time.Hour
}

func (r RetentionConfig) MonthlyWindow() time.Duration {
	return time.Duration(r.MonthlyDays) * 24 * time.Hour
}
