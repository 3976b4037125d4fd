package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

const minimalConfig = `
proxmox:
  host: pve1.example.com
auth:
  user: automation@pve
  tokenName: rotation
  tokenValue: secret
`

func TestLoadAppliesDefaults(t *testing.T) {
	cfg, err := Load(writeConfig(t, minimalConfig))
	require.NoError(t, err)

	assert.Equal(t, 8006, cfg.Proxmox.Port)
	assert.True(t, cfg.Proxmox.VerifyTLS())
	assert.Equal(t, "monday", cfg.Rotation.WeeklyDay)
	assert.Equal(t, 3, cfg.Rotation.Retention.HourlyDays)
	assert.Equal(t, 14, cfg.Rotation.Retention.DailyDays)
	assert.Equal(t, 8, cfg.Rotation.Retention.WeeklyWeeks)
	assert.Equal(t, 730, cfg.Rotation.Retention.MonthlyDays)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, "text", cfg.Logging.Format)
}

func TestLoadExpandsEnvPlaceholders(t *testing.T) {
	t.Setenv("PROXMOX_TOKEN_VALUE", "s3cr3t-token")

	cfg, err := Load(writeConfig(t, `
proxmox:
  host: pve1.example.com
auth:
  user: automation@pve
  tokenName: rotation
  tokenValue: $(PROXMOX_TOKEN_VALUE)
`))
	require.NoError(t, err)
	assert.Equal(t, "s3cr3t-token", cfg.Auth.TokenValue)
}

func TestLoadValidation(t *testing.T) {
	tests := []struct {
		name    string
		content string
		wantErr string
	}{
		{
			name:    "missing host",
			content: "auth: {user: a@pve, tokenName: t, tokenValue: v}",
			wantErr: "proxmox.host is required",
		},
		{
			name:    "missing token value",
			content: "proxmox: {host: h}\nauth: {user: a@pve, tokenName: t}",
			wantErr: "auth.tokenValue is required",
		},
		{
			name: "bad weekday",
			content: minimalConfig + `
rotation:
  weeklyDay: someday
`,
			wantErr: "unknown day",
		},
		{
			name: "negative retention",
			content: minimalConfig + `
rotation:
  retention:
    dailyDays: -1
`,
			wantErr: "must not be negative",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, err := Load(writeConfig(t, tt.content))
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.wantErr)
		})
	}
}

func TestLoadMissingFile(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "nope.yaml"))
	require.Error(t, err)
}

func TestRotationWeekday(t *testing.T) {
	r := RotationConfig{WeeklyDay: "Sunday"}
	day, err := r.Weekday()
	require.NoError(t, err)
	assert.Equal(t, time.Sunday, day)
}

func TestRetentionWindows(t *testing.T) {
	r := RetentionConfig{HourlyDays: 3, DailyDays: 14, WeeklyWeeks: 8, MonthlyDays: 730}

	assert.Equal(t, 72*time.Hour, r.HourlyWindow())
	assert.Equal(t, 14*24*time.Hour, r.DailyWindow())
	assert.Equal(t, 8*7*24*time.Hour, r.WeeklyWindow())
	assert.Equal(t, 730*24*time.Hour, r.MonthlyWindow())
}

func TestVerifySSLCanBeDisabled(t *testing.T) {
	cfg, err := Load(writeConfig(t, `
proxmox:
  host: pve1.example.com
  verifySsl: false
auth:
  user: automation@pve
  tokenName: rotation
  tokenValue: secret
`))
	require.NoError(t, err)
	assert.False(t, cfg.Proxmox.VerifyTLS())
}
