package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"qbsync/internal/infrastructure/quickbooks"
)

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("DATABASE_URI", "postgres://localhost/qbsync")
	t.Setenv("QB_REALM_ID", "4620816365")
	t.Setenv("MIGRATIONS_PATH", t.TempDir())

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvLocal, cfg.Env)
	assert.Equal(t, ":8080", cfg.Server.RunAddress)
	assert.Equal(t, "info", cfg.Logger.LogLevel)
	assert.Equal(t, quickbooks.SandboxBaseURL, cfg.QuickBooks.BaseURL)
	assert.Equal(t, 75, cfg.QuickBooks.MinorVersion)
	assert.Equal(t, 30*time.Second, cfg.QuickBooks.Timeout)
	assert.Equal(t, 500, cfg.QuickBooks.RatePerMinute)
	assert.Equal(t, uint32(5), cfg.QuickBooks.BreakerFailures)
}

func TestLoad_Overrides(t *testing.T) {
	t.Setenv("APP_ENV", EnvDev)
	t.Setenv("RUN_ADDRESS", ":9090")
	t.Setenv("DATABASE_URI", "postgres://db/qbsync")
	t.Setenv("MIGRATIONS_PATH", t.TempDir())
	t.Setenv("QB_REALM_ID", "1")
	t.Setenv("QB_BASE_URL", quickbooks.ProductionBaseURL)
	t.Setenv("QB_TIMEOUT_SECONDS", "5")
	t.Setenv("API_TOKEN", "token")

	cfg, err := Load(viper.New())
	require.NoError(t, err)

	assert.Equal(t, EnvDev, cfg.Env)
	assert.Equal(t, ":9090", cfg.Server.RunAddress)
	assert.Equal(t, "token", cfg.Server.APIToken)
	assert.Equal(t, quickbooks.ProductionBaseURL, cfg.QuickBooks.BaseURL)
	assert.Equal(t, 5*time.Second, cfg.QuickBooks.Timeout)
}

func TestLoad_Validation(t *testing.T) {
	tests := []struct {
		name string
		env  map[string]string
	}{
		{
			name: "missing database",
			env:  map[string]string{"QB_REALM_ID": "1"},
		},
		{
			name: "missing realm",
			env:  map[string]string{"DATABASE_URI": "postgres://db"},
		},
		{
			name: "prod without api token",
			env: map[string]string{
				"APP_ENV":      EnvProd,
				"DATABASE_URI": "postgres://db",
				"QB_REALM_ID":  "1",
			},
		},
		{
			name: "missing migrations dir",
			env: map[string]string{
				"DATABASE_URI":    "postgres://db",
				"QB_REALM_ID":     "1",
				"MIGRATIONS_PATH": "/nonexistent/migrations",
			},
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			t.Setenv("DATABASE_URI", "")
			t.Setenv("QB_REALM_ID", "")
			t.Setenv("MIGRATIONS_PATH", t.TempDir())
			for k, v := range tt.env {
				t.Setenv(k, v)
			}

			_, err := Load(viper.New())
			assert.Error(t, err)
		})
	}
}
