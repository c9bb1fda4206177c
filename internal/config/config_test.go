package config

import (
	"testing"
	"time"

	"github.com/shopspring/decimal"
	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadWith_Defaults(t *testing.T) {
	v := viper.New()
	v.Set("storage.driver", DriverMemory)

	cfg, err := LoadWith(v)
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, 15*time.Second, cfg.Server.ReadTimeout)
	assert.Equal(t, 30*time.Second, cfg.GetSchedulerInterval())
	assert.Equal(t, time.UTC, cfg.GetSchedulerLocation())
	assert.Equal(t, 30*time.Second, cfg.Scheduler.StopTimeout)
	assert.True(t, cfg.Scheduler.Enabled)
	assert.Equal(t, 50, cfg.Business.OrderHistoryLimit)
	assert.True(t, cfg.GetAutoApproveThreshold().Equal(decimal.NewFromInt(5000)))
	assert.Equal(t, 5*time.Second, cfg.GetHealthTimeout())
	assert.False(t, cfg.IsProduction())
}

func TestLoadWith_EnvironmentOverrides(t *testing.T) {
	t.Setenv("STORAGE_DRIVER", DriverRedis)
	t.Setenv("REDIS_ADDR", "cache:6380")
	t.Setenv("SCHEDULER_INTERVAL", "5s")
	t.Setenv("SCHEDULER_TIMEZONE", "Asia/Kolkata")
	t.Setenv("BUSINESS_AUTO_APPROVE_THRESHOLD", "12500.50")

	cfg, err := LoadWith(viper.New())
	require.NoError(t, err)

	assert.Equal(t, DriverRedis, cfg.Storage.Driver)
	assert.Equal(t, "cache:6380", cfg.Redis.Addr)
	assert.Equal(t, 5*time.Second, cfg.GetSchedulerInterval())
	assert.Equal(t, "Asia/Kolkata", cfg.GetSchedulerLocation().String())
	assert.True(t, cfg.GetAutoApproveThreshold().Equal(decimal.RequireFromString("12500.50")))
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name          string
		overrides     map[string]interface{}
		errorContains string
	}{
		{
			name:          "postgres without url",
			overrides:     map[string]interface{}{"storage.driver": DriverPostgres},
			errorContains: "DATABASE_URL",
		},
		{
			name:          "unknown driver",
			overrides:     map[string]interface{}{"storage.driver": "mongo"},
			errorContains: "STORAGE_DRIVER",
		},
		{
			name:          "interval below one second",
			overrides:     map[string]interface{}{"storage.driver": DriverMemory, "scheduler.interval": "500ms"},
			errorContains: "SCHEDULER_INTERVAL",
		},
		{
			name:          "bad timezone",
			overrides:     map[string]interface{}{"storage.driver": DriverMemory, "scheduler.timezone": "Mars/Olympus"},
			errorContains: "SCHEDULER_TIMEZONE",
		},
		{
			name:          "negative threshold",
			overrides:     map[string]interface{}{"storage.driver": DriverMemory, "business.auto_approve_threshold": "-1"},
			errorContains: "BUSINESS_AUTO_APPROVE_THRESHOLD",
		},
		{
			name:          "zero history limit",
			overrides:     map[string]interface{}{"storage.driver": DriverMemory, "business.order_history_limit": 0},
			errorContains: "BUSINESS_ORDER_HISTORY_LIMIT",
		},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			v := viper.New()
			for k, val := range tt.overrides {
				v.Set(k, val)
			}

			_, err := LoadWith(v)
			require.Error(t, err)
			assert.Contains(t, err.Error(), tt.errorContains)
		})
	}
}
