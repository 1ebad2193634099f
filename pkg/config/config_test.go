package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, EnvDevelopment, cfg.Env)
	assert.Equal(t, "/api/v1", cfg.APIPrefix)
	assert.Equal(t, "emp_record", cfg.Tables.Employees)
	assert.Equal(t, "Sample Request Backend 26-27", cfg.Tables.Quota)
	assert.Equal(t, []string{"Sales", "Program Team"}, cfg.Directory.LoginTeams)
	assert.Equal(t, []string{"K8 & Test Prep", "K8"}, cfg.Directory.OrderLinesOfBusiness)
	assert.True(t, cfg.Directory.EnforceSubtree)
	assert.Equal(t, 5*time.Minute, cfg.Dashboard.CacheTTL)
	assert.Equal(t, "dashboard_cache_", cfg.Dashboard.CachePrefix)
	assert.Equal(t, 6, cfg.OTP.Length)
	assert.Equal(t, 3, cfg.OTP.MaxAttempts)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("TABLE_ORDERS", "order_form_k8_26_27")
	t.Setenv("DASHBOARD_CACHE_TTL", "90s")
	t.Setenv("OTP_TTL", "not-a-duration")
	t.Setenv("ORDER_LINES_OF_BUSINESS", " K8 , , Test Prep ")

	cfg, err := Load()
	require.NoError(t, err)

	assert.Equal(t, "order_form_k8_26_27", cfg.Tables.Orders)
	assert.Equal(t, 90*time.Second, cfg.Dashboard.CacheTTL)
	assert.Equal(t, 10*time.Minute, cfg.OTP.TTL)
	assert.Equal(t, []string{"K8", "Test Prep"}, cfg.Directory.OrderLinesOfBusiness)
}
