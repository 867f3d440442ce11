package config_test

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"gostockflow/config"
)

func TestLoad_FromEnvironmentWithDefaults(t *testing.T) {
	t.Setenv("DATABASE_URL", "postgres://localhost/gostockflow?sslmode=disable")
	t.Setenv("JWT_SECRET_KEY", "segredo")
	t.Setenv("SUPPLIER_LEAD_TIMES", "1:7,2:5")
	t.Setenv("REQUEST_MAX_QUANTITY", "500")

	cfg, err := config.Load()

	require.NoError(t, err)
	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, 5*time.Second, cfg.DBTimeout)
	assert.Equal(t, 60*time.Minute, cfg.TokenExpiry)
	assert.Equal(t, "redis", cfg.RateLimitBackend)
	assert.Equal(t, map[int64]int{1: 7, 2: 5}, cfg.SupplierLeadTimes)
	assert.Equal(t, 500, cfg.RequestMaxQuantity)
	assert.Equal(t, 30*24*time.Hour, cfg.FrequencyWindow)
	assert.False(t, cfg.LegacyScoring)
}

func TestLoad_Fail_MissingRequired(t *testing.T) {
	t.Setenv("DATABASE_URL", "")
	t.Setenv("JWT_SECRET_KEY", "")

	_, err := config.Load()

	require.Error(t, err)
	assert.Contains(t, err.Error(), "DATABASE_URL")
	assert.Contains(t, err.Error(), "JWT_SECRET_KEY")
}

func TestFromViper_Overrides(t *testing.T) {
	v := viper.New()
	v.Set("DATABASE_URL", "postgres://x")
	v.Set("JWT_SECRET_KEY", "k")
	v.Set("RATE_LIMIT_BACKEND", "MEMORY")
	v.Set("RATE_LIMIT_MAX_REQUESTS", 10)
	v.Set("FREQUENCY_WINDOW_DAYS", 7)
	v.Set("LEGACY_SCORING", true)

	cfg, err := config.FromViper(v)

	require.NoError(t, err)
	assert.Equal(t, "memory", cfg.RateLimitBackend)
	assert.Equal(t, 10, cfg.RateLimitMaxRequests)
	assert.Equal(t, 7*24*time.Hour, cfg.FrequencyWindow)
	assert.True(t, cfg.LegacyScoring)
}

func TestFromViper_Fail_InvalidValues(t *testing.T) {
	for name, set := range map[string]func(v *viper.Viper){
		"backend":    func(v *viper.Viper) { v.Set("RATE_LIMIT_BACKEND", "etcd") },
		"lead times": func(v *viper.Viper) { v.Set("SUPPLIER_LEAD_TIMES", "1=7") },
		"max qty":    func(v *viper.Viper) { v.Set("REQUEST_MAX_QUANTITY", -1) },
	} {
		v := viper.New()
		v.Set("DATABASE_URL", "postgres://x")
		v.Set("JWT_SECRET_KEY", "k")
		v.Set("RATE_LIMIT_BACKEND", "redis")
		set(v)

		_, err := config.FromViper(v)
		assert.Error(t, err, name)
	}
}
