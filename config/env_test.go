package config_test

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/eatn/config"
)

func setEnv(t *testing.T, key, value string) {
	t.Helper()
	prev := config.Get(key, "")
	config.Set(key, value)
	t.Cleanup(func() { config.Set(key, prev) })
}

func TestAppKeyConfigured(t *testing.T) {
	setEnv(t, "APP_KEY", "")
	assert.False(t, config.AppKeyConfigured())

	setEnv(t, "APP_KEY", "change-me-in-production")
	assert.False(t, config.AppKeyConfigured())

	setEnv(t, "APP_KEY", "3f9c1e0a7b2d")
	assert.True(t, config.AppKeyConfigured())
}

func TestCheckAppKey(t *testing.T) {
	setEnv(t, "APP_ENV", "production")
	setEnv(t, "APP_KEY", "")
	assert.ErrorIs(t, config.CheckAppKey(), config.ErrInsecureAppKey)

	setEnv(t, "APP_KEY", "3f9c1e0a7b2d")
	assert.NoError(t, config.CheckAppKey())

	setEnv(t, "APP_ENV", "local")
	setEnv(t, "APP_KEY", "")
	assert.NoError(t, config.CheckAppKey())
}

func TestTrustedProxies(t *testing.T) {
	setEnv(t, "TRUSTED_PROXIES", "")
	assert.Empty(t, config.TrustedProxies())

	setEnv(t, "TRUSTED_PROXIES", " 10.0.0.0/8, ,192.168.1.4 ")
	assert.Equal(t, []string{"10.0.0.0/8", "192.168.1.4"}, config.TrustedProxies())
}
