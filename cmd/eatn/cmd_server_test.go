package main

import (
	"testing"

	"github.com/stretchr/testify/assert"

	"github.com/shashiranjanraj/eatn/config"
)

func TestServeRefusesPlaceholderKeyInProduction(t *testing.T) {
	config.Set("APP_ENV", "production")
	config.Set("APP_KEY", "change-me-in-production")
	t.Cleanup(func() {
		config.Set("APP_ENV", "local")
		config.Set("APP_KEY", "")
	})

	err := serveCmd.RunE(serveCmd, nil)
	assert.ErrorIs(t, err, config.ErrInsecureAppKey)
}
