package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func env(values map[string]string) func(string) string {
	return func(key string) string { return values[key] }
}

func TestFromEnv_Defaults(t *testing.T) {
	cfg := FromEnv(env(nil))

	assert.Equal(t, "5500", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, "wa.me", cfg.WhatsAppDomain)
	assert.Equal(t, "Asia/Bahrain", cfg.OrderTimezone)
	assert.Equal(t, "ar-BH", cfg.OrderLocale)
	assert.Equal(t, "memory", cfg.StorageBackend)
	assert.Equal(t, 2500*time.Millisecond, cfg.PreparingAfter)
	assert.Equal(t, 6500*time.Millisecond, cfg.DeliveryAfter)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
	assert.Empty(t, cfg.WhatsAppNumber)
}

func TestFromEnv_Overrides(t *testing.T) {
	cfg := FromEnv(env(map[string]string{
		"PORT":                     "8080",
		"NODE_ENV":                 "production",
		"WHATSAPP_NUMBER":          "97317131413",
		"STORAGE_BACKEND":          "postgres",
		"PROGRESS_PREPARING_AFTER": "1s",
		"PROGRESS_DELIVERY_AFTER":  "bogus",
		"SESSION_IDLE_TTL":         "-5m",
	}))

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "97317131413", cfg.WhatsAppNumber)
	assert.Equal(t, "postgres", cfg.StorageBackend)
	assert.Equal(t, time.Second, cfg.PreparingAfter)
	assert.Equal(t, 6500*time.Millisecond, cfg.DeliveryAfter)
	assert.Equal(t, 2*time.Hour, cfg.SessionIdleTTL)
}

func TestIsProduction(t *testing.T) {
	prev := AppConfig
	t.Cleanup(func() { AppConfig = prev })

	AppConfig = &Config{Environment: "production"}
	assert.True(t, IsProduction())
	assert.False(t, IsDevelopment())

	AppConfig = &Config{}
	assert.True(t, IsDevelopment())
}
