package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	for _, key := range []string{"PORT", "ENVIRONMENT", "ALLOWED_ORIGINS", "STATIC_DIR", "PENDING_CALL_TTL", "REDIS_ADDR", "REDIS_PASSWORD", "REDIS_DB"} {
		t.Setenv(key, "")
	}

	cfg := Load()

	assert.Equal(t, "8080", cfg.Port)
	assert.Equal(t, "development", cfg.Environment)
	assert.Equal(t, []string{"http://localhost:3000", "http://localhost:5173"}, cfg.AllowedOrigins)
	assert.Equal(t, "./public", cfg.StaticDir)
	assert.Equal(t, time.Duration(0), cfg.PendingCallTTL)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, 0, cfg.Redis.DB)
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("PORT", "9000")
	t.Setenv("ENVIRONMENT", "production")
	t.Setenv("ALLOWED_ORIGINS", "https://a.example,https://b.example")
	t.Setenv("PENDING_CALL_TTL", "45s")
	t.Setenv("REDIS_ADDR", "redis:6379")
	t.Setenv("REDIS_DB", "3")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Port)
	assert.Equal(t, "production", cfg.Environment)
	assert.Equal(t, []string{"https://a.example", "https://b.example"}, cfg.AllowedOrigins)
	assert.Equal(t, 45*time.Second, cfg.PendingCallTTL)
	assert.Equal(t, "redis:6379", cfg.Redis.Addr)
	assert.Equal(t, 3, cfg.Redis.DB)
}

func TestLoadBadValuesFallBack(t *testing.T) {
	t.Setenv("PENDING_CALL_TTL", "soon")
	t.Setenv("REDIS_DB", "three")

	cfg := Load()

	assert.Equal(t, time.Duration(0), cfg.PendingCallTTL)
	assert.Equal(t, 0, cfg.Redis.DB)
}
