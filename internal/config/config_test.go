package config

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("SERVER_PORT", "")
	t.Setenv("IMAGES_DIR", "")
	t.Setenv("REDIS_ADDR", "")

	cfg := Load()

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "0.0.0.0:8080", cfg.Server.Addr())
	assert.Equal(t, "wwwroot/images", cfg.Storage.ImagesDir)
	assert.Empty(t, cfg.Redis.Addr)
	assert.Equal(t, time.Hour, cfg.Redis.TTL)
}

func TestLoadFromEnv(t *testing.T) {
	t.Setenv("SERVER_PORT", "9000")
	t.Setenv("DB_HOST", "db")
	t.Setenv("DB_MAX_OPEN_CONNS", "7")
	t.Setenv("REDIS_TTL", "90")
	t.Setenv("SERVER_SHUTDOWN_TIMEOUT", "3s")
	t.Setenv("SESSION_SECURE", "true")

	cfg := Load()

	assert.Equal(t, "9000", cfg.Server.Port)
	assert.Equal(t, 7, cfg.Database.MaxOpenConns)
	assert.Equal(t, 90*time.Second, cfg.Redis.TTL)
	assert.Equal(t, 3*time.Second, cfg.Server.ShutdownTimeout)
	assert.True(t, cfg.Auth.SecureCookie)
	assert.Contains(t, cfg.Database.GetDSN(), "host=db ")
}

func TestGetEnvIntInvalidFallsBack(t *testing.T) {
	t.Setenv("REDIS_DB", "abc")
	assert.Equal(t, 0, getEnvInt("REDIS_DB", 0))
}
