package config

import (
    "os"
    "path/filepath"
    "testing"
    "time"

    "github.com/stretchr/testify/assert"
    "github.com/stretchr/testify/require"
)

func TestEnvHelpers(t *testing.T) {
    t.Setenv("WM_TEST_BOOL", "Yes")
    t.Setenv("WM_TEST_INT", "42")
    t.Setenv("WM_TEST_BAD_INT", "forty")
    t.Setenv("WM_TEST_DUR", "3s")

    assert.True(t, envBool("WM_TEST_BOOL", false))
    assert.False(t, envBool("WM_TEST_UNSET_BOOL", false))
    assert.Equal(t, 42, envInt("WM_TEST_INT", 0))
    assert.Equal(t, 7, envInt("WM_TEST_BAD_INT", 7))
    assert.Equal(t, 3*time.Second, envDur("WM_TEST_DUR", time.Second))
    assert.Equal(t, "fallback", envStr("WM_TEST_UNSET_STR", "fallback"))
}

func TestLoadCacheConfigDefaultsToDisabled(t *testing.T) {
    t.Setenv("CACHE_ENABLED", "")
    t.Setenv("CACHE_METHODS", "get, head")
    cfg := LoadCacheConfig()
    assert.False(t, cfg.Enabled)
    assert.Equal(t, map[string]bool{"GET": true, "HEAD": true}, cfg.Methods)
    assert.Equal(t, 30*time.Second, cfg.TTL)
}

func TestLoadRateLimitConfigClamps(t *testing.T) {
    t.Setenv("RATE_LIMIT_CAPACITY", "0")
    t.Setenv("RATE_LIMIT_REFILL_EVERY", "2s")
    t.Setenv("RATE_LIMIT_TTL", "1s")
    cfg := LoadRateLimitConfig()
    assert.Equal(t, 1, cfg.Capacity)
    assert.Equal(t, 1, cfg.RefillTokens)
    assert.Equal(t, 2*time.Second, cfg.RefillInterval)
    assert.Equal(t, 10*time.Second, cfg.TTL)
}

func TestLoadRedisConfigHostPortWins(t *testing.T) {
    t.Setenv("REDIS_ADDR", "cache:6379")
    t.Setenv("REDIS_HOST", "redis")
    t.Setenv("REDIS_PORT", "6380")
    assert.Equal(t, "redis:6380", LoadRedisConfig().Addr)
}

func TestLoadAMQPConfigFallsBackToAMQPURL(t *testing.T) {
    t.Setenv("RABBITMQ_URL", "")
    t.Setenv("AMQP_URL", "amqp://u:p@mq:5672/")
    cfg := LoadAMQPConfig()
    assert.Equal(t, "amqp://u:p@mq:5672/", cfg.URL)
    assert.Equal(t, "reservation.events", cfg.Queue)
}

func TestLoadEnvSkipsMissingFileAndKeepsExisting(t *testing.T) {
    dir := t.TempDir()
    path := filepath.Join(dir, "test.env")
    require.NoError(t, os.WriteFile(path, []byte("WM_FROM_FILE=file\nWM_PRESET=file\n"), 0o600))
    t.Setenv("WM_PRESET", "process")
    t.Setenv("WM_FROM_FILE", "")
    require.NoError(t, os.Unsetenv("WM_FROM_FILE"))

    require.NoError(t, LoadEnv(filepath.Join(dir, "missing.env"), path))
    assert.Equal(t, "file", os.Getenv("WM_FROM_FILE"))
    assert.Equal(t, "process", os.Getenv("WM_PRESET"))
    require.NoError(t, os.Unsetenv("WM_FROM_FILE"))
}

func TestLoadReadsRequiredValues(t *testing.T) {
    t.Setenv("DB_USER", "root")
    t.Setenv("DB_HOST", "127.0.0.1")
    t.Setenv("DB_NAME", "wedding")
    t.Setenv("JWT_SECRET", "s3cret")
    t.Setenv("BCRYPT_COST", "4")
    t.Setenv("APP_PORT", "")
    t.Setenv("DB_PORT", "")
    t.Setenv("ACCESS_TOKEN_TTL_MIN", "")
    cfg := Load()
    assert.Equal(t, "8080", cfg.Port)
    assert.Equal(t, "3306", cfg.DBPort)
    assert.Equal(t, 4, cfg.BcryptCost)
    assert.Equal(t, 15, cfg.AccessTTLMin)
}
