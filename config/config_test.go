package config

import (
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestGetEnv(t *testing.T) {
	t.Setenv("REMINDERSVC_TEST_KEY", "from-env")

	assert.Equal(t, "from-env", GetEnv("REMINDERSVC_TEST_KEY", "fallback"))
	assert.Equal(t, "fallback", GetEnv("REMINDERSVC_UNSET_KEY", "fallback"))
}

func TestParseConfigEnvSecrets(t *testing.T) {
	t.Setenv("TELEGRAM_BOT_TOKEN", "tok-123")
	t.Setenv("POSTGRES_PASSWORD", "pg-secret")

	v := viper.New()
	setDefaults(v)

	cfg, err := ParseConfig(v)
	require.NoError(t, err)

	assert.Equal(t, "tok-123", cfg.Telegram.BotToken)
	assert.Equal(t, "pg-secret", cfg.Database.Password)

	// Defaults survive alongside the overrides.
	assert.Equal(t, 30*time.Second, cfg.Scheduler.TickInterval)
	assert.Equal(t, 3, cfg.RateLimit.CreatePerMinute)
}
