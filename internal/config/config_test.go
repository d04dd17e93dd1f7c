package config

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoadDefaults(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost user=app dbname=posto")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "8080", cfg.Server.Port)
	assert.Equal(t, "America/Sao_Paulo", cfg.Closing.Timezone)
	assert.Equal(t, "*/15 * * * *", cfg.Scheduler.ResyncCron)
	assert.False(t, cfg.Closing.RequireNotesOnShortage)
	assert.NotNil(t, cfg.Location())
}

func TestLoadOverrides(t *testing.T) {
	t.Setenv("DATABASE_DSN", "host=localhost user=app dbname=posto")
	t.Setenv("APP_PORT", "9090")
	t.Setenv("CLOSING_REQUIRE_NOTES_ON_SHORTAGE", "true")
	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("CLOSING_RESYNC_CRON", "0 * * * *")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "9090", cfg.Server.Port)
	assert.True(t, cfg.Closing.RequireNotesOnShortage)
	assert.Equal(t, "UTC", cfg.Closing.Timezone)
	assert.Equal(t, "0 * * * *", cfg.Scheduler.ResyncCron)
}

func TestValidate(t *testing.T) {
	t.Setenv("DATABASE_DSN", "")

	_, err := Load("")
	assert.Error(t, err, "a database DSN is mandatory")

	t.Setenv("DATABASE_DSN", "host=localhost")
	t.Setenv("TIMEZONE", "Mars/Olympus")
	_, err = Load("")
	assert.Error(t, err)

	t.Setenv("TIMEZONE", "UTC")
	t.Setenv("AUTH_API_URL", "https://auth.example.test")
	t.Setenv("AUTH_API_KEY", "")
	_, err = Load("")
	assert.Error(t, err, "auth url without key is a misconfiguration")
}
