package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func writeConfig(t *testing.T, content string) string {
	t.Helper()
	path := filepath.Join(t.TempDir(), "config.yaml")
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))
	return path
}

func TestLoad(t *testing.T) {
	t.Run("AppliesDefaults", func(t *testing.T) {
		path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
rentoka:
  base_url: "https://api.example.com"
`)

		cfg, err := Load(path)
		require.NoError(t, err)

		assert.Equal(t, 10, cfg.Rentoka.TimeoutSeconds)
		assert.Equal(t, 5, cfg.Rentoka.RateLimitBurst)
		assert.Equal(t, "https://nominatim.openstreetmap.org", cfg.Geocoder.BaseURL)
		assert.Equal(t, "exports", cfg.Exports.Path)
		assert.Equal(t, 8, cfg.Bot.PaginationSize)
		assert.Equal(t, 20, cfg.Bot.RateLimitMessages)
		assert.Equal(t, 60, cfg.Bot.RateLimitWindow)
	})

	t.Run("ExpandsEnvironmentVariables", func(t *testing.T) {
		t.Setenv("TEST_BOT_TOKEN", "456:def")
		path := writeConfig(t, `
telegram:
  bot_token: "${TEST_BOT_TOKEN}"
rentoka:
  base_url: "https://api.example.com"
`)

		cfg, err := Load(path)
		require.NoError(t, err)
		assert.Equal(t, "456:def", cfg.Telegram.BotToken)
	})

	t.Run("MissingFile", func(t *testing.T) {
		_, err := Load(filepath.Join(t.TempDir(), "missing.yaml"))
		assert.Error(t, err)
	})
}

func TestValidate(t *testing.T) {
	t.Run("MissingBotToken", func(t *testing.T) {
		path := writeConfig(t, `
rentoka:
  base_url: "https://api.example.com"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "bot token")
	})

	t.Run("MissingBaseURL", func(t *testing.T) {
		path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
`)
		_, err := Load(path)
		require.Error(t, err)
		assert.Contains(t, err.Error(), "base url")
	})

	t.Run("NegativeRateLimit", func(t *testing.T) {
		path := writeConfig(t, `
telegram:
  bot_token: "123:abc"
rentoka:
  base_url: "https://api.example.com"
  rate_limit_rps: -1
`)
		_, err := Load(path)
		assert.Error(t, err)
	})
}
