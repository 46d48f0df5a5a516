package config

import (
	"os"
	"path/filepath"
	"testing"
	"time"

	"github.com/spf13/viper"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestLoad_MissingAPIKey(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "")

	cfg, err := load(viper.New(), t.TempDir())
	require.Error(t, err)
	assert.ErrorIs(t, err, ErrMissingAPIKey)
	assert.Nil(t, cfg)
}

func TestLoad_Defaults(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "sk-test", cfg.OpenAI.APIKey)
	assert.Equal(t, "gpt-4o-mini", cfg.OpenAI.Model)
	assert.InDelta(t, 0.7, cfg.OpenAI.Temperature, 0.0001)
	assert.Equal(t, "8080", cfg.App.Port)
	assert.Equal(t, 10, cfg.App.MaxRequestsPerSecond)
	assert.Equal(t, 90*time.Second, cfg.App.RequestTimeout())
	assert.Equal(t, 20*time.Second, cfg.Translate.Timeout())
	assert.Equal(t, 120*time.Minute, cfg.Redis.SessionTTL())
	assert.Equal(t, "", cfg.Redis.Address)
	assert.Equal(t, "info", cfg.Logging.Level)
	assert.Equal(t, []string{"en", "es", "fr", "de", "pt"}, cfg.Detect.Languages)
}

func TestLoad_EnvOverrides(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-env")
	t.Setenv("OPENAI_MODEL_CHAT", "gpt-4o")
	t.Setenv("PORT", ":9090")
	t.Setenv("TRANSLATE_BASE_URL", "http://translate.internal")
	t.Setenv("REDIS_ADDRESS", "redis:6379")
	t.Setenv("LOG_LEVEL", "debug")
	t.Setenv("DETECT_LANGUAGES", "en,tl")

	cfg, err := load(viper.New(), t.TempDir())
	require.NoError(t, err)

	assert.Equal(t, "gpt-4o", cfg.OpenAI.Model)
	assert.Equal(t, "9090", cfg.App.Port)
	assert.Equal(t, "http://translate.internal", cfg.Translate.BaseURL)
	assert.Equal(t, "redis:6379", cfg.Redis.Address)
	assert.Equal(t, "debug", cfg.Logging.Level)
	assert.Equal(t, []string{"en", "tl"}, cfg.Detect.Languages)
}

func TestLoad_ConfigFile(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-file")
	dir := t.TempDir()
	yaml := []byte(`
app:
  port: "7000"
openai:
  temperature: 0.2
speech:
  timeout_seconds: 5
`)
	require.NoError(t, os.WriteFile(filepath.Join(dir, "config.yaml"), yaml, 0o600))

	cfg, err := load(viper.New(), dir)
	require.NoError(t, err)

	assert.Equal(t, "7000", cfg.App.Port)
	assert.InDelta(t, 0.2, cfg.OpenAI.Temperature, 0.0001)
	assert.Equal(t, 5*time.Second, cfg.Speech.Timeout())
}

func TestLoad_InvalidTemperature(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("OPENAI_TEMPERATURE", "3.5")

	_, err := load(viper.New(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "temperature")
}

func TestLoad_InvalidDetectConfidence(t *testing.T) {
	t.Setenv("OPENAI_API_KEY", "sk-test")
	t.Setenv("DETECT_MIN_CONFIDENCE", "1.5")

	_, err := load(viper.New(), t.TempDir())
	require.Error(t, err)
	assert.Contains(t, err.Error(), "min_confidence")
}
