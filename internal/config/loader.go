package config

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/joho/godotenv"
	"github.com/spf13/viper"
)

// ErrMissingAPIKey is returned when no completion service credentials are
// configured.  The service cannot start without them.
var ErrMissingAPIKey = errors.New("openai.api_key is required (set OPENAI_API_KEY)")

// Load reads .env (when present), an optional config.yaml and the process
// environment, in increasing order of precedence.
func Load() (*Config, error) {
	loadEnvFile()
	return load(viper.New(), "./configs", ".")
}

func load(v *viper.Viper, searchPaths ...string) (*Config, error) {
	v.SetConfigName("config")
	v.SetConfigType("yaml")
	for _, p := range searchPaths {
		v.AddConfigPath(p)
	}

	setDefaults(v)
	bindEnv(v)

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return nil, fmt.Errorf("error reading config: %w", err)
		}
	}

	var cfg Config
	if err := v.Unmarshal(&cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}
	applyDefaults(&cfg)

	if err := validateConfig(&cfg); err != nil {
		return nil, fmt.Errorf("invalid configuration: %w", err)
	}
	return &cfg, nil
}

func loadEnvFile() {
	paths := []string{".env"}
	if root := findProjectRoot(); root != "" {
		paths = append(paths, filepath.Join(root, ".env"))
	}
	for _, p := range paths {
		if _, err := os.Stat(p); err == nil {
			_ = godotenv.Load(p)
			return
		}
	}
}

func findProjectRoot() string {
	dir, err := os.Getwd()
	if err != nil {
		return ""
	}
	for {
		if _, err := os.Stat(filepath.Join(dir, "go.mod")); err == nil {
			return dir
		}
		parent := filepath.Dir(dir)
		if parent == dir {
			return ""
		}
		dir = parent
	}
}

func setDefaults(v *viper.Viper) {
	v.SetDefault("app.name", "kidzcarehub")
	v.SetDefault("app.environment", "development")
	v.SetDefault("app.port", "8080")
	v.SetDefault("app.max_requests_per_second", 10)
	v.SetDefault("app.request_timeout_seconds", 90)
	v.SetDefault("app.shutdown_timeout_seconds", 10)

	v.SetDefault("openai.model", "gpt-4o-mini")
	v.SetDefault("openai.temperature", 0.7)
	v.SetDefault("openai.base_url", "")

	v.SetDefault("detect.languages", []string{"en", "es", "fr", "de", "pt"})
	v.SetDefault("detect.min_confidence", 0.0)

	v.SetDefault("translate.base_url", "http://localhost:5000")
	v.SetDefault("translate.api_key", "")
	v.SetDefault("translate.timeout_seconds", 20)

	v.SetDefault("speech.base_url", "https://translate.google.com")
	v.SetDefault("speech.timeout_seconds", 20)
	v.SetDefault("speech.temp_dir", "")

	v.SetDefault("redis.address", "")
	v.SetDefault("redis.password", "")
	v.SetDefault("redis.db", 0)
	v.SetDefault("redis.session_ttl_minutes", 120)

	v.SetDefault("logging.level", "info")
	v.SetDefault("logging.format", "json")
}

// bindEnv maps nested keys to environment variables (openai.api_key ->
// OPENAI_API_KEY) and adds the short aliases documented for deployment.
func bindEnv(v *viper.Viper) {
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_", "-", "_"))
	v.AutomaticEnv()

	aliases := map[string][]string{
		"openai.api_key":              {"OPENAI_API_KEY"},
		"openai.model":                {"OPENAI_MODEL", "OPENAI_MODEL_CHAT"},
		"app.port":                    {"APP_PORT", "PORT"},
		"app.max_requests_per_second": {"APP_MAX_REQUESTS_PER_SECOND", "HTTP_MAX_REQUESTS_PER_SECOND"},
		"app.request_timeout_seconds": {"APP_REQUEST_TIMEOUT_SECONDS", "REQUEST_TIMEOUT_SECONDS"},
		"logging.level":               {"LOGGING_LEVEL", "LOG_LEVEL"},
		"logging.format":              {"LOGGING_FORMAT", "LOG_FORMAT"},
		"detect.languages":            {"DETECT_LANGUAGES"},
		"translate.base_url":          {"TRANSLATE_BASE_URL"},
		"translate.api_key":           {"TRANSLATE_API_KEY"},
		"speech.base_url":             {"SPEECH_BASE_URL", "TTS_BASE_URL"},
		"redis.address":               {"REDIS_ADDRESS"},
		"redis.password":              {"REDIS_PASSWORD"},
	}
	for key, envs := range aliases {
		_ = v.BindEnv(append([]string{key}, envs...)...)
	}
}

// applyDefaults repairs values that were explicitly set to something unusable.
func applyDefaults(cfg *Config) {
	cfg.App.Port = strings.TrimPrefix(cfg.App.Port, ":")
	if cfg.App.Port == "" {
		cfg.App.Port = "8080"
	}
	if cfg.App.MaxRequestsPerSecond <= 0 {
		cfg.App.MaxRequestsPerSecond = 10
	}
	if cfg.App.RequestTimeoutSeconds <= 0 {
		cfg.App.RequestTimeoutSeconds = 90
	}
	if cfg.App.ShutdownTimeoutSeconds <= 0 {
		cfg.App.ShutdownTimeoutSeconds = 10
	}
	if cfg.Translate.TimeoutSeconds <= 0 {
		cfg.Translate.TimeoutSeconds = 20
	}
	if cfg.Speech.TimeoutSeconds <= 0 {
		cfg.Speech.TimeoutSeconds = 20
	}
	if cfg.Redis.SessionTTLMinutes <= 0 {
		cfg.Redis.SessionTTLMinutes = 120
	}
	cfg.OpenAI.APIKey = strings.TrimSpace(cfg.OpenAI.APIKey)
}

func validateConfig(cfg *Config) error {
	if cfg.OpenAI.APIKey == "" {
		return ErrMissingAPIKey
	}
	if cfg.OpenAI.Model == "" {
		return fmt.Errorf("openai.model is required")
	}
	if cfg.OpenAI.Temperature < 0 || cfg.OpenAI.Temperature > 2 {
		return fmt.Errorf("openai.temperature must be between 0 and 2, got %v", cfg.OpenAI.Temperature)
	}
	if cfg.Translate.BaseURL == "" {
		return fmt.Errorf("translate.base_url is required")
	}
	if cfg.Speech.BaseURL == "" {
		return fmt.Errorf("speech.base_url is required")
	}
	if len(cfg.Detect.Languages) == 0 {
		return fmt.Errorf("detect.languages must list at least one language")
	}
	if cfg.Detect.MinConfidence < 0 || cfg.Detect.MinConfidence > 1 {
		return fmt.Errorf("detect.min_confidence must be between 0 and 1, got %v", cfg.Detect.MinConfidence)
	}
	return nil
}
