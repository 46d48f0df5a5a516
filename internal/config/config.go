package config

import "time"

// Config is the complete service configuration.
type Config struct {
	App       AppConfig       `mapstructure:"app"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Detect    DetectConfig    `mapstructure:"detect"`
	Translate TranslateConfig `mapstructure:"translate"`
	Speech    SpeechConfig    `mapstructure:"speech"`
	Redis     RedisConfig     `mapstructure:"redis"`
	Logging   LoggingConfig   `mapstructure:"logging"`
}

type AppConfig struct {
	Name                   string `mapstructure:"name"`
	Environment            string `mapstructure:"environment"`
	Port                   string `mapstructure:"port"`
	MaxRequestsPerSecond   int    `mapstructure:"max_requests_per_second"`
	RequestTimeoutSeconds  int    `mapstructure:"request_timeout_seconds"`
	ShutdownTimeoutSeconds int    `mapstructure:"shutdown_timeout_seconds"`
}

// OpenAIConfig configures the completion client.  BaseURL is only set when
// talking to an OpenAI-compatible proxy.
type OpenAIConfig struct {
	APIKey      string  `mapstructure:"api_key"`
	Model       string  `mapstructure:"model"`
	Temperature float32 `mapstructure:"temperature"`
	BaseURL     string  `mapstructure:"base_url"`
}

// DetectConfig limits question language detection.  Languages are
// ISO-639-1 codes; guesses below MinConfidence are rejected.
type DetectConfig struct {
	Languages     []string `mapstructure:"languages"`
	MinConfidence float64  `mapstructure:"min_confidence"`
}

// TranslateConfig points at a LibreTranslate-compatible server.
type TranslateConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	APIKey         string `mapstructure:"api_key"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
}

type SpeechConfig struct {
	BaseURL        string `mapstructure:"base_url"`
	TimeoutSeconds int    `mapstructure:"timeout_seconds"`
	TempDir        string `mapstructure:"temp_dir"`
}

// RedisConfig configures the session preference store.  An empty Address
// keeps preferences in process memory.
type RedisConfig struct {
	Address           string `mapstructure:"address"`
	Password          string `mapstructure:"password"`
	DB                int    `mapstructure:"db"`
	SessionTTLMinutes int    `mapstructure:"session_ttl_minutes"`
}

type LoggingConfig struct {
	Level  string `mapstructure:"level"`
	Format string `mapstructure:"format"`
}

func (a AppConfig) RequestTimeout() time.Duration {
	return time.Duration(a.RequestTimeoutSeconds) * time.Second
}

func (a AppConfig) ShutdownTimeout() time.Duration {
	return time.Duration(a.ShutdownTimeoutSeconds) * time.Second
}

func (t TranslateConfig) Timeout() time.Duration {
	return time.Duration(t.TimeoutSeconds) * time.Second
}

func (s SpeechConfig) Timeout() time.Duration {
	return time.Duration(s.TimeoutSeconds) * time.Second
}

func (r RedisConfig) SessionTTL() time.Duration {
	return time.Duration(r.SessionTTLMinutes) * time.Minute
}
