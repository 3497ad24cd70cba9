package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"github.com/samber/lo"
	apperrors "github.com/socialchef/dishcraft/internal/errors"
	"gopkg.in/yaml.v3"
)

const defaultConfigFile = "config.yaml"

type Config struct {
	Env            string
	ServiceName    string
	ServiceVersion string

	GeminiKey string
	OpenAIKey string
	GroqKey   string

	RedisURL string

	OtelExporterOTLPEndpoint string
	OtelExporterOTLPHeaders  string
	SentryDSN                string

	Port               string
	CORSAllowedOrigins []string

	Completion CompletionConfig
	Session    SessionConfig
}

// CompletionConfig selects and tunes the LLM providers.
type CompletionConfig struct {
	Provider         string `yaml:"provider"`
	Model            string `yaml:"model"`
	FallbackEnabled  bool   `yaml:"fallback_enabled"`
	FallbackProvider string `yaml:"fallback_provider"`
	FallbackModel    string `yaml:"fallback_model"`

	// Temperatures stay nil until set so an explicit 0 survives defaulting.
	BrainstormTemperature *float32 `yaml:"brainstorm_temperature"`
	RecipeTemperature     *float32 `yaml:"recipe_temperature"`
	MaxOutputTokens       int32    `yaml:"max_output_tokens"`

	MaxAttempts int           `yaml:"max_attempts"`
	Timeout     time.Duration `yaml:"timeout"`

	// SeparatorOrder lists dish name separators ("dash", "paren") in priority order.
	SeparatorOrder []string `yaml:"separator_order"`
}

// SessionConfig controls the per-visitor dish list storage.
type SessionConfig struct {
	CookieName   string        `yaml:"cookie_name"`
	TTL          time.Duration `yaml:"ttl"`
	SecureCookie bool          `yaml:"secure_cookie"`
}

func Load() (*Config, error) {
	cfg := &Config{
		Env:                      os.Getenv("ENV"),
		ServiceName:              os.Getenv("SERVICE_NAME"),
		ServiceVersion:           os.Getenv("SERVICE_VERSION"),
		GeminiKey:                os.Getenv("GEMINI_API_KEY"),
		OpenAIKey:                os.Getenv("OPENAI_API_KEY"),
		GroqKey:                  os.Getenv("GROQ_API_KEY"),
		RedisURL:                 os.Getenv("REDIS_URL"),
		OtelExporterOTLPEndpoint: os.Getenv("OTEL_EXPORTER_OTLP_ENDPOINT"),
		OtelExporterOTLPHeaders:  os.Getenv("OTEL_EXPORTER_OTLP_HEADERS"),
		SentryDSN:                os.Getenv("SENTRY_DSN"),
		Port:                     os.Getenv("PORT"),
		CORSAllowedOrigins:       splitList(os.Getenv("CORS_ALLOWED_ORIGINS")),
		Completion: CompletionConfig{
			Provider: os.Getenv("AI_PROVIDER"),
			Model:    os.Getenv("AI_MODEL"),
		},
	}

	if err := cfg.loadEnvNumbers(); err != nil {
		return nil, err
	}

	path := os.Getenv("CONFIG_FILE")
	if path == "" {
		path = defaultConfigFile
	}
	if err := cfg.LoadFromYAML(path); err != nil {
		return nil, fmt.Errorf("failed to load YAML config: %w", err)
	}

	// Set defaults
	if cfg.Env == "" {
		cfg.Env = "development"
	}
	if cfg.ServiceName == "" {
		cfg.ServiceName = "dishcraft"
	}
	if cfg.ServiceVersion == "" {
		cfg.ServiceVersion = "1.0.0"
	}
	if cfg.Port == "" {
		cfg.Port = "8080"
	}
	cfg.SetCompletionDefaults()
	cfg.SetSessionDefaults()

	if err := cfg.validate(); err != nil {
		return nil, err
	}

	return cfg, nil
}

func (c *Config) loadEnvNumbers() error {
	for _, f := range []struct {
		name string
		dst  **float32
	}{
		{"BRAINSTORM_TEMPERATURE", &c.Completion.BrainstormTemperature},
		{"RECIPE_TEMPERATURE", &c.Completion.RecipeTemperature},
	} {
		raw := os.Getenv(f.name)
		if raw == "" {
			continue
		}
		v, err := strconv.ParseFloat(raw, 32)
		if err != nil {
			return apperrors.NewConfigError(fmt.Sprintf("%s must be a number", f.name), "INVALID_TEMPERATURE")
		}
		*f.dst = lo.ToPtr(float32(v))
	}
	return nil
}

func (c *Config) LoadFromYAML(path string) error {
	if path == "" {
		return nil
	}

	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil // File not found is not an error
		}
		return fmt.Errorf("failed to read config file: %w", err)
	}

	var yamlConfig struct {
		Completion CompletionConfig `yaml:"completion"`
		Session    SessionConfig    `yaml:"session"`
	}

	if err := yaml.Unmarshal(data, &yamlConfig); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}

	// max_attempts is an int above, so read it again to tell 0 from absent.
	var raw struct {
		Completion struct {
			MaxAttempts *int `yaml:"max_attempts"`
		} `yaml:"completion"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return fmt.Errorf("failed to parse config file: %w", err)
	}
	if n := raw.Completion.MaxAttempts; n != nil && *n < 1 {
		return apperrors.NewConfigError("completion.max_attempts must be at least 1", "INVALID_MAX_ATTEMPTS")
	}

	y := yamlConfig.Completion
	if y.Provider != "" {
		c.Completion.Provider = y.Provider
	}
	if y.Model != "" {
		c.Completion.Model = y.Model
	}
	if y.FallbackEnabled {
		c.Completion.FallbackEnabled = true
	}
	if y.FallbackProvider != "" {
		c.Completion.FallbackProvider = y.FallbackProvider
	}
	if y.FallbackModel != "" {
		c.Completion.FallbackModel = y.FallbackModel
	}
	if y.BrainstormTemperature != nil {
		c.Completion.BrainstormTemperature = y.BrainstormTemperature
	}
	if y.RecipeTemperature != nil {
		c.Completion.RecipeTemperature = y.RecipeTemperature
	}
	if y.MaxOutputTokens > 0 {
		c.Completion.MaxOutputTokens = y.MaxOutputTokens
	}
	if y.MaxAttempts > 0 {
		c.Completion.MaxAttempts = y.MaxAttempts
	}
	if y.Timeout > 0 {
		c.Completion.Timeout = y.Timeout
	}
	if len(y.SeparatorOrder) > 0 {
		c.Completion.SeparatorOrder = y.SeparatorOrder
	}

	s := yamlConfig.Session
	if s.CookieName != "" {
		c.Session.CookieName = s.CookieName
	}
	if s.TTL > 0 {
		c.Session.TTL = s.TTL
	}
	if s.SecureCookie {
		c.Session.SecureCookie = true
	}

	return nil
}

func (c *Config) SetCompletionDefaults() {
	if c.Completion.Provider == "" {
		c.Completion.Provider = "gemini"
	}
	if c.Completion.FallbackEnabled && c.Completion.FallbackProvider == "" {
		c.Completion.FallbackProvider = "groq"
	}
	if c.Completion.BrainstormTemperature == nil {
		c.Completion.BrainstormTemperature = lo.ToPtr[float32](0.9)
	}
	if c.Completion.RecipeTemperature == nil {
		c.Completion.RecipeTemperature = lo.ToPtr[float32](0.8)
	}
	if c.Completion.MaxAttempts == 0 {
		c.Completion.MaxAttempts = 1
	}
	if c.Completion.Timeout == 0 {
		c.Completion.Timeout = 90 * time.Second
	}
	if len(c.Completion.SeparatorOrder) == 0 {
		c.Completion.SeparatorOrder = []string{"dash", "paren"}
	}
}

func (c *Config) SetSessionDefaults() {
	if c.Session.CookieName == "" {
		c.Session.CookieName = "dishcraft_session"
	}
	if c.Session.TTL == 0 {
		c.Session.TTL = 24 * time.Hour
	}
	if c.Env == "production" {
		c.Session.SecureCookie = true
	}
}

// APIKey returns the credential for a provider name.
func (c *Config) APIKey(provider string) string {
	switch provider {
	case "gemini":
		return c.GeminiKey
	case "openai":
		return c.OpenAIKey
	case "groq":
		return c.GroqKey
	default:
		return ""
	}
}

var apiKeyEnv = map[string]string{
	"gemini": "GEMINI_API_KEY",
	"openai": "OPENAI_API_KEY",
	"groq":   "GROQ_API_KEY",
}

func (c *Config) validate() error {
	providers := []string{c.Completion.Provider}
	if c.Completion.FallbackEnabled {
		providers = append(providers, c.Completion.FallbackProvider)
	}

	for _, p := range providers {
		env, ok := apiKeyEnv[p]
		if !ok {
			return apperrors.NewConfigError(fmt.Sprintf("unknown AI provider %q", p), "UNKNOWN_PROVIDER")
		}
		if c.APIKey(p) == "" {
			return apperrors.NewConfigError(fmt.Sprintf("%s is required", env), "MISSING_API_KEY")
		}
	}
	return nil
}

func splitList(raw string) []string {
	var out []string
	for _, part := range strings.Split(raw, ",") {
		if part = strings.TrimSpace(part); part != "" {
			out = append(out, part)
		}
	}
	return out
}
