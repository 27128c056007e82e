package config

import (
	"errors"
	"fmt"
	"os"
	"strconv"
	"time"

	"github.com/joho/godotenv"
)

type Config struct {
	OTel     OTelConfig
	LLM      LLMConfig
	Session  SessionConfig
	Secrets  SecretsConfig
	Env      string
	Port     string
	NodeID   int64
	Features Features
}

type OTelConfig struct {
	Endpoint       string
	Headers        string
	ServiceName    string
	ServiceVersion string
}

type LLMConfig struct {
	Provider          string // "anthropic" or "openai"
	APIKey            string
	BaseURL           string // Optional: for custom endpoints
	Model             string
	MaxTokens         int
	AnalysisMaxTokens int // INVEST and suggestion calls
	Timeout           time.Duration
	MaxRetries        int
	RequestsPerMinute int
	ReasoningEffort   string // Optional: "low", "medium", "high" for reasoning models
	KeySource         string // where APIKey was resolved from, for startup logs
}

type SessionConfig struct {
	MaxDocuments int
	IdleTTL      time.Duration
	HeaderName   string
	CookieName   string
}

type SecretsConfig struct {
	Path string
}

type Features struct {
	AIValidation  bool
	AISuggestions bool
}

type ServiceType string

const (
	ServiceTypeServer ServiceType = "server"
	ServiceTypeCLI    ServiceType = "cli"
)

const (
	ProviderAnthropic = "anthropic"
	ProviderOpenAI    = "openai"

	DefaultModel = "claude-sonnet-4-20250514"
)

// ErrMissingAPIKey is fatal at startup. Its message carries the remediation steps.
var ErrMissingAPIKey = errors.New("API key not configured")

// Load loads configuration from environment variables.
// In development, it loads from service-specific .env files:
//   - .env.server for the API server
//   - .env.cli for storyctl
//
// Falls back to .env if service-specific file doesn't exist.
// The API key is resolved from the secrets file first and the environment second.
func Load(serviceType ServiceType) (Config, error) {
	if getEnv("STORYFORGE_ENV", "development") == "development" {
		envFile := fmt.Sprintf(".env.%s", serviceType)
		if err := godotenv.Load(envFile); err != nil {
			_ = godotenv.Load(".env")
		}
	}

	cfg := Config{
		Env:    getEnv("STORYFORGE_ENV", "development"),
		Port:   getEnv("PORT", "8080"),
		NodeID: int64(getEnvInt("NODE_ID", 1)),
		OTel: OTelConfig{
			Endpoint:       getEnv("OTEL_EXPORTER_OTLP_ENDPOINT", ""),
			Headers:        getEnv("OTEL_EXPORTER_OTLP_HEADERS", ""),
			ServiceName:    getEnv("OTEL_SERVICE_NAME", "storyforge"),
			ServiceVersion: getEnv("OTEL_SERVICE_VERSION", "dev"),
		},
		LLM: LLMConfig{
			Provider:          getEnv("LLM_PROVIDER", ProviderAnthropic),
			BaseURL:           getEnv("LLM_BASE_URL", ""),
			Model:             getEnv("LLM_MODEL", DefaultModel),
			MaxTokens:         getEnvInt("LLM_MAX_TOKENS", 4000),
			AnalysisMaxTokens: getEnvInt("LLM_ANALYSIS_MAX_TOKENS", 2000),
			Timeout:           getEnvDuration("LLM_TIMEOUT", 30*time.Second),
			MaxRetries:        getEnvInt("LLM_MAX_RETRIES", 2),
			RequestsPerMinute: getEnvInt("LLM_REQUESTS_PER_MINUTE", 30),
			ReasoningEffort:   getEnv("LLM_REASONING_EFFORT", ""),
		},
		Session: SessionConfig{
			MaxDocuments: getEnvInt("SESSION_MAX_DOCUMENTS", 100),
			IdleTTL:      getEnvDuration("SESSION_IDLE_TTL", 12*time.Hour),
			HeaderName:   getEnv("SESSION_HEADER", "X-Session-ID"),
			CookieName:   getEnv("SESSION_COOKIE", "storyforge_session"),
		},
		Secrets: SecretsConfig{
			Path: getEnv("STORYFORGE_SECRETS_FILE", ".storyforge/secrets.toml"),
		},
		Features: Features{
			AIValidation:  getEnvBool("FEATURE_AI_VALIDATION", true),
			AISuggestions: getEnvBool("FEATURE_AI_SUGGESTIONS", true),
		},
	}

	if cfg.LLM.Provider != ProviderAnthropic && cfg.LLM.Provider != ProviderOpenAI {
		return Config{}, fmt.Errorf("LLM_PROVIDER must be %q or %q, got %q", ProviderAnthropic, ProviderOpenAI, cfg.LLM.Provider)
	}

	key, source, err := ResolveAPIKey(cfg.Secrets.Path, cfg.LLM.Provider)
	if err != nil {
		return Config{}, err
	}
	cfg.LLM.APIKey = key
	cfg.LLM.KeySource = source

	return cfg, nil
}

func (c Config) IsProduction() bool {
	return c.Env == "production"
}

func (c Config) IsDevelopment() bool {
	return c.Env == "development"
}

func (c OTelConfig) Enabled() bool {
	return c.Endpoint != ""
}

func (c LLMConfig) Enabled() bool {
	return c.APIKey != "" && (c.Provider == ProviderOpenAI || c.Provider == ProviderAnthropic)
}

func getEnv(key, fallback string) string {
	if value, ok := os.LookupEnv(key); ok {
		return value
	}
	return fallback
}

func getEnvInt(key string, fallback int) int {
	if value, ok := os.LookupEnv(key); ok {
		if i, err := strconv.Atoi(value); err == nil {
			return i
		}
	}
	return fallback
}

func getEnvBool(key string, fallback bool) bool {
	if value, ok := os.LookupEnv(key); ok {
		if b, err := strconv.ParseBool(value); err == nil {
			return b
		}
	}
	return fallback
}

func getEnvDuration(key string, fallback time.Duration) time.Duration {
	if value, ok := os.LookupEnv(key); ok {
		if d, err := time.ParseDuration(value); err == nil {
			return d
		}
	}
	return fallback
}
