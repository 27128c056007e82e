package llm

import (
	"context"
	"encoding/json"
	"fmt"
	"log/slog"
	"strings"
	"time"

	"github.com/invopop/jsonschema"
	"go.opentelemetry.io/otel/attribute"
	"go.opentelemetry.io/otel/trace"

	"basegraph.app/storyforge/common/logger"
	"basegraph.app/storyforge/core/config"
)

// Provider constants for LLM provider selection.
const (
	ProviderOpenAI    = "openai"
	ProviderAnthropic = "anthropic"
)

const (
	defaultAnthropicModel = "claude-sonnet-4-20250514"
	defaultOpenAIModel    = "gpt-4o"
	defaultMaxTokens      = 4000
	defaultTimeout        = 30 * time.Second
	defaultMaxRetries     = 2
)

// ReasoningEffort controls the amount of reasoning for supported models.
type ReasoningEffort string

const (
	ReasoningEffortLow    ReasoningEffort = "low"
	ReasoningEffortMedium ReasoningEffort = "medium"
	ReasoningEffortHigh   ReasoningEffort = "high"
)

// Valid reports whether e is empty or one of the known levels.
func (e ReasoningEffort) Valid() bool {
	switch e {
	case "", ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh:
		return true
	}
	return false
}

// Config holds generation client configuration.
type Config struct {
	Provider          string          // "openai" or "anthropic"
	APIKey            string          // Required: API key for the provider
	BaseURL           string          // Optional: custom API endpoint
	Model             string          // e.g. "claude-sonnet-4-20250514"
	ReasoningEffort   ReasoningEffort // Optional: for models that support reasoning
	Timeout           time.Duration   // Per request, including SDK retries
	MaxRetries        int             // SDK-level retries on 429/5xx/connection errors
	RequestsPerMinute int             // Client-side limiter; 0 disables it
}

// Generator turns a prompt into generated text.
// Failures are always returned as *Error.
type Generator interface {
	Generate(ctx context.Context, req Request) (*Response, error)
	Model() string
}

type Request struct {
	SystemPrompt string
	Prompt       string
	MaxTokens    int
	Temperature  *float64 // nil = model default, explicit 0 = deterministic
}

type Response struct {
	Text             string
	PromptTokens     int
	CompletionTokens int
}

// provider is the raw SDK call. Errors are unclassified.
type provider interface {
	complete(ctx context.Context, req Request) (*Response, error)
	model() string
}

type client struct {
	provider provider
	limiter  *RateLimiter
}

// New creates a Generator for cfg.Provider. Defaults to Anthropic if no provider is specified.
func New(cfg Config) (Generator, error) {
	if cfg.APIKey == "" {
		return nil, fmt.Errorf("API key is required")
	}
	if !cfg.ReasoningEffort.Valid() {
		return nil, fmt.Errorf("unsupported reasoning effort %q (expected %s, %s or %s)",
			cfg.ReasoningEffort, ReasoningEffortLow, ReasoningEffortMedium, ReasoningEffortHigh)
	}
	if cfg.Timeout <= 0 {
		cfg.Timeout = defaultTimeout
	}
	if cfg.MaxRetries < 0 {
		cfg.MaxRetries = defaultMaxRetries
	}

	name := cfg.Provider
	if name == "" {
		name = ProviderAnthropic
	}

	var p provider
	switch name {
	case ProviderAnthropic:
		p = newAnthropicProvider(cfg)
	case ProviderOpenAI:
		p = newOpenAIProvider(cfg)
	default:
		return nil, fmt.Errorf("unsupported LLM provider: %s", name)
	}

	return newClient(p, NewRateLimiter(cfg.RequestsPerMinute)), nil
}

// ConfigFrom maps the application's LLM settings onto a client Config.
func ConfigFrom(c config.LLMConfig) Config {
	return Config{
		Provider:          c.Provider,
		APIKey:            c.APIKey,
		BaseURL:           c.BaseURL,
		Model:             c.Model,
		ReasoningEffort:   ReasoningEffort(c.ReasoningEffort),
		Timeout:           c.Timeout,
		MaxRetries:        c.MaxRetries,
		RequestsPerMinute: c.RequestsPerMinute,
	}
}

func newClient(p provider, limiter *RateLimiter) *client {
	return &client{provider: p, limiter: limiter}
}

func (c *client) Model() string {
	return c.provider.model()
}

func (c *client) Generate(ctx context.Context, req Request) (*Response, error) {
	if req.MaxTokens == 0 {
		req.MaxTokens = defaultMaxTokens
	}

	sc := logger.StartSpan(ctx, "llm.generate", trace.WithSpanKind(trace.SpanKindClient))
	defer sc.End()
	ctx = sc.Context()
	sc.SetAttributes(
		attribute.String("llm.model", c.provider.model()),
		attribute.Int("llm.max_tokens", req.MaxTokens),
	)

	if err := c.limiter.Wait(ctx); err != nil {
		classified := Classify(err)
		sc.RecordError(classified)
		return nil, classified
	}

	start := time.Now()
	resp, err := c.provider.complete(ctx, req)
	if err == nil && strings.TrimSpace(resp.Text) == "" {
		err = errEmptyResponse
	}
	if err != nil {
		classified := Classify(err)
		if classified.Kind == KindRateLimited {
			c.limiter.RecordRateLimited(0)
		}
		sc.RecordError(classified)
		slog.WarnContext(ctx, "llm generation failed",
			"model", c.provider.model(),
			"kind", classified.Kind,
			"duration_ms", time.Since(start).Milliseconds(),
			"error", logger.Truncate(classified.Error(), 300))
		return nil, classified
	}

	sc.SetAttributes(
		attribute.Int("llm.prompt_tokens", resp.PromptTokens),
		attribute.Int("llm.completion_tokens", resp.CompletionTokens),
	)
	slog.DebugContext(ctx, "llm generation completed",
		"model", c.provider.model(),
		"duration_ms", time.Since(start).Milliseconds(),
		"prompt_tokens", resp.PromptTokens,
		"completion_tokens", resp.CompletionTokens)

	return resp, nil
}

// GenerateSchema reflects T into a JSON schema that is embedded in prompts
// asking the model for strict JSON.
func GenerateSchema[T any]() any {
	reflector := jsonschema.Reflector{
		AllowAdditionalProperties: false,
		DoNotReference:            true,
	}
	var v T
	return reflector.Reflect(v)
}

// SchemaJSON renders GenerateSchema[T] as indented JSON for prompt embedding.
func SchemaJSON[T any]() string {
	data, err := json.MarshalIndent(GenerateSchema[T](), "", "  ")
	if err != nil {
		return "{}"
	}
	return string(data)
}

// ExtractJSON returns the JSON payload of a model reply, tolerating a
// surrounding ```json fence or leading prose. Returns "" when nothing
// resembling JSON is present.
func ExtractJSON(text string) string {
	s := strings.TrimSpace(text)
	if i := strings.Index(s, "```"); i >= 0 {
		rest := s[i+3:]
		rest = strings.TrimPrefix(rest, "json")
		if j := strings.Index(rest, "```"); j >= 0 {
			s = strings.TrimSpace(rest[:j])
		}
	}

	// The payload kind is decided by whichever closer comes last, so prose
	// such as "[nota]" ahead of an object does not shadow it.
	open, closer := byte('{'), byte('}')
	if strings.LastIndexByte(s, ']') > strings.LastIndexByte(s, '}') {
		open, closer = '[', ']'
	}
	start := strings.IndexByte(s, open)
	end := strings.LastIndexByte(s, closer)
	if start < 0 || end < start {
		return ""
	}
	return s[start : end+1]
}

func Temp(t float64) *float64 {
	return &t
}
