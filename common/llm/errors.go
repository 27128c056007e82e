package llm

import (
	"context"
	"errors"
	"net"
	"net/http"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"
	"github.com/openai/openai-go"
)

// Kind discriminates generation failures.
type Kind string

const (
	KindTimeout            Kind = "timeout"
	KindRateLimited        Kind = "rate_limited"
	KindConnection         Kind = "connection_error"
	KindInvalidCredentials Kind = "invalid_credentials"
	KindGeneric            Kind = "generic"
)

var errEmptyResponse = errors.New("empty response from model")

// Error is the failure result of Generate. Message keeps the original error
// text for diagnostics.
type Error struct {
	Kind    Kind
	Message string
	Err     error
}

func (e *Error) Error() string {
	return string(e.Kind) + ": " + e.Message
}

func (e *Error) Unwrap() error {
	return e.Err
}

// Retryable reports whether asking the user to try again can help.
func (e *Error) Retryable() bool {
	return e.Kind != KindInvalidCredentials
}

// KindOf returns the failure kind of err, KindGeneric for unclassified errors
// and "" for nil.
func KindOf(err error) Kind {
	if err == nil {
		return ""
	}
	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr.Kind
	}
	return KindGeneric
}

// Classify maps SDK and transport errors onto Kind. Already classified errors pass through.
func Classify(err error) *Error {
	if err == nil {
		return nil
	}

	var llmErr *Error
	if errors.As(err, &llmErr) {
		return llmErr
	}

	return &Error{Kind: classifyKind(err), Message: err.Error(), Err: err}
}

func classifyKind(err error) Kind {
	if errors.Is(err, context.DeadlineExceeded) {
		return KindTimeout
	}

	if status := statusCode(err); status != 0 {
		switch {
		case status == http.StatusTooManyRequests:
			return KindRateLimited
		case status == http.StatusUnauthorized || status == http.StatusForbidden:
			return KindInvalidCredentials
		case status == http.StatusRequestTimeout || status == http.StatusGatewayTimeout:
			return KindTimeout
		}
		return kindFromMessage(err.Error(), KindGeneric)
	}

	var netErr net.Error
	if errors.As(err, &netErr) {
		if netErr.Timeout() {
			return KindTimeout
		}
		return KindConnection
	}

	return kindFromMessage(err.Error(), KindGeneric)
}

func statusCode(err error) int {
	var anthropicErr *anthropic.Error
	if errors.As(err, &anthropicErr) {
		return anthropicErr.StatusCode
	}
	var openaiErr *openai.Error
	if errors.As(err, &openaiErr) {
		return openaiErr.StatusCode
	}
	return 0
}

func kindFromMessage(msg string, fallback Kind) Kind {
	lower := strings.ToLower(msg)
	switch {
	case strings.Contains(lower, "timeout") || strings.Contains(lower, "timed out") || strings.Contains(lower, "deadline"):
		return KindTimeout
	case strings.Contains(lower, "rate limit") || strings.Contains(lower, "rate_limit"):
		return KindRateLimited
	case strings.Contains(lower, "api key") || strings.Contains(lower, "authentication") || strings.Contains(lower, "unauthorized"):
		return KindInvalidCredentials
	case strings.Contains(lower, "connection"):
		return KindConnection
	}
	return fallback
}

// Guidance is the user-facing wording for a failure kind.
type Guidance struct {
	Title      string `json:"title"`
	Message    string `json:"message"`
	Suggestion string `json:"suggestion"`
}

// GuidanceFor returns user-facing texts for err. The generic message embeds
// the diagnostic text.
func GuidanceFor(err error) Guidance {
	kind := KindOf(err)
	switch kind {
	case KindTimeout:
		return Guidance{
			Title:      "Tempo Esgotado",
			Message:    "A IA demorou muito para responder. Tente novamente ou reduza a complexidade.",
			Suggestion: "Tente simplificar as informações ou aguarde alguns minutos.",
		}
	case KindRateLimited:
		return Guidance{
			Title:      "Limite Atingido",
			Message:    "Muitas requisições em pouco tempo. Aguarde alguns minutos.",
			Suggestion: "Aguarde 1-2 minutos antes de tentar novamente.",
		}
	case KindConnection:
		return Guidance{
			Title:      "Erro de Conexão",
			Message:    "Não foi possível conectar à API de geração.",
			Suggestion: "Verifique sua conexão com a internet.",
		}
	case KindInvalidCredentials:
		return Guidance{
			Title:      "Problema com API Key",
			Message:    "A chave de API está inválida ou expirada.",
			Suggestion: "Verifique a configuração no arquivo .env ou no arquivo de segredos.",
		}
	}

	details := ""
	var llmErr *Error
	if errors.As(err, &llmErr) {
		details = llmErr.Message
	} else if err != nil {
		details = err.Error()
	}
	return Guidance{
		Title:      "Erro Inesperado",
		Message:    "Ocorreu um erro ao gerar a história: " + details,
		Suggestion: "Tente novamente ou entre em contato com o suporte.",
	}
}
