package config

import (
	"errors"
	"fmt"
	"io/fs"
	"os"
	"strings"

	"github.com/pelletier/go-toml/v2"
)

const (
	SourceSecretsFile = "secrets_file"
	SourceEnvironment = "environment"
)

// secretsFile mirrors the flat key = "value" layout of the secrets TOML file.
type secretsFile struct {
	AnthropicAPIKey string `toml:"ANTHROPIC_API_KEY"`
	OpenAIAPIKey    string `toml:"OPENAI_API_KEY"`
}

func (s secretsFile) keyFor(provider string) string {
	if provider == ProviderOpenAI {
		return strings.TrimSpace(s.OpenAIAPIKey)
	}
	return strings.TrimSpace(s.AnthropicAPIKey)
}

// ResolveAPIKey returns the provider key and the name of the source it came from.
// A missing secrets file is not an error; a malformed one is.
func ResolveAPIKey(secretsPath, provider string) (string, string, error) {
	if secretsPath != "" {
		data, err := os.ReadFile(secretsPath)
		switch {
		case err == nil:
			var secrets secretsFile
			if err := toml.Unmarshal(data, &secrets); err != nil {
				return "", "", fmt.Errorf("parsing secrets file %s: %w", secretsPath, err)
			}
			if key := secrets.keyFor(provider); key != "" {
				return key, SourceSecretsFile, nil
			}
		case errors.Is(err, fs.ErrNotExist):
		default:
			return "", "", fmt.Errorf("reading secrets file %s: %w", secretsPath, err)
		}
	}

	if key := strings.TrimSpace(os.Getenv(envKeyName(provider))); key != "" {
		return key, SourceEnvironment, nil
	}

	return "", "", fmt.Errorf("%w\n%s", ErrMissingAPIKey, remediation(secretsPath, provider))
}

func envKeyName(provider string) string {
	if provider == ProviderOpenAI {
		return "OPENAI_API_KEY"
	}
	return "ANTHROPIC_API_KEY"
}

func remediation(secretsPath, provider string) string {
	name := envKeyName(provider)
	var b strings.Builder
	b.WriteString("Configure the key in one of these ways:\n")
	fmt.Fprintf(&b, "  1. add %s = \"<your key>\" to %s\n", name, secretsPath)
	fmt.Fprintf(&b, "  2. export %s=<your key> or add it to .env\n", name)
	return b.String()
}
