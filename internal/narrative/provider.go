// Package narrative is the gateway to the language model that turns reconciled
// earnings figures into plain-English "script vs. reality" narratives.
package narrative

import (
	"context"
	"fmt"
	"strings"

	"github.com/anthropics/anthropic-sdk-go"

	"github.com/bobmcallan/earnings-insight/internal/apperr"
)

// Provider names accepted in [llm].provider.
const (
	ProviderGemini = "gemini"
	ProviderClaude = "claude"
)

// Default models per provider.
const (
	DefaultGeminiModel = "gemini-2.5-flash"
	DefaultClaudeModel = string(anthropic.ModelClaude3_5HaikuLatest)
)

// DefaultTemperature matches the sampling used for every narrative prompt.
const DefaultTemperature = 0.7

// DefaultMaxTokens bounds a single completion.
const DefaultMaxTokens = 2048

// placeholderKey is the value shipped in example env files.
const placeholderKey = "your_key_here"

// Provider issues one completion request and returns the raw model text.
type Provider interface {
	Name() string
	Model() string
	Generate(ctx context.Context, prompt string) (string, error)
}

// ProviderConfig selects and configures a Provider.
type ProviderConfig struct {
	Provider    string
	APIKey      string
	Model       string
	Temperature float64
	MaxTokens   int
}

// KeyConfigured reports whether key looks like a real credential.
func KeyConfigured(key string) bool {
	key = strings.TrimSpace(key)
	return key != "" && key != placeholderKey
}

// NewProvider builds the provider named in cfg. A missing credential is a
// config error.
func NewProvider(cfg ProviderConfig) (Provider, error) {
	if !KeyConfigured(cfg.APIKey) {
		return nil, apperr.Config("narrative.provider", "%s API key not configured", providerLabel(cfg.Provider))
	}
	if cfg.Temperature <= 0 {
		cfg.Temperature = DefaultTemperature
	}
	if cfg.MaxTokens <= 0 {
		cfg.MaxTokens = DefaultMaxTokens
	}

	switch strings.ToLower(strings.TrimSpace(cfg.Provider)) {
	case "", ProviderGemini:
		if cfg.Model == "" {
			cfg.Model = DefaultGeminiModel
		}
		return NewGeminiProvider(cfg), nil
	case ProviderClaude:
		if cfg.Model == "" {
			cfg.Model = DefaultClaudeModel
		}
		return NewClaudeProvider(cfg), nil
	default:
		return nil, apperr.Config("narrative.provider", "unknown llm provider %q", cfg.Provider)
	}
}

func providerLabel(name string) string {
	switch strings.ToLower(name) {
	case ProviderClaude:
		return "Anthropic"
	default:
		return "Gemini"
	}
}

// ErrEmptyCompletion is returned when the model produced no text.
var ErrEmptyCompletion = fmt.Errorf("no response generated from model")

// ErrTruncatedCompletion is returned when the model stopped at the output
// token limit.
var ErrTruncatedCompletion = fmt.Errorf("model response truncated at the output token limit")
