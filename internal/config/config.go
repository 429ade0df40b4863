// Package config provides configuration types for logtriage.
//
// The Config object is populated by viper in the CLI layer and passed
// explicitly into constructors, so the pipeline never reads ambient
// process state.
package config

import (
	"time"
)

// DefaultMaxLogBytes bounds the size of a single submitted excerpt.
const DefaultMaxLogBytes = 5 * 1024 * 1024

// Config holds the application-wide configuration.
type Config struct {
	Format      string          `mapstructure:"format"`
	Verbose     bool            `mapstructure:"verbose"`
	MaxLogBytes int64           `mapstructure:"max_log_bytes"`
	Cache       CacheConfig     `mapstructure:"cache"`
	LLM         LLMConfig       `mapstructure:"llm"`
	Redaction   RedactionConfig `mapstructure:"redaction"`
}

// CacheConfig holds result-cache settings.
type CacheConfig struct {
	// Dir is the directory holding cached analysis entries.
	Dir string `mapstructure:"dir"`

	// TTL is how long a cached analysis remains valid. Zero uses the
	// cache package default of 24h.
	TTL time.Duration `mapstructure:"ttl"`
}

// LLMConfig holds configuration for LLM providers.
type LLMConfig struct {
	// Provider selects which LLM to use: "ollama", "openai", "anthropic"
	Provider string `mapstructure:"provider"`

	// Global settings applied to all providers
	Temperature float32       `mapstructure:"temperature"`
	MaxTokens   int           `mapstructure:"max_tokens"`
	Timeout     time.Duration `mapstructure:"timeout"`

	// Provider-specific configuration
	Ollama    OllamaConfig    `mapstructure:"ollama"`
	OpenAI    OpenAIConfig    `mapstructure:"openai"`
	Anthropic AnthropicConfig `mapstructure:"anthropic"`
}

// OllamaConfig holds Ollama-specific settings.
type OllamaConfig struct {
	Host      string `mapstructure:"host"`       // API endpoint
	Model     string `mapstructure:"model"`      // Default model name
	KeepAlive string `mapstructure:"keep_alive"` // e.g., "5m"
	NumCtx    int    `mapstructure:"num_ctx"`    // Context window size
}

// OpenAIConfig holds OpenAI-specific settings.
type OpenAIConfig struct {
	APIKey  string `mapstructure:"api_key"`  // Optional: read from OPENAI_API_KEY if empty
	Model   string `mapstructure:"model"`    // e.g., "gpt-4o"
	BaseURL string `mapstructure:"base_url"` // Optional: for compatible endpoints
}

// AnthropicConfig holds Anthropic/Claude-specific settings.
type AnthropicConfig struct {
	APIKey string `mapstructure:"api_key"` // Optional: read from ANTHROPIC_API_KEY if empty
	Model  string `mapstructure:"model"`
}

// RedactionConfig holds configuration for sensitive-data redaction.
type RedactionConfig struct {
	// Enabled controls whether redaction is active.
	Enabled bool `mapstructure:"enabled"`

	// Patterns specifies which redaction patterns to use.
	// Available: timestamp, url, email, secret, path, ipv4, card, ssn
	Patterns []string `mapstructure:"patterns"`
}
