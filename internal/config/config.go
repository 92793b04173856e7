package config

import (
	"errors"
	"fmt"
	"strings"
	"time"

	"github.com/spf13/viper"
)

// Environment variables holding the Sourcegraph credentials.
const (
	EnvAccessToken = "SRC_ACCESS_TOKEN"
	EnvEndpoint    = "SRC_ENDPOINT"

	// EnvPrefix is the prefix for every other environment override (CODYCLI_CHAT_MODEL, ...).
	EnvPrefix = "CODYCLI"
)

// API paths relative to the Sourcegraph endpoint.
const (
	pathGraphQL     = "/.api/graphql"
	pathCompletions = "/.api/completions/stream"
	pathModels      = "/.api/llm/models"
)

// Config holds the complete application configuration.
type Config struct {
	Sourcegraph SourcegraphConfig `mapstructure:"sourcegraph" yaml:"sourcegraph" json:"sourcegraph"`
	Chat        ChatConfig        `mapstructure:"chat" yaml:"chat" json:"chat"`
	Context     ContextConfig     `mapstructure:"context" yaml:"context" json:"context"`
	HTTP        HTTPConfig        `mapstructure:"http" yaml:"http" json:"http"`
	Log         LogConfig         `mapstructure:"log" yaml:"log" json:"log"`
}

// SourcegraphConfig holds the instance endpoint and credential.
type SourcegraphConfig struct {
	Endpoint    string `mapstructure:"endpoint" yaml:"endpoint" json:"endpoint"`
	AccessToken string `mapstructure:"access_token" yaml:"access_token" json:"access_token"`
}

// ChatConfig holds the completion request parameters.
type ChatConfig struct {
	Model             string  `mapstructure:"model" yaml:"model" json:"model"`
	MaxTokensToSample int     `mapstructure:"max_tokens_to_sample" yaml:"max_tokens_to_sample" json:"max_tokens_to_sample"`
	Temperature       float64 `mapstructure:"temperature" yaml:"temperature" json:"temperature"`
	TopK              int     `mapstructure:"top_k" yaml:"top_k" json:"top_k"`
	TopP              int     `mapstructure:"top_p" yaml:"top_p" json:"top_p"`
	ClientName        string  `mapstructure:"client_name" yaml:"client_name" json:"client_name"`
	ClientVersion     string  `mapstructure:"client_version" yaml:"client_version" json:"client_version"`
	// LegacyURLQuote appends the stray "'" the first clients sent after client-version.
	LegacyURLQuote bool `mapstructure:"legacy_url_quote" yaml:"legacy_url_quote" json:"legacy_url_quote"`
}

// ContextConfig holds the context search limits.
type ContextConfig struct {
	CodeResultsCount int `mapstructure:"code_results_count" yaml:"code_results_count" json:"code_results_count"`
	TextResultsCount int `mapstructure:"text_results_count" yaml:"text_results_count" json:"text_results_count"`
}

// HTTPConfig holds transport settings. A zero timeout means no timeout.
type HTTPConfig struct {
	Timeout time.Duration `mapstructure:"timeout" yaml:"timeout" json:"timeout"`
}

// LogConfig holds logging configuration.
type LogConfig struct {
	Level  string `mapstructure:"level" yaml:"level" json:"level"`
	Format string `mapstructure:"format" yaml:"format" json:"format"`
	File   string `mapstructure:"file" yaml:"file" json:"file"`
}

// SetDefaults registers the default value of every key.
func SetDefaults(v *viper.Viper) {
	// Chat defaults
	v.SetDefault("chat.model", "gpt-4o")
	v.SetDefault("chat.max_tokens_to_sample", 4000)
	v.SetDefault("chat.temperature", 0.2)
	v.SetDefault("chat.top_k", -1)
	v.SetDefault("chat.top_p", -1)
	v.SetDefault("chat.client_name", "jetbrains")
	v.SetDefault("chat.client_version", "6.0.0-SNAPSHOT")
	v.SetDefault("chat.legacy_url_quote", false)

	// Context search defaults
	v.SetDefault("context.code_results_count", 10)
	v.SetDefault("context.text_results_count", 5)

	v.SetDefault("http.timeout", "0s")

	// Logging defaults
	v.SetDefault("log.level", "error")
	v.SetDefault("log.format", "text")
	v.SetDefault("log.file", "")
}

// BindEnvironment maps SRC_ACCESS_TOKEN and SRC_ENDPOINT onto their keys and
// enables CODYCLI_-prefixed overrides for the rest.
func BindEnvironment(v *viper.Viper) error {
	v.SetEnvPrefix(EnvPrefix)
	v.SetEnvKeyReplacer(strings.NewReplacer(".", "_"))
	v.AutomaticEnv()

	if err := v.BindEnv("sourcegraph.access_token", EnvAccessToken); err != nil {
		return fmt.Errorf("binding %s: %w", EnvAccessToken, err)
	}
	if err := v.BindEnv("sourcegraph.endpoint", EnvEndpoint); err != nil {
		return fmt.Errorf("binding %s: %w", EnvEndpoint, err)
	}
	return nil
}

// New creates a Config from Viper and validates it.
func New(v *viper.Viper) (*Config, error) {
	config, err := Decode(v)
	if err != nil {
		return nil, err
	}

	if err := config.Validate(); err != nil {
		return nil, err
	}

	return config, nil
}

// Decode creates a Config from Viper without validating it.
func Decode(v *viper.Viper) (*Config, error) {
	var config Config

	if err := v.Unmarshal(&config); err != nil {
		return nil, fmt.Errorf("unable to decode config: %w", err)
	}

	config.Sourcegraph.Endpoint = strings.TrimRight(strings.TrimSpace(config.Sourcegraph.Endpoint), "/")
	config.Sourcegraph.AccessToken = strings.TrimSpace(config.Sourcegraph.AccessToken)

	return &config, nil
}

// Validate validates the configuration.
func (c *Config) Validate() error {
	if c.Sourcegraph.AccessToken == "" {
		return fmt.Errorf("%s environment variable is not set", EnvAccessToken)
	}

	if c.Sourcegraph.Endpoint == "" {
		return fmt.Errorf("%s environment variable is not set", EnvEndpoint)
	}

	if !strings.HasPrefix(c.Sourcegraph.Endpoint, "http://") && !strings.HasPrefix(c.Sourcegraph.Endpoint, "https://") {
		return fmt.Errorf("%s must have http:// or https:// scheme, got %q", EnvEndpoint, c.Sourcegraph.Endpoint)
	}

	if c.Chat.Model == "" {
		return errors.New("chat.model cannot be empty")
	}

	if c.Chat.MaxTokensToSample < 1 {
		return errors.New("chat.max_tokens_to_sample must be at least 1")
	}

	if c.Context.CodeResultsCount < 0 || c.Context.TextResultsCount < 0 {
		return errors.New("context result counts cannot be negative")
	}

	if c.HTTP.Timeout < 0 {
		return fmt.Errorf("http.timeout cannot be negative, got %v", c.HTTP.Timeout)
	}

	return nil
}

// GraphQLURL returns the GraphQL endpoint URL.
func (c *Config) GraphQLURL() string {
	return c.Sourcegraph.Endpoint + pathGraphQL
}

// CompletionsURL returns the streaming completions endpoint URL.
func (c *Config) CompletionsURL() string {
	query := "api-version=1&client-name=" + c.Chat.ClientName + "&client-version=" + c.Chat.ClientVersion
	if c.Chat.LegacyURLQuote {
		query += "'"
	}
	return c.Sourcegraph.Endpoint + pathCompletions + "?" + query
}

// ModelsURL returns the model listing endpoint URL.
func (c *Config) ModelsURL() string {
	return c.Sourcegraph.Endpoint + pathModels
}

// Redacted returns a copy of the configuration that is safe to print.
func (c Config) Redacted() Config {
	if c.Sourcegraph.AccessToken != "" {
		c.Sourcegraph.AccessToken = "REDACTED"
	}
	return c
}
