package genai

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

const (
	defaultBaseURL = "https://generativelanguage.googleapis.com/v1beta"
	defaultModel   = "gemini-1.5-flash-latest"
	defaultTimeout = 60 * time.Second
)

// Config holds the text-generation collaborator settings.
type Config struct {
	BaseURL string
	APIKey  string
	Model   string
	Timeout time.Duration
}

// LoadConfig reads a YAML config file. The API key may alternatively come
// from the GEMINI_API_KEY or LLM_API_KEY environment variables.
func LoadConfig(path string) (Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return Config{}, fmt.Errorf("genai: read config: %w", err)
	}
	var raw struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	}
	if err := yaml.Unmarshal(data, &raw); err != nil {
		return Config{}, fmt.Errorf("genai: parse config: %w", err)
	}

	cfg := Config{BaseURL: raw.BaseURL, APIKey: raw.APIKey, Model: raw.Model}
	if raw.Timeout != "" {
		timeout, err := time.ParseDuration(raw.Timeout)
		if err != nil {
			return Config{}, fmt.Errorf("genai: parse timeout: %w", err)
		}
		cfg.Timeout = timeout
	}
	if cfg.APIKey == "" {
		cfg.APIKey = apiKeyFromEnv()
	}
	return cfg.withDefaults(), nil
}

func apiKeyFromEnv() string {
	if key := os.Getenv("GEMINI_API_KEY"); key != "" {
		return key
	}
	return os.Getenv("LLM_API_KEY")
}

func (c Config) withDefaults() Config {
	if c.BaseURL == "" {
		c.BaseURL = defaultBaseURL
	}
	if c.Model == "" {
		c.Model = defaultModel
	}
	if c.Timeout <= 0 {
		c.Timeout = defaultTimeout
	}
	return c
}

// GenerateOptions tunes a single generation request.
type GenerateOptions struct {
	Temperature     float64
	TopK            int
	TopP            float64
	MaxOutputTokens int
}

func (o GenerateOptions) withDefaults() GenerateOptions {
	if o.Temperature <= 0 {
		o.Temperature = 0.2
	}
	if o.TopK <= 0 {
		o.TopK = 40
	}
	if o.TopP <= 0 {
		o.TopP = 0.95
	}
	if o.MaxOutputTokens <= 0 {
		o.MaxOutputTokens = 2000
	}
	return o
}
