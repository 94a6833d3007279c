package config

import (
	"fmt"
	"log/slog"
	"os"
	"time"

	"dario.cat/mergo"
	"gopkg.in/yaml.v3"
)

// fileConfig mirrors the driveline.yaml structure. Durations are strings
// ("120s", "2m") parsed with time.ParseDuration during resolution.
type fileConfig struct {
	Server struct {
		Addr string `yaml:"addr"`
	} `yaml:"server"`
	LLM struct {
		BaseURL     string   `yaml:"base_url"`
		APIKey      string   `yaml:"api_key"`
		Model       string   `yaml:"model"`
		Temperature *float64 `yaml:"temperature"`
		MaxTokens   int      `yaml:"max_tokens"`
		Timeout     string   `yaml:"timeout"`
	} `yaml:"llm"`
	Embedding struct {
		BaseURL string `yaml:"base_url"`
		APIKey  string `yaml:"api_key"`
		Model   string `yaml:"model"`
		Timeout string `yaml:"timeout"`
	} `yaml:"embedding"`
	Slack struct {
		Token   string `yaml:"token"`
		Channel string `yaml:"channel"`
	} `yaml:"slack"`
	Agent struct {
		MaxIterations int `yaml:"max_iterations"`
	} `yaml:"agent"`
	Data DataConfig `yaml:"data"`
}

// Initialize loads, resolves, and validates the configuration.
//
// Steps performed:
//  1. Read the YAML file
//  2. Expand environment variables ({{.VAR}} template syntax)
//  3. Parse YAML into the file mirror
//  4. Merge user values over built-in defaults
//  5. Validate required fields
func Initialize(path string) (*Config, error) {
	log := slog.With("config_file", path)
	log.Info("Initializing configuration")

	cfg, err := load(path)
	if err != nil {
		return nil, NewLoadError(path, err)
	}

	if err := validate(cfg); err != nil {
		return nil, fmt.Errorf("configuration validation failed: %w", err)
	}

	log.Info("Configuration initialized successfully",
		"llm_model", cfg.LLM.Model,
		"embedding_model", cfg.Embedding.Model,
		"slack_enabled", cfg.Slack.Token != "" && cfg.Slack.Channel != "")

	return cfg, nil
}

func load(path string) (*Config, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		if os.IsNotExist(err) {
			return nil, fmt.Errorf("%w: %s", ErrConfigNotFound, path)
		}
		return nil, err
	}

	// Note: ExpandEnv passes through original data on parse/execution
	// errors, letting the YAML parser produce the clearer error message.
	data = ExpandEnv(data)

	var file fileConfig
	if err := yaml.Unmarshal(data, &file); err != nil {
		return nil, fmt.Errorf("%w: %v", ErrInvalidYAML, err)
	}

	return resolve(&file)
}

// resolve merges the parsed file over built-in defaults.
func resolve(file *fileConfig) (*Config, error) {
	overlay := &Config{
		Server: ServerConfig{Addr: file.Server.Addr},
		Agent:  AgentConfig{MaxIterations: file.Agent.MaxIterations},
		Data:   file.Data,
	}
	overlay.LLM.BaseURL = file.LLM.BaseURL
	overlay.LLM.APIKey = file.LLM.APIKey
	overlay.LLM.Model = file.LLM.Model
	overlay.LLM.Temperature = file.LLM.Temperature
	overlay.LLM.MaxTokens = file.LLM.MaxTokens
	overlay.Embedding.BaseURL = file.Embedding.BaseURL
	overlay.Embedding.APIKey = file.Embedding.APIKey
	overlay.Embedding.Model = file.Embedding.Model
	overlay.Slack.Token = file.Slack.Token
	overlay.Slack.Channel = file.Slack.Channel

	var err error
	if overlay.LLM.Timeout, err = parseDuration("llm.timeout", file.LLM.Timeout); err != nil {
		return nil, err
	}
	if overlay.Embedding.Timeout, err = parseDuration("embedding.timeout", file.Embedding.Timeout); err != nil {
		return nil, err
	}

	cfg := defaultConfig()
	if err := mergo.Merge(cfg, overlay, mergo.WithOverride); err != nil {
		return nil, fmt.Errorf("failed to merge configuration: %w", err)
	}
	return cfg, nil
}

func parseDuration(field, value string) (time.Duration, error) {
	if value == "" {
		return 0, nil
	}
	d, err := time.ParseDuration(value)
	if err != nil {
		return 0, NewValidationError(field, fmt.Errorf("%w: %q", ErrInvalidValue, value))
	}
	return d, nil
}

func validate(cfg *Config) error {
	required := []struct {
		field string
		value string
	}{
		{"server.addr", cfg.Server.Addr},
		{"llm.base_url", cfg.LLM.BaseURL},
		{"llm.api_key", cfg.LLM.APIKey},
		{"llm.model", cfg.LLM.Model},
		{"embedding.base_url", cfg.Embedding.BaseURL},
		{"embedding.api_key", cfg.Embedding.APIKey},
		{"embedding.model", cfg.Embedding.Model},
		{"data.cars_dir", cfg.Data.CarsDir},
		{"data.bikes_dir", cfg.Data.BikesDir},
		{"data.faq_file", cfg.Data.FAQFile},
		{"data.pincodes_file", cfg.Data.PincodesFile},
		{"data.stations_file", cfg.Data.StationsFile},
	}
	for _, r := range required {
		if r.value == "" {
			return NewValidationError(r.field, ErrMissingRequiredField)
		}
	}

	if cfg.Agent.MaxIterations < 0 {
		return NewValidationError("agent.max_iterations", fmt.Errorf("%w: must not be negative", ErrInvalidValue))
	}
	if cfg.LLM.Temperature != nil && (*cfg.LLM.Temperature < 0 || *cfg.LLM.Temperature > 2) {
		return NewValidationError("llm.temperature", fmt.Errorf("%w: must be between 0 and 2", ErrInvalidValue))
	}
	return nil
}
