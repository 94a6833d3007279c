// Package config loads and validates the driveline.yaml configuration.
package config

import (
	"time"

	"github.com/driveline-ai/driveline/pkg/embedding"
	"github.com/driveline-ai/driveline/pkg/llm"
	"github.com/driveline-ai/driveline/pkg/slack"
)

// ServerConfig holds HTTP server settings.
type ServerConfig struct {
	Addr string `yaml:"addr"`
}

// AgentConfig bounds the agent loop.
type AgentConfig struct {
	MaxIterations int `yaml:"max_iterations"`
}

// DataConfig points at the on-disk datasets.
type DataConfig struct {
	CarsDir      string `yaml:"cars_dir"`
	BikesDir     string `yaml:"bikes_dir"`
	FAQFile      string `yaml:"faq_file"`
	FAQCache     string `yaml:"faq_cache"`
	PincodesFile string `yaml:"pincodes_file"`
	StationsFile string `yaml:"stations_file"`
}

// Config is the resolved application configuration.
type Config struct {
	Server    ServerConfig
	LLM       llm.Config
	Embedding embedding.Config
	Slack     slack.ServiceConfig
	Agent     AgentConfig
	Data      DataConfig
}

func defaultConfig() *Config {
	return &Config{
		Server: ServerConfig{Addr: ":8080"},
		LLM: llm.Config{
			BaseURL: "https://api.openai.com/v1",
			Model:   "gpt-4o-mini",
			Timeout: 120 * time.Second,
		},
		Embedding: embedding.Config{
			BaseURL: "https://api.openai.com/v1",
			Model:   "text-embedding-3-small",
			Timeout: 30 * time.Second,
		},
		Agent: AgentConfig{MaxIterations: 10},
		Data: DataConfig{
			CarsDir:      "data/cars",
			BikesDir:     "data/bikes",
			FAQFile:      "data/faq.json",
			FAQCache:     "data/faq_embeddings.json",
			PincodesFile: "data/pincodes.json",
			StationsFile: "data/ev_stations.json",
		},
	}
}
