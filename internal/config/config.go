package config

import (
	"fmt"
	"os"
	"time"

	"gopkg.in/yaml.v3"
)

// Config represents the overall application configuration
type Config struct {
	API       APIConfig       `yaml:"api"`
	OpenAI    OpenAIConfig    `yaml:"openai"`
	Vector    VectorConfig    `yaml:"vector"`
	Database  DatabaseConfig  `yaml:"database"`
	Redis     RedisConfig     `yaml:"redis"`
	WebSearch WebSearchConfig `yaml:"web_search"`
	Events    EventsConfig    `yaml:"events"`
}

// APIConfig represents the HTTP gateway configuration
type APIConfig struct {
	Host           string        `yaml:"host"`
	Port           int           `yaml:"port"`
	ReadTimeout    time.Duration `yaml:"read_timeout"`
	WriteTimeout   time.Duration `yaml:"write_timeout"`
	IdleTimeout    time.Duration `yaml:"idle_timeout"`
	EnableCORS     bool          `yaml:"enable_cors"`
	AllowedOrigins []string      `yaml:"allowed_origins"`
}

// OpenAIConfig represents OpenAI chat and embedding configuration
type OpenAIConfig struct {
	APIKey             string  `yaml:"api_key"`
	ChatModel          string  `yaml:"chat_model"`
	EmbeddingModel     string  `yaml:"embedding_model"`
	EmbeddingDimension int     `yaml:"embedding_dimension"`
	MaxTokens          int     `yaml:"max_tokens"`
	Temperature        float32 `yaml:"temperature"`
}

// VectorConfig represents vector search configuration. The remote index is a
// pgvector-backed index service addressed by DSN; the local in-process index
// is the fallback.
type VectorConfig struct {
	RemoteDSN           string `yaml:"remote_dsn"`
	IndexName           string `yaml:"index_name"`
	EnableLocalFallback bool   `yaml:"enable_local_fallback"`
	TopK                int    `yaml:"top_k"`
}

// DatabaseConfig represents the relational store configuration
type DatabaseConfig struct {
	DSN      string `yaml:"dsn"`
	SeedData bool   `yaml:"seed_data"`
}

// RedisConfig represents the document store configuration
type RedisConfig struct {
	Addr     string `yaml:"addr"`
	Password string `yaml:"password"`
	DB       int    `yaml:"db"`
	Prefix   string `yaml:"prefix"`
}

// WebSearchConfig represents the web search API configuration
type WebSearchConfig struct {
	APIKey     string        `yaml:"api_key"`
	Endpoint   string        `yaml:"endpoint"`
	MaxResults int           `yaml:"max_results"`
	Timeout    time.Duration `yaml:"timeout"`
}

// EventsConfig represents the Kafka interaction-event configuration
type EventsConfig struct {
	Brokers []string `yaml:"brokers"`
	Topic   string   `yaml:"topic"`
}

// Load reads configuration from a YAML file, then applies environment
// overrides for secrets and defaults for everything left unset. An empty
// path yields a config built from environment and defaults alone.
func Load(path string) (*Config, error) {
	cfg := &Config{}

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			return nil, fmt.Errorf("failed to read config file: %v", err)
		}
		if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %v", err)
		}
	}

	cfg.applyEnvOverrides()
	cfg.applyDefaults()

	return cfg, nil
}

func (c *Config) applyEnvOverrides() {
	if v := os.Getenv("OPENAI_API_KEY"); v != "" {
		c.OpenAI.APIKey = v
	}
	if v := os.Getenv("TAVILY_API_KEY"); v != "" {
		c.WebSearch.APIKey = v
	}
	if v := os.Getenv("VECTOR_REMOTE_DSN"); v != "" {
		c.Vector.RemoteDSN = v
	}
	if v := os.Getenv("DATABASE_URL"); v != "" {
		c.Database.DSN = v
	}
	if v := os.Getenv("REDIS_ADDR"); v != "" {
		c.Redis.Addr = v
	}
}

func (c *Config) applyDefaults() {
	if c.API.Port == 0 {
		c.API.Port = 8080
	}
	if c.API.ReadTimeout == 0 {
		c.API.ReadTimeout = 15 * time.Second
	}
	if c.API.WriteTimeout == 0 {
		c.API.WriteTimeout = 60 * time.Second
	}
	if c.API.IdleTimeout == 0 {
		c.API.IdleTimeout = 120 * time.Second
	}
	if c.OpenAI.ChatModel == "" {
		c.OpenAI.ChatModel = "gpt-4o"
	}
	if c.OpenAI.EmbeddingModel == "" {
		c.OpenAI.EmbeddingModel = "text-embedding-ada-002"
	}
	if c.OpenAI.EmbeddingDimension == 0 {
		c.OpenAI.EmbeddingDimension = 1536
	}
	if c.OpenAI.MaxTokens == 0 {
		c.OpenAI.MaxTokens = 1000
	}
	if c.OpenAI.Temperature == 0 {
		c.OpenAI.Temperature = 0.7
	}
	if c.Vector.IndexName == "" {
		c.Vector.IndexName = "tech_support_kb"
	}
	if c.Vector.TopK == 0 {
		c.Vector.TopK = 3
	}
	if c.WebSearch.Endpoint == "" {
		c.WebSearch.Endpoint = "https://api.tavily.com/search"
	}
	if c.WebSearch.MaxResults == 0 {
		c.WebSearch.MaxResults = 5
	}
	if c.WebSearch.Timeout == 0 {
		c.WebSearch.Timeout = 10 * time.Second
	}
	if c.Redis.Prefix == "" {
		c.Redis.Prefix = "supportdesk"
	}
	if c.Events.Topic == "" {
		c.Events.Topic = "supportdesk-interactions"
	}
}
