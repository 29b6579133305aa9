// Package config loads the application configuration from an optional YAML
// file, with environment-variable overrides for secrets and deployment
// settings.
package config

import (
	"fmt"
	"os"
	"strconv"
	"strings"
	"time"

	"gopkg.in/yaml.v3"
)

// Config holds all sockbowl configuration.
type Config struct {
	LLM        LLMConfig        `yaml:"llm"`
	Generation GenerationConfig `yaml:"generation"`
	Store      StoreConfig      `yaml:"store"`
}

// LLMConfig selects and configures the text-generation provider.
type LLMConfig struct {
	Provider string `yaml:"provider"` // anthropic, openai, gemini
	APIKey   string `yaml:"api_key"`
	Model    string `yaml:"model"`
	BaseURL  string `yaml:"base_url"`
	Timeout  string `yaml:"timeout"` // Go duration string, e.g. "120s"
}

// GenerationConfig holds the pipeline defaults.
type GenerationConfig struct {
	QuestionCount       int  `yaml:"question_count"`
	GenerateBonuses     bool `yaml:"generate_bonuses"`
	CandidateMultiplier int  `yaml:"candidate_multiplier"`
}

// StoreConfig selects the persistence backend.
type StoreConfig struct {
	// Backend is "none", "sqlite" or "neo4j".
	Backend string       `yaml:"backend"`
	SQLite  SQLiteConfig `yaml:"sqlite"`
	Neo4j   Neo4jConfig  `yaml:"neo4j"`
}

// SQLiteConfig configures the local SQLite backend.
type SQLiteConfig struct {
	Path string `yaml:"path"`
}

// Neo4jConfig configures the Neo4j graph backend.
type Neo4jConfig struct {
	URI      string `yaml:"uri"`
	User     string `yaml:"user"`
	Password string `yaml:"password"`
	Database string `yaml:"database"`
}

// Default returns the built-in defaults.
func Default() *Config {
	return &Config{
		LLM: LLMConfig{
			Provider: "anthropic",
			Timeout:  "120s",
		},
		Generation: GenerationConfig{
			QuestionCount:       5,
			GenerateBonuses:     true,
			CandidateMultiplier: 3,
		},
		Store: StoreConfig{
			Backend: "none",
			SQLite:  SQLiteConfig{Path: "sockbowl.db"},
		},
	}
}

// Load reads the config file at path, applies environment overrides, and
// validates the result. A missing file is not an error; defaults apply.
func Load(path string) (*Config, error) {
	cfg := Default()

	if path != "" {
		data, err := os.ReadFile(path)
		if err != nil {
			if !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		} else if err := yaml.Unmarshal(data, cfg); err != nil {
			return nil, fmt.Errorf("failed to parse config file: %w", err)
		}
	}

	cfg.applyEnv()

	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func (c *Config) applyEnv() {
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_PROVIDER")); v != "" {
		c.LLM.Provider = v
	}
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_API_KEY")); v != "" {
		c.LLM.APIKey = v
	}
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_MODEL")); v != "" {
		c.LLM.Model = v
	}
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_BASE_URL")); v != "" {
		c.LLM.BaseURL = v
	}
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_QUESTION_COUNT")); v != "" {
		if n, err := strconv.Atoi(v); err == nil {
			c.Generation.QuestionCount = n
		}
	}
	if v := strings.TrimSpace(os.Getenv("SOCKBOWL_STORE")); v != "" {
		c.Store.Backend = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_URI")); v != "" {
		c.Store.Neo4j.URI = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_USER")); v != "" {
		c.Store.Neo4j.User = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_PASSWORD")); v != "" {
		c.Store.Neo4j.Password = v
	}
	if v := strings.TrimSpace(os.Getenv("NEO4J_DATABASE")); v != "" {
		c.Store.Neo4j.Database = v
	}
}

// Validate checks the configuration for consistency.
func (c *Config) Validate() error {
	switch c.LLM.Provider {
	case "anthropic", "openai", "gemini":
	default:
		return fmt.Errorf("invalid provider %q (want anthropic, openai or gemini)", c.LLM.Provider)
	}

	if c.LLM.Timeout != "" {
		if _, err := time.ParseDuration(c.LLM.Timeout); err != nil {
			return fmt.Errorf("invalid llm timeout %q: %w", c.LLM.Timeout, err)
		}
	}

	if c.Generation.QuestionCount < 1 || c.Generation.QuestionCount > 30 {
		return fmt.Errorf("question_count must be between 1 and 30, got %d", c.Generation.QuestionCount)
	}
	if c.Generation.CandidateMultiplier < 1 {
		return fmt.Errorf("candidate_multiplier must be at least 1, got %d", c.Generation.CandidateMultiplier)
	}

	switch c.Store.Backend {
	case "none", "sqlite":
	case "neo4j":
		if strings.TrimSpace(c.Store.Neo4j.URI) == "" {
			return fmt.Errorf("neo4j backend selected but no URI configured")
		}
	default:
		return fmt.Errorf("invalid store backend %q (want none, sqlite or neo4j)", c.Store.Backend)
	}

	return nil
}

// LLMTimeout returns the parsed provider timeout, or zero when unset or
// malformed.
func (c *Config) LLMTimeout() time.Duration {
	d, err := time.ParseDuration(c.LLM.Timeout)
	if err != nil {
		return 0
	}
	return d
}
