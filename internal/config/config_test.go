package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

func TestDefaultIsValid(t *testing.T) {
	cfg := Default()
	require.NoError(t, cfg.Validate())

	assert.Equal(t, "anthropic", cfg.LLM.Provider)
	assert.Equal(t, 5, cfg.Generation.QuestionCount)
	assert.Equal(t, 3, cfg.Generation.CandidateMultiplier)
	assert.Equal(t, "none", cfg.Store.Backend)
}

func TestLoadMissingFileUsesDefaults(t *testing.T) {
	cfg, err := Load(filepath.Join(t.TempDir(), "no-such-file.yaml"))
	require.NoError(t, err)
	assert.Equal(t, Default(), cfg)
}

func TestLoadFromFile(t *testing.T) {
	path := filepath.Join(t.TempDir(), "sockbowl.yaml")
	content := `
llm:
  provider: gemini
  model: gemini-2.5-flash
generation:
  question_count: 12
  generate_bonuses: false
store:
  backend: sqlite
  sqlite:
    path: /tmp/test.db
`
	require.NoError(t, os.WriteFile(path, []byte(content), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, "gemini", cfg.LLM.Provider)
	assert.Equal(t, "gemini-2.5-flash", cfg.LLM.Model)
	assert.Equal(t, 12, cfg.Generation.QuestionCount)
	assert.False(t, cfg.Generation.GenerateBonuses)
	assert.Equal(t, "sqlite", cfg.Store.Backend)
	assert.Equal(t, "/tmp/test.db", cfg.Store.SQLite.Path)
	// Unset fields keep their defaults.
	assert.Equal(t, 3, cfg.Generation.CandidateMultiplier)
}

func TestEnvOverrides(t *testing.T) {
	t.Setenv("SOCKBOWL_PROVIDER", "openai")
	t.Setenv("SOCKBOWL_API_KEY", "sk-test")
	t.Setenv("SOCKBOWL_QUESTION_COUNT", "7")
	t.Setenv("SOCKBOWL_STORE", "neo4j")
	t.Setenv("NEO4J_URI", "neo4j://localhost:7687")
	t.Setenv("NEO4J_PASSWORD", "secret")

	cfg, err := Load("")
	require.NoError(t, err)

	assert.Equal(t, "openai", cfg.LLM.Provider)
	assert.Equal(t, "sk-test", cfg.LLM.APIKey)
	assert.Equal(t, 7, cfg.Generation.QuestionCount)
	assert.Equal(t, "neo4j", cfg.Store.Backend)
	assert.Equal(t, "neo4j://localhost:7687", cfg.Store.Neo4j.URI)
	assert.Equal(t, "secret", cfg.Store.Neo4j.Password)
}

func TestValidateRejectsBadValues(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"unknown provider", func(c *Config) { c.LLM.Provider = "llama" }},
		{"bad timeout", func(c *Config) { c.LLM.Timeout = "soon" }},
		{"count too low", func(c *Config) { c.Generation.QuestionCount = 0 }},
		{"count too high", func(c *Config) { c.Generation.QuestionCount = 31 }},
		{"zero multiplier", func(c *Config) { c.Generation.CandidateMultiplier = 0 }},
		{"unknown backend", func(c *Config) { c.Store.Backend = "postgres" }},
		{"neo4j without uri", func(c *Config) { c.Store.Backend = "neo4j" }},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := Default()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}
