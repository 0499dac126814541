package config

import (
	"os"
	"path/filepath"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/llmscan/internal/rules"
)

func TestDefaultConfig(t *testing.T) {
	cfg := DefaultConfig()
	assert.Equal(t, int64(50000), cfg.MaxTokens)
	assert.Equal(t, int64(100), cfg.MaxRequests)
	assert.Equal(t, 20.0, cfg.MaxUSD)
	assert.Equal(t, "gpt-4o", cfg.CostModel)
	assert.Equal(t, int64(10), cfg.MaxFileSizeMB)
	assert.NoError(t, cfg.Validate())
}

func TestLoad_ExplicitFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, ".llmscan.yaml")
	doc := `max_tokens: 1234
max_usd: 0.5
cost_model: claude-3-haiku
exclude_dirs:
  - generated
custom_rules:
  - id: team-rule
    pattern: "debug"
    severity: low
    category: overreliance
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg, err := Load(path)
	require.NoError(t, err)

	assert.Equal(t, int64(1234), cfg.MaxTokens)
	assert.Equal(t, 0.5, cfg.MaxUSD)
	assert.Equal(t, "claude-3-haiku", cfg.CostModel)
	assert.Equal(t, []string{"generated"}, cfg.ExcludeDirs)
	// unset keys keep their defaults
	assert.Equal(t, int64(100), cfg.MaxRequests)

	require.Len(t, cfg.CustomRules, 1)
	compiled, err := cfg.CompileRules()
	require.NoError(t, err)
	assert.Equal(t, "team-rule", compiled[0].ID)
}

func TestLoad_MissingExplicitFileFails(t *testing.T) {
	_, err := Load(filepath.Join(t.TempDir(), "absent.yaml"))
	assert.Error(t, err)
}

func TestValidate(t *testing.T) {
	tests := []struct {
		name   string
		mutate func(*Config)
	}{
		{"empty cost model", func(c *Config) { c.CostModel = "" }},
		{"negative workers", func(c *Config) { c.Workers = -1 }},
		{"zero max file size", func(c *Config) { c.MaxFileSizeMB = 0 }},
		{"custom rule without id", func(c *Config) {
			c.CustomRules = []rules.CustomRule{{Pattern: "x", Severity: "low"}}
		}},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			cfg := DefaultConfig()
			tt.mutate(cfg)
			assert.Error(t, cfg.Validate())
		})
	}
}

func TestCompileRules_WithRulesFile(t *testing.T) {
	dir := t.TempDir()
	path := filepath.Join(dir, "rules.yaml")
	doc := `rules:
  - id: from-file
    pattern: "x"
    severity: medium
`
	require.NoError(t, os.WriteFile(path, []byte(doc), 0o644))

	cfg := DefaultConfig()
	cfg.CustomRules = []rules.CustomRule{{ID: "inline", Pattern: "y", Severity: "low"}}
	cfg.RulesFile = path

	compiled, err := cfg.CompileRules()
	require.NoError(t, err)
	require.Len(t, compiled, 2)
	assert.Equal(t, "inline", compiled[0].ID)
	assert.Equal(t, "from-file", compiled[1].ID)
}

func TestCompileRules_BadPatternFails(t *testing.T) {
	cfg := DefaultConfig()
	cfg.CustomRules = []rules.CustomRule{{ID: "bad", Pattern: "(", Severity: "low"}}
	_, err := cfg.CompileRules()
	assert.Error(t, err)
}

func TestWriteDefault(t *testing.T) {
	dir := t.TempDir()
	path, err := WriteDefault(dir)
	require.NoError(t, err)
	assert.Equal(t, filepath.Join(dir, ".llmscan.yaml"), path)

	// the generated file must load cleanly
	cfg, err := Load(path)
	require.NoError(t, err)
	assert.Equal(t, "gpt-4o", cfg.CostModel)

	// refuses to clobber
	_, err = WriteDefault(dir)
	assert.Error(t, err)
}
