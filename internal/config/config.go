package config

import (
	"fmt"
	"os"
	"path/filepath"

	"github.com/spf13/viper"

	"github.com/jenian/llmscan/internal/rules"
)

// Config holds all configuration for llmscan. Any validation failure here
// is fatal before scanning begins: budget limits and rules must be
// well-defined for results to mean anything.
type Config struct {
	// Budget limits. Negative means unlimited, zero is a hard zero.
	MaxTokens   int64   `mapstructure:"max_tokens"`
	MaxRequests int64   `mapstructure:"max_requests"`
	MaxUSD      float64 `mapstructure:"max_usd"`

	// CostModel selects the tokenizer and price row for estimates.
	CostModel string `mapstructure:"cost_model"`

	// EarlyAbort stops scheduling new files once the budget is exceeded.
	// Findings already computed are always kept either way.
	EarlyAbort bool `mapstructure:"early_abort"`

	// Scan options.
	ExcludeDirs   []string `mapstructure:"exclude_dirs"`
	ExcludeGlobs  []string `mapstructure:"exclude_globs"`
	IncludeGlobs  []string `mapstructure:"include_globs"`
	IncludeHidden bool     `mapstructure:"include_hidden"`
	MaxFileSizeMB int64    `mapstructure:"max_file_size_mb"`
	Workers       int      `mapstructure:"workers"`

	// CustomRules merge into the rule engine by id; a colliding id
	// overrides the built-in rule.
	CustomRules []rules.CustomRule `mapstructure:"custom_rules"`

	// RulesFile optionally names a standalone YAML rules file, merged
	// after the inline custom rules.
	RulesFile string `mapstructure:"rules_file"`

	Verbose bool `mapstructure:"verbose"`
}

// DefaultConfig returns configuration with default values
func DefaultConfig() *Config {
	return &Config{
		MaxTokens:     50000,
		MaxRequests:   100,
		MaxUSD:        20.0,
		CostModel:     "gpt-4o",
		MaxFileSizeMB: 10,
		Workers:       0, // 0 means GOMAXPROCS
	}
}

// Load loads configuration with the following precedence (lowest to highest):
// 1. Default values
// 2. Config file (.llmscan.yaml in the scan root, cwd, or home)
// 3. Environment variables (LLMSCAN_*)
// CLI flags are applied afterwards by the caller.
func Load(configPath string) (*Config, error) {
	v := viper.New()

	defaults := DefaultConfig()
	v.SetDefault("max_tokens", defaults.MaxTokens)
	v.SetDefault("max_requests", defaults.MaxRequests)
	v.SetDefault("max_usd", defaults.MaxUSD)
	v.SetDefault("cost_model", defaults.CostModel)
	v.SetDefault("early_abort", false)
	v.SetDefault("include_hidden", false)
	v.SetDefault("max_file_size_mb", defaults.MaxFileSizeMB)
	v.SetDefault("workers", defaults.Workers)

	v.SetConfigName(".llmscan")
	v.SetConfigType("yaml")

	if configPath != "" {
		v.SetConfigFile(configPath)
	} else {
		v.AddConfigPath(".")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(home)
		}
		if xdgConfig := os.Getenv("XDG_CONFIG_HOME"); xdgConfig != "" {
			v.AddConfigPath(filepath.Join(xdgConfig, "llmscan"))
		}
	}

	v.SetEnvPrefix("LLMSCAN")
	v.AutomaticEnv()

	if err := v.ReadInConfig(); err != nil {
		if _, ok := err.(viper.ConfigFileNotFoundError); !ok {
			// An explicitly named file must exist; viper wraps that case
			// differently, so also tolerate a missing default search.
			if configPath != "" || !os.IsNotExist(err) {
				return nil, fmt.Errorf("failed to read config file: %w", err)
			}
		}
	}

	cfg := &Config{}
	if err := v.Unmarshal(cfg); err != nil {
		return nil, fmt.Errorf("failed to unmarshal config: %w", err)
	}

	if err := cfg.Validate(); err != nil {
		return nil, fmt.Errorf("invalid config: %w", err)
	}

	return cfg, nil
}

// Validate rejects configurations the scan cannot honor.
func (c *Config) Validate() error {
	if c.CostModel == "" {
		return fmt.Errorf("cost_model must not be empty")
	}
	if c.Workers < 0 {
		return fmt.Errorf("workers must not be negative")
	}
	if c.MaxFileSizeMB <= 0 {
		return fmt.Errorf("max_file_size_mb must be positive")
	}
	for _, r := range c.CustomRules {
		if r.ID == "" {
			return fmt.Errorf("custom rule without id")
		}
	}
	return nil
}

// CompileRules resolves the configured custom rules (inline plus rules
// file) into engine rules. Errors are configuration errors and abort the
// run before any scanning.
func (c *Config) CompileRules() ([]rules.Rule, error) {
	compiled, err := rules.Compile(c.CustomRules)
	if err != nil {
		return nil, err
	}
	if c.RulesFile != "" {
		fromFile, err := rules.LoadCustomRules(c.RulesFile)
		if err != nil {
			return nil, err
		}
		compiled = append(compiled, fromFile...)
	}
	return compiled, nil
}

// DefaultConfigYAML is the commented starter file written by init-config.
const DefaultConfigYAML = `# .llmscan.yaml
# Configuration for llmscan.

# Budget for any model-assisted analysis. Negative means unlimited,
# zero is a hard zero.
max_tokens: 50000
max_requests: 100
max_usd: 20.0

# Model used for token counting and price estimates.
cost_model: gpt-4o

# Stop scheduling new files once the budget is exceeded. Findings already
# computed are kept either way.
early_abort: false

# Scan options.
include_hidden: false
max_file_size_mb: 10
# workers: 0 means one per CPU
workers: 0
# exclude_dirs:
#   - generated
# exclude_globs:
#   - "*_test.go"

# Custom audit rules, merged by id (a colliding id overrides the built-in).
# custom_rules:
#   - id: no-interpolated-prompts
#     pattern: 'f".*\{.*\}"'
#     severity: medium
#     category: prompt-injection
#     message: Interpolated prompt string
`

// WriteDefault creates a starter .llmscan.yaml in dir, refusing to
// overwrite an existing one.
func WriteDefault(dir string) (string, error) {
	path := filepath.Join(dir, ".llmscan.yaml")
	if _, err := os.Stat(path); err == nil {
		return "", fmt.Errorf("%s already exists", path)
	}
	if err := os.WriteFile(path, []byte(DefaultConfigYAML), 0o644); err != nil {
		return "", fmt.Errorf("failed to write %s: %w", path, err)
	}
	return path, nil
}
