package rules

import (
	"fmt"
	"os"
	"regexp"
	"strings"

	"gopkg.in/yaml.v3"

	"github.com/jenian/llmscan/internal/matcher"
)

// CustomRule is a user-supplied rule definition. The pattern is a regular
// expression evaluated against the matched call text, its literal arguments,
// and the surrounding statement window.
type CustomRule struct {
	ID          string   `yaml:"id" mapstructure:"id"`
	Wrappers    []string `yaml:"wrappers" mapstructure:"wrappers"`
	Pattern     string   `yaml:"pattern" mapstructure:"pattern"`
	Severity    string   `yaml:"severity" mapstructure:"severity"`
	Category    string   `yaml:"category" mapstructure:"category"`
	Message     string   `yaml:"message" mapstructure:"message"`
	Remediation string   `yaml:"remediation" mapstructure:"remediation"`
}

// Compile turns custom definitions into engine rules. Any invalid
// definition is a configuration error: the scan must not start with a rule
// set that differs from what the user asked for.
func Compile(defs []CustomRule) ([]Rule, error) {
	var out []Rule
	for _, def := range defs {
		rule, err := compileOne(def)
		if err != nil {
			return nil, fmt.Errorf("custom rule %q: %w", def.ID, err)
		}
		out = append(out, rule)
	}
	return out, nil
}

func compileOne(def CustomRule) (Rule, error) {
	if def.ID == "" {
		return Rule{}, fmt.Errorf("missing id")
	}
	if def.Pattern == "" {
		return Rule{}, fmt.Errorf("missing pattern")
	}
	re, err := regexp.Compile(def.Pattern)
	if err != nil {
		return Rule{}, fmt.Errorf("invalid pattern: %w", err)
	}

	severity, err := ParseSeverity(strings.ToLower(def.Severity))
	if err != nil {
		return Rule{}, err
	}

	category := CategorySensitiveInfo
	if def.Category != "" {
		category, err = ParseCategory(def.Category)
		if err != nil {
			return Rule{}, err
		}
	}

	message := def.Message
	if message == "" {
		message = "Custom rule " + def.ID + " matched"
	}

	return Rule{
		ID:          def.ID,
		Wrappers:    def.Wrappers,
		Severity:    severity,
		Category:    category,
		Message:     message,
		Remediation: def.Remediation,
		predicate: func(ctx matcher.Context) bool {
			scope := ctx.Match.Text + "\n" +
				strings.Join(ctx.LiteralArgs, "\n") + "\n" +
				ctx.Window
			return re.MatchString(scope)
		},
	}, nil
}

// LoadCustomRules reads a standalone YAML rules file of the form:
//
//	rules:
//	  - id: no-raw-prompts
//	    pattern: 'f".*{.*}"'
//	    severity: medium
//	    category: prompt-injection
//	    message: Interpolated prompt string
func LoadCustomRules(path string) ([]Rule, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read rules file: %w", err)
	}

	var doc struct {
		Rules []CustomRule `yaml:"rules"`
	}
	if err := yaml.Unmarshal(data, &doc); err != nil {
		return nil, fmt.Errorf("failed to parse rules file: %w", err)
	}

	return Compile(doc.Rules)
}
