package rules

import "fmt"

// Severity of a finding.
type Severity string

const (
	SeverityLow      Severity = "low"
	SeverityMedium   Severity = "medium"
	SeverityHigh     Severity = "high"
	SeverityCritical Severity = "critical"
)

// Rank orders severities for sorting and threshold checks; higher is worse.
func (s Severity) Rank() int {
	switch s {
	case SeverityCritical:
		return 4
	case SeverityHigh:
		return 3
	case SeverityMedium:
		return 2
	case SeverityLow:
		return 1
	}
	return 0
}

// ParseSeverity validates a severity string from configuration.
func ParseSeverity(s string) (Severity, error) {
	switch Severity(s) {
	case SeverityLow, SeverityMedium, SeverityHigh, SeverityCritical:
		return Severity(s), nil
	}
	return "", fmt.Errorf("unknown severity %q", s)
}

// Category is one of the ten fixed taxonomy categories, after the OWASP LLM
// Top 10. Every shipped rule declares exactly one.
type Category string

const (
	CategoryPromptInjection      Category = "prompt-injection"
	CategoryInsecureOutput       Category = "insecure-output-handling"
	CategoryTrainingDataPoison   Category = "training-data-poisoning"
	CategoryModelDoS             Category = "model-denial-of-service"
	CategorySupplyChain          Category = "supply-chain"
	CategorySensitiveInfo        Category = "sensitive-information-disclosure"
	CategoryInsecurePluginDesign Category = "insecure-plugin-design"
	CategoryExcessiveAgency      Category = "excessive-agency"
	CategoryOverreliance         Category = "overreliance"
	CategoryModelTheft           Category = "model-theft"
)

// Categories lists the full taxonomy in canonical order.
var Categories = []Category{
	CategoryPromptInjection,
	CategoryInsecureOutput,
	CategoryTrainingDataPoison,
	CategoryModelDoS,
	CategorySupplyChain,
	CategorySensitiveInfo,
	CategoryInsecurePluginDesign,
	CategoryExcessiveAgency,
	CategoryOverreliance,
	CategoryModelTheft,
}

// ParseCategory validates a taxonomy tag from configuration.
func ParseCategory(s string) (Category, error) {
	for _, c := range Categories {
		if Category(s) == c {
			return c, nil
		}
	}
	return "", fmt.Errorf("unknown taxonomy category %q", s)
}
