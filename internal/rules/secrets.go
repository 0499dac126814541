package rules

import (
	"regexp"
	"strings"

	"github.com/jenian/llmscan/internal/matcher"
)

// File-level secret scanning is independent of any AI call: a repository
// can leak provider keys without ever invoking an SDK.

const secretRuleID = "hardcoded-secret"

var secretPatterns = []*regexp.Regexp{
	// provider-style bearer keys (sk-..., ghp_..., AKIA...)
	regexp.MustCompile(`["'](?:sk|rk)-[A-Za-z0-9_\-]{16,}["']`),
	regexp.MustCompile(`["']ghp_[A-Za-z0-9]{20,}["']`),
	regexp.MustCompile(`["']AKIA[0-9A-Z]{16}["']`),
	// key-named identifier assigned a long literal
	regexp.MustCompile(`(?i)(?:api[_-]?key|apikey|secret[_-]?key|auth[_-]?token|access[_-]?token)\s*[:=]\s*["'][A-Za-z0-9_\-]{16,}["']`),
}

// EvaluateFile scans raw file text for hardcoded secrets, one finding per
// offending line. Spans are line-anchored so identities stay stable for
// baseline diffs even when the column of the literal shifts.
func (e *Engine) EvaluateFile(file string, content []byte) []Finding {
	var findings []Finding

	lines := strings.Split(string(content), "\n")
	for i, line := range lines {
		loc := matchSecret(line)
		if loc == nil {
			continue
		}
		findings = append(findings, Finding{
			File: file,
			Span: matcher.Span{
				StartLine: i + 1,
				StartCol:  loc[0] + 1,
				EndLine:   i + 1,
				EndCol:    loc[1] + 1,
			},
			RuleID:      secretRuleID,
			Severity:    SeverityHigh,
			Category:    CategorySensitiveInfo,
			Message:     "Hardcoded secret literal",
			Remediation: "Remove the secret from source, rotate it, and load it from the environment or a secrets manager",
		})
	}

	return findings
}

// matchSecret returns the earliest secret match on a line, or nil. At most
// one finding per line avoids double-reporting a literal that matches both
// the provider-prefix and key-assignment shapes.
func matchSecret(line string) []int {
	var best []int
	for _, re := range secretPatterns {
		loc := re.FindStringIndex(line)
		if loc == nil {
			continue
		}
		if best == nil || loc[0] < best[0] {
			best = loc
		}
	}
	return best
}
