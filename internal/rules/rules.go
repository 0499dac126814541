// Package rules evaluates audit rules against matched AI call sites and
// whole files, producing security findings.
package rules

import (
	"strings"

	"github.com/jenian/llmscan/internal/matcher"
)

// Rule is one immutable audit rule. Rules are pure predicates over a match
// context; they share no state and each yields at most one finding per
// (Match, Context) pair.
type Rule struct {
	ID string
	// Wrappers restricts a rule to specific wrapper identities; empty
	// means any.
	Wrappers    []string
	Severity    Severity
	Category    Category
	Message     string
	Remediation string

	predicate func(matcher.Context) bool
}

func (r Rule) appliesTo(wrapper string) bool {
	if len(r.Wrappers) == 0 {
		return true
	}
	for _, w := range r.Wrappers {
		if w == wrapper {
			return true
		}
	}
	return false
}

// Finding is one security-relevant observation. Stable identity for
// baseline diffing is (File, Span, RuleID).
type Finding struct {
	File        string       `json:"file"`
	Span        matcher.Span `json:"span"`
	RuleID      string       `json:"rule_id"`
	Severity    Severity     `json:"severity"`
	Category    Category     `json:"category"`
	Message     string       `json:"message"`
	Remediation string       `json:"remediation"`
}

// Identity returns the stable identity string used for baseline diffs.
func (f Finding) Identity() string {
	return f.File + "|" + f.Span.String() + "|" + f.RuleID
}

// chatWrappers are the identities whose calls carry user-facing prompt
// content.
var chatWrappers = []string{"openai_api", "anthropic_api", "langchain"}

var agentWrappers = []string{"autogen", "crewai"}

var modelSourceWrappers = []string{"huggingface", "model_loader"}

// sinkNames mark output being fed somewhere dangerous within the window.
var sinkNames = []string{"eval(", "exec(", "os.system", "subprocess", "dangerouslysetinnerhtml", "innerhtml"}

var expensiveModels = []string{"gpt-4", "claude", "o1", "o3"}

var throttleNames = []string{"limit", "quota", "rate", "throttle"}

// builtin is the shipped rule table, in catalog order. Evaluation order
// only governs the order findings are emitted.
var builtin = []Rule{
	{
		ID:          "hardcoded-api-key",
		Severity:    SeverityHigh,
		Category:    CategorySensitiveInfo,
		Message:     "Potential hardcoded API key near {wrapper} call",
		Remediation: "Move the key to an environment variable or a secrets manager",
		predicate: func(ctx matcher.Context) bool {
			return ctx.HasSecretLiteral
		},
	},
	{
		ID:          "missing-input-validation",
		Wrappers:    chatWrappers,
		Severity:    SeverityMedium,
		Category:    CategoryPromptInjection,
		Message:     "{wrapper} call without apparent input validation",
		Remediation: "Validate and sanitize user input before it reaches the model",
		predicate: func(ctx matcher.Context) bool {
			return !ctx.HasValidation
		},
	},
	{
		ID:          "unsafe-output-sink",
		Wrappers:    chatWrappers,
		Severity:    SeverityHigh,
		Category:    CategoryInsecureOutput,
		Message:     "Model output flows near a code-execution or HTML sink",
		Remediation: "Treat model output as untrusted: never eval/exec it or inject it into markup unescaped",
		predicate: func(ctx matcher.Context) bool {
			window := strings.ToLower(ctx.Window)
			for _, sink := range sinkNames {
				if strings.Contains(window, sink) {
					return true
				}
			}
			return false
		},
	},
	{
		ID:          "unrestricted-expensive-model",
		Severity:    SeverityMedium,
		Category:    CategoryModelDoS,
		Message:     "Expensive model {model} used without visible rate limiting",
		Remediation: "Apply rate limits or usage quotas around high-cost model calls",
		predicate: func(ctx matcher.Context) bool {
			if ctx.Match.Model == "" {
				return false
			}
			expensive := false
			for _, m := range expensiveModels {
				if strings.Contains(ctx.Match.Model, m) {
					expensive = true
					break
				}
			}
			if !expensive {
				return false
			}
			window := strings.ToLower(ctx.Window)
			for _, t := range throttleNames {
				if strings.Contains(window, t) {
					return false
				}
			}
			return true
		},
	},
	{
		ID:          "unpinned-model-artifact",
		Wrappers:    modelSourceWrappers,
		Severity:    SeverityMedium,
		Category:    CategorySupplyChain,
		Message:     "Model artifact loaded without a pinned revision",
		Remediation: "Pin the model revision (commit hash or digest) when loading third-party weights",
		predicate: func(ctx matcher.Context) bool {
			if len(ctx.LiteralArgs) == 0 {
				return false
			}
			text := strings.ToLower(strings.Join(ctx.LiteralArgs, " ") + " " + ctx.Window)
			return !strings.Contains(text, "revision") && !strings.Contains(text, "sha256")
		},
	},
	{
		ID:          "agent-without-oversight",
		Wrappers:    agentWrappers,
		Severity:    SeverityLow,
		Category:    CategoryExcessiveAgency,
		Message:     "Autonomous agent constructed without visible human oversight",
		Remediation: "Gate agent actions behind approval steps or restrict the agent's tool surface",
		predicate: func(ctx matcher.Context) bool {
			window := strings.ToLower(ctx.Window + " " + ctx.Match.Text)
			return !strings.Contains(window, "human") && !strings.Contains(window, "approv")
		},
	},
}

// Engine evaluates an immutable, ordered rule set. Built once at startup
// from the shipped table plus any custom rules, then shared read-only by
// every per-file pipeline.
type Engine struct {
	rules []Rule
}

// NewEngine merges custom rules into the built-in table. A custom rule
// whose id collides with a built-in replaces it in place, keeping the
// built-in's position so emission order stays stable; new ids append in
// their given order.
func NewEngine(custom []Rule) *Engine {
	merged := make([]Rule, len(builtin))
	copy(merged, builtin)

	index := make(map[string]int, len(merged))
	for i, r := range merged {
		index[r.ID] = i
	}

	for _, c := range custom {
		if i, ok := index[c.ID]; ok {
			merged[i] = c
		} else {
			index[c.ID] = len(merged)
			merged = append(merged, c)
		}
	}

	return &Engine{rules: merged}
}

// Rules returns the merged rule set in evaluation order.
func (e *Engine) Rules() []Rule {
	return e.rules
}

// Evaluate runs every applicable rule against one (Match, Context) pair.
// Rules are independent; a single call site may yield several findings.
func (e *Engine) Evaluate(ctx matcher.Context) []Finding {
	var findings []Finding
	for _, r := range e.rules {
		if !r.appliesTo(ctx.Match.Wrapper) {
			continue
		}
		if r.predicate == nil || !r.predicate(ctx) {
			continue
		}
		findings = append(findings, Finding{
			File:        ctx.Match.File,
			Span:        ctx.Match.Span,
			RuleID:      r.ID,
			Severity:    r.Severity,
			Category:    r.Category,
			Message:     render(r.Message, ctx),
			Remediation: render(r.Remediation, ctx),
		})
	}
	return findings
}

// render substitutes the template placeholders a rule message may carry.
func render(template string, ctx matcher.Context) string {
	return strings.NewReplacer(
		"{wrapper}", ctx.Match.Wrapper,
		"{model}", ctx.Match.Model,
		"{function}", ctx.EnclosingFunc,
		"{file}", ctx.Match.File,
	).Replace(template)
}
