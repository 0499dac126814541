package report

import (
	"bytes"
	"strings"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/llmscan/internal/cost"
	"github.com/jenian/llmscan/internal/matcher"
	"github.com/jenian/llmscan/internal/rules"
)

func TestRenderAudit_WorstSeverityFirst(t *testing.T) {
	findings := []rules.Finding{
		{File: "a.py", Span: span(1), RuleID: "r-low", Severity: rules.SeverityLow,
			Message: "minor thing", Category: rules.CategorySensitiveInfo},
		{File: "b.py", Span: span(2), RuleID: "r-crit", Severity: rules.SeverityCritical,
			Message: "major thing", Category: rules.CategorySensitiveInfo},
	}
	_, audit := Build(testMeta(), nil, findings, nil, cost.Snapshot{})
	// serialized order is by file, so the low finding comes first there
	require.Equal(t, "r-low", audit.Findings[0].RuleID)

	var buf bytes.Buffer
	RenderAudit(&buf, audit)
	out := buf.String()

	crit := strings.Index(out, "major thing")
	low := strings.Index(out, "minor thing")
	require.GreaterOrEqual(t, crit, 0)
	require.GreaterOrEqual(t, low, 0)
	assert.Less(t, crit, low)
	assert.Contains(t, out, "1. major thing")

	// rendering must not reorder the report itself
	assert.Equal(t, "r-low", audit.Findings[0].RuleID)
}

func TestRenderAudit_NoFindings(t *testing.T) {
	_, audit := Build(testMeta(), nil, nil, nil, cost.Snapshot{TokensUsed: 12, RequestsMade: 3})
	require.False(t, audit.HasBlockingFindings())

	var buf bytes.Buffer
	RenderAudit(&buf, audit)
	out := buf.String()

	assert.Contains(t, out, "No security issues found.")
	assert.Contains(t, out, "Tokens: 12  Requests: 3")
	assert.Contains(t, out, "keep the pattern catalog and rules up to date")
	assert.NotContains(t, out, "BUDGET EXCEEDED")
}

func TestRenderAudit_BudgetExceeded(t *testing.T) {
	_, audit := Build(testMeta(), nil, nil, nil, cost.Snapshot{USDExceeded: true, Uncertain: true})

	var buf bytes.Buffer
	RenderAudit(&buf, audit)
	out := buf.String()

	assert.Contains(t, out, "BUDGET EXCEEDED")
	assert.Contains(t, out, "estimate uncertain")
}

func TestRenderInventory(t *testing.T) {
	matches := []matcher.Match{
		{File: "app.py", Span: span(5), Wrapper: "openai_api", Text: "openai.chat.completions.create", Model: "gpt-4"},
	}
	notes := []SkipNote{{File: "weird.py", Reason: "malformed source"}}
	inv, _ := Build(testMeta(), matches, nil, notes, cost.Snapshot{})

	var buf bytes.Buffer
	RenderInventory(&buf, inv)
	out := buf.String()

	assert.Contains(t, out, "AI/LLM usages found: 1")
	assert.Contains(t, out, "openai_api - 1")
	assert.Contains(t, out, "gpt-4 - 1")
	assert.Contains(t, out, "app.py:5:1  openai_api(openai.chat.completions.create)")
	assert.Contains(t, out, "weird.py (malformed source)")
}
