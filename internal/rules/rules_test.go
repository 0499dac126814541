package rules

import (
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/jenian/llmscan/internal/matcher"
)

func chatContext(mutate func(*matcher.Context)) matcher.Context {
	ctx := matcher.Context{
		Match: &matcher.Match{
			File:    "app.py",
			Span:    matcher.Span{StartLine: 10, StartCol: 1, EndLine: 10, EndCol: 40},
			Wrapper: "openai_api",
			Text:    "openai.chat.completions.create",
		},
		HasValidation: true,
	}
	if mutate != nil {
		mutate(&ctx)
	}
	return ctx
}

func findByRule(findings []Finding, id string) *Finding {
	for i := range findings {
		if findings[i].RuleID == id {
			return &findings[i]
		}
	}
	return nil
}

func TestEvaluate_MissingInputValidation(t *testing.T) {
	e := NewEngine(nil)

	findings := e.Evaluate(chatContext(func(c *matcher.Context) {
		c.HasValidation = false
	}))
	f := findByRule(findings, "missing-input-validation")
	require.NotNil(t, f)
	assert.Equal(t, SeverityMedium, f.Severity)
	assert.Equal(t, CategoryPromptInjection, f.Category)
	assert.Contains(t, f.Message, "openai_api")

	findings = e.Evaluate(chatContext(nil))
	assert.Nil(t, findByRule(findings, "missing-input-validation"))
}

func TestEvaluate_HardcodedAPIKey(t *testing.T) {
	e := NewEngine(nil)

	findings := e.Evaluate(chatContext(func(c *matcher.Context) {
		c.HasSecretLiteral = true
	}))
	f := findByRule(findings, "hardcoded-api-key")
	require.NotNil(t, f)
	assert.Equal(t, SeverityHigh, f.Severity)
	assert.Equal(t, CategorySensitiveInfo, f.Category)
}

func TestEvaluate_UnsafeOutputSink(t *testing.T) {
	e := NewEngine(nil)

	findings := e.Evaluate(chatContext(func(c *matcher.Context) {
		c.Window = "result = resp.choices[0].text\neval(result)"
	}))
	f := findByRule(findings, "unsafe-output-sink")
	require.NotNil(t, f)
	assert.Equal(t, CategoryInsecureOutput, f.Category)
}

func TestEvaluate_UnrestrictedExpensiveModel(t *testing.T) {
	e := NewEngine(nil)

	findings := e.Evaluate(chatContext(func(c *matcher.Context) {
		c.Match.Model = "gpt-4"
	}))
	f := findByRule(findings, "unrestricted-expensive-model")
	require.NotNil(t, f)
	assert.Contains(t, f.Message, "gpt-4")

	// a throttle mention in the window suppresses the finding
	findings = e.Evaluate(chatContext(func(c *matcher.Context) {
		c.Match.Model = "gpt-4"
		c.Window = "limiter = RateLimit(10)"
	}))
	assert.Nil(t, findByRule(findings, "unrestricted-expensive-model"))

	// cheap models are not flagged
	findings = e.Evaluate(chatContext(func(c *matcher.Context) {
		c.Match.Model = "gpt-3.5-turbo"
	}))
	assert.Nil(t, findByRule(findings, "unrestricted-expensive-model"))
}

func TestEvaluate_UnpinnedModelArtifact(t *testing.T) {
	e := NewEngine(nil)

	ctx := matcher.Context{
		Match: &matcher.Match{
			File:    "model.py",
			Wrapper: "huggingface",
			Text:    "AutoModel.from_pretrained",
		},
		LiteralArgs:   []string{"bert-base-uncased"},
		HasValidation: true,
	}
	findings := e.Evaluate(ctx)
	require.NotNil(t, findByRule(findings, "unpinned-model-artifact"))

	ctx.Window = `revision="a1b2c3"`
	findings = e.Evaluate(ctx)
	assert.Nil(t, findByRule(findings, "unpinned-model-artifact"))
}

func TestEvaluate_AgentWithoutOversight(t *testing.T) {
	e := NewEngine(nil)

	ctx := matcher.Context{
		Match: &matcher.Match{
			File:    "crew.py",
			Wrapper: "crewai",
			Text:    "crewai.Agent",
		},
		HasValidation: true,
	}
	findings := e.Evaluate(ctx)
	f := findByRule(findings, "agent-without-oversight")
	require.NotNil(t, f)
	assert.Equal(t, SeverityLow, f.Severity)
	assert.Equal(t, CategoryExcessiveAgency, f.Category)

	ctx.Window = "crew = Crew(human_input=True)"
	findings = e.Evaluate(ctx)
	assert.Nil(t, findByRule(findings, "agent-without-oversight"))
}

func TestEvaluate_WrapperScoping(t *testing.T) {
	e := NewEngine(nil)

	// chat rules must not fire on a model-loader match
	ctx := matcher.Context{
		Match: &matcher.Match{File: "m.py", Wrapper: "model_loader", Text: "load_model"},
	}
	findings := e.Evaluate(ctx)
	assert.Nil(t, findByRule(findings, "missing-input-validation"))
	assert.Nil(t, findByRule(findings, "unsafe-output-sink"))
}

func TestNewEngine_CustomOverrideKeepsPosition(t *testing.T) {
	override := Rule{
		ID:       "missing-input-validation",
		Severity: SeverityCritical,
		Category: CategoryPromptInjection,
		Message:  "custom",
		predicate: func(matcher.Context) bool {
			return true
		},
	}
	extra := Rule{
		ID:       "team-rule",
		Severity: SeverityLow,
		Category: CategoryOverreliance,
		Message:  "extra",
	}

	e := NewEngine([]Rule{override, extra})
	merged := e.Rules()

	var overrideIdx, builtinIdx int
	for i, r := range merged {
		switch r.ID {
		case "missing-input-validation":
			overrideIdx = i
			assert.Equal(t, SeverityCritical, r.Severity)
		case "hardcoded-api-key":
			builtinIdx = i
		}
	}
	assert.Greater(t, overrideIdx, builtinIdx)
	assert.Equal(t, "team-rule", merged[len(merged)-1].ID)
	assert.Len(t, merged, len(builtin)+1)
}

func TestFindingIdentity(t *testing.T) {
	f := Finding{
		File:   "a.py",
		Span:   matcher.Span{StartLine: 3, StartCol: 5, EndLine: 3, EndCol: 20},
		RuleID: "hardcoded-secret",
	}
	assert.Equal(t, "a.py|3:5-3:20|hardcoded-secret", f.Identity())
}

func TestRenderPlaceholders(t *testing.T) {
	ctx := chatContext(func(c *matcher.Context) {
		c.Match.Model = "gpt-4"
		c.EnclosingFunc = "ask"
	})
	got := render("{wrapper} {model} {function} {file}", ctx)
	assert.Equal(t, "openai_api gpt-4 ask app.py", got)
}
