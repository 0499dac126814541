// Package cost estimates token counts and USD spend for the literal prompt
// content found at matched call sites, and enforces the scan budget.
package cost

import (
	"github.com/hashicorp/go-hclog"
	"github.com/pkoukk/tiktoken-go"

	"github.com/jenian/llmscan/internal/matcher"
)

// TokenCost is the estimate for one context's literal content.
type TokenCost struct {
	Tokens int
	USD    float64
	// Uncertain is set when the model was priced at the default rate or
	// tokenized with a fallback encoding.
	Uncertain bool
}

// Estimator tokenizes literal string arguments with the tokenizer bound to
// a model id. Construction never fails: an unavailable tokenizer degrades
// to an approximate byte-length heuristic with the estimate flagged
// uncertain, because a missing encoding must not fail the scan.
type Estimator struct {
	model       string
	enc         *tiktoken.Tiktoken
	rate        float64
	modelKnown  bool
	encFallback bool
}

// NewEstimator binds an estimator to a model id.
func NewEstimator(modelID string, logger hclog.Logger) *Estimator {
	if logger == nil {
		logger = hclog.NewNullLogger()
	}

	rate, known := priceFor(modelID)
	e := &Estimator{model: modelID, rate: rate, modelKnown: known}

	enc, err := tiktoken.EncodingForModel(modelID)
	if err != nil {
		logger.Warn("no tokenizer for model, falling back", "model", modelID, "error", err)
		e.encFallback = true
		enc, err = tiktoken.GetEncoding("cl100k_base")
		if err != nil {
			logger.Warn("default tokenizer unavailable, using approximate token counts", "error", err)
			enc = nil
		}
	}
	e.enc = enc

	return e
}

// newApproximateEstimator is the degraded path, reachable directly in tests.
func newApproximateEstimator(modelID string) *Estimator {
	rate, known := priceFor(modelID)
	return &Estimator{model: modelID, rate: rate, modelKnown: known, encFallback: true}
}

// CountTokens tokenizes one string. Without an encoding it approximates at
// four bytes per token, the usual rule of thumb for BPE vocabularies.
func (e *Estimator) CountTokens(text string) int {
	if text == "" {
		return 0
	}
	if e.enc != nil {
		return len(e.enc.Encode(text, nil, nil))
	}
	n := (len(text) + 3) / 4
	if n < 1 {
		n = 1
	}
	return n
}

// Estimate prices the literal string arguments of one match context as a
// single request's prompt content. A literal model argument at the call site
// overrides the configured model's rate.
func (e *Estimator) Estimate(ctx matcher.Context) TokenCost {
	tokens := 0
	for _, arg := range ctx.LiteralArgs {
		tokens += e.CountTokens(arg)
	}

	rate, known := e.rate, e.modelKnown
	if ctx.Match != nil && ctx.Match.Model != "" {
		rate, known = priceFor(ctx.Match.Model)
	}

	return TokenCost{
		Tokens:    tokens,
		USD:       float64(tokens) / 1000.0 * rate,
		Uncertain: !known || e.encFallback,
	}
}
