package cost

import "sync"

// Limits are the three independent budget caps. A negative limit means
// unlimited; zero is a hard zero (any positive usage exceeds it).
type Limits struct {
	MaxTokens   int64
	MaxRequests int64
	MaxUSD      float64
}

// Snapshot is a read-only view of the ledger, taken under the same lock
// that guards accumulation so totals and exceeded flags are consistent.
type Snapshot struct {
	TokensUsed       int64   `json:"tokens_used"`
	RequestsMade     int64   `json:"requests_made"`
	USDEstimated     float64 `json:"usd_estimated"`
	TokensExceeded   bool    `json:"tokens_exceeded"`
	RequestsExceeded bool    `json:"requests_exceeded"`
	USDExceeded      bool    `json:"usd_exceeded"`
	// Uncertain is set when any contributing estimate used fallback
	// pricing or tokenization.
	Uncertain bool `json:"estimate_uncertain"`
}

// Exceeded reports whether any of the three limits has been exceeded.
func (s Snapshot) Exceeded() bool {
	return s.TokensExceeded || s.RequestsExceeded || s.USDExceeded
}

// Ledger is the scan-wide accumulator of tokens, requests, and estimated
// spend. One instance per scan; files accumulate concurrently, so every
// update is a single add-and-check under one mutex. Addition is
// commutative, so file completion order cannot change the final totals.
type Ledger struct {
	mu        sync.Mutex
	limits    Limits
	tokens    int64
	requests  int64
	usd       float64
	uncertain bool
}

// NewLedger creates a zeroed ledger with the given limits.
func NewLedger(limits Limits) *Ledger {
	return &Ledger{limits: limits}
}

// Add accumulates one file's total cost atomically and reports whether any
// limit is now exceeded. A file's contribution is applied wholly or not at
// all; callers that abandon a file simply never call Add for it.
func (l *Ledger) Add(tokens, requests int64, usd float64, uncertain bool) bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	l.tokens += tokens
	l.requests += requests
	l.usd += usd
	if uncertain {
		l.uncertain = true
	}
	return l.exceededLocked()
}

func (l *Ledger) exceededLocked() bool {
	return (l.limits.MaxTokens >= 0 && l.tokens > l.limits.MaxTokens) ||
		(l.limits.MaxRequests >= 0 && l.requests > l.limits.MaxRequests) ||
		(l.limits.MaxUSD >= 0 && l.usd > l.limits.MaxUSD)
}

// Exceeded reports whether any limit is currently exceeded.
func (l *Ledger) Exceeded() bool {
	l.mu.Lock()
	defer l.mu.Unlock()
	return l.exceededLocked()
}

// Snapshot finalizes the ledger into a read-only view.
func (l *Ledger) Snapshot() Snapshot {
	l.mu.Lock()
	defer l.mu.Unlock()
	return Snapshot{
		TokensUsed:       l.tokens,
		RequestsMade:     l.requests,
		USDEstimated:     l.usd,
		TokensExceeded:   l.limits.MaxTokens >= 0 && l.tokens > l.limits.MaxTokens,
		RequestsExceeded: l.limits.MaxRequests >= 0 && l.requests > l.limits.MaxRequests,
		USDExceeded:      l.limits.MaxUSD >= 0 && l.usd > l.limits.MaxUSD,
		Uncertain:        l.uncertain,
	}
}
