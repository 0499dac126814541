package cost

import (
	"math/rand"
	"sync"
	"testing"

	"github.com/stretchr/testify/assert"
)

func TestLedger_Accumulates(t *testing.T) {
	l := NewLedger(Limits{MaxTokens: 100, MaxRequests: 10, MaxUSD: 1.0})

	assert.False(t, l.Add(40, 2, 0.10, false))
	assert.False(t, l.Add(60, 3, 0.20, true))

	s := l.Snapshot()
	assert.Equal(t, int64(100), s.TokensUsed)
	assert.Equal(t, int64(5), s.RequestsMade)
	assert.InDelta(t, 0.30, s.USDEstimated, 1e-9)
	assert.True(t, s.Uncertain)
	assert.False(t, s.Exceeded())
}

func TestLedger_ExceededOnCross(t *testing.T) {
	l := NewLedger(Limits{MaxTokens: 100, MaxRequests: -1, MaxUSD: -1})

	assert.False(t, l.Add(100, 1, 0, false))
	assert.True(t, l.Add(1, 1, 0, false))
	assert.True(t, l.Exceeded())

	s := l.Snapshot()
	assert.True(t, s.TokensExceeded)
	assert.False(t, s.RequestsExceeded)
	assert.False(t, s.USDExceeded)
}

func TestLedger_NegativeMeansUnlimited(t *testing.T) {
	l := NewLedger(Limits{MaxTokens: -1, MaxRequests: -1, MaxUSD: -1})
	assert.False(t, l.Add(1<<40, 1<<20, 1e9, false))
	assert.False(t, l.Exceeded())
}

func TestLedger_ZeroIsHardZero(t *testing.T) {
	l := NewLedger(Limits{MaxTokens: -1, MaxRequests: -1, MaxUSD: 0})
	assert.True(t, l.Add(10, 1, 0.0001, false))

	s := l.Snapshot()
	assert.True(t, s.USDExceeded)
	assert.False(t, s.TokensExceeded)
}

func TestLedger_ZeroUsageWithinZeroLimit(t *testing.T) {
	l := NewLedger(Limits{MaxTokens: 0, MaxRequests: 0, MaxUSD: 0})
	assert.False(t, l.Add(0, 0, 0, false))
	assert.False(t, l.Exceeded())
}

// Totals must not depend on the order workers happen to finish in.
func TestLedger_CommutativeUnderConcurrency(t *testing.T) {
	contributions := make([][3]int64, 200)
	r := rand.New(rand.NewSource(42))
	var wantTokens, wantRequests int64
	for i := range contributions {
		contributions[i] = [3]int64{r.Int63n(50), 1, r.Int63n(3)}
		wantTokens += contributions[i][0]
		wantRequests += contributions[i][1]
	}

	l := NewLedger(Limits{MaxTokens: -1, MaxRequests: -1, MaxUSD: -1})
	var wg sync.WaitGroup
	for _, c := range contributions {
		c := c
		wg.Add(1)
		go func() {
			defer wg.Done()
			l.Add(c[0], c[1], float64(c[2]), false)
		}()
	}
	wg.Wait()

	s := l.Snapshot()
	assert.Equal(t, wantTokens, s.TokensUsed)
	assert.Equal(t, wantRequests, s.RequestsMade)
}
