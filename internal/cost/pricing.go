package cost

// perThousandUSD maps model ids to USD per 1K input tokens. A static table:
// prices move, so unknown or stale entries fall back to a conservative
// default and the estimate is flagged uncertain.
var perThousandUSD = map[string]float64{
	"gpt-4o":          0.03,
	"gpt-4":           0.03,
	"gpt-4o-mini":     0.00015,
	"gpt-3.5-turbo":   0.0005,
	"claude-3-opus":   0.015,
	"claude-3-sonnet": 0.003,
	"claude-3-haiku":  0.00025,
}

// defaultPerThousandUSD is the conservative rate applied to unknown models.
const defaultPerThousandUSD = 0.002

// priceFor returns the per-1K-token rate for a model and whether the model
// was found in the table.
func priceFor(model string) (float64, bool) {
	if p, ok := perThousandUSD[model]; ok {
		return p, true
	}
	return defaultPerThousandUSD, false
}
