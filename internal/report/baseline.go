package report

import (
	"encoding/json"
	"fmt"
	"os"

	"github.com/jenian/llmscan/internal/rules"
)

// Baseline is the set of finding identities from a prior AuditReport, used
// to suppress previously accepted findings in CI.
type Baseline struct {
	identities map[string]bool
}

// LoadBaseline reads a prior AuditReport JSON document and collects its
// finding identities.
func LoadBaseline(path string) (*Baseline, error) {
	data, err := os.ReadFile(path)
	if err != nil {
		return nil, fmt.Errorf("failed to read baseline: %w", err)
	}

	var prior AuditReport
	if err := json.Unmarshal(data, &prior); err != nil {
		return nil, fmt.Errorf("failed to parse baseline: %w", err)
	}

	b := &Baseline{identities: make(map[string]bool, len(prior.Findings))}
	for _, f := range prior.Findings {
		b.identities[f.Identity()] = true
	}
	return b, nil
}

// Diff returns only the findings whose stable identity (file, span, rule
// id) is absent from the baseline. Input order is preserved.
func (b *Baseline) Diff(findings []rules.Finding) []rules.Finding {
	if b == nil || len(b.identities) == 0 {
		return findings
	}
	var fresh []rules.Finding
	for _, f := range findings {
		if !b.identities[f.Identity()] {
			fresh = append(fresh, f)
		}
	}
	return fresh
}

// ApplyBaseline returns a copy of the audit with baselined findings
// removed and the summary and status recomputed from what remains. The
// budget snapshot is untouched: suppressed findings do not refund spend.
func ApplyBaseline(audit *AuditReport, b *Baseline) *AuditReport {
	fresh := b.Diff(audit.Findings)
	out := *audit
	out.Findings = fresh
	out.Summary = summarize(fresh)
	out.Status = statusOf(out.Summary, out.Budget)
	return &out
}

// SaveJSON writes any report document as indented JSON.
func SaveJSON(path string, doc any) error {
	data, err := json.MarshalIndent(doc, "", "  ")
	if err != nil {
		return err
	}
	return os.WriteFile(path, append(data, '\n'), 0o644)
}
