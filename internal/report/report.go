// Package report aggregates matches and findings into the scan's Inventory
// and AuditReport, and owns their stable serialized shapes.
package report

import (
	"sort"
	"time"

	"github.com/google/uuid"

	"github.com/jenian/llmscan/internal/catalog"
	"github.com/jenian/llmscan/internal/cost"
	"github.com/jenian/llmscan/internal/matcher"
	"github.com/jenian/llmscan/internal/rules"
)

// SchemaVersion identifies the JSON shape of Inventory and AuditReport.
// Consumers pin against this, so it only moves on breaking changes.
const SchemaVersion = "1"

// Status is the scan's terminal status.
type Status string

const (
	StatusOK             Status = "ok"
	StatusFindings       Status = "findings"
	StatusBudgetExceeded Status = "budget-exceeded"
)

// Exit codes the CLI maps terminal statuses to.
const (
	ExitOK             = 0
	ExitFindings       = 1
	ExitInternalError  = 2
	ExitBudgetExceeded = 137
)

// ExitCode maps a terminal status to its process exit code. Budget
// exhaustion wins over findings regardless of finding count.
func ExitCode(status Status) int {
	switch status {
	case StatusBudgetExceeded:
		return ExitBudgetExceeded
	case StatusFindings:
		return ExitFindings
	default:
		return ExitOK
	}
}

// SkipNote records one file the scan could not process and why. Skips are
// scan notes, never scan failures.
type SkipNote struct {
	File   string `json:"file"`
	Reason string `json:"reason"`
}

// Metadata describes one scan run.
type Metadata struct {
	SchemaVersion  string    `json:"schema_version"`
	ToolVersion    string    `json:"tool_version"`
	CatalogVersion string    `json:"catalog_version"`
	ScanID         string    `json:"scan_id"`
	GeneratedAt    time.Time `json:"generated_at"`
	DurationMS     int64     `json:"duration_ms"`
	FilesScanned   int       `json:"files_scanned"`
}

// NewMetadata stamps a fresh scan id and timestamps.
func NewMetadata(toolVersion string, filesScanned int, duration time.Duration) Metadata {
	return Metadata{
		SchemaVersion:  SchemaVersion,
		ToolVersion:    toolVersion,
		CatalogVersion: catalog.Version,
		ScanID:         uuid.NewString(),
		GeneratedAt:    time.Now().UTC(),
		DurationMS:     duration.Milliseconds(),
		FilesScanned:   filesScanned,
	}
}

// WrapperCount is one wrapper identity's usage count.
type WrapperCount struct {
	Wrapper string `json:"wrapper"`
	Count   int    `json:"count"`
}

// ModelCount is one model id's usage count across matched call sites.
type ModelCount struct {
	Model string `json:"model"`
	Count int    `json:"count"`
}

// Inventory is the usage summary: every match, grouped counts, and the
// files the scan had to skip. Immutable once built.
type Inventory struct {
	Metadata      Metadata        `json:"metadata"`
	Matches       []matcher.Match `json:"matches"`
	WrapperCounts []WrapperCount  `json:"wrapper_counts"`
	ModelCounts   []ModelCount    `json:"model_counts"`
	SkipNotes     []SkipNote      `json:"skip_notes"`
}

// SeveritySummary counts findings per severity.
type SeveritySummary struct {
	Total    int `json:"total"`
	Critical int `json:"critical"`
	High     int `json:"high"`
	Medium   int `json:"medium"`
	Low      int `json:"low"`
}

// AuditReport is the findings summary plus the finalized cost ledger and
// terminal status. Immutable once built.
type AuditReport struct {
	Metadata        Metadata        `json:"metadata"`
	Findings        []rules.Finding `json:"findings"`
	Summary         SeveritySummary `json:"summary"`
	Budget          cost.Snapshot   `json:"budget"`
	Status          Status          `json:"status"`
	Recommendations []string        `json:"recommendations"`
}

// HasBlockingFindings reports whether any finding exists; the CLI exit code
// treats findings of any severity as failure.
func (r *AuditReport) HasBlockingFindings() bool {
	return r.Summary.Total > 0
}

// Build assembles the Inventory and AuditReport from the completed match
// and finding sets. It is the scan's single serialization point: matches
// and findings are sorted by (file, span) so output is byte-identical
// regardless of worker count or completion order.
func Build(meta Metadata, matches []matcher.Match, findings []rules.Finding, notes []SkipNote, budget cost.Snapshot) (*Inventory, *AuditReport) {
	sort.SliceStable(matches, func(i, j int) bool {
		if matches[i].File != matches[j].File {
			return matches[i].File < matches[j].File
		}
		if matches[i].Span != matches[j].Span {
			return matches[i].Span.Less(matches[j].Span)
		}
		return matches[i].Wrapper < matches[j].Wrapper
	})
	sort.SliceStable(findings, func(i, j int) bool {
		if findings[i].File != findings[j].File {
			return findings[i].File < findings[j].File
		}
		if findings[i].Span != findings[j].Span {
			return findings[i].Span.Less(findings[j].Span)
		}
		return findings[i].RuleID < findings[j].RuleID
	})
	sort.SliceStable(notes, func(i, j int) bool {
		return notes[i].File < notes[j].File
	})

	inv := &Inventory{
		Metadata:      meta,
		Matches:       matches,
		WrapperCounts: wrapperCounts(matches),
		ModelCounts:   modelCounts(matches),
		SkipNotes:     notes,
	}

	summary := summarize(findings)
	status := statusOf(summary, budget)

	audit := &AuditReport{
		Metadata:        meta,
		Findings:        findings,
		Summary:         summary,
		Budget:          budget,
		Status:          status,
		Recommendations: recommendations(inv, findings),
	}

	return inv, audit
}

func summarize(findings []rules.Finding) SeveritySummary {
	summary := SeveritySummary{Total: len(findings)}
	for _, f := range findings {
		switch f.Severity {
		case rules.SeverityCritical:
			summary.Critical++
		case rules.SeverityHigh:
			summary.High++
		case rules.SeverityMedium:
			summary.Medium++
		case rules.SeverityLow:
			summary.Low++
		}
	}
	return summary
}

func statusOf(summary SeveritySummary, budget cost.Snapshot) Status {
	status := StatusOK
	if summary.Total > 0 {
		status = StatusFindings
	}
	if budget.Exceeded() {
		// budget exhaustion wins; findings are still carried in full
		status = StatusBudgetExceeded
	}
	return status
}

// wrapperCounts reports every catalog wrapper in catalog order, including
// zero counts, so two runs over the same tree always list the same keys.
func wrapperCounts(matches []matcher.Match) []WrapperCount {
	counts := make(map[string]int)
	for _, m := range matches {
		counts[m.Wrapper]++
	}
	var out []WrapperCount
	for _, w := range catalog.Wrappers() {
		out = append(out, WrapperCount{Wrapper: w, Count: counts[w]})
		delete(counts, w)
	}
	// custom wrappers unknown to the catalog still get reported
	var extra []string
	for w := range counts {
		extra = append(extra, w)
	}
	sort.Strings(extra)
	for _, w := range extra {
		out = append(out, WrapperCount{Wrapper: w, Count: counts[w]})
	}
	return out
}

func modelCounts(matches []matcher.Match) []ModelCount {
	counts := make(map[string]int)
	for _, m := range matches {
		if m.Model != "" {
			counts[m.Model]++
		}
	}
	var out []ModelCount
	for model, count := range counts {
		out = append(out, ModelCount{Model: model, Count: count})
	}
	sort.Slice(out, func(i, j int) bool {
		if out[i].Count != out[j].Count {
			return out[i].Count > out[j].Count
		}
		return out[i].Model < out[j].Model
	})
	return out
}

func recommendations(inv *Inventory, findings []rules.Finding) []string {
	var recs []string

	byRule := make(map[string]bool)
	for _, f := range findings {
		byRule[f.RuleID] = true
	}

	if byRule["hardcoded-secret"] || byRule["hardcoded-api-key"] {
		recs = append(recs, "Use environment variables or a secrets manager for API keys")
	}
	if byRule["missing-input-validation"] {
		recs = append(recs, "Validate and sanitize all user input before it reaches a model")
	}

	expensive := 0
	for _, m := range inv.ModelCounts {
		if m.Count > 0 {
			expensive += m.Count
		}
	}
	if expensive > 10 {
		recs = append(recs, "Consider cheaper models for non-critical tasks to reduce spend")
	}
	if len(inv.Matches) > 50 {
		recs = append(recs, "Centralize AI call management and monitoring")
	}
	if len(findings) == 0 {
		recs = append(recs, "No issues found; keep the pattern catalog and rules up to date")
	}

	return recs
}
