package report

import (
	"encoding/json"
	"fmt"
	"io"
	"os"
	"sort"
	"strings"

	"github.com/olekukonko/tablewriter"
	"golang.org/x/term"

	"github.com/jenian/llmscan/internal/rules"
)

var (
	// Color support detection
	colorEnabled = initColorSupport()
)

// ANSI color codes
const (
	colorReset  = "\033[0m"
	colorRed    = "\033[31m"
	colorYellow = "\033[33m"
	colorGreen  = "\033[32m"
	colorCyan   = "\033[36m"
	colorGray   = "\033[90m"
	colorBold   = "\033[1m"
)

// initColorSupport initializes color support for the terminal
func initColorSupport() bool {
	// Check if stdout is a terminal
	if !term.IsTerminal(int(os.Stdout.Fd())) {
		return false
	}
	return enableANSI()
}

// getColor returns the color code if colors are enabled, empty string otherwise
func getColor(code string) string {
	if colorEnabled {
		return code
	}
	return ""
}

func severityColor(s rules.Severity) string {
	switch s {
	case rules.SeverityCritical, rules.SeverityHigh:
		return getColor(colorRed)
	case rules.SeverityMedium:
		return getColor(colorYellow)
	default:
		return getColor(colorGray)
	}
}

// RenderInventory writes the human-readable usage summary.
func RenderInventory(w io.Writer, inv *Inventory) {
	fmt.Fprintf(w, "%sAI Usage Inventory%s\n", getColor(colorBold), getColor(colorReset))
	fmt.Fprintln(w, strings.Repeat("=", 50))
	fmt.Fprintf(w, "Files scanned: %d\n", inv.Metadata.FilesScanned)
	fmt.Fprintf(w, "AI/LLM usages found: %d\n", len(inv.Matches))
	fmt.Fprintf(w, "Scan duration: %dms\n", inv.Metadata.DurationMS)

	nonzero := 0
	for _, wc := range inv.WrapperCounts {
		if wc.Count > 0 {
			nonzero++
		}
	}
	if nonzero > 0 {
		fmt.Fprintf(w, "\n%sWrappers:%s\n", getColor(colorBold), getColor(colorReset))
		for _, wc := range inv.WrapperCounts {
			if wc.Count > 0 {
				fmt.Fprintf(w, "  %s%s%s - %d\n", getColor(colorCyan), wc.Wrapper, getColor(colorReset), wc.Count)
			}
		}
	}
	if len(inv.ModelCounts) > 0 {
		fmt.Fprintf(w, "\n%sModels:%s\n", getColor(colorBold), getColor(colorReset))
		for _, mc := range inv.ModelCounts {
			fmt.Fprintf(w, "  %s - %d\n", mc.Model, mc.Count)
		}
	}
	if len(inv.Matches) > 0 {
		fmt.Fprintf(w, "\n%sCall sites:%s\n", getColor(colorBold), getColor(colorReset))
		for _, m := range inv.Matches {
			fmt.Fprintf(w, "  %s:%d:%d  %s(%s)\n", m.File, m.Span.StartLine, m.Span.StartCol, m.Wrapper, m.Text)
		}
	}
	renderSkips(w, inv.SkipNotes)
}

// RenderAudit writes the human-readable findings report with a severity
// summary table and the budget status.
func RenderAudit(w io.Writer, audit *AuditReport) {
	fmt.Fprintf(w, "%sSecurity Audit Results%s\n", getColor(colorBold), getColor(colorReset))
	fmt.Fprintln(w, strings.Repeat("=", 50))

	if !audit.HasBlockingFindings() {
		fmt.Fprintf(w, "%sNo security issues found.%s\n", getColor(colorGreen), getColor(colorReset))
	} else {
		table := tablewriter.NewWriter(w)
		table.SetHeader([]string{"Severity", "Count"})
		table.Append([]string{"critical", fmt.Sprint(audit.Summary.Critical)})
		table.Append([]string{"high", fmt.Sprint(audit.Summary.High)})
		table.Append([]string{"medium", fmt.Sprint(audit.Summary.Medium)})
		table.Append([]string{"low", fmt.Sprint(audit.Summary.Low)})
		table.SetFooter([]string{"total", fmt.Sprint(audit.Summary.Total)})
		table.Render()

		// worst first for reading; the serialized report keeps file order
		ordered := make([]rules.Finding, len(audit.Findings))
		copy(ordered, audit.Findings)
		sort.SliceStable(ordered, func(i, j int) bool {
			return ordered[i].Severity.Rank() > ordered[j].Severity.Rank()
		})

		fmt.Fprintf(w, "\n%sFindings:%s\n", getColor(colorBold), getColor(colorReset))
		for i, f := range ordered {
			fmt.Fprintf(w, "\n%d. %s [%s%s%s]\n", i+1, f.Message,
				severityColor(f.Severity), strings.ToUpper(string(f.Severity)), getColor(colorReset))
			fmt.Fprintf(w, "   File: %s:%d:%d\n", f.File, f.Span.StartLine, f.Span.StartCol)
			fmt.Fprintf(w, "   Rule: %s (%s)\n", f.RuleID, f.Category)
			if f.Remediation != "" {
				fmt.Fprintf(w, "   Fix: %s%s%s\n", getColor(colorGreen), f.Remediation, getColor(colorReset))
			}
		}
	}

	fmt.Fprintf(w, "\n%sBudget:%s\n", getColor(colorBold), getColor(colorReset))
	fmt.Fprintf(w, "  Tokens: %d  Requests: %d  Est. cost: $%.4f\n",
		audit.Budget.TokensUsed, audit.Budget.RequestsMade, audit.Budget.USDEstimated)
	if audit.Budget.Uncertain {
		fmt.Fprintf(w, "  %s(estimate uncertain: fallback tokenizer or pricing used)%s\n",
			getColor(colorGray), getColor(colorReset))
	}
	if audit.Status == StatusBudgetExceeded {
		fmt.Fprintf(w, "  %sBUDGET EXCEEDED%s\n", getColor(colorRed), getColor(colorReset))
	}

	if len(audit.Recommendations) > 0 {
		fmt.Fprintf(w, "\n%sRecommendations:%s\n", getColor(colorBold), getColor(colorReset))
		for _, r := range audit.Recommendations {
			fmt.Fprintf(w, "  - %s\n", r)
		}
	}
}

func renderSkips(w io.Writer, notes []SkipNote) {
	if len(notes) == 0 {
		return
	}
	fmt.Fprintf(w, "\n%sSkipped files:%s\n", getColor(colorGray), getColor(colorReset))
	for _, n := range notes {
		fmt.Fprintf(w, "  %s (%s)\n", n.File, n.Reason)
	}
}

// RenderJSON writes any report document as indented JSON.
func RenderJSON(w io.Writer, doc any) error {
	enc := json.NewEncoder(w)
	enc.SetIndent("", "  ")
	return enc.Encode(doc)
}
