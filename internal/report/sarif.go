package report

import (
	"os"

	"github.com/owenrumney/go-sarif/v2/sarif"

	"github.com/jenian/llmscan/internal/rules"
)

// severityToLevel maps finding severities onto SARIF result levels.
func severityToLevel(s rules.Severity) string {
	switch s {
	case rules.SeverityCritical, rules.SeverityHigh:
		return "error"
	case rules.SeverityMedium:
		return "warning"
	default:
		return "note"
	}
}

// ToSARIF renders the audit report as a SARIF 2.1.0 document, one run with
// one reporting descriptor per distinct rule, so CI code-scanning uploads
// can consume findings directly.
func ToSARIF(audit *AuditReport, toolVersion string) *sarif.Report {
	var descriptors []*sarif.ReportingDescriptor
	seen := make(map[string]bool)
	for _, f := range audit.Findings {
		if seen[f.RuleID] {
			continue
		}
		seen[f.RuleID] = true
		category := string(f.Category)
		descriptors = append(descriptors, &sarif.ReportingDescriptor{
			ID: f.RuleID,
			ShortDescription: &sarif.MultiformatMessageString{
				Text: &category,
			},
		})
	}

	results := make([]*sarif.Result, 0, len(audit.Findings))
	for _, f := range audit.Findings {
		f := f
		level := severityToLevel(f.Severity)
		message := f.Message
		if f.Remediation != "" {
			message += ". " + f.Remediation
		}
		uri := f.File
		startLine := f.Span.StartLine
		startCol := f.Span.StartCol
		endLine := f.Span.EndLine
		endCol := f.Span.EndCol

		result := &sarif.Result{
			RuleID:  &f.RuleID,
			Level:   &level,
			Message: sarif.Message{Text: &message},
			Locations: []*sarif.Location{
				{
					PhysicalLocation: &sarif.PhysicalLocation{
						ArtifactLocation: &sarif.ArtifactLocation{
							URI: &uri,
						},
						Region: &sarif.Region{
							StartLine:   &startLine,
							StartColumn: &startCol,
							EndLine:     &endLine,
							EndColumn:   &endCol,
						},
					},
				},
			},
		}
		results = append(results, result)
	}

	infoURI := "https://github.com/jenian/llmscan"
	return &sarif.Report{
		Version: "2.1.0",
		Schema:  "https://json.schemastore.org/sarif-2.1.0.json",
		Runs: []*sarif.Run{
			{
				Tool: sarif.Tool{
					Driver: &sarif.ToolComponent{
						Name:           "llmscan",
						Version:        &toolVersion,
						InformationURI: &infoURI,
						Rules:          descriptors,
					},
				},
				Results: results,
			},
		},
	}
}

// SaveSARIF writes the audit report to path in SARIF form.
func SaveSARIF(path string, audit *AuditReport, toolVersion string) error {
	f, err := os.Create(path)
	if err != nil {
		return err
	}
	defer f.Close()
	return ToSARIF(audit, toolVersion).PrettyWrite(f)
}
