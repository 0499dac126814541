package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/llmscan/internal/engine"
	"github.com/jenian/llmscan/internal/report"
)

var (
	auditJSON     bool
	auditOutput   string
	auditSARIF    string
	auditBaseline string
)

var auditCmd = &cobra.Command{
	Use:   "audit [path]",
	Short: "Audit AI/LLM usage against the security rule set",
	Long: `Audit scans like scan does, then evaluates every call site against
the built-in and configured custom rules, estimates token and dollar cost
for literal prompt content, and exits nonzero when findings exist or the
budget is exceeded.

With --baseline, findings already present in a prior audit report are
suppressed and only new findings gate the exit code.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runAudit,
}

func init() {
	auditCmd.Flags().BoolVar(&auditJSON, "json", false, "emit JSON instead of text")
	auditCmd.Flags().StringVarP(&auditOutput, "output", "o", "",
		"write the JSON audit report to a file")
	auditCmd.Flags().StringVar(&auditSARIF, "sarif", "",
		"write a SARIF 2.1.0 report to a file")
	auditCmd.Flags().StringVar(&auditBaseline, "baseline", "",
		"prior audit report whose findings are suppressed")
}

func runAudit(cmd *cobra.Command, args []string) error {
	audit, err := runAuditPipeline(cmd, args, auditBaseline)
	if err != nil {
		return err
	}

	if auditOutput != "" {
		if err := report.SaveJSON(auditOutput, audit); err != nil {
			return err
		}
	}
	if auditSARIF != "" {
		if err := report.SaveSARIF(auditSARIF, audit, toolVersion); err != nil {
			return err
		}
	}

	if auditJSON {
		if err := report.RenderJSON(os.Stdout, audit); err != nil {
			return err
		}
	} else {
		report.RenderAudit(os.Stdout, audit)
	}

	if code := report.ExitCode(audit.Status); code != report.ExitOK {
		return &exitError{code: code}
	}
	return nil
}

// runAuditPipeline runs the engine and applies the baseline, shared by
// audit and ci.
func runAuditPipeline(cmd *cobra.Command, args []string, baselinePath string) (*report.AuditReport, error) {
	eng, err := engine.New(cfg, newLogger(), toolVersion)
	if err != nil {
		return nil, err
	}

	result, err := eng.Run(cmd.Context(), scanRoot(args))
	if err != nil {
		return nil, err
	}

	audit := result.Audit
	if baselinePath != "" {
		baseline, err := report.LoadBaseline(baselinePath)
		if err != nil {
			return nil, err
		}
		audit = report.ApplyBaseline(audit, baseline)
	}
	return audit, nil
}
