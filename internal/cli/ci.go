package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/llmscan/internal/report"
)

var (
	ciSARIF        string
	ciBaseline     string
	ciSaveBaseline string
)

var ciCmd = &cobra.Command{
	Use:   "ci [path]",
	Short: "Run an audit for CI pipelines",
	Long: `CI runs the same pipeline as audit but always emits the JSON report
on stdout, so the command slots into pipelines without extra flags. The
exit code gates the build: 1 on findings, 137 on budget exhaustion.

Use --save-baseline on a trusted branch to record the accepted findings,
then --baseline on pull requests to fail only on new ones.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runCI,
}

func init() {
	ciCmd.Flags().StringVar(&ciSARIF, "sarif", "",
		"write a SARIF 2.1.0 report to a file")
	ciCmd.Flags().StringVar(&ciBaseline, "baseline", "",
		"prior audit report whose findings are suppressed")
	ciCmd.Flags().StringVar(&ciSaveBaseline, "save-baseline", "",
		"write the audit report to a file for later --baseline use")
}

func runCI(cmd *cobra.Command, args []string) error {
	audit, err := runAuditPipeline(cmd, args, ciBaseline)
	if err != nil {
		return err
	}

	if ciSaveBaseline != "" {
		if err := report.SaveJSON(ciSaveBaseline, audit); err != nil {
			return err
		}
	}
	if ciSARIF != "" {
		if err := report.SaveSARIF(ciSARIF, audit, toolVersion); err != nil {
			return err
		}
	}

	if err := report.RenderJSON(os.Stdout, audit); err != nil {
		return err
	}

	if code := report.ExitCode(audit.Status); code != report.ExitOK {
		return &exitError{code: code}
	}
	return nil
}
