package cli

import (
	"os"

	"github.com/spf13/cobra"

	"github.com/jenian/llmscan/internal/engine"
	"github.com/jenian/llmscan/internal/report"
)

var (
	scanJSON   bool
	scanOutput string
)

var scanCmd = &cobra.Command{
	Use:   "scan [path]",
	Short: "Inventory AI/LLM SDK usage in a source tree",
	Long: `Scan walks a source tree, parses each supported file, and reports
every AI/LLM SDK call site, import, and endpoint literal it finds, grouped
by wrapper identity and model. Scan never fails on findings; use audit or
ci for gating.`,
	Args: cobra.MaximumNArgs(1),
	RunE: runScan,
}

func init() {
	scanCmd.Flags().BoolVar(&scanJSON, "json", false, "emit JSON instead of text")
	scanCmd.Flags().StringVarP(&scanOutput, "output", "o", "",
		"write the JSON inventory to a file")
}

func runScan(cmd *cobra.Command, args []string) error {
	eng, err := engine.New(cfg, newLogger(), toolVersion)
	if err != nil {
		return err
	}

	result, err := eng.Run(cmd.Context(), scanRoot(args))
	if err != nil {
		return err
	}

	if scanOutput != "" {
		if err := report.SaveJSON(scanOutput, result.Inventory); err != nil {
			return err
		}
	}

	if scanJSON {
		return report.RenderJSON(os.Stdout, result.Inventory)
	}
	report.RenderInventory(os.Stdout, result.Inventory)
	return nil
}
