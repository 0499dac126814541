// Package cli implements the llmscan command tree.
package cli

import (
	"errors"
	"fmt"
	"os"

	"github.com/hashicorp/go-hclog"
	"github.com/spf13/cobra"

	"github.com/jenian/llmscan/internal/config"
	"github.com/jenian/llmscan/internal/report"
)

var (
	cfg *config.Config

	cfgFile string
	verbose bool

	flagMaxTokens   int64
	flagMaxRequests int64
	flagMaxUSD      float64
	flagCostModel   string
	flagEarlyAbort  bool
	flagWorkers     int
)

var toolVersion = "dev"

// SetVersion records the build version stamped in by main.
func SetVersion(v string) {
	toolVersion = v
}

// exitError carries a specific process exit code up through cobra without
// an error message of its own; the command has already reported.
type exitError struct {
	code int
}

func (e *exitError) Error() string {
	return fmt.Sprintf("exit code %d", e.code)
}

var rootCmd = &cobra.Command{
	Use:   "llmscan",
	Short: "Scan source trees for AI/LLM SDK usage and insecure patterns",
	Long: `llmscan finds AI/LLM SDK call sites across Python, JavaScript,
TypeScript, Go, Rust, and Java sources, audits them against a security
rule set, and estimates the token and dollar cost of the literal prompt
content it finds.

Quick start:
  llmscan scan .
  llmscan audit .
  llmscan ci . --baseline baseline.json

Exit codes (audit and ci):
  0    no findings, budget respected
  1    findings present
  137  budget exceeded
  2    internal error`,
	SilenceUsage:  true,
	SilenceErrors: true,
	PersistentPreRunE: func(cmd *cobra.Command, args []string) error {
		var err error
		cfg, err = config.Load(cfgFile)
		if err != nil {
			return err
		}

		if verbose {
			cfg.Verbose = true
		}
		flags := cmd.Flags()
		if flags.Changed("max-tokens") {
			cfg.MaxTokens = flagMaxTokens
		}
		if flags.Changed("max-requests") {
			cfg.MaxRequests = flagMaxRequests
		}
		if flags.Changed("max-usd") {
			cfg.MaxUSD = flagMaxUSD
		}
		if flags.Changed("cost-model") {
			cfg.CostModel = flagCostModel
		}
		if flags.Changed("early-abort") {
			cfg.EarlyAbort = flagEarlyAbort
		}
		if flags.Changed("workers") {
			cfg.Workers = flagWorkers
		}

		return cfg.Validate()
	},
}

// Execute runs the command tree and exits the process with the mapped code.
func Execute() {
	err := rootCmd.Execute()
	if err == nil {
		return
	}
	var ee *exitError
	if errors.As(err, &ee) {
		os.Exit(ee.code)
	}
	fmt.Fprintln(os.Stderr, "Error:", err)
	os.Exit(report.ExitInternalError)
}

func init() {
	pf := rootCmd.PersistentFlags()
	pf.StringVar(&cfgFile, "config", "",
		"config file (default: .llmscan.yaml in cwd or home)")
	pf.BoolVarP(&verbose, "verbose", "v", false, "verbose output")
	pf.Int64Var(&flagMaxTokens, "max-tokens", 0,
		"token budget (negative = unlimited)")
	pf.Int64Var(&flagMaxRequests, "max-requests", 0,
		"request budget (negative = unlimited)")
	pf.Float64Var(&flagMaxUSD, "max-usd", 0,
		"dollar budget (negative = unlimited)")
	pf.StringVar(&flagCostModel, "cost-model", "",
		"model id used for tokenizer and pricing")
	pf.BoolVar(&flagEarlyAbort, "early-abort", false,
		"stop scheduling files once the budget is exceeded")
	pf.IntVar(&flagWorkers, "workers", 0,
		"parallel file workers (0 = GOMAXPROCS)")

	rootCmd.AddCommand(scanCmd)
	rootCmd.AddCommand(auditCmd)
	rootCmd.AddCommand(ciCmd)
	rootCmd.AddCommand(initConfigCmd)
	rootCmd.AddCommand(versionCmd)
}

var versionCmd = &cobra.Command{
	Use:   "version",
	Short: "Show version information",
	Run: func(cmd *cobra.Command, args []string) {
		fmt.Printf("llmscan %s\n", toolVersion)
	},
}

// newLogger builds the hclog logger shared by the pipeline. Logs go to
// stderr so stdout stays parseable.
func newLogger() hclog.Logger {
	level := hclog.Warn
	if cfg.Verbose {
		level = hclog.Debug
	}
	return hclog.New(&hclog.LoggerOptions{
		Name:   "llmscan",
		Output: os.Stderr,
		Level:  level,
	})
}

// scanRoot resolves the positional path argument, defaulting to cwd.
func scanRoot(args []string) string {
	if len(args) > 0 {
		return args[0]
	}
	return "."
}
