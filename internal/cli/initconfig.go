package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/jenian/llmscan/internal/config"
)

var initConfigCmd = &cobra.Command{
	Use:   "init-config [dir]",
	Short: "Write a commented starter .llmscan.yaml",
	Args:  cobra.MaximumNArgs(1),
	RunE: func(cmd *cobra.Command, args []string) error {
		dir := "."
		if len(args) > 0 {
			dir = args[0]
		}
		path, err := config.WriteDefault(dir)
		if err != nil {
			return err
		}
		fmt.Printf("Wrote %s\n", path)
		return nil
	},
}
