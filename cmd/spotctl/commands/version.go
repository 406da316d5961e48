package commands

import (
	"spotfinder/internal/version"

	"github.com/spf13/cobra"
)

// VersionCommand prints the build information
func VersionCommand() *cobra.Command {
	var output string
	cmd := &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			return printStructured(cmd.OutOrStdout(), output, version.Get("spotctl"))
		},
	}
	cmd.Flags().StringVarP(&output, "output", "o", outputJSON, "output format: json or yaml")
	return cmd
}
