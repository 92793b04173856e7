package cmd

import (
	"codycli/internal/client"
	"codycli/internal/version"

	"github.com/spf13/cobra"
)

// newVersionCmd creates and returns the version command.
func newVersionCmd() *cobra.Command {
	var short bool

	cmd := &cobra.Command{
		Use:   "version",
		Short: "Show version information",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			info := version.GetVersion()
			if output, _ := cmd.Flags().GetString(flagOutput); output == client.FormatJSON {
				return client.WriteSuccess(cmd.OutOrStdout(), info)
			}
			return info.Write(cmd.OutOrStdout(), short)
		},
	}

	cmd.Flags().BoolVarP(&short, "short", "s", false, "Show only version number")
	return cmd
}
