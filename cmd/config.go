package cmd

import (
	"codycli/internal/client"
	"fmt"

	"github.com/spf13/cobra"
	"gopkg.in/yaml.v3"
)

// newConfigCmd creates the command printing the effective configuration with
// the access token redacted.
func newConfigCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "config",
		Short: "Print the effective configuration",
		Long: `Print the configuration after defaults, the config file, environment
variables and flags have been applied. The access token is redacted.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			redacted := opts.config.Redacted()

			if opts.output == client.FormatJSON {
				return client.WriteSuccess(cmd.OutOrStdout(), redacted)
			}

			out, err := yaml.Marshal(redacted)
			if err != nil {
				return fmt.Errorf("encoding configuration: %w", err)
			}
			if _, err := cmd.OutOrStdout().Write(out); err != nil {
				return err
			}

			if err := redacted.Validate(); err != nil {
				fmt.Fprintf(cmd.ErrOrStderr(), "warning: %v\n", err)
			}
			return nil
		},
	}
}
