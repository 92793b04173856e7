package cmd

import (
	"codycli/internal/application/common/logging"
	"codycli/internal/client"
	"fmt"
	"text/tabwriter"

	"github.com/spf13/cobra"
)

// newModelsCmd creates the command listing the chat models of the instance.
func newModelsCmd(opts *rootOptions) *cobra.Command {
	return &cobra.Command{
		Use:   "models",
		Short: "List the chat models offered by the Sourcegraph instance",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := opts.validConfig(cmd)
			if err != nil {
				return err
			}

			ctx := logging.EnsureCorrelationID(cmd.Context())

			app, err := newApplication(ctx, cfg)
			if err != nil {
				return opts.fail(cmd, err)
			}
			defer app.shutdown(ctx)

			resp, err := app.modelService().ListModels(ctx)
			if err != nil {
				return opts.fail(cmd, err)
			}

			if opts.output == client.FormatJSON {
				return client.WriteSuccess(cmd.OutOrStdout(), resp)
			}

			tw := tabwriter.NewWriter(cmd.OutOrStdout(), 0, 4, 2, ' ', 0)
			fmt.Fprintln(tw, "ID\tOWNED BY")
			for _, model := range resp.Models {
				fmt.Fprintf(tw, "%s\t%s\n", model.ID, model.OwnedBy)
			}
			return tw.Flush()
		},
	}
}
