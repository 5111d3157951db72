package cli

import (
	"github.com/spf13/cobra"
)

func newFactorsCmd(opts *rootOptions) *cobra.Command {
	var output string

	cmd := &cobra.Command{
		Use:   "factors",
		Short: "List the emission factors in use",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			table, err := opts.loadFactors()
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), table.Rows())
			}
			return renderFactors(cmd.OutOrStdout(), table.Rows())
		},
	}

	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text or json)")
	return cmd
}
