package cli

import (
	"github.com/spf13/cobra"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/recommend"
	"github.com/rshade/carbonlens/internal/scenario"
)

func newCalculateCmd(opts *rootOptions) *cobra.Command {
	var inputPath, output string

	cmd := &cobra.Command{
		Use:   "calculate",
		Short: "Calculate a monthly footprint",
		Example: `  carbonlens calculate --input household.yaml
  cat household.json | carbonlens calculate --input - --output json`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			input, err := readInput(inputPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			calc, err := opts.calculator()
			if err != nil {
				return err
			}

			breakdown, err := calc.Calculate(input)
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), breakdown)
			}
			return renderBreakdown(cmd.OutOrStdout(), breakdown)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "footprint input file (.json, .yaml, or - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text or json)")
	return cmd
}

func newSimulateCmd(opts *rootOptions) *cobra.Command {
	var (
		inputPath, output string
		specs             []string
	)

	cmd := &cobra.Command{
		Use:   "simulate",
		Short: "Simulate the effect of one or more actions",
		Long: `Applies actions to the baseline in order and reports the footprint before and after.

Actions are given as type=value:
  reduce_electricity=<percent>
  change_transport=<petrol|diesel|public_transport>
  change_diet=<veg|mixed|non_veg>`,
		Example: `  carbonlens simulate --input household.yaml --action reduce_electricity=20 --action change_diet=veg`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			input, err := readInput(inputPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			actions := make([]scenario.Action, 0, len(specs))
			for _, spec := range specs {
				a, parseErr := parseActionSpec(spec)
				if parseErr != nil {
					return parseErr
				}
				actions = append(actions, a)
			}
			calc, err := opts.calculator()
			if err != nil {
				return err
			}

			result, err := scenario.NewSimulator(calc).Simulate(input, actions)
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), result)
			}
			return renderResult(cmd.OutOrStdout(), actions, result)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "baseline input file (.json, .yaml, or - for stdin)")
	cmd.Flags().StringArrayVarP(&specs, "action", "a", nil, "action to apply as type=value (repeatable)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text or json)")
	return cmd
}

func newRecommendCmd(opts *rootOptions) *cobra.Command {
	var inputPath, output string

	cmd := &cobra.Command{
		Use:     "recommend",
		Short:   "Rank the default recommendations for a household",
		Example: `  carbonlens recommend --input household.yaml`,
		Args:    cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			if err := validateOutput(output); err != nil {
				return err
			}
			input, err := readInput(inputPath, cmd.InOrStdin())
			if err != nil {
				return err
			}
			calc, err := opts.calculator()
			if err != nil {
				return err
			}

			ranker := recommend.NewRanker(scenario.NewSimulator(calc), opts.logger)
			recs, err := ranker.Rank(input)
			if err != nil {
				return err
			}
			if output == outputJSON {
				return writeJSON(cmd.OutOrStdout(), recs)
			}
			return renderRecommendations(cmd.OutOrStdout(), recs)
		},
	}

	cmd.Flags().StringVarP(&inputPath, "input", "i", "", "footprint input file (.json, .yaml, or - for stdin)")
	cmd.Flags().StringVarP(&output, "output", "o", outputText, "output format (text or json)")
	return cmd
}

func (o *rootOptions) calculator() (*carbon.Calculator, error) {
	table, err := o.loadFactors()
	if err != nil {
		return nil, err
	}
	return carbon.NewCalculator(table), nil
}
