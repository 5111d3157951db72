// Package cli implements the carbonlens command line.
package cli

import (
	"fmt"

	"github.com/rs/zerolog"
	"github.com/spf13/cobra"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/config"
)

// rootOptions carries state resolved by the root command to its subcommands.
type rootOptions struct {
	configPath string
	logLevel   string

	cfg    config.Config
	logger zerolog.Logger
}

// NewRootCmd creates the root command and wires up its subcommands.
func NewRootCmd(version string) *cobra.Command {
	opts := &rootOptions{logger: zerolog.Nop()}

	cmd := &cobra.Command{
		Use:           "carbonlens",
		Short:         "Household carbon footprint calculator",
		Long:          "CarbonLens: calculate a household's monthly carbon footprint, simulate behaviour changes and rank recommendations",
		Version:       version,
		Example:       rootCmdExample,
		SilenceUsage:  true,
		SilenceErrors: true,
		PersistentPreRunE: func(cmd *cobra.Command, _ []string) error {
			return opts.setup(cmd)
		},
	}

	cmd.PersistentFlags().StringVar(&opts.configPath, "config", "", "path to a YAML configuration file")
	cmd.PersistentFlags().StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error); overrides config")

	cmd.AddCommand(
		newServeCmd(opts),
		newCalculateCmd(opts),
		newSimulateCmd(opts),
		newRecommendCmd(opts),
		newFactorsCmd(opts),
	)
	return cmd
}

const rootCmdExample = `  # Start the HTTP API
  carbonlens serve --addr :8000

  # Calculate a footprint from a YAML or JSON file
  carbonlens calculate --input household.yaml

  # Simulate switching to public transport and cutting electricity by 20%
  carbonlens simulate --input household.yaml --action change_transport=public_transport --action reduce_electricity=20

  # Rank the default recommendations
  carbonlens recommend --input household.yaml`

// setup loads configuration and builds the logger shared by subcommands.
func (o *rootOptions) setup(cmd *cobra.Command) error {
	bootstrap := zerolog.New(cmd.ErrOrStderr()).Level(zerolog.WarnLevel)

	cfg, err := config.Load(o.configPath, bootstrap)
	if err != nil {
		return fmt.Errorf("loading configuration: %w", err)
	}
	if o.logLevel != "" {
		cfg.Logging.Level = o.logLevel
	}

	o.cfg = cfg
	o.logger = config.NewLogger(cfg.Logging, cmd.ErrOrStderr())
	carbon.SetLogger(o.logger)
	return nil
}

// loadFactors returns the configured factor table, or the embedded one.
// Missing required pairs are logged; they only fail the inputs that need them.
func (o *rootOptions) loadFactors() (*carbon.FactorTable, error) {
	var (
		table *carbon.FactorTable
		err   error
	)
	if o.cfg.Factors.File != "" {
		table, err = carbon.LoadFactorFile(o.cfg.Factors.File)
	} else {
		table, err = carbon.DefaultFactors()
	}
	if err != nil {
		return nil, err
	}

	for _, k := range carbon.MissingKeys(table) {
		o.logger.Warn().
			Str("category", k[0]).
			Str("sub_category", k[1]).
			Msg("factor table is missing a required pair")
	}
	return table, nil
}
