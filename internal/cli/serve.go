package cli

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/rshade/carbonlens/internal/carbon"
	"github.com/rshade/carbonlens/internal/server"
	"github.com/rshade/carbonlens/internal/store"
)

func newServeCmd(opts *rootOptions) *cobra.Command {
	var addr, grpcAddr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API and gRPC health service",
		Example: `  carbonlens serve --addr :8000 --grpc-health-addr :8001
  CARBONLENS_STORAGE_DRIVER=file CARBONLENS_STORAGE_PATH=./carbonlens.json carbonlens serve`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg := opts.cfg
			if addr != "" {
				cfg.Server.Addr = addr
			}
			if grpcAddr != "" {
				cfg.Server.GRPCHealthAddr = grpcAddr
			}

			table, err := opts.loadFactors()
			if err != nil {
				return err
			}

			st, err := store.Open(cfg.Storage.Driver, cfg.Storage.Path, opts.logger)
			if err != nil {
				return fmt.Errorf("opening store: %w", err)
			}
			defer func() {
				if closeErr := st.Close(); closeErr != nil {
					opts.logger.Error().Err(closeErr).Msg("closing store")
				}
			}()

			opts.logger.Info().
				Str("storage_driver", cfg.Storage.Driver).
				Int("factor_count", table.Len()).
				Msg("starting carbonlens")

			srv := server.New(carbon.NewCalculator(table), st, opts.logger, server.WithCORS(cfg.CORS))
			return srv.Run(cmd.Context(), cfg.Server)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "HTTP listen address; overrides config")
	cmd.Flags().StringVar(&grpcAddr, "grpc-health-addr", "", "gRPC health listen address; overrides config")
	return cmd
}
