package cmd

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/iwvelando/maintenance-budget/internal/config"
	"github.com/iwvelando/maintenance-budget/internal/server"
	"github.com/iwvelando/maintenance-budget/pkg/constants"
	"github.com/spf13/cobra"
	"go.uber.org/zap"
)

func newServeCommand(o *rootOptions) *cobra.Command {
	var (
		serverConfigPath string
		address          string
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the web UI and the evaluate API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			cfg, err := server.LoadConfig(serverConfigPath)
			if err != nil {
				return err
			}
			if address != "" {
				cfg.Address = address
			}

			logger := o.logger
			// The server config may carry its own logging section.
			if cfg.Logging != (config.LoggingConfig{}) {
				if logger, err = initializeLogger(cfg.Logging, o.logLevel); err != nil {
					return err
				}
				defer func() {
					_ = logger.Sync()
				}()
			}

			logger.Info("starting server",
				zap.String("op", "cmd.serve"),
				zap.String("address", cfg.Address),
				zap.Int64("maxBodyBytes", cfg.MaxBodyBytes()),
				zap.String("version", o.version),
			)

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()

			return server.Serve(ctx, cfg, server.NewHandler(logger, cfg.MaxBodyBytes(), o.version), logger)
		},
	}

	cmd.Flags().StringVar(&serverConfigPath, "server-config", constants.DefaultServerConfigFile, "path to server configuration file")
	cmd.Flags().StringVar(&address, "address", "", "listen address override, e.g. :8080")
	return cmd
}
