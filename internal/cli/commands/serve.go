package commands

import (
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/sheetscript/internal/cli/config"
	"github.com/leapstack-labs/sheetscript/internal/server"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve script generation over HTTP",
		Long: `Start the HTTP API.

Endpoints:
  GET  /healthz       liveness
  GET  /v1/dialects   registered dialects
  POST /v1/scripts    generate a script from rows and field mappings`,
		Example: `  sheetscript serve --addr :9000
  curl -s localhost:9000/v1/dialects`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, _ []string) error {
			ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
			defer stop()

			cmdCtx := NewCommandContext(cmd)
			cfg := cmdCtx.Cfg
			srv := server.New(server.Config{
				Addr:              cfg.Server.Addr,
				ReadTimeout:       cfg.Server.ReadTimeout,
				ShutdownTimeout:   cfg.Server.ShutdownTimeout,
				MaxBodyBytes:      cfg.Server.MaxBodyBytes,
				DateConstructor:   cfg.Document.DateConstructor,
				StrictIdentifiers: cfg.StrictIdentifiers,
			}, cmdCtx.Logger)

			cmdCtx.Renderer.Muted("listening on " + cfg.Server.Addr)
			return srv.Run(ctx)
		},
	}

	cmd.Flags().String("addr", config.DefaultAddr, "Listen address")
	cmd.Flags().Int64("max-body-bytes", config.DefaultMaxBodyBytes, "Maximum request body size")
	return cmd
}
