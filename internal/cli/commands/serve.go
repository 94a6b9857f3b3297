package commands

import (
	"fmt"

	"github.com/spf13/cobra"

	"github.com/leapstack-labs/fmsboard/internal/ui"
)

// NewServeCommand creates the serve command.
func NewServeCommand() *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Start the board web server",
		Long: `Start the message board and FMS report web server.

The server provides:
- Post list, detail, create, edit and delete pages
- Comments and per-IP likes
- Live post list and counter updates over SSE
- The FMS result report with charts and a CSV download`,
		Example: `  # Start on the configured port (default 5000)
  fmsboard serve

  # Start on a custom port behind a reverse proxy
  fmsboard serve --port 8080 --trust-proxy`,
		RunE: runServe,
	}

	cmd.Flags().Int("port", 0, "Port to serve on (default: 5000)")
	cmd.Flags().Bool("trust-proxy", false, "Take the client IP from X-Forwarded-For/X-Real-IP")
	cmd.Flags().String("session-secret", "", "Key for signing the flash message cookie")

	return cmd
}

func runServe(cmd *cobra.Command, _ []string) error {
	cctx, cleanup, err := NewCommandContext(cmd)
	if err != nil {
		return err
	}
	defer cleanup()

	cfg := cctx.Cfg
	server := ui.NewServer(ui.Config{
		Board:             cctx.Store,
		FMS:               cctx.FMS,
		Port:              cfg.Server.Port,
		TrustProxy:        cfg.Server.TrustProxy,
		SessionSecret:     cfg.Server.SessionSecret,
		ReadHeaderTimeout: cfg.Server.ReadHeaderTimeout,
		Logger:            cctx.Logger,
	})

	_, _ = fmt.Fprintf(cmd.OutOrStdout(), "Starting board server on http://localhost:%d\n", cfg.Server.Port)
	_, _ = fmt.Fprintln(cmd.OutOrStdout(), "Press Ctrl+C to stop")

	return server.Serve(cmd.Context())
}
