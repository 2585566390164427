package cli

import (
	"github.com/spf13/cobra"

	"github.com/gridplot/gridplot/internal/server"
)

// serveCommand creates the serve command exposing grid rendering over HTTP.
func (c *CLI) serveCommand() *cobra.Command {
	var addr string

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve grid rendering over HTTP",
		Long: `Serve starts an HTTP server with two endpoints:

  GET /healthz  liveness probe
  GET /render   render a demo grid from query parameters and stream the PNG

Example:

  gridplot serve --addr :8080
  curl 'localhost:8080/render?rows=2&cols=3&renderer=scatter' > grid.png`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			printInfo("Serving on %s", addr)
			return server.New(loggerFromContext(cmd.Context())).ListenAndServe(cmd.Context(), addr)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", ":8080", "listen address")
	return cmd
}
