package cli

import (
	"github.com/spf13/cobra"

	"github.com/matzehuels/schedulator/internal/server"
	"github.com/matzehuels/schedulator/pkg/cache"
	"github.com/matzehuels/schedulator/pkg/observability"
	"github.com/matzehuels/schedulator/pkg/pipeline"
)

// serveCommand creates the serve command.
func (c *CLI) serveCommand() *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve the scheduling HTTP API",
		Long: `Serve the scheduling HTTP API.

  POST /v1/schedule           schedule report as JSON
  POST /v1/schedule/{format}  json, csv, dot, svg or png
  GET  /healthz               liveness

The request body is a task file. Its format comes from the ?input= query
parameter or the Content-Type header and defaults to the line format.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			if addr == "" {
				addr = c.cfg.Server.Addr
			}

			ch, err := c.newCache(ctx, noCache)
			if err != nil {
				return err
			}
			runner := pipeline.NewRunner(ch, cache.NewScopedKeyer(nil, "api:"), c.Logger)
			defer runner.Close()

			observability.SetHTTPHooks(&logHooks{logger: c.Logger})

			opts := c.pipelineOptions(pipeline.Options{})
			srv := server.New(runner, c.Logger, server.Options{
				Addr:      addr,
				PathLimit: opts.PathLimit,
				Parallel:  opts.Parallel,
				Detailed:  opts.Detailed,
			})
			printInfo("Listening on %s", StyleHighlight.Render(addr))
			printNextStep("Try", "curl --data-binary @plan.txt http://"+displayAddr(addr)+"/v1/schedule")
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the artifact cache")
	return cmd
}

// displayAddr turns a listen address like ":8080" into "localhost:8080".
func displayAddr(addr string) string {
	if len(addr) > 0 && addr[0] == ':' {
		return "localhost" + addr
	}
	return addr
}
