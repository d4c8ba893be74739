package cli

import (
	"strings"

	"github.com/spf13/cobra"

	"github.com/matzehuels/backdrop/internal/server"
	"github.com/matzehuels/backdrop/pkg/observability"
)

type serveOpts struct {
	addr    string
	title   string
	metrics bool
	origins []string
}

// serveCommand creates the serve command, which hosts live backdrops over
// HTTP and WebSocket until interrupted.
func (c *CLI) serveCommand() *cobra.Command {
	opts := serveOpts{addr: ":8080", title: appName, metrics: true}
	var overrides *configFlags

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Serve a live backdrop page",
		Long: `Serve a page whose background container is filled by a spawner running on
the server. Each browser tab gets its own spawner over a WebSocket.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := c.loadConfig(overrides)
			if err != nil {
				return err
			}

			srv := server.New(opts.addr, cfg, c.Logger)
			srv.Title = opts.title
			srv.AllowedOrigins = opts.origins
			if opts.metrics {
				m := server.NewMetrics()
				srv.Metrics = m
				observability.SetSpawnerHooks(m)
				observability.SetSessionHooks(m)
			}

			ctx := cmd.Context()
			if err := srv.Start(ctx); err != nil {
				return err
			}

			out := cmd.OutOrStdout()
			printSuccess(out, "Serving on %s", StyleLink.Render("http://"+displayAddr(srv.ListenAddr())))
			printDetail(out, "container %s · up to %d drawings", cfg.ContainerID, cfg.MaxElements)
			if opts.metrics {
				printDetail(out, "metrics at /metrics")
			}

			<-ctx.Done()
			c.Logger.Info("shutting down")
			return srv.Stop()
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", opts.addr, "listen address")
	cmd.Flags().StringVar(&opts.title, "title", opts.title, "page title")
	cmd.Flags().BoolVar(&opts.metrics, "metrics", opts.metrics, "expose Prometheus metrics at /metrics")
	cmd.Flags().StringSliceVar(&opts.origins, "allow-origin", nil, `cross-origin pages allowed to connect (e.g. https://example.org, "*" for any)`)
	overrides = addConfigFlags(cmd)

	return cmd
}

// displayAddr turns a wildcard listen address into one a browser can open.
func displayAddr(addr string) string {
	for _, prefix := range []string{"[::]:", "0.0.0.0:", ":"} {
		if port, ok := strings.CutPrefix(addr, prefix); ok {
			return "localhost:" + port
		}
	}
	return addr
}
