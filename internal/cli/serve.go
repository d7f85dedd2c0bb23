package cli

import (
	"github.com/spf13/cobra"

	"github.com/flowlens/flowlens/internal/server"
)

// newServeCmd creates the serve command: run the HTTP processing API.
func newServeCmd(cfg Config) *cobra.Command {
	var (
		addr    string
		noCache bool
	)

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the HTTP API for processing state-machine documents",
		Long: `Serve starts an HTTP server exposing POST /api/process, which accepts a raw
state-machine document and returns the canonical graph. Results are cached
by document digest.`,
		Args: cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			ctx := cmd.Context()
			logger := loggerFromContext(ctx)

			if addr == "" {
				addr = cfg.ListenAddr
			}
			if addr == "" {
				addr = ":8080"
			}

			c := openCache(ctx, cfg, noCache, logger)
			defer c.Close()

			srv := server.New(server.Options{
				Addr:     addr,
				Cache:    c,
				CacheTTL: cfg.cacheTTL(),
				Logger:   logger,
			})

			printInfo("Listening on %s", StyleValue.Render(addr))
			return srv.ListenAndServe(ctx)
		},
	}

	cmd.Flags().StringVar(&addr, "addr", "", "listen address (default from config, else :8080)")
	cmd.Flags().BoolVar(&noCache, "no-cache", false, "disable the result cache")

	return cmd
}
