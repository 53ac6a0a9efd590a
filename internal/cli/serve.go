package cli

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/inkwell-studio/inkwell/internal/server"
)

// serveOpts holds the command-line flags for the serve command.
type serveOpts struct {
	addr    string
	noCache bool
}

// newServeCmd creates the serve command for running the HTTP API.
func newServeCmd() *cobra.Command {
	var opts serveOpts

	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Run the inkwell HTTP API",
		Args:  cobra.NoArgs,
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd.Context(), &opts)
		},
	}

	cmd.Flags().StringVar(&opts.addr, "addr", "", "listen address (default from config, :8420)")
	cmd.Flags().BoolVar(&opts.noCache, "no-cache", false, "bypass the artifact cache")

	return cmd
}

func runServe(ctx context.Context, opts *serveOpts) error {
	logger := loggerFromContext(ctx)
	cfg := configFromContext(ctx)

	st, err := newStudio(ctx, cfg)
	if err != nil {
		return err
	}
	docStore, err := newStore(ctx, cfg)
	if err != nil {
		return err
	}
	defer docStore.Close()

	srv, err := server.New(server.Config{
		Studio:   st,
		Store:    docStore,
		Exporter: newExporter(ctx, cfg, opts.noCache),
		Logger:   logger,
	})
	if err != nil {
		return err
	}

	addr := opts.addr
	if addr == "" {
		addr = cfg.Server.Addr
	}
	printInfo("serving on %s", addr)
	return srv.Run(ctx, addr)
}
