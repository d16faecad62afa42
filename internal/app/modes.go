package app

import (
	"context"
	"os/signal"
	"syscall"

	"golang.org/x/sync/errgroup"

	"cmdbmcp/pkg/logging"
)

// runServer runs the MCP transport and the cookie file watcher until one of
// them fails, the transport ends, or SIGINT/SIGTERM arrives.
func runServer(ctx context.Context, services *Services) error {
	ctx, stop := signal.NotifyContext(ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	ctx, cancel := context.WithCancel(ctx)
	defer cancel()

	g, gctx := errgroup.WithContext(ctx)

	g.Go(func() error {
		defer cancel()
		return services.Server.Serve(gctx)
	})

	if services.TokenWatcher != nil {
		g.Go(func() error {
			return services.TokenWatcher.Run(gctx)
		})
	}

	err := g.Wait()
	if err != nil {
		logging.Error("Server", err, "MCP server stopped with error")
		return err
	}
	logging.Info("Server", "MCP server stopped")
	return nil
}
