package main

import (
	"context"
	"fmt"
	"os/signal"
	"syscall"
	"time"

	siteecho "github.com/quietriver/sitesage/echo"
)

// shutdownTimeout bounds request draining on exit.
const shutdownTimeout = 10 * time.Second

// Run executes the serve command.
func (c *ServeCmd) Run(deps *Dependencies) error {
	// Attach to a persisted index if one exists. The server still starts
	// without one; questions get a degraded answer until a rebuild runs.
	if _, err := deps.Index.Load(deps.Ctx); err != nil {
		deps.Logger.Warn("failed to load persisted index, starting without it", "error", err)
	}

	server := siteecho.NewServer(c.Addr, deps.Answerer, deps.Pipeline, deps.Logger)

	ctx, stop := signal.NotifyContext(deps.Ctx, syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	errc := make(chan error, 1)
	go func() {
		errc <- server.Start()
	}()

	select {
	case err := <-errc:
		return err
	case <-ctx.Done():
	}

	fmt.Fprintln(deps.Stdout, "shutting down")
	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()
	return server.Shutdown(shutdownCtx)
}
