package main

import (
	"context"
	"errors"
	"fmt"
	"net"
	"net/http"
	"os/signal"
	"syscall"
	"time"

	"github.com/spf13/cobra"

	"github.com/wazoplugind/wazo-plugind/internal/httpapi"
)

const (
	shutdownTimeout     = 15 * time.Second
	masterTenantRefresh = 30 * time.Second
)

func newServeCmd(app *AppContext) *cobra.Command {
	return &cobra.Command{
		Use:   "serve",
		Short: "Run the wazo-plugind daemon in the foreground",
		RunE: func(cmd *cobra.Command, args []string) error {
			return runServe(cmd, app)
		},
	}
}

// runServe starts the Root Worker, the identity-service refresher, and the
// HTTP server, and blocks until SIGINT/SIGTERM, then drains in reverse
// dependency order: stop accepting HTTP requests, drain the dispatcher's
// in-flight pipelines, stop the Root Worker, close the bus connection.
func runServe(cmd *cobra.Command, app *AppContext) error {
	ctx, stop := signal.NotifyContext(cmd.Context(), syscall.SIGINT, syscall.SIGTERM)
	defer stop()

	logger := app.LoggerFor("serve")

	if err := app.RootWorker.Start(ctx); err != nil {
		return fmt.Errorf("starting root worker: %w", err)
	}

	verifierCtx, stopVerifier := context.WithCancel(context.Background())
	defer stopVerifier()
	go app.Verifier.Run(verifierCtx, masterTenantRefresh)

	router := httpapi.NewRouter(app.HTTPApp)
	addr := net.JoinHostPort(app.Config.RestAPI.Host, fmt.Sprintf("%d", app.Config.RestAPI.Port))
	server := &http.Server{Addr: addr, Handler: router}

	serveErr := make(chan error, 1)
	go func() {
		if logger != nil {
			logger.Info(ctx, "http api listening", "address", addr)
		}
		if err := server.ListenAndServe(); err != nil && !errors.Is(err, http.ErrServerClosed) {
			serveErr <- err
			return
		}
		serveErr <- nil
	}()

	select {
	case <-ctx.Done():
		if logger != nil {
			logger.Info(context.Background(), "shutdown signal received, draining")
		}
	case err := <-serveErr:
		if err != nil {
			return fmt.Errorf("http server failed: %w", err)
		}
	}

	shutdownCtx, cancel := context.WithTimeout(context.Background(), shutdownTimeout)
	defer cancel()

	if err := server.Shutdown(shutdownCtx); err != nil && logger != nil {
		logger.Warn(shutdownCtx, "http server shutdown did not complete cleanly", "error", err)
	}

	stopVerifier()

	app.Dispatch.Shutdown(shutdownCtx)

	if err := app.RootWorker.Stop(shutdownCtx); err != nil && logger != nil {
		logger.Warn(shutdownCtx, "root worker stop did not complete cleanly", "error", err)
	}

	if err := app.Publisher.Close(shutdownCtx); err != nil && logger != nil {
		logger.Warn(shutdownCtx, "closing bus publisher failed", "error", err)
	}

	return nil
}
