package main

import (
	"context"

	"github.com/spf13/cobra"

	"github.com/wazoplugind/wazo-plugind/internal/application/dispatcher"
	"github.com/wazoplugind/wazo-plugind/internal/httpapi"
	"github.com/wazoplugind/wazo-plugind/internal/infrastructure/auth"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// AppContext bundles the long-lived services created at startup.
type AppContext struct {
	Logger ports.Logger
	Config *ports.Config

	RootWorker ports.RootWorker
	Publisher  ports.ProgressPublisher
	Verifier   *auth.Verifier
	Dispatch   *dispatcher.Dispatcher

	HTTPApp *httpapi.App
}

// CommandContext returns the command's context (falling back to Background)
// together with a component-scoped logger.
func (a *AppContext) CommandContext(cmd *cobra.Command, component string) (context.Context, ports.Logger) {
	ctx := context.Background()
	if cmd != nil && cmd.Context() != nil {
		ctx = cmd.Context()
	}
	return ctx, a.LoggerFor(component)
}

// LoggerFor derives a child logger with the supplied component name.
func (a *AppContext) LoggerFor(component string) ports.Logger {
	if a == nil || a.Logger == nil {
		return nil
	}
	return a.Logger.With("component", component)
}
