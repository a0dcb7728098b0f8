// Package httpapi implements the daemon's authenticated HTTP API: a
// gorilla/mux router, bearer-token/master-tenant middleware, and one
// handler per route, all rendering the shared {error_id, message, resource,
// details} error shape from pkg/errors.
package httpapi

import "github.com/wazoplugind/wazo-plugind/internal/ports"

// App bundles the long-lived services the HTTP handlers dispatch to.
type App struct {
	Registry ports.Registry
	Market   ports.MarketClient
	Verifier ports.TokenVerifier
	Dispatch ports.Dispatcher
	Config   *ports.Config
	Logger   ports.Logger
}
