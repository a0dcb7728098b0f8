package httpapi

import (
	"net/http"

	"github.com/gorilla/handlers"
	"github.com/gorilla/mux"
)

// NewRouter builds the daemon's full route table under /0.2, wiring the
// bearer-token middleware over every route, the master-tenant guard over
// the mutating ones, and the configured CORS policy.
func NewRouter(app *App) http.Handler {
	root := mux.NewRouter()
	root.Use(authMiddleware(app.Verifier))

	api := root.PathPrefix("/0.2").Subrouter()

	api.HandleFunc("/plugins", app.listPlugins).Methods("GET")
	api.HandleFunc("/plugins", requireMasterTenant(app.Verifier, app.installPlugin)).Methods("POST")
	api.HandleFunc("/plugins/{namespace}/{name}", app.getPlugin).Methods("GET")
	api.HandleFunc("/plugins/{namespace}/{name}", requireMasterTenant(app.Verifier, app.uninstallPlugin)).Methods("DELETE")

	api.HandleFunc("/market", app.listMarket).Methods("GET")
	api.HandleFunc("/market/{namespace}/{name}", app.getMarketEntry).Methods("GET")

	api.HandleFunc("/config", app.getConfig).Methods("GET")
	api.HandleFunc("/status", app.getStatus).Methods("GET")
	api.HandleFunc("/api/api.yml", app.getOpenAPISpec).Methods("GET")

	if app.Config != nil && app.Config.RestAPI.CORS.Enabled {
		return handlers.CORS(
			handlers.AllowedOrigins(app.Config.RestAPI.CORS.Allowed),
			handlers.AllowedMethods([]string{"GET", "POST", "DELETE"}),
			handlers.AllowedHeaders([]string{"Authorization", "Content-Type"}),
		)(root)
	}
	return root
}
