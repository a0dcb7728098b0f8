package httpapi

import (
	"net/http"

	"github.com/wazoplugind/wazo-plugind/api"
)

func (a *App) getConfig(w http.ResponseWriter, r *http.Request) {
	writeJSON(w, http.StatusOK, a.Config)
}

type componentStatus struct {
	Status string `json:"status"`
}

type statusResponse struct {
	RestAPI      componentStatus `json:"rest_api"`
	MasterTenant componentStatus `json:"master_tenant"`
}

func (a *App) getStatus(w http.ResponseWriter, r *http.Request) {
	masterTenantStatus := "fail"
	if a.Verifier != nil && a.Verifier.Ready() {
		masterTenantStatus = "ok"
	}
	writeJSON(w, http.StatusOK, statusResponse{
		RestAPI:      componentStatus{Status: "ok"},
		MasterTenant: componentStatus{Status: masterTenantStatus},
	})
}

func (a *App) getOpenAPISpec(w http.ResponseWriter, r *http.Request) {
	raw, err := api.OpenAPISpec()
	if err != nil {
		writeError(w, err)
		return
	}
	w.Header().Set("Content-Type", "application/x-yaml")
	w.WriteHeader(http.StatusOK)
	_, _ = w.Write(raw)
}
