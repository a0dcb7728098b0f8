package httpapi

import (
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wazoplugind/wazo-plugind/internal/domain/market"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

func pluginIdentity(namespace, name string) plugin.Identity {
	return plugin.Identity{Namespace: namespace, Name: name}
}

type marketListResponse struct {
	Items    []market.Entry `json:"items"`
	Total    int            `json:"total"`
	Filtered int            `json:"filtered"`
}

var strictFilterParams = map[string]bool{
	"search": true, "order": true, "direction": true,
	"limit": true, "offset": true, "installed": true,
}

func (a *App) listMarket(w http.ResponseWriter, r *http.Request) {
	entries, err := a.Market.Fetch(r.Context())
	if err != nil {
		writeError(w, apperrors.NewMarketServiceUnavailableError(err))
		return
	}

	hostVersion := ""
	if a.Config != nil {
		hostVersion = a.Config.HostVersion
	}
	entries = market.Annotate(entries, hostVersion, a.installedVersionLookup(r))

	query := r.URL.Query()
	filters := market.Filters{
		Strict:    make(map[string]string),
		Search:    query.Get("search"),
		Order:     query.Get("order"),
		Direction: query.Get("direction"),
	}
	if raw := query.Get("installed"); raw != "" {
		v, err := strconv.ParseBool(raw)
		if err != nil {
			writeError(w, apperrors.NewInvalidDataError("parsing installed filter", err))
			return
		}
		filters.Installed = &v
	}
	for key, values := range query {
		if strictFilterParams[key] || len(values) == 0 {
			continue
		}
		filters.Strict[key] = values[0]
	}

	paging := market.Paging{}
	if raw := query.Get("limit"); raw != "" {
		limit, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperrors.NewInvalidDataError("parsing limit", err))
			return
		}
		paging.Limit = limit
	}
	if raw := query.Get("offset"); raw != "" {
		offset, err := strconv.Atoi(raw)
		if err != nil {
			writeError(w, apperrors.NewInvalidDataError("parsing offset", err))
			return
		}
		paging.Offset = offset
	}

	items, err := market.List(entries, filters, paging)
	if err != nil {
		var sortErr *market.InvalidSortParamsError
		if errors.As(err, &sortErr) {
			writeError(w, apperrors.NewInvalidSortParamsError(sortErr.Field))
			return
		}
		writeError(w, apperrors.NewInvalidDataError("listing market catalog", err))
		return
	}

	writeJSON(w, http.StatusOK, marketListResponse{
		Items:    items,
		Total:    len(entries),
		Filtered: market.Count(entries, filters),
	})
}

func (a *App) getMarketEntry(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)

	entries, err := a.Market.Fetch(r.Context())
	if err != nil {
		writeError(w, apperrors.NewMarketServiceUnavailableError(err))
		return
	}

	hostVersion := ""
	if a.Config != nil {
		hostVersion = a.Config.HostVersion
	}
	entries = market.Annotate(entries, hostVersion, a.installedVersionLookup(r))

	entry, err := market.Get(entries, vars["namespace"], vars["name"])
	if err != nil {
		writeError(w, apperrors.NewPluginNotFoundError("market"))
		return
	}
	writeJSON(w, http.StatusOK, entry)
}

// installedVersionLookup adapts ports.Registry.GetPlugin to
// market.InstalledVersionLookup by reading the plugin's metadata directly
// when it is installed.
func (a *App) installedVersionLookup(r *http.Request) market.InstalledVersionLookup {
	return func(namespace, name string) (string, bool) {
		meta, err := a.Registry.GetPlugin(r.Context(), pluginIdentity(namespace, name))
		if err != nil {
			return "", false
		}
		return meta.Version, true
	}
}
