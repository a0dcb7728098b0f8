package httpapi

import (
	"encoding/json"
	"errors"
	"net/http"
	"strconv"

	"github.com/gorilla/mux"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

type pluginsListResponse struct {
	Items []plugin.Metadata `json:"items"`
	Total int               `json:"total"`
}

func (a *App) listPlugins(w http.ResponseWriter, r *http.Request) {
	items, err := a.Registry.List(r.Context())
	if err != nil {
		writeError(w, apperrors.NewInvalidDataError("listing installed plugins", err))
		return
	}
	writeJSON(w, http.StatusOK, pluginsListResponse{Items: items, Total: len(items)})
}

func (a *App) getPlugin(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := plugin.Identity{Namespace: vars["namespace"], Name: vars["name"]}

	meta, err := a.Registry.GetPlugin(r.Context(), id)
	if err != nil {
		writeError(w, apperrors.NewPluginNotFoundError("plugins"))
		return
	}
	writeJSON(w, http.StatusOK, meta)
}

// installRequestBody mirrors POST /plugins's body: {method, options}. options
// is decoded per-method only after the method field itself is validated.
type installRequestBody struct {
	Method  string          `json:"method"`
	Options json.RawMessage `json:"options"`
}

type installResponse struct {
	UUID string `json:"uuid"`
}

func (a *App) installPlugin(w http.ResponseWriter, r *http.Request) {
	var body installRequestBody
	if err := json.NewDecoder(r.Body).Decode(&body); err != nil {
		writeError(w, apperrors.NewInvalidDataError("decoding install request body", err))
		return
	}

	reinstall, _ := strconv.ParseBool(r.URL.Query().Get("reinstall"))
	params := installctx.Params{Reinstall: reinstall}
	hostVersion := ""
	if a.Config != nil {
		hostVersion = a.Config.HostVersion
	}

	var (
		method installctx.Method
		git    installctx.GitOptions
		mkt    installctx.MarketOptions
	)

	switch body.Method {
	case "git":
		method = installctx.MethodGit
		if err := json.Unmarshal(body.Options, &git); err != nil {
			writeError(w, apperrors.NewInvalidDataError("decoding git install options", err))
			return
		}
		if git.URL == "" {
			writeError(w, apperrors.NewValidationError("Validation error", map[string]interface{}{
				"url": map[string]interface{}{"constraint_id": "required", "message": "url is required"},
			}))
			return
		}
		if git.Ref == "" {
			git.Ref = "master"
		}
	case "market":
		method = installctx.MethodMarket
		if err := json.Unmarshal(body.Options, &mkt); err != nil {
			writeError(w, apperrors.NewInvalidDataError("decoding market install options", err))
			return
		}
	default:
		writeError(w, apperrors.NewUnsupportedDownloadMethodError(body.Method))
		return
	}

	uuid, err := a.Dispatch.Install(r.Context(), method, git, mkt, params, hostVersion)
	if err != nil {
		writeError(w, apperrors.NewInvalidDataError("scheduling install", err))
		return
	}
	writeJSON(w, http.StatusOK, installResponse{UUID: uuid})
}

func (a *App) uninstallPlugin(w http.ResponseWriter, r *http.Request) {
	vars := mux.Vars(r)
	id := plugin.Identity{Namespace: vars["namespace"], Name: vars["name"]}

	hostVersion := ""
	if a.Config != nil {
		hostVersion = a.Config.HostVersion
	}

	uuid, err := a.Dispatch.Uninstall(r.Context(), id, hostVersion)
	if err != nil {
		var notFound *plugin.NotFoundError
		if errors.As(err, &notFound) {
			writeError(w, apperrors.NewPluginNotFoundError("plugins"))
			return
		}
		writeError(w, apperrors.NewInvalidDataError("scheduling uninstall", err))
		return
	}
	writeJSON(w, http.StatusOK, installResponse{UUID: uuid})
}
