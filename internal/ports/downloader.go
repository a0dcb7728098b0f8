package ports

import "github.com/wazoplugind/wazo-plugind/internal/domain/installctx"

// Downloader resolves a (method, options) install spec to a local directory
// on disk. Implementations dispatch on ctx.Method: the git
// downloader clones directly; the market downloader resolves through the
// catalog and rewrites ctx.Method/options before recursing back into the
// Downloader port.
//
// On success, Download sets ctx.DownloadPath. It may return
// *plugin.DependencyAlreadyInstalledError, which the install pipeline must
// convert to a "completed" terminal status rather than an error.
type Downloader interface {
	Download(ctx *installctx.Context) error
}
