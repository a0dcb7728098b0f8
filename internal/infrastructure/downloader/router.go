package downloader

import (
	"fmt"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Router is the Downloader the install pipeline is actually constructed
// with: it dispatches on the inbound ctx.Method to the git adapter directly,
// or to the market adapter, which itself rewrites ctx.Method to git and
// recurses. MarketDownloader is constructed with the git adapter as its next
// downloader, so that recursive call goes to the git adapter directly rather
// than back through Router.
type Router struct {
	git    ports.Downloader
	market ports.Downloader
}

func NewRouter(git, market ports.Downloader) *Router {
	return &Router{git: git, market: market}
}

func (r *Router) Download(ctx *installctx.Context) error {
	switch ctx.Method {
	case installctx.MethodGit:
		return r.git.Download(ctx)
	case installctx.MethodMarket:
		return r.market.Download(ctx)
	default:
		return fmt.Errorf("unsupported download method %q", ctx.Method)
	}
}

var _ ports.Downloader = (*Router)(nil)
