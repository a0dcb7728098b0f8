package ports

import (
	"context"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

// Dispatcher accepts install/uninstall requests from the HTTP layer, mints a
// fresh request uuid synchronously, and enqueues the pipeline on a bounded
// worker pool. Callers never block on pipeline completion;
// observable progress is through the ProgressPublisher exclusively.
type Dispatcher interface {
	// Install mints a uuid and schedules the install pipeline. The returned
	// uuid is available immediately; the pipeline itself runs asynchronously.
	Install(ctx context.Context, method installctx.Method, git installctx.GitOptions, mkt installctx.MarketOptions, params installctx.Params, hostVersion string) (uuid string, err error)

	// Uninstall mints a uuid and schedules the uninstall pipeline after
	// confirming the target is installed; returns *plugin.NotFoundError
	// synchronously (never scheduling a pipeline) if it is not.
	Uninstall(ctx context.Context, id plugin.Identity, hostVersion string) (uuid string, err error)

	// Shutdown drains the pool: in-flight pipelines finish their current
	// subprocess, no new work is accepted after this returns.
	Shutdown(ctx context.Context)
}
