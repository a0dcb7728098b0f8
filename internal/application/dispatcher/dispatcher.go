// Package dispatcher implements the request dispatcher: it mints request
// uuids, runs pipelines on a bounded worker pool, and is the
// one component that both application pipelines depend on (install's
// Scheduler) and that depends on them (install.Pipeline, uninstall.Pipeline),
// so it is the composition point rather than a peer of either.
//
// The pool itself is the buffered-channel-as-semaphore pattern used
// throughout the daemon's lineage (cmd/streamy/refresh.go's verifyPipelines,
// internal/infrastructure/engine/executor.go): acquire a slot before doing
// work, release it in a deferred statement, so the Nth+1 goroutine blocks on
// the channel send rather than running unbounded.
package dispatcher

import (
	"context"
	"sync"

	"github.com/wazoplugind/wazo-plugind/internal/application/install"
	"github.com/wazoplugind/wazo-plugind/internal/application/uninstall"
	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Dispatcher implements ports.Dispatcher and install.Scheduler.
type Dispatcher struct {
	registry  ports.Registry
	logger    ports.Logger
	sem       chan struct{}
	installP  *install.Pipeline
	uninstall *uninstall.Pipeline

	wg       sync.WaitGroup
	mu       sync.Mutex
	draining bool
}

// New builds a Dispatcher with the given worker pool size. The install and
// uninstall pipelines are wired in afterward via SetPipelines: the install
// Pipeline's constructor takes this Dispatcher as its install.Scheduler, so
// the Dispatcher must exist first, and the Dispatcher can't take the
// pipelines as New parameters without that becoming circular.
func New(registry ports.Registry, logger ports.Logger, maxParallel int) *Dispatcher {
	if maxParallel <= 0 {
		maxParallel = 10
	}
	return &Dispatcher{
		registry: registry,
		logger:   logger,
		sem:      make(chan struct{}, maxParallel),
	}
}

// SetPipelines completes construction, breaking the Dispatcher/install.Pipeline
// cycle: called once, from cmd/wazo-plugind, after both pipelines have been
// built with this Dispatcher as their Scheduler/publisher target.
func (d *Dispatcher) SetPipelines(installPipeline *install.Pipeline, uninstallPipeline *uninstall.Pipeline) {
	d.installP = installPipeline
	d.uninstall = uninstallPipeline
}

func (d *Dispatcher) Install(ctx context.Context, method installctx.Method, git installctx.GitOptions, mkt installctx.MarketOptions, params installctx.Params, hostVersion string) (string, error) {
	uuid := ports.GenerateCorrelationID()
	runCtx := installctx.New(context.Background(), uuid, method, hostVersion, d.logger)
	runCtx.GitOptions = git
	runCtx.MarketOptions = mkt
	runCtx.Params = params

	d.schedule(func() { d.installP.Run(runCtx) })
	return uuid, nil
}

func (d *Dispatcher) Uninstall(ctx context.Context, id plugin.Identity, hostVersion string) (string, error) {
	installed, err := d.registry.IsInstalled(ctx, id, "")
	if err != nil {
		return "", err
	}
	if !installed {
		return "", &plugin.NotFoundError{Identity: id}
	}

	uuid := ports.GenerateCorrelationID()
	runCtx := installctx.New(context.Background(), uuid, installctx.MethodGit, hostVersion, d.logger)
	runCtx.PackageName = id.PackageName()

	d.schedule(func() { d.uninstall.Run(runCtx) })
	return uuid, nil
}

// ScheduleDependencyInstall satisfies install.Scheduler: a dependency's
// Context arrives already populated by installctx.ChildFor, so it is simply
// handed to the same bounded pool as any top-level request.
func (d *Dispatcher) ScheduleDependencyInstall(ctx *installctx.Context) {
	d.schedule(func() { d.installP.Run(ctx) })
}

func (d *Dispatcher) schedule(work func()) {
	d.mu.Lock()
	draining := d.draining
	d.mu.Unlock()
	if draining {
		if d.logger != nil {
			d.logger.Warn(context.Background(), "dispatcher is draining, dropping new work")
		}
		return
	}

	d.wg.Add(1)
	go func() {
		defer d.wg.Done()
		d.sem <- struct{}{}
		defer func() { <-d.sem }()
		work()
	}()
}

// Shutdown marks the pool as draining, so work scheduled from then on
// (dependency installs included) is dropped, and blocks until every
// already-scheduled pipeline has run to completion or ctx is done.
func (d *Dispatcher) Shutdown(ctx context.Context) {
	d.mu.Lock()
	d.draining = true
	d.mu.Unlock()

	done := make(chan struct{})
	go func() {
		d.wg.Wait()
		close(done)
	}()

	select {
	case <-done:
	case <-ctx.Done():
		if d.logger != nil {
			d.logger.Warn(ctx, "dispatcher shutdown deadline exceeded, pipelines may be abandoned")
		}
	}
}

var (
	_ ports.Dispatcher  = (*Dispatcher)(nil)
	_ install.Scheduler = (*Dispatcher)(nil)
)
