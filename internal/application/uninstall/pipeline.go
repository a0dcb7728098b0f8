// Package uninstall implements the uninstall pipeline state machine: a
// three-state sequence symmetric with, but much shorter than, the install
// pipeline, grounded on tasks.py UninstallTask/_PackageRemover.
package uninstall

import (
	"errors"
	"fmt"
	"strings"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Pipeline runs a single uninstall request end to end. The Registry check
// that decides whether a pipeline is scheduled at all happens one layer up,
// in the dispatcher, so this type only ever sees plugins known installed.
type Pipeline struct {
	rootWorker ports.RootWorker
	publisher  ports.ProgressPublisher
}

func New(rootWorker ports.RootWorker, publisher ports.ProgressPublisher) *Pipeline {
	return &Pipeline{rootWorker: rootWorker, publisher: publisher}
}

// Run drives starting -> removing -> completed, or a terminal error.
func (p *Pipeline) Run(ctx *installctx.Context) {
	log := ctx.Logger()

	if err := p.publisher.PublishUninstallProgress(ctx.Ctx(), ctx.UUID, "starting", nil); err != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish progress event", "status", "starting", "error", err)
	}

	if err := p.publisher.PublishUninstallProgress(ctx.Ctx(), ctx.UUID, "removing", nil); err != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish progress event", "status", "removing", "error", err)
	}

	if err := p.remove(ctx); err != nil {
		p.handleFailure(ctx, "removing", err)
		return
	}

	if err := p.publisher.PublishUninstallProgress(ctx.Ctx(), ctx.UUID, "completed", nil); err != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish completed event", "error", err)
	}
}

func (p *Pipeline) remove(ctx *installctx.Context) error {
	ok, err := p.rootWorker.Uninstall(ctx.Ctx(), ctx.UUID, ctx.PackageName)
	if err != nil {
		return err
	}
	if !ok {
		return &plugin.CommandExecutionError{Command: "apt-get remove", Cause: fmt.Errorf("root worker reported failure")}
	}
	return nil
}

func (p *Pipeline) handleFailure(ctx *installctx.Context, step string, err error) {
	log := ctx.Logger()

	var cmdErr *plugin.CommandExecutionError
	var payload *ports.ErrorPayload
	if errors.As(err, &cmdErr) {
		payload = &ports.ErrorPayload{ErrorID: "uninstall-error", Message: "Uninstall error", Resource: "plugins",
			Details: map[string]interface{}{"step": step, "package_name": ctx.PackageName}}
	} else {
		errorID := strings.ReplaceAll(step, " ", "-") + "-error"
		payload = &ports.ErrorPayload{ErrorID: errorID, Message: "Uninstall error", Resource: "plugins",
			Details: map[string]interface{}{"package_name": ctx.PackageName}}
	}

	if log != nil {
		log.Error(ctx.Ctx(), "uninstall pipeline failed", "step", step, "error", err)
	}
	if pubErr := p.publisher.PublishUninstallProgress(ctx.Ctx(), ctx.UUID, "error", payload); pubErr != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish error event", "error", pubErr)
	}
}
