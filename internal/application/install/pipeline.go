// Package install implements the install pipeline state machine, grounded
// on tasks.py PackageAndInstallTask/_PackageBuilder: a fixed sequence of
// states, each preceded by a progress event, with a single
// exception-to-outcome mapping applied wherever a stage fails.
package install

import (
	"errors"
	"fmt"
	"strings"

	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

var titleCaser = cases.Title(language.English)

// state is one named step of the pipeline; fn performs its work, mutating
// ctx, after the corresponding progress event has already been published.
type state struct {
	status string
	fn     func(p *Pipeline, ctx *installctx.Context) error
}

var states = []state{
	{"starting", func(p *Pipeline, ctx *installctx.Context) error { return nil }},
	{"downloading", func(p *Pipeline, ctx *installctx.Context) error { return p.downloader.Download(ctx) }},
	{"extracting", func(p *Pipeline, ctx *installctx.Context) error { return p.builder.Extract(ctx) }},
	{"validating", func(p *Pipeline, ctx *installctx.Context) error { return p.validate(ctx) }},
	{"installing dependencies", func(p *Pipeline, ctx *installctx.Context) error { return p.installDependencies(ctx) }},
	{"building", func(p *Pipeline, ctx *installctx.Context) error { return p.builder.Build(ctx) }},
	{"packaging", func(p *Pipeline, ctx *installctx.Context) error { return p.packageAndDebianize(ctx) }},
	{"updating", func(p *Pipeline, ctx *installctx.Context) error { return p.update(ctx) }},
	{"installing", func(p *Pipeline, ctx *installctx.Context) error { return p.install(ctx) }},
	{"cleaning", func(p *Pipeline, ctx *installctx.Context) error { return p.builder.Cleanup(ctx) }},
}

// Scheduler enqueues the recursive dependency installs the "installing
// dependencies" state spawns, one independent pipeline run per dependency.
// Defined here, not imported from the dispatcher package, so
// application/install never depends on application/dispatcher.
type Scheduler interface {
	ScheduleDependencyInstall(ctx *installctx.Context)
}

// Pipeline runs a single install request end to end.
type Pipeline struct {
	downloader ports.Downloader
	builder    ports.PackageBuilder
	validator  ports.MetadataValidator
	rootWorker ports.RootWorker
	publisher  ports.ProgressPublisher
	scheduler  Scheduler
}

func New(downloader ports.Downloader, builder ports.PackageBuilder, validator ports.MetadataValidator, rootWorker ports.RootWorker, publisher ports.ProgressPublisher, scheduler Scheduler) *Pipeline {
	return &Pipeline{
		downloader: downloader,
		builder:    builder,
		validator:  validator,
		rootWorker: rootWorker,
		publisher:  publisher,
		scheduler:  scheduler,
	}
}

// Run executes every state in order, publishing one progress event before
// each, and maps any failure to the pipeline's error-outcome rules.
func (p *Pipeline) Run(ctx *installctx.Context) {
	log := ctx.Logger()

	for _, st := range states {
		if err := p.publisher.PublishInstallProgress(ctx.Ctx(), ctx.UUID, st.status, nil); err != nil && log != nil {
			log.Warn(ctx.Ctx(), "failed to publish progress event", "status", st.status, "error", err)
		}

		if err := st.fn(p, ctx); err != nil {
			p.handleFailure(ctx, st.status, err)
			return
		}
	}

	if err := p.publisher.PublishInstallProgress(ctx.Ctx(), ctx.UUID, "completed", nil); err != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish completed event", "error", err)
	}
}

func (p *Pipeline) handleFailure(ctx *installctx.Context, step string, err error) {
	log := ctx.Logger()

	var alreadyInstalled *plugin.AlreadyInstalledError
	var depAlreadyInstalled *plugin.DependencyAlreadyInstalledError
	if errors.As(err, &alreadyInstalled) || errors.As(err, &depAlreadyInstalled) {
		if log != nil {
			log.Info(ctx.Ctx(), "plugin already installed, treating as completed", "step", step)
		}
		_ = p.builder.Cleanup(ctx)
		if pubErr := p.publisher.PublishInstallProgress(ctx.Ctx(), ctx.UUID, "completed", nil); pubErr != nil && log != nil {
			log.Warn(ctx.Ctx(), "failed to publish completed event", "error", pubErr)
		}
		return
	}

	_ = p.builder.Cleanup(ctx)

	var verr *plugin.ValidationError
	var cmdErr *plugin.CommandExecutionError
	var payload *ports.ErrorPayload

	switch {
	case errors.As(err, &verr):
		details := verr.Details()
		details["install_options"] = installOptions(ctx)
		payload = &ports.ErrorPayload{ErrorID: "validation-error", Message: "Validation error", Resource: "plugins", Details: details}
	case errors.As(err, &cmdErr):
		payload = &ports.ErrorPayload{ErrorID: "install-error", Message: "Installation error", Resource: "plugins", Details: map[string]interface{}{"step": step}}
	default:
		errorID := strings.ReplaceAll(step, " ", "-") + "-error"
		payload = &ports.ErrorPayload{ErrorID: errorID, Message: fmt.Sprintf("%s Error", titleCaser.String(step)), Resource: "plugins",
			Details: map[string]interface{}{"install_options": installOptions(ctx)}}
	}

	if log != nil {
		log.Error(ctx.Ctx(), "install pipeline failed", "step", step, "error", err)
	}
	if pubErr := p.publisher.PublishInstallProgress(ctx.Ctx(), ctx.UUID, "error", payload); pubErr != nil && log != nil {
		log.Warn(ctx.Ctx(), "failed to publish error event", "error", pubErr)
	}
}

func (p *Pipeline) validate(ctx *installctx.Context) error {
	if ctx.Metadata == nil {
		return fmt.Errorf("validating: no metadata extracted")
	}
	if err := p.validator.Validate(ctx.Ctx(), *ctx.Metadata, ctx.HostVersion, ctx.Params.Reinstall); err != nil {
		return err
	}
	ctx.Params.Reinstall = false
	return nil
}

func (p *Pipeline) installDependencies(ctx *installctx.Context) error {
	if ctx.Metadata == nil || p.scheduler == nil {
		return nil
	}

	for _, dep := range ctx.Metadata.Depends {
		identity := dep.Identity()
		if err := identity.Validate(); err != nil {
			if ctx.Logger() != nil {
				ctx.Logger().Info(ctx.Ctx(), "invalid dependency, skipping", "dependency", identity.String())
			}
			continue
		}
		if ctx.InChain(identity) {
			if ctx.Logger() != nil {
				ctx.Logger().Warn(ctx.Ctx(), "dependency cycle detected, skipping", "dependency", identity.String())
			}
			continue
		}

		child := ctx.ChildFor(ports.GenerateCorrelationID(), identity, installctx.MarketOptions{
			Namespace: dep.Namespace,
			Name:      dep.Name,
			Version:   dep.Version,
		})
		if ctx.Logger() != nil {
			ctx.Logger().Info(ctx.Ctx(), "scheduling dependency install", "dependency", identity.String(), "uuid", child.UUID)
		}
		p.scheduler.ScheduleDependencyInstall(child)
	}
	return nil
}

// packageAndDebianize covers the single "packaging" status: staging the
// payload under fakeroot and rendering the native package itself are one
// observable state even though the builder exposes them as two
// ports.PackageBuilder methods.
func (p *Pipeline) packageAndDebianize(ctx *installctx.Context) error {
	if err := p.builder.Package(ctx); err != nil {
		return err
	}
	return p.builder.Debianize(ctx)
}

func (p *Pipeline) update(ctx *installctx.Context) error {
	if ctx.Metadata == nil || len(ctx.Metadata.DebianDepends) == 0 {
		return nil
	}
	ok, err := p.rootWorker.Update(ctx.Ctx(), ctx.UUID)
	if err != nil {
		return err
	}
	if !ok {
		return &plugin.CommandExecutionError{Command: "apt-get update", Cause: fmt.Errorf("root worker reported failure")}
	}
	return nil
}

func (p *Pipeline) install(ctx *installctx.Context) error {
	ok, err := p.rootWorker.Install(ctx.Ctx(), ctx.UUID, ctx.PackageDebFile)
	if err != nil {
		return err
	}
	if !ok {
		return &plugin.CommandExecutionError{Command: "gdebi", Cause: fmt.Errorf("root worker reported failure")}
	}
	return nil
}

// installOptions renders the context's method-specific options for error
// detail payloads, mirroring dict(ctx.install_options).
func installOptions(ctx *installctx.Context) map[string]interface{} {
	switch ctx.Method {
	case installctx.MethodGit:
		return map[string]interface{}{
			"url":          ctx.GitOptions.URL,
			"ref":          ctx.GitOptions.Ref,
			"subdirectory": ctx.GitOptions.Subdirectory,
		}
	case installctx.MethodMarket:
		return map[string]interface{}{
			"namespace": ctx.MarketOptions.Namespace,
			"name":      ctx.MarketOptions.Name,
			"version":   ctx.MarketOptions.Version,
		}
	default:
		return map[string]interface{}{}
	}
}
