package dispatcher

import (
	"context"
	"sync"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/application/install"
	"github.com/wazoplugind/wazo-plugind/internal/application/uninstall"
	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

type fakeRegistry struct {
	installed map[string]bool
}

func (f *fakeRegistry) List(ctx context.Context) ([]plugin.Metadata, error) { return nil, nil }
func (f *fakeRegistry) IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error) {
	return f.installed[id.String()], nil
}
func (f *fakeRegistry) GetPlugin(ctx context.Context, id plugin.Identity) (plugin.Metadata, error) {
	return plugin.Metadata{}, &plugin.NotFoundError{Identity: id}
}

type countingPublisher struct {
	mu     sync.Mutex
	events []string
}

func (c *countingPublisher) PublishInstallProgress(ctx context.Context, uuid, status string, errs *ports.ErrorPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "install:"+status)
	return nil
}
func (c *countingPublisher) PublishUninstallProgress(ctx context.Context, uuid, status string, errs *ports.ErrorPayload) error {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.events = append(c.events, "uninstall:"+status)
	return nil
}
func (c *countingPublisher) Close(ctx context.Context) error { return nil }
func (c *countingPublisher) snapshot() []string {
	c.mu.Lock()
	defer c.mu.Unlock()
	out := make([]string, len(c.events))
	copy(out, c.events)
	return out
}

type noopDownloader struct{}

func (noopDownloader) Download(ctx *installctx.Context) error {
	ctx.DownloadPath = "/tmp/download"
	return nil
}

type noopBuilder struct{}

func (noopBuilder) Extract(ctx *installctx.Context) error {
	ctx.ExtractPath = "/tmp/extract"
	ctx.Metadata = &plugin.Metadata{Namespace: "plugindtests", Name: "foobar", Version: "1.0.0"}
	return nil
}
func (noopBuilder) Build(ctx *installctx.Context) error     { return nil }
func (noopBuilder) Package(ctx *installctx.Context) error   { ctx.PackageDebFile = "/tmp/pkg.deb"; return nil }
func (noopBuilder) Debianize(ctx *installctx.Context) error { return nil }
func (noopBuilder) Cleanup(ctx *installctx.Context) error   { return nil }

type noopValidator struct{}

func (noopValidator) Load(ctx context.Context, path string) (plugin.Metadata, error) {
	return plugin.Metadata{}, nil
}
func (noopValidator) Validate(ctx context.Context, meta plugin.Metadata, hostVersion string, reinstall bool) error {
	return nil
}

type noopRootWorker struct{}

func (noopRootWorker) Update(ctx context.Context, uuid string) (bool, error) { return true, nil }
func (noopRootWorker) Install(ctx context.Context, uuid, artifactPath string) (bool, error) {
	return true, nil
}
func (noopRootWorker) Uninstall(ctx context.Context, uuid, packageName string) (bool, error) {
	return true, nil
}
func (noopRootWorker) Start(ctx context.Context) error { return nil }
func (noopRootWorker) Stop(ctx context.Context) error  { return nil }

func newTestDispatcher(registry *fakeRegistry, publisher *countingPublisher) *Dispatcher {
	d := New(registry, nil, 2)
	installPipeline := install.New(noopDownloader{}, noopBuilder{}, noopValidator{}, noopRootWorker{}, publisher, d)
	uninstallPipeline := uninstall.New(noopRootWorker{}, publisher)
	d.SetPipelines(installPipeline, uninstallPipeline)
	return d
}

func TestDispatcherInstallReturnsUUIDImmediatelyAndRunsAsync(t *testing.T) {
	publisher := &countingPublisher{}
	d := newTestDispatcher(&fakeRegistry{installed: map[string]bool{}}, publisher)

	uuid, err := d.Install(context.Background(), installctx.MethodGit, installctx.GitOptions{URL: "file:///data/git/repo"}, installctx.MarketOptions{}, installctx.Params{}, "19.01")
	require.NoError(t, err)
	assert.NotEmpty(t, uuid)

	d.Shutdown(context.Background())
	assert.Contains(t, publisher.snapshot(), "install:completed")
}

func TestDispatcherUninstallReturnsNotFoundWithoutScheduling(t *testing.T) {
	publisher := &countingPublisher{}
	d := newTestDispatcher(&fakeRegistry{installed: map[string]bool{}}, publisher)

	id := plugin.Identity{Namespace: "plugindtests", Name: "foobar"}
	_, err := d.Uninstall(context.Background(), id, "19.01")
	require.Error(t, err)

	var notFound *plugin.NotFoundError
	assert.ErrorAs(t, err, &notFound)

	d.Shutdown(context.Background())
	assert.Empty(t, publisher.snapshot())
}

func TestDispatcherUninstallSchedulesWhenInstalled(t *testing.T) {
	publisher := &countingPublisher{}
	id := plugin.Identity{Namespace: "plugindtests", Name: "foobar"}
	d := newTestDispatcher(&fakeRegistry{installed: map[string]bool{id.String(): true}}, publisher)

	uuid, err := d.Uninstall(context.Background(), id, "19.01")
	require.NoError(t, err)
	assert.NotEmpty(t, uuid)

	d.Shutdown(context.Background())
	assert.Contains(t, publisher.snapshot(), "uninstall:completed")
}

func TestDispatcherShutdownRespectsContextDeadline(t *testing.T) {
	publisher := &countingPublisher{}
	d := newTestDispatcher(&fakeRegistry{}, publisher)

	ctx, cancel := context.WithTimeout(context.Background(), 10*time.Millisecond)
	defer cancel()
	d.Shutdown(ctx)
}
