package downloader

import (
	"context"
	"testing"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	domainmarket "github.com/wazoplugind/wazo-plugind/internal/domain/market"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

type fakeMarketClient struct {
	entries []domainmarket.Entry
	err     error
}

func (f *fakeMarketClient) Fetch(ctx context.Context) ([]domainmarket.Entry, error) {
	return f.entries, f.err
}

// fakeMarketRegistry stands in for ports.Registry: only GetPlugin is
// exercised by MarketDownloader's annotation step.
type fakeMarketRegistry struct {
	installed map[plugin.Identity]string
}

func (f *fakeMarketRegistry) List(ctx context.Context) ([]plugin.Metadata, error) {
	return nil, nil
}

func (f *fakeMarketRegistry) IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error) {
	_, ok := f.installed[id]
	return ok, nil
}

func (f *fakeMarketRegistry) GetPlugin(ctx context.Context, id plugin.Identity) (plugin.Metadata, error) {
	version, ok := f.installed[id]
	if !ok {
		return plugin.Metadata{}, &plugin.NotFoundError{Identity: id}
	}
	return plugin.Metadata{Namespace: id.Namespace, Name: id.Name, Version: version}, nil
}

type fakeNextDownloader struct {
	called  bool
	lastCtx *installctx.Context
}

func (f *fakeNextDownloader) Download(ctx *installctx.Context) error {
	f.called = true
	f.lastCtx = ctx
	ctx.DownloadPath = "/fake/path"
	return nil
}

func newInstallCtx(namespace, name, version string) *installctx.Context {
	ctx := installctx.New(context.Background(), "uuid-1", installctx.MethodMarket, "19.01", nil)
	ctx.MarketOptions = installctx.MarketOptions{Namespace: namespace, Name: name, Version: version}
	return ctx
}

// Rows arrive from MarketClient.Fetch unannotated (Upgradable always false,
// no InstalledVersion) — upgradability here comes entirely from
// MarketDownloader running them through market.Annotate against the
// registry and the context's host version, the same as the production
// wiring does, not from hand-set fixture fields.
func TestMarketDownloaderResolvesFirstUpgradableRow(t *testing.T) {
	client := &fakeMarketClient{entries: []domainmarket.Entry{{
		Namespace: "plugindtests",
		Name:      "foobar",
		Versions: []domainmarket.VersionRow{
			{Version: "1.0.0", Method: "git", MinWazoVersion: "20.01", Options: map[string]interface{}{"url": "https://example.invalid/old.git"}},
			{Version: "2.0.0", Method: "git", Options: map[string]interface{}{"url": "https://example.invalid/new.git", "ref": "main"}},
		},
	}}}
	registry := &fakeMarketRegistry{installed: map[plugin.Identity]string{}}
	next := &fakeNextDownloader{}
	d := NewMarketDownloader(client, registry, next, nil)

	ctx := newInstallCtx("plugindtests", "foobar", "")
	require.NoError(t, d.Download(ctx))

	assert.True(t, next.called)
	assert.Equal(t, installctx.MethodGit, ctx.Method)
	assert.Equal(t, "https://example.invalid/new.git", ctx.GitOptions.URL)
	assert.Equal(t, "main", ctx.GitOptions.Ref)
	assert.Equal(t, "/fake/path", ctx.DownloadPath)
}

func TestMarketDownloaderExactVersionMustBeUpgradable(t *testing.T) {
	client := &fakeMarketClient{entries: []domainmarket.Entry{{
		Namespace: "plugindtests",
		Name:      "foobar",
		Versions: []domainmarket.VersionRow{
			{Version: "1.0.0", Method: "git"},
		},
	}}}
	identity := plugin.Identity{Namespace: "plugindtests", Name: "foobar"}
	registry := &fakeMarketRegistry{installed: map[plugin.Identity]string{identity: "1.0.0"}}
	next := &fakeNextDownloader{}
	d := NewMarketDownloader(client, registry, next, nil)

	ctx := newInstallCtx("plugindtests", "foobar", "1.0.0")
	err := d.Download(ctx)
	require.Error(t, err)

	var alreadyInstalled *plugin.DependencyAlreadyInstalledError
	require.ErrorAs(t, err, &alreadyInstalled)
	assert.False(t, next.called)
}

func TestMarketDownloaderNotFound(t *testing.T) {
	client := &fakeMarketClient{entries: nil}
	registry := &fakeMarketRegistry{installed: map[plugin.Identity]string{}}
	d := NewMarketDownloader(client, registry, &fakeNextDownloader{}, nil)

	ctx := newInstallCtx("plugindtests", "missing", "")
	err := d.Download(ctx)
	require.Error(t, err)

	var notFound *domainmarket.NotFoundError
	require.ErrorAs(t, err, &notFound)
}
