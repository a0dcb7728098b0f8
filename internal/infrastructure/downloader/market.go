package downloader

import (
	"context"
	"fmt"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	domainmarket "github.com/wazoplugind/wazo-plugind/internal/domain/market"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// MarketDownloader resolves a (namespace, name[, version]) market request to
// a concrete row in the catalog, rewrites the context to that row's method,
// and recurses into the underlying Downloader.
//
// Kept distinct from GitDownloader so the two can be composed behind
// Router: MarketDownloader always assumes its input is a market request.
type MarketDownloader struct {
	market   ports.MarketClient
	registry ports.Registry
	next     ports.Downloader
	logger   ports.Logger
}

func NewMarketDownloader(market ports.MarketClient, registry ports.Registry, next ports.Downloader, logger ports.Logger) *MarketDownloader {
	return &MarketDownloader{market: market, registry: registry, next: next, logger: logger}
}

func (d *MarketDownloader) Download(ctx *installctx.Context) error {
	opts := ctx.MarketOptions
	identity := plugin.Identity{Namespace: opts.Namespace, Name: opts.Name}

	entries, err := d.market.Fetch(ctx.Ctx())
	if err != nil {
		return fmt.Errorf("fetching market catalog: %w", err)
	}
	entries = domainmarket.Annotate(entries, ctx.HostVersion, d.installedVersionLookup(ctx.Ctx()))

	entry, ok := findEntry(entries, opts.Namespace, opts.Name)
	if !ok {
		return &domainmarket.NotFoundError{Namespace: opts.Namespace, Name: opts.Name}
	}

	row, rowOK := selectRow(entry, opts.Version)
	if !rowOK {
		if entry.IsInstalled() {
			return &plugin.DependencyAlreadyInstalledError{Identity: identity, Version: entry.InstalledVersion}
		}
		return fmt.Errorf("no installable version found for %s", identity)
	}

	ctx.Method = installctx.Method(row.Method)
	switch ctx.Method {
	case installctx.MethodGit:
		ctx.GitOptions = gitOptionsFromRow(row)
	default:
		return fmt.Errorf("market row for %s has unsupported method %q", identity, row.Method)
	}

	if ctx.Logger() != nil {
		ctx.Logger().Info(ctx.Ctx(), "resolved market plugin to download method", "identity", identity.String(), "version", row.Version, "method", row.Method)
	}

	return d.next.Download(ctx)
}

// installedVersionLookup adapts ports.Registry.GetPlugin to
// domainmarket.InstalledVersionLookup, mirroring the HTTP layer's
// installedVersionLookup (internal/httpapi/handlers_market.go) — the
// downloader needs the same installed/upgradable annotation the market
// listing endpoints compute, since row.Upgradable and the entry's
// installed state are otherwise never populated on entries coming
// straight from MarketClient.Fetch.
func (d *MarketDownloader) installedVersionLookup(ctx context.Context) domainmarket.InstalledVersionLookup {
	return func(namespace, name string) (string, bool) {
		meta, err := d.registry.GetPlugin(ctx, plugin.Identity{Namespace: namespace, Name: name})
		if err != nil {
			return "", false
		}
		return meta.Version, true
	}
}

func findEntry(entries []domainmarket.Entry, namespace, name string) (domainmarket.Entry, bool) {
	for _, e := range entries {
		if e.Namespace == namespace && e.Name == name {
			return e, true
		}
	}
	return domainmarket.Entry{}, false
}

// selectRow implements the version-selection rule: an exact,
// upgradable version match when version was requested, otherwise the first
// upgradable row.
func selectRow(entry domainmarket.Entry, version string) (domainmarket.VersionRow, bool) {
	if version != "" {
		for _, row := range entry.Versions {
			if row.Version == version && row.Upgradable {
				return row, true
			}
		}
		return domainmarket.VersionRow{}, false
	}
	for _, row := range entry.Versions {
		if row.Upgradable {
			return row, true
		}
	}
	return domainmarket.VersionRow{}, false
}

func gitOptionsFromRow(row domainmarket.VersionRow) installctx.GitOptions {
	opts := installctx.GitOptions{}
	if url, ok := row.Options["url"].(string); ok {
		opts.URL = url
	}
	if ref, ok := row.Options["ref"].(string); ok {
		opts.Ref = ref
	}
	if sub, ok := row.Options["subdirectory"].(string); ok {
		opts.Subdirectory = sub
	}
	return opts
}

var _ ports.Downloader = (*MarketDownloader)(nil)
