package main

import (
	"context"
	"fmt"
	"os"

	"github.com/wazoplugind/wazo-plugind/internal/application/dispatcher"
	installapp "github.com/wazoplugind/wazo-plugind/internal/application/install"
	uninstallapp "github.com/wazoplugind/wazo-plugind/internal/application/uninstall"
	"github.com/wazoplugind/wazo-plugind/internal/httpapi"
	"github.com/wazoplugind/wazo-plugind/internal/infrastructure/auth"
	busInfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/bus"
	builderinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/builder"
	configinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/config"
	downloaderinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/downloader"
	logginginfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/logging"
	marketinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/market"
	registryinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/registry"
	"github.com/wazoplugind/wazo-plugind/internal/infrastructure/rootworker"
	validatorinfra "github.com/wazoplugind/wazo-plugind/internal/infrastructure/validator"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

func main() {
	// The daemon re-execs itself with this hidden flag to become the
	// privileged root worker: this branch must run before any cobra
	// parsing, config loading, or logger setup that would assume the
	// unprivileged parent's lifecycle.
	if len(os.Args) > 1 && os.Args[1] == rootworker.ChildModeFlag {
		if err := rootworker.RunChild(); err != nil {
			fmt.Fprintln(os.Stderr, err)
			os.Exit(1)
		}
		return
	}

	appLogger, err := logginginfra.New(logginginfra.Options{
		Level:     "info",
		Component: "cli",
		Layer:     "infrastructure",
	})
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to create application logger: %v\n", err)
		os.Exit(1)
	}

	correlationID := logginginfra.GenerateCorrelationID()
	ctx := logginginfra.WithCorrelationID(context.Background(), correlationID)

	configLoader := configinfra.NewYAMLLoader(appLogger.With("component", "yaml_loader"))
	cfg, err := configLoader.Load(ctx, configPathFromArgs())
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to load configuration: %v\n", err)
		os.Exit(1)
	}

	app, err := buildAppContext(ctx, cfg, appLogger)
	if err != nil {
		fmt.Fprintf(os.Stderr, "failed to initialize wazo-plugind: %v\n", err)
		os.Exit(1)
	}

	rootCmd := newRootCmd(app)
	appLogger.Info(ctx, "starting wazo-plugind command", "pid", os.Getpid())

	if err := rootCmd.ExecuteContext(ctx); err != nil {
		fmt.Fprintln(os.Stderr, err)
		os.Exit(1)
	}
}

// configPathFromArgs reads --config without going through cobra, since the
// config must be loaded before AppContext (and therefore the root command
// carrying the real --config flag definition) can be built.
func configPathFromArgs() string {
	for i, arg := range os.Args {
		if arg == "--config" && i+1 < len(os.Args) {
			return os.Args[i+1]
		}
	}
	return ""
}

// buildAppContext wires every long-lived service in dependency order:
// infrastructure adapters first, then the Dispatcher, then the application
// pipelines (which schedule dependency installs on it) wired back into it
// via SetPipelines, then the HTTP layer.
func buildAppContext(ctx context.Context, cfg *ports.Config, logger ports.Logger) (*AppContext, error) {
	selfPath, err := os.Executable()
	if err != nil {
		return nil, fmt.Errorf("resolving own executable path: %w", err)
	}

	registry := registryinfra.New(registryinfra.NewDpkgPackageDB(), cfg.Paths.MetadataDir, logger.With("component", "registry"))
	validator := validatorinfra.New(registry, logger.With("component", "validator"))
	marketClient := marketinfra.New(cfg.Market, logger.With("component", "market_client"))

	gitDownloader := downloaderinfra.NewGitDownloader(cfg.Paths.DownloadDir, logger.With("component", "git_downloader"))
	marketDownloader := downloaderinfra.NewMarketDownloader(marketClient, registry, gitDownloader, logger.With("component", "market_downloader"))
	downloader := downloaderinfra.NewRouter(gitDownloader, marketDownloader)

	builder := builderinfra.New(cfg.Paths.ExtractDir, logger.With("component", "builder"))

	rootWorker := rootworker.New(selfPath, logger.With("component", "root_worker"))

	publisher, err := busInfra.Dial(cfg.Bus, logger.With("component", "bus_publisher"))
	if err != nil {
		return nil, fmt.Errorf("connecting to message bus: %w", err)
	}

	verifier := auth.New(cfg.Auth, logger.With("component", "auth_verifier"))

	dispatch := dispatcher.New(registry, logger.With("component", "dispatcher"), cfg.Dispatch.MaxParallelInstalls)
	installPipeline := installapp.New(downloader, builder, validator, rootWorker, publisher, dispatch)
	uninstallPipeline := uninstallapp.New(rootWorker, publisher)
	dispatch.SetPipelines(installPipeline, uninstallPipeline)

	httpApp := &httpapi.App{
		Registry: registry,
		Market:   marketClient,
		Verifier: verifier,
		Dispatch: dispatch,
		Config:   cfg,
		Logger:   logger.With("component", "http_api"),
	}

	return &AppContext{
		Logger:     logger,
		Config:     cfg,
		RootWorker: rootWorker,
		Publisher:  publisher,
		Verifier:   verifier,
		Dispatch:   dispatch,
		HTTPApp:    httpApp,
	}, nil
}
