package ports

import "context"

// RootWorker is the privileged helper process accepting exactly three
// operations. The parent daemon never performs privileged
// package operations directly; every call here crosses the privilege
// boundary and is synchronous from the caller's perspective.
type RootWorker interface {
	// Update runs the system's package-index refresh.
	Update(ctx context.Context, uuid string) (bool, error)

	// Install installs a native package artifact with automatic dependency
	// resolution, non-interactively.
	Install(ctx context.Context, uuid string, artifactPath string) (bool, error)

	// Uninstall removes a native package by name, non-interactively.
	Uninstall(ctx context.Context, uuid string, packageName string) (bool, error)

	// Start spawns the worker process. Must be called once at daemon
	// startup before any of Update/Install/Uninstall.
	Start(ctx context.Context) error

	// Stop signals the worker to exit and waits for it, used during
	// graceful shutdown.
	Stop(ctx context.Context) error
}
