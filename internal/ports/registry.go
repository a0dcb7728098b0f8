package ports

import (
	"context"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

// Registry enumerates installed plugins by scanning the host's installed
// native packages. Implementations read on demand; results
// are never cached across requests.
type Registry interface {
	// List enumerates native packages under the reserved section, reads
	// each plugin's metadata file, and skips (logging, not failing on) any
	// package whose metadata file is missing or unreadable.
	List(ctx context.Context) ([]plugin.Metadata, error)

	// IsInstalled reports whether the plugin's metadata file exists and
	// parses. When version is non-empty, it additionally requires exact
	// string equality with the metadata's version field.
	IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error)

	// GetPlugin reads and returns a single installed plugin's metadata.
	// Implementations return a *plugin.NotFoundError when absent.
	GetPlugin(ctx context.Context, id plugin.Identity) (plugin.Metadata, error)
}
