package ports

import (
	"context"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

// MetadataValidator loads a plugin's metadata file and validates it against
// the schema and host-version bounds.
type MetadataValidator interface {
	// Load reads and parses the metadata file at path (wazo/plugin.yml by
	// convention) into a plugin.Metadata.
	Load(ctx context.Context, path string) (plugin.Metadata, error)

	// Validate checks already-parsed metadata: identifier regex rules,
	// plugin_format_version against the daemon's supported maximum, and
	// hostVersion against [min_wazo_version, max_wazo_version]. On any
	// failure it returns a *plugin.ValidationError. If reinstall is false
	// and the registry already holds the exact (namespace, name, version),
	// it returns a *plugin.AlreadyInstalledError instead, a non-error,
	// pipeline-terminal outcome.
	Validate(ctx context.Context, meta plugin.Metadata, hostVersion string, reinstall bool) error
}
