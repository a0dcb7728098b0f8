package registry

import (
	"context"
	"os"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

// Registry implements ports.Registry: it scans installed native packages
// under the reserved section and reads each plugin's metadata file on
// demand. Nothing is cached across requests.
type Registry struct {
	packageDB   PackageDB
	metadataDir string
	logger      ports.Logger
}

func New(packageDB PackageDB, metadataDir string, logger ports.Logger) *Registry {
	return &Registry{packageDB: packageDB, metadataDir: metadataDir, logger: logger}
}

func (r *Registry) List(ctx context.Context) ([]plugin.Metadata, error) {
	packages, err := r.packageDB.ListSection(ctx, plugin.ReservedSection)
	if err != nil {
		return nil, err
	}

	out := make([]plugin.Metadata, 0, len(packages))
	for _, pkg := range packages {
		id, ok := plugin.ParsePackageName(pkg)
		if !ok {
			continue
		}

		meta, err := r.readMetadata(id)
		if err != nil {
			if r.logger != nil {
				r.logger.Warn(ctx, "skipping plugin with unreadable metadata", "package", pkg, "error", err)
			}
			continue
		}
		out = append(out, meta)
	}
	return out, nil
}

func (r *Registry) IsInstalled(ctx context.Context, id plugin.Identity, version string) (bool, error) {
	meta, err := r.readMetadata(id)
	if err != nil {
		return false, nil
	}
	if version == "" {
		return true, nil
	}
	return meta.Version == version, nil
}

func (r *Registry) GetPlugin(ctx context.Context, id plugin.Identity) (plugin.Metadata, error) {
	meta, err := r.readMetadata(id)
	if err != nil {
		return plugin.Metadata{}, &plugin.NotFoundError{Identity: id}
	}
	return meta, nil
}

// metadataPath returns <metadata_dir>/<namespace>/<name>/wazo/plugin.yml.
func (r *Registry) metadataPath(id plugin.Identity) string {
	return filepath.Join(r.metadataDir, id.Namespace, id.Name, "wazo", "plugin.yml")
}

func (r *Registry) readMetadata(id plugin.Identity) (plugin.Metadata, error) {
	raw, err := os.ReadFile(r.metadataPath(id))
	if err != nil {
		return plugin.Metadata{}, err
	}
	var meta plugin.Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return plugin.Metadata{}, err
	}
	return meta, nil
}

var _ ports.Registry = (*Registry)(nil)
