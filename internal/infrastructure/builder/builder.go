// Package builder implements ports.PackageBuilder: extraction, the plugin's
// own build/package lifecycle scripts, and native-package generation,
// grounded on tasks.py _PackageBuilder and debian.py Generator.
package builder

import (
	"fmt"
	"os"
	"os/exec"
	"path/filepath"

	"gopkg.in/yaml.v3"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

const (
	pluginDataDir           = "wazo"
	defaultMetadataFilename = "wazo/plugin.yml"
	defaultInstallFilename  = "wazo/rules"
	buildDir                = "_pkg"
	debianPackageSection    = plugin.ReservedSection
)

// Builder implements ports.PackageBuilder against the host filesystem.
type Builder struct {
	extractDir string
	logger     ports.Logger
}

func New(extractDir string, logger ports.Logger) *Builder {
	return &Builder{extractDir: extractDir, logger: logger}
}

func (b *Builder) Extract(ctx *installctx.Context) error {
	extractPath := filepath.Join(b.extractDir, ctx.UUID)
	if err := os.RemoveAll(extractPath); err != nil {
		return fmt.Errorf("clearing stale extract path: %w", err)
	}

	downloadPath := ctx.DownloadPath
	if ctx.Logger() != nil {
		ctx.Logger().Debug(ctx.Ctx(), "extracting plugin", "from", downloadPath, "to", extractPath)
	}
	if err := os.MkdirAll(filepath.Dir(extractPath), 0o755); err != nil {
		return fmt.Errorf("preparing extract parent dir: %w", err)
	}
	if err := os.Rename(downloadPath, extractPath); err != nil {
		return fmt.Errorf("moving download to extract path: %w", err)
	}

	metadataPath := filepath.Join(extractPath, defaultMetadataFilename)
	raw, err := os.ReadFile(metadataPath)
	if err != nil {
		return fmt.Errorf("reading plugin metadata: %w", err)
	}
	var meta plugin.Metadata
	if err := yaml.Unmarshal(raw, &meta); err != nil {
		return fmt.Errorf("parsing plugin metadata: %w", err)
	}

	ctx.ExtractPath = extractPath
	ctx.Metadata = &meta
	return nil
}

func (b *Builder) Build(ctx *installctx.Context) error {
	installerPath := filepath.Join(ctx.ExtractPath, defaultInstallFilename)
	ctx.InstallerPath = installerPath

	if ctx.Logger() != nil {
		ctx.Logger().Debug(ctx.Ctx(), "building plugin", "installer", installerPath)
	}

	cmd := exec.CommandContext(ctx.Ctx(), installerPath, "build")
	cmd.Dir = ctx.ExtractPath
	return runLogged(ctx, cmd)
}

func (b *Builder) Package(ctx *installctx.Context) error {
	pkgdir := filepath.Join(ctx.ExtractPath, buildDir)
	if err := os.MkdirAll(pkgdir, 0o755); err != nil {
		return fmt.Errorf("creating staging root: %w", err)
	}

	cmd := exec.CommandContext(ctx.Ctx(), "fakeroot", ctx.InstallerPath, "package")
	cmd.Dir = ctx.ExtractPath
	cmd.Env = append(os.Environ(), "pkgdir="+pkgdir)
	if err := runLogged(ctx, cmd); err != nil {
		return fmt.Errorf("running package step: %w", err)
	}

	destDir := filepath.Join(pkgdir, "usr", "lib", "wazo-plugind", "plugins", ctx.Metadata.Namespace, ctx.Metadata.Name)
	if err := os.MkdirAll(filepath.Dir(destDir), 0o755); err != nil {
		return fmt.Errorf("creating plugin data destination: %w", err)
	}

	srcDir := filepath.Join(ctx.ExtractPath, pluginDataDir)
	copyCmd := exec.CommandContext(ctx.Ctx(), "fakeroot", "cp", "-R", srcDir, destDir)
	copyCmd.Dir = ctx.ExtractPath
	if err := runLogged(ctx, copyCmd); err != nil {
		return fmt.Errorf("staging plugin data: %w", err)
	}

	ctx.Pkgdir = pkgdir
	ctx.PackageName = ctx.Metadata.Identity().PackageName()
	return nil
}

func (b *Builder) Cleanup(ctx *installctx.Context) error {
	if ctx.ExtractPath == "" {
		return nil
	}
	if ctx.Logger() != nil {
		ctx.Logger().Debug(ctx.Ctx(), "removing build directory", "path", ctx.ExtractPath)
	}
	return os.RemoveAll(ctx.ExtractPath)
}

var _ ports.PackageBuilder = (*Builder)(nil)
