package ports

import "github.com/wazoplugind/wazo-plugind/internal/domain/installctx"

// PackageBuilder takes a downloaded plugin tree through extraction, the
// plugin's own build/package lifecycle scripts, and native-package
// generation. Each method corresponds to one install
// pipeline state and mutates ctx in place (ExtractPath, Metadata,
// InstallerPath, Pkgdir, PackageDebFile, PackageName).
type PackageBuilder interface {
	// Extract moves the downloaded tree to <extract_dir>/<uuid> (or a
	// requested subdirectory thereof) and reads the metadata file,
	// populating ctx.ExtractPath and ctx.Metadata.
	Extract(ctx *installctx.Context) error

	// Build runs the plugin's installer script with argument "build",
	// working directory ctx.ExtractPath, streaming output to the logger.
	Build(ctx *installctx.Context) error

	// Package stages the plugin's payload under a fakeroot build
	// directory and runs the installer with argument "package".
	Package(ctx *installctx.Context) error

	// Debianize renders control/postinst/prerm/postrm from templates and
	// invokes the native packager to produce ctx.PackageDebFile.
	Debianize(ctx *installctx.Context) error

	// Cleanup removes ctx.ExtractPath. Called on every non-"completed"
	// pipeline exit, and also after a successful install.
	Cleanup(ctx *installctx.Context) error
}
