package builder

import (
	"embed"
	"fmt"
	"os"
	"os/exec"
	"path/filepath"
	"strings"
	"text/template"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

//go:embed templates/*.tmpl
var templateFS embed.FS

var templateFuncs = template.FuncMap{
	"join": strings.Join,
}

type templateContext struct {
	Namespace       string
	Name            string
	Version         string
	Section         string
	DebianDepends   []string
	RulesPath       string
	BackupRulesPath string
}

// maintainerScriptMode are the files debian.py Generator marks executable.
var maintainerScriptMode = map[string]bool{
	"postinst.tmpl": true,
	"prerm.tmpl":    true,
	"postrm.tmpl":   true,
}

var generatedFiles = map[string]string{
	"control":  "control.tmpl",
	"postinst": "postinst.tmpl",
	"prerm":    "prerm.tmpl",
	"postrm":   "postrm.tmpl",
}

func (b *Builder) Debianize(ctx *installctx.Context) error {
	meta := ctx.Metadata
	if ctx.Logger() != nil {
		ctx.Logger().Debug(ctx.Ctx(), "debianizing plugin", "namespace", meta.Namespace, "name", meta.Name)
	}

	debianDepends := mergedDebianDepends(meta)

	tmplCtx := templateContext{
		Namespace:       meta.Namespace,
		Name:            meta.Name,
		Version:         meta.Version,
		Section:         debianPackageSection,
		DebianDepends:   debianDepends,
		RulesPath:       filepath.Join("/usr/lib/wazo-plugind/plugins", meta.Namespace, meta.Name, "rules"),
		BackupRulesPath: filepath.Join("/var/lib/wazo-plugind/rules", fmt.Sprintf("rules.%s.%s", meta.Name, meta.Namespace)),
	}

	debianDir := filepath.Join(ctx.Pkgdir, "DEBIAN")
	if err := os.MkdirAll(debianDir, 0o755); err != nil {
		return fmt.Errorf("creating DEBIAN dir: %w", err)
	}

	for name, file := range generatedFiles {
		if err := renderTemplate(debianDir, name, file, tmplCtx); err != nil {
			return err
		}
	}

	cmd := exec.CommandContext(ctx.Ctx(), "dpkg-deb", "--build", ctx.Pkgdir)
	cmd.Dir = ctx.ExtractPath
	if err := runLogged(ctx, cmd); err != nil {
		return fmt.Errorf("building native package: %w", err)
	}

	ctx.PackageDebFile = filepath.Join(ctx.ExtractPath, buildDir+".deb")
	return nil
}

func renderTemplate(debianDir, name, file string, tmplCtx templateContext) error {
	raw, err := templateFS.ReadFile("templates/" + file)
	if err != nil {
		return fmt.Errorf("reading %s template: %w", name, err)
	}
	tmpl, err := template.New(file).Funcs(templateFuncs).Parse(string(raw))
	if err != nil {
		return fmt.Errorf("parsing %s template: %w", name, err)
	}

	path := filepath.Join(debianDir, name)
	f, err := os.Create(path)
	if err != nil {
		return fmt.Errorf("creating %s: %w", name, err)
	}
	defer f.Close()

	if err := tmpl.Execute(f, tmplCtx); err != nil {
		return fmt.Errorf("rendering %s: %w", name, err)
	}

	if maintainerScriptMode[file] {
		if err := os.Chmod(path, 0o755); err != nil {
			return fmt.Errorf("marking %s executable: %w", name, err)
		}
	}
	return nil
}

// mergedDebianDepends is the union of declared debian_depends plus, for each
// plugin dependency, the canonical wazo-plugind-<name>-<namespace> package
// name.
func mergedDebianDepends(meta *plugin.Metadata) []string {
	depends := make([]string, 0, len(meta.DebianDepends)+len(meta.Depends))
	depends = append(depends, meta.DebianDepends...)
	for _, dep := range meta.Depends {
		depends = append(depends, dep.Identity().PackageName())
	}
	return depends
}
