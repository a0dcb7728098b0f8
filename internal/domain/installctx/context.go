// Package installctx defines the per-request install/uninstall context value
// object: immutable identity fields set by the Dispatcher, plus mutable
// fields filled in by successive pipeline stages.
// Exactly one goroutine ever mutates a given Context, so no locking is
// required around it.
package installctx

import (
	"context"

	"github.com/wazoplugind/wazo-plugind/internal/domain/plugin"
)

// Logger is the structured-logging contract used throughout the daemon.
// It is defined here, rather than in internal/ports, so that
// internal/ports (which references installctx.Context in its interfaces)
// can alias this type without creating an import cycle; ports.Logger is a
// type alias for installctx.Logger.
type Logger interface {
	Debug(ctx context.Context, msg string, fields ...interface{})
	Info(ctx context.Context, msg string, fields ...interface{})
	Warn(ctx context.Context, msg string, fields ...interface{})
	Error(ctx context.Context, msg string, fields ...interface{})
	With(fields ...interface{}) Logger

	// WithPlugin derives a logger bound to a plugin identity, so every
	// entry it emits carries the namespace/name pair without the caller
	// repeating it at each log site.
	WithPlugin(identity plugin.Identity) Logger
}

// Method is the install-options variant: "git" clones a source-control
// repository directly, "market" resolves through the catalog first.
type Method string

const (
	MethodGit    Method = "git"
	MethodMarket Method = "market"
)

// GitOptions is the install_options shape for Method: git.
type GitOptions struct {
	URL         string
	Ref         string
	Subdirectory string
}

// MarketOptions is the install_options shape for Method: market.
type MarketOptions struct {
	Namespace string
	Name      string
	Version   string
}

// Params mirrors install_params (e.g. reinstall).
type Params struct {
	Reinstall bool
}

// Context is the mutable/immutable value object threaded through a single
// install pipeline run. Immutable fields are set once by the Dispatcher;
// mutable fields are filled in by pipeline stages as the state machine
// advances.
type Context struct {
	// Immutable identity fields.
	UUID          string
	Method        Method
	GitOptions    GitOptions
	MarketOptions MarketOptions
	Params        Params
	HostVersion   string

	// Mutable, filled in by pipeline stages.
	DownloadPath   string
	ExtractPath    string
	Metadata       *plugin.Metadata
	InstallerPath  string
	Pkgdir         string
	PackageDebFile string
	PackageName    string

	// DependencyChain tracks the identities already being installed along
	// this recursive chain, guarding against cyclic `depends` declarations.
	DependencyChain []plugin.Identity

	// ctx carries cancellation for cooperative shutdown; logger
	// is pre-bound with the request uuid so every log line it emits carries
	// correlation.
	ctx    context.Context
	logger Logger
}

// New constructs a fresh Context for a top-level install request.
func New(ctx context.Context, uuid string, method Method, hostVersion string, logger Logger) *Context {
	boundLogger := logger
	if boundLogger != nil {
		boundLogger = boundLogger.With("uuid", uuid)
	}
	return &Context{
		UUID:        uuid,
		Method:      method,
		HostVersion: hostVersion,
		ctx:         ctx,
		logger:      boundLogger,
	}
}

// Ctx returns the bound context.Context.
func (c *Context) Ctx() context.Context {
	if c.ctx == nil {
		return context.Background()
	}
	return c.ctx
}

// Logger returns the request-scoped logger.
func (c *Context) Logger() Logger {
	return c.logger
}

// ChildFor returns a child Context for a recursive dependency
// install: a fresh uuid and market install options, but the dependency chain
// extended with the identity being entered and the host version inherited.
func (c *Context) ChildFor(uuid string, identity plugin.Identity, marketOptions MarketOptions) *Context {
	chain := make([]plugin.Identity, len(c.DependencyChain), len(c.DependencyChain)+1)
	copy(chain, c.DependencyChain)
	chain = append(chain, identity)

	boundLogger := c.logger
	if boundLogger != nil {
		boundLogger = boundLogger.With("uuid", uuid).WithPlugin(identity)
	}

	return &Context{
		UUID:            uuid,
		Method:          MethodMarket,
		MarketOptions:   marketOptions,
		HostVersion:     c.HostVersion,
		DependencyChain: chain,
		ctx:             c.ctx,
		logger:          boundLogger,
	}
}

// InChain reports whether identity is already present in the dependency
// chain leading to this context, i.e. recursing into it would cycle.
func (c *Context) InChain(identity plugin.Identity) bool {
	for _, id := range c.DependencyChain {
		if id == identity {
			return true
		}
	}
	return false
}
