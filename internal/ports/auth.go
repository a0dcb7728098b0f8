package ports

import "context"

// Claims is the structurally-parsed subset of a bearer token's claims the
// HTTP middleware cares about: which tenant issued the call, and whether
// that tenant is the master tenant permitted to call mutating endpoints.
type Claims struct {
	TenantUUID   string
	MasterTenant bool
}

// TokenVerifier validates a bearer token against the identity service. The
// identity service itself is out of scope; this interface is the narrow
// seam the HTTP middleware depends on so a real remote JWKS-backed
// implementation can be substituted without touching the core.
type TokenVerifier interface {
	Verify(ctx context.Context, token string) (Claims, error)

	// Ready reports whether the master tenant has been learned from the
	// identity service yet; while false, mutating endpoints return 503
	// not-initialized.
	Ready() bool
}
