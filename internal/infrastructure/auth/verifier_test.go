package auth

import (
	"context"
	"encoding/json"
	"net/http"
	"net/http/httptest"
	"testing"
	"time"

	"github.com/golang-jwt/jwt/v5"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"github.com/wazoplugind/wazo-plugind/internal/ports"
)

func signedToken(t *testing.T, tenantUUID string) string {
	t.Helper()
	token := jwt.NewWithClaims(jwt.SigningMethodHS256, claims{
		TenantUUID: tenantUUID,
	})
	signed, err := token.SignedString([]byte("unused-secret"))
	require.NoError(t, err)
	return signed
}

func TestVerifierNotReadyBeforeFirstRefresh(t *testing.T) {
	v := New(ports.AuthConfig{Host: "127.0.0.1", Port: 1}, nil)
	assert.False(t, v.Ready())
}

func TestVerifierResolvesMasterTenantFromRefresh(t *testing.T) {
	server := httptest.NewServer(http.HandlerFunc(func(w http.ResponseWriter, r *http.Request) {
		_ = json.NewEncoder(w).Encode(tenantsResponse{Items: []struct {
			UUID     string `json:"uuid"`
			ParentID string `json:"parent_uuid"`
		}{
			{UUID: "master-uuid", ParentID: ""},
			{UUID: "child-uuid", ParentID: "master-uuid"},
		}})
	}))
	defer server.Close()

	v := New(ports.AuthConfig{}, nil)
	v.baseURL = server.URL

	require.NoError(t, v.RefreshMasterTenant(t.Context()))
	assert.True(t, v.Ready())

	claims, err := v.Verify(t.Context(), signedToken(t, "master-uuid"))
	require.NoError(t, err)
	assert.True(t, claims.MasterTenant)
	assert.Equal(t, "master-uuid", claims.TenantUUID)

	claims, err = v.Verify(t.Context(), signedToken(t, "child-uuid"))
	require.NoError(t, err)
	assert.False(t, claims.MasterTenant)
}

func TestVerifierRejectsMalformedToken(t *testing.T) {
	v := New(ports.AuthConfig{}, nil)
	_, err := v.Verify(t.Context(), "not-a-jwt")
	assert.Error(t, err)
}

func TestVerifierRunStopsOnContextCancel(t *testing.T) {
	v := New(ports.AuthConfig{Host: "127.0.0.1", Port: 1}, nil)
	ctx, cancel := context.WithTimeout(t.Context(), 50*time.Millisecond)
	defer cancel()

	done := make(chan struct{})
	go func() {
		v.Run(ctx, 10*time.Millisecond)
		close(done)
	}()

	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Run did not return after context cancellation")
	}
}
