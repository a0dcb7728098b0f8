package ports

import (
	"context"
	"crypto/rand"
	"encoding/hex"
	"fmt"

	"github.com/wazoplugind/wazo-plugind/internal/domain/installctx"
)

// Logger defines the daemon's structured logging contract. All log calls are
// key/value pairs, must be safe for concurrent use, and should automatically
// enrich entries with a correlation ID when present in context. Common
// fields include:
//   - correlation_id (UUIDv4, generated at HTTP request / CLI entry)
//   - layer (domain|application|infrastructure)
//   - component (registry, downloader, install_pipeline, etc.)
//   - uuid (the install/uninstall request identifier, bound once per Context)
//   - plugin (namespace/name, bound via WithPlugin for a single plugin's
//     recursive dependency chain)
//
// Logger is a type alias for installctx.Logger: the request context carries
// a pre-bound Logger directly, so the contract is defined there to avoid an
// import cycle (installctx cannot import ports, since ports references
// installctx.Context in its interfaces).
type Logger = installctx.Logger

type correlationIDKey struct{}

// WithCorrelationID attaches the provided correlation ID to the context so
// downstream layers can emit correlated logs.
func WithCorrelationID(ctx context.Context, id string) context.Context {
	return context.WithValue(ctx, correlationIDKey{}, id)
}

// GetCorrelationID extracts a correlation ID from context. It returns an
// empty string when none has been set.
func GetCorrelationID(ctx context.Context) string {
	if ctx == nil {
		return ""
	}
	if id, ok := ctx.Value(correlationIDKey{}).(string); ok {
		return id
	}
	return ""
}

// GenerateCorrelationID produces a new UUIDv4 string suitable for log
// correlation and request uuid minting.
func GenerateCorrelationID() string {
	var b [16]byte
	if _, err := rand.Read(b[:]); err != nil {
		panic(fmt.Sprintf("failed to generate correlation id: %v", err))
	}
	b[6] = (b[6] & 0x0f) | 0x40
	b[8] = (b[8] & 0x3f) | 0x80

	var encoded [32]byte
	hex.Encode(encoded[:], b[:])

	return fmt.Sprintf("%s-%s-%s-%s-%s",
		encoded[0:8],
		encoded[8:12],
		encoded[12:16],
		encoded[16:20],
		encoded[20:32],
	)
}
