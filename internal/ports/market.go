package ports

import (
	"context"

	"github.com/wazoplugind/wazo-plugind/internal/domain/market"
)

// MarketClient fetches a one-shot catalog snapshot per request. Filtering, sorting, pagination, and installed/upgradable
// annotation are pure functions in internal/domain/market; MarketClient's
// only job is the network fetch, kept narrow so it can be faked in tests.
type MarketClient interface {
	Fetch(ctx context.Context) ([]market.Entry, error)
}
