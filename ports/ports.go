// Package ports defines interfaces (contracts) between layers.
// These interfaces enable dependency injection and testability.
// Implementations live in adapters/ and store/.
package ports

import (
	"context"
	"time"

	"github.com/artpar/digigate/domain/member"
	"github.com/artpar/digigate/domain/module"
	"github.com/artpar/digigate/domain/product"
	"github.com/artpar/digigate/domain/trx"
)

// -----------------------------------------------------------------------------
// Infrastructure Ports
// -----------------------------------------------------------------------------

// Clock abstracts time for testability.
type Clock interface {
	Now() time.Time
}

// IDGenerator generates unique identifiers.
type IDGenerator interface {
	New() string
}

// -----------------------------------------------------------------------------
// Record Source Ports
// -----------------------------------------------------------------------------
// The authorization services consume exactly one method of each record store.
// The generic store satisfies these structurally.

// MemberSource resolves member records.
type MemberSource interface {
	GetByID(id string) (member.Member, bool)
}

// ModuleSource resolves module records.
type ModuleSource interface {
	GetByID(id string) (module.Module, bool)
}

// ProductSource resolves product records.
type ProductSource interface {
	GetByID(id string) (product.Product, bool)
}

// -----------------------------------------------------------------------------
// External Service Ports
// -----------------------------------------------------------------------------

// DispatchOptions carries the per-module tuning the transport must honor.
type DispatchOptions struct {
	Timeout    time.Duration
	MaxRetries int
	RetryWait  time.Duration
	AsJSON     bool
}

// Upstream executes a synthesized outbound call against the provider.
type Upstream interface {
	Dispatch(ctx context.Context, call trx.OutboundCall, opts DispatchOptions) (trx.ProviderResponse, error)
}
