// Package storage wires repository implementations for host applications.
package storage

import (
	"context"
	"database/sql"

	bunrepo "github.com/goliatone/go-credentials/internal/storage/bun"
	"github.com/goliatone/go-credentials/internal/storage/memory"
	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	persistence "github.com/goliatone/go-persistence-bun"
	"github.com/uptrace/bun"
)

// Providers exposes the repositories needed by services.
type Providers struct {
	Deployments store.DeploymentRepository
	Transaction store.TransactionManager
}

type Option func(*Providers)

// WithDeploymentRepository swaps the deployment repository, mainly for tests.
func WithDeploymentRepository(repo store.DeploymentRepository) Option {
	return func(p *Providers) {
		p.Deployments = repo
	}
}

// NewMemoryProviders returns repositories backed by in-memory maps.
func NewMemoryProviders(opts ...Option) Providers {
	providers := Providers{
		Deployments: memory.NewDeploymentRepository(),
		Transaction: store.NopTransactionManager{},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

// NewBunProviders wires Bun-backed repositories. The caller owns the *bun.DB
// lifecycle, potentially via go-persistence-bun.
func NewBunProviders(db *bun.DB, opts ...Option) Providers {
	if db == nil {
		panic("storage: bun DB is required")
	}

	// Register models so go-persistence-bun migrations can pick them up.
	persistence.RegisterModel((*domain.Deployment)(nil))

	providers := Providers{
		Deployments: bunrepo.NewDeploymentRepository(db),
		Transaction: &bunTxManager{db: db},
	}
	for _, opt := range opts {
		opt(&providers)
	}
	return providers
}

type bunTxManager struct {
	db *bun.DB
}

func (m *bunTxManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return m.db.RunInTx(ctx, &sql.TxOptions{}, func(ctx context.Context, tx bun.Tx) error {
		return fn(ctx)
	})
}
