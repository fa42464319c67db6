package store

import (
	"context"
	"errors"
	"time"

	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/google/uuid"
)

// ErrNotFound is returned when a record cannot be located.
var ErrNotFound = errors.New("store: not found")

// ListOptions capture pagination and filtering knobs common to repositories.
type ListOptions struct {
	Limit              int
	Offset             int
	Platform           string
	Status             domain.DeploymentStatus
	Since              time.Time
	Until              time.Time
	IncludeSoftDeleted bool
}

// ListResult bundles records and totals.
type ListResult[T any] struct {
	Items []T
	Total int
}

// DeploymentRepository persists deployment status records.
type DeploymentRepository interface {
	Create(ctx context.Context, record *domain.Deployment) error
	Update(ctx context.Context, record *domain.Deployment) error
	GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error)
	Latest(ctx context.Context, platform, project string) (*domain.Deployment, error)
	List(ctx context.Context, opts ListOptions) (ListResult[domain.Deployment], error)
	UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, message string) error
	SoftDelete(ctx context.Context, id uuid.UUID) error
}

// TransactionManager scopes multiple repository calls to one transaction
// when the backend supports it.
type TransactionManager interface {
	WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error
}

// NopTransactionManager runs the callback without transactional guarantees.
type NopTransactionManager struct{}

func (NopTransactionManager) WithinTransaction(ctx context.Context, fn func(ctx context.Context) error) error {
	return fn(ctx)
}
