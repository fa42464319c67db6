// Package bunrepo provides Bun-backed repositories built on
// go-repository-bun.
package bunrepo

import (
	"context"
	"time"

	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	repository "github.com/goliatone/go-repository-bun"
	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

type DeploymentRepository struct {
	repo repository.Repository[*domain.Deployment]
	db   *bun.DB
}

func NewDeploymentRepository(db *bun.DB) *DeploymentRepository {
	handlers := repository.ModelHandlers[*domain.Deployment]{
		NewRecord:          func() *domain.Deployment { return &domain.Deployment{} },
		GetID:              func(d *domain.Deployment) uuid.UUID { return d.ID },
		SetID:              func(d *domain.Deployment, id uuid.UUID) { d.ID = id },
		GetIdentifier:      func() string { return "id" },
		GetIdentifierValue: func(d *domain.Deployment) string { return d.ID.String() },
	}
	return &DeploymentRepository{
		repo: repository.MustNewRepository[*domain.Deployment](db, handlers),
		db:   db,
	}
}

func (r *DeploymentRepository) Create(ctx context.Context, record *domain.Deployment) error {
	record.EnsureID()
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = domain.DeploymentPending
	}
	_, err := r.repo.Create(ctx, record)
	return mapError(err)
}

func (r *DeploymentRepository) Update(ctx context.Context, record *domain.Deployment) error {
	record.UpdatedAt = time.Now().UTC()
	_, err := r.repo.Update(ctx, record)
	return mapError(err)
}

func (r *DeploymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error) {
	record, err := r.repo.Get(ctx, withID(id), withoutDeleted())
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (r *DeploymentRepository) Latest(ctx context.Context, platform, project string) (*domain.Deployment, error) {
	criteria := []repository.SelectCriteria{
		withoutDeleted(),
		func(q *bun.SelectQuery) *bun.SelectQuery {
			q = q.Where("platform = ?", platform)
			if project != "" {
				q = q.Where("project = ?", project)
			}
			return q.Order("created_at DESC").Limit(1)
		},
	}
	record, err := r.repo.Get(ctx, criteria...)
	if err != nil {
		return nil, mapError(err)
	}
	return record, nil
}

func (r *DeploymentRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Deployment], error) {
	records, total, err := r.repo.List(ctx, withListOptions(opts))
	if err != nil {
		return store.ListResult[domain.Deployment]{}, mapError(err)
	}
	items := make([]domain.Deployment, len(records))
	for i, rec := range records {
		items[i] = *rec
	}
	return store.ListResult[domain.Deployment]{Items: items, Total: total}, nil
}

func (r *DeploymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, message string) error {
	record, err := r.repo.Get(ctx, withID(id))
	if err != nil {
		return mapError(err)
	}
	record.Status = status
	record.Message = message
	if status.Terminal() && record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now().UTC()
	}
	return r.Update(ctx, record)
}

func (r *DeploymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	record, err := r.repo.Get(ctx, withID(id))
	if err != nil {
		return mapError(err)
	}
	record.DeletedAt = time.Now().UTC()
	return r.Update(ctx, record)
}

func mapError(err error) error {
	if err == nil {
		return nil
	}
	if repository.IsRecordNotFound(err) {
		return store.ErrNotFound
	}
	return err
}
