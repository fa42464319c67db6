// Package memory provides map-backed repositories for tests and
// single-process hosts that do not want SQLite.
package memory

import (
	"context"
	"sort"
	"sync"
	"time"

	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	"github.com/google/uuid"
)

type DeploymentRepository struct {
	mu      sync.RWMutex
	records map[uuid.UUID]domain.Deployment
}

func NewDeploymentRepository() *DeploymentRepository {
	return &DeploymentRepository{records: make(map[uuid.UUID]domain.Deployment)}
}

func (r *DeploymentRepository) Create(ctx context.Context, record *domain.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record.EnsureID()
	now := time.Now().UTC()
	if record.CreatedAt.IsZero() {
		record.CreatedAt = now
	}
	record.UpdatedAt = now
	if record.Status == "" {
		record.Status = domain.DeploymentPending
	}
	r.records[record.ID] = *record
	return nil
}

func (r *DeploymentRepository) Update(ctx context.Context, record *domain.Deployment) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if record.ID == uuid.Nil {
		return store.ErrNotFound
	}
	if _, ok := r.records[record.ID]; !ok {
		return store.ErrNotFound
	}
	record.UpdatedAt = time.Now().UTC()
	r.records[record.ID] = *record
	return nil
}

func (r *DeploymentRepository) GetByID(ctx context.Context, id uuid.UUID) (*domain.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	record, ok := r.records[id]
	if !ok || !record.DeletedAt.IsZero() {
		return nil, store.ErrNotFound
	}
	copy := record
	return &copy, nil
}

func (r *DeploymentRepository) Latest(ctx context.Context, platform, project string) (*domain.Deployment, error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var latest *domain.Deployment
	for _, record := range r.records {
		if !record.DeletedAt.IsZero() {
			continue
		}
		if record.Platform != platform {
			continue
		}
		if project != "" && record.Project != project {
			continue
		}
		if latest == nil || record.CreatedAt.After(latest.CreatedAt) {
			copy := record
			latest = &copy
		}
	}
	if latest == nil {
		return nil, store.ErrNotFound
	}
	return latest, nil
}

func (r *DeploymentRepository) List(ctx context.Context, opts store.ListOptions) (store.ListResult[domain.Deployment], error) {
	r.mu.RLock()
	defer r.mu.RUnlock()

	var filtered []domain.Deployment
	for _, record := range r.records {
		if !opts.IncludeSoftDeleted && !record.DeletedAt.IsZero() {
			continue
		}
		if opts.Platform != "" && record.Platform != opts.Platform {
			continue
		}
		if opts.Status != "" && record.Status != opts.Status {
			continue
		}
		if !opts.Since.IsZero() && record.CreatedAt.Before(opts.Since) {
			continue
		}
		if !opts.Until.IsZero() && record.CreatedAt.After(opts.Until) {
			continue
		}
		filtered = append(filtered, record)
	}

	sort.Slice(filtered, func(i, j int) bool {
		return filtered[i].CreatedAt.Before(filtered[j].CreatedAt)
	})

	total := len(filtered)
	start := opts.Offset
	if start > total {
		start = total
	}
	end := total
	if opts.Limit > 0 && start+opts.Limit < end {
		end = start + opts.Limit
	}

	return store.ListResult[domain.Deployment]{
		Items: filtered[start:end],
		Total: total,
	}, nil
}

func (r *DeploymentRepository) UpdateStatus(ctx context.Context, id uuid.UUID, status domain.DeploymentStatus, message string) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return store.ErrNotFound
	}
	record.Status = status
	record.Message = message
	if status.Terminal() && record.FinishedAt.IsZero() {
		record.FinishedAt = time.Now().UTC()
	}
	record.UpdatedAt = time.Now().UTC()
	r.records[id] = record
	return nil
}

func (r *DeploymentRepository) SoftDelete(ctx context.Context, id uuid.UUID) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	record, ok := r.records[id]
	if !ok {
		return store.ErrNotFound
	}
	if record.DeletedAt.IsZero() {
		record.DeletedAt = time.Now().UTC()
	}
	r.records[id] = record
	return nil
}
