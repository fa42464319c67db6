package bunrepo

import (
	"context"
	"database/sql"
	"errors"
	"testing"

	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	"github.com/uptrace/bun"
	"github.com/uptrace/bun/dialect/sqlitedialect"
	"github.com/uptrace/bun/driver/sqliteshim"
)

func setupSQLiteDB(t *testing.T) *bun.DB {
	t.Helper()

	sqldb, err := sql.Open(sqliteshim.DriverName(), "file::memory:?cache=shared")
	if err != nil {
		t.Fatalf("sql open: %v", err)
	}
	db := bun.NewDB(sqldb, sqlitedialect.New())

	ctx := context.Background()
	if _, err := db.NewCreateTable().Model((*domain.Deployment)(nil)).IfNotExists().Exec(ctx); err != nil {
		t.Fatalf("create table: %v", err)
	}
	t.Cleanup(func() {
		_, _ = db.NewDropTable().Model((*domain.Deployment)(nil)).IfExists().Exec(ctx)
		db.Close()
	})
	return db
}

func TestDeploymentRepositoryBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewDeploymentRepository(db)
	ctx := context.Background()

	dep := &domain.Deployment{
		Platform:  "render",
		Project:   "web",
		CommitSHA: "deadbeef",
		Metadata:  domain.JSONMap{"trigger": "push"},
	}
	if err := repo.Create(ctx, dep); err != nil {
		t.Fatalf("create: %v", err)
	}

	got, err := repo.GetByID(ctx, dep.ID)
	if err != nil {
		t.Fatalf("get: %v", err)
	}
	if got.Status != domain.DeploymentPending {
		t.Fatalf("want pending default, got %s", got.Status)
	}

	if err := repo.UpdateStatus(ctx, dep.ID, domain.DeploymentLive, "deployed"); err != nil {
		t.Fatalf("update status: %v", err)
	}
	got, err = repo.GetByID(ctx, dep.ID)
	if err != nil {
		t.Fatalf("get after status: %v", err)
	}
	if got.Status != domain.DeploymentLive || got.Message != "deployed" {
		t.Fatalf("status update not persisted: %s %q", got.Status, got.Message)
	}
	if got.FinishedAt.IsZero() {
		t.Fatalf("terminal status should set finished_at")
	}

	list, err := repo.List(ctx, store.ListOptions{Platform: "render", Status: domain.DeploymentLive})
	if err != nil {
		t.Fatalf("list: %v", err)
	}
	if list.Total != 1 {
		t.Fatalf("want 1 live render deployment, got %d", list.Total)
	}
}

func TestDeploymentLatestBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewDeploymentRepository(db)
	ctx := context.Background()

	if _, err := repo.Latest(ctx, "railway", "api"); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound on empty table, got %v", err)
	}

	for _, sha := range []string{"first", "second"} {
		if err := repo.Create(ctx, &domain.Deployment{Platform: "railway", Project: "api", CommitSHA: sha}); err != nil {
			t.Fatalf("create %s: %v", sha, err)
		}
	}
	latest, err := repo.Latest(ctx, "railway", "api")
	if err != nil {
		t.Fatalf("latest: %v", err)
	}
	if latest.CommitSHA != "second" {
		t.Fatalf("want second, got %s", latest.CommitSHA)
	}
}

func TestDeploymentSoftDeleteBun(t *testing.T) {
	db := setupSQLiteDB(t)
	repo := NewDeploymentRepository(db)
	ctx := context.Background()

	dep := &domain.Deployment{Platform: "flyio", Project: "edge"}
	if err := repo.Create(ctx, dep); err != nil {
		t.Fatalf("create: %v", err)
	}
	if err := repo.SoftDelete(ctx, dep.ID); err != nil {
		t.Fatalf("soft delete: %v", err)
	}
	if _, err := repo.GetByID(ctx, dep.ID); !errors.Is(err, store.ErrNotFound) {
		t.Fatalf("want ErrNotFound after delete, got %v", err)
	}
}
