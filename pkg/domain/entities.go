// Package domain holds the persisted entities shared by storage backends.
package domain

import (
	"database/sql/driver"
	"encoding/json"
	"errors"
	"fmt"
	"time"

	"github.com/google/uuid"
	"github.com/uptrace/bun"
)

// RecordMeta captures identifiers and audit fields shared across entities.
type RecordMeta struct {
	ID        uuid.UUID `bun:",pk,type:uuid" json:"id"`
	CreatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"created_at"`
	UpdatedAt time.Time `bun:",nullzero,notnull,default:current_timestamp" json:"updated_at"`
	DeletedAt time.Time `bun:",soft_delete,nullzero" json:"deleted_at,omitempty"`
}

// EnsureID assigns a UUID when the struct is about to be persisted.
func (m *RecordMeta) EnsureID() {
	if m.ID == uuid.Nil {
		m.ID = uuid.New()
	}
}

// JSONMap persists arbitrary metadata fields as JSON.
type JSONMap map[string]any

// Value implements driver.Valuer.
func (m JSONMap) Value() (driver.Value, error) {
	if m == nil {
		return []byte("null"), nil
	}
	return json.Marshal(m)
}

// Scan implements sql.Scanner.
func (m *JSONMap) Scan(value any) error {
	if m == nil {
		return errors.New("JSONMap: Scan on nil pointer")
	}
	switch v := value.(type) {
	case nil:
		*m = nil
		return nil
	case []byte:
		return json.Unmarshal(v, m)
	case string:
		return json.Unmarshal([]byte(v), m)
	default:
		return fmt.Errorf("JSONMap: unsupported type %T", value)
	}
}

// DeploymentStatus tracks where a deployment sits in its lifecycle.
type DeploymentStatus string

const (
	DeploymentPending   DeploymentStatus = "pending"
	DeploymentBuilding  DeploymentStatus = "building"
	DeploymentDeploying DeploymentStatus = "deploying"
	DeploymentLive      DeploymentStatus = "live"
	DeploymentFailed    DeploymentStatus = "failed"
	DeploymentCanceled  DeploymentStatus = "canceled"
)

// terminal statuses cannot transition further.
func (s DeploymentStatus) Terminal() bool {
	switch s {
	case DeploymentLive, DeploymentFailed, DeploymentCanceled:
		return true
	}
	return false
}

// Deployment records one deploy of a project to a platform.
type Deployment struct {
	bun.BaseModel `bun:"table:deployments"`

	RecordMeta
	Platform   string           `bun:",notnull" json:"platform"`
	Project    string           `bun:",notnull" json:"project"`
	CommitSHA  string           `json:"commit_sha"`
	Status     DeploymentStatus `bun:",notnull" json:"status"`
	URL        string           `json:"url"`
	Message    string           `json:"message"`
	Metadata   JSONMap          `bun:",type:jsonb" json:"metadata"`
	StartedAt  time.Time        `bun:",nullzero" json:"started_at"`
	FinishedAt time.Time        `bun:",nullzero" json:"finished_at"`
}
