package commands

import (
	command "github.com/goliatone/go-command"
	internalcommands "github.com/goliatone/go-credentials/internal/commands"
	"github.com/goliatone/go-credentials/pkg/interfaces/logger"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	"github.com/goliatone/go-credentials/pkg/vault"
)

// Re-export request types so consumers need not import internal packages.
type (
	StoreCredentials  = internalcommands.StoreCredentials
	DeleteCredentials = internalcommands.DeleteCredentials
	RecordDeployment  = internalcommands.RecordDeployment
	UpdateDeployment  = internalcommands.UpdateDeployment
)

// Registry exposes go-command compatible handlers backed by the vault and
// deployment repositories.
type Registry struct {
	Catalog           *internalcommands.Catalog
	StoreCredentials  command.Commander[StoreCredentials]
	DeleteCredentials command.Commander[DeleteCredentials]
	RecordDeployment  command.Commander[RecordDeployment]
	UpdateDeployment  command.Commander[UpdateDeployment]
}

// Dependencies mirror the internal command dependencies but keep them public.
type Dependencies struct {
	Vault       *vault.Store
	Deployments store.DeploymentRepository
	Logger      logger.Logger
}

// New builds the registry using the provided dependencies.
func New(deps Dependencies) (*Registry, error) {
	catalog, err := internalcommands.NewCatalog(internalcommands.Dependencies{
		Vault:       deps.Vault,
		Deployments: deps.Deployments,
		Logger:      deps.Logger,
	})
	if err != nil {
		return nil, err
	}
	return &Registry{
		Catalog:           catalog,
		StoreCredentials:  catalog.StoreCredentials,
		DeleteCredentials: catalog.DeleteCredentials,
		RecordDeployment:  catalog.RecordDeployment,
		UpdateDeployment:  catalog.UpdateDeployment,
	}, nil
}

// Commanders returns every handler so callers can register them with
// go-command registries.
func (r *Registry) Commanders() []any {
	if r == nil {
		return nil
	}
	return []any{
		r.StoreCredentials,
		r.DeleteCredentials,
		r.RecordDeployment,
		r.UpdateDeployment,
	}
}
