package commands

import (
	"context"
	"errors"
	"strings"

	command "github.com/goliatone/go-command"
	"github.com/goliatone/go-credentials/pkg/credentials"
	"github.com/goliatone/go-credentials/pkg/domain"
	"github.com/goliatone/go-credentials/pkg/interfaces/logger"
	"github.com/goliatone/go-credentials/pkg/interfaces/store"
	"github.com/google/uuid"
)

// Catalog exposes go-command compatible handlers for host transports.
type Catalog struct {
	StoreCredentials  command.Commander[StoreCredentials]
	DeleteCredentials command.Commander[DeleteCredentials]
	RecordDeployment  command.Commander[RecordDeployment]
	UpdateDeployment  command.Commander[UpdateDeployment]
}

type credentialWriter interface {
	StoreCredentials(platform string, fields map[string]string) error
	DeleteCredentials(platform string) (bool, error)
}

// Dependencies wires the vault and repositories into the command catalog.
type Dependencies struct {
	Vault       credentialWriter
	Deployments store.DeploymentRepository
	Logger      logger.Logger
}

// NewCatalog builds the command catalog using the supplied dependencies.
func NewCatalog(deps Dependencies) (*Catalog, error) {
	if deps.Vault == nil {
		return nil, errors.New("commands: vault store is required")
	}
	if deps.Deployments == nil {
		return nil, errors.New("commands: deployment repository is required")
	}
	if deps.Logger == nil {
		deps.Logger = &logger.Nop{}
	}

	return &Catalog{
		StoreCredentials:  storeCredentialsCommand{vault: deps.Vault, log: deps.Logger},
		DeleteCredentials: deleteCredentialsCommand{vault: deps.Vault, log: deps.Logger},
		RecordDeployment:  recordDeploymentCommand{repo: deps.Deployments, log: deps.Logger},
		UpdateDeployment:  updateDeploymentCommand{repo: deps.Deployments},
	}, nil
}

// StoreCredentials merges fields into a platform record.
type StoreCredentials struct {
	Platform string            `json:"platform"`
	Fields   map[string]string `json:"fields"`
}

type storeCredentialsCommand struct {
	vault credentialWriter
	log   logger.Logger
}

func (c storeCredentialsCommand) Execute(ctx context.Context, msg StoreCredentials) error {
	msg.Platform = strings.TrimSpace(msg.Platform)
	if msg.Platform == "" {
		return errors.New("commands: platform is required")
	}
	if len(msg.Fields) == 0 {
		return errors.New("commands: at least one field is required")
	}
	if err := c.vault.StoreCredentials(msg.Platform, msg.Fields); err != nil {
		return err
	}
	c.log.Info("credentials stored",
		logger.Field{Key: "platform", Value: msg.Platform},
		logger.Field{Key: "fields", Value: credentials.MaskCredentials(msg.Fields)},
	)
	return nil
}

// DeleteCredentials removes a platform record entirely.
type DeleteCredentials struct {
	Platform string `json:"platform"`
}

type deleteCredentialsCommand struct {
	vault credentialWriter
	log   logger.Logger
}

func (c deleteCredentialsCommand) Execute(ctx context.Context, msg DeleteCredentials) error {
	msg.Platform = strings.TrimSpace(msg.Platform)
	if msg.Platform == "" {
		return errors.New("commands: platform is required")
	}
	removed, err := c.vault.DeleteCredentials(msg.Platform)
	if err != nil {
		return err
	}
	c.log.Info("credentials deleted",
		logger.Field{Key: "platform", Value: msg.Platform},
		logger.Field{Key: "removed", Value: removed},
	)
	return nil
}

// RecordDeployment creates a pending deployment record.
type RecordDeployment struct {
	Platform  string         `json:"platform"`
	Project   string         `json:"project"`
	CommitSHA string         `json:"commit_sha"`
	Metadata  map[string]any `json:"metadata"`
}

type recordDeploymentCommand struct {
	repo store.DeploymentRepository
	log  logger.Logger
}

func (c recordDeploymentCommand) Execute(ctx context.Context, msg RecordDeployment) error {
	msg.Platform = strings.TrimSpace(msg.Platform)
	if msg.Platform == "" {
		return errors.New("commands: platform is required")
	}
	if strings.TrimSpace(msg.Project) == "" {
		return errors.New("commands: project is required")
	}
	dep := &domain.Deployment{
		Platform:  msg.Platform,
		Project:   msg.Project,
		CommitSHA: msg.CommitSHA,
		Status:    domain.DeploymentPending,
		Metadata:  domain.JSONMap(msg.Metadata),
	}
	if err := c.repo.Create(ctx, dep); err != nil {
		return err
	}
	c.log.Info("deployment recorded",
		logger.Field{Key: "id", Value: dep.ID.String()},
		logger.Field{Key: "platform", Value: msg.Platform},
		logger.Field{Key: "project", Value: msg.Project},
	)
	return nil
}

// UpdateDeployment moves a deployment to a new status.
type UpdateDeployment struct {
	ID      string `json:"id"`
	Status  string `json:"status"`
	Message string `json:"message"`
}

type updateDeploymentCommand struct {
	repo store.DeploymentRepository
}

func (c updateDeploymentCommand) Execute(ctx context.Context, msg UpdateDeployment) error {
	id, err := uuid.Parse(msg.ID)
	if err != nil {
		return errors.New("commands: deployment id must be a uuid")
	}
	status := domain.DeploymentStatus(msg.Status)
	switch status {
	case domain.DeploymentPending, domain.DeploymentBuilding, domain.DeploymentDeploying,
		domain.DeploymentLive, domain.DeploymentFailed, domain.DeploymentCanceled:
	default:
		return errors.New("commands: unknown deployment status")
	}
	return c.repo.UpdateStatus(ctx, id, status, msg.Message)
}
