// Package notion holds the document-database provider stub. Only the
// options schema exists; table and record operations are intentionally
// unimplemented rather than guessed at.
package notion

import (
	"context"

	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

// Connector is the document-database provider stub.
type Connector struct{}

// New creates the stub connector. The token is accepted for interface
// parity but unused.
func New(accessToken string, cfg *config.SyncConfig) (*Connector, error) {
	return &Connector{}, nil
}

// Name implements core.SyncConnector.
func (c *Connector) Name() models.Provider { return models.ProviderNotion }

// CreateTable implements core.TableManager.
func (c *Connector) CreateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	return nil, errNotImplemented("create table")
}

// UpdateTable implements core.TableManager.
func (c *Connector) UpdateTable(ctx context.Context, record *models.Datarecord) (models.ProviderOptions, error) {
	return nil, errNotImplemented("update table")
}

// SaveRecord implements core.RecordWriter.
func (c *Connector) SaveRecord(ctx context.Context, record *models.Datarecord, form *models.SubmittedForm) (*core.RecordResult, error) {
	return nil, errNotImplemented("save record")
}

func errNotImplemented(op string) error {
	return errors.Newf(errors.ErrorTypeCapability, "notion sync is not implemented: %s", op)
}
