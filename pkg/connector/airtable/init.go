package airtable

import (
	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/connector/registry"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

func init() {
	// Register the tabular connector in the global registry
	_ = registry.Register(models.ProviderAirtable, func(accessToken string, cfg *config.SyncConfig) (core.SyncConnector, error) {
		return New(accessToken, cfg)
	})
}
