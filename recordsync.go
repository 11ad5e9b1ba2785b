package recordsync

import (
	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/connector/registry"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/logger"
	"github.com/ajitpratap0/recordsync/pkg/models"

	// Register all provider connectors.
	_ "github.com/ajitpratap0/recordsync/pkg/connector/airtable"
	_ "github.com/ajitpratap0/recordsync/pkg/connector/gsheets"
	_ "github.com/ajitpratap0/recordsync/pkg/connector/notion"
)

// InitLogging configures the global logger from the observability
// section of cfg. Optional; connectors fall back to production JSON
// logging at info level when it is never called.
func InitLogging(cfg *config.SyncConfig) error {
	if cfg == nil {
		cfg = config.DefaultSyncConfig()
	}
	return logger.Init(logger.Config{
		Level:    cfg.Observability.LogLevel,
		Encoding: cfg.Observability.LogFormat,
	})
}

// ConnectorFor returns the sync connector for a provider. Internal
// datarecords never route through this layer.
func ConnectorFor(provider models.Provider, accessToken string, cfg *config.SyncConfig) (core.SyncConnector, error) {
	if !provider.IsExternal() {
		return nil, errors.Newf(errors.ErrorTypeValidation,
			"provider %s is not an external sync target", provider)
	}
	return registry.Create(provider, accessToken, cfg)
}
