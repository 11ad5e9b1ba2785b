// Package registry maps provider discriminants to connector factories so
// the CMS selects a connector by a Datarecord's provider without
// scattering provider checks across call sites.
package registry

import (
	"fmt"
	"sync"

	"go.uber.org/zap"

	"github.com/ajitpratap0/recordsync/pkg/config"
	"github.com/ajitpratap0/recordsync/pkg/connector/core"
	"github.com/ajitpratap0/recordsync/pkg/errors"
	"github.com/ajitpratap0/recordsync/pkg/logger"
	"github.com/ajitpratap0/recordsync/pkg/models"
)

// Factory creates a connector for one provider. The access token is
// injected per call chain by the CMS, never read from the environment
// inside this layer.
type Factory func(accessToken string, cfg *config.SyncConfig) (core.SyncConnector, error)

// Registry manages connector registration and instantiation.
type Registry struct {
	factories map[models.Provider]Factory
	mu        sync.RWMutex
	logger    *zap.Logger
}

// Global registry instance
var globalRegistry = NewRegistry()

// NewRegistry creates a new connector registry.
func NewRegistry() *Registry {
	return &Registry{
		factories: make(map[models.Provider]Factory),
		logger:    logger.Get().With(zap.String("component", "connector_registry")),
	}
}

// Register registers a connector factory for a provider.
func (r *Registry) Register(provider models.Provider, factory Factory) error {
	r.mu.Lock()
	defer r.mu.Unlock()

	if _, exists := r.factories[provider]; exists {
		return errors.New(errors.ErrorTypeConfig, fmt.Sprintf("connector for provider %s already registered", provider))
	}

	r.factories[provider] = factory
	r.logger.Info("connector registered", zap.String("provider", string(provider)))
	return nil
}

// Create instantiates the connector for a provider.
func (r *Registry) Create(provider models.Provider, accessToken string, cfg *config.SyncConfig) (core.SyncConnector, error) {
	r.mu.RLock()
	factory, exists := r.factories[provider]
	r.mu.RUnlock()

	if !exists {
		return nil, errors.New(errors.ErrorTypeConfig, fmt.Sprintf("no connector registered for provider %s", provider))
	}

	connector, err := factory(accessToken, cfg)
	if err != nil {
		return nil, errors.Wrap(err, errors.ErrorTypeConfig, fmt.Sprintf("failed to create %s connector", provider))
	}
	return connector, nil
}

// Providers returns the registered provider names.
func (r *Registry) Providers() []models.Provider {
	r.mu.RLock()
	defer r.mu.RUnlock()

	providers := make([]models.Provider, 0, len(r.factories))
	for p := range r.factories {
		providers = append(providers, p)
	}
	return providers
}

// Register registers a factory with the global registry.
func Register(provider models.Provider, factory Factory) error {
	return globalRegistry.Register(provider, factory)
}

// Create instantiates a connector from the global registry.
func Create(provider models.Provider, accessToken string, cfg *config.SyncConfig) (core.SyncConnector, error) {
	return globalRegistry.Create(provider, accessToken, cfg)
}

// Providers returns the providers registered globally.
func Providers() []models.Provider {
	return globalRegistry.Providers()
}
