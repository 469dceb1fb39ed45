package container

import (
	"fmt"
	"sync"
)

// ── ServiceProvider interface ─────────────────────────────────────────────────

// ServiceProvider feeds entities into a container.
//
// Register is called once, as soon as the provider is added to a
// ProviderRegistry. Boot is called after every provider has registered and
// before the registry bootstraps the container, so it may still add entities
// (for example contextual overrides) but must not resolve anything.
//
//	type PortProvider struct{ container.BaseProvider }
//
//	func (p *PortProvider) Register(app *container.Container) error {
//	    _, err := app.Constant("port", 8080)
//	    return err
//	}
type ServiceProvider interface {
	Register(app *Container) error
	Boot(app *Container) error
}

// ── BaseProvider ──────────────────────────────────────────────────────────────

// BaseProvider is an embeddable no-op Boot. Embed it and implement Register.
type BaseProvider struct{}

func (p *BaseProvider) Boot(_ *Container) error { return nil }

// ── ProviderRegistry ──────────────────────────────────────────────────────────

// ProviderRegistry drives the container lifecycle: providers register their
// entities, and Boot signals that registration is finished, which triggers
// BootstrapAll exactly once.
type ProviderRegistry struct {
	app *Container

	mu         sync.Mutex
	providers  []ServiceProvider
	registered map[ServiceProvider]bool
	booted     bool
	bootErr    error
}

// NewProviderRegistry creates a registry bound to app.
func NewProviderRegistry(app *Container) *ProviderRegistry {
	return &ProviderRegistry{
		app:        app,
		registered: make(map[ServiceProvider]bool),
	}
}

// Register adds a provider and calls its Register method. Adding the same
// provider twice is a no-op. Providers added after Boot are registered, booted
// and bootstrapped immediately.
func (r *ProviderRegistry) Register(provider ServiceProvider) error {
	r.mu.Lock()
	if r.registered[provider] {
		r.mu.Unlock()
		return nil
	}
	r.registered[provider] = true
	r.providers = append(r.providers, provider)
	booted := r.booted
	r.mu.Unlock()

	if err := provider.Register(r.app); err != nil {
		return fmt.Errorf("container: register %T: %w", provider, err)
	}
	if !booted {
		return nil
	}
	if err := provider.Boot(r.app); err != nil {
		return fmt.Errorf("container: boot %T: %w", provider, err)
	}
	return r.app.BootstrapAll()
}

// Boot runs every provider's Boot and then bootstraps the container. Only
// the first call does any work; later calls return the first call's result.
func (r *ProviderRegistry) Boot() error {
	r.mu.Lock()
	if r.booted {
		err := r.bootErr
		r.mu.Unlock()
		return err
	}
	r.booted = true
	providers := make([]ServiceProvider, len(r.providers))
	copy(providers, r.providers)
	r.mu.Unlock()

	err := r.boot(providers)

	r.mu.Lock()
	r.bootErr = err
	r.mu.Unlock()
	return err
}

func (r *ProviderRegistry) boot(providers []ServiceProvider) error {
	for _, provider := range providers {
		if err := provider.Boot(r.app); err != nil {
			return fmt.Errorf("container: boot %T: %w", provider, err)
		}
	}
	return r.app.BootstrapAll()
}

// Booted returns true if Boot has been called.
func (r *ProviderRegistry) Booted() bool {
	r.mu.Lock()
	defer r.mu.Unlock()
	return r.booted
}

// Providers returns the registered providers in registration order.
func (r *ProviderRegistry) Providers() []ServiceProvider {
	r.mu.Lock()
	defer r.mu.Unlock()
	out := make([]ServiceProvider, len(r.providers))
	copy(out, r.providers)
	return out
}
