package discovery

import (
	"github.com/km-arc/go-inject/framework/container"
)

// Provider registers discovered definitions during the register phase.
// Resolution is left to the registry's single bootstrap.
type Provider struct {
	container.BaseProvider
	Loader *Loader
	// Count is the number of entities the last Register added.
	Count int
}

// NewProvider wraps l.
func NewProvider(l *Loader) *Provider { return &Provider{Loader: l} }

// Register implements container.ServiceProvider.
func (p *Provider) Register(app *container.Container) error {
	n, err := p.Loader.Load(app)
	if err != nil {
		return err
	}
	p.Count = n
	return nil
}
