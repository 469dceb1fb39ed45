package container_test

import (
	"errors"
	"testing"

	"github.com/km-arc/go-inject/framework/container"
)

// ── stub providers ────────────────────────────────────────────────────────────

type eagerProvider struct {
	container.BaseProvider
	registerCalls int
}

func (p *eagerProvider) Register(app *container.Container) error {
	p.registerCalls++
	_, err := app.Constant("eager-svc", "eager")
	return err
}

// dependentProvider registers a module that needs eager-svc, and records
// whether Boot ran before the container was bootstrapped.
type dependentProvider struct {
	bootCalled     bool
	resolvedAtBoot bool
	factoryCalls   int
}

func (p *dependentProvider) Register(app *container.Container) error {
	_, err := app.Func("dependent-svc", func(s string) string {
		p.factoryCalls++
		return s + "+dependent"
	}, "eager-svc")
	return err
}

func (p *dependentProvider) Boot(app *container.Container) error {
	p.bootCalled = true
	e, _ := app.GetModule("dependent-svc")
	p.resolvedAtBoot = e.State().IsResolved()
	return nil
}

type failingProvider struct {
	container.BaseProvider
	err error
}

func (p *failingProvider) Register(_ *container.Container) error { return p.err }

// multiProvider registers multiple entities.
type multiProvider struct {
	container.BaseProvider
}

func (p *multiProvider) Register(app *container.Container) error {
	if _, err := app.Constant("alpha", "α"); err != nil {
		return err
	}
	_, err := app.Constant("beta", "β")
	return err
}

// ── ProviderRegistry ──────────────────────────────────────────────────────────

func TestRegistry_RegisterCalledImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatalf("Register: %v", err)
	}

	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
	if !c.Has("eager-svc") {
		t.Error("eager-svc should be registered")
	}
	e, _ := c.GetModule("eager-svc")
	if e.State().IsResolved() {
		t.Error("nothing should be resolved before Boot()")
	}
}

func TestRegistry_BootRunsHooksThenBootstraps(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	dep := &dependentProvider{}
	if err := reg.Register(dep); err != nil {
		t.Fatalf("Register dependent: %v", err)
	}
	if err := reg.Register(&eagerProvider{}); err != nil {
		t.Fatalf("Register eager: %v", err)
	}

	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}

	if !dep.bootCalled {
		t.Error("Boot() hook should run")
	}
	if dep.resolvedAtBoot {
		t.Error("Boot() hooks should run before the container is bootstrapped")
	}

	got, err := container.Get[string](c, "dependent-svc")
	if err != nil {
		t.Fatalf("Get: %v", err)
	}
	if got != "eager+dependent" {
		t.Errorf("dependent-svc: got %q, want 'eager+dependent'", got)
	}
}

func TestRegistry_Boot_IdempotentCallsAreIgnored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	dep := &dependentProvider{}
	_ = reg.Register(&eagerProvider{})
	_ = reg.Register(dep)

	if err := reg.Boot(); err != nil {
		t.Fatalf("Boot: %v", err)
	}
	if err := reg.Boot(); err != nil {
		t.Fatalf("second Boot: %v", err)
	}

	if !reg.Booted() {
		t.Error("Booted() should be true after Boot()")
	}
	if dep.factoryCalls != 1 {
		t.Errorf("factory calls: got %d, want 1", dep.factoryCalls)
	}
}

func TestRegistry_Boot_ReturnsBootstrapError(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	boom := errors.New("boom")
	if _, err := c.Module("bad", func(*container.Entity, ...any) (any, error) { return nil, boom }); err != nil {
		t.Fatal(err)
	}

	if err := reg.Boot(); !errors.Is(err, boom) {
		t.Errorf("Boot: got %v, want %v", err, boom)
	}
	if err := reg.Boot(); !errors.Is(err, boom) {
		t.Errorf("second Boot should report the first result, got %v", err)
	}
}

func TestRegistry_Booted_FalseBeforeBoot(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	if reg.Booted() {
		t.Error("Booted() should be false before Boot()")
	}
}

func TestRegistry_DuplicateRegister_Ignored(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)

	p := &eagerProvider{}
	if err := reg.Register(p); err != nil {
		t.Fatal(err)
	}
	if err := reg.Register(p); err != nil {
		t.Fatalf("second Register of same instance should be a no-op, got %v", err)
	}

	if p.registerCalls != 1 {
		t.Errorf("Register() calls: got %d, want 1", p.registerCalls)
	}
	if len(reg.Providers()) != 1 {
		t.Errorf("Providers(): got %d, want 1", len(reg.Providers()))
	}
}

func TestRegistry_RegisterError_Wrapped(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	boom := errors.New("boom")

	err := reg.Register(&failingProvider{err: boom})
	if !errors.Is(err, boom) {
		t.Fatalf("Register: got %v, want wrapped %v", err, boom)
	}
}

func TestRegistry_DuplicateEntityAcrossProviders(t *testing.T) {
	reg := container.NewProviderRegistry(container.New())
	if err := reg.Register(&eagerProvider{}); err != nil {
		t.Fatal(err)
	}

	err := reg.Register(&eagerProvider{})
	var dup *container.DuplicateNameError
	if !errors.As(err, &dup) {
		t.Fatalf("Register: got %v, want *DuplicateNameError", err)
	}
	if dup.Name != "eager-svc" {
		t.Errorf("dup.Name: got %q", dup.Name)
	}
}

// ── Multiple providers ────────────────────────────────────────────────────────

func TestRegistry_MultipleProviders_AllResolvable(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	_ = reg.Register(&multiProvider{})
	_ = reg.Register(&eagerProvider{})
	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}

	for name, want := range map[string]string{"alpha": "α", "beta": "β", "eager-svc": "eager"} {
		if got := container.MustGet[string](c, name); got != want {
			t.Errorf("%s: got %q, want %q", name, got, want)
		}
	}
}

// ── BaseProvider defaults ─────────────────────────────────────────────────────

func TestBaseProvider_Defaults(t *testing.T) {
	var p container.BaseProvider
	if err := p.Boot(container.New()); err != nil {
		t.Errorf("BaseProvider.Boot() should be a no-op, got %v", err)
	}
}

// ── Boot after registration (late provider) ───────────────────────────────────

func TestRegistry_RegisterAfterBoot_BootstrapsImmediately(t *testing.T) {
	c := container.New()
	reg := container.NewProviderRegistry(c)
	if err := reg.Boot(); err != nil {
		t.Fatal(err)
	}

	if err := reg.Register(&eagerProvider{}); err != nil {
		t.Fatal(err)
	}

	e, _ := c.GetModule("eager-svc")
	if !e.State().IsResolved() {
		t.Error("provider registered after Boot() should be bootstrapped immediately")
	}
}
