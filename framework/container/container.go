package container

import (
	"errors"
	"sync"
	"time"

	"go.uber.org/zap"
)

// ── Observer ──────────────────────────────────────────────────────────────────

// Observer receives container lifecycle notifications. Implementations must be
// safe for concurrent use and must not call back into the container.
type Observer interface {
	Registered(e *Entity)
	Resolved(e *Entity, elapsed time.Duration, err error)
	MissingDependency(consumer, name string)
}

// ── Options ───────────────────────────────────────────────────────────────────

// Option configures a Container.
type Option func(*Container)

// WithLogger sets the container's logger. The default is a no-op logger.
func WithLogger(l *zap.Logger) Option {
	return func(c *Container) {
		if l != nil {
			c.log = l
		}
	}
}

// WithStrictDependencies makes unknown or blank dependency names fail with
// *MissingDependencyError instead of resolving to nil.
func WithStrictDependencies(strict bool) Option {
	return func(c *Container) { c.strict = strict }
}

// WithObserver attaches an Observer.
func WithObserver(o Observer) Option {
	return func(c *Container) {
		if o != nil {
			c.observers = append(c.observers, o)
		}
	}
}

// ── Container ─────────────────────────────────────────────────────────────────

// Container is a lazy dependency-injection container. Entities are registered
// by name and resolved on demand, each factory running at most once.
type Container struct {
	mu sync.RWMutex

	// name → entity
	entities map[string]*Entity

	// registration order, used for Names and BootstrapAll
	order []string

	// alias → canonical name
	aliases map[string]string

	// tag → names
	tags map[string][]string

	// contextual: overrides[consumer][dependency]
	overrides map[string]map[string]override

	observers      []Observer
	afterResolving []func(*Entity)

	// serializes resolution so a factory never runs twice
	resolveMu sync.Mutex

	strict bool
	log    *zap.Logger
}

// New creates an empty container.
func New(opts ...Option) *Container {
	c := &Container{
		entities:  make(map[string]*Entity),
		aliases:   make(map[string]string),
		tags:      make(map[string][]string),
		overrides: make(map[string]map[string]override),
		log:       zap.NewNop(),
	}
	for _, opt := range opts {
		opt(c)
	}
	return c
}

// Strict reports whether missing dependencies are errors.
func (c *Container) Strict() bool { return c.strict }

// Observe attaches an Observer after construction.
func (c *Container) Observe(o Observer) {
	if o == nil {
		return
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	c.observers = append(c.observers, o)
}

// AfterResolving registers a callback fired after a factory entity resolves successfully.
func (c *Container) AfterResolving(cb func(e *Entity)) {
	c.mu.Lock()
	defer c.mu.Unlock()
	c.afterResolving = append(c.afterResolving, cb)
}

// ── Registration ──────────────────────────────────────────────────────────────

// Register stores a new entity in the unresolved state. It fails with
// *DuplicateNameError carrying conflictMessage when name is already taken.
// A nil Factory is stored as Constant{nil}.
func (c *Container) Register(name string, value Value, dependsOn []string, conflictMessage string) (*Entity, error) {
	if f, ok := value.(Factory); ok && f == nil {
		value = Constant{}
	}
	if value == nil {
		value = Constant{}
	}

	c.mu.Lock()
	if c.taken(name) {
		c.mu.Unlock()
		return nil, &DuplicateNameError{Name: name, Message: conflictMessage}
	}
	e := newEntity(name, value, dependsOn)
	c.entities[name] = e
	c.order = append(c.order, name)
	observers := c.observers
	c.mu.Unlock()

	c.log.Debug("entity registered",
		zap.String("name", name),
		zap.String("kind", e.Kind()),
		zap.Strings("depends_on", e.dependsOn))
	for _, o := range observers {
		o.Registered(e)
	}
	return e, nil
}

// Constant registers a value with no dependencies.
//
//	c.Constant("port", 8080)
func (c *Container) Constant(name string, v any) (*Entity, error) {
	return c.Register(name, Constant{Value: v}, nil, "Cannot have two constants with the same name.")
}

// Module registers a factory and the names of the entities it depends on.
//
//	c.Module("addr", func(_ *container.Entity, args ...any) (any, error) {
//	    return fmt.Sprintf(":%v", args[0]), nil
//	}, "port")
func (c *Container) Module(name string, factory Factory, dependsOn ...string) (*Entity, error) {
	return c.Register(name, factory, dependsOn, "Cannot have two modules with the same name.")
}

// Func registers an ordinary Go function as a module, adapting it with
// FuncFactory. Anything that is not a function is registered as a constant.
//
//	c.Func("addr", func(port int) string { return fmt.Sprintf(":%d", port) }, "port")
func (c *Container) Func(name string, fn any, dependsOn ...string) (*Entity, error) {
	factory, err := FuncFactory(fn)
	if errors.Is(err, ErrNotFunc) {
		return c.Constant(name, fn)
	}
	if err != nil {
		return nil, err
	}
	return c.Module(name, factory, dependsOn...)
}

// GetModule looks up an entity by name or alias.
func (c *Container) GetModule(name string) (*Entity, bool) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	e, ok := c.entities[c.canonical(name)]
	return e, ok
}

// Has reports whether name (or an alias) is registered.
func (c *Container) Has(name string) bool {
	_, ok := c.GetModule(name)
	return ok
}

// Names returns the registered names in registration order.
func (c *Container) Names() []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.order))
	copy(out, c.order)
	return out
}

// Entities returns the registered entities in registration order.
func (c *Container) Entities() []*Entity {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]*Entity, 0, len(c.order))
	for _, name := range c.order {
		out = append(out, c.entities[name])
	}
	return out
}

// ── Aliases & tags ────────────────────────────────────────────────────────────

// Alias makes alias refer to the entity registered as name.
//
//	c.Alias("port", "http.port")
func (c *Container) Alias(name, alias string) error {
	if name == alias {
		return ErrSelfAlias
	}
	c.mu.Lock()
	defer c.mu.Unlock()
	if c.taken(alias) {
		return &DuplicateNameError{Name: alias, Message: "Cannot alias over an existing name."}
	}
	c.aliases[alias] = c.canonical(name)
	return nil
}

// Tag groups names under tag. Tagging an unregistered name is allowed; it
// fails when Tagged resolves it.
func (c *Container) Tag(tag string, names ...string) {
	c.mu.Lock()
	defer c.mu.Unlock()
	for _, name := range names {
		c.tags[tag] = append(c.tags[tag], name)
		if e, ok := c.entities[c.canonical(name)]; ok {
			e.addTag(tag)
		}
	}
}

// TagNames returns the names under tag in tagging order.
func (c *Container) TagNames(tag string) []string {
	c.mu.RLock()
	defer c.mu.RUnlock()
	out := make([]string, len(c.tags[tag]))
	copy(out, c.tags[tag])
	return out
}

// taken must be called with mu held.
func (c *Container) taken(name string) bool {
	if _, ok := c.entities[name]; ok {
		return true
	}
	_, ok := c.aliases[name]
	return ok
}

// canonical must be called with mu held.
func (c *Container) canonical(name string) string {
	if target, ok := c.aliases[name]; ok {
		return target
	}
	return name
}

func (c *Container) snapshotObservers() ([]Observer, []func(*Entity)) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	return c.observers, c.afterResolving
}
