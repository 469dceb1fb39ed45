package container

// override replaces one dependency of one consumer, either with another
// entity name or with a fixed value.
type override struct {
	name     string
	value    any
	hasValue bool
}

// ContextualBuilder implements the fluent contextual binding API.
//
//	// when "mailer" needs "transport", use "smtp" instead
//	c.When("mailer").Needs("transport").Give("smtp")
type ContextualBuilder struct {
	container *Container
	consumer  string
	needs     string
}

// When starts a contextual binding chain for consumer.
func (c *Container) When(consumer string) *ContextualBuilder {
	return &ContextualBuilder{container: c, consumer: consumer}
}

// Needs names the dependency of the consumer being overridden.
func (b *ContextualBuilder) Needs(dependency string) *ContextualBuilder {
	b.needs = dependency
	return b
}

// Give resolves the dependency from the entity called name instead.
func (b *ContextualBuilder) Give(name string) {
	b.set(override{name: name})
}

// GiveValue passes value for the dependency without looking anything up.
//
//	c.When("server").Needs("port").GiveValue(9090)
func (b *ContextualBuilder) GiveValue(value any) {
	b.set(override{name: b.needs, value: value, hasValue: true})
}

func (b *ContextualBuilder) set(o override) {
	c := b.container
	c.mu.Lock()
	defer c.mu.Unlock()
	if _, ok := c.overrides[b.consumer]; !ok {
		c.overrides[b.consumer] = make(map[string]override)
	}
	c.overrides[b.consumer][b.needs] = o
}

// dependencyNames returns e's dependency names with Give redirects applied,
// and the positions that GiveValue replaces.
func (c *Container) dependencyNames(e *Entity) ([]string, map[int]any) {
	c.mu.RLock()
	defer c.mu.RUnlock()
	names := make([]string, len(e.dependsOn))
	copy(names, e.dependsOn)
	ov, ok := c.overrides[e.name]
	if !ok {
		return names, nil
	}
	var fixed map[int]any
	for i, dep := range names {
		o, ok := ov[dep]
		if !ok {
			continue
		}
		if o.hasValue {
			if fixed == nil {
				fixed = make(map[int]any)
			}
			fixed[i] = o.value
			continue
		}
		names[i] = o.name
	}
	return names, fixed
}
