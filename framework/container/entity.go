package container

import "sync"

// Value is what an entity is registered with. It is either a Constant or a
// Factory; no other implementations exist.
type Value interface {
	isValue()
}

// Constant is a plain value. It resolves to itself without touching its dependencies.
type Constant struct {
	Value any
}

// Factory builds an entity's value from its resolved dependencies, passed
// positionally in DependsOn order. self is the entity being resolved.
type Factory func(self *Entity, args ...any) (any, error)

func (Constant) isValue() {}
func (Factory) isValue()  {}

// State is an entity's resolution state: unresolved, or resolved to a value.
// The zero State is unresolved. A resolved value of nil is still resolved.
type State struct {
	resolved bool
	value    any
}

// Unresolved returns the "not yet resolved" state.
func Unresolved() State { return State{} }

// Resolved returns a resolved state holding v.
func Resolved(v any) State { return State{resolved: true, value: v} }

// IsResolved reports whether the state holds a value.
func (s State) IsResolved() bool { return s.resolved }

// Get returns the resolved value and true, or (nil, false) when unresolved.
func (s State) Get() (any, bool) { return s.value, s.resolved }

// Entity is the stored record for one registered name.
type Entity struct {
	name      string
	value     Value
	dependsOn []string

	mu    sync.RWMutex
	state State
	tags  []string
}

func newEntity(name string, value Value, dependsOn []string) *Entity {
	deps := make([]string, len(dependsOn))
	copy(deps, dependsOn)
	return &Entity{name: name, value: value, dependsOn: deps}
}

// Name returns the entity's registered name.
func (e *Entity) Name() string { return e.name }

// Value returns the registered Constant or Factory.
func (e *Entity) Value() Value { return e.value }

// DependsOn returns a copy of the declared dependency names.
func (e *Entity) DependsOn() []string {
	out := make([]string, len(e.dependsOn))
	copy(out, e.dependsOn)
	return out
}

// IsFactory reports whether the entity was registered with a Factory.
func (e *Entity) IsFactory() bool {
	_, ok := e.value.(Factory)
	return ok
}

// Kind returns "factory" or "constant".
func (e *Entity) Kind() string {
	if e.IsFactory() {
		return "factory"
	}
	return "constant"
}

// State returns the current resolution state.
func (e *Entity) State() State {
	e.mu.RLock()
	defer e.mu.RUnlock()
	return e.state
}

// Tags returns the tags the entity was added to.
func (e *Entity) Tags() []string {
	e.mu.RLock()
	defer e.mu.RUnlock()
	out := make([]string, len(e.tags))
	copy(out, e.tags)
	return out
}

func (e *Entity) setState(s State) {
	e.mu.Lock()
	e.state = s
	e.mu.Unlock()
}

func (e *Entity) addTag(tag string) {
	e.mu.Lock()
	defer e.mu.Unlock()
	for _, t := range e.tags {
		if t == tag {
			return
		}
	}
	e.tags = append(e.tags, tag)
}
