package container

import (
	"fmt"
	"reflect"
	"strconv"
	"time"

	"go.uber.org/zap"
)

// ── Dependency resolution ─────────────────────────────────────────────────────

// ResolveDependencies returns the current state of each named entity,
// positionally aligned with names. A blank or unregistered name resolves to
// nil (the imaginary dependency), or fails with *MissingDependencyError when
// the container is strict. Entities that exist but have not been resolved
// yet come back Unresolved. It never mutates the container.
func (c *Container) ResolveDependencies(names []string) ([]State, error) {
	return c.lookup("", names, nil, false)
}

// lookup implements ResolveDependencies. Positions present in fixed are not
// looked up; they take the fixed value. report controls whether missing
// names are logged and sent to observers.
func (c *Container) lookup(consumer string, names []string, fixed map[int]any, report bool) ([]State, error) {
	states := make([]State, len(names))
	for i, name := range names {
		if v, ok := fixed[i]; ok {
			states[i] = Resolved(v)
			continue
		}
		e, ok := c.GetModule(name)
		if name == "" || !ok {
			if c.strict {
				return nil, &MissingDependencyError{Consumer: consumer, Name: name}
			}
			if report {
				c.reportMissing(consumer, name)
			}
			states[i] = Resolved(nil)
			continue
		}
		states[i] = e.State()
	}
	return states, nil
}

func (c *Container) reportMissing(consumer, name string) {
	c.log.Warn("dependency not registered, passing nil",
		zap.String("entity", consumer),
		zap.String("dependency", name))
	observers, _ := c.snapshotObservers()
	for _, o := range observers {
		o.MissingDependency(consumer, name)
	}
}

// ── Resolution ────────────────────────────────────────────────────────────────

// Resolve makes sure e has a value, resolving its dependencies first. A
// factory runs at most once over the container's lifetime; a factory that
// fails leaves its entity unresolved and its error is returned unchanged.
func (c *Container) Resolve(e *Entity) (*Entity, error) {
	if e == nil {
		return nil, &NotFoundError{}
	}
	c.resolveMu.Lock()
	defer c.resolveMu.Unlock()
	if err := c.resolve(e, nil); err != nil {
		return e, err
	}
	return e, nil
}

// Make resolves the entity registered as name and returns its value.
//
//	addr, err := c.Make("addr")
func (c *Container) Make(name string) (any, error) {
	e, ok := c.GetModule(name)
	if !ok {
		return nil, &NotFoundError{Name: name}
	}
	if _, err := c.Resolve(e); err != nil {
		return nil, err
	}
	v, _ := e.State().Get()
	return v, nil
}

// Tagged resolves every entity under tag, in tagging order.
func (c *Container) Tagged(tag string) ([]any, error) {
	names := c.TagNames(tag)
	out := make([]any, 0, len(names))
	for _, name := range names {
		v, err := c.Make(name)
		if err != nil {
			return nil, fmt.Errorf("container: tag %s: %w", strconv.Quote(tag), err)
		}
		out = append(out, v)
	}
	return out, nil
}

// resolve must be called with resolveMu held. stack holds the names being
// resolved further up the call chain.
func (c *Container) resolve(e *Entity, stack []string) error {
	var factory Factory
	switch v := e.value.(type) {
	case Constant:
		if !e.State().IsResolved() {
			e.setState(Resolved(v.Value))
		}
		return nil
	case Factory:
		factory = v
	}

	if e.State().IsResolved() {
		return nil
	}

	for i, name := range stack {
		if name == e.name {
			path := make([]string, 0, len(stack)-i+1)
			path = append(path, stack[i:]...)
			return &CircularDependencyError{Path: append(path, e.name)}
		}
	}
	stack = append(stack[:len(stack):len(stack)], e.name)

	names, fixed := c.dependencyNames(e)
	states, err := c.lookup(e.name, names, fixed, true)
	if err != nil {
		return err
	}
	for i, s := range states {
		if s.IsResolved() {
			continue
		}
		dep, _ := c.GetModule(names[i])
		if err := c.resolve(dep, stack); err != nil {
			return err
		}
	}

	states, err = c.lookup(e.name, names, fixed, false)
	if err != nil {
		return err
	}
	args := make([]any, len(states))
	for i, s := range states {
		args[i], _ = s.Get()
	}

	start := time.Now()
	value, err := invoke(e, factory, args)
	elapsed := time.Since(start)

	observers, callbacks := c.snapshotObservers()
	for _, o := range observers {
		o.Resolved(e, elapsed, err)
	}
	if err != nil {
		c.log.Error("factory failed",
			zap.String("entity", e.name),
			zap.Duration("elapsed", elapsed),
			zap.Error(err))
		return err
	}

	e.setState(Resolved(value))
	c.log.Debug("entity resolved",
		zap.String("entity", e.name),
		zap.Duration("elapsed", elapsed))
	for _, cb := range callbacks {
		cb(e)
	}
	return nil
}

func invoke(e *Entity, f Factory, args []any) (v any, err error) {
	defer func() {
		if rec := recover(); rec != nil {
			v = nil
			err = fmt.Errorf("%w %s: %v", ErrFactoryPanic, strconv.Quote(e.name), rec)
		}
	}()
	return f(e, args...)
}

// ── Generics helper ───────────────────────────────────────────────────────────

// Get resolves name and type-asserts the result. A nil value yields T's zero value.
//
//	port, err := container.Get[int](c, "port")
func Get[T any](c *Container, name string) (T, error) {
	var zero T
	v, err := c.Make(name)
	if err != nil {
		return zero, err
	}
	if v == nil {
		return zero, nil
	}
	typed, ok := v.(T)
	if !ok {
		return zero, &WrongTypeError{
			Name: name,
			Want: reflect.TypeOf(&zero).Elem().String(),
			Got:  reflect.TypeOf(v).String(),
		}
	}
	return typed, nil
}

// MustGet is like Get but panics on error.
func MustGet[T any](c *Container, name string) T {
	v, err := Get[T](c, name)
	if err != nil {
		panic(err)
	}
	return v
}
