// Package container is a lazy dependency-injection container.
//
// # Overview
//
// Entities are registered by name as either a Constant or a Factory that
// declares, by name, the entities it depends on. Nothing is built at
// registration time. An entity is resolved on demand: its dependencies are
// resolved first (recursively), then its factory is called once with their
// values and the result is memoized for the life of the container.
//
// # Container Lifecycle
//
//  1. Create: c := container.New()
//  2. Register providers: registry.Register(&MyProvider{})
//  3. Boot: registry.Boot(), which resolves every entity exactly once
//  4. Use: container.Get[*Server](c, "server")
//
// # Registering
//
//	c.Constant("port", 8080)
//
//	c.Module("addr", func(_ *container.Entity, args ...any) (any, error) {
//	    return fmt.Sprintf(":%v", args[0]), nil
//	}, "port")
//
//	// Any Go function; arguments are converted from the resolved values.
//	c.Func("addr", func(port int) string { return fmt.Sprintf(":%d", port) }, "port")
//
// # Missing dependencies
//
// A blank or unregistered dependency name resolves to nil by default, so a
// factory can treat it as optional. WithStrictDependencies(true) turns this
// into a *MissingDependencyError.
//
// # Cycles
//
// Resolution tracks the chain of entities being resolved. Revisiting one
// fails with a *CircularDependencyError instead of recursing forever.
//
// # Aliases, tags and contextual overrides
//
//	c.Alias("port", "http.port")
//
//	c.Tag("handlers", "users", "orders")
//	handlers, err := c.Tagged("handlers")
//
//	c.When("mailer").Needs("transport").Give("smtp")
//	c.When("server").Needs("port").GiveValue(9090)
//
// # Concurrency
//
// Registration and lookups are safe for concurrent use. Resolution is
// serialized, so a factory never runs twice even under concurrent callers;
// factories must not call Make, Resolve or BootstrapAll themselves.
package container
