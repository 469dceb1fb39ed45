package container

import "go.uber.org/zap"

// BootstrapAll resolves every entity registered at call time. Since
// resolution is memoized and dependencies resolve first, the iteration order
// does not matter. It stops at the first error; entities resolved before
// that keep their values. Calling it again only resolves what is left.
func (c *Container) BootstrapAll() error {
	names := c.Names()

	c.resolveMu.Lock()
	defer c.resolveMu.Unlock()

	for _, name := range names {
		e, ok := c.GetModule(name)
		if !ok {
			continue
		}
		if err := c.resolve(e, nil); err != nil {
			c.log.Error("bootstrap stopped", zap.String("entity", name), zap.Error(err))
			return err
		}
	}
	c.log.Info("container bootstrapped", zap.Int("entities", len(names)))
	return nil
}
