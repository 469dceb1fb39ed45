package discovery

import (
	"fmt"

	"go.uber.org/zap"

	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/container"
)

// Loader registers every definition found under Dir.
type Loader struct {
	Dir     string
	Exclude []string
	log     *zap.Logger
}

// NewLoader returns a Loader for cfg. A nil logger discards output.
func NewLoader(cfg config.DiscoveryConfig, log *zap.Logger) *Loader {
	if log == nil {
		log = zap.NewNop()
	}
	return &Loader{Dir: cfg.Dir, Exclude: cfg.Exclude, log: log}
}

// Collect reads every definition file without touching a container.
func (l *Loader) Collect() (Set, error) {
	files, err := Walk(l.Dir, l.Exclude)
	if err != nil {
		return Set{}, err
	}

	var all Set
	for _, f := range files {
		var (
			set Set
			err error
		)
		switch f.Kind {
		case KindGo:
			set, err = LoadGoFile(f.Path)
		default:
			set, err = LoadManifest(f.Path)
		}
		if err != nil {
			return Set{}, err
		}
		l.log.Debug("definition file loaded",
			zap.String("path", f.Path),
			zap.Stringer("kind", f.Kind),
			zap.Int("entities", len(set.Definitions)),
			zap.Int("aliases", len(set.Aliases)))
		all.merge(set)
	}
	return all, nil
}

// Load registers everything Collect finds into app and returns the number of
// entities registered. Aliases are applied after all entities, so they may
// point at names from any file.
func (l *Loader) Load(app *container.Container) (int, error) {
	set, err := l.Collect()
	if err != nil {
		return 0, err
	}

	for _, def := range set.Definitions {
		var err error
		if def.IsFactory() {
			_, err = app.Func(def.Name, def.Factory, def.DependsOn...)
		} else {
			_, err = app.Constant(def.Name, def.Value)
		}
		if err != nil {
			return 0, fmt.Errorf("discovery: %s: %w", def.Source, err)
		}
		for _, tag := range def.Tags {
			app.Tag(tag, def.Name)
		}
	}
	for _, a := range set.Aliases {
		if err := app.Alias(a.Name, a.Alias); err != nil {
			return 0, fmt.Errorf("discovery: %s: %w", a.Source, err)
		}
	}

	l.log.Info("definitions discovered",
		zap.String("dir", l.Dir),
		zap.Int("entities", len(set.Definitions)),
		zap.Int("aliases", len(set.Aliases)))
	return len(set.Definitions), nil
}
