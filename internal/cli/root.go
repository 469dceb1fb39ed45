package cli

import (
	"fmt"
	"os"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"github.com/km-arc/go-inject/framework/app"
	"github.com/km-arc/go-inject/framework/config"
	"github.com/km-arc/go-inject/framework/logging"
)

type buildInfo struct {
	version string
	commit  string
	date    string
}

// options is shared by every subcommand of one root.
type options struct {
	v        *viper.Viper
	envFiles []string
	build    buildInfo
}

// Execute runs the root command with build info injected via ldflags.
func Execute(version, commit, date string) error {
	root := newRootCmd(buildInfo{version: version, commit: commit, date: date})
	if err := root.Execute(); err != nil {
		fmt.Fprintln(os.Stderr, "Error:", err)
		return err
	}
	return nil
}

func newRootCmd(build buildInfo) *cobra.Command {
	opts := &options{v: viper.New(), build: build}

	root := &cobra.Command{
		Use:   "go-inject",
		Short: "Discover, wire and resolve dependency definitions",
		Long: `go-inject walks a directory of YAML manifests and Go definition files,
registers every entity they declare and resolves them lazily, each factory
running at most once.`,
		SilenceUsage:  true,
		SilenceErrors: true,
	}

	pf := root.PersistentFlags()
	pf.StringSliceVar(&opts.envFiles, "env-file", nil, "Env files to load (default .env)")
	pf.String("dir", "", "Directory to discover definitions in (env INJECT_DIR)")
	pf.String("exclude", "", "Comma-separated directories to skip (env INJECT_EXCLUDE)")
	pf.Bool("strict", false, "Fail on unknown dependency names instead of passing nil (env INJECT_STRICT)")
	pf.String("log-level", "", "Log level: debug, info, warn, error (env LOG_LEVEL)")
	pf.String("log-format", "", "Log format: console or json (env LOG_FORMAT)")

	for key, flag := range map[string]string{
		"inject.dir":     "dir",
		"inject.exclude": "exclude",
		"inject.strict":  "strict",
		"log.level":      "log-level",
		"log.format":     "log-format",
	} {
		// Only errors on a nil flag.
		_ = opts.v.BindPFlag(key, pf.Lookup(flag))
	}

	root.AddCommand(
		newRunCmd(opts),
		newListCmd(opts),
		newServeCmd(opts),
		newVersionCmd(opts),
	)
	return root
}

// loadApp builds an application from flags, environment and env files.
func (o *options) loadApp() (*app.Application, error) {
	cfg := config.LoadWith(o.v, o.envFiles...)
	log, err := logging.New(cfg.Log)
	if err != nil {
		return nil, err
	}
	a, err := app.New(cfg, log)
	if err != nil {
		_ = log.Sync()
		return nil, fmt.Errorf("loading definitions from %s: %w", cfg.Discovery.Dir, err)
	}
	return a, nil
}
