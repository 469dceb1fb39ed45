package cli

import (
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
)

func newServeCmd(opts *options) *cobra.Command {
	cmd := &cobra.Command{
		Use:   "serve",
		Short: "Resolve everything and serve the inspection API",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Log.Sync() }()

			ctx, stop := signal.NotifyContext(cmd.Context(), os.Interrupt, syscall.SIGTERM)
			defer stop()
			return a.Serve(ctx)
		},
	}
	cmd.Flags().String("port", "", "Port to listen on (env HTTP_PORT)")
	// Only errors on a nil flag.
	_ = opts.v.BindPFlag("http.port", cmd.Flags().Lookup("port"))
	return cmd
}
