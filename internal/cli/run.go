package cli

import (
	"encoding/json"
	"fmt"
	"io"
	"strings"
	"text/tabwriter"

	"github.com/spf13/cobra"

	"github.com/km-arc/go-inject/framework/container"
	"github.com/km-arc/go-inject/framework/inspect"
)

func newRunCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "run",
		Short: "Discover definitions, resolve everything and print the results",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Log.Sync() }()

			if err := a.Boot(); err != nil {
				return fmt.Errorf("bootstrap: %w", err)
			}
			return printEntities(cmd.OutOrStdout(), a.Entities(), asJSON, true)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func newListCmd(opts *options) *cobra.Command {
	var asJSON bool
	cmd := &cobra.Command{
		Use:   "list",
		Short: "List discovered entities without resolving them",
		RunE: func(cmd *cobra.Command, args []string) error {
			a, err := opts.loadApp()
			if err != nil {
				return err
			}
			defer func() { _ = a.Log.Sync() }()

			return printEntities(cmd.OutOrStdout(), a.Entities(), asJSON, false)
		},
	}
	cmd.Flags().BoolVar(&asJSON, "json", false, "Output in JSON format")
	return cmd
}

func printEntities(w io.Writer, entities []*container.Entity, asJSON, withValues bool) error {
	views := make([]inspect.EntityView, len(entities))
	for i, e := range entities {
		views[i] = inspect.View(e)
	}

	if asJSON {
		out, err := json.MarshalIndent(views, "", "  ")
		if err != nil {
			return fmt.Errorf("marshaling entities: %w", err)
		}
		_, err = fmt.Fprintln(w, string(out))
		return err
	}

	tw := tabwriter.NewWriter(w, 0, 4, 2, ' ', 0)
	if withValues {
		fmt.Fprintln(tw, "NAME\tKIND\tVALUE")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%v\n", v.Name, v.Kind, display(v.Value))
		}
	} else {
		fmt.Fprintln(tw, "NAME\tKIND\tDEPENDS ON\tTAGS")
		for _, v := range views {
			fmt.Fprintf(tw, "%s\t%s\t%s\t%s\n", v.Name, v.Kind, joinOrDash(v.DependsOn), joinOrDash(v.Tags))
		}
	}
	return tw.Flush()
}

func display(v any) any {
	if v == nil {
		return "<nil>"
	}
	return v
}

func joinOrDash(list []string) string {
	if len(list) == 0 {
		return "-"
	}
	return strings.Join(list, ",")
}
