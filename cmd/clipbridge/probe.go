package main

import (
	"context"
	"fmt"
	"io"
	"text/tabwriter"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/discovery"
)

func newProbeCmd() *cobra.Command {
	v := viper.New()

	return &cobra.Command{
		Use:   "probe",
		Short: "Discover the clipboard sessions and print what they hold",
		Long: `Runs discovery only: resolves one Wayland and one X11 session, prints each
session with the type and size of its current contents, then exits.
Nothing is written to either clipboard.`,
		Args:    cobra.NoArgs,
		PreRunE: func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE: func(cmd *cobra.Command, _ []string) error {
			setupLogging(v)
			return runProbe(cmd.Context(), cmd.OutOrStdout(), discovery.Kinds(discoveryOptions(v)))
		},
	}
}

func runProbe(ctx context.Context, w io.Writer, kinds []discovery.Kind) error {
	backends, err := discovery.All(ctx, kinds...)
	if err != nil {
		return err
	}
	return printBackends(ctx, w, backends)
}

func printBackends(ctx context.Context, w io.Writer, backends []clip.Backend) error {
	tw := tabwriter.NewWriter(w, 0, 0, 2, ' ', 0)
	fmt.Fprintln(tw, "BACKEND\tSESSION\tTYPE\tBYTES")
	for _, b := range backends {
		c, err := b.Get(ctx)
		if err != nil {
			return fmt.Errorf("%s: %w", b.Name(), err)
		}
		typ := c.Type()
		if c.Empty() {
			typ = "-"
		}
		fmt.Fprintf(tw, "%s\t%s\t%s\t%d\n", b.Name(), discovery.SessionOf(b), typ, len(c.Data))
	}
	return tw.Flush()
}
