// clipbridge: keeps the Wayland and X11 clipboards mirrored.
package main

import (
	"context"
	"fmt"
	"os"
	"os/signal"
	"syscall"

	"github.com/spf13/cobra"
	"github.com/spf13/viper"

	"go.klb.dev/clipbridge/internal/logging"
)

// Version is set at build time via -ldflags "-X main.Version=x.y.z".
var Version = "dev"

func main() {
	ctx, stop := signal.NotifyContext(context.Background(), os.Interrupt, syscall.SIGTERM)
	err := newRootCmd().ExecuteContext(ctx)
	stop()
	if err != nil {
		os.Exit(1)
	}
}

func newRootCmd() *cobra.Command {
	v := viper.New()

	root := &cobra.Command{
		Use:   "clipbridge",
		Short: "Mirror the Wayland and X11 clipboards",
		Long: `clipbridge keeps the Wayland clipboard and the X11 clipboard of a host
running both display servers holding the same contents.

Sessions are taken from WAYLAND_DISPLAY and DISPLAY. When either is unset or
unusable, wayland-0..wayland-255 and :0..:255 are probed in order.
Requires wl-clipboard (wl-paste, wl-copy) and xclip.

Config file search order (first found wins):
  /etc/clipbridge/clipbridge.toml
  $HOME/.config/clipbridge/clipbridge.toml
  path supplied via --config

Precedence (lowest → highest): defaults → config file → CLIPBRIDGE_* env vars → flags`,
		Args:         cobra.NoArgs,
		SilenceUsage: true,
		PreRunE:      func(cmd *cobra.Command, _ []string) error { return bindViper(cmd, v) },
		RunE:         func(cmd *cobra.Command, _ []string) error { return runBridge(cmd.Context(), v) },
	}

	addSyncFlags(root)
	addToolFlags(root.PersistentFlags())
	addLoggingFlags(root.PersistentFlags())
	addConfigFlag(root.PersistentFlags())

	root.AddCommand(
		newProbeCmd(),
		newVersionCmd(),
	)
	return root
}

func newVersionCmd() *cobra.Command {
	return &cobra.Command{
		Use:   "version",
		Short: "Print version information",
		Args:  cobra.NoArgs,
		Run: func(cmd *cobra.Command, _ []string) {
			fmt.Fprintf(cmd.OutOrStdout(), "clipbridge %s\n", Version)
		},
	}
}

// resolveLogging sets up the global slog logger after flags are parsed.
func resolveLogging(interactive bool, formatStr, levelStr string) {
	format := logging.ParseFormat(formatStr)
	level := logging.ParseLevel(levelStr)
	if levelStr == "" {
		if interactive {
			level = logging.ParseLevel("debug")
		} else {
			level = logging.ParseLevel("info")
		}
	}
	logging.Setup(format, level)
}
