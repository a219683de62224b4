package main

import (
	"errors"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/spf13/cobra"
	"github.com/spf13/pflag"
	"github.com/spf13/viper"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/discovery"
	"go.klb.dev/clipbridge/internal/logging"
	"go.klb.dev/clipbridge/internal/mirror"
	"go.klb.dev/clipbridge/internal/supervisor"
)

// envKeyReplacer maps flag names onto env var suffixes: pass-interval → PASS_INTERVAL.
var envKeyReplacer = strings.NewReplacer("-", "_")

// bindViper wires a command's flags into a viper instance with the standard
// config file search order and CLIPBRIDGE_* env var prefix.
//
// Precedence (lowest → highest): defaults → config file → CLIPBRIDGE_* env vars → flags
func bindViper(cmd *cobra.Command, v *viper.Viper) error {
	configFlag, _ := cmd.Flags().GetString("config")
	if configFlag != "" {
		v.SetConfigFile(configFlag)
	} else {
		v.SetConfigName("clipbridge")
		v.SetConfigType("toml")
		v.AddConfigPath("/etc/clipbridge/")
		if home, err := os.UserHomeDir(); err == nil {
			v.AddConfigPath(filepath.Join(home, ".config", "clipbridge"))
		}
	}

	if err := v.ReadInConfig(); err != nil {
		var notFound viper.ConfigFileNotFoundError
		if !errors.As(err, &notFound) {
			return fmt.Errorf("config: %w", err)
		}
	}

	v.SetEnvPrefix("CLIPBRIDGE")
	v.SetEnvKeyReplacer(envKeyReplacer)
	v.AutomaticEnv()

	if err := v.BindPFlags(cmd.Flags()); err != nil {
		return fmt.Errorf("binding flags: %w", err)
	}
	return nil
}

// addSyncFlags adds the polling and restart timing flags.
func addSyncFlags(cmd *cobra.Command) {
	f := cmd.Flags()
	f.Duration("pass-interval", mirror.DefaultPassInterval, "pause between full passes over the clipboards")
	f.Duration("check-interval", mirror.DefaultCheckInterval, "pause before each clipboard read within a pass")
	f.Duration("settle-interval", mirror.DefaultSettleInterval, "pause after mirroring a change")
	f.Duration("restart-delay", supervisor.DefaultRestartDelay, "pause before resuming after an error")
}

// addToolFlags adds the clipboard tool and discovery flags.
func addToolFlags(f *pflag.FlagSet) {
	f.String("wl-paste", "wl-paste", "path to wl-paste")
	f.String("wl-copy", "wl-copy", "path to wl-copy")
	f.String("xclip", "xclip", "path to xclip")
	f.Duration("command-timeout", clip.DefaultCommandTimeout, "timeout for a single clipboard tool call")
	f.Bool("skip-absent", false, "skip candidate displays without a socket on disk")
}

// addLoggingFlags adds the standard logging flags.
func addLoggingFlags(f *pflag.FlagSet) {
	f.Bool("no-background", false, "run interactively: tinter logs + debug level")
	f.String("log-format", "auto", "log format: auto|text|json")
	f.String("log-level", "", "log level: debug|info|warn|error (default: info for service, debug for interactive)")
}

// addConfigFlag adds the --config flag.
func addConfigFlag(f *pflag.FlagSet) {
	f.String("config", "", "path to config file (overrides auto-discovery)")
}

// setupLogging reads logging flags from viper and configures slog.
func setupLogging(v *viper.Viper) {
	interactive := v.GetBool("no-background") || logging.IsTTY(os.Stderr)
	resolveLogging(interactive, v.GetString("log-format"), v.GetString("log-level"))
}

// discoveryOptions maps the tool flags onto discovery options.
func discoveryOptions(v *viper.Viper) discovery.Options {
	return discovery.Options{
		Runner:     clip.ExecRunner{Timeout: v.GetDuration("command-timeout")},
		WLPaste:    v.GetString("wl-paste"),
		WLCopy:     v.GetString("wl-copy"),
		Xclip:      v.GetString("xclip"),
		SkipAbsent: v.GetBool("skip-absent"),
	}
}

// syncOptions maps the timing flags onto synchronizer options.
func syncOptions(v *viper.Viper) []mirror.Option {
	return []mirror.Option{
		mirror.WithPassInterval(v.GetDuration("pass-interval")),
		mirror.WithCheckInterval(v.GetDuration("check-interval")),
		mirror.WithSettleInterval(v.GetDuration("settle-interval")),
	}
}
