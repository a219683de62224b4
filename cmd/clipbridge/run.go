package main

import (
	"context"
	"log/slog"

	"github.com/spf13/viper"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/discovery"
	"go.klb.dev/clipbridge/internal/mirror"
	"go.klb.dev/clipbridge/internal/supervisor"
)

func runBridge(ctx context.Context, v *viper.Viper) error {
	setupLogging(v)

	opts := discoveryOptions(v)
	syncOpts := syncOptions(v)

	slog.Info("clipbridge starting",
		"version", Version,
		"pass_interval", v.GetDuration("pass-interval"),
		"restart_delay", v.GetDuration("restart-delay"),
	)

	sup := &supervisor.Supervisor{
		Discover: func(ctx context.Context) ([]clip.Backend, error) {
			return discovery.All(ctx, discovery.Kinds(opts)...)
		},
		Sync: func(ctx context.Context, backends []clip.Backend) error {
			return mirror.New(backends, syncOpts...).Run(ctx)
		},
		RestartDelay: v.GetDuration("restart-delay"),
	}
	if err := sup.Run(ctx); err != nil {
		slog.Error("clipbridge stopped", "err", err)
		return err
	}
	return nil
}
