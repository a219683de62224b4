// Package supervisor drives discovery and synchronization, restarting the
// whole pipeline when synchronization fails.
package supervisor

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/mirror"
)

// DefaultRestartDelay is the pause between a failed run and the next one.
const DefaultRestartDelay = time.Second

// DiscoverFunc builds a fresh backend set.
type DiscoverFunc func(ctx context.Context) ([]clip.Backend, error)

// SyncFunc mirrors backends until it fails or ctx is done.
type SyncFunc func(ctx context.Context, backends []clip.Backend) error

// Supervisor is the single recovery point. A failed run is never resumed:
// its backends are dropped and discovery starts over.
type Supervisor struct {
	Discover     DiscoverFunc
	Sync         SyncFunc
	RestartDelay time.Duration

	// Sleep defaults to mirror.Sleep.
	Sleep mirror.SleepFunc
}

// Run loops until ctx is done, returning nil, or until discovery fails,
// returning that error. A failed discovery is not retried: with no session
// to mirror there is nothing useful to wait for.
func (s *Supervisor) Run(ctx context.Context) error {
	sleep := s.Sleep
	if sleep == nil {
		sleep = mirror.Sleep
	}

	backends, err := s.Discover(ctx)
	if err != nil {
		return s.discoveryErr(ctx, err)
	}

	for {
		err := s.Sync(ctx, backends)
		if ctx.Err() != nil {
			slog.Info("clipboard sync stopped")
			return nil
		}
		if err != nil {
			slog.Error("error while syncing clipboards, restarting", "err", err)
		} else {
			slog.Warn("clipboard sync returned without error, restarting")
		}

		backends, err = s.Discover(ctx)
		if err != nil {
			return s.discoveryErr(ctx, err)
		}
		if err := sleep(ctx, s.RestartDelay); err != nil {
			return nil
		}
	}
}

func (s *Supervisor) discoveryErr(ctx context.Context, err error) error {
	if ctx.Err() != nil {
		return nil
	}
	return fmt.Errorf("discovery: %w", err)
}
