// Package mirror keeps a fixed set of clipboard backends holding the same
// contents.
//
// A run starts by reconciling every backend to one seed value, then polls the
// backends in a fixed order. The first backend whose contents differ from the
// baseline wins: its value is written to every other backend and becomes the
// new baseline, and the pass restarts from the first backend. Once every
// backend holds the baseline, a poll finds nothing to do until some client
// writes a new value, which is what keeps broadcasts from echoing.
//
// Two clients writing different backends within one pass cannot be ordered;
// the earlier backend in the set wins and the other write is overwritten.
package mirror

import (
	"context"
	"fmt"
	"log/slog"
	"time"

	"go.klb.dev/clipbridge/internal/clip"
	"go.klb.dev/clipbridge/internal/logging"
)

const (
	DefaultPassInterval   = 200 * time.Millisecond
	DefaultCheckInterval  = 25 * time.Millisecond
	DefaultSettleInterval = 100 * time.Millisecond
)

// SleepFunc pauses for d or until ctx is done.
type SleepFunc func(ctx context.Context, d time.Duration) error

// Option configures a Synchronizer.
type Option func(*Synchronizer)

// WithPassInterval sets the pause between full passes over the backends.
func WithPassInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.passInterval = d }
}

// WithCheckInterval sets the pause before each backend read within a pass.
func WithCheckInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.checkInterval = d }
}

// WithSettleInterval sets the pause after a broadcast.
func WithSettleInterval(d time.Duration) Option {
	return func(s *Synchronizer) { s.settleInterval = d }
}

// WithSleep replaces the pause implementation.
func WithSleep(fn SleepFunc) Option {
	return func(s *Synchronizer) { s.sleep = fn }
}

// Synchronizer owns one backend set for the duration of a run. It issues
// one backend call at a time and is not safe for concurrent use.
type Synchronizer struct {
	backends []clip.Backend
	baseline clip.Contents

	passInterval   time.Duration
	checkInterval  time.Duration
	settleInterval time.Duration
	sleep          SleepFunc
}

// New returns a Synchronizer over backends, in the order given.
func New(backends []clip.Backend, opts ...Option) *Synchronizer {
	s := &Synchronizer{
		backends:       backends,
		baseline:       clip.Default(),
		passInterval:   DefaultPassInterval,
		checkInterval:  DefaultCheckInterval,
		settleInterval: DefaultSettleInterval,
		sleep:          Sleep,
	}
	for _, o := range opts {
		o(s)
	}
	return s
}

// Baseline returns the last value known to be mirrored on every backend.
func (s *Synchronizer) Baseline() clip.Contents { return s.baseline }

// Reconcile reads every backend and seeds them all with the first non-empty
// value in backend order, or the default empty value when all are empty.
// Backends already holding the seed are not written.
func (s *Synchronizer) Reconcile(ctx context.Context) (clip.Contents, error) {
	current := make([]clip.Contents, len(s.backends))
	seed := clip.Default()
	seedFrom := ""
	for i, b := range s.backends {
		c, err := b.Get(ctx)
		if err != nil {
			return clip.Contents{}, fmt.Errorf("%s: %w", b.Name(), err)
		}
		current[i] = c
		if seedFrom == "" && !c.Empty() {
			seed, seedFrom = c, b.Name()
		}
	}

	for i, b := range s.backends {
		if current[i].Equal(seed) {
			continue
		}
		if err := b.Set(ctx, seed); err != nil {
			return clip.Contents{}, fmt.Errorf("%s: %w", b.Name(), err)
		}
	}
	s.baseline = seed

	if seedFrom != "" {
		logging.LogContents("clipboards reconciled", seedFrom, seed)
	} else {
		slog.Info("clipboards reconciled", "source", "none")
	}
	return seed, nil
}

// Poll runs one pass over the backends and reports whether a change was
// broadcast. Empty reads are never treated as an update.
func (s *Synchronizer) Poll(ctx context.Context) (bool, error) {
	for i, b := range s.backends {
		if err := s.sleep(ctx, s.checkInterval); err != nil {
			return false, err
		}
		c, err := b.Get(ctx)
		if err != nil {
			return false, fmt.Errorf("%s: %w", b.Name(), err)
		}
		if c.Empty() || c.Equal(s.baseline) {
			continue
		}

		logging.LogContents("clipboard updated", b.Name(), c)
		if err := s.broadcast(ctx, i, c); err != nil {
			return false, err
		}
		s.baseline = c
		return true, nil
	}
	return false, nil
}

// Run reconciles, then polls until an adapter fails or ctx is done. It never
// retries; the error is returned as the adapter reported it, prefixed with
// the backend name.
func (s *Synchronizer) Run(ctx context.Context) error {
	if _, err := s.Reconcile(ctx); err != nil {
		return err
	}
	for {
		changed, err := s.Poll(ctx)
		if err != nil {
			return err
		}
		pause := s.passInterval
		if changed {
			pause = s.settleInterval
		}
		if err := s.sleep(ctx, pause); err != nil {
			return err
		}
	}
}

// broadcast writes c to every backend except origin.
func (s *Synchronizer) broadcast(ctx context.Context, origin int, c clip.Contents) error {
	for i, b := range s.backends {
		if i == origin {
			continue
		}
		if err := b.Set(ctx, c); err != nil {
			return fmt.Errorf("%s: %w", b.Name(), err)
		}
		slog.Debug("clipboard mirrored", "from", s.backends[origin].Name(), "to", b.Name())
	}
	return nil
}

// Sleep pauses for d or until ctx is done, returning ctx.Err() in that case.
func Sleep(ctx context.Context, d time.Duration) error {
	if d <= 0 {
		return ctx.Err()
	}
	t := time.NewTimer(d)
	defer t.Stop()
	select {
	case <-ctx.Done():
		return ctx.Err()
	case <-t.C:
		return nil
	}
}
