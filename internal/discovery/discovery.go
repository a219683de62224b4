// Package discovery locates one live session per clipboard backend type.
//
// A backend is first probed against the inherited process environment. If
// that fails, candidate session identifiers are tried in order. Candidates
// are handed to the adapter constructor and reach only the child process
// environment of the clipboard tools; the environment of this process is
// never modified. Probing only reads.
package discovery

import (
	"context"
	"errors"
	"fmt"
	"log/slog"

	"go.klb.dev/clipbridge/internal/clip"
)

// MaxCandidates is the number of candidate sessions tried per backend type.
const MaxCandidates = 256

// ErrExhausted means no candidate session produced a working backend.
var ErrExhausted = errors.New("no working clipboard session found")

// Kind describes one backend type and how to enumerate its sessions.
type Kind struct {
	// Name is the backend display name.
	Name string

	// Var is the session locator environment variable.
	Var string

	// Candidate returns the session value for index i.
	Candidate func(i int) string

	// Present reports whether a candidate looks alive without spawning a
	// tool. Nil means every candidate is probed.
	Present func(value string) bool

	// New builds an unprobed adapter bound to s.
	New func(s clip.Session) clip.Backend
}

// Discover returns the first backend of kind k whose probe read succeeds.
func Discover(ctx context.Context, k Kind) (clip.Backend, error) {
	inherited := clip.Session{Var: k.Var}
	b, err := probe(ctx, k.New(inherited))
	if err == nil {
		slog.Debug("clipboard session usable from environment", "backend", k.Name, "var", k.Var)
		return b, nil
	}
	slog.Info("environment session not usable, scanning candidates",
		"backend", k.Name,
		"var", k.Var,
		"err", err,
	)

	lastErr := err
	for i := range MaxCandidates {
		if err := ctx.Err(); err != nil {
			return nil, err
		}
		value := k.Candidate(i)
		if k.Present != nil && !k.Present(value) {
			continue
		}
		s := clip.Session{Var: k.Var, Value: value}
		b, err := probe(ctx, k.New(s))
		if err != nil {
			slog.Debug("candidate session rejected", "backend", k.Name, "session", value, "err", err)
			lastErr = err
			continue
		}
		slog.Info("clipboard session detected", "backend", k.Name, "session", value)
		return b, nil
	}
	return nil, fmt.Errorf("%s: %w: %w", k.Name, ErrExhausted, lastErr)
}

// All discovers every kind in order. Every kind is required: the first
// exhausted kind fails the whole pass.
func All(ctx context.Context, kinds ...Kind) ([]clip.Backend, error) {
	backends := make([]clip.Backend, 0, len(kinds))
	attrs := make([]any, 0, 2*len(kinds))
	for _, k := range kinds {
		b, err := Discover(ctx, k)
		if err != nil {
			return nil, err
		}
		backends = append(backends, b)
		attrs = append(attrs, k.Name, SessionOf(b).String())
	}
	slog.Info("clipboards found", attrs...)
	return backends, nil
}

// SessionOf returns the session a backend is bound to, or the inherited
// session if the backend does not report one.
func SessionOf(b clip.Backend) clip.Session {
	if s, ok := b.(interface{ Session() clip.Session }); ok {
		return s.Session()
	}
	return clip.Session{}
}

func probe(ctx context.Context, b clip.Backend) (clip.Backend, error) {
	if _, err := b.Get(ctx); err != nil {
		return nil, err
	}
	return b, nil
}
