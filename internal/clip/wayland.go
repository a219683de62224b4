package clip

import (
	"context"
	"fmt"
)

// WaylandDisplayVar is the session locator for Wayland clients.
const WaylandDisplayVar = "WAYLAND_DISPLAY"

// Conditions wl-paste reports for a clipboard with nothing usable on it.
var waylandEmpty = []string{
	"nothing is copied",
	"no selection",
	"no suitable type of content",
	"no seats",
}

// Wayland is the wl-clipboard adapter.
type Wayland struct {
	g       guard
	runner  Runner
	session Session
	paste   string
	copy    string
}

// NewWayland returns a Wayland adapter bound to s. An inherited session uses
// whatever WAYLAND_DISPLAY the process already has.
func NewWayland(r Runner, s Session) *Wayland {
	s.Var = WaylandDisplayVar
	return &Wayland{
		runner:  r,
		session: s,
		paste:   "wl-paste",
		copy:    "wl-copy",
	}
}

// WithTools overrides the wl-paste and wl-copy paths. Empty values keep the default.
func (w *Wayland) WithTools(paste, cp string) *Wayland {
	if paste != "" {
		w.paste = paste
	}
	if cp != "" {
		w.copy = cp
	}
	return w
}

func (w *Wayland) Name() string     { return "Wayland" }
func (w *Wayland) Session() Session { return w.session }

func (w *Wayland) Get(ctx context.Context) (Contents, error) {
	release, err := w.g.acquire()
	if err != nil {
		return Contents{}, err
	}
	defer release()

	env := w.session.env()
	out, err := w.runner.Output(ctx, env, w.paste, "--list-types")
	if err != nil {
		return w.normalize(err)
	}
	typ, ok := pickType(parseTypes(out))
	if !ok {
		return Default(), nil
	}

	data, err := w.runner.Output(ctx, env, w.paste, "--no-newline", "--type", typ)
	if err != nil {
		return w.normalize(err)
	}
	return Contents{Data: data, MIMEType: labelFor(typ)}, nil
}

func (w *Wayland) Set(ctx context.Context, c Contents) error {
	release, err := w.g.acquire()
	if err != nil {
		return err
	}
	defer release()

	args := []string{"--clear"}
	if !c.Empty() {
		// wl-copy offers the usual text aliases alongside any text type.
		typ := c.Type()
		if IsText(typ) {
			typ = "text/plain;charset=utf-8"
		}
		args = []string{"--type", typ}
	}
	if err := w.runner.Feed(ctx, w.session.env(), c.Data, w.copy, args...); err != nil {
		return fmt.Errorf("wayland set: %w", err)
	}
	return nil
}

func (w *Wayland) normalize(err error) (Contents, error) {
	if stderrContains(err, waylandEmpty...) {
		return Default(), nil
	}
	return Contents{}, fmt.Errorf("wayland get: %w", err)
}
