package clip

import (
	"context"
	"fmt"
)

// X11DisplayVar is the session locator for X11 clients.
const X11DisplayVar = "DISPLAY"

// Conditions xclip reports for a selection with nothing usable on it.
var x11Empty = []string{
	"not available",
	"there is no owner",
}

// X11 is the xclip adapter for the CLIPBOARD selection.
type X11 struct {
	g       guard
	runner  Runner
	session Session
	xclip   string
}

// NewX11 returns an X11 adapter bound to s. An inherited session uses
// whatever DISPLAY the process already has.
func NewX11(r Runner, s Session) *X11 {
	s.Var = X11DisplayVar
	return &X11{
		runner:  r,
		session: s,
		xclip:   "xclip",
	}
}

// WithTool overrides the xclip path. An empty value keeps the default.
func (x *X11) WithTool(xclip string) *X11 {
	if xclip != "" {
		x.xclip = xclip
	}
	return x
}

func (x *X11) Name() string     { return "X11" }
func (x *X11) Session() Session { return x.session }

func (x *X11) Get(ctx context.Context) (Contents, error) {
	release, err := x.g.acquire()
	if err != nil {
		return Contents{}, err
	}
	defer release()

	env := x.session.env()
	out, err := x.runner.Output(ctx, env, x.xclip, "-selection", "clipboard", "-o", "-t", "TARGETS")
	if err != nil {
		return x.normalize(err)
	}
	typ, ok := pickType(parseTypes(out))
	if !ok {
		return Default(), nil
	}

	data, err := x.runner.Output(ctx, env, x.xclip, "-selection", "clipboard", "-o", "-t", typ)
	if err != nil {
		return x.normalize(err)
	}
	return Contents{Data: data, MIMEType: labelFor(typ)}, nil
}

func (x *X11) Set(ctx context.Context, c Contents) error {
	release, err := x.g.acquire()
	if err != nil {
		return err
	}
	defer release()

	// Without -t xclip advertises UTF8_STRING, STRING and TEXT.
	args := []string{"-selection", "clipboard", "-i"}
	if !c.Empty() && !IsText(c.Type()) {
		args = append(args, "-t", c.Type())
	}
	if err := x.runner.Feed(ctx, x.session.env(), c.Data, x.xclip, args...); err != nil {
		return fmt.Errorf("x11 set: %w", err)
	}
	return nil
}

func (x *X11) normalize(err error) (Contents, error) {
	if stderrContains(err, x11Empty...) {
		return Default(), nil
	}
	return Contents{}, fmt.Errorf("x11 get: %w", err)
}
