package discovery

import (
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"go.klb.dev/clipbridge/internal/clip"
)

// DefaultX11SocketDir is where local X servers create their sockets.
const DefaultX11SocketDir = "/tmp/.X11-unix"

// Options configures the built-in Wayland and X11 kinds.
type Options struct {
	Runner clip.Runner

	// Tool paths. Empty values select the adapter defaults.
	WLPaste string
	WLCopy  string
	Xclip   string

	// SkipAbsent skips candidates without a socket on disk.
	SkipAbsent bool

	// RuntimeDir holds Wayland sockets. Empty means $XDG_RUNTIME_DIR.
	RuntimeDir string

	// X11SocketDir holds X11 sockets. Empty means DefaultX11SocketDir.
	X11SocketDir string
}

// Kinds returns the backend kinds in discovery order: Wayland, then X11.
func Kinds(o Options) []Kind {
	return []Kind{WaylandKind(o), X11Kind(o)}
}

// WaylandKind probes wayland-0 .. wayland-255.
func WaylandKind(o Options) Kind {
	k := Kind{
		Name:      "Wayland",
		Var:       clip.WaylandDisplayVar,
		Candidate: func(i int) string { return "wayland-" + strconv.Itoa(i) },
		New: func(s clip.Session) clip.Backend {
			return clip.NewWayland(o.Runner, s).WithTools(o.WLPaste, o.WLCopy)
		},
	}
	if o.SkipAbsent {
		k.Present = func(value string) bool {
			dir := o.RuntimeDir
			if dir == "" {
				dir = os.Getenv("XDG_RUNTIME_DIR")
			}
			if dir == "" {
				// wl-clipboard refuses to connect without it; let the probe say so.
				return true
			}
			return exists(filepath.Join(dir, value))
		}
	}
	return k
}

// X11Kind probes :0 .. :255.
func X11Kind(o Options) Kind {
	k := Kind{
		Name:      "X11",
		Var:       clip.X11DisplayVar,
		Candidate: func(i int) string { return ":" + strconv.Itoa(i) },
		New: func(s clip.Session) clip.Backend {
			return clip.NewX11(o.Runner, s).WithTool(o.Xclip)
		},
	}
	if o.SkipAbsent {
		k.Present = func(value string) bool {
			dir := o.X11SocketDir
			if dir == "" {
				dir = DefaultX11SocketDir
			}
			return exists(filepath.Join(dir, "X"+strings.TrimPrefix(value, ":")))
		}
	}
	return k
}

func exists(path string) bool {
	_, err := os.Stat(path)
	return err == nil
}
