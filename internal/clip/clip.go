// Package clip wraps a single clipboard behind a uniform Get/Set/Name
// capability. Two adapters are provided, both driving the external tools that
// own a selection on behalf of the caller:
//
//	wayland.go — wl-paste / wl-copy (wl-clipboard)
//	x11.go     — xclip -selection clipboard
//
// Each adapter is bound to one Session. The session locator is injected into
// the child process environment only, so probing many displays never mutates
// the environment of the running process.
package clip

import (
	"bytes"
	"context"
	"errors"
	"sync"
)

//go:generate mockgen -destination=mocks/mock_backend.go -package=mocks -source=clip.go Backend

// DefaultMIMEType labels contents that carry no negotiated type.
const DefaultMIMEType = "text/plain"

var (
	// ErrBusy is returned when a call arrives while another operation on
	// the same handle is still in flight.
	ErrBusy = errors.New("clipboard handle busy")

	// ErrToolMissing is returned when the external clipboard tool is not
	// installed or not on PATH.
	ErrToolMissing = errors.New("clipboard tool not found")
)

// Contents is a clipboard value: raw bytes plus the mime type they were
// offered as. Treat it as immutable once constructed.
type Contents struct {
	Data     []byte
	MIMEType string
}

// Text returns a text/plain Contents holding s.
func Text(s string) Contents {
	return Contents{Data: []byte(s), MIMEType: DefaultMIMEType}
}

// Default is the shared empty text value.
func Default() Contents {
	return Contents{MIMEType: DefaultMIMEType}
}

// Empty reports whether c carries no data. An empty value means "nothing
// available" and is never a real update.
func (c Contents) Empty() bool { return len(c.Data) == 0 }

// Equal compares raw bytes only; the mime label does not participate.
func (c Contents) Equal(o Contents) bool { return bytes.Equal(c.Data, o.Data) }

// Type returns the mime type, defaulting to text/plain.
func (c Contents) Type() string {
	if c.MIMEType == "" {
		return DefaultMIMEType
	}
	return c.MIMEType
}

// Backend is the capability every clipboard adapter satisfies.
type Backend interface {
	// Name returns a stable display name ("Wayland", "X11").
	Name() string

	// Get returns the current clipboard contents. An empty clipboard, a
	// missing owner or an unsupported format yields empty Contents and a
	// nil error. Any other failure is returned as an error.
	Get(ctx context.Context) (Contents, error)

	// Set replaces the clipboard contents. The backend keeps serving the
	// data after Set returns.
	Set(ctx context.Context, c Contents) error
}

// Session locates one display server session for a backend. The zero value
// inherits whatever the process environment already holds.
type Session struct {
	Var   string
	Value string
}

// Inherited reports whether s defers to the process environment.
func (s Session) Inherited() bool { return s.Value == "" }

// String returns the session value, or "env" for an inherited session.
func (s Session) String() string {
	if s.Inherited() {
		return "env"
	}
	return s.Value
}

// env returns the child environment override for s, or nil when inherited.
func (s Session) env() []string {
	if s.Inherited() {
		return nil
	}
	return []string{s.Var + "=" + s.Value}
}

// guard admits at most one in-flight operation on a handle.
type guard struct {
	mu sync.Mutex
}

func (g *guard) acquire() (func(), error) {
	if !g.mu.TryLock() {
		return nil, ErrBusy
	}
	return g.mu.Unlock, nil
}
