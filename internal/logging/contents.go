package logging

import (
	"context"
	"log/slog"
	"unicode/utf8"

	"go.klb.dev/clipbridge/internal/clip"
)

const previewRunes = 120

// Preview renders text contents for a debug line, cut at 120 runes.
// Non-text contents render as "" so callers log their size instead.
func Preview(c clip.Contents) string {
	if !clip.IsText(c.Type()) || !utf8.Valid(c.Data) {
		return ""
	}
	s := string(c.Data)
	if utf8.RuneCountInString(s) <= previewRunes {
		return s
	}
	r := []rune(s)
	return string(r[:previewRunes]) + "…"
}

// LogContents logs a clipboard event at INFO (source, mime type) and the
// contents at DEBUG (text preview, or byte size for binary data).
func LogContents(event, source string, c clip.Contents) {
	slog.Info(event, "source", source, "type", c.Type())

	if !slog.Default().Enabled(context.Background(), slog.LevelDebug) {
		return
	}
	if p := Preview(c); p != "" {
		slog.Debug("clipboard contents", "type", c.Type(), "preview", p)
		return
	}
	slog.Debug("clipboard contents", "type", c.Type(), "size_bytes", len(c.Data))
}
