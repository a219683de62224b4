package clip

import (
	"bufio"
	"bytes"
	"strings"
)

// preferredTypes is the read negotiation order. Text wins over images so
// that rich clipboards mirror as the representation every client accepts.
var preferredTypes = []string{
	"text/plain;charset=utf-8",
	"text/plain",
	"UTF8_STRING",
	"STRING",
	"TEXT",
	"image/png",
}

// x11TextTargets maps X11 text target atoms onto mime labels.
var x11TextTargets = map[string]string{
	"UTF8_STRING": "text/plain;charset=utf-8",
	"STRING":      "text/plain",
	"TEXT":        "text/plain",
}

// IsText reports whether mime names a plain-text representation.
func IsText(mime string) bool {
	if _, ok := x11TextTargets[mime]; ok {
		return true
	}
	return strings.HasPrefix(strings.ToLower(mime), "text/plain")
}

// parseTypes splits a tool's type listing into one entry per line.
func parseTypes(out []byte) []string {
	var types []string
	sc := bufio.NewScanner(bytes.NewReader(out))
	for sc.Scan() {
		if t := strings.TrimSpace(sc.Text()); t != "" {
			types = append(types, t)
		}
	}
	return types
}

// pickType returns the most preferred offered type.
func pickType(offered []string) (string, bool) {
	set := make(map[string]struct{}, len(offered))
	for _, t := range offered {
		set[t] = struct{}{}
	}
	for _, t := range preferredTypes {
		if _, ok := set[t]; ok {
			return t, true
		}
	}
	return "", false
}

// labelFor maps a negotiated type to the mime label carried in Contents.
func labelFor(typ string) string {
	if mime, ok := x11TextTargets[typ]; ok {
		return mime
	}
	return typ
}
