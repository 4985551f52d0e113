package codec

import (
	"fmt"
	"strconv"
	"strings"
)

// PathRef builds JSON Pointer paths into a document in a chain-safe way and
// creates DecodeErrors located at the built path.
type PathRef struct {
	parts []string
}

// Root returns a PathRef pointing at the document root.
func Root() PathRef { return PathRef{} }

// Field appends an object key segment, escaped per RFC 6901.
func (p PathRef) Field(name string) PathRef {
	if name == "" {
		return p
	}
	esc := strings.ReplaceAll(strings.ReplaceAll(name, "~", "~0"), "/", "~1")
	return PathRef{parts: append(append([]string{}, p.parts...), esc)}
}

// Index appends an array index segment.
func (p PathRef) Index(i int) PathRef {
	return PathRef{parts: append(append([]string{}, p.parts...), strconv.Itoa(i))}
}

// Pointer renders the path as a JSON Pointer string.
func (p PathRef) Pointer() string {
	if len(p.parts) == 0 {
		return "/"
	}
	return "/" + strings.Join(p.parts, "/")
}

// Errorf creates a DecodeError located at the path.
func (p PathRef) Errorf(code, format string, args ...any) *DecodeError {
	return &DecodeError{Path: p.Pointer(), Code: code, Message: fmt.Sprintf(format, args...)}
}
