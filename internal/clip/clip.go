// Package clip provides a unified interface to the system clipboard across
// platforms. Each backend satisfies Adapter; Open selects one by name:
//
//	native   golang.design/x/clipboard (text + image/png)
//	win32    direct user32 calls, arbitrary registered formats (Windows)
//	xclip    xclip subprocess, clipboard + primary selection (X11)
//	wayland  wl-copy / wl-paste subprocess, clipboard + primary selection
//	text     github.com/atotto/clipboard, plain text only
//	memory   in-process clipboard for headless hosts and tests
package clip

import (
	"fmt"
	"strings"
)

// Buffer identifies which OS buffer an operation targets. The integer values
// are part of the host contract and must not change.
type Buffer int

const (
	Clipboard Buffer = 0
	Selection Buffer = 1
)

func (b Buffer) String() string {
	switch b {
	case Clipboard:
		return "clipboard"
	case Selection:
		return "selection"
	default:
		return fmt.Sprintf("buffer(%d)", int(b))
	}
}

// Valid reports whether b is Clipboard or Selection.
func (b Buffer) Valid() bool { return b == Clipboard || b == Selection }

// ParseBuffer accepts "clipboard", "selection" (or "primary") and the host
// integer encoding.
func ParseBuffer(s string) (Buffer, error) {
	switch strings.ToLower(strings.TrimSpace(s)) {
	case "clipboard", "0":
		return Clipboard, nil
	case "selection", "primary", "1":
		return Selection, nil
	}
	return 0, fmt.Errorf("unknown clipboard buffer %q", s)
}

// Well-known type tags.
const (
	MIMEText     = "text/plain"
	MIMETextUTF8 = "text/plain;charset=utf-8"
	MIMEPNG      = "image/png"
)

// textTypes are the tags every backend treats as plain text.
var textTypes = []string{MIMEText, MIMETextUTF8, "UTF8_STRING", "STRING", "TEXT"}

// IsText reports whether mime names a plain-text representation.
func IsText(mime string) bool {
	for _, t := range textTypes {
		if strings.EqualFold(t, mime) {
			return true
		}
	}
	return false
}

// Adapter is the interface that all platform clipboard implementations satisfy.
// Implementations are not safe for concurrent use; callers serialize access.
type Adapter interface {
	// Name returns a short backend name as accepted by Open.
	Name() string

	// Init prepares OS clipboard access. Calling it again is a no-op.
	Init() error
	Initialized() bool

	// Put registers data under mime as the current clipboard content,
	// taking ownership away from any other application.
	Put(mime string, data []byte) error

	// Get returns the content currently offered for mime. ok is false when
	// the type is not offered or the read failed.
	Get(mime string) (data []byte, ok bool)

	Contains(mime string) bool

	// Types lists the tags currently offered by the clipboard owner.
	Types() []string

	// Lost reports whether another application now owns the clipboard.
	Lost() bool

	// Text returns the clipboard text. An empty clipboard yields "", nil.
	Text() (string, error)
	PutText(text string) error
	HasText() bool
}

// Selector is implemented by adapters that have a real selection buffer
// separate from the clipboard (X11 / Wayland primary selection).
type Selector interface {
	// UseBuffer makes subsequent generic calls target b.
	UseBuffer(b Buffer)
}

// PlatformError is returned when the underlying clipboard call fails.
type PlatformError struct {
	Backend string
	Op      string
	Err     error
}

func (e *PlatformError) Error() string {
	return fmt.Sprintf("%s: %s: %v", e.Backend, e.Op, e.Err)
}

func (e *PlatformError) Unwrap() error { return e.Err }

func platformErr(backend, op string, err error) error {
	return &PlatformError{Backend: backend, Op: op, Err: err}
}

// probeText implements the empty-versus-failure rule shared by every
// backend: if has reports text but read yields nothing, the read failed.
// The clipboard may change between the two calls.
func probeText(backend string, has func() bool, read func() ([]byte, error)) (string, error) {
	present := has()
	b, err := read()
	if err != nil {
		if !present {
			return "", nil
		}
		return "", platformErr(backend, "get text", err)
	}
	if len(b) == 0 && present {
		return "", platformErr(backend, "get text", errTextUnavailable)
	}
	return string(b), nil
}
