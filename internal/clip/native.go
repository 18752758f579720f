package clip

import (
	"errors"
	"log/slog"
	"strings"

	"golang.design/x/clipboard"
)

// Native is the golang.design/x/clipboard backend. It understands plain
// text and PNG images; any other type tag is rejected by Put.
type Native struct {
	initialized bool
	// owned is closed by the clipboard package once another application
	// overwrites what we wrote. nil means we never wrote.
	owned <-chan struct{}

	setup func() error
	read  func(clipboard.Format) []byte
	write func(clipboard.Format, []byte) <-chan struct{}
}

// NewNative returns the native backend. clipboard.Init is deferred to Init
// so that constructing the adapter on a headless system does not fail.
func NewNative() *Native {
	return &Native{setup: clipboard.Init, read: clipboard.Read, write: clipboard.Write}
}

func (n *Native) Name() string { return "native" }

func (n *Native) Init() error {
	if n.initialized {
		return nil
	}
	if err := n.setup(); err != nil {
		return platformErr(n.Name(), "init", err)
	}
	n.initialized = true
	return nil
}

func (n *Native) Initialized() bool { return n.initialized }

func nativeFormat(mime string) (clipboard.Format, bool) {
	switch {
	case IsText(mime):
		return clipboard.FmtText, true
	case strings.EqualFold(mime, MIMEPNG):
		return clipboard.FmtImage, true
	}
	return 0, false
}

func (n *Native) Put(mime string, data []byte) error {
	if err := n.Init(); err != nil {
		return err
	}
	f, ok := nativeFormat(mime)
	if !ok {
		return platformErr(n.Name(), "put", errUnsupportedType)
	}
	ch := n.write(f, data)
	if ch == nil {
		return platformErr(n.Name(), "put", errors.New("write rejected by clipboard"))
	}
	n.owned = ch
	slog.Debug("native clipboard written", "type", mime, "bytes", len(data))
	return nil
}

func (n *Native) Get(mime string) ([]byte, bool) {
	if err := n.Init(); err != nil {
		return nil, false
	}
	f, ok := nativeFormat(mime)
	if !ok {
		return nil, false
	}
	b := n.read(f)
	if b == nil {
		return nil, false
	}
	return b, true
}

func (n *Native) Contains(mime string) bool {
	_, ok := n.Get(mime)
	return ok
}

func (n *Native) Types() []string {
	if err := n.Init(); err != nil {
		return nil
	}
	var types []string
	if n.read(clipboard.FmtText) != nil {
		types = append(types, textTypes...)
	}
	if n.read(clipboard.FmtImage) != nil {
		types = append(types, MIMEPNG)
	}
	return types
}

func (n *Native) Lost() bool {
	if n.owned == nil {
		return true
	}
	select {
	case <-n.owned:
		return true
	default:
		return false
	}
}

func (n *Native) Text() (string, error) {
	if err := n.Init(); err != nil {
		return "", err
	}
	return probeText(n.Name(), n.HasText, func() ([]byte, error) {
		return n.read(clipboard.FmtText), nil
	})
}

func (n *Native) PutText(text string) error {
	return n.Put(MIMEText, []byte(text))
}

func (n *Native) HasText() bool {
	if err := n.Init(); err != nil {
		return false
	}
	return len(n.read(clipboard.FmtText)) > 0
}
