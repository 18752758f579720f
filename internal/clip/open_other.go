//go:build !windows

package clip

import "log/slog"

func platformFactories() map[string]func() Adapter { return nil }

// autoAdapter prefers the native backend and falls back to the text backend
// when cgo or a display server is unavailable.
func autoAdapter() Adapter {
	n := NewNative()
	if err := n.Init(); err != nil {
		slog.Warn("native clipboard unavailable, using text backend", "err", err)
		return NewText()
	}
	return n
}
