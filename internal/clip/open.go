package clip

import (
	"errors"
	"fmt"
	"sort"
	"strings"
)

var (
	errTextUnavailable = errors.New("clipboard reports text but returned none")
	errUnsupportedType = errors.New("unsupported type")
)

// Auto is the backend name that selects the best adapter for this platform.
const Auto = "auto"

func factories() map[string]func() Adapter {
	m := map[string]func() Adapter{
		"native":  func() Adapter { return NewNative() },
		"text":    func() Adapter { return NewText() },
		"memory":  func() Adapter { return NewMemory() },
		"xclip":   func() Adapter { return NewXClip() },
		"wayland": func() Adapter { return NewWayland() },
	}
	for name, f := range platformFactories() {
		m[name] = f
	}
	return m
}

// Backends returns the names accepted by Open, sorted, with Auto first.
func Backends() []string {
	var names []string
	for name := range factories() {
		names = append(names, name)
	}
	sort.Strings(names)
	return append([]string{Auto}, names...)
}

// Open returns the adapter registered under name. The adapter is not
// initialized unless name is Auto and probing required it.
func Open(name string) (Adapter, error) {
	name = strings.ToLower(strings.TrimSpace(name))
	if name == "" || name == Auto {
		return autoAdapter(), nil
	}
	f, ok := factories()[name]
	if !ok {
		return nil, fmt.Errorf("unknown clipboard backend %q (available: %s)",
			name, strings.Join(Backends(), ", "))
	}
	return f(), nil
}
