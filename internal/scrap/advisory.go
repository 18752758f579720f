package scrap

import (
	"fmt"
	"log/slog"
	"sync"
)

// Advisory is a non-fatal notice raised by a legacy operation.
type Advisory struct {
	Op      string
	Message string
}

// AdvisoryFunc receives advisories. Returning an error escalates the
// advisory: the operation that raised it fails with that error.
type AdvisoryFunc func(Advisory) error

// LogAdvisories logs each distinct op once at WARN.
func LogAdvisories(log *slog.Logger) AdvisoryFunc {
	var (
		mu   sync.Mutex
		seen = make(map[string]bool)
	)
	return func(a Advisory) error {
		mu.Lock()
		defer mu.Unlock()
		if seen[a.Op] {
			return nil
		}
		seen[a.Op] = true
		log.Warn(a.Message, "op", a.Op)
		return nil
	}
}

// StrictAdvisories turns every advisory into an error wrapping ErrDeprecated.
func StrictAdvisories() AdvisoryFunc {
	return func(a Advisory) error {
		return fmt.Errorf("%w: %s", ErrDeprecated, a.Message)
	}
}

// deprecations lists the message raised by each legacy op.
var deprecations = map[string]string{
	"init":      "init is deprecated since 2.2.0",
	"get_init":  "get_init is deprecated since 2.2.0",
	"get_types": "get_types is deprecated since 2.2.0",
	"contains":  "contains is deprecated since 2.2.0",
	"get":       "get is deprecated since 2.2.0; consider get_text instead",
	"put":       "put is deprecated since 2.2.0; consider put_text instead",
	"lost":      "lost is deprecated since 2.2.0",
	"set_mode":  "set_mode is deprecated since 2.2.0",
}
