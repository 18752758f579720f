// Package scrap exposes the system clipboard to a scripting host: typed
// get/put with an ownership cache, the legacy clipboard/selection mode, and
// a plain-text path that bypasses both.
//
// A Scrap is the whole module state. It is not safe for concurrent use;
// hosts serialize access (see hostapi).
package scrap

import (
	"context"
	"fmt"
	"log/slog"
	"strings"
	"unicode/utf8"

	"go.klb.dev/scrap/internal/clip"
)

// Scrap binds one clipboard adapter to the host. The zero value is not
// usable; construct with New.
type Scrap struct {
	adapter     clip.Adapter
	log         *slog.Logger
	advise      AdvisoryFunc
	adviseSet   bool
	initialized bool
	mode        clip.Buffer
	cache       *Cache
}

// Option configures a Scrap.
type Option func(*Scrap)

// WithLogger sets the logger. Defaults to slog.Default().
func WithLogger(l *slog.Logger) Option {
	return func(s *Scrap) { s.log = l }
}

// WithAdvisory sets the deprecation sink. nil discards advisories.
func WithAdvisory(f AdvisoryFunc) Option {
	return func(s *Scrap) {
		s.advise = f
		s.adviseSet = true
	}
}

// New returns an uninitialized Scrap backed by a. Advisories are logged once
// per op unless WithAdvisory says otherwise.
func New(a clip.Adapter, opts ...Option) *Scrap {
	s := &Scrap{
		adapter: a,
		log:     slog.Default(),
		mode:    clip.Clipboard,
		cache:   NewCache(),
	}
	for _, o := range opts {
		o(s)
	}
	if !s.adviseSet {
		s.advise = LogAdvisories(s.log)
	}
	return s
}

// Backend returns the adapter name.
func (s *Scrap) Backend() string { return s.adapter.Name() }

func (s *Scrap) deprecated(op string) error {
	if s.advise == nil {
		return nil
	}
	return s.advise(Advisory{Op: op, Message: deprecations[op]})
}

func (s *Scrap) ready() bool { return s.initialized && s.adapter.Initialized() }

// legacy raises the advisory for op and, when needsInit is set, enforces
// the initialization precondition.
func (s *Scrap) legacy(op string, needsInit bool) error {
	if err := s.deprecated(op); err != nil {
		return err
	}
	if needsInit && !s.ready() {
		return ErrNotInitialized
	}
	return nil
}

// Init prepares clipboard access and clears the cache. Calling it again
// only clears the cache; the adapter is not re-initialized.
func (s *Scrap) Init() error {
	if err := s.deprecated("init"); err != nil {
		return err
	}
	s.cache.ClearAll()
	if !s.adapter.Initialized() {
		if err := s.adapter.Init(); err != nil {
			return err
		}
	}
	s.initialized = true
	s.log.Debug("clipboard initialized", "backend", s.adapter.Name())
	return nil
}

// Initialized reports whether Init has succeeded.
func (s *Scrap) Initialized() (bool, error) {
	if err := s.legacy("get_init", false); err != nil {
		return false, err
	}
	return s.ready(), nil
}

// Types lists the available type tags for the current mode: from the cache
// while we own the clipboard, from the adapter otherwise.
func (s *Scrap) Types() ([]string, error) {
	if err := s.legacy("get_types", true); err != nil {
		return nil, err
	}
	if !s.adapter.Lost() {
		return s.cache.Types(s.mode), nil
	}
	types := s.adapter.Types()
	if types == nil {
		types = []string{}
	}
	return types, nil
}

// Contains asks the adapter whether mime is offered, regardless of cache
// or ownership state.
func (s *Scrap) Contains(mime string) (bool, error) {
	if err := s.legacy("contains", false); err != nil {
		return false, err
	}
	return s.adapter.Contains(mime), nil
}

// Get returns the payload for mime. ok is false when the type is not
// available; that is not an error.
func (s *Scrap) Get(mime string) (data []byte, ok bool, err error) {
	if err := s.legacy("get", true); err != nil {
		return nil, false, err
	}
	if !s.adapter.Lost() {
		return s.cache.Lookup(s.mode, mime)
	}
	data, ok = s.adapter.Get(mime)
	return data, ok, nil
}

// Put places data on the clipboard under mime and records it in the cache
// for the current mode. On failure the cache is left untouched.
func (s *Scrap) Put(mime string, data []byte) error {
	if err := s.legacy("put", true); err != nil {
		return err
	}
	if err := s.adapter.Put(mime, data); err != nil {
		return fmt.Errorf("content could not be placed in clipboard: %w", err)
	}
	s.cache.Record(s.mode, mime, data)
	s.log.Debug("clipboard put", "type", mime, "bytes", len(data), "mode", s.mode)
	return nil
}

// Lost reports whether another application now owns the clipboard.
func (s *Scrap) Lost() (bool, error) {
	if err := s.legacy("lost", true); err != nil {
		return false, err
	}
	return s.adapter.Lost(), nil
}

// SetMode selects the buffer generic operations target. Adapters without a
// separate selection buffer always end up in clip.Clipboard.
func (s *Scrap) SetMode(b clip.Buffer) error {
	if err := s.legacy("set_mode", true); err != nil {
		return err
	}
	if !b.Valid() {
		return fmt.Errorf("%w: %d", ErrInvalidMode, int(b))
	}
	sel, ok := s.adapter.(clip.Selector)
	if !ok {
		if b == clip.Selection {
			s.log.Debug("selection buffer unsupported, using clipboard", "backend", s.adapter.Name())
		}
		s.mode = clip.Clipboard
		return nil
	}
	sel.UseBuffer(b)
	s.mode = b
	return nil
}

// Owned reports whether the Scrap is initialized and still owns the active
// buffer. Unlike Lost it raises no advisory.
func (s *Scrap) Owned() bool { return s.ready() && !s.adapter.Lost() }

// Mode returns the buffer generic operations target.
func (s *Scrap) Mode() clip.Buffer { return s.mode }

// Text returns the clipboard text, "" when there is none.
func (s *Scrap) Text() (string, error) { return s.adapter.Text() }

// PutText replaces the clipboard with text.
func (s *Scrap) PutText(text string) error {
	if strings.IndexByte(text, 0) >= 0 {
		return ErrEmbeddedNull
	}
	if err := s.adapter.PutText(text); err != nil {
		return err
	}
	if s.log.Enabled(context.Background(), slog.LevelDebug) {
		s.log.Debug("clipboard text put", "preview", preview(text))
	}
	return nil
}

// HasText reports whether the clipboard holds non-empty text.
func (s *Scrap) HasText() bool { return s.adapter.HasText() }

// Close returns the Scrap to the uninitialized state and drops the cache.
// The OS clipboard is left as it is.
func (s *Scrap) Close() {
	s.cache.ClearAll()
	s.initialized = false
	s.mode = clip.Clipboard
	if sel, ok := s.adapter.(clip.Selector); ok {
		sel.UseBuffer(clip.Clipboard)
	}
}

const previewRunes = 120

// preview truncates s to previewRunes characters on a rune boundary.
func preview(s string) string {
	i := 0
	for n := 0; n < previewRunes; n++ {
		if i >= len(s) {
			return s
		}
		_, size := utf8.DecodeRuneInString(s[i:])
		i += size
	}
	if i >= len(s) {
		return s
	}
	return s[:i] + "…"
}
