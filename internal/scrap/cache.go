package scrap

import (
	"bytes"
	"fmt"
	"slices"

	"go.klb.dev/scrap/internal/clip"
)

// Entry is one payload recorded by Put.
type Entry struct {
	Type string
	Data []byte
}

type bucket struct {
	order   []string
	entries map[string]*Entry
}

// Cache holds what this process put into each buffer. It is only
// trustworthy while the process still owns the buffer. There is no
// eviction: entries are bounded by the distinct types ever put.
type Cache struct {
	buckets map[clip.Buffer]*bucket
}

// NewCache returns an empty cache.
func NewCache() *Cache {
	return &Cache{buckets: make(map[clip.Buffer]*bucket)}
}

// Record inserts or overwrites the entry for mime in buffer b.
func (c *Cache) Record(b clip.Buffer, mime string, data []byte) {
	bk, ok := c.buckets[b]
	if !ok {
		bk = &bucket{entries: make(map[string]*Entry)}
		c.buckets[b] = bk
	}
	if _, ok := bk.entries[mime]; !ok {
		bk.order = append(bk.order, mime)
	}
	bk.entries[mime] = &Entry{Type: mime, Data: bytes.Clone(data)}
}

// Lookup returns the cached payload for mime. ok is false when nothing was
// recorded; a non-nil error wrapping ErrInternal means the entry is corrupt.
func (c *Cache) Lookup(b clip.Buffer, mime string) (data []byte, ok bool, err error) {
	bk, found := c.buckets[b]
	if !found {
		return nil, false, nil
	}
	e, found := bk.entries[mime]
	if !found {
		return nil, false, nil
	}
	if e == nil || e.Type != mime {
		return nil, false, fmt.Errorf("%w (key=%s)", ErrInternal, mime)
	}
	return bytes.Clone(e.Data), true, nil
}

// Types returns the recorded tags for b in first-put order.
func (c *Cache) Types(b clip.Buffer) []string {
	bk, ok := c.buckets[b]
	if !ok {
		return []string{}
	}
	return slices.Clone(bk.order)
}

// Clear drops everything recorded for b.
func (c *Cache) Clear(b clip.Buffer) { delete(c.buckets, b) }

// ClearAll drops every buffer.
func (c *Cache) ClearAll() { clear(c.buckets) }
