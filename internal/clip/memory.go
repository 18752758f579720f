package clip

import (
	"bytes"
	"slices"
)

// Memory is an in-process clipboard with separate clipboard and selection
// buffers. It backs headless hosts (containers, CI) and tests; Seize stands
// in for another application taking a buffer.
type Memory struct {
	initialized bool
	buffer      Buffer
	bufs        [2]memBuffer

	// PutErr, when set, makes every Put and PutText fail with it.
	PutErr error
	// ReadErr, when set, makes text reads fail with it after the probe.
	ReadErr error
}

type memBuffer struct {
	ours  bool
	types []string
	items map[string][]byte
}

func (m *memBuffer) reset(ours bool) {
	m.ours = ours
	m.types = nil
	m.items = make(map[string][]byte)
}

func (m *memBuffer) put(mime string, data []byte) {
	if !m.ours || m.items == nil {
		m.reset(true)
	}
	if _, ok := m.items[mime]; !ok {
		m.types = append(m.types, mime)
	}
	m.items[mime] = bytes.Clone(data)
}

// NewMemory returns an empty in-process clipboard.
func NewMemory() *Memory { return &Memory{} }

func (m *Memory) Name() string { return "memory" }

func (m *Memory) Init() error {
	m.initialized = true
	return nil
}

func (m *Memory) Initialized() bool { return m.initialized }

// UseBuffer implements Selector.
func (m *Memory) UseBuffer(b Buffer) {
	if b.Valid() {
		m.buffer = b
	}
}

func (m *Memory) Put(mime string, data []byte) error {
	if m.PutErr != nil {
		return platformErr(m.Name(), "put", m.PutErr)
	}
	m.bufs[m.buffer].put(mime, data)
	return nil
}

func (m *Memory) Get(mime string) ([]byte, bool) {
	b, ok := m.bufs[m.buffer].items[mime]
	if !ok {
		return nil, false
	}
	return bytes.Clone(b), true
}

func (m *Memory) Contains(mime string) bool {
	_, ok := m.bufs[m.buffer].items[mime]
	return ok
}

func (m *Memory) Types() []string {
	return slices.Clone(m.bufs[m.buffer].types)
}

func (m *Memory) Lost() bool { return !m.bufs[m.buffer].ours }

// Seize replaces buffer b with content owned by some other application.
// A nil data offers nothing.
func (m *Memory) Seize(b Buffer, mime string, data []byte) {
	buf := &m.bufs[b]
	buf.reset(false)
	if data != nil {
		buf.types = []string{mime}
		buf.items[mime] = bytes.Clone(data)
	}
}

func (m *Memory) clipboardText() ([]byte, bool) {
	buf := m.bufs[Clipboard]
	for _, t := range buf.types {
		if IsText(t) {
			return buf.items[t], true
		}
	}
	return nil, false
}

func (m *Memory) Text() (string, error) {
	return probeText(m.Name(), m.HasText, func() ([]byte, error) {
		if m.ReadErr != nil {
			return nil, m.ReadErr
		}
		b, _ := m.clipboardText()
		return b, nil
	})
}

func (m *Memory) PutText(text string) error {
	if m.PutErr != nil {
		return platformErr(m.Name(), "put text", m.PutErr)
	}
	m.bufs[Clipboard].reset(true)
	m.bufs[Clipboard].put(MIMEText, []byte(text))
	return nil
}

func (m *Memory) HasText() bool {
	b, ok := m.clipboardText()
	return ok && len(b) > 0
}
