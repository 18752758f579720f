package clip

import (
	"errors"

	atotto "github.com/atotto/clipboard"
)

// Text is the github.com/atotto/clipboard backend. It needs no cgo but only
// carries plain text; ownership is inferred by comparing the clipboard with
// what we last wrote.
type Text struct {
	initialized bool
	claims      claims

	unsupported bool
	read        func() (string, error)
	write       func(string) error
}

// NewText returns the text-only backend.
func NewText() *Text {
	return newText(atotto.ReadAll, atotto.WriteAll, atotto.Unsupported)
}

func newText(read func() (string, error), write func(string) error, unsupported bool) *Text {
	return &Text{
		claims:      make(claims),
		unsupported: unsupported,
		read:        read,
		write:       write,
	}
}

func (t *Text) Name() string { return "text" }

func (t *Text) Init() error {
	if t.initialized {
		return nil
	}
	if t.unsupported {
		return platformErr(t.Name(), "init", errors.New("no clipboard utility available"))
	}
	t.initialized = true
	return nil
}

func (t *Text) Initialized() bool { return t.initialized }

func (t *Text) Put(mime string, data []byte) error {
	if !IsText(mime) {
		return platformErr(t.Name(), "put", errUnsupportedType)
	}
	if err := t.write(string(data)); err != nil {
		return platformErr(t.Name(), "put", err)
	}
	t.claims.set(Clipboard, mime, data)
	return nil
}

// Get returns whatever a successful read yields, including "". Emptiness
// is HasText's question.
func (t *Text) Get(mime string) ([]byte, bool) {
	if !IsText(mime) {
		return nil, false
	}
	s, err := t.read()
	if err != nil {
		return nil, false
	}
	return []byte(s), true
}

func (t *Text) Contains(mime string) bool {
	return IsText(mime) && t.HasText()
}

func (t *Text) Types() []string {
	if !t.HasText() {
		return nil
	}
	return append([]string(nil), textTypes...)
}

func (t *Text) Lost() bool { return t.claims.lost(Clipboard, t.Get) }

// Text reads through probeText since the clipboard utilities atotto wraps
// fail outright on an empty clipboard.
func (t *Text) Text() (string, error) {
	return probeText(t.Name(), t.HasText, func() ([]byte, error) {
		s, err := t.read()
		return []byte(s), err
	})
}

func (t *Text) PutText(text string) error {
	return t.Put(MIMEText, []byte(text))
}

func (t *Text) HasText() bool {
	s, err := t.read()
	return err == nil && s != ""
}
