package clip

import (
	"errors"
	"testing"
)

// fakeText stands in for the utilities atotto shells out to.
type fakeText struct {
	s        string
	readErr  error
	writeErr error
}

func (f *fakeText) read() (string, error) {
	if f.readErr != nil {
		return "", f.readErr
	}
	return f.s, nil
}

func (f *fakeText) write(s string) error {
	if f.writeErr != nil {
		return f.writeErr
	}
	f.s = s
	return nil
}

func newFakeText() (*Text, *fakeText) {
	f := &fakeText{}
	return newText(f.read, f.write, false), f
}

func TestTextInit(t *testing.T) {
	f := &fakeText{}
	if err := newText(f.read, f.write, true).Init(); err == nil {
		t.Error("Init() error = nil with no clipboard utility")
	}
	a, _ := newFakeText()
	if err := a.Init(); err != nil || !a.Initialized() {
		t.Errorf("Init() = %v, Initialized() = %v", err, a.Initialized())
	}
}

func TestTextPutGet(t *testing.T) {
	tests := []struct {
		name string
		data string
	}{
		{"non-empty", "hello"},
		{"empty", ""},
		{"multi-line", "a\nb\n"},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, _ := newFakeText()
			if err := a.Put(MIMEText, []byte(tt.data)); err != nil {
				t.Fatalf("Put() error = %v", err)
			}
			got, ok := a.Get(MIMEText)
			if !ok || string(got) != tt.data {
				t.Errorf("Get() = %q, %v; want %q, true", got, ok, tt.data)
			}
			if a.Lost() {
				t.Error("Lost() = true right after our own Put")
			}
			if has := a.HasText(); has != (tt.data != "") {
				t.Errorf("HasText() = %v, want %v", has, tt.data != "")
			}
		})
	}
}

func TestTextRejectsNonText(t *testing.T) {
	a, f := newFakeText()
	var perr *PlatformError
	if err := a.Put(MIMEPNG, []byte{1}); !errors.As(err, &perr) || !errors.Is(err, errUnsupportedType) {
		t.Errorf("Put(image/png) error = %v, want unsupported type", err)
	}
	f.s = "text"
	if _, ok := a.Get(MIMEPNG); ok {
		t.Error("Get(image/png) ok = true")
	}
	if a.Contains(MIMEPNG) {
		t.Error("Contains(image/png) = true")
	}
}

func TestTextWriteFailure(t *testing.T) {
	a, f := newFakeText()
	f.writeErr = errors.New("xclip: exit status 1")
	var perr *PlatformError
	if err := a.PutText("x"); !errors.As(err, &perr) {
		t.Errorf("PutText() error = %v, want *PlatformError", err)
	}
	if !a.Lost() {
		t.Error("Lost() = false after a failed put")
	}
}

func TestTextLost(t *testing.T) {
	a, f := newFakeText()
	if !a.Lost() {
		t.Error("Lost() = false before any put")
	}
	_ = a.Put(MIMEText, []byte("mine"))
	f.s = "theirs"
	if !a.Lost() {
		t.Error("Lost() = false after another application wrote")
	}

	_ = a.Put(MIMEText, nil)
	f.readErr = errors.New("xclip: exit status 1")
	if a.Lost() {
		t.Error("Lost() = true for an empty put when the clipboard reads empty")
	}
}

func TestTextText(t *testing.T) {
	tests := []struct {
		name    string
		s       string
		readErr error
		want    string
	}{
		{"text", "hello", nil, "hello"},
		{"empty", "", nil, ""},
		{"read failure means empty", "", errors.New("exit status 1"), ""},
	}
	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			a, f := newFakeText()
			f.s, f.readErr = tt.s, tt.readErr
			got, err := a.Text()
			if err != nil || got != tt.want {
				t.Errorf("Text() = %q, %v; want %q, nil", got, err, tt.want)
			}
		})
	}

	a, f := newFakeText()
	_ = a.PutText("round trip")
	if got, _ := a.Text(); got != "round trip" {
		t.Errorf("Text() after PutText = %q", got)
	}
	if !a.Contains(MIMETextUTF8) || len(a.Types()) == 0 {
		t.Error("text not offered after PutText")
	}
	f.s = ""
	if a.Types() != nil {
		t.Errorf("Types() on empty clipboard = %v, want nil", a.Types())
	}
}
