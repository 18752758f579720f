//go:build windows

package clip

import (
	"bytes"
	"errors"
	"fmt"
	"runtime"
	"unsafe"

	"golang.org/x/sys/windows"
)

var (
	user32   = windows.NewLazySystemDLL("user32.dll")
	kernel32 = windows.NewLazySystemDLL("kernel32.dll")

	openClipboardProc              = user32.NewProc("OpenClipboard")
	closeClipboardProc             = user32.NewProc("CloseClipboard")
	emptyClipboardProc             = user32.NewProc("EmptyClipboard")
	getClipboardDataProc           = user32.NewProc("GetClipboardData")
	setClipboardDataProc           = user32.NewProc("SetClipboardData")
	isClipboardFormatAvailableProc = user32.NewProc("IsClipboardFormatAvailable")
	enumClipboardFormatsProc       = user32.NewProc("EnumClipboardFormats")
	registerClipboardFormatProc    = user32.NewProc("RegisterClipboardFormatW")
	getClipboardFormatNameProc     = user32.NewProc("GetClipboardFormatNameW")
	getClipboardSequenceProc       = user32.NewProc("GetClipboardSequenceNumber")
	globalAllocProc                = kernel32.NewProc("GlobalAlloc")
	globalFreeProc                 = kernel32.NewProc("GlobalFree")
	globalLockProc                 = kernel32.NewProc("GlobalLock")
	globalUnlockProc               = kernel32.NewProc("GlobalUnlock")
	globalSizeProc                 = kernel32.NewProc("GlobalSize")
)

const (
	cfText        = 1
	cfBitmap      = 2
	cfDIB         = 8
	cfUnicodeText = 13
	cfHDrop       = 15

	// Formats at or above this value were registered by name.
	cfRegisteredMin = 0xC000

	gmemMoveable = 0x0002
)

var predefinedFormats = map[uintptr][]string{
	cfUnicodeText: textTypes,
	cfText:        {MIMEText},
	cfBitmap:      {"image/bmp"},
	cfDIB:         {"image/bmp"},
	cfHDrop:       {"text/uri-list"},
}

// Win32 talks to the Windows clipboard through user32 directly. Text uses
// CF_UNICODETEXT; every other tag becomes a registered clipboard format of
// the same name, so any type round-trips.
type Win32 struct {
	initialized bool
	// seq is the clipboard sequence number right after our last put.
	seq uintptr
}

// NewWin32 returns the Windows backend.
func NewWin32() *Win32 { return &Win32{} }

func (w *Win32) Name() string { return "win32" }

func (w *Win32) Init() error {
	if w.initialized {
		return nil
	}
	if err := openClipboardProc.Find(); err != nil {
		return platformErr(w.Name(), "init", err)
	}
	w.initialized = true
	return nil
}

func (w *Win32) Initialized() bool { return w.initialized }

// withClipboard opens the clipboard for fn. The clipboard is bound to the
// opening thread, so the goroutine is pinned until it is closed again.
func withClipboard(fn func() error) error {
	runtime.LockOSThread()
	defer runtime.UnlockOSThread()
	if r, _, err := openClipboardProc.Call(0); r == 0 {
		return fmt.Errorf("OpenClipboard: %w", err)
	}
	defer closeClipboardProc.Call()
	return fn()
}

func formatFor(mime string) (uintptr, error) {
	if IsText(mime) {
		return cfUnicodeText, nil
	}
	return registerFormat(mime)
}

func registerFormat(mime string) (uintptr, error) {
	p, err := windows.UTF16PtrFromString(mime)
	if err != nil {
		return 0, err
	}
	r, _, err := registerClipboardFormatProc.Call(uintptr(unsafe.Pointer(p)))
	if r == 0 {
		return 0, fmt.Errorf("RegisterClipboardFormat(%q): %w", mime, err)
	}
	return r, nil
}

func formatName(f uintptr) []string {
	if f >= cfRegisteredMin {
		buf := make([]uint16, 256)
		n, _, _ := getClipboardFormatNameProc.Call(f, uintptr(unsafe.Pointer(&buf[0])), uintptr(len(buf)))
		if n > 0 {
			return []string{windows.UTF16ToString(buf[:n])}
		}
		return nil
	}
	return predefinedFormats[f]
}

func encodeUTF16(text string) ([]byte, error) {
	u, err := windows.UTF16FromString(text)
	if err != nil {
		return nil, err
	}
	return unsafe.Slice((*byte)(unsafe.Pointer(&u[0])), len(u)*2), nil
}

func decodeUTF16(b []byte) string {
	if len(b) < 2 {
		return ""
	}
	u := unsafe.Slice((*uint16)(unsafe.Pointer(&b[0])), len(b)/2)
	return windows.UTF16ToString(u)
}

func globalCopy(b []byte) (uintptr, error) {
	n := max(len(b), 1)
	h, _, err := globalAllocProc.Call(gmemMoveable, uintptr(n))
	if h == 0 {
		return 0, fmt.Errorf("GlobalAlloc: %w", err)
	}
	p, _, err := globalLockProc.Call(h)
	if p == 0 {
		globalFreeProc.Call(h)
		return 0, fmt.Errorf("GlobalLock: %w", err)
	}
	copy(unsafe.Slice((*byte)(unsafe.Pointer(p)), n), b)
	globalUnlockProc.Call(h)
	return h, nil
}

func globalRead(h uintptr) ([]byte, error) {
	size, _, _ := globalSizeProc.Call(h)
	p, _, err := globalLockProc.Call(h)
	if p == 0 {
		return nil, fmt.Errorf("GlobalLock: %w", err)
	}
	defer globalUnlockProc.Call(h)
	return bytes.Clone(unsafe.Slice((*byte)(unsafe.Pointer(p)), size)), nil
}

func sequenceNumber() uintptr {
	r, _, _ := getClipboardSequenceProc.Call()
	return r
}

func formatAvailable(f uintptr) bool {
	r, _, _ := isClipboardFormatAvailableProc.Call(f)
	return r != 0
}

func (w *Win32) Put(mime string, data []byte) error {
	if err := w.Init(); err != nil {
		return err
	}
	f, err := formatFor(mime)
	if err != nil {
		return platformErr(w.Name(), "put", err)
	}
	payload := data
	var lengthFmt uintptr
	if f == cfUnicodeText {
		if payload, err = encodeUTF16(string(data)); err != nil {
			return platformErr(w.Name(), "put", err)
		}
	} else if lengthFmt, err = registerFormat(lengthFormatName(mime)); err != nil {
		return platformErr(w.Name(), "put", err)
	}
	err = withClipboard(func() error {
		if r, _, err := emptyClipboardProc.Call(); r == 0 {
			return fmt.Errorf("EmptyClipboard: %w", err)
		}
		if err := setData(f, payload); err != nil {
			return err
		}
		if lengthFmt != 0 {
			return setData(lengthFmt, encodeLength(len(data)))
		}
		return nil
	})
	if err != nil {
		return platformErr(w.Name(), "put", err)
	}
	w.seq = sequenceNumber()
	return nil
}

func (w *Win32) Get(mime string) ([]byte, bool) {
	if w.Init() != nil {
		return nil, false
	}
	f, err := formatFor(mime)
	if err != nil || !formatAvailable(f) {
		return nil, false
	}
	var data []byte
	err = withClipboard(func() error {
		if data, err = getData(f); err != nil {
			return err
		}
		if f == cfUnicodeText {
			return nil
		}
		// Our own puts carry an exact length; other owners' data is
		// returned as allocated.
		lf, err := registerFormat(lengthFormatName(mime))
		if err == nil && formatAvailable(lf) {
			if rec, err := getData(lf); err == nil {
				data = trimToLength(data, rec)
			}
		}
		return nil
	})
	if err != nil {
		return nil, false
	}
	if f == cfUnicodeText {
		return []byte(decodeUTF16(data)), true
	}
	return data, true
}

// setData hands a copy of b to the open clipboard under format f.
func setData(f uintptr, b []byte) error {
	h, err := globalCopy(b)
	if err != nil {
		return err
	}
	if r, _, err := setClipboardDataProc.Call(f, h); r == 0 {
		globalFreeProc.Call(h)
		return fmt.Errorf("SetClipboardData: %w", err)
	}
	return nil
}

// getData reads format f from the open clipboard.
func getData(f uintptr) ([]byte, error) {
	h, _, err := getClipboardDataProc.Call(f)
	if h == 0 {
		return nil, fmt.Errorf("GetClipboardData: %w", err)
	}
	return globalRead(h)
}

func (w *Win32) Contains(mime string) bool {
	f, err := formatFor(mime)
	return err == nil && formatAvailable(f)
}

func (w *Win32) Types() []string {
	if w.Init() != nil {
		return nil
	}
	var types []string
	_ = withClipboard(func() error {
		var f uintptr
		for {
			f, _, _ = enumClipboardFormatsProc.Call(f)
			if f == 0 {
				return nil
			}
			for _, name := range formatName(f) {
				if !isLengthFormat(name) {
					types = append(types, name)
				}
			}
		}
	})
	return types
}

func (w *Win32) Lost() bool {
	return w.seq == 0 || sequenceNumber() != w.seq
}

func (w *Win32) Text() (string, error) {
	if err := w.Init(); err != nil {
		return "", err
	}
	return probeText(w.Name(), w.HasText, func() ([]byte, error) {
		b, ok := w.Get(MIMEText)
		if !ok {
			return nil, errors.New("no CF_UNICODETEXT data")
		}
		return b, nil
	})
}

func (w *Win32) PutText(text string) error {
	return w.Put(MIMEText, []byte(text))
}

func (w *Win32) HasText() bool {
	if !formatAvailable(cfUnicodeText) {
		return false
	}
	b, ok := w.Get(MIMEText)
	return ok && len(b) > 0
}
