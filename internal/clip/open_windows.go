//go:build windows

package clip

func platformFactories() map[string]func() Adapter {
	return map[string]func() Adapter{
		"win32": func() Adapter { return NewWin32() },
	}
}

func autoAdapter() Adapter { return NewWin32() }
