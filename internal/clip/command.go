package clip

import (
	"bytes"
	"fmt"
	"os"
	"os/exec"
	"slices"
	"strings"
)

// dialect describes how one clipboard utility family is invoked.
type dialect struct {
	name     string
	display  string // env var that must be set for the tool to work
	copyBin  string
	pasteBin string
	textType string
	putArgs  func(b Buffer, mime string) []string
	getArgs  func(b Buffer, mime string) []string
	listArgs func(b Buffer) []string
}

func xselection(b Buffer) string {
	if b == Selection {
		return "primary"
	}
	return "clipboard"
}

var xclipDialect = dialect{
	name:     "xclip",
	display:  "DISPLAY",
	copyBin:  "xclip",
	pasteBin: "xclip",
	textType: "UTF8_STRING",
	putArgs: func(b Buffer, mime string) []string {
		return []string{"-selection", xselection(b), "-t", mime, "-i"}
	},
	getArgs: func(b Buffer, mime string) []string {
		return []string{"-selection", xselection(b), "-t", mime, "-o"}
	},
	listArgs: func(b Buffer) []string {
		return []string{"-selection", xselection(b), "-t", "TARGETS", "-o"}
	},
}

func wlPrimary(b Buffer, args ...string) []string {
	if b == Selection {
		return append([]string{"--primary"}, args...)
	}
	return args
}

var waylandDialect = dialect{
	name:     "wayland",
	display:  "WAYLAND_DISPLAY",
	copyBin:  "wl-copy",
	pasteBin: "wl-paste",
	textType: MIMETextUTF8,
	putArgs: func(b Buffer, mime string) []string {
		return wlPrimary(b, "--type", mime)
	},
	getArgs: func(b Buffer, mime string) []string {
		return wlPrimary(b, "--no-newline", "--type", mime)
	},
	listArgs: func(b Buffer) []string {
		return wlPrimary(b, "--list-types")
	},
}

// metaTargets are X11 selection targets that describe the selection itself
// rather than a data representation.
var metaTargets = []string{"TARGETS", "TIMESTAMP", "MULTIPLE", "SAVE_TARGETS"}

// runner executes clipboard utilities.
type runner interface {
	read(name string, args ...string) ([]byte, error)
	write(data []byte, name string, args ...string) error
}

type execRunner struct{}

func (execRunner) read(name string, args ...string) ([]byte, error) {
	var stderr bytes.Buffer
	cmd := exec.Command(name, args...)
	cmd.Stderr = &stderr
	out, err := cmd.Output()
	if err != nil {
		if msg := strings.TrimSpace(stderr.String()); msg != "" {
			return nil, fmt.Errorf("%s: %w: %s", name, err, msg)
		}
		return nil, fmt.Errorf("%s: %w", name, err)
	}
	return out, nil
}

// write leaves stdout and stderr unattached: both xclip and wl-copy fork a
// child that keeps serving the selection and would hold a pipe open.
func (execRunner) write(data []byte, name string, args ...string) error {
	cmd := exec.Command(name, args...)
	cmd.Stdin = bytes.NewReader(data)
	if err := cmd.Run(); err != nil {
		return fmt.Errorf("%s: %w", name, err)
	}
	return nil
}

// Command is a backend driving xclip or wl-clipboard subprocesses. It is the
// only real backend with a separate selection buffer, and it accepts any
// type tag the tools accept.
type Command struct {
	d           dialect
	run         runner
	lookPath    func(string) (string, error)
	getenv      func(string) string
	initialized bool
	buffer      Buffer
	claims      claims
}

func newCommand(d dialect, r runner) *Command {
	return &Command{
		d:        d,
		run:      r,
		lookPath: exec.LookPath,
		getenv:   os.Getenv,
		claims:   make(claims),
	}
}

// NewXClip returns the X11 backend driving xclip.
func NewXClip() *Command { return newCommand(xclipDialect, execRunner{}) }

// NewWayland returns the Wayland backend driving wl-copy and wl-paste.
func NewWayland() *Command { return newCommand(waylandDialect, execRunner{}) }

func (c *Command) Name() string { return c.d.name }

func (c *Command) Init() error {
	if c.initialized {
		return nil
	}
	if c.getenv(c.d.display) == "" {
		return platformErr(c.Name(), "init", fmt.Errorf("%s is not set", c.d.display))
	}
	for _, bin := range []string{c.d.copyBin, c.d.pasteBin} {
		if _, err := c.lookPath(bin); err != nil {
			return platformErr(c.Name(), "init", err)
		}
	}
	c.initialized = true
	return nil
}

func (c *Command) Initialized() bool { return c.initialized }

// UseBuffer implements Selector.
func (c *Command) UseBuffer(b Buffer) {
	if b.Valid() {
		c.buffer = b
	}
}

func (c *Command) put(b Buffer, mime string, data []byte) error {
	if !c.initialized {
		if err := c.Init(); err != nil {
			return err
		}
	}
	if err := c.run.write(data, c.d.copyBin, c.d.putArgs(b, mime)...); err != nil {
		return platformErr(c.Name(), "put", err)
	}
	c.claims.set(b, mime, data)
	return nil
}

func (c *Command) get(b Buffer, mime string) ([]byte, bool) {
	if !c.initialized && c.Init() != nil {
		return nil, false
	}
	out, err := c.run.read(c.d.pasteBin, c.d.getArgs(b, mime)...)
	if err != nil {
		return nil, false
	}
	return out, true
}

func (c *Command) types(b Buffer) []string {
	if !c.initialized && c.Init() != nil {
		return nil
	}
	out, err := c.run.read(c.d.pasteBin, c.d.listArgs(b)...)
	if err != nil {
		return nil
	}
	var types []string
	for _, line := range strings.Split(string(out), "\n") {
		t := strings.TrimSpace(line)
		if t == "" || slices.Contains(metaTargets, t) {
			continue
		}
		types = append(types, t)
	}
	return types
}

func (c *Command) Put(mime string, data []byte) error { return c.put(c.buffer, mime, data) }

func (c *Command) Get(mime string) ([]byte, bool) { return c.get(c.buffer, mime) }

func (c *Command) Contains(mime string) bool {
	return slices.Contains(c.types(c.buffer), mime)
}

func (c *Command) Types() []string { return c.types(c.buffer) }

func (c *Command) Lost() bool {
	return c.claims.lost(c.buffer, func(mime string) ([]byte, bool) {
		return c.get(c.buffer, mime)
	})
}

// Text always reads the clipboard buffer, never the selection.
func (c *Command) Text() (string, error) {
	if err := c.Init(); err != nil {
		return "", err
	}
	return probeText(c.Name(), c.HasText, func() ([]byte, error) {
		out, err := c.run.read(c.d.pasteBin, c.d.getArgs(Clipboard, c.d.textType)...)
		if err != nil {
			return nil, err
		}
		return out, nil
	})
}

func (c *Command) PutText(text string) error {
	return c.put(Clipboard, c.d.textType, []byte(text))
}

func (c *Command) HasText() bool {
	return slices.ContainsFunc(c.types(Clipboard), IsText)
}
