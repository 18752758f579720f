package hostapi

import (
	"bytes"
	"context"
	"errors"
	"io"
	"log/slog"
	"net"
	"path/filepath"
	"runtime"
	"slices"
	"testing"

	"go.klb.dev/scrap/internal/clip"
	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/ipc"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/scrap"
	"go.klb.dev/scrap/internal/wire"
)

func quiet() *slog.Logger { return slog.New(slog.NewTextHandler(io.Discard, nil)) }

func newTestServer(opts ...scrap.Option) (*Server, *clip.Memory) {
	mem := clip.NewMemory()
	opts = append([]scrap.Option{scrap.WithLogger(quiet()), scrap.WithAdvisory(nil)}, opts...)
	return NewServer(scrap.New(mem, opts...), quiet()), mem
}

func mode(n int) *int { return &n }

func TestDispatch(t *testing.T) {
	srv, _ := newTestServer()

	steps := []struct {
		name  string
		req   message.Request
		check func(t *testing.T, resp *message.Response, err error)
	}{
		{"get before init", message.Request{Op: message.OpGet, Type: "text/plain"},
			func(t *testing.T, resp *message.Response, err error) {
				if !errors.Is(err, scrap.ErrNotInitialized) || resp.Code != message.CodeNotInitialized {
					t.Errorf("err = %v, code = %q", err, resp.Code)
				}
			}},
		{"init", message.Request{Op: message.OpInit}, noError},
		{"get_init", message.Request{Op: message.OpGetInit},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || !resp.Bool {
					t.Errorf("get_init = %v, %v", resp.Bool, err)
				}
			}},
		{"put", message.Request{Op: message.OpPut, Type: "image/png", Data: []byte{9, 9}}, noError},
		{"get", message.Request{Op: message.OpGet, Type: "image/png"},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || !resp.Found || !bytes.Equal(resp.Data, []byte{9, 9}) {
					t.Errorf("get = %v, %v, %v", resp.Data, resp.Found, err)
				}
			}},
		{"get_types", message.Request{Op: message.OpGetTypes},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || !slices.Equal(resp.Types, []string{"image/png"}) {
					t.Errorf("get_types = %v, %v", resp.Types, err)
				}
			}},
		{"contains", message.Request{Op: message.OpContains, Type: "image/png"},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || !resp.Bool {
					t.Errorf("contains = %v, %v", resp.Bool, err)
				}
			}},
		{"lost", message.Request{Op: message.OpLost},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || resp.Bool {
					t.Errorf("lost = %v, %v", resp.Bool, err)
				}
			}},
		{"set_mode selection", message.Request{Op: message.OpSetMode, Mode: mode(1)},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || resp.Mode != 1 {
					t.Errorf("set_mode = %d, %v", resp.Mode, err)
				}
			}},
		{"set_mode invalid", message.Request{Op: message.OpSetMode, Mode: mode(5)},
			func(t *testing.T, resp *message.Response, err error) {
				if !errors.Is(err, scrap.ErrInvalidMode) || resp.Code != message.CodeInvalidMode {
					t.Errorf("err = %v, code = %q", err, resp.Code)
				}
			}},
		{"get_mode unchanged", message.Request{Op: message.OpGetMode},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || resp.Mode != 1 {
					t.Errorf("get_mode = %d, %v", resp.Mode, err)
				}
			}},
		{"put_text", message.Request{Op: message.OpPutText, Text: "hello"}, noError},
		{"has_text", message.Request{Op: message.OpHasText},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || !resp.Bool {
					t.Errorf("has_text = %v, %v", resp.Bool, err)
				}
			}},
		{"get_text", message.Request{Op: message.OpGetText},
			func(t *testing.T, resp *message.Response, err error) {
				if err != nil || resp.Text != "hello" {
					t.Errorf("get_text = %q, %v", resp.Text, err)
				}
			}},
		{"put_text with NUL", message.Request{Op: message.OpPutText, Text: "a\x00"},
			func(t *testing.T, resp *message.Response, err error) {
				if resp.Code != message.CodeBadRequest {
					t.Errorf("code = %q, want bad_request", resp.Code)
				}
			}},
		{"missing type", message.Request{Op: message.OpGet},
			func(t *testing.T, resp *message.Response, err error) {
				if !errors.Is(err, ErrBadRequest) {
					t.Errorf("err = %v, want ErrBadRequest", err)
				}
			}},
		{"unknown op", message.Request{Op: "explode"},
			func(t *testing.T, resp *message.Response, err error) {
				if resp.Code != message.CodeBadRequest {
					t.Errorf("code = %q, want bad_request", resp.Code)
				}
			}},
	}
	for i, st := range steps {
		req := st.req
		req.ID = uint64(i + 1)
		resp, err := srv.Call(&req)
		if resp.ID != req.ID {
			t.Fatalf("%s: response id %d, want %d", st.name, resp.ID, req.ID)
		}
		t.Run(st.name, func(t *testing.T) { st.check(t, resp, err) })
	}
}

func noError(t *testing.T, resp *message.Response, err error) {
	t.Helper()
	if err != nil || resp.Failed() {
		t.Errorf("unexpected error %v (%q)", err, resp.Error)
	}
}

func TestPlatformErrorCode(t *testing.T) {
	srv, mem := newTestServer()
	_, _ = srv.Call(&message.Request{Op: message.OpInit})
	mem.PutErr = errors.New("busy")
	resp, err := srv.Call(&message.Request{Op: message.OpPut, Type: "text/plain", Data: []byte("x")})
	if err == nil || resp.Code != message.CodePlatform {
		t.Errorf("put = %v, code %q; want platform error", err, resp.Code)
	}
}

func TestDeprecationEscalation(t *testing.T) {
	srv, _ := newTestServer(scrap.WithAdvisory(scrap.StrictAdvisories()))
	resp, err := srv.Call(&message.Request{Op: message.OpInit})
	if !errors.Is(err, scrap.ErrDeprecated) || resp.Code != message.CodeDeprecated {
		t.Errorf("init = %v, code %q; want deprecated", err, resp.Code)
	}
	if _, err := srv.Call(&message.Request{Op: message.OpPutText, Text: "ok"}); err != nil {
		t.Errorf("put_text error = %v", err)
	}
}

func TestClientOverPipe(t *testing.T) {
	key, _ := crypto.KeyFromToken("token")
	srv, mem := newTestServer()
	a, b := net.Pipe()
	defer a.Close()
	go srv.handleConn(b, key)

	c := NewClient(a, key)
	if _, err := c.Call(&message.Request{Op: message.OpInit}); err != nil {
		t.Fatalf("init error = %v", err)
	}
	if _, err := c.Call(&message.Request{Op: message.OpPut, Type: "text/plain", Data: []byte("ours")}); err != nil {
		t.Fatalf("put error = %v", err)
	}

	mem.Seize(clip.Clipboard, "text/html", []byte("theirs"))
	resp, err := c.Call(&message.Request{Op: message.OpGet, Type: "text/html"})
	if err != nil || !resp.Found || string(resp.Data) != "theirs" {
		t.Errorf("get after loss = %q, %v, %v", resp.Data, resp.Found, err)
	}

	_, err = c.Call(&message.Request{Op: message.OpSetMode, Mode: mode(3)})
	var rerr *RemoteError
	if !errors.As(err, &rerr) || !errors.Is(err, scrap.ErrInvalidMode) {
		t.Errorf("set_mode error = %v, want remote invalid mode", err)
	}
	if err := c.Close(); err != nil {
		t.Errorf("Close() error = %v", err)
	}
}

func TestMalformedFrameGetsBadRequest(t *testing.T) {
	srv, _ := newTestServer()
	a, b := net.Pipe()
	defer a.Close()
	go srv.handleConn(b, nil)

	wc := wire.New(a, nil)
	for _, line := range []string{"{not json\n", `{"id":4}` + "\n"} {
		if _, err := io.WriteString(a, line); err != nil {
			t.Fatalf("write %q: %v", line, err)
		}
		resp, err := wc.ReadResponse()
		if err != nil {
			t.Fatalf("no response to %q: %v", line, err)
		}
		if resp.Code != message.CodeBadRequest || resp.Error == "" {
			t.Errorf("response to %q = %+v, want bad_request", line, resp)
		}
		if !errors.Is(&RemoteError{Code: resp.Code, Message: resp.Error}, ErrBadRequest) {
			t.Errorf("code %q does not map to ErrBadRequest", resp.Code)
		}
	}

	if err := wc.WriteMsg(&message.Request{ID: 9, Op: message.OpHasText}); err != nil {
		t.Fatal(err)
	}
	resp, err := wc.ReadResponse()
	if err != nil || resp.ID != 9 || resp.Failed() {
		t.Errorf("call after malformed frames = %+v, %v", resp, err)
	}
}

func TestServeOverSocket(t *testing.T) {
	if runtime.GOOS == "windows" {
		t.Skip("named pipes need a pipe name, not a file path")
	}
	path := filepath.Join(t.TempDir(), "scrap.sock")
	ln, err := ipc.Listen(path)
	if err != nil {
		t.Fatalf("Listen() error = %v", err)
	}
	srv, _ := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan error, 1)
	go func() { done <- srv.Serve(ctx, ln, nil) }()

	c, err := Dial(path, nil)
	if err != nil {
		t.Fatalf("Dial() error = %v", err)
	}
	defer c.Close()
	if _, err := c.Call(&message.Request{Op: message.OpPutText, Text: "over the socket"}); err != nil {
		t.Fatal(err)
	}
	resp, err := c.Call(&message.Request{Op: message.OpGetText})
	if err != nil || resp.Text != "over the socket" {
		t.Errorf("get_text = %q, %v", resp.Text, err)
	}

	cancel()
	if err := <-done; err != nil {
		t.Errorf("Serve() error = %v", err)
	}
}

func TestRemoteErrorIs(t *testing.T) {
	tests := []struct {
		code   message.Code
		target error
	}{
		{message.CodeNotInitialized, scrap.ErrNotInitialized},
		{message.CodeInvalidMode, scrap.ErrInvalidMode},
		{message.CodeInternal, scrap.ErrInternal},
		{message.CodeDeprecated, scrap.ErrDeprecated},
		{message.CodeBadRequest, ErrBadRequest},
	}
	for _, tt := range tests {
		t.Run(string(tt.code), func(t *testing.T) {
			err := error(&RemoteError{Code: tt.code, Message: "x"})
			if !errors.Is(err, tt.target) {
				t.Errorf("errors.Is(%q, %v) = false", tt.code, tt.target)
			}
		})
	}
	if errors.Is(&RemoteError{Code: message.CodePlatform}, scrap.ErrInternal) {
		t.Error("platform error matched ErrInternal")
	}
}
