package hostapi

import (
	"bytes"
	"context"
	"log/slog"
	"strings"
	"testing"
	"time"

	"go.klb.dev/scrap/internal/clip"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/scrap"
)

func TestCheckOwnership(t *testing.T) {
	var buf bytes.Buffer
	log := slog.New(slog.NewTextHandler(&buf, nil))
	mem := clip.NewMemory()
	srv := NewServer(scrap.New(mem, scrap.WithLogger(quiet())), log)

	if srv.checkOwnership(false) {
		t.Fatal("owned before init")
	}
	for _, req := range []*message.Request{
		{Op: message.OpInit},
		{Op: message.OpPut, Type: clip.MIMEText, Data: []byte("mine")},
	} {
		if _, err := srv.Call(req); err != nil {
			t.Fatalf("%s: %v", req.Op, err)
		}
	}
	owned := srv.checkOwnership(false)
	if !owned {
		t.Fatal("not owned after put")
	}
	buf.Reset()

	mem.Seize(clip.Clipboard, clip.MIMEText, []byte("theirs"))
	if srv.checkOwnership(owned) {
		t.Error("still owned after seize")
	}
	if !strings.Contains(buf.String(), "clipboard ownership lost") {
		t.Errorf("log = %q, want ownership lost record", buf.String())
	}

	buf.Reset()
	srv.checkOwnership(false)
	if buf.Len() != 0 {
		t.Errorf("repeated loss logged again: %q", buf.String())
	}
}

func TestWatchStops(t *testing.T) {
	srv, _ := newTestServer()
	ctx, cancel := context.WithCancel(context.Background())
	done := make(chan struct{})
	go func() {
		srv.Watch(ctx, time.Millisecond)
		close(done)
	}()
	time.Sleep(5 * time.Millisecond)
	cancel()
	select {
	case <-done:
	case <-time.After(time.Second):
		t.Fatal("Watch did not return after cancel")
	}

	// disabled
	srv.Watch(context.Background(), 0)
}
