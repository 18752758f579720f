package hostapi

import (
	"context"
	"errors"
	"fmt"
	"io"
	"net"

	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/wire"
)

// Serve accepts connections on ln until ctx is cancelled. Each connection
// carries any number of request/response pairs. key seals frames when
// non-nil.
func (srv *Server) Serve(ctx context.Context, ln net.Listener, key *crypto.Key) error {
	go func() {
		<-ctx.Done()
		_ = ln.Close()
	}()
	for {
		conn, err := ln.Accept()
		if err != nil {
			if ctx.Err() != nil || errors.Is(err, net.ErrClosed) {
				return nil
			}
			srv.log.Error("accept failed", "err", err)
			continue
		}
		go srv.handleConn(conn, key)
	}
}

func (srv *Server) handleConn(conn net.Conn, key *crypto.Key) {
	defer conn.Close()
	wc := wire.New(conn, key)
	for {
		req, err := wc.ReadRequest()
		if errors.Is(err, message.ErrMalformed) {
			srv.log.Warn("ipc request rejected", "err", err)
			resp := &message.Response{
				Error: fmt.Errorf("%w: %w", ErrBadRequest, err).Error(),
				Code:  message.CodeBadRequest,
			}
			if err := wc.WriteMsg(resp); err != nil {
				return
			}
			continue
		}
		if err != nil {
			if !errors.Is(err, io.EOF) {
				srv.log.Warn("ipc read failed", "err", err)
			}
			return
		}
		resp, _ := srv.Call(req)
		if err := wc.WriteMsg(resp); err != nil {
			srv.log.Warn("ipc write failed", "op", req.Op, "err", err)
			return
		}
	}
}
