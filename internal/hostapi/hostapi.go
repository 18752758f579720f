// Package hostapi is the host integration layer. It owns one scrap.Scrap,
// answers message.Request values against it under a single lock, and serves
// them over the IPC socket.
package hostapi

import (
	"errors"
	"fmt"
	"log/slog"
	"sync"

	"go.klb.dev/scrap/internal/clip"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/scrap"
)

// ErrBadRequest marks a request the dispatcher could not interpret.
var ErrBadRequest = errors.New("bad request")

// Caller executes host calls. *Server runs them in-process; *Client sends
// them to a daemon.
type Caller interface {
	Call(req *message.Request) (*message.Response, error)
}

// Server serializes every call onto one Scrap.
type Server struct {
	mu  sync.Mutex
	s   *scrap.Scrap
	log *slog.Logger
}

// NewServer returns a Server that owns s.
func NewServer(s *scrap.Scrap, log *slog.Logger) *Server {
	if log == nil {
		log = slog.Default()
	}
	return &Server{s: s, log: log}
}

// Call runs req and returns its response. A failed call yields both a
// response carrying the error code and the error itself.
func (srv *Server) Call(req *message.Request) (*message.Response, error) {
	srv.mu.Lock()
	resp, err := srv.dispatch(req)
	srv.mu.Unlock()

	resp.ID = req.ID
	if err != nil {
		resp.Error = err.Error()
		resp.Code = codeOf(err)
		srv.log.Debug("host call failed", "op", req.Op, "legacy", req.Op.Legacy(), "code", resp.Code, "err", err)
		return resp, err
	}
	srv.log.Debug("host call", "op", req.Op, "legacy", req.Op.Legacy(), "type", req.Type)
	return resp, nil
}

// Close releases the Scrap.
func (srv *Server) Close() {
	srv.mu.Lock()
	defer srv.mu.Unlock()
	srv.s.Close()
}

func needType(req *message.Request) error {
	if req.Type == "" {
		return fmt.Errorf("%w: %s needs a type", ErrBadRequest, req.Op)
	}
	return nil
}

func (srv *Server) dispatch(req *message.Request) (*message.Response, error) {
	s := srv.s
	resp := &message.Response{}
	var err error

	switch req.Op {
	case message.OpInit:
		err = s.Init()
	case message.OpGetInit:
		resp.Bool, err = s.Initialized()
	case message.OpGetTypes:
		resp.Types, err = s.Types()
	case message.OpContains:
		if err = needType(req); err == nil {
			resp.Bool, err = s.Contains(req.Type)
		}
	case message.OpGet:
		if err = needType(req); err == nil {
			resp.Data, resp.Found, err = s.Get(req.Type)
		}
	case message.OpPut:
		if err = needType(req); err == nil {
			err = s.Put(req.Type, req.Data)
		}
	case message.OpLost:
		resp.Bool, err = s.Lost()
	case message.OpSetMode:
		if req.Mode == nil {
			err = fmt.Errorf("%w: set_mode needs a mode", ErrBadRequest)
			break
		}
		err = s.SetMode(clip.Buffer(*req.Mode))
		resp.Mode = int(s.Mode())
	case message.OpGetMode:
		resp.Mode = int(s.Mode())
	case message.OpGetText:
		resp.Text, err = s.Text()
	case message.OpPutText:
		err = s.PutText(req.Text)
	case message.OpHasText:
		resp.Bool = s.HasText()
	default:
		err = fmt.Errorf("%w: unknown op %q", ErrBadRequest, req.Op)
	}
	return resp, err
}

// codeOf classifies err for the wire.
func codeOf(err error) message.Code {
	var perr *clip.PlatformError
	switch {
	case errors.Is(err, scrap.ErrNotInitialized):
		return message.CodeNotInitialized
	case errors.Is(err, scrap.ErrInvalidMode):
		return message.CodeInvalidMode
	case errors.Is(err, scrap.ErrInternal):
		return message.CodeInternal
	case errors.Is(err, scrap.ErrDeprecated):
		return message.CodeDeprecated
	case errors.Is(err, ErrBadRequest), errors.Is(err, scrap.ErrEmbeddedNull):
		return message.CodeBadRequest
	case errors.As(err, &perr):
		return message.CodePlatform
	default:
		return message.CodeInternal
	}
}

// RemoteError is a failure reported by a daemon. errors.Is matches it
// against the scrap sentinel of the same class.
type RemoteError struct {
	Code    message.Code
	Message string
}

func (e *RemoteError) Error() string { return e.Message }

func (e *RemoteError) Is(target error) bool {
	switch e.Code {
	case message.CodeNotInitialized:
		return target == scrap.ErrNotInitialized
	case message.CodeInvalidMode:
		return target == scrap.ErrInvalidMode
	case message.CodeInternal:
		return target == scrap.ErrInternal
	case message.CodeDeprecated:
		return target == scrap.ErrDeprecated
	case message.CodeBadRequest:
		return target == ErrBadRequest
	}
	return false
}
