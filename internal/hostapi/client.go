package hostapi

import (
	"fmt"
	"net"

	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/ipc"
	"go.klb.dev/scrap/internal/message"
	"go.klb.dev/scrap/internal/wire"
)

// Client sends host calls to a running daemon over one connection. It is
// not safe for concurrent use.
type Client struct {
	wc     *wire.Conn
	nextID uint64
}

// NewClient wraps an established connection.
func NewClient(conn net.Conn, key *crypto.Key) *Client {
	return &Client{wc: wire.New(conn, key)}
}

// Dial connects to the daemon on the IPC socket at path.
func Dial(path string, key *crypto.Key) (*Client, error) {
	conn, err := ipc.Dial(path)
	if err != nil {
		return nil, fmt.Errorf("connect %s: %w", path, err)
	}
	return NewClient(conn, key), nil
}

// Call sends req and waits for its response. A response carrying an error
// is returned together with a *RemoteError.
func (c *Client) Call(req *message.Request) (*message.Response, error) {
	c.nextID++
	req.ID = c.nextID
	if err := c.wc.WriteMsg(req); err != nil {
		return nil, fmt.Errorf("send %s: %w", req.Op, err)
	}
	resp, err := c.wc.ReadResponse()
	if err != nil {
		return nil, fmt.Errorf("receive %s: %w", req.Op, err)
	}
	if resp.ID != req.ID {
		return nil, fmt.Errorf("receive %s: response id %d, want %d", req.Op, resp.ID, req.ID)
	}
	if resp.Failed() {
		return resp, &RemoteError{Code: resp.Code, Message: resp.Error}
	}
	return resp, nil
}

// Close closes the connection.
func (c *Client) Close() error { return c.wc.Close() }
