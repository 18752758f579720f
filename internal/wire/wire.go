// Package wire handles reading and writing newline-delimited JSON messages
// over a net.Conn, with optional NaCl secretbox encryption.
//
// Wire format (unencrypted):
//
//	<json>\n
//
// Wire format (encrypted):
//
//	<base64(nonce+ciphertext)>\n
//
// The encrypted form is just a base64 blob on the wire so that the framing
// logic is identical in both cases: every line is a single message.
package wire

import (
	"bufio"
	"encoding/base64"
	"fmt"
	"net"
	"time"

	"go.klb.dev/scrap/internal/crypto"
	"go.klb.dev/scrap/internal/message"
)

const (
	// MaxMessageSize is the largest message we will read (64 MiB). Image
	// payloads grow by a third once base64-encoded.
	MaxMessageSize = 64 * 1024 * 1024

	writeDeadline = 5 * time.Second
)

// Conn wraps a net.Conn with buffered newline-delimited JSON framing
// and optional encryption.
type Conn struct {
	conn net.Conn
	br   *bufio.Reader
	key  *crypto.Key // nil = no encryption
}

// New wraps conn. If key is non-nil every message is encrypted with NaCl
// secretbox before being written and decrypted after being read.
func New(conn net.Conn, key *crypto.Key) *Conn {
	return &Conn{
		conn: conn,
		br:   bufio.NewReaderSize(conn, 64*1024),
		key:  key,
	}
}

// SetWriteDeadline sets or clears the write deadline.
func (c *Conn) SetWriteDeadline(d time.Duration) {
	if d == 0 {
		_ = c.conn.SetWriteDeadline(time.Time{})
	} else {
		_ = c.conn.SetWriteDeadline(time.Now().Add(d))
	}
}

// Close closes the underlying connection.
func (c *Conn) Close() error { return c.conn.Close() }

// WriteMsg serialises v to JSON, optionally encrypts it, and writes it
// followed by a newline.
func (c *Conn) WriteMsg(v any) error {
	raw, err := message.Encode(v)
	if err != nil {
		return fmt.Errorf("encode: %w", err)
	}

	var line []byte
	if c.key != nil {
		ct, err := crypto.Seal(raw, c.key)
		if err != nil {
			return fmt.Errorf("encrypt: %w", err)
		}
		b64 := base64.StdEncoding.EncodeToString(ct)
		line = append([]byte(b64), '\n')
	} else {
		line = append(raw, '\n')
	}

	c.SetWriteDeadline(writeDeadline)
	_, err = c.conn.Write(line)
	c.SetWriteDeadline(0)
	return err
}

// readLine reads one newline-terminated line and optionally decrypts it.
func (c *Conn) readLine() ([]byte, error) {
	var line []byte
	for {
		chunk, isPrefix, err := c.br.ReadLine()
		if err != nil {
			return nil, err
		}
		line = append(line, chunk...)
		if len(line) > MaxMessageSize {
			return nil, fmt.Errorf("message too large (> %d bytes)", MaxMessageSize)
		}
		if !isPrefix {
			break
		}
	}

	if c.key == nil {
		return line, nil
	}
	ct, err := base64.StdEncoding.DecodeString(string(line))
	if err != nil {
		return nil, fmt.Errorf("base64 decode: %w", err)
	}
	raw, err := crypto.Open(ct, c.key)
	if err != nil {
		return nil, fmt.Errorf("decrypt: %w", err)
	}
	return raw, nil
}

// ReadRequest reads and decodes one request.
func (c *Conn) ReadRequest() (*message.Request, error) {
	raw, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeRequest(raw)
}

// ReadResponse reads and decodes one response.
func (c *Conn) ReadResponse() (*message.Response, error) {
	raw, err := c.readLine()
	if err != nil {
		return nil, err
	}
	return message.DecodeResponse(raw)
}
