// Package message defines the scrap host-call protocol.
//
// All messages are newline-delimited JSON. Byte payloads are []byte fields,
// which encoding/json carries as base64 so binary content is safe inside a
// JSON string. Each message is exactly one line: <json>\n
package message

import (
	"encoding/json"
	"errors"
	"fmt"
)

// Op names a host-callable operation.
type Op string

const (
	OpInit     Op = "init"
	OpGetInit  Op = "get_init"
	OpGetTypes Op = "get_types"
	OpContains Op = "contains"
	OpGet      Op = "get"
	OpPut      Op = "put"
	OpLost     Op = "lost"
	OpSetMode  Op = "set_mode"
	OpGetMode  Op = "get_mode"
	OpGetText  Op = "get_text"
	OpPutText  Op = "put_text"
	OpHasText  Op = "has_text"
)

// Ops lists every operation in protocol order.
var Ops = []Op{
	OpInit, OpGetInit, OpGetTypes, OpContains, OpGet, OpPut, OpLost,
	OpSetMode, OpGetMode, OpGetText, OpPutText, OpHasText,
}

// Legacy reports whether op belongs to the deprecated typed surface.
func (op Op) Legacy() bool {
	switch op {
	case OpInit, OpGetInit, OpGetTypes, OpContains, OpGet, OpPut, OpLost, OpSetMode:
		return true
	}
	return false
}

// Code classifies an error carried in a Response.
type Code string

const (
	CodeNotInitialized Code = "not_initialized"
	CodePlatform       Code = "platform"
	CodeInvalidMode    Code = "invalid_mode"
	CodeInternal       Code = "internal"
	CodeDeprecated     Code = "deprecated"
	CodeBadRequest     Code = "bad_request"
)

// Request is one host call.
type Request struct {
	ID   uint64 `json:"id,omitempty"`
	Op   Op     `json:"op"`
	Type string `json:"type,omitempty"` // get, put, contains
	Data []byte `json:"data,omitempty"` // put
	Text string `json:"text,omitempty"` // put_text
	Mode *int   `json:"mode,omitempty"` // set_mode
}

// Response answers the Request with the same ID. Only the fields relevant
// to the op are set.
type Response struct {
	ID    uint64   `json:"id,omitempty"`
	Error string   `json:"error,omitempty"`
	Code  Code     `json:"code,omitempty"`
	Bool  bool     `json:"bool,omitempty"`  // get_init, contains, lost, has_text
	Found bool     `json:"found,omitempty"` // get
	Data  []byte   `json:"data,omitempty"`  // get
	Text  string   `json:"text,omitempty"`  // get_text
	Types []string `json:"types,omitempty"` // get_types
	Mode  int      `json:"mode,omitempty"`  // set_mode, get_mode
}

// Failed reports whether the response carries an error.
func (r *Response) Failed() bool { return r.Error != "" }

// ErrMalformed marks a frame that arrived intact but is not a valid message.
var ErrMalformed = errors.New("malformed message")

// Encode serialises v to JSON without a trailing newline.
func Encode(v any) ([]byte, error) {
	return json.Marshal(v)
}

// DecodeRequest deserialises a request from raw JSON bytes.
func DecodeRequest(b []byte) (*Request, error) {
	var r Request
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("request decode: %w: %w", ErrMalformed, err)
	}
	if r.Op == "" {
		return nil, fmt.Errorf("request decode: %w: missing op", ErrMalformed)
	}
	return &r, nil
}

// DecodeResponse deserialises a response from raw JSON bytes.
func DecodeResponse(b []byte) (*Response, error) {
	var r Response
	if err := json.Unmarshal(b, &r); err != nil {
		return nil, fmt.Errorf("response decode: %w: %w", ErrMalformed, err)
	}
	return &r, nil
}
