package scrap

import "errors"

var (
	// ErrNotInitialized is returned by legacy operations called before Init.
	ErrNotInitialized = errors.New("clipboard not initialized (call init first)")

	// ErrInvalidMode is returned by SetMode for values other than
	// clip.Clipboard and clip.Selection.
	ErrInvalidMode = errors.New("invalid clipboard mode")

	// ErrInternal marks a cache fault that is distinct from a missing key.
	ErrInternal = errors.New("clipboard cache internal error")

	// ErrDeprecated is returned when a deprecation advisory is escalated.
	ErrDeprecated = errors.New("deprecated operation")

	// ErrEmbeddedNull is returned by PutText for text containing NUL.
	ErrEmbeddedNull = errors.New("text contains an embedded null character")
)
