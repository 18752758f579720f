// Package crypto seals scrap host-call frames with NaCl secretbox when the
// daemon is configured with a shared token.
//
// The key is HKDF-SHA256(token). Each sealed frame is
//
//	[ 24-byte nonce ][ secretbox ciphertext ]
package crypto

import (
	"crypto/rand"
	"crypto/sha256"
	"errors"
	"fmt"
	"io"

	"golang.org/x/crypto/hkdf"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	keySize   = 32
	nonceSize = 24
)

// Key is a secretbox key.
type Key = [keySize]byte

var (
	hkdfInfo = []byte("scrap-ipc-v1")

	// ErrOpen is returned when a frame fails authentication.
	ErrOpen = errors.New("frame authentication failed (token mismatch?)")
)

// KeyFromToken derives the frame key for token. An empty token disables
// sealing and yields a nil key.
func KeyFromToken(token string) (*Key, error) {
	if token == "" {
		return nil, nil
	}
	var key Key
	if _, err := io.ReadFull(hkdf.New(sha256.New, []byte(token), nil, hkdfInfo), key[:]); err != nil {
		return nil, fmt.Errorf("key derivation: %w", err)
	}
	return &key, nil
}

// Seal encrypts plaintext under key and prepends a fresh random nonce.
func Seal(plaintext []byte, key *Key) ([]byte, error) {
	var nonce [nonceSize]byte
	if _, err := rand.Read(nonce[:]); err != nil {
		return nil, fmt.Errorf("nonce: %w", err)
	}
	return secretbox.Seal(nonce[:], plaintext, &nonce, key), nil
}

// Open reverses Seal.
func Open(frame []byte, key *Key) ([]byte, error) {
	if len(frame) < nonceSize+secretbox.Overhead {
		return nil, fmt.Errorf("%w: frame too short", ErrOpen)
	}
	var nonce [nonceSize]byte
	copy(nonce[:], frame[:nonceSize])
	plain, ok := secretbox.Open(nil, frame[nonceSize:], &nonce, key)
	if !ok {
		return nil, ErrOpen
	}
	return plain, nil
}
