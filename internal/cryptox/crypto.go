// Package cryptox seals and opens the locally persisted session blob.
//
// The stored token and user record are encrypted at rest with
// XChaCha20-Poly1305 under a per-device key. The key lives in a small file
// next to the client database and is generated on first use.
package cryptox

import (
	"crypto/rand"
	"encoding/json"
	"errors"
	"fmt"
	"os"

	"golang.org/x/crypto/chacha20poly1305"
)

const keySize = chacha20poly1305.KeySize

var ErrInvalidBlob = errors.New("invalid sealed blob")

// Seal serializes v to JSON and encrypts it. The nonce is prepended to the
// ciphertext so a sealed blob is a single opaque byte slice.
func Seal(v any, key []byte) ([]byte, error) {
	plaintext, err := json.Marshal(v)
	if err != nil {
		return nil, err
	}

	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return nil, err
	}

	nonce := make([]byte, aead.NonceSize())
	if _, err := rand.Read(nonce); err != nil {
		return nil, err
	}

	return aead.Seal(nonce, nonce, plaintext, nil), nil
}

// Open decrypts a blob produced by Seal and unmarshals the JSON into v.
func Open(blob, key []byte, v any) error {
	aead, err := chacha20poly1305.NewX(key)
	if err != nil {
		return err
	}

	if len(blob) < aead.NonceSize() {
		return ErrInvalidBlob
	}
	nonce, ciphertext := blob[:aead.NonceSize()], blob[aead.NonceSize():]

	plaintext, err := aead.Open(nil, nonce, ciphertext, nil)
	if err != nil {
		return fmt.Errorf("%w: %w", ErrInvalidBlob, err)
	}

	return json.Unmarshal(plaintext, v)
}

// LoadOrCreateDeviceKey reads the device key from path, creating it with
// fresh random bytes and 0600 permissions if it does not exist yet.
func LoadOrCreateDeviceKey(path string) ([]byte, error) {
	key, err := os.ReadFile(path)
	if err == nil {
		if len(key) != keySize {
			return nil, fmt.Errorf("device key %s has wrong size %d", path, len(key))
		}
		return key, nil
	}
	if !errors.Is(err, os.ErrNotExist) {
		return nil, err
	}

	key = make([]byte, keySize)
	if _, err := rand.Read(key); err != nil {
		return nil, err
	}
	if err := os.WriteFile(path, key, 0o600); err != nil {
		return nil, err
	}
	return key, nil
}
