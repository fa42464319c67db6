// Package crypto implements the authenticated-encryption envelope used by the
// vault file. One envelope wraps one plaintext; the key travels separately.
package crypto

import (
	"crypto/aes"
	"crypto/cipher"
	"crypto/rand"
	"encoding/hex"
	"errors"
	"fmt"
)

const (
	// KeySize is the AES-256 key length in bytes.
	KeySize = 32
	// NonceSize is the random IV length in bytes. The on-disk format predates
	// the 12-byte GCM default and always uses 16.
	NonceSize = 16
	// TagSize is the GCM authentication tag length in bytes.
	TagSize = 16
)

var (
	// ErrInvalidKey reports a key of the wrong length.
	ErrInvalidKey = errors.New("crypto: key must be 32 bytes")
	// ErrAuthentication reports a failed tag verification: wrong key,
	// corrupted ciphertext, or tampering. No plaintext is released.
	ErrAuthentication = errors.New("crypto: authentication failed")
	// ErrMalformedEnvelope reports an envelope whose fields are not
	// well-formed hex of the expected lengths.
	ErrMalformedEnvelope = errors.New("crypto: malformed envelope")
)

// Envelope is the self-contained encrypted form of a plaintext. All fields
// are lowercase hex so the envelope serializes to a flat JSON object.
type Envelope struct {
	IV   string `json:"iv"`
	Tag  string `json:"tag"`
	Data string `json:"data"`
}

// Encrypt seals plaintext under key with a fresh random nonce per call.
// Empty plaintext is valid and round-trips to empty bytes.
func Encrypt(plaintext, key []byte) (Envelope, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return Envelope{}, err
	}
	nonce := make([]byte, NonceSize)
	if _, err := rand.Read(nonce); err != nil {
		return Envelope{}, fmt.Errorf("crypto: nonce: %w", err)
	}
	sealed := aead.Seal(nil, nonce, plaintext, nil)
	split := len(sealed) - TagSize
	return Envelope{
		IV:   hex.EncodeToString(nonce),
		Tag:  hex.EncodeToString(sealed[split:]),
		Data: hex.EncodeToString(sealed[:split]),
	}, nil
}

// Decrypt verifies the envelope tag and returns the plaintext. Structural
// problems surface as ErrMalformedEnvelope; a failed verification surfaces
// as ErrAuthentication without distinguishing wrong key from tampering.
func Decrypt(env Envelope, key []byte) ([]byte, error) {
	aead, err := newAEAD(key)
	if err != nil {
		return nil, err
	}
	nonce, err := decodeField("iv", env.IV, NonceSize)
	if err != nil {
		return nil, err
	}
	tag, err := decodeField("tag", env.Tag, TagSize)
	if err != nil {
		return nil, err
	}
	data, err := hex.DecodeString(env.Data)
	if err != nil {
		return nil, fmt.Errorf("%w: data is not hex", ErrMalformedEnvelope)
	}
	sealed := make([]byte, 0, len(data)+len(tag))
	sealed = append(sealed, data...)
	sealed = append(sealed, tag...)
	plain, err := aead.Open(nil, nonce, sealed, nil)
	if err != nil {
		return nil, ErrAuthentication
	}
	return plain, nil
}

func newAEAD(key []byte) (cipher.AEAD, error) {
	if len(key) != KeySize {
		return nil, ErrInvalidKey
	}
	block, err := aes.NewCipher(key)
	if err != nil {
		return nil, fmt.Errorf("crypto: cipher: %w", err)
	}
	return cipher.NewGCMWithNonceSize(block, NonceSize)
}

func decodeField(name, value string, size int) ([]byte, error) {
	raw, err := hex.DecodeString(value)
	if err != nil {
		return nil, fmt.Errorf("%w: %s is not hex", ErrMalformedEnvelope, name)
	}
	if len(raw) != size {
		return nil, fmt.Errorf("%w: %s must be %d bytes, got %d", ErrMalformedEnvelope, name, size, len(raw))
	}
	return raw, nil
}
