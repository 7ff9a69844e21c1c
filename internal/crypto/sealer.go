package crypto

import (
	"crypto/rand"
	"encoding/base64"
	"errors"
	"fmt"
	"strings"

	"golang.org/x/crypto/argon2"
	"golang.org/x/crypto/nacl/secretbox"
)

const (
	sealedPrefix = "v1."
	plainPrefix  = "v0."
	saltLength   = 16
	nonceLength  = 24
)

var ErrSealedValueInvalid = errors.New("sealed value is invalid")

// KeyParams configures the Argon2id key derivation used for sealing.
type KeyParams struct {
	Memory      uint32
	Iterations  uint32
	Parallelism uint8
}

// DefaultKeyParams returns the recommended Argon2id parameters.
func DefaultKeyParams() KeyParams {
	return KeyParams{
		Memory:      64 * 1024,
		Iterations:  3,
		Parallelism: 2,
	}
}

// Sealer encrypts small secrets at rest with a key derived from a passphrase.
// A Sealer with an empty passphrase passes values through unchanged.
type Sealer struct {
	passphrase []byte
	params     KeyParams
}

// NewSealer creates a Sealer for the given passphrase.
func NewSealer(passphrase string) *Sealer {
	return NewSealerWithParams(passphrase, DefaultKeyParams())
}

// NewSealerWithParams creates a Sealer with explicit key derivation parameters.
func NewSealerWithParams(passphrase string, params KeyParams) *Sealer {
	return &Sealer{passphrase: []byte(passphrase), params: params}
}

// Enabled reports whether values are actually encrypted.
func (s *Sealer) Enabled() bool {
	return s != nil && len(s.passphrase) > 0
}

// Seal encrypts plaintext and returns it in the form "v1.<base64(salt|nonce|box)>".
// A disabled Sealer returns "v0.<plaintext>".
func (s *Sealer) Seal(plaintext string) (string, error) {
	if !s.Enabled() {
		return plainPrefix + plaintext, nil
	}

	buf := make([]byte, saltLength+nonceLength)
	if _, err := rand.Read(buf); err != nil {
		return "", fmt.Errorf("generating salt and nonce: %w", err)
	}

	var nonce [nonceLength]byte
	copy(nonce[:], buf[saltLength:])
	key := s.deriveKey(buf[:saltLength])

	sealed := secretbox.Seal(buf, []byte(plaintext), &nonce, &key)
	return sealedPrefix + base64.RawURLEncoding.EncodeToString(sealed), nil
}

// Open reverses Seal. Any value that cannot be opened yields ErrSealedValueInvalid.
// A disabled Sealer also accepts values written without any prefix.
func (s *Sealer) Open(value string) (string, error) {
	encoded, sealed := strings.CutPrefix(value, sealedPrefix)

	if !s.Enabled() {
		if sealed {
			return "", ErrSealedValueInvalid
		}
		if plain, ok := strings.CutPrefix(value, plainPrefix); ok {
			return plain, nil
		}
		return value, nil
	}
	if !sealed {
		return "", ErrSealedValueInvalid
	}

	raw, err := base64.RawURLEncoding.DecodeString(encoded)
	if err != nil || len(raw) < saltLength+nonceLength+secretbox.Overhead {
		return "", ErrSealedValueInvalid
	}

	var nonce [nonceLength]byte
	copy(nonce[:], raw[saltLength:saltLength+nonceLength])
	key := s.deriveKey(raw[:saltLength])

	plain, ok := secretbox.Open(nil, raw[saltLength+nonceLength:], &nonce, &key)
	if !ok {
		return "", ErrSealedValueInvalid
	}
	return string(plain), nil
}

func (s *Sealer) deriveKey(salt []byte) [32]byte {
	var key [32]byte
	copy(key[:], argon2.IDKey(s.passphrase, salt, s.params.Iterations, s.params.Memory, s.params.Parallelism, 32))
	return key
}
