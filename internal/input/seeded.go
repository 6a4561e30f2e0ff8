package input

import (
	"crypto/sha512"
	"fmt"
	"io"

	"golang.org/x/crypto/chacha20"
	"golang.org/x/crypto/hkdf"
)

// seededReader is a ChaCha20 keystream keyed from a seed.
type seededReader struct {
	cipher *chacha20.Cipher
}

// NewSeededReader returns a deterministic, cryptographically strong byte
// stream derived from seed. Different labels give independent streams from
// the same seed.
//
// The stream key and nonce come from HKDF-SHA-512; bytes are then read from
// the ChaCha20 keystream so the stream is not bounded by the HKDF output
// limit.
func NewSeededReader(seed []byte, label string) (io.Reader, error) {
	material, err := deriveKey(seed, nil, []byte(SeedContext+":"+label), chacha20.KeySize+chacha20.NonceSize)
	if err != nil {
		return nil, err
	}

	c, err := chacha20.NewUnauthenticatedCipher(material[:chacha20.KeySize], material[chacha20.KeySize:])
	if err != nil {
		return nil, fmt.Errorf("init keystream: %w", err)
	}
	return &seededReader{cipher: c}, nil
}

func (r *seededReader) Read(p []byte) (int, error) {
	clear(p)
	r.cipher.XORKeyStream(p, p)
	return len(p), nil
}

// deriveKey derives a key using HKDF-SHA-512.
func deriveKey(secret, salt, info []byte, length int) ([]byte, error) {
	if len(salt) == 0 {
		salt = make([]byte, sha512.Size)
	}

	reader := hkdf.New(sha512.New, secret, salt, info)
	key := make([]byte, length)

	if _, err := io.ReadFull(reader, key); err != nil {
		return nil, fmt.Errorf("failed to derive key: %w", err)
	}

	return key, nil
}
