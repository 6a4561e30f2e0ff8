package input

import "errors"

var (
	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSignatureSize is returned when the signature size is invalid.
	ErrInvalidSignatureSize = errors.New("invalid signature size")

	// ErrInvalidSignature is returned by [New] when the signature does not
	// verify over [Message] under the public key.
	ErrInvalidSignature = errors.New("signature does not verify")

	// ErrKeyGeneration is returned when a keypair cannot be drawn from the
	// randomness source.
	ErrKeyGeneration = errors.New("key generation failed")
)
