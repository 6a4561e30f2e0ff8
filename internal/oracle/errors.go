package oracle

import "errors"

var (
	// ErrInvalidPublicKeySize is returned when the public key size is invalid.
	ErrInvalidPublicKeySize = errors.New("invalid public key size")

	// ErrInvalidSignatureSize is returned when the signature size is invalid.
	ErrInvalidSignatureSize = errors.New("invalid signature size")

	// ErrInvalidPublicKey is returned when the public key does not decode to
	// a curve point.
	ErrInvalidPublicKey = errors.New("invalid public key encoding")

	// ErrNonCanonicalScalar is returned when the s half of a signature is not
	// reduced modulo the group order.
	ErrNonCanonicalScalar = errors.New("non-canonical signature scalar")

	// ErrSignatureVerificationFailed is returned when signature verification fails.
	ErrSignatureVerificationFailed = errors.New("signature verification failed")
)
