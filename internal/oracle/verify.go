package oracle

import (
	"bytes"
	"crypto/sha512"
	"fmt"
	"time"

	"filippo.io/edwards25519"
	"github.com/cloudflare/circl/sign/ed25519"
)

// Ed25519 is the default oracle. The zero value is ready to use.
type Ed25519 struct{}

// PhaseTimings holds the duration of each verification phase.
type PhaseTimings struct {
	// Decode covers public key decompression and the s range check.
	Decode time.Duration
	// Challenge covers hashing R || A || M and reducing it mod l.
	Challenge time.Duration
	// Multiply covers the double-base scalar multiplication.
	Multiply time.Duration
	// Compare covers encoding the result and comparing it to R.
	Compare time.Duration
	// Total is the wall time of the whole call.
	Total time.Duration
}

// Verify verifies an Ed25519 signature.
func (Ed25519) Verify(publicKey, message, signature []byte) error {
	if err := checkSizes(publicKey, signature); err != nil {
		return err
	}

	if !ed25519.Verify(publicKey, message, signature) {
		return ErrSignatureVerificationFailed
	}

	return nil
}

// ByzScore returns the number of point additions a variable-time
// verification of the triple performs. Inputs that fail to decode score 0.
func (Ed25519) ByzScore(publicKey, message, signature []byte) int {
	if checkSizes(publicKey, signature) != nil {
		return 0
	}
	if _, err := new(edwards25519.Point).SetBytes(publicKey); err != nil {
		return 0
	}
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(signature[32:])
	if err != nil {
		return 0
	}

	k := challenge(signature[:32], publicKey, message)

	return nafWeight(k.Bytes(), challengeWindow) + nafWeight(s.Bytes(), responseWindow)
}

// VerifyTimed verifies the signature step by step and reports how long
// each phase took. Timings are filled in whenever decoding succeeds, including
// when the final comparison rejects the signature.
func (Ed25519) VerifyTimed(publicKey, message, signature []byte) (PhaseTimings, error) {
	var pt PhaseTimings
	if err := checkSizes(publicKey, signature); err != nil {
		return pt, err
	}

	start := time.Now()

	A, err := new(edwards25519.Point).SetBytes(publicKey)
	if err != nil {
		return pt, fmt.Errorf("%w: %v", ErrInvalidPublicKey, err)
	}
	s, err := new(edwards25519.Scalar).SetCanonicalBytes(signature[32:])
	if err != nil {
		return pt, ErrNonCanonicalScalar
	}
	decoded := time.Now()

	k := challenge(signature[:32], publicKey, message)
	hashed := time.Now()

	minusA := new(edwards25519.Point).Negate(A)
	R := new(edwards25519.Point).VarTimeDoubleScalarBaseMult(k, minusA, s)
	multiplied := time.Now()

	ok := bytes.Equal(R.Bytes(), signature[:32])
	done := time.Now()

	pt = PhaseTimings{
		Decode:    decoded.Sub(start),
		Challenge: hashed.Sub(decoded),
		Multiply:  multiplied.Sub(hashed),
		Compare:   done.Sub(multiplied),
		Total:     done.Sub(start),
	}
	if !ok {
		return pt, ErrSignatureVerificationFailed
	}
	return pt, nil
}

// challenge computes k = SHA-512(R || A || M) mod l.
func challenge(r, publicKey, message []byte) *edwards25519.Scalar {
	h := sha512.New()
	h.Write(r)
	h.Write(publicKey)
	h.Write(message)
	var digest [sha512.Size]byte
	h.Sum(digest[:0])

	// SetUniformBytes only fails for inputs that are not 64 bytes long.
	k, _ := new(edwards25519.Scalar).SetUniformBytes(digest[:])
	return k
}

func checkSizes(publicKey, signature []byte) error {
	if len(publicKey) != PublicKeySize {
		return ErrInvalidPublicKeySize
	}
	if len(signature) != SignatureSize {
		return ErrInvalidSignatureSize
	}
	return nil
}
