package input

import (
	"fmt"
	"io"

	"github.com/cloudflare/circl/sign/ed25519"
	"go.uber.org/zap/zapcore"
)

// BenchmarkInput is one public key, message and signature triple.
//
// It is a value type: the key and signature are fixed-width arrays, so
// copies never share memory and two inputs compare equal with ==.
type BenchmarkInput struct {
	// PublicKey is the raw Ed25519 public key encoding.
	PublicKey [PublicKeySize]byte
	// Message is the signed message, always [Message] for generated inputs.
	Message string
	// Signature is the raw R || s signature encoding.
	Signature [SignatureSize]byte
}

// Random draws an Ed25519 keypair from rng, signs [Message] and returns the
// resulting input. A nil rng uses crypto/rand.
func Random(rng io.Reader) (BenchmarkInput, error) {
	pub, priv, err := ed25519.GenerateKey(rng)
	if err != nil {
		return BenchmarkInput{}, fmt.Errorf("%w: %v", ErrKeyGeneration, err)
	}

	sig := ed25519.Sign(priv, []byte(Message))

	var in BenchmarkInput
	copy(in.PublicKey[:], pub)
	copy(in.Signature[:], sig)
	in.Message = Message
	return in, nil
}

// RandomBatch returns n inputs drawn with [Random] from the same rng.
func RandomBatch(rng io.Reader, n int) ([]BenchmarkInput, error) {
	inputs := make([]BenchmarkInput, 0, n)
	for i := 0; i < n; i++ {
		in, err := Random(rng)
		if err != nil {
			return nil, err
		}
		inputs = append(inputs, in)
	}
	return inputs, nil
}

// New creates an input from raw bytes and requires the signature to verify
// over [Message]. Use [Parse] or [NewUnvalidated] for adversarial inputs.
func New(publicKey, signature []byte) (BenchmarkInput, error) {
	in, err := Parse(publicKey, signature)
	if err != nil {
		return BenchmarkInput{}, err
	}
	if !ed25519.Verify(in.PublicKey[:], []byte(in.Message), in.Signature[:]) {
		return BenchmarkInput{}, ErrInvalidSignature
	}
	return in, nil
}

// Parse creates an input from raw bytes, checking sizes only.
//
// The result is NOT validated: the key may not decode to a curve point and
// the signature may not verify.
func Parse(publicKey, signature []byte) (BenchmarkInput, error) {
	if len(publicKey) != PublicKeySize {
		return BenchmarkInput{}, ErrInvalidPublicKeySize
	}
	if len(signature) != SignatureSize {
		return BenchmarkInput{}, ErrInvalidSignatureSize
	}

	var pk [PublicKeySize]byte
	var sig [SignatureSize]byte
	copy(pk[:], publicKey)
	copy(sig[:], signature)
	return NewUnvalidated(pk, sig), nil
}

// NewUnvalidated assembles an input directly from fixed-width bytes.
//
// No cryptographic check of any kind is made. The result is structurally
// well formed but may be rejected by a correct verifier; it exists to build
// corner-case inputs that normal key generation and signing never produce.
func NewUnvalidated(publicKey [PublicKeySize]byte, signature [SignatureSize]byte) BenchmarkInput {
	return BenchmarkInput{
		PublicKey: publicKey,
		Message:   Message,
		Signature: signature,
	}
}

// MessageBytes returns the message as a byte slice.
func (in BenchmarkInput) MessageBytes() []byte {
	return []byte(in.Message)
}

// String returns a one-line representation suitable for logs.
func (in BenchmarkInput) String() string {
	return fmt.Sprintf("pk=%s sig=%s msg=%q",
		ToBase64URL(in.PublicKey[:]), ToBase64URL(in.Signature[:]), in.Message)
}

// MarshalLogObject implements zapcore.ObjectMarshaler.
func (in BenchmarkInput) MarshalLogObject(enc zapcore.ObjectEncoder) error {
	enc.AddString("public_key", ToBase64URL(in.PublicKey[:]))
	enc.AddString("signature", ToBase64URL(in.Signature[:]))
	enc.AddString("message", in.Message)
	return nil
}
