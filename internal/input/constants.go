package input

const (
	// Message is the constant message signed by every benchmark input.
	Message = "This is a test of the tsunami alert system."

	// PublicKeySize is the size of an Ed25519 public key in bytes.
	PublicKeySize = 32
	// SignatureSize is the size of an Ed25519 signature in bytes.
	SignatureSize = 64
	// PatternSize is the size of a forged signature pattern (the R half).
	PatternSize = SignatureSize / 2

	// ForgedPublicKeyByte fills every byte of a forged public key.
	ForgedPublicKeyByte = 0xFF

	// SeedContext is the HKDF info prefix used for seeded streams.
	SeedContext = "byzbench:rng:v1"
)
