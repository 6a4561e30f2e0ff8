package oracle

const (
	// PublicKeySize is the size of an Ed25519 public key in bytes.
	PublicKeySize = 32
	// SignatureSize is the size of an Ed25519 signature in bytes.
	SignatureSize = 64

	// challengeWindow is the NAF width used for the variable-base scalar.
	challengeWindow = 5
	// responseWindow is the NAF width used for the fixed-base scalar, which
	// can afford a larger precomputed table.
	responseWindow = 8
)
