package oracle

import (
	"crypto/rand"
	"math/big"
	"testing"

	"filippo.io/edwards25519"
	"github.com/cloudflare/circl/sign/ed25519"
	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var testMessage = []byte("This is a test of the tsunami alert system.")

func signedTriple(t *testing.T) (pub, sig []byte) {
	t.Helper()
	pk, sk, err := ed25519.GenerateKey(nil)
	require.NoError(t, err)
	return pk, ed25519.Sign(sk, testMessage)
}

func TestVerify_ValidSignature(t *testing.T) {
	pub, sig := signedTriple(t)
	assert.NoError(t, Ed25519{}.Verify(pub, testMessage, sig))
}

func TestVerify_InvalidSignature(t *testing.T) {
	pub, sig := signedTriple(t)
	sig[3] ^= 0x80

	err := Ed25519{}.Verify(pub, testMessage, sig)
	assert.ErrorIs(t, err, ErrSignatureVerificationFailed)
}

func TestVerify_Sizes(t *testing.T) {
	o := Ed25519{}
	assert.ErrorIs(t, o.Verify(make([]byte, 31), testMessage, make([]byte, 64)), ErrInvalidPublicKeySize)
	assert.ErrorIs(t, o.Verify(make([]byte, 32), testMessage, make([]byte, 65)), ErrInvalidSignatureSize)
}

func TestByzScore_Deterministic(t *testing.T) {
	o := Ed25519{}
	for i := 0; i < 20; i++ {
		pub, sig := signedTriple(t)
		first := o.ByzScore(pub, testMessage, sig)
		second := o.ByzScore(pub, testMessage, sig)
		require.Equal(t, first, second, "score changed between calls")
		assert.Positive(t, first)
	}
}

func TestByzScore_Range(t *testing.T) {
	o := Ed25519{}
	sum := 0
	const n = 200
	for i := 0; i < n; i++ {
		pub, sig := signedTriple(t)
		sum += o.ByzScore(pub, testMessage, sig)
	}
	mean := float64(sum) / n

	// Width-5 and width-8 NAFs of ~253-bit scalars average about 42 and 28
	// non-zero digits.
	assert.InDelta(t, 70, mean, 6)
}

func TestByzScore_UndecodableScoresZero(t *testing.T) {
	o := Ed25519{}
	pub, sig := signedTriple(t)

	// s >= l is rejected before any multiplication happens.
	bad := append([]byte(nil), sig...)
	for i := 32; i < 64; i++ {
		bad[i] = 0xFF
	}
	assert.Zero(t, o.ByzScore(pub, testMessage, bad))
	assert.Zero(t, o.ByzScore(pub[:31], testMessage, sig))
}

func TestVerifyTimed_AgreesWithVerify(t *testing.T) {
	o := Ed25519{}
	for i := 0; i < 10; i++ {
		pub, sig := signedTriple(t)

		pt, err := o.VerifyTimed(pub, testMessage, sig)
		require.NoError(t, err)
		assert.Positive(t, pt.Total)
		assert.GreaterOrEqual(t, pt.Total, pt.Multiply)

		sig[0] ^= 0x01
		_, err = o.VerifyTimed(pub, testMessage, sig)
		assert.Error(t, err)
		assert.Error(t, o.Verify(pub, testMessage, sig))
	}
}

func TestNonAdjacentForm_Reconstructs(t *testing.T) {
	for _, w := range []uint{2, 5, 8} {
		for i := 0; i < 50; i++ {
			var wide [64]byte
			_, err := rand.Read(wide[:])
			require.NoError(t, err)
			s, err := new(edwards25519.Scalar).SetUniformBytes(wide[:])
			require.NoError(t, err)
			scalar := s.Bytes()

			naf := nonAdjacentForm(scalar, w)

			got := new(big.Int)
			for j := 255; j >= 0; j-- {
				got.Lsh(got, 1)
				got.Add(got, big.NewInt(int64(naf[j])))
			}
			assert.Equal(t, 0, got.Cmp(leToBig(scalar)), "w=%d: NAF does not reconstruct scalar", w)

			half := 1 << (w - 1)
			for j, d := range naf {
				if d == 0 {
					continue
				}
				assert.True(t, d%2 != 0, "w=%d: even digit %d at %d", w, d, j)
				assert.True(t, int(d) < half && int(d) > -half, "w=%d: digit %d out of range", w, d)
				for k := j + 1; k < j+int(w) && k < 256; k++ {
					assert.Zero(t, naf[k], "w=%d: digits %d and %d adjacent", w, j, k)
				}
			}
		}
	}
}

func TestNafWeight_KnownValues(t *testing.T) {
	scalar := make([]byte, 32)
	assert.Zero(t, nafWeight(scalar, 5))

	scalar[0] = 1
	assert.Equal(t, 1, nafWeight(scalar, 5))

	// 0b11111 = 31 is 32 - 1 in width-5 NAF: two digits.
	scalar[0] = 31
	assert.Equal(t, 2, nafWeight(scalar, 5))
}

func leToBig(b []byte) *big.Int {
	be := make([]byte, len(b))
	for i := range b {
		be[len(b)-1-i] = b[i]
	}
	return new(big.Int).SetBytes(be)
}
