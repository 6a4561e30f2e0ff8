package input

// PatternA and PatternB are irregular R encodings mixing high, low and
// mid-range bytes.
var (
	PatternA = [PatternSize]byte{
		255, 42, 127, 42, 127, 10, 127, 42, 127, 42, 127, 42, 127, 42, 127, 42,
		127, 42, 127, 42, 127, 42, 255, 42, 127, 42, 127, 42, 127, 42, 127, 42,
	}
	PatternB = [PatternSize]byte{
		42, 255, 42, 127, 10, 127, 42, 127, 42, 127, 42, 127, 42, 127, 42, 127,
		42, 127, 42, 127, 42, 255, 42, 127, 42, 127, 42, 127, 42, 127, 42, 127,
	}
)

// forgedPatterns is indexed by Forged modulo its length.
var forgedPatterns = [...][PatternSize]byte{
	filled(0xFF),
	filled(0x00),
	PatternA,
	PatternB,
}

// ForgedPatternCount is the number of distinct forged inputs.
const ForgedPatternCount = len(forgedPatterns)

// Forged returns a hand-assembled input for the pattern at index modulo
// [ForgedPatternCount]. The public key is all 0xFF, the first half of the
// signature is the pattern and the second half is zero.
//
// The input bypasses key generation and signing and is built with
// [NewUnvalidated]; verifiers are expected to reject most of them.
func Forged(index int) BenchmarkInput {
	i := index % ForgedPatternCount
	if i < 0 {
		i += ForgedPatternCount
	}

	var sig [SignatureSize]byte
	copy(sig[:PatternSize], forgedPatterns[i][:])

	return NewUnvalidated(filled(ForgedPublicKeyByte), sig)
}

// ForgedBatch returns Forged(0) through Forged(n-1).
func ForgedBatch(n int) []BenchmarkInput {
	inputs := make([]BenchmarkInput, 0, n)
	for i := 0; i < n; i++ {
		inputs = append(inputs, Forged(i))
	}
	return inputs
}

func filled(b byte) [32]byte {
	var out [32]byte
	for i := range out {
		out[i] = b
	}
	return out
}
