package oracle

import "encoding/binary"

// nonAdjacentForm returns the width-w NAF of a 32-byte little-endian
// scalar: digits are zero or odd with |d| < 2^(w-1), and any non-zero digit
// is followed by at least w-1 zeros. w must be between 2 and 8.
func nonAdjacentForm(scalar []byte, w uint) [256]int8 {
	var x [5]uint64
	for i := 0; i < 4; i++ {
		x[i] = binary.LittleEndian.Uint64(scalar[8*i:])
	}

	width := uint64(1) << w
	mask := width - 1

	var naf [256]int8
	var carry uint64
	pos := 0
	for pos < 256 {
		idx, bit := pos/64, uint(pos%64)
		var buf uint64
		if bit < 64-w {
			buf = x[idx] >> bit
		} else {
			buf = (x[idx] >> bit) | (x[idx+1] << (64 - bit))
		}

		window := carry + (buf & mask)
		if window&1 == 0 {
			pos++
			continue
		}

		if window < width/2 {
			carry = 0
			naf[pos] = int8(window)
		} else {
			carry = 1
			naf[pos] = int8(int64(window) - int64(width))
		}
		pos += int(w)
	}
	return naf
}

// nafWeight counts the non-zero digits of the width-w NAF of scalar.
func nafWeight(scalar []byte, w uint) int {
	naf := nonAdjacentForm(scalar, w)
	n := 0
	for _, d := range naf {
		if d != 0 {
			n++
		}
	}
	return n
}
