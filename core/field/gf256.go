package field

// reductionPoly is the AES (Rijndael) reduction polynomial
// x^8 + x^4 + x^3 + x + 1, i.e. 0x11B, kept here without its x^8 term
// since reduction happens after the overflow bit is shifted out.
const reductionPoly = 0x1B

// GF256Mul multiplies a and b in GF(2^8) under the AES reduction
// polynomial using the standard shift-and-reduce loop over 8 bits.
// It is total over all byte pairs and has no side effects.
func GF256Mul(a, b byte) byte {
	var product byte

	for i := 0; i < 8; i++ {
		if b&1 != 0 {
			product ^= a
		}

		carry := a&0x80 != 0
		a <<= 1
		if carry {
			a ^= reductionPoly
		}

		b >>= 1
	}

	return product
}
