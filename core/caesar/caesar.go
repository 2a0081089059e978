// Package caesar implements the Caesar shift cipher and its trace builder.
package caesar

const alphabetSize = 26

// ShiftChar shifts a single character within its case's 26-letter alphabet.
// Non-alphabetic characters pass through unchanged; the second return value
// reports whether the character was alphabetic. The double-mod keeps the
// result non-negative for negative shifts, so decryption reuses this path.
func ShiftChar(c rune, shift int) (rune, bool) {
	var base rune
	switch {
	case c >= 'a' && c <= 'z':
		base = 'a'
	case c >= 'A' && c <= 'Z':
		base = 'A'
	default:
		return c, false
	}

	pos := int(c - base)
	shifted := ((pos+shift)%alphabetSize + alphabetSize) % alphabetSize
	return base + rune(shifted), true
}

// Encrypt shifts every character of text by shift and concatenates the
// results. Length and non-alphabetic characters are preserved.
func Encrypt(text string, shift int) string {
	out := make([]rune, 0, len(text))
	for _, c := range text {
		shifted, _ := ShiftChar(c, shift)
		out = append(out, shifted)
	}

	return string(out)
}

// Decrypt is the exact algebraic inverse of Encrypt: a shift by -shift.
// Correctness of decryption therefore follows from Encrypt alone.
func Decrypt(text string, shift int) string {
	return Encrypt(text, -shift)
}
