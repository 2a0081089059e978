// Package field implements the byte, matrix and GF(2^8) primitives shared
// by the cipher engines. All functions are pure: they never retain or alias
// their inputs.
package field

import (
	"encoding/hex"

	"github.com/kochabx/ciphertrace/errors"
)

const (
	// MatrixSize is the row/column count of an AES state matrix.
	MatrixSize = 4

	// BlockSize is the flat byte length of an AES state or round key.
	BlockSize = MatrixSize * MatrixSize
)

// Matrix is a 4x4 byte matrix. It is a value type, so assignment and
// function passing always copy the full state.
type Matrix [MatrixSize][MatrixSize]byte

// HexToBytes decodes a hex string of even length into bytes. The input is
// case-insensitive. Odd length or non-hex characters fail with a Format error.
func HexToBytes(s string) ([]byte, error) {
	if len(s)%2 != 0 {
		return nil, errors.Format("hex string must have even length, got %d", len(s))
	}

	b, err := hex.DecodeString(s)
	if err != nil {
		return nil, errors.Format("invalid hex string %q", s).WithCause(err)
	}

	return b, nil
}

// BytesToHex encodes bytes as a lowercase hex string. It is the exact
// inverse of HexToBytes up to letter case.
func BytesToHex(b []byte) string {
	return hex.EncodeToString(b)
}

// XORBytes returns the element-wise XOR of a and b. The inputs must have
// equal length; a mismatch indicates a caller bug and fails with a
// LengthMismatch error.
func XORBytes(a, b []byte) ([]byte, error) {
	if len(a) != len(b) {
		return nil, errors.LengthMismatch("xor operands differ in length: %d vs %d", len(a), len(b))
	}

	out := make([]byte, len(a))
	for i := range a {
		out[i] = a[i] ^ b[i]
	}

	return out, nil
}

// BytesToMatrix fills a 4x4 matrix from 16 bytes in column-major order:
// byte i lands in row i%4, column i/4. This is the AES state layout.
func BytesToMatrix(b []byte) (Matrix, error) {
	var m Matrix
	if len(b) != BlockSize {
		return m, errors.LengthMismatch("state requires %d bytes, got %d", BlockSize, len(b))
	}

	for i, v := range b {
		m[i%MatrixSize][i/MatrixSize] = v
	}

	return m, nil
}

// MatrixToBytes flattens a matrix back to 16 bytes, reversing exactly the
// mapping of BytesToMatrix.
func MatrixToBytes(m Matrix) []byte {
	b := make([]byte, BlockSize)
	for i := range b {
		b[i] = m[i%MatrixSize][i/MatrixSize]
	}

	return b
}

// XORMatrix returns the element-wise XOR of two matrices.
func XORMatrix(a, b Matrix) Matrix {
	var out Matrix
	for r := 0; r < MatrixSize; r++ {
		for c := 0; c < MatrixSize; c++ {
			out[r][c] = a[r][c] ^ b[r][c]
		}
	}

	return out
}

// DiffIndices returns the flat 0-15 positions (column-major, matching
// BytesToMatrix) where a and b differ.
func DiffIndices(a, b Matrix) []int {
	var diff []int
	for i := 0; i < BlockSize; i++ {
		if a[i%MatrixSize][i/MatrixSize] != b[i%MatrixSize][i/MatrixSize] {
			diff = append(diff, i)
		}
	}

	return diff
}
