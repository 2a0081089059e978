// Package aes implements AES-128 block encryption as four pure transforms
// over a 4x4 state matrix, plus the key schedule and a trace builder that
// captures all 41 intermediate states of one block encryption.
package aes

import (
	"github.com/kochabx/ciphertrace/core/field"
)

// mixMatrix is the fixed MixColumns coefficient matrix.
var mixMatrix = field.Matrix{
	{0x02, 0x03, 0x01, 0x01},
	{0x01, 0x02, 0x03, 0x01},
	{0x01, 0x01, 0x02, 0x03},
	{0x03, 0x01, 0x01, 0x02},
}

// SubBytes substitutes every state byte through the S-box.
func SubBytes(state field.Matrix) field.Matrix {
	var out field.Matrix
	for r := 0; r < field.MatrixSize; r++ {
		for c := 0; c < field.MatrixSize; c++ {
			out[r][c] = sbox[state[r][c]]
		}
	}

	return out
}

// ShiftRows rotates row r of the state left by r positions; row 0 is
// unshifted.
func ShiftRows(state field.Matrix) field.Matrix {
	var out field.Matrix
	for r := 0; r < field.MatrixSize; r++ {
		for c := 0; c < field.MatrixSize; c++ {
			out[r][c] = state[r][(c+r)%field.MatrixSize]
		}
	}

	return out
}

// MixColumns multiplies each state column by the fixed coefficient matrix
// in GF(2^8): output byte (r, c) is the XOR-combined dot product of mix
// row r with state column c.
func MixColumns(state field.Matrix) field.Matrix {
	var out field.Matrix
	for c := 0; c < field.MatrixSize; c++ {
		for r := 0; r < field.MatrixSize; r++ {
			var acc byte
			for k := 0; k < field.MatrixSize; k++ {
				acc ^= field.GF256Mul(mixMatrix[r][k], state[k][c])
			}
			out[r][c] = acc
		}
	}

	return out
}

// AddRoundKey XORs the round key into the state element-wise.
func AddRoundKey(state, roundKey field.Matrix) field.Matrix {
	return field.XORMatrix(state, roundKey)
}
