package aes

import (
	"github.com/kochabx/ciphertrace/core/field"
	"github.com/kochabx/ciphertrace/errors"
)

const (
	// Rounds is the round count of AES-128.
	Rounds = 10

	// keyWords is the total number of 4-byte words the schedule expands to.
	keyWords = 4 * (Rounds + 1)
)

type word [4]byte

// KeyExpansion expands a 16-byte cipher key into the 11 round-key matrices
// of AES-128. Word i (i >= 4) is word i-4 XOR word i-1, where word i-1 is
// first rotated, substituted and Rcon-adjusted whenever i is a multiple
// of 4.
func KeyExpansion(key []byte) ([]field.Matrix, error) {
	if len(key) != field.BlockSize {
		return nil, errors.LengthMismatch("key must be %d bytes, got %d", field.BlockSize, len(key))
	}

	var words [keyWords]word
	for i := 0; i < 4; i++ {
		copy(words[i][:], key[4*i:4*i+4])
	}

	for i := 4; i < keyWords; i++ {
		temp := words[i-1]
		if i%4 == 0 {
			temp = subWord(rotWord(temp))
			temp[0] ^= rcon[i/4]
		}

		for b := 0; b < 4; b++ {
			words[i][b] = words[i-4][b] ^ temp[b]
		}
	}

	// Words 4r..4r+3 become the columns of round key r, matching the
	// column-major state layout.
	keys := make([]field.Matrix, Rounds+1)
	for r := 0; r <= Rounds; r++ {
		for c := 0; c < field.MatrixSize; c++ {
			for row := 0; row < field.MatrixSize; row++ {
				keys[r][row][c] = words[4*r+c][row]
			}
		}
	}

	return keys, nil
}

// rotWord rotates a word left by one byte.
func rotWord(w word) word {
	return word{w[1], w[2], w[3], w[0]}
}

// subWord substitutes each byte of a word through the S-box.
func subWord(w word) word {
	return word{sbox[w[0]], sbox[w[1]], sbox[w[2]], sbox[w[3]]}
}
