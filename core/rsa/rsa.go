// Package rsa implements teaching-scale RSA: key generation over small
// primes, modular encryption and decryption, and a trace builder covering
// the full keygen/encrypt/decrypt walkthrough.
//
// The arithmetic API is int64 but exponentiation squares through math/big
// (see modmath.ModPow), so the documented safe range is bounded by the
// int64 inputs themselves, not by intermediate products.
package rsa

import (
	"github.com/kochabx/ciphertrace/core/modmath"
	"github.com/kochabx/ciphertrace/errors"
)

// KeyPair holds one generated RSA key set, including the intermediate
// values the walkthrough displays.
type KeyPair struct {
	P   int64 `json:"p"`
	Q   int64 `json:"q"`
	N   int64 `json:"n"`
	Phi int64 `json:"phi"`
	E   int64 `json:"e"`
	D   int64 `json:"d"`
}

// GenerateKeys derives a key pair from the primes p, q and the public
// exponent e. Each validation failure reports its own category and the
// offending values: InvalidPrime, EqualPrimes, InvalidExponent,
// NotCoprime.
func GenerateKeys(p, q, e int64) (*KeyPair, error) {
	if !modmath.IsPrime(p) {
		return nil, errors.InvalidPrime("p=%d is not prime", p).
			WithMetadata(map[string]string{"param": "p"})
	}
	if !modmath.IsPrime(q) {
		return nil, errors.InvalidPrime("q=%d is not prime", q).
			WithMetadata(map[string]string{"param": "q"})
	}
	if p == q {
		return nil, errors.EqualPrimes("p and q must be distinct, both are %d", p)
	}

	n := p * q
	phi := (p - 1) * (q - 1)

	if e < 2 || e >= phi {
		return nil, errors.InvalidExponent("e=%d must satisfy 2 <= e < phi=%d", e, phi)
	}
	if g := modmath.GCD(e, phi); g != 1 {
		return nil, errors.NotCoprime("e=%d shares factor %d with phi=%d", e, g, phi)
	}

	d, err := modmath.ModInverse(e, phi)
	if err != nil {
		return nil, err
	}

	return &KeyPair{P: p, Q: q, N: n, Phi: phi, E: e, D: d}, nil
}

// Encrypt computes m^e mod n. The message must lie in [0, n).
func Encrypt(m, e, n int64) (int64, error) {
	if m < 0 || m >= n {
		return 0, errors.OutOfRange("message %d must satisfy 0 <= m < n=%d", m, n)
	}

	return modmath.ModPow(m, e, n)
}

// Decrypt computes c^d mod n. Any ciphertext produced by Encrypt is
// already in range, so no check is needed.
func Decrypt(c, d, n int64) (int64, error) {
	return modmath.ModPow(c, d, n)
}
