// Package modmath implements the modular arithmetic used by the RSA engine:
// modular exponentiation, gcd, modular inverse and a trial-division
// primality test sized for teaching-scale parameters.
package modmath

import (
	"math/big"

	"github.com/kochabx/ciphertrace/errors"
)

// ModPow computes base^exp mod modulus by square-and-multiply. The squaring
// runs on math/big internally, so intermediate products never overflow even
// when callers pass primes well beyond the teaching presets. Exponents are
// taken non-negative; modulus must be positive.
func ModPow(base, exp, modulus int64) (int64, error) {
	if modulus <= 0 {
		return 0, errors.InvalidInput("modulus must be positive, got %d", modulus)
	}
	if exp < 0 {
		return 0, errors.InvalidInput("negative exponent %d not supported", exp)
	}

	result := new(big.Int).Exp(big.NewInt(base), big.NewInt(exp), big.NewInt(modulus))
	return result.Int64(), nil
}

// GCD returns the greatest common divisor of a and b by the Euclidean
// algorithm, operating on absolute values.
func GCD(a, b int64) int64 {
	if a < 0 {
		a = -a
	}
	if b < 0 {
		b = -b
	}

	for b != 0 {
		a, b = b, a%b
	}

	return a
}

// ModInverse returns the multiplicative inverse of a modulo m via the
// extended Euclidean algorithm, normalized into [0, m). It fails with a
// NoInverse error when gcd(a, m) != 1. Downstream of the RSA coprimality
// check this cannot trigger; it is an invariant of the utility itself.
func ModInverse(a, m int64) (int64, error) {
	if m <= 1 {
		return 0, errors.NoInverse("no inverse modulo %d", m)
	}

	// Extended Euclid on (a mod m, m), tracking only the coefficient of a.
	r0, r1 := ((a%m)+m)%m, m
	var t0, t1 int64 = 1, 0

	for r1 != 0 {
		q := r0 / r1
		r0, r1 = r1, r0-q*r1
		t0, t1 = t1, t0-q*t1
	}

	if r0 != 1 {
		return 0, errors.NoInverse("no inverse of %d modulo %d: gcd is %d", a, m, r0)
	}

	return ((t0 % m) + m) % m, nil
}

// IsPrime reports whether n is prime using trial division up to the square
// root. Sufficient at the magnitudes the presets use.
func IsPrime(n int64) bool {
	if n < 2 {
		return false
	}
	if n < 4 {
		return true
	}
	if n%2 == 0 {
		return false
	}

	for d := int64(3); d*d <= n; d += 2 {
		if n%d == 0 {
			return false
		}
	}

	return true
}
