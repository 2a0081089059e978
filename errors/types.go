package errors

import "net/http"

// Category codes for the trace engine. These are stable identifiers, not
// HTTP statuses; MapHTTPStatus translates them at the transport boundary.
const (
	// CodeFormat marks malformed hex or text input: wrong length,
	// non-hex characters, empty required field.
	CodeFormat = 1001

	// CodeInvalidInput marks parameters that are structurally fine but
	// semantically unusable, e.g. a Caesar shift that normalizes to zero.
	CodeInvalidInput = 1002

	// CodeLengthMismatch marks byte-sequence or matrix operations given
	// mismatched dimensions. This is an integration bug, not user input.
	CodeLengthMismatch = 1003

	// CodeInvalidPrime marks an RSA parameter that is not prime.
	CodeInvalidPrime = 1101

	// CodeEqualPrimes marks RSA key generation called with p == q.
	CodeEqualPrimes = 1102

	// CodeInvalidExponent marks a public exponent outside [2, phi).
	CodeInvalidExponent = 1103

	// CodeNotCoprime marks a public exponent sharing a factor with phi.
	CodeNotCoprime = 1104

	// CodeNoInverse marks a modular inverse request with gcd(a, m) != 1.
	CodeNoInverse = 1105

	// CodeOutOfRange marks an RSA message outside [0, n).
	CodeOutOfRange = 1106
)

func Format(format string, args ...any) *Error {
	return New(CodeFormat, format, args...)
}

func InvalidInput(format string, args ...any) *Error {
	return New(CodeInvalidInput, format, args...)
}

func LengthMismatch(format string, args ...any) *Error {
	return New(CodeLengthMismatch, format, args...)
}

func InvalidPrime(format string, args ...any) *Error {
	return New(CodeInvalidPrime, format, args...)
}

func EqualPrimes(format string, args ...any) *Error {
	return New(CodeEqualPrimes, format, args...)
}

func InvalidExponent(format string, args ...any) *Error {
	return New(CodeInvalidExponent, format, args...)
}

func NotCoprime(format string, args ...any) *Error {
	return New(CodeNotCoprime, format, args...)
}

func NoInverse(format string, args ...any) *Error {
	return New(CodeNoInverse, format, args...)
}

func OutOfRange(format string, args ...any) *Error {
	return New(CodeOutOfRange, format, args...)
}

// IsFormat reports whether err is a FormatError.
func IsFormat(err error) bool {
	return Code(err) == CodeFormat
}

// IsValidation reports whether err belongs to any of the RSA parameter
// validation categories.
func IsValidation(err error) bool {
	switch Code(err) {
	case CodeInvalidPrime, CodeEqualPrimes, CodeInvalidExponent, CodeNotCoprime, CodeOutOfRange:
		return true
	default:
		return false
	}
}

// MapHTTPStatus translates a category code into an HTTP status for the
// transport layer. Engine bugs (length mismatch, missing inverse) surface
// as 500 since they are never caused by user input.
func MapHTTPStatus(err error) int {
	switch Code(err) {
	case 0:
		return http.StatusOK
	case CodeFormat, CodeInvalidInput, CodeInvalidPrime, CodeEqualPrimes,
		CodeInvalidExponent, CodeNotCoprime, CodeOutOfRange:
		return http.StatusBadRequest
	case CodeLengthMismatch, CodeNoInverse:
		return http.StatusInternalServerError
	default:
		// Codes outside the engine categories carry the HTTP status
		// directly (config, session lookup).
		if code := Code(err); code >= 100 && code < 600 {
			return code
		}
		return http.StatusInternalServerError
	}
}
