package errors

import (
	goerrors "errors"
)

// Unwrap returns the next error in err's chain, or nil if there is none.
func Unwrap(err error) error {
	return goerrors.Unwrap(err)
}

// Is reports whether any error in err's chain matches target.
func Is(err, target error) bool {
	return goerrors.Is(err, target)
}

// As finds the first error in err's chain that matches target, and if so,
// sets target to that error value and returns true.
func As(err error, target any) bool {
	return goerrors.As(err, target)
}
