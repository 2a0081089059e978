// Package middleware provides the gin middleware the trace server
// mounts: request logging, panic recovery and CORS.
package middleware

import (
	klog "github.com/kochabx/ciphertrace/log"
)

var log = klog.New()

// SetLogger redirects middleware output to logger.
func SetLogger(logger *klog.Logger) {
	log = logger
}
