// Package transport defines the contract servers share and helpers for
// validating listen addresses.
package transport

import (
	"context"
	"net"
	"strconv"
)

const (
	MinPort = 1
	MaxPort = 65535
)

// Server is a long-running transport endpoint.
type Server interface {
	// Run starts the server and blocks until it stops.
	Run() error
	// Shutdown drains connections and stops the server.
	Shutdown(context.Context) error
}

// ValidateAddress reports whether addr is a usable host:port listen
// address. The host part may be empty.
func ValidateAddress(addr string) bool {
	if addr == "" {
		return false
	}

	host, port, err := net.SplitHostPort(addr)
	if err != nil || port == "" {
		return false
	}

	if host != "" && !validHost(host) {
		return false
	}

	p, err := strconv.Atoi(port)
	if err != nil {
		return false
	}
	return p >= MinPort && p <= MaxPort
}

func validHost(host string) bool {
	if net.ParseIP(host) != nil {
		return true
	}

	if len(host) > 253 {
		return false
	}

	for i, r := range host {
		switch {
		case r >= 'a' && r <= 'z', r >= 'A' && r <= 'Z', r >= '0' && r <= '9', r == '.':
		case r == '-':
			if i == 0 || i == len(host)-1 {
				return false
			}
		default:
			return false
		}
	}
	return true
}
