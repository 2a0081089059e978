package transport

import "testing"

func TestValidateAddress(t *testing.T) {
	tests := []struct {
		addr string
		want bool
	}{
		{":8080", true},
		{"localhost:8080", true},
		{"127.0.0.1:80", true},
		{"[::1]:443", true},
		{"example.com:65535", true},
		{"", false},
		{"no-port", false},
		{"host:", false},
		{"host:0", false},
		{"host:65536", false},
		{"host:abc", false},
		{"-bad.host:80", false},
		{"under_score:80", false},
	}

	for _, tt := range tests {
		if got := ValidateAddress(tt.addr); got != tt.want {
			t.Errorf("ValidateAddress(%q) = %v, want %v", tt.addr, got, tt.want)
		}
	}
}
