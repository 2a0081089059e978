package field

import (
	"bytes"
	"testing"

	"github.com/kochabx/ciphertrace/errors"
)

func TestHexToBytes(t *testing.T) {
	tests := []struct {
		name    string
		input   string
		want    []byte
		wantErr bool
	}{
		{name: "lowercase", input: "2b7e15", want: []byte{0x2b, 0x7e, 0x15}},
		{name: "uppercase", input: "2B7E15", want: []byte{0x2b, 0x7e, 0x15}},
		{name: "empty", input: "", want: []byte{}},
		{name: "odd length", input: "2b7", wantErr: true},
		{name: "non-hex", input: "2g", wantErr: true},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			got, err := HexToBytes(tt.input)
			if (err != nil) != tt.wantErr {
				t.Fatalf("HexToBytes() error = %v, wantErr %v", err, tt.wantErr)
			}
			if tt.wantErr {
				if errors.Code(err) != errors.CodeFormat {
					t.Errorf("expected Format error, got %v", err)
				}
				return
			}
			if !bytes.Equal(got, tt.want) {
				t.Errorf("HexToBytes() = %x, want %x", got, tt.want)
			}
		})
	}
}

func TestHexRoundTrip(t *testing.T) {
	in := "3243f6a8885a308d313198a2e0370734"
	b, err := HexToBytes(in)
	if err != nil {
		t.Fatal(err)
	}
	if got := BytesToHex(b); got != in {
		t.Errorf("round trip = %s, want %s", got, in)
	}
}

func TestXORBytes(t *testing.T) {
	got, err := XORBytes([]byte{0x0f, 0xf0, 0xaa}, []byte{0xff, 0xff, 0xaa})
	if err != nil {
		t.Fatal(err)
	}
	if !bytes.Equal(got, []byte{0xf0, 0x0f, 0x00}) {
		t.Errorf("XORBytes() = %x", got)
	}

	_, err = XORBytes([]byte{1, 2}, []byte{1})
	if errors.Code(err) != errors.CodeLengthMismatch {
		t.Errorf("expected LengthMismatch, got %v", err)
	}
}

func TestMatrixRoundTrip(t *testing.T) {
	in := make([]byte, BlockSize)
	for i := range in {
		in[i] = byte(i*7 + 3)
	}

	m, err := BytesToMatrix(in)
	if err != nil {
		t.Fatal(err)
	}

	// Column-major fill: byte i at row i%4, column i/4
	if m[0][0] != in[0] || m[1][0] != in[1] || m[0][1] != in[4] || m[3][3] != in[15] {
		t.Errorf("unexpected layout: %v", m)
	}

	if got := MatrixToBytes(m); !bytes.Equal(got, in) {
		t.Errorf("MatrixToBytes(BytesToMatrix(b)) = %x, want %x", got, in)
	}
}

func TestBytesToMatrixLength(t *testing.T) {
	_, err := BytesToMatrix(make([]byte, 15))
	if errors.Code(err) != errors.CodeLengthMismatch {
		t.Errorf("expected LengthMismatch, got %v", err)
	}
}

func TestDiffIndices(t *testing.T) {
	a, _ := BytesToMatrix(make([]byte, BlockSize))

	b := a
	b[1][0] = 0xff // flat index 1
	b[0][2] = 0xff // flat index 8

	got := DiffIndices(a, b)
	want := []int{1, 8}
	if len(got) != len(want) || got[0] != want[0] || got[1] != want[1] {
		t.Errorf("DiffIndices() = %v, want %v", got, want)
	}

	if diff := DiffIndices(a, a); diff != nil {
		t.Errorf("identical matrices should produce no diff, got %v", diff)
	}
}

func TestGF256Mul(t *testing.T) {
	tests := []struct {
		a, b, want byte
	}{
		// FIPS-197 worked example: {57} x {83} = {c1}
		{0x57, 0x83, 0xc1},
		// {57} x {13} = {fe}
		{0x57, 0x13, 0xfe},
		{0x02, 0x87, 0x15},
		{0x03, 0x6e, 0xb2},
		{0x00, 0xff, 0x00},
		{0x01, 0xab, 0xab},
	}

	for _, tt := range tests {
		if got := GF256Mul(tt.a, tt.b); got != tt.want {
			t.Errorf("GF256Mul(%#02x, %#02x) = %#02x, want %#02x", tt.a, tt.b, got, tt.want)
		}
		// Multiplication is commutative
		if got := GF256Mul(tt.b, tt.a); got != tt.want {
			t.Errorf("GF256Mul(%#02x, %#02x) = %#02x, want %#02x", tt.b, tt.a, got, tt.want)
		}
	}
}
