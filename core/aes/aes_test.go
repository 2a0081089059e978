package aes

import (
	"testing"

	"github.com/kochabx/ciphertrace/core/field"
	"github.com/kochabx/ciphertrace/errors"
)

const (
	// FIPS-197 appendix B vectors
	katPlaintext  = "3243f6a8885a308d313198a2e0370734"
	katKey        = "2b7e151628aed2a6abf7158809cf4f3c"
	katCiphertext = "3925841d02dc09fbdc118597196a0b32"
)

func TestSubBytes(t *testing.T) {
	var state field.Matrix
	state[0][0] = 0x53
	state[3][3] = 0x00

	out := SubBytes(state)
	if out[0][0] != 0xed {
		t.Errorf("sbox(0x53) = %#02x, want 0xed", out[0][0])
	}
	if out[3][3] != 0x63 {
		t.Errorf("sbox(0x00) = %#02x, want 0x63", out[3][3])
	}
	if state[0][0] != 0x53 {
		t.Error("input state mutated")
	}
}

func TestShiftRows(t *testing.T) {
	var state field.Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			state[r][c] = byte(4*r + c)
		}
	}

	out := ShiftRows(state)

	want := field.Matrix{
		{0, 1, 2, 3},
		{5, 6, 7, 4},
		{10, 11, 8, 9},
		{15, 12, 13, 14},
	}
	if out != want {
		t.Errorf("ShiftRows() = %v, want %v", out, want)
	}
}

func TestMixColumns(t *testing.T) {
	// FIPS-197 worked example: column d4 bf 5d 30 -> 04 66 81 e5
	var state field.Matrix
	col := [4]byte{0xd4, 0xbf, 0x5d, 0x30}
	for r := 0; r < 4; r++ {
		state[r][0] = col[r]
	}

	out := MixColumns(state)
	want := [4]byte{0x04, 0x66, 0x81, 0xe5}
	for r := 0; r < 4; r++ {
		if out[r][0] != want[r] {
			t.Errorf("MixColumns column[%d] = %#02x, want %#02x", r, out[r][0], want[r])
		}
	}
}

func TestAddRoundKeyIsInvolution(t *testing.T) {
	var state, key field.Matrix
	for r := 0; r < 4; r++ {
		for c := 0; c < 4; c++ {
			state[r][c] = byte(r*31 + c*7)
			key[r][c] = byte(r*13 + c*3 + 1)
		}
	}

	if AddRoundKey(AddRoundKey(state, key), key) != state {
		t.Error("AddRoundKey applied twice must restore the state")
	}
}

func TestKeyExpansion(t *testing.T) {
	key, err := field.HexToBytes(katKey)
	if err != nil {
		t.Fatal(err)
	}

	keys, err := KeyExpansion(key)
	if err != nil {
		t.Fatal(err)
	}

	if len(keys) != Rounds+1 {
		t.Fatalf("expected %d round keys, got %d", Rounds+1, len(keys))
	}

	// Round key 0 is the cipher key itself
	k0, _ := field.BytesToMatrix(key)
	if keys[0] != k0 {
		t.Error("round key 0 must equal the cipher key")
	}

	// FIPS-197 appendix A.1: words 4..7 are a0fafe17 88542cb1 23a33939 2a6c7605
	wantKey1, _ := field.BytesToMatrix([]byte{
		0xa0, 0xfa, 0xfe, 0x17,
		0x88, 0x54, 0x2c, 0xb1,
		0x23, 0xa3, 0x39, 0x39,
		0x2a, 0x6c, 0x76, 0x05,
	})
	if keys[1] != wantKey1 {
		t.Errorf("round key 1 = %v, want %v", keys[1], wantKey1)
	}
}

func TestKeyExpansionBadLength(t *testing.T) {
	_, err := KeyExpansion(make([]byte, 15))
	if errors.Code(err) != errors.CodeLengthMismatch {
		t.Errorf("expected LengthMismatch, got %v", err)
	}
}

func TestBuildStepsKnownAnswer(t *testing.T) {
	seq, roundKeys, err := BuildSteps(katPlaintext, katKey)
	if err != nil {
		t.Fatal(err)
	}

	if seq.Len() != StepCount {
		t.Fatalf("Len() = %d, want %d", seq.Len(), StepCount)
	}
	if len(roundKeys) != Rounds+1 {
		t.Fatalf("expected %d round keys, got %d", Rounds+1, len(roundKeys))
	}

	last := seq.At(seq.Len() - 1).(Step)
	if last.Op != OpComplete {
		t.Fatalf("last step op = %s, want %s", last.Op, OpComplete)
	}
	if last.Ciphertext != katCiphertext {
		t.Errorf("ciphertext = %s, want %s", last.Ciphertext, katCiphertext)
	}
}

func TestBuildStepsShape(t *testing.T) {
	seq, _, err := BuildSteps(katPlaintext, katKey)
	if err != nil {
		t.Fatal(err)
	}

	first := seq.At(0).(Step)
	if first.Op != OpInitial || first.PrevState != nil || len(first.ChangedIndices) != 0 {
		t.Errorf("initial step malformed: %+v", first)
	}

	second := seq.At(1).(Step)
	if second.Op != OpAddRoundKey || second.Round != 0 || second.RoundKey == nil {
		t.Errorf("second step should be the round-0 AddRoundKey: %+v", second)
	}
	if *second.PrevState != first.State {
		t.Error("prevState of step 1 must equal state of step 0")
	}

	// Rounds 1..9 are SubBytes, ShiftRows, MixColumns, AddRoundKey
	wantOps := []Operation{OpSubBytes, OpShiftRows, OpMixColumns, OpAddRoundKey}
	for round := 1; round <= 9; round++ {
		base := 2 + (round-1)*4
		for j, wantOp := range wantOps {
			step := seq.At(base + j).(Step)
			if step.Round != round || step.Op != wantOp {
				t.Fatalf("step %d: got round %d op %s, want round %d op %s",
					base+j, step.Round, step.Op, round, wantOp)
			}
		}
	}

	// Final round: SubBytes, ShiftRows, then the completing AddRoundKey
	if op := seq.At(38).(Step).Op; op != OpSubBytes {
		t.Errorf("step 38 op = %s, want %s", op, OpSubBytes)
	}
	if op := seq.At(39).(Step).Op; op != OpShiftRows {
		t.Errorf("step 39 op = %s, want %s", op, OpShiftRows)
	}
	last := seq.At(40).(Step)
	if last.Op != OpComplete || last.RoundKey == nil {
		t.Errorf("step 40 malformed: %+v", last)
	}
}

func TestBuildStepsChangedIndices(t *testing.T) {
	seq, _, err := BuildSteps(katPlaintext, katKey)
	if err != nil {
		t.Fatal(err)
	}

	for i := 1; i < seq.Len(); i++ {
		step := seq.At(i).(Step)
		if step.PrevState == nil {
			t.Fatalf("step %d has no prevState", i)
		}
		want := field.DiffIndices(*step.PrevState, step.State)
		if len(want) != len(step.ChangedIndices) {
			t.Fatalf("step %d: changedIndices has %d entries, want %d",
				i, len(step.ChangedIndices), len(want))
		}
		for j := range want {
			if want[j] != step.ChangedIndices[j] {
				t.Fatalf("step %d: changedIndices[%d] = %d, want %d",
					i, j, step.ChangedIndices[j], want[j])
			}
		}
	}
}

func TestBuildStepsFreshCopies(t *testing.T) {
	a, _, err := BuildSteps(katPlaintext, katKey)
	if err != nil {
		t.Fatal(err)
	}
	b, _, err := BuildSteps(katPlaintext, katKey)
	if err != nil {
		t.Fatal(err)
	}

	// Determinism: identical inputs produce identical sequences
	for i := 0; i < a.Len(); i++ {
		sa, sb := a.At(i).(Step), b.At(i).(Step)
		if sa.State != sb.State || sa.StepID != sb.StepID {
			t.Fatalf("step %d differs between identical runs", i)
		}
	}

	// Earlier steps must not share storage with later ones: the round-1
	// SubBytes output differs from its own input even though the builder
	// reused the state variable.
	s2 := a.At(2).(Step)
	if *s2.PrevState == s2.State {
		t.Error("SubBytes recorded no change, copies are aliased")
	}
}

func TestBuildStepsFormatErrors(t *testing.T) {
	tests := []struct {
		name            string
		plaintext, key  string
	}{
		{"short plaintext", katPlaintext[:30], katKey},
		{"long key", katPlaintext, katKey + "ab"},
		{"non-hex plaintext", "zz43f6a8885a308d313198a2e0370734", katKey},
		{"empty", "", ""},
	}

	for _, tt := range tests {
		t.Run(tt.name, func(t *testing.T) {
			_, _, err := BuildSteps(tt.plaintext, tt.key)
			if errors.Code(err) != errors.CodeFormat {
				t.Errorf("expected Format error, got %v", err)
			}
		})
	}
}
