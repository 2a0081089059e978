package aes

import (
	"fmt"

	"github.com/kochabx/ciphertrace/core/field"
	"github.com/kochabx/ciphertrace/core/trace"
	"github.com/kochabx/ciphertrace/errors"
)

// Operation tags the transform a step records.
type Operation string

const (
	OpInitial     Operation = "initial"
	OpSubBytes    Operation = "subBytes"
	OpShiftRows   Operation = "shiftRows"
	OpMixColumns  Operation = "mixColumns"
	OpAddRoundKey Operation = "addRoundKey"
	OpComplete    Operation = "complete"
)

// StepCount is the exact number of steps a full AES-128 trace contains:
// the initial state, the round-0 AddRoundKey, nine full rounds of four
// transforms, SubBytes and ShiftRows of the final round, and the
// completion step that applies the last AddRoundKey and carries the
// ciphertext. MixColumns is omitted from the final round per FIPS-197.
const StepCount = 1 + 1 + 9*4 + 2 + 1

const hexBlockLen = 2 * field.BlockSize

// Step is one annotated state of an AES-128 run. State and PrevState are
// value matrices, so each step owns fresh copies that later transforms
// can never touch.
type Step struct {
	trace.Meta
	Round          int           `json:"round"`
	Op             Operation     `json:"operation"`
	State          field.Matrix  `json:"state"`
	PrevState      *field.Matrix `json:"prevState,omitempty"`
	RoundKey       *field.Matrix `json:"roundKey,omitempty"`
	ChangedIndices []int         `json:"changedIndices"`
	Ciphertext     string        `json:"ciphertext,omitempty"`
}

// BuildSteps computes the full AES-128 trace for a 32-hex-character
// plaintext and key. It returns the step sequence together with the 11
// round-key matrices, which are derived once and never re-computed per
// step. Inputs that are not exactly 32 hex characters fail with a Format
// error.
func BuildSteps(plaintextHex, keyHex string) (*trace.Sequence, []field.Matrix, error) {
	plaintext, err := decodeBlock("plaintext", plaintextHex)
	if err != nil {
		return nil, nil, err
	}

	key, err := decodeBlock("key", keyHex)
	if err != nil {
		return nil, nil, err
	}

	roundKeys, err := KeyExpansion(key)
	if err != nil {
		return nil, nil, err
	}

	state, err := field.BytesToMatrix(plaintext)
	if err != nil {
		return nil, nil, err
	}

	var b trace.Builder

	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmAES,
			StepID:    "aes-initial",
			Title:     "Initial state",
			Narrative: "The 16 plaintext bytes fill the state matrix column by column.",
		},
		Round: 0,
		Op:    OpInitial,
		State: state,
	})

	state = appendTransform(&b, 0, OpAddRoundKey, state, &roundKeys[0])

	for round := 1; round < Rounds; round++ {
		state = appendTransform(&b, round, OpSubBytes, state, nil)
		state = appendTransform(&b, round, OpShiftRows, state, nil)
		state = appendTransform(&b, round, OpMixColumns, state, nil)
		state = appendTransform(&b, round, OpAddRoundKey, state, &roundKeys[round])
	}

	// The final round has no MixColumns, and its AddRoundKey doubles as
	// the completion step.
	state = appendTransform(&b, Rounds, OpSubBytes, state, nil)
	state = appendTransform(&b, Rounds, OpShiftRows, state, nil)

	prev := state
	state = AddRoundKey(state, roundKeys[Rounds])
	ciphertext := field.BytesToHex(field.MatrixToBytes(state))
	lastKey := roundKeys[Rounds]
	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmAES,
			StepID:    "aes-complete",
			Title:     "Complete",
			Narrative: fmt.Sprintf("The final AddRoundKey finishes round %d. The ciphertext is %s.", Rounds, ciphertext),
		},
		Round:          Rounds,
		Op:             OpComplete,
		State:          state,
		PrevState:      &prev,
		RoundKey:       &lastKey,
		ChangedIndices: field.DiffIndices(prev, state),
		Ciphertext:     ciphertext,
	})

	return b.Sequence(), roundKeys, nil
}

// appendTransform applies one transform, records the step with fresh
// before/after copies and the exact cell diff, and returns the new state.
func appendTransform(b *trace.Builder, round int, op Operation, state field.Matrix, roundKey *field.Matrix) field.Matrix {
	var next field.Matrix
	switch op {
	case OpSubBytes:
		next = SubBytes(state)
	case OpShiftRows:
		next = ShiftRows(state)
	case OpMixColumns:
		next = MixColumns(state)
	case OpAddRoundKey:
		next = AddRoundKey(state, *roundKey)
	}

	prev := state

	var keyCopy *field.Matrix
	if roundKey != nil {
		k := *roundKey
		keyCopy = &k
	}

	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmAES,
			StepID:    fmt.Sprintf("aes-round%d-%s", round, op),
			Title:     fmt.Sprintf("Round %d: %s", round, label(op)),
			Narrative: describe(op, round),
		},
		Round:          round,
		Op:             op,
		State:          next,
		PrevState:      &prev,
		RoundKey:       keyCopy,
		ChangedIndices: field.DiffIndices(prev, next),
	})

	return next
}

func label(op Operation) string {
	switch op {
	case OpSubBytes:
		return "SubBytes"
	case OpShiftRows:
		return "ShiftRows"
	case OpMixColumns:
		return "MixColumns"
	case OpAddRoundKey:
		return "AddRoundKey"
	default:
		return string(op)
	}
}

func describe(op Operation, round int) string {
	switch op {
	case OpSubBytes:
		return "Every byte is replaced through the S-box lookup table."
	case OpShiftRows:
		return "Row r of the state rotates left by r positions."
	case OpMixColumns:
		return "Each column is multiplied by the fixed mix matrix in GF(2^8)."
	case OpAddRoundKey:
		return fmt.Sprintf("The state is XORed with round key %d.", round)
	default:
		return ""
	}
}

// decodeBlock decodes a hex field that must be exactly one AES block.
func decodeBlock(name, s string) ([]byte, error) {
	if len(s) != hexBlockLen {
		return nil, errors.Format("%s must be exactly %d hex characters, got %d", name, hexBlockLen, len(s))
	}

	b, err := field.HexToBytes(s)
	if err != nil {
		return nil, err
	}

	return b, nil
}
