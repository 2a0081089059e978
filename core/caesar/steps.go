package caesar

import (
	"fmt"

	"github.com/kochabx/ciphertrace/core/trace"
	"github.com/kochabx/ciphertrace/errors"
)

// Phase tags the stage of the Caesar walkthrough a step belongs to.
type Phase string

const (
	PhaseOverview Phase = "overview"
	PhaseEncrypt  Phase = "encrypt"
	PhaseResult   Phase = "result"
	PhaseDecrypt  Phase = "decrypt"
)

// CharStatus reflects a character's position relative to the trace cursor.
type CharStatus string

const (
	StatusPending CharStatus = "pending"
	StatusActive  CharStatus = "active"
	StatusDone    CharStatus = "done"
)

// CharResult is the per-character record of one step: the original and
// shifted character, whether it participates in the shift, and its status.
type CharResult struct {
	Original string     `json:"original"`
	Shifted  string     `json:"shifted"`
	IsAlpha  bool       `json:"isAlpha"`
	Status   CharStatus `json:"status"`
}

// Step is one annotated state of a Caesar run.
type Step struct {
	trace.Meta
	Phase           Phase        `json:"phase"`
	Shift           int          `json:"shift"`
	CharResults     []CharResult `json:"charResults"`
	CiphertextSoFar string       `json:"ciphertextSoFar"`
	Recovered       string       `json:"recovered,omitempty"`
	Verified        bool         `json:"verified,omitempty"`
}

// NormalizeShift folds any integer shift into [0, 25].
func NormalizeShift(shift int) int {
	return ((shift % alphabetSize) + alphabetSize) % alphabetSize
}

// BuildSteps computes the full Caesar trace for text and shift: one
// overview step, one step per input character, a result step and a
// decrypt-verification step. The shift is normalized into [1, 25]; empty
// text or a shift that normalizes to zero fails with an InvalidInput error.
func BuildSteps(text string, shift int) (*trace.Sequence, error) {
	if text == "" {
		return nil, errors.InvalidInput("text must not be empty")
	}

	n := NormalizeShift(shift)
	if n == 0 {
		return nil, errors.InvalidInput("shift %d normalizes to 0, nothing to encrypt", shift)
	}

	chars := []rune(text)
	results := make([]CharResult, len(chars))
	for i, c := range chars {
		shifted, isAlpha := ShiftChar(c, n)
		results[i] = CharResult{
			Original: string(c),
			Shifted:  string(shifted),
			IsAlpha:  isAlpha,
			Status:   StatusPending,
		}
	}

	ciphertext := Encrypt(text, n)

	var b trace.Builder

	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmCaesar,
			StepID:    "caesar-overview",
			Title:     "Overview",
			Narrative: fmt.Sprintf("Each letter will be shifted %d positions forward in the alphabet; everything else passes through unchanged.", n),
		},
		Phase:       PhaseOverview,
		Shift:       n,
		CharResults: cloneResults(results, -1),
	})

	encrypted := make([]rune, 0, len(chars))
	for i, c := range chars {
		shifted, isAlpha := ShiftChar(c, n)
		encrypted = append(encrypted, shifted)

		narrative := fmt.Sprintf("%q is not a letter and passes through unchanged.", string(c))
		if isAlpha {
			narrative = fmt.Sprintf("%q shifts %d positions to %q.", string(c), n, string(shifted))
		}

		b.Append(Step{
			Meta: trace.Meta{
				Algo:      trace.AlgorithmCaesar,
				StepID:    fmt.Sprintf("caesar-char-%d", i),
				Title:     fmt.Sprintf("Character %d of %d", i+1, len(chars)),
				Narrative: narrative,
			},
			Phase:           PhaseEncrypt,
			Shift:           n,
			CharResults:     cloneResults(results, i),
			CiphertextSoFar: string(encrypted),
		})
	}

	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmCaesar,
			StepID:    "caesar-result",
			Title:     "Ciphertext",
			Narrative: fmt.Sprintf("All characters processed. The ciphertext is %q.", ciphertext),
		},
		Phase:           PhaseResult,
		Shift:           n,
		CharResults:     cloneResults(results, len(chars)),
		CiphertextSoFar: ciphertext,
	})

	recovered := Decrypt(ciphertext, n)
	b.Append(Step{
		Meta: trace.Meta{
			Algo:      trace.AlgorithmCaesar,
			StepID:    "caesar-verify",
			Title:     "Decrypt check",
			Narrative: fmt.Sprintf("Shifting the ciphertext back by %d recovers %q.", n, recovered),
		},
		Phase:           PhaseDecrypt,
		Shift:           n,
		CharResults:     cloneResults(results, len(chars)),
		CiphertextSoFar: ciphertext,
		Recovered:       recovered,
		Verified:        recovered == text,
	})

	return b.Sequence(), nil
}

// cloneResults copies the per-character records, marking everything before
// active as done, active itself as active, and the rest as pending. An
// active of -1 leaves every character pending; len(results) marks all done.
func cloneResults(results []CharResult, active int) []CharResult {
	out := make([]CharResult, len(results))
	copy(out, results)
	for i := range out {
		switch {
		case active >= 0 && i < active:
			out[i].Status = StatusDone
		case i == active:
			out[i].Status = StatusActive
		default:
			out[i].Status = StatusPending
		}
	}

	return out
}
