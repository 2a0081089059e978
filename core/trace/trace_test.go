package trace

import "testing"

type fakeStep struct {
	Meta
}

func TestSequenceImmutability(t *testing.T) {
	steps := []Step{
		fakeStep{Meta{Algo: AlgorithmCaesar, StepID: "s0"}},
		fakeStep{Meta{Algo: AlgorithmCaesar, StepID: "s1"}},
	}

	seq := NewSequence(steps)

	// Mutating the source slice must not reach the sequence
	steps[0] = fakeStep{Meta{StepID: "mutated"}}
	if seq.At(0).ID() != "s0" {
		t.Error("sequence aliases its input slice")
	}

	// Mutating the exported copy must not reach the sequence either
	out := seq.Steps()
	out[1] = fakeStep{Meta{StepID: "mutated"}}
	if seq.At(1).ID() != "s1" {
		t.Error("Steps() exposes internal storage")
	}
}

func TestSequenceBounds(t *testing.T) {
	seq := NewSequence([]Step{fakeStep{Meta{StepID: "only"}}})

	if seq.Len() != 1 {
		t.Fatalf("Len() = %d, want 1", seq.Len())
	}
	if seq.At(-1) != nil || seq.At(1) != nil {
		t.Error("out-of-range access must return nil")
	}
	if seq.At(0).ID() != "only" {
		t.Error("in-range access broken")
	}
}

func TestNilSequence(t *testing.T) {
	var seq *Sequence
	if seq.Len() != 0 || seq.At(0) != nil || seq.Steps() != nil {
		t.Error("nil sequence should behave as empty")
	}
}

func TestBuilder(t *testing.T) {
	var b Builder
	b.Append(fakeStep{Meta{StepID: "a"}})
	b.Append(fakeStep{Meta{StepID: "b"}})

	if b.Len() != 2 {
		t.Fatalf("Builder.Len() = %d, want 2", b.Len())
	}

	seq := b.Sequence()
	if seq.Len() != 2 || seq.At(0).ID() != "a" || seq.At(1).ID() != "b" {
		t.Error("builder did not preserve order")
	}

	// Appending after freeze must not grow the frozen sequence
	b.Append(fakeStep{Meta{StepID: "c"}})
	if seq.Len() != 2 {
		t.Error("frozen sequence grew after further appends")
	}
}
