// Package trace defines the step-record contract shared by the cipher
// engines: a tagged, annotated step and an immutable, randomly addressable
// sequence of them. Engines build sequences once per run; nothing mutates
// a step after the build completes.
package trace

// Algorithm discriminates which engine produced a step.
type Algorithm string

const (
	AlgorithmCaesar Algorithm = "caesar"
	AlgorithmAES    Algorithm = "aes"
	AlgorithmRSA    Algorithm = "rsa"
)

// Step is one annotated intermediate state of an algorithm run. Concrete
// step types carry the algorithm-specific payload as exported fields so
// the whole record serializes for external renderers.
type Step interface {
	// Algorithm returns the tag discriminating the step variant.
	Algorithm() Algorithm
	// ID returns a stable identifier, unique within one sequence.
	ID() string
	// Label returns a short human-readable title.
	Label() string
	// Description explains why the transformation happened.
	Description() string
}

// Meta carries the fields common to every step. Engines embed it in their
// concrete step types.
type Meta struct {
	Algo      Algorithm `json:"algorithm"`
	StepID    string    `json:"id"`
	Title     string    `json:"label"`
	Narrative string    `json:"description"`
}

func (m Meta) Algorithm() Algorithm { return m.Algo }
func (m Meta) ID() string           { return m.StepID }
func (m Meta) Label() string        { return m.Title }
func (m Meta) Description() string  { return m.Narrative }

// Sequence is an immutable ordered list of steps. The zero value is an
// empty sequence.
type Sequence struct {
	steps []Step
}

// NewSequence copies steps into a fresh immutable sequence.
func NewSequence(steps []Step) *Sequence {
	owned := make([]Step, len(steps))
	copy(owned, steps)
	return &Sequence{steps: owned}
}

// Len returns the number of steps.
func (s *Sequence) Len() int {
	if s == nil {
		return 0
	}
	return len(s.steps)
}

// At returns the step at index i, or nil when i is out of bounds.
func (s *Sequence) At(i int) Step {
	if s == nil || i < 0 || i >= len(s.steps) {
		return nil
	}
	return s.steps[i]
}

// Steps returns a copy of the underlying slice for serialization.
func (s *Sequence) Steps() []Step {
	if s == nil {
		return nil
	}
	out := make([]Step, len(s.steps))
	copy(out, s.steps)
	return out
}

// Builder accumulates steps during trace construction. Sequences are
// append-only while building and frozen by Sequence().
type Builder struct {
	steps []Step
}

// Append adds a step to the end of the sequence under construction.
func (b *Builder) Append(step Step) {
	b.steps = append(b.steps, step)
}

// Len returns the number of steps appended so far.
func (b *Builder) Len() int {
	return len(b.steps)
}

// Sequence freezes the accumulated steps into an immutable sequence.
func (b *Builder) Sequence() *Sequence {
	return NewSequence(b.steps)
}
