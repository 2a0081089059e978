// Package playback implements navigation over a step sequence: a Stepper
// holding a bounded cursor and a timer-driven Animator wrapping it.
//
// Navigation never fails: out-of-range requests are clamped or ignored,
// which is part of the contract. Cursor mutation and observer dispatch
// form one critical section, so exactly one notification fires per
// effective cursor change even when an animator tick races an external
// navigation call.
package playback

import (
	"sync"

	"github.com/kochabx/ciphertrace/core/trace"
)

// NotifyFunc receives the step at the new cursor position, the step at
// the previous position (nil when there is none), the new index and the
// total sequence length.
type NotifyFunc func(current, previous trace.Step, index, total int)

// Stepper navigates an immutable step sequence with a bounded cursor.
// Only the Stepper mutates the cursor.
type Stepper struct {
	mu     sync.Mutex
	seq    *trace.Sequence
	cursor int
	notify NotifyFunc
}

// NewStepper creates a stepper positioned at index 0 of seq.
func NewStepper(seq *trace.Sequence) *Stepper {
	return &Stepper{seq: seq}
}

// Subscribe registers the single observer. A nil function unsubscribes.
func (s *Stepper) Subscribe(fn NotifyFunc) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.notify = fn
}

// Next advances the cursor by one. At the last index it is a no-op and
// fires no notification.
func (s *Stepper) Next() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTo(s.cursor + 1)
}

// Prev moves the cursor back by one. At index 0 it is a no-op.
func (s *Stepper) Prev() {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTo(s.cursor - 1)
}

// GoTo clamps i into [0, length-1] and moves there. A move to the
// current position fires no notification.
func (s *Stepper) GoTo(i int) {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.moveTo(i)
}

// Start re-announces index 0 without moving the cursor. The notification
// carries no previous step.
func (s *Stepper) Start() {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.cursor = 0
	if s.notify != nil && s.seq.Len() > 0 {
		s.notify(s.seq.At(0), nil, 0, s.seq.Len())
	}
}

// Reset replaces the underlying sequence, snaps the cursor to 0 and
// notifies with no previous step.
func (s *Stepper) Reset(seq *trace.Sequence) {
	s.mu.Lock()
	defer s.mu.Unlock()

	s.seq = seq
	s.cursor = 0
	if s.notify != nil && s.seq.Len() > 0 {
		s.notify(s.seq.At(0), nil, 0, s.seq.Len())
	}
}

// CurrentIndex returns the cursor position.
func (s *Stepper) CurrentIndex() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor
}

// Sequence returns the underlying immutable sequence.
func (s *Stepper) Sequence() *trace.Sequence {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq
}

// TotalSteps returns the sequence length.
func (s *Stepper) TotalSteps() int {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.Len()
}

// Current returns the step under the cursor, or nil for an empty sequence.
func (s *Stepper) Current() trace.Step {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.seq.At(s.cursor)
}

// IsAtStart reports whether the cursor is at index 0.
func (s *Stepper) IsAtStart() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.cursor == 0
}

// IsAtEnd reports whether the cursor is at the last index. An empty
// sequence is both at start and at end.
func (s *Stepper) IsAtEnd() bool {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.atEnd()
}

func (s *Stepper) atEnd() bool {
	return s.cursor >= s.seq.Len()-1
}

// moveTo clamps target, mutates the cursor and dispatches the single
// notification for the move. Callers hold the mutex.
func (s *Stepper) moveTo(target int) {
	length := s.seq.Len()
	if length == 0 {
		return
	}

	if target < 0 {
		target = 0
	}
	if target > length-1 {
		target = length - 1
	}

	if target == s.cursor {
		return
	}

	previous := s.seq.At(s.cursor)
	s.cursor = target
	if s.notify != nil {
		s.notify(s.seq.At(target), previous, target, length)
	}
}
