// Package session keeps built traces addressable: each session owns a
// step sequence, its stepper and its animator, so HTTP clients can
// share a trace by id and websocket clients can drive its playback.
package session

import (
	"sync"
	"time"

	"github.com/google/uuid"

	"github.com/kochabx/ciphertrace/core/playback"
	"github.com/kochabx/ciphertrace/core/trace"
)

// StepEvent is delivered to observers on every cursor move.
type StepEvent struct {
	Current  trace.Step
	Previous trace.Step
	Index    int
	Total    int
}

// Observer receives playback events. Callbacks run on the manager's
// worker pool, never on the caller's goroutine.
type Observer struct {
	OnStep  func(StepEvent)
	OnState func(playing bool)
}

// Session is one addressable trace with playback state.
type Session struct {
	ID        string
	Algorithm trace.Algorithm

	stepper  *playback.Stepper
	animator *playback.Animator

	mu         sync.Mutex
	lastActive time.Time
	observers  map[int64]Observer
	nextObsID  int64
	dispatch   func(func())
}

func newSession(algo trace.Algorithm, seq *trace.Sequence, interval time.Duration, dispatch func(func())) *Session {
	stepper := playback.NewStepper(seq)
	s := &Session{
		ID:         uuid.NewString(),
		Algorithm:  algo,
		stepper:    stepper,
		animator:   playback.NewAnimator(stepper, playback.WithInterval(interval)),
		lastActive: time.Now(),
		observers:  make(map[int64]Observer),
		dispatch:   dispatch,
	}

	stepper.Subscribe(func(current, previous trace.Step, index, total int) {
		s.broadcastStep(StepEvent{Current: current, Previous: previous, Index: index, Total: total})
	})
	s.animator.Subscribe(s.broadcastState)

	return s
}

// Attach registers an observer and returns its handle for Detach.
func (s *Session) Attach(o Observer) int64 {
	s.mu.Lock()
	defer s.mu.Unlock()
	s.nextObsID++
	id := s.nextObsID
	s.observers[id] = o
	return id
}

// Detach removes a previously attached observer.
func (s *Session) Detach(id int64) {
	s.mu.Lock()
	defer s.mu.Unlock()
	delete(s.observers, id)
}

func (s *Session) broadcastStep(ev StepEvent) {
	for _, o := range s.snapshot() {
		if o.OnStep != nil {
			fn := o.OnStep
			s.dispatch(func() { fn(ev) })
		}
	}
}

func (s *Session) broadcastState(playing bool) {
	for _, o := range s.snapshot() {
		if o.OnState != nil {
			fn := o.OnState
			s.dispatch(func() { fn(playing) })
		}
	}
}

func (s *Session) snapshot() []Observer {
	s.mu.Lock()
	defer s.mu.Unlock()
	out := make([]Observer, 0, len(s.observers))
	for _, o := range s.observers {
		out = append(out, o)
	}
	return out
}

func (s *Session) touch() {
	s.mu.Lock()
	s.lastActive = time.Now()
	s.mu.Unlock()
}

// LastActive reports the time of the last control call.
func (s *Session) LastActive() time.Time {
	s.mu.Lock()
	defer s.mu.Unlock()
	return s.lastActive
}

// Sequence returns the session's immutable step sequence.
func (s *Session) Sequence() *trace.Sequence {
	return s.stepper.Sequence()
}

// CurrentIndex returns the playback cursor position.
func (s *Session) CurrentIndex() int { return s.stepper.CurrentIndex() }

// TotalSteps returns the sequence length.
func (s *Session) TotalSteps() int { return s.stepper.TotalSteps() }

// IsPlaying reports whether the animator is running.
func (s *Session) IsPlaying() bool { return s.animator.IsPlaying() }

func (s *Session) Play() { s.touch(); s.animator.Play() }

func (s *Session) Pause() { s.touch(); s.animator.Pause() }

func (s *Session) Toggle() { s.touch(); s.animator.Toggle() }

func (s *Session) Next() { s.touch(); s.stepper.Next() }

func (s *Session) Prev() { s.touch(); s.stepper.Prev() }

func (s *Session) GoTo(i int) { s.touch(); s.stepper.GoTo(i) }

// StartOver pauses playback and re-announces the first step.
func (s *Session) StartOver() {
	s.touch()
	s.animator.Pause()
	s.stepper.Start()
}

// SetSpeed changes the animator tick period.
func (s *Session) SetSpeed(d time.Duration) {
	s.touch()
	s.animator.SetSpeed(d)
}

// Interval returns the animator tick period.
func (s *Session) Interval() time.Duration { return s.animator.Interval() }

// close stops playback and drops all observers.
func (s *Session) close() {
	s.animator.Pause()
	s.mu.Lock()
	s.observers = make(map[int64]Observer)
	s.mu.Unlock()
}
