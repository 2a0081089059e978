package playback

import (
	"sync"
	"time"
)

// DefaultInterval is the tick period used when no option overrides it.
const DefaultInterval = time.Second

// StateFunc receives the playing/paused boolean on every state
// transition, including the automatic pause at the end of the sequence.
type StateFunc func(playing bool)

// Animator drives a Stepper on a recurring timer. Play and Pause are
// idempotent; pausing synchronously invalidates any scheduled tick so no
// stale-period tick ever reaches the stepper.
type Animator struct {
	mu       sync.Mutex
	stepper  *Stepper
	interval time.Duration
	playing  bool
	stop     chan struct{}
	onState  StateFunc
}

// AnimatorOption configures an Animator.
type AnimatorOption func(*Animator)

// WithInterval sets the initial tick period. Non-positive values are
// ignored.
func WithInterval(d time.Duration) AnimatorOption {
	return func(a *Animator) {
		if d > 0 {
			a.interval = d
		}
	}
}

// NewAnimator creates a paused animator around stepper.
func NewAnimator(stepper *Stepper, opts ...AnimatorOption) *Animator {
	a := &Animator{
		stepper:  stepper,
		interval: DefaultInterval,
	}

	for _, opt := range opts {
		opt(a)
	}

	return a
}

// Subscribe registers the single state observer. A nil function
// unsubscribes.
func (a *Animator) Subscribe(fn StateFunc) {
	a.mu.Lock()
	defer a.mu.Unlock()
	a.onState = fn
}

// IsPlaying reports whether the timer is running.
func (a *Animator) IsPlaying() bool {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.playing
}

// Play starts the timer. It is a no-op while already playing.
func (a *Animator) Play() {
	a.mu.Lock()
	if a.playing {
		a.mu.Unlock()
		return
	}

	a.playing = true
	a.startLocked()
	onState := a.onState
	a.mu.Unlock()

	if onState != nil {
		onState(true)
	}
}

// Pause cancels the timer. It is a no-op while already paused. After
// Pause returns, no tick started under the old timer can move the
// stepper.
func (a *Animator) Pause() {
	a.mu.Lock()
	if !a.playing {
		a.mu.Unlock()
		return
	}

	a.pauseLocked()
	onState := a.onState
	a.mu.Unlock()

	if onState != nil {
		onState(false)
	}
}

// Toggle plays when paused and pauses when playing.
func (a *Animator) Toggle() {
	if a.IsPlaying() {
		a.Pause()
	} else {
		a.Play()
	}
}

// SetSpeed changes the tick period, taking effect immediately: a running
// animator is restarted with the new period so no tick at the old period
// fires. The playing state does not change, so no state notification is
// emitted.
func (a *Animator) SetSpeed(d time.Duration) {
	if d <= 0 {
		return
	}

	a.mu.Lock()
	defer a.mu.Unlock()

	a.interval = d
	if a.playing {
		a.stopTimerLocked()
		a.startLocked()
	}
}

// Interval returns the current tick period.
func (a *Animator) Interval() time.Duration {
	a.mu.Lock()
	defer a.mu.Unlock()
	return a.interval
}

// startLocked launches the ticker goroutine for the current interval.
// Callers hold the mutex with a.playing already true.
func (a *Animator) startLocked() {
	stop := make(chan struct{})
	a.stop = stop

	ticker := time.NewTicker(a.interval)
	go func() {
		defer ticker.Stop()
		for {
			select {
			case <-stop:
				return
			case <-ticker.C:
				a.tick(stop)
			}
		}
	}()
}

// tick advances the stepper once and auto-pauses at the end. The stop
// channel identifies the timer generation: a tick whose generation was
// cancelled while it waited on the mutex is discarded.
func (a *Animator) tick(stop chan struct{}) {
	a.mu.Lock()

	if !a.playing || a.stop != stop {
		a.mu.Unlock()
		return
	}

	a.stepper.Next()
	if !a.stepper.IsAtEnd() {
		a.mu.Unlock()
		return
	}

	a.pauseLocked()
	onState := a.onState
	a.mu.Unlock()

	if onState != nil {
		onState(false)
	}
}

// pauseLocked stops the timer and flips the state. Callers hold the
// mutex.
func (a *Animator) pauseLocked() {
	a.playing = false
	a.stopTimerLocked()
}

func (a *Animator) stopTimerLocked() {
	if a.stop != nil {
		close(a.stop)
		a.stop = nil
	}
}
