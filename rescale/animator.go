// Package rescale tweens the displayed Y axis range of a chart and debounces
// the recomputation of its target.
package rescale

import (
	"time"

	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

// State of an Animator.
type State uint8

const (
	Idle State = iota
	Animating
)

func (s State) String() string {
	switch s {
	case Idle:
		return "idle"
	case Animating:
		return "animating"
	default:
		return "unknown"
	}
}

// Options tune an Animator.
type Options struct {
	// Interval between two frames.
	Interval time.Duration
	// Steps is the number of frames of a rescale.
	Steps int
	// LongSteps is used instead of Steps when the span changes by more than
	// LongRatio in either direction.
	LongSteps int
	LongRatio float64
}

// DefaultOptions returns 10 frames 16ms apart, or 20 for jumps of more than
// twice or less than half the span.
func DefaultOptions() Options {
	return Options{
		Interval:  16 * time.Millisecond,
		Steps:     10,
		LongSteps: 20,
		LongRatio: 2,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.Interval <= 0 {
		o.Interval = d.Interval
	}
	if o.Steps < 1 {
		o.Steps = d.Steps
	}
	if o.LongSteps < o.Steps {
		o.LongSteps = max(d.LongSteps, o.Steps)
	}
	if o.LongRatio <= 1 {
		o.LongRatio = d.LongRatio
	}
	return o
}

// Animator linearly interpolates a Range towards a target over a fixed
// number of timer steps and reports every intermediate range through its
// frame callback. A new target arriving mid-flight restarts the tween from
// the range currently on screen.
type Animator struct {
	sched   schedule.Scheduler
	opts    Options
	onFrame func(viewport.Range)

	state         State
	from, to, cur viewport.Range
	step, steps   int
	timer         schedule.Timer
}

// NewAnimator creates an idle animator. onFrame may be nil.
func NewAnimator(sched schedule.Scheduler, opts Options, onFrame func(viewport.Range)) *Animator {
	return &Animator{
		sched:   sched,
		opts:    opts.withDefaults(),
		onFrame: onFrame,
	}
}

// State returns the animation state.
func (a *Animator) State() State { return a.state }

// Current returns the range on screen.
func (a *Animator) Current() viewport.Range { return a.cur }

// Target returns the range being animated to, or the current range when
// idle.
func (a *Animator) Target() viewport.Range {
	if a.state == Idle {
		return a.cur
	}
	return a.to
}

// Set stops any animation and jumps to r without a frame callback.
func (a *Animator) Set(r viewport.Range) {
	a.Stop()
	a.cur = r
}

// Animate starts a tween from from to to. If an animation is already in
// flight, from is ignored and the tween restarts from the current range; a
// request for the target already in flight changes nothing.
func (a *Animator) Animate(from, to viewport.Range) {
	if a.state == Animating {
		if to == a.to {
			return
		}
		from = a.cur
		a.timer.Stop()
	}
	a.cur = from
	if from == to {
		a.finish()
		return
	}
	a.from, a.to = from, to
	a.step = 0
	a.steps = a.stepsFor(from, to)
	a.state = Animating
	a.timer = a.sched.AfterFunc(a.opts.Interval, a.tick)
}

// Stop cancels the animation, leaving the current range where it is.
func (a *Animator) Stop() {
	if a.timer != nil {
		a.timer.Stop()
		a.timer = nil
	}
	a.state = Idle
}

func (a *Animator) stepsFor(from, to viewport.Range) int {
	fs, ts := from.Span(), to.Span()
	if fs <= 0 || ts <= 0 {
		return a.opts.LongSteps
	}
	if r := ts / fs; r > a.opts.LongRatio || r < 1/a.opts.LongRatio {
		return a.opts.LongSteps
	}
	return a.opts.Steps
}

func (a *Animator) tick() {
	a.step++
	if a.step >= a.steps {
		a.cur = a.to
		a.finish()
		return
	}
	a.cur = a.from.Lerp(a.to, float64(a.step)/float64(a.steps))
	a.timer = a.sched.AfterFunc(a.opts.Interval, a.tick)
	a.emit()
}

// finish settles on the target exactly so no interpolation error remains.
func (a *Animator) finish() {
	a.state = Idle
	a.timer = nil
	a.emit()
}

func (a *Animator) emit() {
	if a.onFrame != nil {
		a.onFrame(a.cur)
	}
}
