package rescale

import (
	"time"

	"git.sr.ht/~whereswaldon/statchart/schedule"
)

// DefaultDebounce is the quiet period after the last trigger.
const DefaultDebounce = 150 * time.Millisecond

// Debouncer runs a function once its triggers have paused for a delay.
// Every trigger restarts the delay.
type Debouncer struct {
	sched schedule.Scheduler
	delay time.Duration
	f     func()
	timer schedule.Timer
}

// NewDebouncer returns a debouncer that calls f. A delay of zero or less
// uses DefaultDebounce.
func NewDebouncer(sched schedule.Scheduler, delay time.Duration, f func()) *Debouncer {
	if delay <= 0 {
		delay = DefaultDebounce
	}
	return &Debouncer{
		sched: sched,
		delay: delay,
		f:     f,
	}
}

// Trigger (re)starts the delay.
func (d *Debouncer) Trigger() {
	if d.timer != nil {
		d.timer.Stop()
	}
	d.timer = d.sched.AfterFunc(d.delay, d.fire)
}

// Pending reports whether a call is scheduled.
func (d *Debouncer) Pending() bool {
	return d.timer != nil
}

// Stop cancels a scheduled call. It reports whether one was pending.
func (d *Debouncer) Stop() bool {
	if d.timer == nil {
		return false
	}
	d.timer.Stop()
	d.timer = nil
	return true
}

func (d *Debouncer) fire() {
	d.timer = nil
	d.f()
}
