// Package schedule runs timer callbacks on the goroutine that drives a chart,
// in deadline order, whenever its owner advances the clock.
package schedule

import (
	"container/heap"
	"time"
)

// Timer is a pending callback.
type Timer interface {
	// Stop cancels the callback. It reports whether the call stopped the
	// timer, false if it had already fired or been stopped.
	Stop() bool
}

// Scheduler arranges for f to run once d has elapsed.
type Scheduler interface {
	AfterFunc(d time.Duration, f func()) Timer
}

// Loop is a Scheduler whose clock only moves in Advance. Callbacks run
// synchronously inside Advance, so they never overlap each other or the
// caller. A Loop is not safe for concurrent use.
type Loop struct {
	now   time.Time
	seq   uint64
	queue timerQueue
}

var _ Scheduler = (*Loop)(nil)

// NewLoop returns a loop whose clock reads now.
func NewLoop(now time.Time) *Loop {
	return &Loop{now: now}
}

// Now returns the loop clock.
func (l *Loop) Now() time.Time {
	return l.now
}

// AfterFunc schedules f to run at Now()+d. Negative durations are treated as
// zero.
func (l *Loop) AfterFunc(d time.Duration, f func()) Timer {
	l.seq++
	t := &timer{
		loop: l,
		at:   l.now.Add(max(d, 0)),
		seq:  l.seq,
		f:    f,
	}
	heap.Push(&l.queue, t)
	return t
}

// Advance moves the clock to now, firing every timer due by then in deadline
// order. While a callback runs, Now reports its deadline. Timers scheduled by
// callbacks fire in the same call if they fall due by now. Advance returns
// the number of callbacks run.
func (l *Loop) Advance(now time.Time) int {
	fired := 0
	for len(l.queue) > 0 && !l.queue[0].at.After(now) {
		t := heap.Pop(&l.queue).(*timer)
		if t.at.After(l.now) {
			l.now = t.at
		}
		fired++
		t.f()
	}
	if now.After(l.now) {
		l.now = now
	}
	return fired
}

// Next returns the deadline of the earliest pending timer.
func (l *Loop) Next() (time.Time, bool) {
	if len(l.queue) == 0 {
		return time.Time{}, false
	}
	return l.queue[0].at, true
}

// Len returns the number of pending timers.
func (l *Loop) Len() int {
	return len(l.queue)
}

// Stop cancels every pending timer.
func (l *Loop) Stop() {
	for _, t := range l.queue {
		t.index = -1
	}
	l.queue = l.queue[:0]
}

type timer struct {
	loop  *Loop
	at    time.Time
	seq   uint64
	f     func()
	index int
}

func (t *timer) Stop() bool {
	if t.index < 0 {
		return false
	}
	heap.Remove(&t.loop.queue, t.index)
	return true
}

// timerQueue orders timers by deadline, then by scheduling order.
type timerQueue []*timer

func (q timerQueue) Len() int { return len(q) }

func (q timerQueue) Less(i, j int) bool {
	if q[i].at.Equal(q[j].at) {
		return q[i].seq < q[j].seq
	}
	return q[i].at.Before(q[j].at)
}

func (q timerQueue) Swap(i, j int) {
	q[i], q[j] = q[j], q[i]
	q[i].index = i
	q[j].index = j
}

func (q *timerQueue) Push(x any) {
	t := x.(*timer)
	t.index = len(*q)
	*q = append(*q, t)
}

func (q *timerQueue) Pop() any {
	old := *q
	n := len(old)
	t := old[n-1]
	old[n-1] = nil
	t.index = -1
	*q = old[:n-1]
	return t
}
