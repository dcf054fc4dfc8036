package schedule

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"
)

var epoch = time.Date(2019, time.March, 10, 12, 0, 0, 0, time.UTC)

func TestLoopFiresInDeadlineOrder(t *testing.T) {
	l := NewLoop(epoch)
	var got []string
	l.AfterFunc(30*time.Millisecond, func() { got = append(got, "c") })
	l.AfterFunc(10*time.Millisecond, func() { got = append(got, "a") })
	l.AfterFunc(10*time.Millisecond, func() { got = append(got, "b") })

	next, ok := l.Next()
	require.True(t, ok)
	assert.Equal(t, epoch.Add(10*time.Millisecond), next)

	assert.Equal(t, 0, l.Advance(epoch.Add(5*time.Millisecond)))
	assert.Equal(t, 2, l.Advance(epoch.Add(20*time.Millisecond)))
	assert.Equal(t, []string{"a", "b"}, got)
	assert.Equal(t, epoch.Add(20*time.Millisecond), l.Now())

	assert.Equal(t, 1, l.Advance(epoch.Add(time.Second)))
	assert.Equal(t, []string{"a", "b", "c"}, got)
	_, ok = l.Next()
	assert.False(t, ok)
}

func TestLoopNowDuringCallback(t *testing.T) {
	l := NewLoop(epoch)
	var seen []time.Time
	var tick func()
	tick = func() {
		seen = append(seen, l.Now())
		if len(seen) < 3 {
			l.AfterFunc(16*time.Millisecond, tick)
		}
	}
	l.AfterFunc(16*time.Millisecond, tick)
	assert.Equal(t, 3, l.Advance(epoch.Add(100*time.Millisecond)))
	assert.Equal(t, []time.Time{
		epoch.Add(16 * time.Millisecond),
		epoch.Add(32 * time.Millisecond),
		epoch.Add(48 * time.Millisecond),
	}, seen)
}

func TestTimerStop(t *testing.T) {
	l := NewLoop(epoch)
	fired := false
	keep := false
	timer := l.AfterFunc(time.Millisecond, func() { fired = true })
	l.AfterFunc(2*time.Millisecond, func() { keep = true })
	assert.True(t, timer.Stop())
	assert.False(t, timer.Stop())
	assert.Equal(t, 1, l.Len())

	l.Advance(epoch.Add(time.Second))
	assert.False(t, fired)
	assert.True(t, keep)
}

func TestLoopStop(t *testing.T) {
	l := NewLoop(epoch)
	fired := 0
	timers := []Timer{
		l.AfterFunc(time.Millisecond, func() { fired++ }),
		l.AfterFunc(time.Hour, func() { fired++ }),
	}
	l.Stop()
	assert.Equal(t, 0, l.Len())
	for _, timer := range timers {
		assert.False(t, timer.Stop())
	}
	assert.Equal(t, 0, l.Advance(epoch.Add(2*time.Hour)))
	assert.Equal(t, 0, fired)
}
