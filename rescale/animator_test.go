package rescale

import (
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

var epoch = time.Date(2019, time.March, 10, 12, 0, 0, 0, time.UTC)

type recorder struct {
	frames []viewport.Range
}

func (r *recorder) frame(rng viewport.Range) {
	r.frames = append(r.frames, rng)
}

// run advances the loop one interval at a time until nothing is pending.
func run(loop *schedule.Loop, from time.Time) time.Time {
	now := from
	for loop.Len() > 0 {
		now = now.Add(16 * time.Millisecond)
		loop.Advance(now)
	}
	return now
}

func TestAnimatorReachesTargetExactly(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)

	from, to := viewport.Range{Min: 0, Max: 100}, viewport.Range{Min: 10, Max: 170}
	a.Animate(from, to)
	assert.Equal(t, Animating, a.State())
	assert.Empty(t, rec.frames, "the first frame waits one interval")

	end := run(loop, epoch)
	assert.Equal(t, epoch.Add(160*time.Millisecond), end)
	require.Len(t, rec.frames, 10)
	for i := 1; i < len(rec.frames); i++ {
		assert.Greater(t, rec.frames[i].Max, rec.frames[i-1].Max)
	}
	assert.Equal(t, to, rec.frames[9])
	assert.Equal(t, to, a.Current())
	assert.Equal(t, Idle, a.State())
}

func TestAnimatorCoalescesFromCurrentRange(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)

	a.Animate(viewport.Range{Min: 0, Max: 100}, viewport.Range{Min: 0, Max: 200})
	now := epoch
	for i := 0; i < 5; i++ {
		now = now.Add(16 * time.Millisecond)
		loop.Advance(now)
	}
	require.Len(t, rec.frames, 5)
	assert.InDelta(t, 150, a.Current().Max, 1e-9)

	rec.frames = nil
	a.Animate(viewport.Range{Min: 0, Max: 100}, viewport.Range{Min: 0, Max: 50})
	assert.Equal(t, 1, loop.Len(), "the superseded tick is cancelled")
	run(loop, now)

	// 150 to 50 shrinks the span past the long-jump ratio.
	require.Len(t, rec.frames, 20)
	assert.InDelta(t, 145, rec.frames[0].Max, 1e-9)
	for _, f := range rec.frames {
		assert.LessOrEqual(t, f.Max, 150.0)
		assert.GreaterOrEqual(t, f.Max, 50.0)
	}
	assert.Equal(t, viewport.Range{Min: 0, Max: 50}, rec.frames[len(rec.frames)-1])
}

func TestAnimatorIgnoresRepeatedTarget(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)

	to := viewport.Range{Min: 0, Max: 120}
	a.Animate(viewport.Range{Min: 0, Max: 100}, to)
	loop.Advance(epoch.Add(16 * time.Millisecond))
	a.Animate(viewport.Range{Min: 0, Max: 100}, to)
	run(loop, epoch.Add(16*time.Millisecond))
	assert.Len(t, rec.frames, 10)
}

func TestAnimatorLongJump(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)
	a.Animate(viewport.Range{Min: 0, Max: 10}, viewport.Range{Min: 0, Max: 100})
	run(loop, epoch)
	assert.Len(t, rec.frames, 20)
}

func TestAnimatorEqualRangesSettleImmediately(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)
	r := viewport.Range{Min: 1, Max: 2}
	a.Animate(r, r)
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, []viewport.Range{r}, rec.frames)
	assert.Equal(t, 0, loop.Len())
}

func TestAnimatorStop(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)
	a.Animate(viewport.Range{Min: 0, Max: 100}, viewport.Range{Min: 0, Max: 150})
	loop.Advance(epoch.Add(32 * time.Millisecond))
	require.Len(t, rec.frames, 2)

	a.Stop()
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, 0, loop.Len())
	loop.Advance(epoch.Add(time.Second))
	assert.Len(t, rec.frames, 2)
	assert.Equal(t, rec.frames[1], a.Current())
	assert.Equal(t, a.Current(), a.Target())
}

func TestAnimatorSet(t *testing.T) {
	loop := schedule.NewLoop(epoch)
	rec := &recorder{}
	a := NewAnimator(loop, DefaultOptions(), rec.frame)
	a.Animate(viewport.Range{Min: 0, Max: 100}, viewport.Range{Min: 0, Max: 150})
	a.Set(viewport.Range{Min: 3, Max: 4})
	assert.Equal(t, Idle, a.State())
	assert.Equal(t, viewport.Range{Min: 3, Max: 4}, a.Current())
	assert.Equal(t, 0, loop.Len())
	assert.Empty(t, rec.frames)
}
