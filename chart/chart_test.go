package chart

import (
	"image/color"
	"testing"
	"time"

	"github.com/stretchr/testify/assert"
	"github.com/stretchr/testify/require"

	"git.sr.ht/~whereswaldon/statchart/dataset"
	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/rescale"
	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

var start = time.Date(2019, 3, 10, 12, 0, 0, 0, time.UTC)

// twoRamps has one series equal to its index and one ten times larger.
func twoRamps(t *testing.T, n int) *dataset.Dataset {
	t.Helper()
	in := dataset.Input{
		Timestamps: make([]int64, n),
		Series: []dataset.InputSeries{
			{Key: "y0", Name: "small", Color: "#3DC23F", Values: make([]float64, n)},
			{Key: "y1", Name: "large", Color: "#F34C44", Values: make([]float64, n)},
		},
	}
	for i := range in.Timestamps {
		in.Timestamps[i] = int64(i) * 1000
		in.Series[0].Values[i] = float64(i)
		in.Series[1].Values[i] = float64(10 * i)
	}
	ds, err := dataset.New(in)
	require.NoError(t, err)
	return ds
}

// newChart lays out a 300x280 plot above a 300x40 selector track.
func newChart(t *testing.T) (*Chart, *schedule.Loop) {
	t.Helper()
	loop := schedule.NewLoop(start)
	c, err := New(twoRamps(t, 100), loop)
	require.NoError(t, err)
	c.Resize(
		viewport.Frame{Width: 300, Height: 280, Insets: c.Insets()},
		viewport.Rect{MinY: 300, MaxX: 300, MaxY: 340},
	)
	return c, loop
}

func TestNewRejectsInvalidDataset(t *testing.T) {
	_, err := New(&dataset.Dataset{X: []int64{1}}, schedule.NewLoop(start))
	assert.ErrorIs(t, err, dataset.ErrInvalidDataset)
}

func TestDragRescalesAfterDebounce(t *testing.T) {
	c, loop := newChart(t)
	before := c.Model().FrameRange()
	assert.Equal(t, before, c.Display())
	assert.False(t, c.Active())

	// Thumbs sit at 180 and 285, so 240 pans the whole window.
	require.True(t, c.PointerDown(240, 320))
	assert.Equal(t, "dragging both", c.Selector().State().String())
	require.True(t, c.PointerMove(183, 320))
	lower, upper := c.Model().Bounds()
	assert.InDelta(t, 0.4, lower, 1e-6)
	assert.InDelta(t, 0.8, upper, 1e-6)
	assert.Equal(t, before, c.Model().FrameRange(), "the Y range waits for the drag to pause")
	assert.True(t, c.Active())
	require.True(t, c.PointerUp(183, 320))
	assert.True(t, c.Active(), "rescale still pending")

	assert.Equal(t, 0, loop.Advance(start.Add(100*time.Millisecond)))
	assert.Equal(t, 1, loop.Advance(start.Add(rescale.DefaultDebounce)))
	target := c.Model().FrameRange()
	assert.NotEqual(t, before, target)
	assert.Equal(t, before, c.Display(), "the animation has not stepped yet")
	assert.True(t, c.Active())

	loop.Advance(start.Add(time.Second))
	assert.Equal(t, target, c.Display())
	assert.False(t, c.Active())
	assert.Equal(t, 0, loop.Len())
}

func TestRescaleTakesOverRunningAnimation(t *testing.T) {
	c, loop := newChart(t)
	before := c.Display()
	require.True(t, c.SetVisibility(1, true))

	dragAt := start.Add(48 * time.Millisecond)
	loop.Advance(dragAt)
	require.True(t, c.PointerDown(240, 320))
	require.True(t, c.PointerMove(183, 320))
	require.True(t, c.PointerUp(183, 320))

	fire := dragAt.Add(rescale.DefaultDebounce)
	loop.Advance(fire.Add(-time.Millisecond))
	require.Equal(t, rescale.Animating, c.anim.State(), "the visibility animation is still running")
	onScreen := c.Display()
	require.NotEqual(t, before, onScreen)

	require.Equal(t, 1, loop.Advance(fire), "only the debounce fires")
	target := c.Model().FrameRange()
	assert.Equal(t, target, c.anim.Target())
	assert.Equal(t, onScreen, c.Display(), "no jump back to the original range")
	require.Less(t, target.Max, onScreen.Max)

	next, ok := loop.Next()
	require.True(t, ok)
	loop.Advance(next)
	first := c.Display()
	assert.Less(t, first.Max, onScreen.Max, "the new animation starts from the drawn range")
	assert.Greater(t, first.Max, target.Max)

	loop.Advance(start.Add(time.Second))
	assert.Equal(t, target, c.Display())
	assert.Equal(t, 0, loop.Len())
}

func TestRejectedDragResyncsSelector(t *testing.T) {
	c, loop := newChart(t)
	// A selector looser than the model lets the drag go where the model
	// refuses to follow.
	c.Selector().MinSpan = 0.05

	require.True(t, c.PointerDown(185, 320))
	require.Equal(t, "dragging lower", c.Selector().State().String())
	require.True(t, c.PointerMove(285, 320))

	lower, upper := c.Model().Bounds()
	assert.InDelta(t, 0.6, lower, 1e-9)
	assert.InDelta(t, 1.0, upper, 1e-9)
	selLower, selUpper := c.Selector().Bounds()
	assert.Equal(t, lower, selLower)
	assert.Equal(t, upper, selUpper)
	assert.Equal(t, 0, loop.Len(), "nothing to rescale")

	require.True(t, c.PointerMove(300, 320))
	lower, upper = c.Model().Bounds()
	assert.InDelta(t, 0.6+15.0/285, lower, 1e-6)
	selLower, selUpper = c.Selector().Bounds()
	assert.Equal(t, lower, selLower)
	assert.Equal(t, upper, selUpper)
	assert.True(t, c.Active())
}

func TestVisibilityRescalesImmediately(t *testing.T) {
	c, loop := newChart(t)
	before := c.Display()

	require.True(t, c.SetVisibility(1, true))
	assert.False(t, c.SetVisibility(1, true), "already hidden")
	target := c.Model().FrameRange()
	assert.Less(t, target.Max, before.Max)
	assert.Equal(t, 1, loop.Len(), "only the animation timer")

	loop.Advance(start.Add(time.Second))
	assert.Equal(t, target, c.Display())
}

func TestCursorGesture(t *testing.T) {
	c, _ := newChart(t)
	require.True(t, c.PointerDown(150, 100))
	assert.GreaterOrEqual(t, c.Model().CursorIndex(), 0)
	assert.True(t, c.Active())

	require.True(t, c.PointerUp(150, 100))
	assert.Equal(t, -1, c.Model().CursorIndex())
	assert.False(t, c.Active())

	assert.False(t, c.PointerDown(150, 500), "below both areas")
}

func TestCancelGesture(t *testing.T) {
	c, _ := newChart(t)
	require.True(t, c.PointerDown(150, 100))
	c.CancelGesture()
	assert.Equal(t, -1, c.Model().CursorIndex())
	assert.False(t, c.PointerMove(160, 100))
}

func TestSetBounds(t *testing.T) {
	c, loop := newChart(t)
	require.True(t, c.SetBounds(0, 0.5))
	lower, upper := c.Selector().Bounds()
	assert.InDelta(t, 0, lower, 1e-9)
	assert.InDelta(t, 0.5, upper, 1e-9)
	assert.False(t, c.SetBounds(0.5, 0.4))

	loop.Advance(start.Add(time.Second))
	assert.Equal(t, c.Model().FrameRange(), c.Display())
}

func TestDetachStopsTimers(t *testing.T) {
	c, loop := newChart(t)
	require.True(t, c.PointerDown(240, 320))
	require.True(t, c.PointerMove(183, 320))
	require.True(t, c.SetVisibility(1, true))
	require.NotZero(t, loop.Len())

	c.Detach()
	assert.Equal(t, 0, loop.Len())
	assert.False(t, c.Active())
	assert.False(t, c.PointerDown(150, 100))
	assert.False(t, c.SetVisibility(1, false))
	assert.Equal(t, 0, loop.Advance(start.Add(time.Minute)))

	surface := &counter{}
	c.Draw(surface)
	assert.Zero(t, surface.polylines)
	c.Detach()
}

// counter is a Surface that counts calls.
type counter struct {
	polylines, texts, lines, fills int
}

func (c *counter) DrawPolyline([]viewport.Point, color.NRGBA, float32)         { c.polylines++ }
func (c *counter) DrawText(string, render.Font, color.NRGBA, float32, float32) { c.texts++ }
func (c *counter) DrawLine(_, _ viewport.Point, _ color.NRGBA, _ float32)      { c.lines++ }
func (c *counter) FillRoundedRect(viewport.Rect, float32, color.NRGBA)         { c.fills++ }

func TestDraw(t *testing.T) {
	c, _ := newChart(t)
	surface := &counter{}
	c.Draw(surface)
	assert.Equal(t, 4, surface.polylines, "two series in the chart and in the preview")
	assert.NotZero(t, surface.texts)

	c.SetStyle(render.NightStyle())
	assert.Equal(t, render.NightStyle(), c.Style())
}
