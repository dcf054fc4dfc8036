// Package chart assembles a complete interactive chart: viewport model,
// range selector, value cursor, animated Y rescaling and rendering.
package chart

import (
	"fmt"
	"io"
	"time"

	"github.com/charmbracelet/log"

	"git.sr.ht/~whereswaldon/statchart/control"
	"git.sr.ht/~whereswaldon/statchart/dataset"
	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/rescale"
	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

type settings struct {
	logger     *log.Logger
	viewport   viewport.Options
	animation  rescale.Options
	debounce   time.Duration
	thumbWidth float32
	touchSlop  float32
	style      render.Style
}

// Option configures a Chart.
type Option func(*settings)

// WithLogger logs gestures and rescales to l.
func WithLogger(l *log.Logger) Option {
	return func(s *settings) { s.logger = l }
}

func WithViewportOptions(o viewport.Options) Option {
	return func(s *settings) { s.viewport = o }
}

func WithAnimatorOptions(o rescale.Options) Option {
	return func(s *settings) { s.animation = o }
}

// WithDebounce sets the pause after the last drag event before the Y axis
// is rescaled.
func WithDebounce(d time.Duration) Option {
	return func(s *settings) { s.debounce = d }
}

// WithSelector sets the thumb width and touch slop of the range selector.
func WithSelector(thumbWidth, touchSlop float32) Option {
	return func(s *settings) {
		s.thumbWidth = thumbWidth
		s.touchSlop = touchSlop
	}
}

func WithStyle(st render.Style) Option {
	return func(s *settings) { s.style = st }
}

type gesture uint8

const (
	gestureNone gesture = iota
	gestureSelector
	gestureCursor
)

// Chart is one chart and its interaction state. Every method must be called
// from the goroutine that advances its scheduler.
type Chart struct {
	log      *log.Logger
	model    *viewport.Model
	anim     *rescale.Animator
	debounce *rescale.Debouncer
	selector *control.RangeSelector
	cursor   *control.Cursor
	renderer *render.Renderer

	plot  viewport.Frame
	track viewport.Rect

	display  viewport.Range
	gesture  gesture
	detached bool
}

// New builds a chart over ds whose timers run on sched. It fails with
// dataset.ErrInvalidDataset if ds cannot be drawn.
func New(ds *dataset.Dataset, sched schedule.Scheduler, opts ...Option) (*Chart, error) {
	s := settings{
		logger:     log.New(io.Discard),
		viewport:   viewport.DefaultOptions(),
		animation:  rescale.DefaultOptions(),
		debounce:   rescale.DefaultDebounce,
		thumbWidth: control.DefaultThumbWidth,
		touchSlop:  control.DefaultTouchSlop,
		style:      render.DayStyle(),
	}
	for _, opt := range opts {
		opt(&s)
	}
	model, err := viewport.New(ds, s.viewport)
	if err != nil {
		return nil, fmt.Errorf("failed creating chart: %w", err)
	}
	c := &Chart{
		log:      s.logger,
		model:    model,
		renderer: render.NewRenderer(s.style),
	}
	c.anim = rescale.NewAnimator(sched, s.animation, c.onFrame)
	c.debounce = rescale.NewDebouncer(sched, s.debounce, c.rescale)

	lower, upper := model.Bounds()
	c.selector = control.NewRangeSelector(lower, upper)
	c.selector.ThumbWidth = s.thumbWidth
	c.selector.TouchSlop = s.touchSlop
	c.selector.MinSpan = model.Options().MinSpan
	c.selector.OnChange = c.onBounds

	c.cursor = control.NewCursor(model)
	c.cursor.OnChange = c.onCursor

	c.display = model.FrameRange()
	c.anim.Set(c.display)
	c.log.Debug("chart created", "title", ds.Title, "samples", ds.Len(), "series", len(ds.Series), "lower", lower, "upper", upper)
	return c, nil
}

// Model returns the viewport model.
func (c *Chart) Model() *viewport.Model { return c.model }

// Display returns the Y range currently drawn, which trails the model's
// frame range while a rescale animates.
func (c *Chart) Display() viewport.Range { return c.display }

// Selector returns the range selector.
func (c *Chart) Selector() *control.RangeSelector { return c.selector }

// Style returns the style the chart is drawn with.
func (c *Chart) Style() render.Style { return c.renderer.Style }

// SetStyle switches the palette.
func (c *Chart) SetStyle(st render.Style) { c.renderer.Style = st }

// Resize lays out the chart: plot is the frame of the main chart and track
// the rectangle of the range selector, both in the same coordinates as
// pointer events.
func (c *Chart) Resize(plot viewport.Frame, track viewport.Rect) {
	c.plot = plot
	c.track = track
	_, _, width, height := plot.Plot()
	c.cursor.Width, c.cursor.Height = width, height
	c.selector.Width, c.selector.Height = track.Dx(), track.Dy()
}

// Insets returns the insets the renderer needs around the plot for labels.
func (c *Chart) Insets() viewport.Insets { return c.renderer.ChartInsets() }

// Active reports whether a gesture, a pending rescale or an animation needs
// further frames.
func (c *Chart) Active() bool {
	if c.detached {
		return false
	}
	return c.gesture != gestureNone || c.debounce.Pending() || c.anim.State() == rescale.Animating
}

// PointerDown starts a selector drag or a cursor readout. It reports whether
// either accepted the event.
func (c *Chart) PointerDown(x, y float32) bool {
	if c.detached {
		return false
	}
	if c.selector.PointerDown(x-c.track.MinX, y-c.track.MinY) {
		c.gesture = gestureSelector
		return true
	}
	px, py := c.plotPos(x, y)
	if c.cursor.PointerDown(px, py) {
		c.gesture = gestureCursor
		return true
	}
	return false
}

func (c *Chart) PointerMove(x, y float32) bool {
	if c.detached {
		return false
	}
	switch c.gesture {
	case gestureSelector:
		return c.selector.PointerMove(x-c.track.MinX, y-c.track.MinY)
	case gestureCursor:
		px, py := c.plotPos(x, y)
		return c.cursor.PointerMove(px, py)
	}
	return false
}

func (c *Chart) PointerUp(x, y float32) bool {
	if c.detached {
		return false
	}
	g := c.gesture
	c.gesture = gestureNone
	switch g {
	case gestureSelector:
		return c.selector.PointerUp(x-c.track.MinX, y-c.track.MinY)
	case gestureCursor:
		px, py := c.plotPos(x, y)
		return c.cursor.PointerUp(px, py)
	}
	return false
}

// CancelGesture abandons the gesture in progress, as when the pointer is
// grabbed by another handler.
func (c *Chart) CancelGesture() {
	switch c.gesture {
	case gestureSelector:
		c.selector.PointerUp(0, 0)
	case gestureCursor:
		c.cursor.Cancel()
	}
	c.gesture = gestureNone
}

func (c *Chart) plotPos(x, y float32) (float32, float32) {
	left, top, _, _ := c.plot.Plot()
	return x - left, y - top
}

// SetVisibility shows or hides a series and rescales without waiting for
// the debounce.
func (c *Chart) SetVisibility(column int, hidden bool) bool {
	if c.detached || !c.model.SetVisibility(column, hidden) {
		return false
	}
	c.debounce.Stop()
	c.log.Debug("visibility", "series", c.model.Dataset().Series[column].Name, "hidden", hidden)
	c.anim.Animate(c.display, c.model.FrameRange())
	return true
}

// SetBounds moves the window programmatically and rescales immediately.
func (c *Chart) SetBounds(lower, upper float64) bool {
	if c.detached || !c.model.SetBounds(lower, upper) {
		return false
	}
	c.selector.SetBounds(c.model.Bounds())
	c.debounce.Stop()
	c.anim.Animate(c.display, c.model.FrameRange())
	return true
}

// onBounds re-slices the window for every drag event and defers the
// rescale until the drag pauses. Bounds the model refuses are undone on the
// selector.
func (c *Chart) onBounds(lower, upper float64) {
	if !c.model.MoveBounds(lower, upper) {
		c.log.Debug("bounds rejected", "lower", lower, "upper", upper)
		c.selector.SetBounds(c.model.Bounds())
		return
	}
	c.debounce.Trigger()
}

func (c *Chart) rescale() {
	c.model.RefreshFrameRange()
	target := c.model.FrameRange()
	lower, upper := c.model.Bounds()
	c.log.Debug("rescale", "lower", lower, "upper", upper, "min", target.Min, "max", target.Max)
	c.anim.Animate(c.display, target)
}

func (c *Chart) onFrame(r viewport.Range) {
	c.display = r
}

func (c *Chart) onCursor(index int) {
	c.log.Debug("cursor", "index", index, "timestamp", c.model.Dataset().X[index])
}

// Draw renders the chart, the preview and the selector onto s.
func (c *Chart) Draw(s render.Surface) {
	if c.detached {
		return
	}
	c.renderer.DrawChart(s, c.model, c.plot, c.display)
	border := c.renderer.Style.BorderWidth
	preview := viewport.Frame{
		Width:  c.track.MaxX,
		Height: c.track.MaxY,
		Insets: viewport.Insets{Left: c.track.MinX, Top: c.track.MinY + border, Bottom: border},
	}
	c.renderer.DrawPreview(s, c.model, preview)
	lower, upper := c.selector.ThumbRects()
	c.renderer.DrawSelector(s, c.track, offset(lower, c.track), offset(upper, c.track))
}

func offset(r, by viewport.Rect) viewport.Rect {
	return viewport.Rect{
		MinX: r.MinX + by.MinX,
		MinY: r.MinY + by.MinY,
		MaxX: r.MaxX + by.MinX,
		MaxY: r.MaxY + by.MinY,
	}
}

// Detach stops every timer of the chart. Afterwards the chart ignores all
// input and draws nothing.
func (c *Chart) Detach() {
	if c.detached {
		return
	}
	c.detached = true
	c.anim.Stop()
	c.debounce.Stop()
	c.cursor.Cancel()
	c.gesture = gestureNone
	c.log.Debug("chart detached")
}
