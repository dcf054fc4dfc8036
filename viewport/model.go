// Package viewport maps a fractional window over a dataset onto slices of its
// series, Y axis ranges, axis ticks and pixel positions.
//
// Bounds live in [0,1]. A sample index p is addressed in smoothing sub-steps
// q = p*S, where S is the smoothing factor; the value at a sub-step between two
// samples is linearly interpolated so the window edges move continuously while
// panning.
package viewport

import (
	"fmt"
	"math"

	"git.sr.ht/~whereswaldon/statchart/dataset"
)

const epsilon = 1e-9

// Options tune a Model. Zero fields take the value from DefaultOptions.
type Options struct {
	// MinSpan is the smallest accepted upper-lower.
	MinSpan float64
	// SmoothingFactor is the number of interpolation steps between two
	// neighbouring samples.
	SmoothingFactor int
	// Stretch pads the frame range by this fraction of its span on each side.
	Stretch float64
	// NiceDigits is the number of significant figures frame bounds are
	// rounded to.
	NiceDigits int
	// InitialLower and InitialUpper are the bounds of a new model.
	InitialLower, InitialUpper float64
	// VisibleSegmentsX is the number of X axis segments that fit the window.
	VisibleSegmentsX int
	// SegmentsY is the number of Y axis segments.
	SegmentsY int
}

// DefaultOptions returns the options of the statistics screen.
func DefaultOptions() Options {
	return Options{
		MinSpan:          0.2,
		SmoothingFactor:  4,
		Stretch:          0.15,
		NiceDigits:       2,
		InitialLower:     0.6,
		InitialUpper:     1.0,
		VisibleSegmentsX: 4,
		SegmentsY:        6,
	}
}

func (o Options) withDefaults() Options {
	d := DefaultOptions()
	if o.MinSpan <= 0 {
		o.MinSpan = d.MinSpan
	}
	if o.SmoothingFactor < 1 {
		o.SmoothingFactor = d.SmoothingFactor
	}
	if o.Stretch < 0 {
		o.Stretch = d.Stretch
	}
	if o.NiceDigits < 1 {
		o.NiceDigits = d.NiceDigits
	}
	if o.InitialLower == 0 && o.InitialUpper == 0 {
		o.InitialLower, o.InitialUpper = d.InitialLower, d.InitialUpper
	}
	if o.VisibleSegmentsX < 1 {
		o.VisibleSegmentsX = d.VisibleSegmentsX
	}
	if o.SegmentsY < 1 {
		o.SegmentsY = d.SegmentsY
	}
	return o
}

// Model owns the viewport state of one chart: bounds, the visible set of
// series, the sliced window of each, and the Y ranges derived from them.
type Model struct {
	ds   *dataset.Dataset
	opts Options

	lower, upper           float64
	lowerIndex, upperIndex float64
	lowerQ, upperQ         int

	// visible holds dataset indices of the series that are not hidden.
	visible []int
	// steps are the sub-step positions of the window, edges included.
	steps []int
	// frames holds, for each visible series, its values at steps.
	frames [][]float64

	yRange   Range
	rawFrame Range
	frame    Range

	cursorSet   bool
	cursorPoint float64
	cursorIndex int
}

// New wraps ds in a Model positioned at the initial bounds of opts. It
// refuses datasets with fewer than two samples or mismatched series.
func New(ds *dataset.Dataset, opts Options) (*Model, error) {
	if ds == nil {
		return nil, fmt.Errorf("%w: no dataset", dataset.ErrInvalidDataset)
	}
	n := ds.Len()
	if n < dataset.MinSamples {
		return nil, fmt.Errorf("%w: %d samples, need at least %d", dataset.ErrInvalidDataset, n, dataset.MinSamples)
	}
	for _, s := range ds.Series {
		if len(s.Values) != n {
			return nil, fmt.Errorf("%w: series %q has %d values, want %d", dataset.ErrInvalidDataset, s.Key, len(s.Values), n)
		}
	}
	m := &Model{
		ds:          ds,
		opts:        opts.withDefaults(),
		frame:       Range{Min: 0, Max: 1},
		cursorIndex: -1,
	}
	m.refreshVisible()
	if !m.SetBounds(m.opts.InitialLower, m.opts.InitialUpper) {
		m.SetBounds(0, 1)
	}
	return m, nil
}

// Dataset returns the wrapped dataset.
func (m *Model) Dataset() *dataset.Dataset { return m.ds }

// Options returns the effective options.
func (m *Model) Options() Options { return m.opts }

// Len returns the number of samples.
func (m *Model) Len() int { return m.ds.Len() }

// SmoothingFactor returns the number of sub-steps per sample.
func (m *Model) SmoothingFactor() int { return m.opts.SmoothingFactor }

// Bounds returns the fractional window.
func (m *Model) Bounds() (lower, upper float64) { return m.lower, m.upper }

// IndexBounds returns the fractional sample positions n*lower and n*upper.
func (m *Model) IndexBounds() (lower, upper float64) { return m.lowerIndex, m.upperIndex }

// IndexWindow returns the half-open range of whole samples covered by the
// window.
func (m *Model) IndexWindow() (start, end int) {
	n := m.Len()
	start = clamp(int(floor(m.lowerIndex)), 0, n-1)
	end = clamp(int(floor(m.upperIndex)), start+1, n)
	return start, end
}

// StepBounds returns the first and last sub-step of the window.
func (m *Model) StepBounds() (lower, upper int) { return m.lowerQ, m.upperQ }

// Segments returns the number of sub-steps spanned by the window. It is
// always at least one.
func (m *Model) Segments() int { return m.upperQ - m.lowerQ }

// Steps returns the sub-step positions the window is drawn at: the fractional
// lower edge, every whole sample strictly inside, and the fractional upper
// edge. The slice is owned by the model.
func (m *Model) Steps() []int { return m.steps }

// VisibleSeries returns the dataset indices of the series that are shown.
// The slice is owned by the model.
func (m *Model) VisibleSeries() []int { return m.visible }

// Window returns the values of the i-th visible series at Steps. The slice is
// owned by the model.
func (m *Model) Window(i int) []float64 {
	if i < 0 || i >= len(m.frames) {
		return nil
	}
	return m.frames[i]
}

// YRange returns the extrema of the visible series over the whole dataset.
func (m *Model) YRange() Range { return m.yRange }

// RawFrameRange returns the extrema of the visible series over the window,
// before stretching and rounding.
func (m *Model) RawFrameRange() Range { return m.rawFrame }

// FrameRange returns the padded, nicely rounded Y range of the window.
func (m *Model) FrameRange() Range { return m.frame }

// SetBounds moves the window and recomputes the frame range. It is a no-op
// returning false if the span is narrower than the minimum or either bound
// lies outside [0,1].
func (m *Model) SetBounds(lower, upper float64) bool {
	if !m.MoveBounds(lower, upper) {
		return false
	}
	m.RefreshFrameRange()
	return true
}

// MoveBounds is SetBounds without the frame range recomputation. The window
// slices follow the new bounds while FrameRange keeps its previous value
// until RefreshFrameRange is called.
func (m *Model) MoveBounds(lower, upper float64) bool {
	if lower < -epsilon || upper > 1+epsilon || upper-lower < m.opts.MinSpan-epsilon {
		return false
	}
	m.lower = clamp(lower, 0, 1)
	m.upper = clamp(upper, 0, 1)
	n := float64(m.Len())
	m.lowerIndex = n * m.lower
	m.upperIndex = n * m.upper

	s := m.opts.SmoothingFactor
	maxQ := (m.Len() - 1) * s
	m.lowerQ = clamp(int(floor(m.lowerIndex*float64(s))), 0, maxQ-1)
	m.upperQ = clamp(int(floor(min(m.upperIndex, n-1)*float64(s))), m.lowerQ+1, maxQ)

	m.steps = m.steps[:0]
	m.steps = append(m.steps, m.lowerQ)
	for k := m.lowerQ/s + 1; k*s < m.upperQ; k++ {
		m.steps = append(m.steps, k*s)
	}
	m.steps = append(m.steps, m.upperQ)
	m.sliceVisible()
	m.resolveCursor()
	return true
}

// RefreshFrameRange recomputes the frame range from the current window.
// Without visible series the previous frame range is kept.
func (m *Model) RefreshFrameRange() {
	if len(m.frames) == 0 {
		return
	}
	raw := Range{Min: math.Inf(1), Max: math.Inf(-1)}
	for _, values := range m.frames {
		for _, v := range values {
			raw.Min = min(raw.Min, v)
			raw.Max = max(raw.Max, v)
		}
	}
	m.rawFrame = raw
	m.frame = m.niceRange(raw)
}

// niceRange stretches r symmetrically by the stretch fraction of its span and
// rounds the result outwards. A degenerate range is first widened to a span
// of one centred on its value.
func (m *Model) niceRange(r Range) Range {
	if r.Span() <= 0 {
		r = Range{Min: r.Min - 0.5, Max: r.Min + 0.5}
	}
	pad := r.Span() * m.opts.Stretch
	return Range{
		Min: NiceRound(r.Min-pad, m.opts.NiceDigits, false),
		Max: NiceRound(r.Max+pad, m.opts.NiceDigits, true),
	}
}

// SetVisibility hides or shows the series at column and recomputes the
// visible set, the dataset-wide YRange and the window for the current
// bounds. It reports whether column exists.
func (m *Model) SetVisibility(column int, hidden bool) bool {
	if column < 0 || column >= len(m.ds.Series) {
		return false
	}
	m.ds.Series[column].Hidden = hidden
	m.refreshVisible()
	m.SetBounds(m.lower, m.upper)
	return true
}

func (m *Model) refreshVisible() {
	m.visible = m.visible[:0]
	m.yRange = Range{}
	first := true
	for i, s := range m.ds.Series {
		if s.Hidden {
			continue
		}
		m.visible = append(m.visible, i)
		lo, hi := s.Extrema()
		if first {
			m.yRange = Range{Min: lo, Max: hi}
			first = false
			continue
		}
		m.yRange.Min = min(m.yRange.Min, lo)
		m.yRange.Max = max(m.yRange.Max, hi)
	}
	for len(m.frames) < len(m.visible) {
		m.frames = append(m.frames, nil)
	}
	m.frames = m.frames[:len(m.visible)]
}

func (m *Model) sliceVisible() {
	for i, column := range m.visible {
		values := m.frames[i][:0]
		for _, q := range m.steps {
			values = append(values, m.valueAt(column, q))
		}
		m.frames[i] = values
	}
}

// valueAt interpolates the series at sub-step q. The sample k=q/S is blended
// towards k+1 by r=q%S steps of (v[k+1]-v[k])/S.
func (m *Model) valueAt(column, q int) float64 {
	values := m.ds.Series[column].Values
	s := m.opts.SmoothingFactor
	q = clamp(q, 0, (len(values)-1)*s)
	k, r := q/s, q%s
	if r == 0 {
		return values[k]
	}
	return values[k] + (values[k+1]-values[k])/float64(s)*float64(r)
}

// Value returns the series at column interpolated at sub-step q, or zero for
// an unknown column.
func (m *Model) Value(column, q int) float64 {
	if column < 0 || column >= len(m.ds.Series) {
		return 0
	}
	return m.valueAt(column, q)
}

// XFor returns the horizontal pixel position of sub-step q in frame.
func (m *Model) XFor(q int, frame Frame) float32 {
	left, _, width, _ := frame.Plot()
	q = clamp(q, 0, (m.Len()-1)*m.opts.SmoothingFactor)
	return left + float32(q-m.lowerQ)/float32(m.Segments())*width
}

// YFor returns the vertical pixel position of v in frame for the Y range yr.
// Values outside yr land outside the plot area; an empty yr maps everything
// to its middle.
func (m *Model) YFor(v float64, frame Frame, yr Range) float32 {
	_, top, _, height := frame.Plot()
	span := yr.Span()
	if span <= 0 {
		return top + height/2
	}
	return top + height*float32((yr.Max-v)/span)
}

// PointFor maps sub-step q of the series at column to a pixel position, with
// x = left + (q-lowerQ)/segments*width and y = top + height*(max-v)/span.
func (m *Model) PointFor(column, q int, frame Frame, yr Range) Point {
	return Point{
		X: m.XFor(q, frame),
		Y: m.YFor(m.Value(column, q), frame, yr),
	}
}
