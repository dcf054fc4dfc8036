package viewport

import "math"

// XTick is one X axis label position.
type XTick struct {
	// Index is the sample the tick sits on.
	Index     int
	Timestamp int64
	// Position is the fraction of the window width the tick is at. Ticks
	// outside the window have positions outside [0,1].
	Position float64
	// Fading reports whether the tick appeared at the current zoom level and
	// should be drawn with XTicks.Alpha.
	Fading bool
}

// XTicks is the X axis layout for the current zoom level.
type XTicks struct {
	// Segments is the number of strides across the whole dataset. It is
	// always a power of two, and never more than the dataset has samples
	// to spare.
	Segments int
	// Stride is the number of samples between two ticks.
	Stride float64
	// Alpha is how far the zoom is into the current doubling, from 0 right
	// after a doubling to just under 1 before the next one. It is 0 once
	// Segments has reached the sample limit.
	Alpha float64
	Ticks []XTick
}

// TicksX lays out the X axis so that about segments labels fit in the
// window. Tick strides halve or double as the window narrows or widens
// instead of drifting with it. A segments of zero or less uses
// Options.VisibleSegmentsX.
func (m *Model) TicksX(segments int) XTicks {
	if segments < 1 {
		segments = m.opts.VisibleSegmentsX
	}
	n := m.Len()
	visible := float64(min(segments, n))
	span := max(m.upper-m.lower, epsilon)
	all := visible / span
	level := math.Log2(max(floor(all), 1))
	count := 1 << int(floor(level))
	alpha := math.Log2(all) - floor(math.Log2(all))
	// Every tick needs a sample of its own.
	limit := 1
	if n > 2 {
		limit = 1 << int(floor(math.Log2(float64(n-1))))
	}
	saturated := count >= limit
	if saturated {
		count, alpha = limit, 0
	}
	out := XTicks{
		Segments: count,
		Stride:   float64(n-1) / float64(count),
		Alpha:    alpha,
		Ticks:    make([]XTick, 0, count+1),
	}
	s := m.opts.SmoothingFactor
	for i := 0; i <= count; i++ {
		idx := clamp(int(math.Round(float64(i)*out.Stride)), 0, n-1)
		out.Ticks = append(out.Ticks, XTick{
			Index:     idx,
			Timestamp: m.ds.X[idx],
			Position:  float64(idx*s-m.lowerQ) / float64(m.Segments()),
			Fading:    !saturated && count > 1 && i%2 == 1,
		})
	}
	return out
}

// TicksY splits the frame range into segments equal steps. A segments of
// zero or less uses Options.SegmentsY.
func (m *Model) TicksY(segments int) []float64 {
	if segments < 1 {
		segments = m.opts.SegmentsY
	}
	return m.frame.Ticks(segments)
}
