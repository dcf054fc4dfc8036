package viewport

import (
	"math"

	"golang.org/x/exp/constraints"
)

// Range is a closed numeric interval on the Y axis.
type Range struct {
	Min, Max float64
}

// Span returns Max-Min.
func (r Range) Span() float64 {
	return r.Max - r.Min
}

// Lerp linearly interpolates each bound from r towards to. A t of 0 yields r
// and a t of 1 yields to exactly.
func (r Range) Lerp(to Range, t float64) Range {
	switch {
	case t <= 0:
		return r
	case t >= 1:
		return to
	}
	return Range{
		Min: r.Min + (to.Min-r.Min)*t,
		Max: r.Max + (to.Max-r.Max)*t,
	}
}

// Ticks splits r into segments equal steps and returns the segments+1
// boundaries from Min to Max.
func (r Range) Ticks(segments int) []float64 {
	segments = max(segments, 1)
	out := make([]float64, segments+1)
	step := r.Span() / float64(segments)
	for i := range out {
		out[i] = r.Min + step*float64(i)
	}
	out[segments] = r.Max
	return out
}

// Insets reserve space around the plot area of a Frame.
type Insets struct {
	Top, Left, Bottom, Right float32
}

// Frame is the pixel geometry a chart is drawn into.
type Frame struct {
	Width, Height float32
	Insets        Insets
}

// Plot returns the origin and size of the area inside the insets. Sizes are
// never negative.
func (f Frame) Plot() (left, top, width, height float32) {
	left, top = f.Insets.Left, f.Insets.Top
	width = max(f.Width-f.Insets.Left-f.Insets.Right, 0)
	height = max(f.Height-f.Insets.Top-f.Insets.Bottom, 0)
	return left, top, width, height
}

// Point is a pixel position.
type Point struct {
	X, Y float32
}

// Rect is an axis aligned pixel rectangle.
type Rect struct {
	MinX, MinY, MaxX, MaxY float32
}

// Contains reports whether (x, y) lies inside r, edges included.
func (r Rect) Contains(x, y float32) bool {
	return x >= r.MinX && x <= r.MaxX && y >= r.MinY && y <= r.MaxY
}

// Dx returns the width of r.
func (r Rect) Dx() float32 { return r.MaxX - r.MinX }

// Dy returns the height of r.
func (r Rect) Dy() float32 { return r.MaxY - r.MinY }

// NiceRound rounds value to digits significant figures, towards positive
// infinity when up is set and towards negative infinity otherwise. Values
// that already sit on the rounding grid are returned unchanged, so
// NiceRound(200, 2, true) is 200 and NiceRound(1234, 2, true) is 1300.
func NiceRound(value float64, digits int, up bool) float64 {
	if value == 0 || math.IsNaN(value) || math.IsInf(value, 0) {
		return value
	}
	digits = max(digits, 1)
	exp := int(floor(math.Log10(math.Abs(value)))) - digits + 1
	scaled := scale(value, -exp)
	const snap = 1e-9
	if up {
		scaled = math.Ceil(scaled - snap)
	} else {
		scaled = math.Floor(scaled + snap)
	}
	return scale(scaled, exp)
}

// scale multiplies v by 10^exp, dividing for negative exponents so that
// results like 0.13 stay exact in their decimal form.
func scale(v float64, exp int) float64 {
	if exp < 0 {
		return v / math.Pow10(-exp)
	}
	return v * math.Pow10(exp)
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}

func clamp[T constraints.Integer | constraints.Float](v, lo, hi T) T {
	return max(lo, min(v, hi))
}
