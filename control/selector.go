// Package control turns pointer gestures into viewport changes.
package control

import "git.sr.ht/~whereswaldon/statchart/viewport"

// SelectorState is the gesture a RangeSelector is tracking.
type SelectorState uint8

const (
	Inactive SelectorState = iota
	DraggingLower
	DraggingUpper
	DraggingBoth
)

func (s SelectorState) String() string {
	switch s {
	case Inactive:
		return "inactive"
	case DraggingLower:
		return "dragging lower"
	case DraggingUpper:
		return "dragging upper"
	case DraggingBoth:
		return "dragging both"
	default:
		return "unknown"
	}
}

const (
	DefaultThumbWidth = 15
	DefaultTouchSlop  = 10
	DefaultMinSpan    = 0.2
)

// RangeSelector tracks drags on a horizontal track of Width pixels holding
// two thumbs at the window bounds. The lower thumb's left edge sits at
// Width*lower and the upper thumb's right edge at Width*upper. Dragging a
// thumb moves its bound; dragging between the thumbs pans both.
type RangeSelector struct {
	Width, Height float32
	ThumbWidth    float32
	// TouchSlop widens the thumb hit zones on both sides.
	TouchSlop float32
	MinSpan   float64
	// OnChange is called after a pointer move changed the bounds.
	OnChange func(lower, upper float64)

	lower, upper float64
	state        SelectorState
	lastX        float32
}

// NewRangeSelector returns a selector with the default thumb width, slop and
// minimum span at the given bounds.
func NewRangeSelector(lower, upper float64) *RangeSelector {
	return &RangeSelector{
		ThumbWidth: DefaultThumbWidth,
		TouchSlop:  DefaultTouchSlop,
		MinSpan:    DefaultMinSpan,
		lower:      lower,
		upper:      upper,
	}
}

// Bounds returns the selected window.
func (s *RangeSelector) Bounds() (lower, upper float64) { return s.lower, s.upper }

// SetBounds moves the thumbs without emitting OnChange.
func (s *RangeSelector) SetBounds(lower, upper float64) {
	s.lower, s.upper = lower, upper
}

// State returns the gesture in progress.
func (s *RangeSelector) State() SelectorState { return s.state }

// ThumbRects returns the drawn rectangles of both thumbs.
func (s *RangeSelector) ThumbRects() (lower, upper viewport.Rect) {
	lx := s.Width * float32(s.lower)
	ux := s.Width*float32(s.upper) - s.ThumbWidth
	lower = viewport.Rect{MinX: lx, MaxX: lx + s.ThumbWidth, MaxY: s.Height}
	upper = viewport.Rect{MinX: ux, MaxX: ux + s.ThumbWidth, MaxY: s.Height}
	return lower, upper
}

func (s *RangeSelector) hitZones() (lower, upper, middle viewport.Rect) {
	lower, upper = s.ThumbRects()
	middle = viewport.Rect{MinX: lower.MaxX, MaxX: upper.MinX, MaxY: s.Height}
	lower.MinX -= s.TouchSlop
	lower.MaxX += s.TouchSlop
	upper.MinX -= s.TouchSlop
	upper.MaxX += s.TouchSlop
	return lower, upper, middle
}

// PointerDown starts a drag if (x, y) hits the lower thumb, the upper thumb
// or the area between them, tested in that order. It reports whether the
// event was consumed.
func (s *RangeSelector) PointerDown(x, y float32) bool {
	lower, upper, middle := s.hitZones()
	switch {
	case lower.Contains(x, y):
		s.state = DraggingLower
	case upper.Contains(x, y):
		s.state = DraggingUpper
	case middle.MinX < x && x < middle.MaxX && middle.Contains(x, y):
		s.state = DraggingBoth
	default:
		s.state = Inactive
		return false
	}
	s.lastX = x
	return true
}

// PointerMove applies the horizontal movement since the previous event to
// the dragged bounds. It reports whether a drag is in progress.
func (s *RangeSelector) PointerMove(x, y float32) bool {
	if s.state == Inactive {
		return false
	}
	track := s.Width - s.ThumbWidth
	dx := x - s.lastX
	s.lastX = x
	if track <= 0 || dx == 0 {
		return true
	}
	delta := float64(dx / track)
	lower, upper := s.lower, s.upper
	switch s.state {
	case DraggingLower:
		lower = clamp(lower+delta, 0, upper-s.MinSpan)
	case DraggingUpper:
		upper = clamp(upper+delta, lower+s.MinSpan, 1)
	case DraggingBoth:
		if lower+delta < 0 {
			delta = -lower
		}
		if upper+delta > 1 {
			delta = 1 - upper
		}
		lower += delta
		upper += delta
	}
	if lower == s.lower && upper == s.upper {
		return true
	}
	s.lower, s.upper = lower, upper
	if s.OnChange != nil {
		s.OnChange(lower, upper)
	}
	return true
}

// PointerUp ends the drag. It reports whether a drag was in progress.
func (s *RangeSelector) PointerUp(x, y float32) bool {
	wasActive := s.state != Inactive
	s.state = Inactive
	return wasActive
}

func clamp(v, lo, hi float64) float64 {
	return max(lo, min(v, hi))
}
