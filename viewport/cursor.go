package viewport

import "math"

// SetCursor places the value cursor at fraction f of the window width and
// returns the nearest sample index. f is clamped to [0,1].
func (m *Model) SetCursor(f float64) int {
	m.cursorSet = true
	m.cursorPoint = clamp(f, 0, 1)
	m.resolveCursor()
	return m.cursorIndex
}

// ClearCursor hides the cursor.
func (m *Model) ClearCursor() {
	m.cursorSet = false
	m.cursorIndex = -1
}

// CursorIndex returns the sample under the cursor, or -1 when it is hidden.
func (m *Model) CursorIndex() int { return m.cursorIndex }

// CursorPoint returns the cursor position as a fraction of the window and
// whether the cursor is shown.
func (m *Model) CursorPoint() (float64, bool) { return m.cursorPoint, m.cursorSet }

// CursorX returns the pixel position of the sample under the cursor.
func (m *Model) CursorX(frame Frame) float32 {
	if m.cursorIndex < 0 {
		return m.XFor(m.lowerQ, frame)
	}
	return m.XFor(m.cursorIndex*m.opts.SmoothingFactor, frame)
}

// resolveCursor rounds the cursor to a sub-step of the window, then to the
// nearest whole sample.
func (m *Model) resolveCursor() {
	if !m.cursorSet {
		return
	}
	s := float64(m.opts.SmoothingFactor)
	q := float64(m.lowerQ) + math.Round(m.cursorPoint*float64(m.Segments()))
	m.cursorIndex = clamp(int(math.Round(q/s)), 0, m.Len()-1)
}
