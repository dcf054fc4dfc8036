package control

// CursorTarget resolves a cursor position to a sample index.
type CursorTarget interface {
	// SetCursor places the cursor at fraction f of the visible window and
	// returns the sample index under it.
	SetCursor(f float64) int
	ClearCursor()
}

// Cursor maps a press or drag over a plot of Width pixels to the sample
// under the pointer. The readout only exists while the pointer is down.
type Cursor struct {
	Width, Height float32
	// OnChange is called when the sample under the pointer changes.
	OnChange func(index int)
	// OnHide is called when the pointer is released.
	OnHide func()

	target CursorTarget
	active bool
	index  int
}

// NewCursor returns an inactive cursor over target.
func NewCursor(target CursorTarget) *Cursor {
	return &Cursor{target: target, index: -1}
}

// Index returns the sample under the pointer, or -1.
func (c *Cursor) Index() int { return c.index }

// Active reports whether the pointer is down.
func (c *Cursor) Active() bool { return c.active }

func (c *Cursor) PointerDown(x, y float32) bool {
	if c.Width <= 0 || x < 0 || x > c.Width || y < 0 || y > c.Height {
		return false
	}
	c.active = true
	c.resolve(x)
	return true
}

func (c *Cursor) PointerMove(x, y float32) bool {
	if !c.active {
		return false
	}
	c.resolve(x)
	return true
}

// PointerUp hides the cursor.
func (c *Cursor) PointerUp(x, y float32) bool {
	if !c.active {
		return false
	}
	c.Cancel()
	return true
}

// Cancel hides the cursor as if the pointer had been released.
func (c *Cursor) Cancel() {
	if !c.active {
		return
	}
	c.active = false
	c.index = -1
	c.target.ClearCursor()
	if c.OnHide != nil {
		c.OnHide()
	}
}

func (c *Cursor) resolve(x float32) {
	idx := c.target.SetCursor(float64(x / c.Width))
	if idx == c.index {
		return
	}
	c.index = idx
	if c.OnChange != nil {
		c.OnChange(idx)
	}
}
