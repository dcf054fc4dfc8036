package render

import (
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

// Renderer draws the layout computed by a viewport.Model. It keeps scratch
// buffers between frames and is not safe for concurrent use.
type Renderer struct {
	Style Style

	points []viewport.Point
}

// NewRenderer returns a renderer drawing with style.
func NewRenderer(style Style) *Renderer {
	return &Renderer{Style: style}
}

// ChartInsets returns the insets that leave room for the axis labels around
// a plot: a label line above the top grid line and one below the plot for
// the dates.
func (r *Renderer) ChartInsets() viewport.Insets {
	line := r.Style.AxisFont.Size * 1.2
	return viewport.Insets{
		Top:    line + r.Style.LabelGap,
		Bottom: line + 3*r.Style.LabelGap,
	}
}

// DrawChart draws the grid, axis labels, series and cursor of m into frame
// with the Y axis spanning yr.
func (r *Renderer) DrawChart(s Surface, m *viewport.Model, frame viewport.Frame, yr viewport.Range) {
	r.drawGrid(s, m, frame, yr)
	r.drawDates(s, m, frame)
	r.drawSeries(s, m, frame, yr)
	if m.CursorIndex() >= 0 {
		r.DrawCursor(s, m, frame, yr)
	}
}

// drawGrid draws one line per Y tick, fading towards the top, each labelled
// just above its line.
func (r *Renderer) drawGrid(s Surface, m *viewport.Model, frame viewport.Frame, yr viewport.Range) {
	left, _, width, _ := frame.Plot()
	st := r.Style
	_, labelHeight := measure(s, "0", st.AxisFont)
	for i, v := range yr.Ticks(m.Options().SegmentsY) {
		y := m.YFor(v, frame, yr)
		lineColor := withAlpha(st.Axis, 1-float32(i)*st.GridFade)
		s.DrawLine(viewport.Point{X: left, Y: y}, viewport.Point{X: left + width, Y: y}, lineColor, st.GridWidth)
		s.DrawText(AxisValue(v), st.AxisFont, st.AxisText, left, y-labelHeight-st.LabelGap)
	}
}

// drawDates labels the X ticks inside the window. Ticks that appeared at the
// current zoom level are drawn with the zoom fade alpha.
func (r *Renderer) drawDates(s Surface, m *viewport.Model, frame viewport.Frame) {
	left, top, width, height := frame.Plot()
	st := r.Style
	ticks := m.TicksX(0)
	y := top + height + 2*st.LabelGap
	for _, tick := range ticks.Ticks {
		if tick.Position < 0 || tick.Position > 1 {
			continue
		}
		label := AxisDate(tick.Timestamp)
		w, _ := measure(s, label, st.AxisFont)
		x := left + float32(tick.Position)*width - w/2
		x = max(0, min(x, frame.Width-w))
		c := st.AxisText
		if tick.Fading {
			c = withAlpha(c, float32(ticks.Alpha))
		}
		s.DrawText(label, st.AxisFont, c, x, y)
	}
}

func (r *Renderer) drawSeries(s Surface, m *viewport.Model, frame viewport.Frame, yr viewport.Range) {
	series := m.Dataset().Series
	steps := m.Steps()
	for _, column := range m.VisibleSeries() {
		r.points = r.points[:0]
		for _, q := range steps {
			r.points = append(r.points, m.PointFor(column, q, frame, yr))
		}
		s.DrawPolyline(r.points, series[column].Color, r.Style.LineWidth)
	}
}

// DrawCursor draws the vertical cursor line, a marker on every visible series
// and a tooltip with the date and values of the sample under the cursor.
func (r *Renderer) DrawCursor(s Surface, m *viewport.Model, frame viewport.Frame, yr viewport.Range) {
	idx := m.CursorIndex()
	if idx < 0 {
		return
	}
	st := r.Style
	_, top, _, height := frame.Plot()
	x := m.CursorX(frame)
	s.DrawLine(viewport.Point{X: x, Y: top}, viewport.Point{X: x, Y: top + height}, st.Axis, st.GridWidth)

	ds := m.Dataset()
	q := idx * m.SmoothingFactor()
	for _, column := range m.VisibleSeries() {
		p := m.PointFor(column, q, frame, yr)
		outer := st.MarkerRadius
		inner := outer - st.LineWidth
		s.FillRoundedRect(square(p, outer), outer, ds.Series[column].Color)
		s.FillRoundedRect(square(p, inner), inner, st.Background)
	}
	r.drawTooltip(s, m, frame, x, idx)
}

func square(center viewport.Point, radius float32) viewport.Rect {
	return viewport.Rect{
		MinX: center.X - radius,
		MinY: center.Y - radius,
		MaxX: center.X + radius,
		MaxY: center.Y + radius,
	}
}

type tooltipRow struct {
	name, value string
	column      int
}

// drawTooltip places the readout beside the cursor line, flipping to its
// left side when it would leave the frame.
func (r *Renderer) drawTooltip(s Surface, m *viewport.Model, frame viewport.Frame, x float32, idx int) {
	st := r.Style
	ds := m.Dataset()
	title := TooltipDate(ds.X[idx])
	boxW, lineH := measure(s, title, st.TooltipTitleFont)
	rows := make([]tooltipRow, 0, len(m.VisibleSeries()))
	for _, column := range m.VisibleSeries() {
		series := ds.Series[column]
		row := tooltipRow{name: series.Name, value: TooltipValue(series.Values[idx]), column: column}
		nw, _ := measure(s, row.name, st.TooltipFont)
		vw, _ := measure(s, row.value, st.TooltipFont)
		boxW = max(boxW, nw+vw+2*st.TooltipPad)
		rows = append(rows, row)
	}
	boxW += 2 * st.TooltipPad
	boxH := lineH*float32(len(rows)+1) + 2*st.TooltipPad

	_, top, _, _ := frame.Plot()
	left := x + st.TooltipPad
	if left+boxW > frame.Width {
		left = x - st.TooltipPad - boxW
	}
	left = max(0, left)
	box := viewport.Rect{MinX: left, MinY: top, MaxX: left + boxW, MaxY: top + boxH}
	s.FillRoundedRect(box, st.TooltipRadius, st.Additional)

	textX := box.MinX + st.TooltipPad
	y := box.MinY + st.TooltipPad
	s.DrawText(title, st.TooltipTitleFont, st.MainText, textX, y)
	for _, row := range rows {
		y += lineH
		s.DrawText(row.name, st.TooltipFont, st.MainText, textX, y)
		vw, _ := measure(s, row.value, st.TooltipFont)
		s.DrawText(row.value, st.TooltipFont, ds.Series[row.column].Color, box.MaxX-st.TooltipPad-vw, y)
	}
}

// DrawPreview draws every visible series over the whole dataset into frame,
// scaled to the dataset-wide Y range. Series longer than the frame is wide
// are decimated to about one point per pixel.
func (r *Renderer) DrawPreview(s Surface, m *viewport.Model, frame viewport.Frame) {
	left, top, width, height := frame.Plot()
	yr := m.YRange()
	if yr.Span() <= 0 {
		yr = viewport.Range{Min: yr.Min - 0.5, Max: yr.Max + 0.5}
	}
	ds := m.Dataset()
	n := ds.Len()
	stride := max(1, n/max(int(width), 1))
	for _, column := range m.VisibleSeries() {
		values := ds.Series[column].Values
		r.points = r.points[:0]
		for i := 0; i < n; i += stride {
			r.points = append(r.points, previewPoint(values[i], i, n, left, top, width, height, yr))
		}
		if (n-1)%stride != 0 {
			r.points = append(r.points, previewPoint(values[n-1], n-1, n, left, top, width, height, yr))
		}
		s.DrawPolyline(r.points, ds.Series[column].Color, r.Style.PreviewLineWidth)
	}
}

func previewPoint(v float64, i, n int, left, top, width, height float32, yr viewport.Range) viewport.Point {
	return viewport.Point{
		X: left + width*float32(i)/float32(n-1),
		Y: top + height*float32((yr.Max-v)/yr.Span()),
	}
}

// DrawSelector dims track outside the thumbs, then draws the thumbs and the
// borders joining them.
func (r *Renderer) DrawSelector(s Surface, track, lower, upper viewport.Rect) {
	st := r.Style
	if lower.MinX > track.MinX {
		s.FillRoundedRect(viewport.Rect{MinX: track.MinX, MinY: track.MinY, MaxX: lower.MinX, MaxY: track.MaxY}, 0, st.Track)
	}
	if upper.MaxX < track.MaxX {
		s.FillRoundedRect(viewport.Rect{MinX: upper.MaxX, MinY: track.MinY, MaxX: track.MaxX, MaxY: track.MaxY}, 0, st.Track)
	}
	s.FillRoundedRect(lower, st.ThumbRadius, st.Control)
	s.FillRoundedRect(upper, st.ThumbRadius, st.Control)
	if upper.MinX > lower.MaxX {
		s.FillRoundedRect(viewport.Rect{MinX: lower.MaxX, MinY: track.MinY, MaxX: upper.MinX, MaxY: track.MinY + st.BorderWidth}, 0, st.Control)
		s.FillRoundedRect(viewport.Rect{MinX: lower.MaxX, MinY: track.MaxY - st.BorderWidth, MaxX: upper.MinX, MaxY: track.MaxY}, 0, st.Control)
	}
}
