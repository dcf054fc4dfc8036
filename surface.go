package main

import (
	"image"
	"image/color"

	"gioui.org/f32"
	"gioui.org/font"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/unit"
	"gioui.org/widget/material"

	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

// gioSurface draws render calls into the ops of a layout context. All
// coordinates are pixels relative to the current offset.
type gioSurface struct {
	gtx C
	th  *material.Theme
}

var (
	_ render.Surface      = gioSurface{}
	_ render.TextMeasurer = gioSurface{}
)

func pt(p viewport.Point) f32.Point {
	return f32.Pt(p.X, p.Y)
}

func (s gioSurface) DrawPolyline(points []viewport.Point, c color.NRGBA, width float32) {
	if len(points) < 2 {
		return
	}
	var p clip.Path
	p.Begin(s.gtx.Ops)
	p.MoveTo(pt(points[0]))
	for _, point := range points[1:] {
		p.LineTo(pt(point))
	}
	paint.FillShape(s.gtx.Ops, c, clip.Stroke{Path: p.End(), Width: width}.Op())
}

func (s gioSurface) DrawLine(from, to viewport.Point, c color.NRGBA, width float32) {
	var p clip.Path
	p.Begin(s.gtx.Ops)
	p.MoveTo(pt(from))
	p.LineTo(pt(to))
	paint.FillShape(s.gtx.Ops, c, clip.Stroke{Path: p.End(), Width: width}.Op())
}

func (s gioSurface) FillRoundedRect(r viewport.Rect, radius float32, c color.NRGBA) {
	rect := image.Rect(int(floor(r.MinX)), int(floor(r.MinY)), int(ceil(r.MaxX)), int(ceil(r.MaxY)))
	if rect.Empty() {
		return
	}
	paint.FillShape(s.gtx.Ops, c, clip.UniformRRect(rect, int(radius)).Op(s.gtx.Ops))
}

func (s gioSurface) label(text string, f render.Font, c color.NRGBA) material.LabelStyle {
	l := material.Label(s.th, unit.Sp(f.Size/s.gtx.Metric.PxPerSp), text)
	l.Color = c
	l.MaxLines = 1
	if f.Bold {
		l.Font.Weight = font.Bold
	}
	return l
}

func (s gioSurface) DrawText(text string, f render.Font, c color.NRGBA, x, y float32) {
	gtx := s.gtx
	gtx.Constraints.Min = image.Point{}
	defer op.Offset(image.Pt(int(x), int(y))).Push(gtx.Ops).Pop()
	s.label(text, f, c).Layout(gtx)
}

func (s gioSurface) MeasureText(text string, f render.Font) (width, height float32) {
	gtx := s.gtx
	gtx.Constraints.Min = image.Point{}
	dims, _ := rec(gtx, s.label(text, f, color.NRGBA{}).Layout)
	return float32(dims.Size.X), float32(dims.Size.Y)
}

// scaleStyle converts the device independent metrics of st to pixels.
func scaleStyle(st render.Style, pxPerDp float32) render.Style {
	st.LineWidth *= pxPerDp
	st.PreviewLineWidth *= pxPerDp
	st.GridWidth *= pxPerDp
	st.AxisFont.Size *= pxPerDp
	st.TooltipTitleFont.Size *= pxPerDp
	st.TooltipFont.Size *= pxPerDp
	st.LabelGap *= pxPerDp
	st.BorderWidth *= pxPerDp
	st.ThumbRadius *= pxPerDp
	st.TooltipRadius *= pxPerDp
	st.TooltipPad *= pxPerDp
	st.MarkerRadius *= pxPerDp
	return st
}
