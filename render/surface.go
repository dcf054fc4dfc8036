// Package render issues the draw calls of a chart against an abstract
// drawing surface.
package render

import (
	"image/color"
	"unicode/utf8"

	"git.sr.ht/~whereswaldon/statchart/viewport"
)

// Font selects the size and weight of drawn text.
type Font struct {
	Size float32
	Bold bool
}

// Surface is the drawing capability a chart needs. Text is placed by the top
// left corner of its box.
type Surface interface {
	DrawPolyline(points []viewport.Point, c color.NRGBA, width float32)
	DrawText(text string, font Font, c color.NRGBA, x, y float32)
	DrawLine(from, to viewport.Point, c color.NRGBA, width float32)
	FillRoundedRect(r viewport.Rect, radius float32, c color.NRGBA)
}

// TextMeasurer is implemented by surfaces that can measure text. Others get
// an estimate from the font size.
type TextMeasurer interface {
	MeasureText(text string, font Font) (width, height float32)
}

func measure(s Surface, text string, font Font) (width, height float32) {
	if m, ok := s.(TextMeasurer); ok {
		return m.MeasureText(text, font)
	}
	return float32(utf8.RuneCountInString(text)) * font.Size * 0.55, font.Size * 1.2
}
