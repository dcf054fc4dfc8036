package render

import "image/color"

// Style holds the colors and metrics a Renderer draws with.
type Style struct {
	// Background fills the chart, Additional fills tooltips and the area
	// around the chart.
	Background, Additional color.NRGBA
	// Axis colors grid lines and the cursor line.
	Axis                                color.NRGBA
	MainText, AdditionalText, AxisText color.NRGBA
	// Control colors the selector thumbs and borders; Track dims the
	// selector outside the window.
	Control, Track color.NRGBA

	LineWidth        float32
	PreviewLineWidth float32
	GridWidth        float32
	// GridFade is the alpha lost by each grid line above the lowest one.
	GridFade float32

	AxisFont, TooltipTitleFont, TooltipFont Font

	// LabelGap separates axis labels from the lines they annotate.
	LabelGap float32
	// BorderWidth is the thickness of the selector borders between the
	// thumbs.
	BorderWidth   float32
	ThumbRadius   float32
	TooltipRadius float32
	TooltipPad    float32
	MarkerRadius  float32
}

func rgb(v uint32) color.NRGBA {
	return color.NRGBA{R: uint8(v >> 16), G: uint8(v >> 8), B: uint8(v), A: 0xff}
}

func withAlpha(c color.NRGBA, a float32) color.NRGBA {
	c.A = uint8(float32(c.A) * max(min(a, 1), 0))
	return c
}

func baseStyle() Style {
	return Style{
		LineWidth:        2,
		PreviewLineWidth: 1,
		GridWidth:        1.2,
		GridFade:         0.1,
		AxisFont:         Font{Size: 12},
		TooltipTitleFont: Font{Size: 13, Bold: true},
		TooltipFont:      Font{Size: 13},
		LabelGap:         4,
		BorderWidth:      2,
		ThumbRadius:      3,
		TooltipRadius:    5,
		TooltipPad:       8,
		MarkerRadius:     4,
	}
}

// DayStyle is the light palette.
func DayStyle() Style {
	s := baseStyle()
	s.Background = rgb(0xFEFEFE)
	s.Additional = rgb(0xEFEFF4)
	s.Axis = rgb(0xE1E2E3)
	s.MainText = rgb(0x000000)
	s.AdditionalText = rgb(0x68686D)
	s.AxisText = rgb(0x989EA2)
	s.Control = withAlpha(rgb(0xC9D4DF), 0.95)
	s.Track = withAlpha(rgb(0xF2F5F8), 0.75)
	return s
}

// NightStyle is the dark palette.
func NightStyle() Style {
	s := baseStyle()
	s.Background = rgb(0x222F3F)
	s.Additional = rgb(0x18222D)
	s.Axis = rgb(0x131B23)
	s.MainText = rgb(0xFFFFFF)
	s.AdditionalText = rgb(0x5B6B80)
	s.AxisText = rgb(0x5D6D7E)
	s.Control = withAlpha(rgb(0x394859), 0.95)
	s.Track = withAlpha(rgb(0x1B293A), 0.75)
	return s
}

// StyleNamed returns NightStyle for "night" and DayStyle for anything else.
func StyleNamed(name string) Style {
	if name == "night" {
		return NightStyle()
	}
	return DayStyle()
}
