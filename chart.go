package main

import (
	"fmt"
	"image"
	"math"
	"time"

	"gioui.org/io/event"
	"gioui.org/io/pointer"
	"gioui.org/layout"
	"gioui.org/op"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/component"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/constraints"

	"git.sr.ht/~whereswaldon/statchart/chart"
	"git.sr.ht/~whereswaldon/statchart/config"
	"git.sr.ht/~whereswaldon/statchart/dataset"
	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

// ChartView hosts one chart.Chart in a Gio window: it drives the chart's
// timers from the frame clock, routes pointer events to it and lays out the
// legend below it.
type ChartView struct {
	chart *chart.Chart
	loop  *schedule.Loop
	style render.Style

	Enabled  []*widget.Bool
	keyTable component.GridState
}

func NewChartView(ds *dataset.Dataset, cfg *config.Config, logger *log.Logger, now time.Time) (*ChartView, error) {
	loop := schedule.NewLoop(now)
	c, err := chart.New(ds, loop, cfg.ChartOptions(logger.With("chart", ds.Title))...)
	if err != nil {
		return nil, err
	}
	v := &ChartView{
		chart: c,
		loop:  loop,
		style: cfg.Style(),
	}
	for _, s := range ds.Series {
		v.Enabled = append(v.Enabled, &widget.Bool{Value: !s.Hidden})
	}
	return v, nil
}

// SetStyle switches the palette of the chart.
func (v *ChartView) SetStyle(st render.Style) {
	v.style = st
}

// Detach stops the chart's timers. The view must not be used afterwards.
func (v *ChartView) Detach() {
	v.chart.Detach()
	v.loop.Stop()
}

func rec(gtx C, w layout.Widget) (D, op.CallOp) {
	macro := op.Record(gtx.Ops)
	dims := w(gtx)
	call := macro.Stop()
	return dims, call
}

func (v *ChartView) Update(gtx C) {
	v.loop.Advance(gtx.Now)
	for i, enabled := range v.Enabled {
		if enabled.Update(gtx) {
			v.chart.SetVisibility(i, !enabled.Value)
		}
	}
	for {
		ev, ok := gtx.Event(pointer.Filter{
			Target: v,
			Kinds:  pointer.Press | pointer.Drag | pointer.Release | pointer.Cancel,
		})
		if !ok {
			break
		}
		e, ok := ev.(pointer.Event)
		if !ok {
			continue
		}
		switch e.Kind {
		case pointer.Press:
			v.chart.PointerDown(e.Position.X, e.Position.Y)
		case pointer.Drag:
			v.chart.PointerMove(e.Position.X, e.Position.Y)
		case pointer.Release:
			v.chart.PointerUp(e.Position.X, e.Position.Y)
		case pointer.Cancel:
			v.chart.CancelGesture()
		}
	}
}

func (v *ChartView) Layout(gtx C, th *material.Theme) D {
	v.Update(gtx)
	origConstraints := gtx.Constraints

	// Measure the legend first so the plot gets whatever is left.
	gtx.Constraints.Min = image.Point{X: gtx.Constraints.Max.X}
	keyDims, keyCall := rec(gtx, func(gtx C) D {
		return v.layoutControls(gtx, th)
	})
	gtx.Constraints = origConstraints

	size := gtx.Constraints.Max
	size.Y = max(size.Y-keyDims.Size.Y, 0)
	v.layoutPlot(gtx, th, size)

	stack := op.Offset(image.Pt(0, size.Y)).Push(gtx.Ops)
	keyCall.Add(gtx.Ops)
	stack.Pop()
	return D{Size: gtx.Constraints.Max}
}

func (v *ChartView) layoutPlot(gtx C, th *material.Theme, size image.Point) {
	st := scaleStyle(v.style, gtx.Metric.PxPerDp)
	v.chart.SetStyle(st)

	trackHeight := gtx.Dp(40)
	gap := gtx.Dp(12)
	plotHeight := max(size.Y-trackHeight-gap, 0)
	v.chart.Resize(
		viewport.Frame{Width: float32(size.X), Height: float32(plotHeight), Insets: v.chart.Insets()},
		viewport.Rect{
			MinY: float32(plotHeight + gap),
			MaxX: float32(size.X),
			MaxY: float32(plotHeight + gap + trackHeight),
		},
	)

	area := clip.Rect{Max: size}.Push(gtx.Ops)
	paint.Fill(gtx.Ops, st.Background)
	event.Op(gtx.Ops, v)
	v.chart.Draw(gioSurface{gtx: gtx, th: th})
	area.Pop()

	if next, ok := v.loop.Next(); ok {
		gtx.Execute(op.InvalidateCmd{At: next})
	}
}

func (v *ChartView) layoutControls(gtx C, th *material.Theme) D {
	table := component.Table(th, &v.keyTable)
	table.HScrollbarStyle.Indicator.MinorWidth = 0
	table.HScrollbarStyle.Track.MinorPadding = 0
	table.VScrollbarStyle.Indicator.MinorWidth = 0
	table.VScrollbarStyle.Track.MinorPadding = 0
	model := v.chart.Model()
	series := model.Dataset().Series
	cursor := model.CursorIndex()

	colorColWidth := gtx.Dp(50)
	valueColWidth := gtx.Dp(100)
	nameColWidth := gtx.Constraints.Max.X - colorColWidth - 2*valueColWidth - gtx.Dp(table.VScrollbarStyle.Width())
	rowHeight := gtx.Sp(20)
	const (
		colorCol = iota
		seriesNameCol
		cursorCol
		rangeCol
		numCols
	)
	gtx.Constraints.Max.Y = min(gtx.Constraints.Max.Y, rowHeight*(len(series)+1))
	return table.Layout(gtx, len(series), numCols,
		func(axis layout.Axis, index, constraint int) int {
			if axis == layout.Vertical {
				return min(constraint, rowHeight)
			}

			var size int
			switch index {
			case colorCol:
				size = colorColWidth
			case seriesNameCol:
				size = nameColWidth
			case cursorCol, rangeCol:
				size = valueColWidth
			}
			return min(size, constraint)
		},
		func(gtx C, index int) D {
			var l material.LabelStyle
			switch index {
			case colorCol:
				l = material.Body1(th, "Shown")
			case seriesNameCol:
				l = material.Body1(th, "Series")
				l.Alignment = text.Middle
			case cursorCol:
				l = material.Body1(th, "Selected")
				l.Alignment = text.End
			case rangeCol:
				l = material.Body1(th, "Range")
				l.Alignment = text.End
			}
			l.Color = th.ContrastFg
			return layout.Background{}.Layout(gtx,
				func(gtx C) D {
					paint.FillShape(gtx.Ops, th.ContrastBg, clip.Rect{Max: gtx.Constraints.Max}.Op())
					return D{Size: gtx.Constraints.Min}
				}, l.Layout,
			)
		},
		func(gtx C, row, col int) (dims D) {
			defer func() {
				dims.Size = gtx.Constraints.Constrain(dims.Size)
			}()
			s := series[row]
			enabled := v.Enabled[row].Value
			disabledAlpha := uint8(100)
			return layout.UniformInset(2).Layout(gtx, func(gtx C) D {
				switch col {
				case colorCol:
					return v.Enabled[row].Layout(gtx, func(gtx C) D {
						return layout.Center.Layout(gtx, func(gtx C) D {
							sideLen := gtx.Dp(10)
							sz := image.Pt(sideLen, sideLen)
							fullColor := s.Color
							if !enabled {
								fullColor.A = disabledAlpha
							}
							paint.FillShape(gtx.Ops, fullColor, clip.UniformRRect(image.Rectangle{Max: sz}, sideLen/4).Op(gtx.Ops))
							return D{Size: sz}
						})
					})
				case seriesNameCol:
					l := material.Body2(th, s.Name)
					if !enabled {
						l.Color.A = disabledAlpha
					}
					return l.Layout(gtx)
				case cursorCol:
					value := ""
					if cursor >= 0 {
						value = render.TooltipValue(s.Values[cursor])
					}
					l := material.Body2(th, value)
					l.Color = s.Color
					l.Alignment = text.End
					return l.Layout(gtx)
				case rangeCol:
					lo, hi := s.Extrema()
					l := material.Body2(th, fmt.Sprintf("%s - %s", render.AxisValue(lo), render.AxisValue(hi)))
					if !enabled {
						l.Color.A = disabledAlpha
					}
					l.Alignment = text.End
					return l.Layout(gtx)
				default:
					return D{Size: gtx.Constraints.Max}
				}
			})
		})
}

func ceil[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Ceil(float64(a)))
}

func floor[T constraints.Integer | constraints.Float](a T) T {
	return T(math.Floor(float64(a)))
}
