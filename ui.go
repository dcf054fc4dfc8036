package main

import (
	"image"
	"image/color"
	"strconv"

	"gioui.org/font/gofont"
	"gioui.org/layout"
	"gioui.org/op/clip"
	"gioui.org/op/paint"
	"gioui.org/text"
	"gioui.org/widget"
	"gioui.org/widget/material"
	"gioui.org/x/explorer"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/charmbracelet/log"
	"golang.org/x/exp/shiny/materialdesign/icons"

	"git.sr.ht/~whereswaldon/statchart/backend"
	"git.sr.ht/~whereswaldon/statchart/config"
	"git.sr.ht/~whereswaldon/statchart/render"
)

type (
	C = layout.Context
	D = layout.Dimensions
)

var openIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.FileFolderOpen)
	return icon
}()

var nightIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ImageBrightness3)
	return icon
}()

var dayIcon = func() *widget.Icon {
	icon, _ := widget.NewIcon(icons.ImageWBSunny)
	return icon
}()

// UI is responsible for holding the state of and drawing the top-level UI.
type UI struct {
	ws   backend.WindowState
	expl *explorer.Explorer
	cfg  *config.Config
	log  *log.Logger

	views       []*ChartView
	generation  int
	tab         widget.Enum
	explorerBtn widget.Clickable
	themeBtn    widget.Clickable
	style       render.Style
	errText     string

	th           *material.Theme
	statusStream *stream.Stream[backend.Status]
	status       backend.Status
}

func NewUI(ws backend.WindowState, expl *explorer.Explorer, cfg *config.Config, logger *log.Logger) *UI {
	th := material.NewTheme()
	th.Shaper = text.NewShaper(text.WithCollection(gofont.Collection()), text.NoSystemFonts())
	ui := &UI{
		ws:           ws,
		th:           th,
		expl:         expl,
		cfg:          cfg,
		log:          logger,
		tab:          widget.Enum{Value: "0"},
		statusStream: stream.New(ws.Controller, ws.Bundle.Datasource.Status),
	}
	ui.applyStyle(cfg.Style())
	return ui
}

// applyStyle recolors the theme and every chart.
func (ui *UI) applyStyle(st render.Style) {
	ui.style = st
	ui.th.Palette.Bg = st.Additional
	ui.th.Palette.Fg = st.MainText
	ui.th.Palette.ContrastBg = st.Control
	ui.th.Palette.ContrastFg = st.Background
	for _, v := range ui.views {
		v.SetStyle(st)
	}
}

func (ui *UI) night() bool {
	return ui.style == render.NightStyle()
}

// rebuild replaces the chart views after the datasource (re)loaded a file.
func (ui *UI) rebuild(gtx C) {
	for _, v := range ui.views {
		v.Detach()
	}
	ui.views = ui.views[:0]
	for _, ds := range ui.status.Charts {
		v, err := NewChartView(ds, ui.cfg, ui.log, gtx.Now)
		if err != nil {
			ui.log.Warn("skipping chart", "title", ds.Title, "err", err)
			continue
		}
		v.SetStyle(ui.style)
		ui.views = append(ui.views, v)
	}
	if i, err := strconv.Atoi(ui.tab.Value); err != nil || i >= len(ui.views) {
		ui.tab.Value = "0"
	}
}

// Update the state of the UI and generate events.
func (ui *UI) Update(gtx C) {
	ui.statusStream.ReadInto(gtx, &ui.status, backend.Status{})
	if ui.status.Generation != ui.generation {
		ui.generation = ui.status.Generation
		ui.rebuild(gtx)
	}
	ui.errText = ""
	if ui.status.Err != nil {
		ui.errText = ui.status.Err.Error()
	}
	ui.tab.Update(gtx)
	if ui.explorerBtn.Clicked(gtx) {
		go func() {
			if err := ui.ws.Bundle.Datasource.LoadFromFile(ui.expl); err != nil {
				ui.log.Warn("no dataset chosen", "err", err)
			}
		}()
	}
	if ui.themeBtn.Clicked(gtx) {
		if ui.night() {
			ui.applyStyle(render.DayStyle())
		} else {
			ui.applyStyle(render.NightStyle())
		}
	}
}

type TabStyle struct {
	state  *widget.Enum
	label  material.LabelStyle
	border widget.Border
	inset  layout.Inset
	value  string
	fill   color.NRGBA
}

func Tab(th *material.Theme, state *widget.Enum, value, display string) TabStyle {
	selected := state.Value == value
	ts := TabStyle{
		state: state,
		label: material.Body1(th, display),
		inset: layout.UniformInset(2),
		border: widget.Border{
			Width: 2,
			Color: th.ContrastBg,
		},
		value: value,
	}
	ts.label.Alignment = text.Middle
	ts.label.MaxLines = 1
	if selected {
		ts.label.Color = th.ContrastFg
		ts.fill = th.ContrastBg
	}
	return ts
}

func (t TabStyle) Layout(gtx C) D {
	return t.inset.Layout(gtx, func(gtx C) D {
		return t.border.Layout(gtx, func(gtx C) D {
			return t.inset.Layout(gtx, func(gtx C) D {
				return t.state.Layout(gtx, t.value, func(gtx C) D {
					return layout.Background{}.Layout(gtx, func(gtx C) D {
						paint.FillShape(gtx.Ops, t.fill, clip.Rect{Max: gtx.Constraints.Min}.Op())
						return D{Size: gtx.Constraints.Min}
					}, t.label.Layout)
				})
			})
		})
	})
}

func (ui *UI) iconButton(gtx C, btn *widget.Clickable, icon *widget.Icon) D {
	size := gtx.Dp(32)
	gtx.Constraints = layout.Exact(image.Pt(size, size))
	return material.Clickable(gtx, btn, func(gtx C) D {
		return layout.UniformInset(4).Layout(gtx, func(gtx C) D {
			return icon.Layout(gtx, ui.th.Fg)
		})
	})
}

func (ui *UI) layoutToolbar(gtx C) D {
	tabs := make([]layout.FlexChild, 0, len(ui.views)+2)
	for i, v := range ui.views {
		title := v.chart.Model().Dataset().Title
		if title == "" {
			title = "Chart " + strconv.Itoa(i+1)
		}
		tabs = append(tabs, layout.Flexed(1, Tab(ui.th, &ui.tab, strconv.Itoa(i), title).Layout))
	}
	if len(tabs) == 0 {
		tabs = append(tabs, layout.Flexed(1, func(gtx C) D {
			return D{Size: image.Pt(gtx.Constraints.Min.X, 0)}
		}))
	}
	themeIcon := nightIcon
	if ui.night() {
		themeIcon = dayIcon
	}
	tabs = append(tabs,
		layout.Rigid(func(gtx C) D {
			return ui.iconButton(gtx, &ui.explorerBtn, openIcon)
		}),
		layout.Rigid(func(gtx C) D {
			return ui.iconButton(gtx, &ui.themeBtn, themeIcon)
		}),
	)
	return layout.Flex{Alignment: layout.Middle}.Layout(gtx, tabs...)
}

func (ui *UI) layoutMainArea(gtx C) D {
	return layout.Flex{
		Axis: layout.Vertical,
	}.Layout(gtx,
		layout.Rigid(ui.layoutToolbar),
		layout.Rigid(func(gtx C) D {
			if len(ui.errText) == 0 {
				return D{}
			}
			l := material.Body1(ui.th, ui.errText)
			l.Color = color.NRGBA{R: 150, A: 255}
			return l.Layout(gtx)
		}),
		layout.Flexed(1, func(gtx C) D {
			i, _ := strconv.Atoi(ui.tab.Value)
			if i < 0 || i >= len(ui.views) {
				return D{Size: gtx.Constraints.Max}
			}
			return ui.views[i].Layout(gtx, ui.th)
		}),
	)
}

func (ui *UI) layoutStartScreen(gtx C) D {
	msg := "No data yet."
	if ui.status.Loading {
		msg = "Loading " + ui.status.Path + "..."
	}
	l := material.Body1(ui.th, msg)
	return layout.Flex{
		Axis:      layout.Vertical,
		Alignment: layout.Middle,
		Spacing:   layout.SpaceAround,
	}.Layout(gtx,
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return l.Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			if ui.status.Loading {
				gtx = gtx.Disabled()
			}
			return material.Button(ui.th, &ui.explorerBtn, "Open Dataset").Layout(gtx)
		}),
		layout.Rigid(func(gtx C) D {
			gtx.Constraints.Min = image.Point{}
			return material.Body2(ui.th, ui.errText).Layout(gtx)
		}),
	)
}

// Layout the UI into the provided context.
func (ui *UI) Layout(gtx C) D {
	ui.Update(gtx)
	paint.FillShape(gtx.Ops, ui.th.Bg, clip.Rect{Max: gtx.Constraints.Max}.Op())
	if len(ui.views) > 0 {
		return ui.layoutMainArea(gtx)
	}
	return ui.layoutStartScreen(gtx)
}
