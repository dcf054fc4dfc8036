// Command statchart-layout prints the layout a chart computes for a dataset
// and a window, without opening one.
package main

import (
	"fmt"
	"io"
	"os"
	"time"

	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"
	"go.yaml.in/yaml/v3"
	"golang.org/x/text/cases"
	"golang.org/x/text/language"

	"git.sr.ht/~whereswaldon/statchart/backend"
	"git.sr.ht/~whereswaldon/statchart/chart"
	"git.sr.ht/~whereswaldon/statchart/config"
	"git.sr.ht/~whereswaldon/statchart/dataset"
	"git.sr.ht/~whereswaldon/statchart/render"
	"git.sr.ht/~whereswaldon/statchart/schedule"
	"git.sr.ht/~whereswaldon/statchart/viewport"
)

func main() {
	if err := newCommand(os.Stdout).Execute(); err != nil {
		os.Exit(1)
	}
}

type options struct {
	configFile   string
	chart        int
	lower, upper float64
	cursor       float64
	hidden       []int
}

func newCommand(out io.Writer) *cobra.Command {
	opts := options{cursor: -1}
	cmd := &cobra.Command{
		Use:   "statchart-layout file",
		Short: "Print the computed chart layout for a dataset",
		Long: "statchart-layout loads a chart_data.json file or a CSV trace, moves the window " +
			"to the requested bounds and prints the resulting index window, Y ranges, ticks " +
			"and the frames of the Y axis animation as YAML.",
		Args:         cobra.ExactArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts.configFile)
			if err != nil {
				return err
			}
			if !cmd.Flags().Changed("lower") {
				opts.lower = cfg.Viewport.InitialLower
			}
			if !cmd.Flags().Changed("upper") {
				opts.upper = cfg.Viewport.InitialUpper
			}
			charts, err := decodeFile(args[0])
			if err != nil {
				return err
			}
			if opts.chart < 0 || opts.chart >= len(charts) {
				return fmt.Errorf("chart %d out of range, the file holds %d", opts.chart, len(charts))
			}
			logger := cfg.NewLogger(cmd.ErrOrStderr())
			report, err := layout(charts[opts.chart], cfg, logger, opts)
			if err != nil {
				return err
			}
			enc := yaml.NewEncoder(out)
			enc.SetIndent(2)
			defer enc.Close()
			return enc.Encode(report)
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file overriding the defaults")
	flags.IntVar(&opts.chart, "chart", 0, "index of the chart in a multi-chart file")
	flags.Float64Var(&opts.lower, "lower", 0, "lower window bound in [0, 1] (default from config)")
	flags.Float64Var(&opts.upper, "upper", 0, "upper window bound in [0, 1] (default from config)")
	flags.Float64Var(&opts.cursor, "cursor", -1, "cursor position as a fraction of the plot width")
	flags.IntSliceVar(&opts.hidden, "hide", nil, "indices of series to hide")
	return cmd
}

func loadConfig(file string) (*config.Config, error) {
	if file == "" {
		return config.LoadDefaults()
	}
	return config.Load(file)
}

func decodeFile(path string) ([]*dataset.Dataset, error) {
	f, err := os.Open(path)
	if err != nil {
		return nil, err
	}
	defer f.Close()
	return backend.Decode(f, path)
}

type seriesReport struct {
	Key    string  `yaml:"key"`
	Name   string  `yaml:"name"`
	Hidden bool    `yaml:"hidden,omitempty"`
	Min    float64 `yaml:"min"`
	Max    float64 `yaml:"max"`
}

type xTickReport struct {
	Index    int     `yaml:"index"`
	Date     string  `yaml:"date"`
	Position float64 `yaml:"position"`
	Fading   bool    `yaml:"fading,omitempty"`
}

type cursorReport struct {
	Index  int                `yaml:"index"`
	Date   string             `yaml:"date"`
	Values map[string]float64 `yaml:"values"`
}

type report struct {
	Title       string         `yaml:"title,omitempty"`
	Samples     int            `yaml:"samples"`
	Series      []seriesReport `yaml:"series"`
	Bounds      [2]float64     `yaml:"bounds"`
	IndexWindow [2]int         `yaml:"index_window"`
	Steps       int            `yaml:"steps"`
	YRange      [2]float64     `yaml:"y_range"`
	RawRange    [2]float64     `yaml:"raw_frame_range"`
	FrameRange  [2]float64     `yaml:"frame_range"`
	YTicks      []string       `yaml:"y_ticks"`
	XStride     float64        `yaml:"x_stride"`
	XFadeAlpha  float64        `yaml:"x_fade_alpha"`
	XTicks      []xTickReport  `yaml:"x_ticks"`
	Animation   [][2]float64   `yaml:"animation,omitempty"`
	Cursor      *cursorReport  `yaml:"cursor,omitempty"`
}

func pair(r viewport.Range) [2]float64 { return [2]float64{r.Min, r.Max} }

// layout replays what the window does: the chart starts at its initial
// bounds, then the window moves to the requested bounds and the Y axis
// animates to the new frame range. Every animation frame is recorded.
func layout(ds *dataset.Dataset, cfg *config.Config, logger *log.Logger, opts options) (*report, error) {
	start := time.Unix(0, 0)
	loop := schedule.NewLoop(start)
	c, err := chart.New(ds, loop, cfg.ChartOptions(logger)...)
	if err != nil {
		return nil, err
	}
	defer c.Detach()

	for _, column := range opts.hidden {
		if column < 0 || column >= len(ds.Series) {
			return nil, fmt.Errorf("series %d out of range, the chart has %d", column, len(ds.Series))
		}
		c.SetVisibility(column, true)
	}
	if !c.SetBounds(opts.lower, opts.upper) {
		return nil, fmt.Errorf("bounds [%v, %v] rejected: they must lie in [0, 1] and span at least %v",
			opts.lower, opts.upper, cfg.Viewport.MinSpan)
	}

	var frames [][2]float64
	for {
		next, ok := loop.Next()
		if !ok {
			break
		}
		loop.Advance(next)
		frames = append(frames, pair(c.Display()))
	}

	m := c.Model()
	title := cases.Title(language.English)
	rep := &report{
		Title:      ds.Title,
		Samples:    ds.Len(),
		Steps:      len(m.Steps()),
		YRange:     pair(m.YRange()),
		RawRange:   pair(m.RawFrameRange()),
		FrameRange: pair(m.FrameRange()),
		Animation:  frames,
	}
	for _, s := range ds.Series {
		lo, hi := s.Extrema()
		rep.Series = append(rep.Series, seriesReport{Key: s.Key, Name: title.String(s.Name), Hidden: s.Hidden, Min: lo, Max: hi})
	}
	rep.Bounds[0], rep.Bounds[1] = m.Bounds()
	rep.IndexWindow[0], rep.IndexWindow[1] = m.IndexWindow()
	for _, v := range m.TicksY(0) {
		rep.YTicks = append(rep.YTicks, render.AxisValue(v))
	}
	ticks := m.TicksX(0)
	rep.XStride, rep.XFadeAlpha = ticks.Stride, ticks.Alpha
	for _, tick := range ticks.Ticks {
		rep.XTicks = append(rep.XTicks, xTickReport{
			Index:    tick.Index,
			Date:     render.AxisDate(tick.Timestamp),
			Position: tick.Position,
			Fading:   tick.Fading,
		})
	}

	if opts.cursor >= 0 {
		idx := m.SetCursor(opts.cursor)
		cur := &cursorReport{Index: idx, Date: render.TooltipDate(ds.X[idx]), Values: map[string]float64{}}
		for _, column := range m.VisibleSeries() {
			cur.Values[ds.Series[column].Name] = ds.Series[column].Values[idx]
		}
		rep.Cursor = cur
	}
	return rep, nil
}
