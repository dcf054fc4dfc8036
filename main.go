// Command statchart opens interactive time-series charts in a window.
package main

import (
	"context"
	"fmt"
	"os"

	"gioui.org/app"
	"gioui.org/op"
	"gioui.org/unit"
	"gioui.org/x/explorer"
	"github.com/charmbracelet/log"
	"github.com/spf13/cobra"

	"git.sr.ht/~whereswaldon/statchart/backend"
	"git.sr.ht/~whereswaldon/statchart/config"
)

func main() {
	if err := newRootCommand().Execute(); err != nil {
		os.Exit(1)
	}
}

type rootOptions struct {
	configFile string
	theme      string
	logLevel   string
}

func newRootCommand() *cobra.Command {
	var opts rootOptions
	cmd := &cobra.Command{
		Use:   "statchart [file]",
		Short: "Explore time-series charts",
		Long: "statchart opens chart data (a chart_data.json file or a CSV trace) in a window " +
			"with a range selector, a value cursor and an animated Y axis. The file is " +
			"reloaded whenever it changes on disk.",
		Args:         cobra.MaximumNArgs(1),
		SilenceUsage: true,
		RunE: func(cmd *cobra.Command, args []string) error {
			cfg, err := loadConfig(opts)
			if err != nil {
				return err
			}
			logger := cfg.NewLogger(os.Stderr)
			go func() {
				if err := run(cfg, logger, args); err != nil {
					logger.Fatal("window failed", "err", err)
				}
				os.Exit(0)
			}()
			app.Main()
			return nil
		},
	}
	flags := cmd.Flags()
	flags.StringVarP(&opts.configFile, "config", "c", "", "YAML configuration file overriding the defaults")
	flags.StringVar(&opts.theme, "theme", "", "color theme, day or night")
	flags.StringVar(&opts.logLevel, "log-level", "", "log level (debug, info, warn, error)")
	return cmd
}

func loadConfig(opts rootOptions) (*config.Config, error) {
	var (
		cfg *config.Config
		err error
	)
	if opts.configFile != "" {
		cfg, err = config.Load(opts.configFile)
	} else {
		cfg, err = config.LoadDefaults()
	}
	if err != nil {
		return nil, fmt.Errorf("failed loading configuration: %w", err)
	}
	if opts.theme != "" {
		cfg.Theme = opts.theme
	}
	if opts.logLevel != "" {
		cfg.Log.Level = opts.logLevel
	}
	if err := cfg.Validate(); err != nil {
		return nil, err
	}
	return cfg, nil
}

func run(cfg *config.Config, logger *log.Logger, args []string) error {
	ctx, cancel := context.WithCancel(context.Background())
	defer cancel()

	bundle, err := backend.NewBundle(ctx, logger)
	if err != nil {
		return err
	}
	w := app.NewWindow(
		app.Title("statchart"),
		app.Size(unit.Dp(480), unit.Dp(720)),
	)
	ws := backend.NewWindowState(ctx, bundle, w)
	expl := explorer.NewExplorer(w)
	ui := NewUI(ws, expl, cfg, logger)
	if len(args) > 0 {
		bundle.Datasource.Load(args[0])
	}
	return loop(w, expl, ui)
}

func loop(w *app.Window, expl *explorer.Explorer, ui *UI) error {
	var ops op.Ops
	for {
		ev := w.NextEvent()
		expl.ListenEvents(ev)
		switch ev := ev.(type) {
		case app.DestroyEvent:
			return ev.Err
		case app.FrameEvent:
			gtx := app.NewContext(&ops, ev)
			ui.Layout(gtx)
			ev.Frame(gtx.Ops)
		}
	}
}
