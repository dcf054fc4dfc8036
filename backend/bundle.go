package backend

import (
	"context"

	"gioui.org/app"
	"git.sr.ht/~gioverse/skel/stream"
	"github.com/charmbracelet/log"
)

type WindowState struct {
	Bundle
	Controller *stream.Controller
}

func NewWindowState(ctx context.Context, bundle Bundle, win *app.Window) WindowState {
	return WindowState{
		Bundle:     bundle,
		Controller: stream.NewController(ctx, win.Invalidate),
	}
}

// Bundle holds the application-wide services shared by every window.
type Bundle struct {
	Datasource *Datasource
}

func NewBundle(ctx context.Context, logger *log.Logger) (Bundle, error) {
	ds, err := NewDatasource(ctx, logger)
	if err != nil {
		return Bundle{}, err
	}
	return Bundle{Datasource: ds}, nil
}
