package backend

import (
	"bufio"
	"bytes"
	"context"
	"errors"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strings"
	"sync"

	"gioui.org/x/explorer"
	"github.com/charmbracelet/log"
	"github.com/fsnotify/fsnotify"

	"git.sr.ht/~whereswaldon/statchart/dataset"
)

// ErrUnknownFormat is returned for files that are neither chart JSON nor a
// CSV trace.
var ErrUnknownFormat = errors.New("unknown dataset format")

// Status is the state of the currently loaded dataset file.
type Status struct {
	// Path of the file, empty for streams without a name.
	Path string
	// Charts decoded from the file. A JSON file may hold several charts; a
	// CSV trace always holds one.
	Charts []*dataset.Dataset
	// Generation increases with every successful (re)load so that consumers
	// can tell a reload from a repeated status.
	Generation int
	Loading    bool
	Err        error
}

// RWBox guards a value with a read-write lock.
type RWBox[T any] struct {
	t    T
	lock sync.RWMutex
}

func (r *RWBox[T]) Read(f func(*T)) {
	r.lock.RLock()
	defer r.lock.RUnlock()
	f(&r.t)
}

func (r *RWBox[T]) Write(f func(*T)) {
	r.lock.Lock()
	defer r.lock.Unlock()
	f(&r.t)
}

type sourceState struct {
	status      Status
	subscribers map[chan Status]struct{}
}

// Datasource loads dataset files off the UI goroutine, reloads them when
// they change on disk and publishes the result to any number of status
// streams.
type Datasource struct {
	log     *log.Logger
	watcher *fsnotify.Watcher
	state   RWBox[sourceState]
}

// NewDatasource creates a datasource whose file watching stops when appCtx
// is done.
func NewDatasource(appCtx context.Context, logger *log.Logger) (*Datasource, error) {
	watcher, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, fmt.Errorf("failed creating file watcher: %w", err)
	}
	d := &Datasource{
		log:     logger,
		watcher: watcher,
	}
	d.state.Write(func(s *sourceState) {
		s.subscribers = make(map[chan Status]struct{})
	})
	go d.watch(appCtx)
	return d, nil
}

// Status streams the current status followed by every change until ctx is
// done. A slow reader only ever sees the latest status.
func (d *Datasource) Status(ctx context.Context) <-chan Status {
	out := make(chan Status, 1)
	d.state.Write(func(s *sourceState) {
		s.subscribers[out] = struct{}{}
		out <- s.status
	})
	go func() {
		<-ctx.Done()
		d.state.Write(func(s *sourceState) {
			delete(s.subscribers, out)
			close(out)
		})
	}()
	return out
}

// Current returns the latest status.
func (d *Datasource) Current() Status {
	var st Status
	d.state.Read(func(s *sourceState) { st = s.status })
	return st
}

func (d *Datasource) publish(update func(*Status)) {
	d.state.Write(func(s *sourceState) {
		update(&s.status)
		for sub := range s.subscribers {
			select {
			case <-sub:
			default:
			}
			sub <- s.status
		}
	})
}

// Load reads the file at path in the background and follows it for changes.
func (d *Datasource) Load(path string) {
	path = filepath.Clean(path)
	d.follow(path)
	d.publish(func(s *Status) {
		s.Path = path
		s.Loading = true
	})
	go d.reload(path)
}

// LoadFromFile lets the user pick a dataset file.
func (d *Datasource) LoadFromFile(expl *explorer.Explorer) error {
	file, err := expl.ChooseFile(".json", ".csv")
	if err != nil {
		return err
	}
	if f, ok := file.(interface{ Name() string }); ok {
		file.Close()
		d.Load(f.Name())
		return nil
	}
	d.LoadFromStream(file)
	return nil
}

// LoadFromStream decodes r in the background. Streams are not followed.
func (d *Datasource) LoadFromStream(r io.ReadCloser) {
	d.unfollow()
	d.publish(func(s *Status) {
		s.Path = ""
		s.Loading = true
	})
	go func() {
		defer r.Close()
		charts, err := Decode(r, "")
		d.finish("", charts, err)
	}()
}

func (d *Datasource) reload(path string) {
	f, err := os.Open(path)
	if err != nil {
		d.finish(path, nil, err)
		return
	}
	defer f.Close()
	charts, err := decode(f, path, true)
	d.finish(path, charts, err)
}

func (d *Datasource) finish(path string, charts []*dataset.Dataset, err error) {
	d.publish(func(s *Status) {
		if s.Path != path {
			// A newer load replaced this one.
			return
		}
		s.Loading = false
		s.Err = err
		if err != nil {
			d.log.Error("failed loading dataset", "path", path, "err", err)
			return
		}
		s.Charts = charts
		s.Generation++
		d.log.Info("loaded dataset", "path", path, "charts", len(charts), "generation", s.Generation)
	})
}

func (d *Datasource) follow(path string) {
	d.unfollow()
	if err := d.watcher.Add(path); err != nil {
		d.log.Warn("cannot follow dataset file", "path", path, "err", err)
	}
}

func (d *Datasource) unfollow() {
	for _, p := range d.watcher.WatchList() {
		_ = d.watcher.Remove(p)
	}
}

func (d *Datasource) watch(ctx context.Context) {
	defer d.watcher.Close()
	for {
		select {
		case <-ctx.Done():
			return
		case ev, ok := <-d.watcher.Events:
			if !ok {
				return
			}
			if !ev.Has(fsnotify.Write) && !ev.Has(fsnotify.Create) {
				continue
			}
			if ev.Name != d.Current().Path {
				continue
			}
			d.log.Debug("dataset file changed", "path", ev.Name, "op", ev.Op.String())
			go d.reload(ev.Name)
		case err, ok := <-d.watcher.Errors:
			if !ok {
				return
			}
			d.log.Warn("file watcher failed", "err", err)
		}
	}
}

// Decode reads charts from r. The format is chosen from the extension of
// name, or sniffed from the content when name has none.
func Decode(r io.Reader, name string) ([]*dataset.Dataset, error) {
	return decode(r, name, false)
}

// decode is Decode for a file that may still be growing when growing is
// set: a partially written last CSV row is left for the next reload.
func decode(r io.Reader, name string, growing bool) ([]*dataset.Dataset, error) {
	switch strings.ToLower(filepath.Ext(name)) {
	case ".json":
		return dataset.LoadJSON(r)
	case ".csv":
		return loadCSV(r, growing)
	case "":
	default:
		return nil, fmt.Errorf("%w: %q", ErrUnknownFormat, name)
	}
	br := bufio.NewReader(r)
	head, err := br.Peek(512)
	if err != nil && !errors.Is(err, io.EOF) {
		return nil, err
	}
	switch trimmed := bytes.TrimSpace(head); {
	case len(trimmed) == 0:
		return nil, fmt.Errorf("%w: empty input", ErrUnknownFormat)
	case trimmed[0] == '[' || trimmed[0] == '{':
		return dataset.LoadJSON(br)
	default:
		return loadCSV(br, growing)
	}
}

func loadCSV(r io.Reader, growing bool) ([]*dataset.Dataset, error) {
	load := dataset.LoadCSV
	if growing {
		load = dataset.LoadGrowingCSV
	}
	ds, err := load(r)
	if err != nil {
		return nil, err
	}
	return []*dataset.Dataset{ds}, nil
}
