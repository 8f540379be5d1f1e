// Package watch reports frame files changed on disk by other sessions.
package watch

import (
	"context"
	"fmt"
	"os"
	"path/filepath"
	"strings"

	"github.com/fsnotify/fsnotify"
	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/resolver"
)

type Op string

const (
	OpWrite  Op = "write"
	OpRemove Op = "remove"
)

// Event is a change to one frame file.
type Event struct {
	Name model.FrameName
	Path string
	Op   Op
}

// Watcher watches every frameset directory under a set of roots. New
// frameset directories are picked up as they appear.
type Watcher struct {
	fsw      *fsnotify.Watcher
	resolver *resolver.Resolver
	roots    map[string]bool
}

// New starts watching roots; ext is the preferred frame file extension.
func New(roots []string, ext string) (*Watcher, error) {
	fsw, err := fsnotify.NewWatcher()
	if err != nil {
		return nil, err
	}
	w := &Watcher{
		fsw:      fsw,
		resolver: resolver.New(ext),
		roots:    map[string]bool{},
	}
	for _, root := range roots {
		if err := w.addRoot(root); err != nil {
			fsw.Close()
			return nil, err
		}
	}
	return w, nil
}

func (w *Watcher) addRoot(root string) error {
	root = filepath.Clean(root)
	if err := w.fsw.Add(root); err != nil {
		return fmt.Errorf("unable to watch %s: %w", root, err)
	}
	w.roots[root] = true
	entries, err := os.ReadDir(root)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() && !strings.HasPrefix(e.Name(), ".") {
			if err := w.fsw.Add(filepath.Join(root, e.Name())); err != nil {
				return fmt.Errorf("unable to watch %s: %w", e.Name(), err)
			}
		}
	}
	return nil
}

// Run delivers frame events to fn until ctx is done or the watcher is
// closed.
func (w *Watcher) Run(ctx context.Context, fn func(Event)) error {
	for {
		select {
		case <-ctx.Done():
			return ctx.Err()
		case event, ok := <-w.fsw.Events:
			if !ok {
				return nil
			}
			w.handle(event, fn)
		case err, ok := <-w.fsw.Errors:
			if !ok {
				return nil
			}
			glog.Warningf("watch: %v", err)
		}
	}
}

func (w *Watcher) handle(event fsnotify.Event, fn func(Event)) {
	if event.Has(fsnotify.Create) && w.roots[filepath.Dir(event.Name)] {
		if fi, err := os.Stat(event.Name); err == nil && fi.IsDir() {
			if err := w.fsw.Add(event.Name); err != nil {
				glog.Warningf("watch %s: %v", event.Name, err)
			}
			return
		}
	}

	name, ok := w.resolver.NameFromPath(event.Name)
	if !ok {
		return
	}
	var op Op
	switch {
	case event.Has(fsnotify.Remove), event.Has(fsnotify.Rename):
		op = OpRemove
	case event.Has(fsnotify.Create), event.Has(fsnotify.Write):
		op = OpWrite
	default:
		return
	}
	glog.V(2).Infof("watch: %s %s", op, name)
	fn(Event{Name: name, Path: event.Name, Op: op})
}

func (w *Watcher) Close() error {
	return w.fsw.Close()
}
