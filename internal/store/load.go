package store

import (
	"context"
	"errors"
	"os"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/peer"
	"github.com/rcliao/framestore/internal/resolver"
)

// LoadParams holds parameters for loading a frame.
type LoadParams struct {
	Name string
	// KnownPath restricts the lookup to one root directory.
	KnownPath string
	// IgnoreAnnotations turns off directive handling for the loaded frame.
	IgnoreAnnotations bool
}

// Load returns the named frame from the cache, the local roots, or the peer,
// in that order. It returns nil when the name is invalid, the frame does not
// exist, or its file cannot be decoded; decode failures are reported through
// the notifier.
func (s *Store) Load(ctx context.Context, p LoadParams) *model.Frame {
	name, err := model.ParseFrameName(p.Name)
	if err != nil {
		glog.V(1).Infof("load %q: %v", p.Name, err)
		return nil
	}
	return s.load(ctx, name, p.KnownPath, p.IgnoreAnnotations)
}

func (s *Store) load(ctx context.Context, name model.FrameName, knownPath string, ignore bool) *model.Frame {
	if f, ok := s.cache.Get(name); ok {
		return f
	}

	roots := s.roots
	if knownPath != "" {
		roots = []string{knownPath}
	}
	for _, root := range roots {
		path, _, ok := s.resolver.ResolvePath([]string{root}, name)
		if !ok {
			continue
		}
		f, err := s.formats.ReadFrame(path)
		if err != nil {
			glog.Errorf("load %s from %s: %v", name, path, err)
			s.notify.Error(name.String() + " could not be successfully loaded")
			return nil
		}
		return s.finishLoad(f, name, root, ignore)
	}

	f, err := s.peer.LoadFrame(ctx, name, knownPath)
	if err != nil {
		if !errors.Is(err, peer.ErrUnavailable) && !errors.Is(err, peer.ErrNotFound) {
			glog.Errorf("load %s from peer: %v", name, err)
			s.notify.Error(name.String() + " could not be successfully loaded")
		}
		return nil
	}
	return s.finishLoad(f, name, f.Path, ignore)
}

func (s *Store) finishLoad(f *model.Frame, name model.FrameName, root string, ignore bool) *model.Frame {
	f.Name = name
	f.Path = root
	f.IgnoreAnnotations = ignore
	f.Changed = false
	f.Saved = false
	s.cache.Put(f)
	return f
}

// loadFresh reads name from storage with the cache suspended.
func (s *Store) loadFresh(ctx context.Context, name model.FrameName, knownPath string) *model.Frame {
	s.cache.Suspend()
	defer s.cache.Resume()
	return s.load(ctx, name, knownPath, false)
}

// Exists reports whether name is cached or has a file under the roots.
func (s *Store) Exists(name model.FrameName) bool {
	if s.cache.Contains(name) {
		return true
	}
	for _, root := range s.roots {
		if _, _, ok := s.resolver.ResolvePath([]string{root}, name); ok {
			return true
		}
	}
	return false
}

// rootFor is the root holding frameset, or the first root when it exists
// nowhere yet.
func (s *Store) rootFor(frameset string) string {
	if root, ok := resolver.FindFrameset(s.roots, frameset); ok {
		return root
	}
	return s.roots[0]
}

// locate returns the file for name under root and whether it exists. A
// missing frame gets the preferred-format path.
func (s *Store) locate(root string, name model.FrameName) (string, bool) {
	if path, _, ok := s.resolver.ResolvePath([]string{root}, name); ok {
		return path, true
	}
	return s.resolver.FramePath(root, name), false
}

func isDir(p string) bool {
	fi, err := os.Stat(p)
	return err == nil && fi.IsDir()
}
