package store

import (
	"context"
	"fmt"
	"io"
	"os"
	"path/filepath"
	"strconv"
	"strings"

	"github.com/golang/glog"

	"github.com/rcliao/framestore/internal/journal"
	"github.com/rcliao/framestore/internal/model"
	"github.com/rcliao/framestore/internal/resolver"
)

// CreateParams holds parameters for creating a frameset.
type CreateParams struct {
	Name string
	// Root is where the frameset directory goes; empty means the first root.
	Root string
	// Reseed rewrites frames 0 and 1 of an existing frameset.
	Reseed bool
}

// Create makes a new frameset, seeds its frame 0 from the default template
// and saves frame 1 titled with the frameset name. Frame 1 is returned.
func (s *Store) Create(ctx context.Context, p CreateParams) (*model.Frame, error) {
	if !model.IsValidFramesetName(p.Name) {
		return nil, fmt.Errorf("%w: %q", ErrInvalidName, p.Name)
	}
	root := p.Root
	if root == "" {
		root = s.roots[0]
	}
	if !p.Reseed {
		if _, ok := resolver.FindFrameset(append(s.Roots(), root), p.Name); ok {
			return nil, fmt.Errorf("%w: %s", ErrFramesetExists, p.Name)
		}
	}

	if err := os.MkdirAll(resolver.FramesetDir(root, p.Name), 0o755); err != nil {
		return nil, fmt.Errorf("create frameset %s: %w", p.Name, err)
	}
	token := model.NewFrameName(p.Name, 1)
	if p.Reseed {
		if last, err := s.counter.ReadNext(ctx, root, p.Name, false); err == nil && last > token.Number {
			token = token.WithNumber(last)
		}
	}
	if err := s.counter.Write(root, p.Name, token); err != nil {
		return nil, fmt.Errorf("create frameset %s: %w", p.Name, err)
	}

	f, err := s.seedTemplate(ctx, p.Name, root)
	if err != nil {
		return nil, err
	}

	f.Name = model.NewFrameName(p.Name, 1)
	f.Version = 0
	f.SetTitle(p.Name)
	f.MarkChanged()
	if _, err := s.save(ctx, f, SaveOptions{overwrite: true, kind: journal.KindCreate}, false); err != nil {
		return nil, fmt.Errorf("create frameset %s: %w", p.Name, err)
	}
	s.cache.Put(f)
	glog.Infof("created frameset %s in %s", p.Name, root)
	return f, nil
}

// seedTemplate writes frame 0 of frameset under root, cloned from the
// default template when one is configured and loadable.
func (s *Store) seedTemplate(ctx context.Context, frameset, root string) (*model.Frame, error) {
	var f *model.Frame
	if !s.defaultTemplate.IsZero() {
		if t := s.loadFresh(ctx, s.defaultTemplate, ""); t != nil {
			f = t.Clone()
			f.StripLinksTo(s.defaultTemplate)
		} else {
			glog.Warningf("default template %s not found, seeding %s empty", s.defaultTemplate, frameset)
		}
	}
	name := model.NewFrameName(frameset, 0)
	if f == nil {
		f = model.NewFrame(name, s.user, s.now())
	}

	s.stamp(f, s.now())
	f.Name = name
	f.Path = root
	f.IgnoreAnnotations = false
	f.MarkChanged()
	if _, err := s.save(ctx, f, SaveOptions{overwrite: true}, false); err != nil {
		return nil, fmt.Errorf("%w: %s: %v", ErrSeedFailed, frameset, err)
	}
	return f, nil
}

// DeleteFrameset moves the frameset into the trash directory and returns
// where it ended up.
func (s *Store) DeleteFrameset(name string) (string, error) {
	if s.trash == "" {
		return "", ErrNoTrash
	}
	return s.MoveFrameset(name, s.trash)
}

// MoveFrameset moves the frameset's directory under dest, appending 2, 3,
// and so on to the directory name while the target is taken. The whole
// cache is cleared first.
func (s *Store) MoveFrameset(name, dest string) (string, error) {
	if !model.IsValidFramesetName(name) {
		return "", fmt.Errorf("%w: %q", ErrInvalidName, name)
	}
	s.cache.Clear()

	root, ok := resolver.FindFrameset(s.roots, name)
	if !ok {
		return "", fmt.Errorf("frameset %s: %w", name, ErrNotFound)
	}
	src := resolver.FramesetDir(root, name)

	if err := os.MkdirAll(dest, 0o755); err != nil {
		return "", fmt.Errorf("move %s: %w", name, err)
	}
	base := strings.ToLower(name)
	target := filepath.Join(dest, base)
	for i := 2; pathExists(target); i++ {
		target = filepath.Join(dest, base+strconv.Itoa(i))
	}

	if err := os.Rename(src, target); err != nil {
		glog.V(1).Infof("rename %s to %s failed, copying: %v", src, target, err)
		if err := moveByCopy(src, target); err != nil {
			return "", fmt.Errorf("move %s: %w", name, err)
		}
	}
	glog.Infof("moved frameset %s to %s", name, target)
	return target, nil
}

// CopyFrameset copies every visible file of src into a new frameset dst in
// the same root. Legacy files named after src are renamed for dst.
func (s *Store) CopyFrameset(ctx context.Context, src, dst string) error {
	for _, name := range []string{src, dst} {
		if !model.IsValidFramesetName(name) {
			return fmt.Errorf("%w: %q", ErrInvalidName, name)
		}
	}
	root, ok := resolver.FindFrameset(s.roots, src)
	if !ok {
		return fmt.Errorf("frameset %s: %w", src, ErrNotFound)
	}
	if _, ok := resolver.FindFrameset(s.roots, dst); ok {
		return fmt.Errorf("%w: %s", ErrFramesetExists, dst)
	}

	from := resolver.FramesetDir(root, src)
	to := resolver.FramesetDir(root, dst)
	if err := os.MkdirAll(to, 0o755); err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}

	entries, err := os.ReadDir(from)
	if err != nil {
		return fmt.Errorf("copy %s: %w", src, err)
	}
	srcPrefix := strings.ToLower(src) + "."
	for _, e := range entries {
		if e.IsDir() || strings.HasPrefix(e.Name(), ".") {
			continue
		}
		target := e.Name()
		if strings.HasPrefix(target, srcPrefix) {
			target = strings.ToLower(dst) + "." + strings.TrimPrefix(target, srcPrefix)
		}
		if err := copyFile(filepath.Join(from, e.Name()), filepath.Join(to, target)); err != nil {
			return fmt.Errorf("copy %s: %w", src, err)
		}
	}

	if last, err := s.counter.ReadNext(ctx, root, dst, false); err == nil {
		if err := s.counter.Write(root, dst, model.NewFrameName(dst, last)); err != nil {
			glog.Warningf("copy %s: %v", src, err)
		}
	}
	glog.Infof("copied frameset %s to %s", src, dst)
	return nil
}

// ListFramesets returns the frameset directory names across all roots.
func (s *Store) ListFramesets() []string {
	return resolver.FramesetDirectoryList(s.roots)
}

// NextNumber is the number the next frame of frameset would get.
func (s *Store) NextNumber(ctx context.Context, frameset string) (int, error) {
	if !model.IsValidFramesetName(frameset) {
		return 0, fmt.Errorf("%w: %q", ErrInvalidName, frameset)
	}
	last, err := s.counter.ReadNext(ctx, s.rootFor(frameset), frameset, false)
	if err != nil {
		return 0, err
	}
	return last + 1, nil
}

func moveByCopy(src, dst string) error {
	if err := os.MkdirAll(dst, 0o755); err != nil {
		return err
	}
	entries, err := os.ReadDir(src)
	if err != nil {
		return err
	}
	for _, e := range entries {
		if e.IsDir() {
			continue
		}
		from := filepath.Join(src, e.Name())
		if err := copyFile(from, filepath.Join(dst, e.Name())); err != nil {
			return err
		}
		if err := os.Remove(from); err != nil {
			return err
		}
	}
	return os.Remove(src)
}

func copyFile(src, dst string) error {
	in, err := os.Open(src)
	if err != nil {
		return err
	}
	defer in.Close()

	out, err := os.OpenFile(dst, os.O_WRONLY|os.O_CREATE|os.O_TRUNC, 0o644)
	if err != nil {
		return err
	}
	if _, err := io.Copy(out, in); err != nil {
		out.Close()
		return err
	}
	return out.Close()
}

func pathExists(p string) bool {
	_, err := os.Stat(p)
	return err == nil
}
